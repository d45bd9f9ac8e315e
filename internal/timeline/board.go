package timeline

import (
	"log/slog"
	"slices"
	"sync"
	"sync/atomic"

	"github.com/sysu-ecnc-dev/production-timeline/backend/internal/domain"
	"github.com/sysu-ecnc-dev/production-timeline/backend/internal/ids"
	"github.com/sysu-ecnc-dev/production-timeline/backend/internal/scheduler"
	"github.com/sysu-ecnc-dev/production-timeline/backend/internal/slot"
)

// Board 同时承担排产存储和停机时段存储
// 读操作直接读取当前快照，写操作串行执行并整体替换快照
type Board struct {
	name   string
	view   slot.View
	ids    ids.Generator
	logger *slog.Logger

	mu    sync.Mutex
	state atomic.Pointer[snapshot]
}

type Option func(*Board)

func WithLogger(l *slog.Logger) Option {
	return func(b *Board) {
		if l != nil {
			b.logger = l
		}
	}
}

func WithView(v slot.View) Option {
	return func(b *Board) {
		b.view = v
	}
}

func NewBoard(name string, gen ids.Generator, opts ...Option) *Board {
	b := &Board{
		name:   name,
		view:   slot.ViewPrinters,
		ids:    gen,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(b)
	}
	b.state.Store(newSnapshot())
	return b
}

func (b *Board) Name() string {
	return b.name
}

func (b *Board) View() slot.View {
	return b.view
}

// update 在副本上执行 fn，fn 返回 nil 时才发布新快照
func (b *Board) update(fn func(cur, next *snapshot) error) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	cur := b.state.Load()
	next := cur.clone()
	if err := fn(cur, next); err != nil {
		return err
	}
	b.state.Store(next)
	return nil
}

// Place 把订单放到指定格子，若被占用则就近寻找同样长度的空位
// durationSlots <= 0 时按订单预计时长计算
func (b *Board) Place(order domain.Order, date slot.Date, line, desired, durationSlots int) (domain.Assignment, error) {
	if !slot.ValidLine(line) {
		return domain.Assignment{}, domain.ErrInvalidLine
	}
	if !slot.ValidSlot(desired) {
		return domain.Assignment{}, domain.ErrInvalidSlot
	}
	if durationSlots <= 0 {
		durationSlots = order.DurationSlots()
	}
	durationSlots = slot.ClampDuration(desired, durationSlots)

	var placed domain.Assignment
	err := b.update(func(cur, next *snapshot) error {
		start, err := b.resolve(cur, date, line, desired, durationSlots, order.ID)
		if err != nil {
			return err
		}

		placed = domain.Assignment{
			OrderID:  order.ID,
			View:     b.view,
			Date:     date,
			Line:     line,
			Start:    start,
			Duration: durationSlots,
		}
		next.putAssignment(placed)
		return nil
	})
	if err != nil {
		b.logger.Debug("订单无法排入时间轴", "board", b.name, "order", order.ID, "line", line, "slot", desired, "error", err)
		return domain.Assignment{}, err
	}

	b.logger.Info("订单已排入时间轴", "board", b.name, "order", order.ID, "date", date.String(), "line", line, "slot", placed.Start, "duration", placed.Duration)
	return placed, nil
}

// Move 调整订单所在的线路和起止格子，日期保持不变
func (b *Board) Move(orderID string, line, start, end int) (domain.Assignment, error) {
	if end < start {
		return domain.Assignment{}, domain.ErrInvalidRange
	}
	if !slot.ValidLine(line) {
		return domain.Assignment{}, domain.ErrInvalidLine
	}
	if !slot.ValidSlot(start) {
		return domain.Assignment{}, domain.ErrInvalidSlot
	}
	duration := slot.ClampDuration(start, end-start+1)

	var moved domain.Assignment
	err := b.update(func(cur, next *snapshot) error {
		existing, ok := cur.assignmentOf(orderID)
		if !ok {
			return domain.ErrAssignmentNotFound
		}

		resolved, err := b.resolve(cur, existing.Date, line, start, duration, orderID)
		if err != nil {
			return err
		}

		moved = existing
		moved.Line = line
		moved.Start = resolved
		moved.Duration = duration
		next.putAssignment(moved)
		return nil
	})
	if err != nil {
		return domain.Assignment{}, err
	}

	b.logger.Info("订单已移动", "board", b.name, "order", orderID, "line", line, "slot", moved.Start, "duration", moved.Duration)
	return moved, nil
}

// Resize 从尾部逐格伸缩，超出一天的部分被截断，碰到占用时停止
func (b *Board) Resize(orderID string, delta int) (domain.Assignment, error) {
	var resized domain.Assignment
	err := b.update(func(cur, next *snapshot) error {
		existing, ok := cur.assignmentOf(orderID)
		if !ok {
			return domain.ErrAssignmentNotFound
		}

		duration := existing.Duration
		switch {
		case delta < 0:
			if duration+delta < 1 {
				return domain.ErrInvalidDuration
			}
			duration += delta
		case delta > 0:
			blockers := b.blockers(cur, existing.Date, existing.Line)
			blocked := false
			for step := 0; step < delta; step++ {
				if existing.Start+duration+1 > slot.PerDay {
					break
				}
				if scheduler.IsOccupied(blockers, existing.Start, duration+1, orderID) {
					blocked = true
					break
				}
				duration++
			}
			if duration == existing.Duration && blocked {
				return domain.ErrNoAvailableSlot
			}
		}

		resized = existing
		resized.Duration = duration
		next.putAssignment(resized)
		return nil
	})
	if err != nil {
		return domain.Assignment{}, err
	}

	b.logger.Info("订单时长已调整", "board", b.name, "order", orderID, "line", resized.Line, "slot", resized.Start, "duration", resized.Duration)
	return resized, nil
}

// SetDuration 直接设置时长，拖拽调整大小时使用
func (b *Board) SetDuration(orderID string, duration int) (domain.Assignment, error) {
	if duration < 1 {
		return domain.Assignment{}, domain.ErrInvalidDuration
	}

	var resized domain.Assignment
	err := b.update(func(cur, next *snapshot) error {
		existing, ok := cur.assignmentOf(orderID)
		if !ok {
			return domain.ErrAssignmentNotFound
		}

		d := slot.ClampDuration(existing.Start, duration)
		if scheduler.IsOccupied(b.blockers(cur, existing.Date, existing.Line), existing.Start, d, orderID) {
			return domain.ErrNoAvailableSlot
		}

		resized = existing
		resized.Duration = d
		next.putAssignment(resized)
		return nil
	})
	if err != nil {
		return domain.Assignment{}, err
	}

	b.logger.Info("订单时长已设置", "board", b.name, "order", orderID, "line", resized.Line, "slot", resized.Start, "duration", resized.Duration)
	return resized, nil
}

// Remove 把订单从时间轴上移除，订单被拖回列表时调用
func (b *Board) Remove(orderID string) error {
	err := b.update(func(cur, next *snapshot) error {
		if !next.removeAssignment(orderID) {
			return domain.ErrAssignmentNotFound
		}
		return nil
	})
	if err != nil {
		return err
	}

	b.logger.Info("订单已移出时间轴", "board", b.name, "order", orderID)
	return nil
}

// Query 返回覆盖该格子的排产
func (b *Board) Query(date slot.Date, line, s int) (domain.Assignment, bool) {
	cur := b.state.Load()
	for st := min(s, slot.PerDay-1); st >= 0; st-- {
		a, ok := cur.assignments[slot.KeyOf(b.view, date, line, st)]
		if !ok {
			continue
		}
		// 区间互不重叠，最近的起点不覆盖就说明没有排产覆盖此格
		if a.Covers(s) {
			return a, true
		}
		return domain.Assignment{}, false
	}
	return domain.Assignment{}, false
}

// StartingAt 只返回以该格子为起点的排产，渲染卡片时使用
func (b *Board) StartingAt(date slot.Date, line, s int) (domain.Assignment, bool) {
	a, ok := b.state.Load().assignments[slot.KeyOf(b.view, date, line, s)]
	return a, ok
}

func (b *Board) AssignmentOf(orderID string) (domain.Assignment, bool) {
	return b.state.Load().assignmentOf(orderID)
}

func (b *Board) Assignments() []domain.Assignment {
	cur := b.state.Load()
	out := make([]domain.Assignment, 0, len(cur.assignments))
	for _, a := range cur.assignments {
		out = append(out, a)
	}
	slices.SortFunc(out, compareAssignments)
	return out
}

// resolve 返回最终的起始格子，desired 空闲时原样返回
func (b *Board) resolve(cur *snapshot, date slot.Date, line, desired, duration int, orderID string) (int, error) {
	blockers := b.blockers(cur, date, line)
	if !scheduler.IsOccupied(blockers, desired, duration, orderID) {
		return desired, nil
	}

	if start, ok := scheduler.FindNextAvailable(blockers, desired, duration, orderID); ok {
		return start, nil
	}

	if _, hit := scheduler.FirstOverlap(bookOutBlockers(cur.lineBookOuts(b.view, date, line)), desired, duration, ""); hit {
		return 0, domain.ErrBookedOutConflict
	}
	return 0, domain.ErrNoAvailableSlot
}

// blockers 包含当天该线路上的所有排产和停机时段
func (b *Board) blockers(cur *snapshot, date slot.Date, line int) []scheduler.Interval {
	blockers := assignmentBlockers(cur.lineAssignments(b.view, date, line))
	return append(blockers, bookOutBlockers(cur.lineBookOuts(b.view, date, line))...)
}

func compareAssignments(x, y domain.Assignment) int {
	switch {
	case x.Date != y.Date:
		if x.Date.Before(y.Date) {
			return -1
		}
		return 1
	case x.Line != y.Line:
		return x.Line - y.Line
	default:
		return x.Start - y.Start
	}
}
