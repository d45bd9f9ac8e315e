package timeline

import (
	"slices"

	"github.com/sysu-ecnc-dev/production-timeline/backend/internal/domain"
	"github.com/sysu-ecnc-dev/production-timeline/backend/internal/scheduler"
	"github.com/sysu-ecnc-dev/production-timeline/backend/internal/slot"
)

// CreateBookOut 新建停机时段，duration <= 0 时默认一小时
func (b *Board) CreateBookOut(date slot.Date, line, start, duration int, reason string) (domain.BookOut, error) {
	if !slot.ValidLine(line) {
		return domain.BookOut{}, domain.ErrInvalidLine
	}
	if !slot.ValidSlot(start) {
		return domain.BookOut{}, domain.ErrInvalidSlot
	}
	if duration <= 0 {
		duration = domain.DefaultBookOutSlots
	}
	duration = slot.ClampDuration(start, duration)

	bo := domain.BookOut{
		View:     b.view,
		Date:     date,
		Line:     line,
		Start:    start,
		Duration: duration,
		Reason:   reason,
	}

	err := b.update(func(cur, next *snapshot) error {
		if err := b.checkBookOutWindow(cur, bo); err != nil {
			return err
		}
		// 通过检查后才分配 ID，被拒绝的请求不消耗 ID
		bo.ID = b.ids.NewID()
		next.bookOuts[bo.ID] = bo
		return nil
	})
	if err != nil {
		return domain.BookOut{}, err
	}

	b.logger.Info("已创建停机时段", "board", b.name, "id", bo.ID, "date", date.String(), "line", line, "slot", start, "duration", duration)
	return bo, nil
}

// MoveBookOut 移动停机时段，与排产冲突时就近寻找空位，
// 之后再单独检查是否与其他停机时段重叠
func (b *Board) MoveBookOut(id string, line, start int, date slot.Date) (domain.BookOut, error) {
	if !slot.ValidLine(line) {
		return domain.BookOut{}, domain.ErrInvalidLine
	}
	if !slot.ValidSlot(start) {
		return domain.BookOut{}, domain.ErrInvalidSlot
	}

	var moved domain.BookOut
	err := b.update(func(cur, next *snapshot) error {
		existing, ok := cur.bookOuts[id]
		if !ok {
			return domain.ErrBookOutNotFound
		}

		blockers := assignmentBlockers(cur.lineAssignments(b.view, date, line))
		resolved := start
		if scheduler.IsOccupied(blockers, start, existing.Duration, "") {
			s, ok := scheduler.FindNextAvailable(blockers, start, existing.Duration, "")
			if !ok {
				return domain.ErrNoAvailableSlot
			}
			resolved = s
		}

		others := bookOutBlockers(cur.lineBookOuts(b.view, date, line))
		if _, hit := scheduler.FirstOverlap(others, resolved, existing.Duration, bookOutOwner(id)); hit {
			return domain.ErrBookedOutConflict
		}

		moved = existing
		moved.Date = date
		moved.Line = line
		moved.Start = resolved
		next.bookOuts[id] = moved
		return nil
	})
	if err != nil {
		return domain.BookOut{}, err
	}

	b.logger.Info("停机时段已移动", "board", b.name, "id", id, "date", date.String(), "line", line, "slot", moved.Start)
	return moved, nil
}

// ResizeBookOut 设置停机时段时长，至少一个格子，超过当天剩余时间时截断
func (b *Board) ResizeBookOut(id string, duration int) (domain.BookOut, error) {
	if duration < 1 {
		return domain.BookOut{}, domain.ErrInvalidDuration
	}

	var resized domain.BookOut
	err := b.update(func(cur, next *snapshot) error {
		existing, ok := cur.bookOuts[id]
		if !ok {
			return domain.ErrBookOutNotFound
		}

		resized = existing
		resized.Duration = slot.ClampDuration(existing.Start, duration)
		if err := b.checkBookOutWindow(cur, resized); err != nil {
			return err
		}
		next.bookOuts[id] = resized
		return nil
	})
	if err != nil {
		return domain.BookOut{}, err
	}

	b.logger.Info("停机时段时长已调整", "board", b.name, "id", id, "line", resized.Line, "slot", resized.Start, "duration", resized.Duration)
	return resized, nil
}

func (b *Board) DeleteBookOut(id string) error {
	err := b.update(func(cur, next *snapshot) error {
		if _, ok := next.bookOuts[id]; !ok {
			return domain.ErrBookOutNotFound
		}
		delete(next.bookOuts, id)
		return nil
	})
	if err != nil {
		return err
	}

	b.logger.Info("已删除停机时段", "board", b.name, "id", id)
	return nil
}

// IsBlocking 判断该格子是否处于停机时段内
func (b *Board) IsBlocking(line int, date slot.Date, s int) bool {
	for _, bo := range b.state.Load().lineBookOuts(b.view, date, line) {
		if bo.Covers(s) {
			return true
		}
	}
	return false
}

func (b *Board) BookOut(id string) (domain.BookOut, bool) {
	bo, ok := b.state.Load().bookOuts[id]
	return bo, ok
}

func (b *Board) BookOuts() []domain.BookOut {
	cur := b.state.Load()
	out := make([]domain.BookOut, 0, len(cur.bookOuts))
	for _, bo := range cur.bookOuts {
		out = append(out, bo)
	}
	slices.SortFunc(out, func(x, y domain.BookOut) int {
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
	})
	return out
}

// checkBookOutWindow 停机时段既不能压住排产，也不能与其他停机时段重叠
func (b *Board) checkBookOutWindow(cur *snapshot, bo domain.BookOut) error {
	assignments := assignmentBlockers(cur.lineAssignments(b.view, bo.Date, bo.Line))
	if scheduler.IsOccupied(assignments, bo.Start, bo.Duration, "") {
		return domain.ErrNoAvailableSlot
	}

	others := bookOutBlockers(cur.lineBookOuts(b.view, bo.Date, bo.Line))
	if _, hit := scheduler.FirstOverlap(others, bo.Start, bo.Duration, bookOutOwner(bo.ID)); hit {
		return domain.ErrBookedOutConflict
	}
	return nil
}
