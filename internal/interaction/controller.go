package interaction

import (
	"encoding/json"
	"errors"
	"log/slog"
	"sync"

	"github.com/sysu-ecnc-dev/production-timeline/backend/internal/domain"
	"github.com/sysu-ecnc-dev/production-timeline/backend/internal/slot"
)

type Kind string

const (
	KindOrder   Kind = "order"
	KindBookOut Kind = "bookout"
)

type Origin string

const (
	OriginList     Origin = "list"
	OriginTimeline Origin = "timeline"
)

// Payload 是拖拽开始时附带的数据
type Payload struct {
	Kind   Kind   `json:"kind"`
	ID     string `json:"id"`
	Origin Origin `json:"origin"`
}

func (p Payload) valid() bool {
	if p.ID == "" {
		return false
	}
	switch p.Kind {
	case KindOrder:
		return p.Origin == OriginList || p.Origin == OriginTimeline
	case KindBookOut:
		// 停机时段只能从时间轴上拖起
		return p.Origin == OriginTimeline || p.Origin == ""
	default:
		return false
	}
}

// ParsePayload 解析拖放时附带的原始数据
func ParsePayload(raw []byte) (Payload, error) {
	var p Payload
	if err := json.Unmarshal(raw, &p); err != nil {
		return Payload{}, domain.ErrMalformedPayload
	}
	if !p.valid() {
		return Payload{}, domain.ErrMalformedPayload
	}
	return p, nil
}

type Cell struct {
	Date slot.Date `json:"date"`
	Line int       `json:"line"`
	Slot int       `json:"slot"`
}

type HoverResult struct {
	Cell    Cell `json:"cell"`
	Blocked bool `json:"blocked"`
}

type DropEvent struct {
	Date     slot.Date       `json:"date"`
	Line     int             `json:"line"`
	PointerY float64         `json:"pointerY"`
	Grid     Rect            `json:"grid"`
	Payload  json.RawMessage `json:"payload,omitempty"`
}

// DropResult Ignored 为 true 时状态没有任何变化
type DropResult struct {
	Ignored    bool               `json:"ignored"`
	Reason     string             `json:"reason,omitempty"`
	Assignment *domain.Assignment `json:"assignment,omitempty"`
	BookOut    *domain.BookOut    `json:"bookOut,omitempty"`
}

type ResizeResult struct {
	Duration   int                `json:"duration"`
	Assignment *domain.Assignment `json:"assignment,omitempty"`
	BookOut    *domain.BookOut    `json:"bookOut,omitempty"`
}

// Board 是控制器所需的时间轴操作
type Board interface {
	Place(order domain.Order, date slot.Date, line, desired, durationSlots int) (domain.Assignment, error)
	Move(orderID string, line, start, end int) (domain.Assignment, error)
	SetDuration(orderID string, duration int) (domain.Assignment, error)
	Remove(orderID string) error
	AssignmentOf(orderID string) (domain.Assignment, bool)
	BookOut(id string) (domain.BookOut, bool)
	MoveBookOut(id string, line, start int, date slot.Date) (domain.BookOut, error)
	ResizeBookOut(id string, duration int) (domain.BookOut, error)
	IsBlocking(line int, date slot.Date, s int) bool
}

type Orders interface {
	Get(id string) (domain.Order, error)
}

type resizeState struct {
	kind Kind
	id   string
	grid Rect
}

type session struct {
	drag   *Payload
	hover  *Cell
	resize *resizeState
}

// Controller 保存每个客户端会话的临时手势状态，
// 真正的排产变更全部交给 Board 完成
type Controller struct {
	board  Board
	orders Orders
	mapper PointerMapper
	logger *slog.Logger

	mu       sync.Mutex
	sessions map[string]*session
}

type Option func(*Controller)

func WithMapper(m PointerMapper) Option {
	return func(c *Controller) {
		if m != nil {
			c.mapper = m
		}
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(c *Controller) {
		if l != nil {
			c.logger = l
		}
	}
}

func NewController(board Board, orders Orders, opts ...Option) *Controller {
	c := &Controller{
		board:    board,
		orders:   orders,
		mapper:   GridMapper{},
		logger:   slog.Default(),
		sessions: make(map[string]*session),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// session 调用方需持有 c.mu
func (c *Controller) session(id string) *session {
	s, ok := c.sessions[id]
	if !ok {
		s = &session{}
		c.sessions[id] = s
	}
	return s
}

// prune 在会话没有任何手势时删除它，调用方需持有 c.mu
func (c *Controller) prune(id string) {
	s, ok := c.sessions[id]
	if ok && s.drag == nil && s.hover == nil && s.resize == nil {
		delete(c.sessions, id)
	}
}

// resizing 判断是否有会话正在调整该元素的大小，调用方需持有 c.mu
func (c *Controller) resizing(kind Kind, id string) bool {
	for _, s := range c.sessions {
		if s.resize != nil && s.resize.kind == kind && s.resize.id == id {
			return true
		}
	}
	return false
}

func (c *Controller) BeginDrag(sessionID string, p Payload) error {
	if p.Kind == KindBookOut && p.Origin == "" {
		p.Origin = OriginTimeline
	}
	if !p.valid() {
		return domain.ErrMalformedPayload
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.resizing(p.Kind, p.ID) {
		return domain.ErrResizeInProgress
	}

	switch p.Kind {
	case KindOrder:
		order, err := c.orders.Get(p.ID)
		if err != nil {
			return err
		}
		if p.Origin == OriginTimeline && order.IsFullyComplete() {
			return domain.ErrOrderCompleted
		}
	case KindBookOut:
		if _, ok := c.board.BookOut(p.ID); !ok {
			return domain.ErrBookOutNotFound
		}
	}

	s := c.session(sessionID)
	s.drag = &p
	s.hover = nil
	return nil
}

// DragOver 只记录悬停的格子，不修改时间轴
func (c *Controller) DragOver(sessionID string, cell Cell) (HoverResult, error) {
	if !slot.ValidLine(cell.Line) {
		return HoverResult{}, domain.ErrInvalidLine
	}
	if !slot.ValidSlot(cell.Slot) {
		return HoverResult{}, domain.ErrInvalidSlot
	}

	c.mu.Lock()
	s, ok := c.sessions[sessionID]
	if !ok || s.drag == nil {
		c.mu.Unlock()
		return HoverResult{}, domain.ErrNoActiveGesture
	}
	s.hover = &cell
	c.mu.Unlock()

	return HoverResult{
		Cell:    cell,
		Blocked: c.board.IsBlocking(cell.Line, cell.Date, cell.Slot),
	}, nil
}

// Drop 完成一次拖放。无法排入的拖放会被忽略，不返回错误
func (c *Controller) Drop(sessionID string, ev DropEvent) (DropResult, error) {
	var drag *Payload
	c.mu.Lock()
	if s, ok := c.sessions[sessionID]; ok {
		if s.resize != nil {
			c.mu.Unlock()
			return DropResult{}, domain.ErrResizeInProgress
		}
		drag = s.drag
		s.drag, s.hover = nil, nil
		c.prune(sessionID)
	}
	c.mu.Unlock()

	var p Payload
	switch {
	case drag != nil:
		p = *drag
	case len(ev.Payload) > 0:
		parsed, err := ParsePayload(ev.Payload)
		if err != nil {
			return c.ignore(sessionID, err), nil
		}
		p = parsed
	default:
		return c.ignore(sessionID, domain.ErrMalformedPayload), nil
	}

	if !slot.ValidLine(ev.Line) {
		return c.ignore(sessionID, domain.ErrInvalidLine), nil
	}
	target := c.mapper.SlotAt(ev.PointerY, ev.Grid, slot.PerDay)

	switch p.Kind {
	case KindOrder:
		a, err := c.dropOrder(p, ev.Date, ev.Line, target)
		if err != nil {
			return c.ignore(sessionID, err), nil
		}
		return DropResult{Assignment: &a}, nil
	default:
		bo, err := c.board.MoveBookOut(p.ID, ev.Line, target, ev.Date)
		if err != nil {
			return c.ignore(sessionID, err), nil
		}
		return DropResult{BookOut: &bo}, nil
	}
}

func (c *Controller) dropOrder(p Payload, date slot.Date, line, target int) (domain.Assignment, error) {
	order, err := c.orders.Get(p.ID)
	if err != nil {
		return domain.Assignment{}, err
	}

	if p.Origin == OriginList {
		return c.board.Place(order, date, line, target, 0)
	}

	if order.IsFullyComplete() {
		return domain.Assignment{}, domain.ErrOrderCompleted
	}
	current, ok := c.board.AssignmentOf(order.ID)
	if !ok {
		return c.board.Place(order, date, line, target, 0)
	}
	if current.Date == date {
		return c.board.Move(order.ID, line, target, target+current.Duration-1)
	}
	return c.board.Place(order, date, line, target, current.Duration)
}

func (c *Controller) ignore(sessionID string, err error) DropResult {
	c.logger.Debug("拖放被忽略", "session", sessionID, "error", err)
	return DropResult{Ignored: true, Reason: err.Error()}
}

// DropOnList 把正在拖拽的订单放回未排产列表
func (c *Controller) DropOnList(sessionID string) error {
	c.mu.Lock()
	s, ok := c.sessions[sessionID]
	if !ok || s.drag == nil || s.drag.Kind != KindOrder {
		c.mu.Unlock()
		return domain.ErrNoActiveGesture
	}
	p := *s.drag
	s.drag, s.hover = nil, nil
	c.prune(sessionID)
	c.mu.Unlock()

	if p.Origin == OriginList {
		return nil
	}
	if err := c.board.Remove(p.ID); err != nil && !errors.Is(err, domain.ErrAssignmentNotFound) {
		return err
	}
	return nil
}

// BeginResize 激活卡片底部的调整手柄
func (c *Controller) BeginResize(sessionID string, kind Kind, id string, grid Rect) error {
	switch kind {
	case KindOrder:
		if _, ok := c.board.AssignmentOf(id); !ok {
			return domain.ErrAssignmentNotFound
		}
	case KindBookOut:
		if _, ok := c.board.BookOut(id); !ok {
			return domain.ErrBookOutNotFound
		}
	default:
		return domain.ErrMalformedPayload
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	s := c.session(sessionID)
	s.drag, s.hover = nil, nil
	s.resize = &resizeState{kind: kind, id: id, grid: grid}
	return nil
}

// ResizeTo 按指针所在格子计算新的时长并立即提交
func (c *Controller) ResizeTo(sessionID string, pointerY float64) (ResizeResult, error) {
	c.mu.Lock()
	s, ok := c.sessions[sessionID]
	if !ok || s.resize == nil {
		c.mu.Unlock()
		return ResizeResult{}, domain.ErrNoActiveGesture
	}
	rs := *s.resize
	c.mu.Unlock()

	cursor := c.mapper.SlotAt(pointerY, rs.grid, slot.PerDay)

	switch rs.kind {
	case KindOrder:
		current, ok := c.board.AssignmentOf(rs.id)
		if !ok {
			return ResizeResult{}, domain.ErrAssignmentNotFound
		}
		a, err := c.board.SetDuration(rs.id, liveDuration(current.Start, cursor))
		if err != nil {
			return ResizeResult{}, err
		}
		return ResizeResult{Duration: a.Duration, Assignment: &a}, nil
	default:
		current, ok := c.board.BookOut(rs.id)
		if !ok {
			return ResizeResult{}, domain.ErrBookOutNotFound
		}
		bo, err := c.board.ResizeBookOut(rs.id, liveDuration(current.Start, cursor))
		if err != nil {
			return ResizeResult{}, err
		}
		return ResizeResult{Duration: bo.Duration, BookOut: &bo}, nil
	}
}

func (c *Controller) EndResize(sessionID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	s, ok := c.sessions[sessionID]
	if !ok || s.resize == nil {
		return domain.ErrNoActiveGesture
	}
	s.resize = nil
	c.prune(sessionID)
	return nil
}

// Cancel 丢弃会话的所有手势状态
func (c *Controller) Cancel(sessionID string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.sessions, sessionID)
}

// liveDuration 光标所在格子到起点的距离，限制在 [1, PerDay-start]
func liveDuration(start, cursor int) int {
	d := cursor - start + 1
	return max(1, min(d, slot.PerDay-start))
}
