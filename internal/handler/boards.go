package handler

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/sysu-ecnc-dev/production-timeline/backend/internal/domain"
	"github.com/sysu-ecnc-dev/production-timeline/backend/internal/slot"
	"github.com/sysu-ecnc-dev/production-timeline/backend/internal/timeline"
)

// orderCard 是时间轴卡片上展示的订单信息
type orderCard struct {
	ID            string             `json:"id"`
	Name          string             `json:"name"`
	Customer      string             `json:"customer"`
	Status        domain.OrderStatus `json:"status"`
	ShelfLocation string             `json:"shelfLocation"`
	TimeLabel     string             `json:"timeLabel"`
	Overdue       bool               `json:"overdue"`
	Completed     bool               `json:"completed"`

	Vendor      string             `json:"vendor,omitempty"`
	Fulfillment domain.Fulfillment `json:"fulfillment,omitempty"`
}

type dayResponse struct {
	timeline.DayView
	Orders map[string]orderCard `json:"orders"`
}

func (h *Handler) card(b *board, a domain.Assignment) (orderCard, bool) {
	o, err := h.catalog.Get(a.OrderID)
	if err != nil {
		return orderCard{}, false
	}

	c := orderCard{
		ID:            o.ID,
		Name:          o.Name,
		Customer:      o.Customer,
		Status:        o.Status,
		ShelfLocation: o.ShelfLocation,
		TimeLabel:     a.TimeLabel(),
		Overdue:       o.IsOverdue(a.Date),
		Completed:     o.IsFullyComplete(),
	}
	if b.receiving {
		c.Vendor = o.Vendor
		c.Fulfillment = o.Fulfillment
	}
	return c, true
}

func (h *Handler) GetDay(w http.ResponseWriter, r *http.Request) {
	b := r.Context().Value(BoardCtx).(*board)
	date := r.Context().Value(DateCtx).(slot.Date)

	dv := b.Day(date)
	resp := dayResponse{DayView: dv, Orders: make(map[string]orderCard)}
	for _, line := range dv.Lines {
		for _, cell := range line.Cells {
			if cell.Assignment == nil {
				continue
			}
			if c, ok := h.card(b, *cell.Assignment); ok {
				resp.Orders[c.ID] = c
			}
		}
	}

	h.successResponse(w, r, "获取时间轴成功", resp)
}

func (h *Handler) GetCell(w http.ResponseWriter, r *http.Request) {
	b := r.Context().Value(BoardCtx).(*board)
	date := r.Context().Value(DateCtx).(slot.Date)

	line, err := strconv.Atoi(chi.URLParam(r, "line"))
	if err != nil || !slot.ValidLine(line) {
		h.errorResponse(w, r, "线路不存在")
		return
	}
	s, err := strconv.Atoi(chi.URLParam(r, "slot"))
	if err != nil || !slot.ValidSlot(s) {
		h.errorResponse(w, r, "时间格子不存在")
		return
	}

	resp := struct {
		Label      string             `json:"label"`
		Blocked    bool               `json:"blocked"`
		Assignment *domain.Assignment `json:"assignment"`
		Order      *orderCard         `json:"order"`
	}{
		Label:   slot.Label(s),
		Blocked: b.IsBlocking(line, date, s),
	}
	if a, ok := b.Query(date, line, s); ok {
		resp.Assignment = &a
		if c, ok := h.card(b, a); ok {
			resp.Order = &c
		}
	}

	h.successResponse(w, r, "获取格子信息成功", resp)
}

func (h *Handler) CreateAssignment(w http.ResponseWriter, r *http.Request) {
	b := r.Context().Value(BoardCtx).(*board)

	var req struct {
		OrderID       string    `json:"orderID" validate:"required"`
		Date          slot.Date `json:"date" validate:"required"`
		Line          *int      `json:"line" validate:"required,gte=0,lt=5"`
		Slot          *int      `json:"slot" validate:"required,gte=0,lt=18"`
		DurationSlots int       `json:"durationSlots" validate:"gte=0"`
	}
	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	o, err := h.catalog.Get(req.OrderID)
	if err != nil {
		h.domainError(w, r, err)
		return
	}

	a, err := b.Place(o, req.Date, *req.Line, *req.Slot, req.DurationSlots)
	if err != nil {
		h.domainError(w, r, err)
		return
	}

	h.successResponse(w, r, "排产成功", a)
}

// UpdateAssignment 是编辑表单使用的接口，冲突时返回错误而不是静默忽略
func (h *Handler) UpdateAssignment(w http.ResponseWriter, r *http.Request) {
	b := r.Context().Value(BoardCtx).(*board)
	existing := r.Context().Value(AssignmentCtx).(domain.Assignment)

	var req struct {
		Line  *int `json:"line" validate:"required,gte=0,lt=5"`
		Start *int `json:"start" validate:"required,gte=0,lt=18"`
		End   *int `json:"end" validate:"required,gte=0,lt=18"`
	}
	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	a, err := b.Move(existing.OrderID, *req.Line, *req.Start, *req.End)
	if err != nil {
		h.domainError(w, r, err)
		return
	}

	h.successResponse(w, r, "更新排产成功", a)
}

func (h *Handler) ResizeAssignment(w http.ResponseWriter, r *http.Request) {
	b := r.Context().Value(BoardCtx).(*board)
	existing := r.Context().Value(AssignmentCtx).(domain.Assignment)

	var req struct {
		Delta int `json:"delta" validate:"required"`
	}
	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	a, err := b.Resize(existing.OrderID, req.Delta)
	if err != nil {
		h.domainError(w, r, err)
		return
	}

	h.successResponse(w, r, "调整时长成功", a)
}

func (h *Handler) DeleteAssignment(w http.ResponseWriter, r *http.Request) {
	b := r.Context().Value(BoardCtx).(*board)
	existing := r.Context().Value(AssignmentCtx).(domain.Assignment)

	if err := b.Remove(existing.OrderID); err != nil {
		h.domainError(w, r, err)
		return
	}

	h.successResponse(w, r, "已移出时间轴", nil)
}

func (h *Handler) GetBookOuts(w http.ResponseWriter, r *http.Request) {
	b := r.Context().Value(BoardCtx).(*board)
	h.successResponse(w, r, "获取停机时段成功", b.BookOuts())
}

func (h *Handler) CreateBookOut(w http.ResponseWriter, r *http.Request) {
	b := r.Context().Value(BoardCtx).(*board)

	var req struct {
		Date          slot.Date `json:"date" validate:"required"`
		Line          *int      `json:"line" validate:"required,gte=0,lt=5"`
		Start         *int      `json:"start" validate:"required,gte=0,lt=18"`
		DurationSlots int       `json:"durationSlots" validate:"gte=0"`
		Reason        string    `json:"reason" validate:"max=100"`
	}
	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	bo, err := b.CreateBookOut(req.Date, *req.Line, *req.Start, req.DurationSlots, req.Reason)
	if err != nil {
		h.domainError(w, r, err)
		return
	}

	h.successResponse(w, r, "创建停机时段成功", bo)
}

func (h *Handler) UpdateBookOut(w http.ResponseWriter, r *http.Request) {
	b := r.Context().Value(BoardCtx).(*board)
	existing := r.Context().Value(BookOutCtx).(domain.BookOut)

	var req struct {
		Date  slot.Date `json:"date" validate:"required"`
		Line  *int      `json:"line" validate:"required,gte=0,lt=5"`
		Start *int      `json:"start" validate:"required,gte=0,lt=18"`
	}
	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	bo, err := b.MoveBookOut(existing.ID, *req.Line, *req.Start, req.Date)
	if err != nil {
		h.domainError(w, r, err)
		return
	}

	h.successResponse(w, r, "移动停机时段成功", bo)
}

func (h *Handler) UpdateBookOutDuration(w http.ResponseWriter, r *http.Request) {
	b := r.Context().Value(BoardCtx).(*board)
	existing := r.Context().Value(BookOutCtx).(domain.BookOut)

	var req struct {
		DurationSlots int `json:"durationSlots" validate:"required,gte=1"`
	}
	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	bo, err := b.ResizeBookOut(existing.ID, req.DurationSlots)
	if err != nil {
		h.domainError(w, r, err)
		return
	}

	h.successResponse(w, r, "调整停机时段成功", bo)
}

func (h *Handler) DeleteBookOut(w http.ResponseWriter, r *http.Request) {
	b := r.Context().Value(BoardCtx).(*board)
	existing := r.Context().Value(BookOutCtx).(domain.BookOut)

	if err := b.DeleteBookOut(existing.ID); err != nil {
		h.domainError(w, r, err)
		return
	}

	h.successResponse(w, r, "删除停机时段成功", nil)
}
