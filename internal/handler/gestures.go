package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/sysu-ecnc-dev/production-timeline/backend/internal/interaction"
	"github.com/sysu-ecnc-dev/production-timeline/backend/internal/slot"
)

func (h *Handler) BeginDrag(w http.ResponseWriter, r *http.Request) {
	b := r.Context().Value(BoardCtx).(*board)

	var req struct {
		Kind   string `json:"kind" validate:"required,oneof=order bookout"`
		ID     string `json:"id" validate:"required"`
		Origin string `json:"origin" validate:"omitempty,oneof=list timeline"`
	}
	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	p := interaction.Payload{
		Kind:   interaction.Kind(req.Kind),
		ID:     req.ID,
		Origin: interaction.Origin(req.Origin),
	}
	if err := b.controller.BeginDrag(chi.URLParam(r, "session"), p); err != nil {
		h.domainError(w, r, err)
		return
	}

	h.successResponse(w, r, "开始拖拽", p)
}

func (h *Handler) DragOver(w http.ResponseWriter, r *http.Request) {
	b := r.Context().Value(BoardCtx).(*board)

	var req struct {
		Date slot.Date `json:"date" validate:"required"`
		Line *int      `json:"line" validate:"required"`
		Slot *int      `json:"slot" validate:"required"`
	}
	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	hover, err := b.controller.DragOver(chi.URLParam(r, "session"), interaction.Cell{
		Date: req.Date,
		Line: *req.Line,
		Slot: *req.Slot,
	})
	if err != nil {
		h.domainError(w, r, err)
		return
	}

	h.successResponse(w, r, "已更新悬停位置", hover)
}

// Drop 无法排入时依然返回成功，客户端根据 ignored 字段判断
func (h *Handler) Drop(w http.ResponseWriter, r *http.Request) {
	b := r.Context().Value(BoardCtx).(*board)

	var req struct {
		Date     slot.Date        `json:"date" validate:"required"`
		Line     int              `json:"line"`
		PointerY float64          `json:"pointerY"`
		Grid     interaction.Rect `json:"grid"`
		Payload  json.RawMessage  `json:"payload"`
	}
	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	res, err := b.controller.Drop(chi.URLParam(r, "session"), interaction.DropEvent{
		Date:     req.Date,
		Line:     req.Line,
		PointerY: req.PointerY,
		Grid:     req.Grid,
		Payload:  req.Payload,
	})
	if err != nil {
		h.domainError(w, r, err)
		return
	}

	if res.Ignored {
		h.successResponse(w, r, "拖放未生效", res)
		return
	}
	h.successResponse(w, r, "拖放成功", res)
}

func (h *Handler) DropOnList(w http.ResponseWriter, r *http.Request) {
	b := r.Context().Value(BoardCtx).(*board)

	if err := b.controller.DropOnList(chi.URLParam(r, "session")); err != nil {
		h.domainError(w, r, err)
		return
	}

	h.successResponse(w, r, "已放回订单列表", nil)
}

func (h *Handler) BeginResize(w http.ResponseWriter, r *http.Request) {
	b := r.Context().Value(BoardCtx).(*board)

	var req struct {
		Kind string           `json:"kind" validate:"required,oneof=order bookout"`
		ID   string           `json:"id" validate:"required"`
		Grid interaction.Rect `json:"grid"`
	}
	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	if err := b.controller.BeginResize(chi.URLParam(r, "session"), interaction.Kind(req.Kind), req.ID, req.Grid); err != nil {
		h.domainError(w, r, err)
		return
	}

	h.successResponse(w, r, "开始调整时长", nil)
}

func (h *Handler) ResizeMove(w http.ResponseWriter, r *http.Request) {
	b := r.Context().Value(BoardCtx).(*board)

	var req struct {
		PointerY float64 `json:"pointerY"`
	}
	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	res, err := b.controller.ResizeTo(chi.URLParam(r, "session"), req.PointerY)
	if err != nil {
		h.domainError(w, r, err)
		return
	}

	h.successResponse(w, r, "调整时长成功", res)
}

func (h *Handler) EndResize(w http.ResponseWriter, r *http.Request) {
	b := r.Context().Value(BoardCtx).(*board)

	if err := b.controller.EndResize(chi.URLParam(r, "session")); err != nil {
		h.domainError(w, r, err)
		return
	}

	h.successResponse(w, r, "结束调整时长", nil)
}

func (h *Handler) CancelGesture(w http.ResponseWriter, r *http.Request) {
	b := r.Context().Value(BoardCtx).(*board)
	b.controller.Cancel(chi.URLParam(r, "session"))
	h.successResponse(w, r, "已取消", nil)
}
