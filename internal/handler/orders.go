package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/sysu-ecnc-dev/production-timeline/backend/internal/domain"
)

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	h.successResponse(w, r, "服务正常", map[string]string{
		"environment": h.config.Environment,
	})
}

type orderPage struct {
	Orders []domain.Order `json:"orders"`
	Total  int            `json:"total"`
}

func (h *Handler) GetOrders(w http.ResponseWriter, r *http.Request) {
	offset, limit := 0, 0

	q := r.URL.Query()
	if v := q.Get("offset"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			h.errorResponse(w, r, "分页参数无效")
			return
		}
		offset = n
	}
	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			h.errorResponse(w, r, "分页参数无效")
			return
		}
		limit = n
	}

	orders, total := h.catalog.List(offset, limit)
	h.successResponse(w, r, "获取订单列表成功", orderPage{Orders: orders, Total: total})
}

func (h *Handler) LoadMoreOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.catalog.LoadMore(r.Context())
	if err != nil {
		if errors.Is(err, context.Canceled) {
			// 客户端已经断开，没有必要再写响应
			return
		}
		h.internalServerError(w, r, err)
		return
	}

	_, total := h.catalog.List(0, 0)
	h.successResponse(w, r, "加载更多订单成功", orderPage{Orders: orders, Total: total})
}

func (h *Handler) GetOrder(w http.ResponseWriter, r *http.Request) {
	o := r.Context().Value(OrderCtx).(domain.Order)
	h.successResponse(w, r, "获取订单成功", o)
}

func (h *Handler) UpdateOrderItem(w http.ResponseWriter, r *http.Request) {
	o := r.Context().Value(OrderCtx).(domain.Order)

	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		h.errorResponse(w, r, "子项序号无效")
		return
	}

	var req struct {
		Complete *bool `json:"complete" validate:"required"`
	}
	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	updated, err := h.catalog.SetItemComplete(o.ID, index, *req.Complete)
	if err != nil {
		h.domainError(w, r, err)
		return
	}

	h.successResponse(w, r, "更新订单子项成功", updated)
}

func (h *Handler) UpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	o := r.Context().Value(OrderCtx).(domain.Order)

	var req struct {
		Status string `json:"status" validate:"required"`
	}
	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	status, err := domain.ParseOrderStatus(req.Status)
	if err != nil {
		h.errorResponse(w, r, "订单状态无效")
		return
	}

	updated, err := h.catalog.SetStatus(o.ID, status)
	if err != nil {
		h.domainError(w, r, err)
		return
	}

	h.successResponse(w, r, "更新订单状态成功", updated)
}
