package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/sysu-ecnc-dev/production-timeline/backend/internal/domain"
)

func (h *Handler) GetPurchaseOrders(w http.ResponseWriter, r *http.Request) {
	h.successResponse(w, r, "获取采购单列表成功", h.catalog.PurchaseOrders())
}

// OpenPurchaseOrder 把采购单暂存到 redis，详情页通过 handoff 接口取回
func (h *Handler) OpenPurchaseOrder(w http.ResponseWriter, r *http.Request) {
	po := r.Context().Value(PurchaseOrderCtx).(domain.PurchaseOrder)

	ctx, cancel := context.WithTimeout(r.Context(), time.Duration(h.config.Redis.OperationTimeout)*time.Second)
	defer cancel()

	if err := h.handoff.Put(ctx, po); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "已打开采购单详情", map[string]string{"id": po.ID})
}

func (h *Handler) GetPurchaseOrderHandoff(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), time.Duration(h.config.Redis.OperationTimeout)*time.Second)
	defer cancel()

	po, err := h.handoff.Get(ctx, chi.URLParam(r, "id"))
	if err != nil {
		h.domainError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取采购单详情成功", po)
}
