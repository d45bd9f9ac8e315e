package handler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/sysu-ecnc-dev/production-timeline/backend/internal/domain"
	"github.com/sysu-ecnc-dev/production-timeline/backend/internal/slot"
)

type ResponseWriter struct {
	http.ResponseWriter
	StatusCode int
}

func (rw *ResponseWriter) WriteHeader(statusCode int) {
	rw.StatusCode = statusCode
	rw.ResponseWriter.WriteHeader(statusCode)
}

func (h *Handler) logger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rw := &ResponseWriter{ResponseWriter: w}
		next.ServeHTTP(rw, r)
		duration := time.Since(start)
		slog.Info("已处理请求", "status", rw.StatusCode, "ip", r.RemoteAddr, "method", r.Method, "path", r.URL.Path, "duration", duration)
	})
}

func (h *Handler) recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				h.internalServerError(w, r, fmt.Errorf("panic: %v", err))
				stackTrace := string(debug.Stack())
				fmt.Print(stackTrace) // 这里如果用 slog 的话会很乱
			}
		}()
		next.ServeHTTP(w, r)
	})
}

func (h *Handler) board(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, ok := h.boards[chi.URLParam(r, "board")]
		if !ok {
			h.errorResponse(w, r, "看板不存在")
			return
		}

		ctx := context.WithValue(r.Context(), BoardCtx, b)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (h *Handler) day(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		date, err := slot.ParseDate(chi.URLParam(r, "date"))
		if err != nil {
			h.errorResponse(w, r, "日期格式无效")
			return
		}

		ctx := context.WithValue(r.Context(), DateCtx, date)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (h *Handler) order(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		o, err := h.catalog.Get(chi.URLParam(r, "id"))
		if err != nil {
			switch {
			case errors.Is(err, domain.ErrOrderNotFound):
				h.errorResponse(w, r, "订单不存在")
			default:
				h.internalServerError(w, r, err)
			}
			return
		}

		ctx := context.WithValue(r.Context(), OrderCtx, o)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// assignment 需要在 board 之后使用
func (h *Handler) assignment(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b := r.Context().Value(BoardCtx).(*board)

		a, ok := b.AssignmentOf(chi.URLParam(r, "orderID"))
		if !ok {
			h.errorResponse(w, r, "该订单尚未排入时间轴")
			return
		}

		ctx := context.WithValue(r.Context(), AssignmentCtx, a)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// bookOut 需要在 board 之后使用
func (h *Handler) bookOut(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b := r.Context().Value(BoardCtx).(*board)

		bo, ok := b.BookOut(chi.URLParam(r, "id"))
		if !ok {
			h.errorResponse(w, r, "停机时段不存在")
			return
		}

		ctx := context.WithValue(r.Context(), BookOutCtx, bo)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (h *Handler) purchaseOrder(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		po, err := h.catalog.PurchaseOrder(chi.URLParam(r, "id"))
		if err != nil {
			switch {
			case errors.Is(err, domain.ErrPurchaseNotFound):
				h.errorResponse(w, r, "采购单不存在")
			default:
				h.internalServerError(w, r, err)
			}
			return
		}

		ctx := context.WithValue(r.Context(), PurchaseOrderCtx, po)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
