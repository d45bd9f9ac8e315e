package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/sysu-ecnc-dev/production-timeline/backend/internal/domain"
)

func (h *Handler) logInternalServerError(r *http.Request, err error) {
	slog.Error("服务器内部错误", "method", r.Method, "path", r.URL.Path, "error", err)
}

func (h *Handler) readJSON(r *http.Request, v any) error {
	return json.NewDecoder(r.Body).Decode(v)
}

func (h *Handler) writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logInternalServerError(r, err)
		http.Error(w, "服务器内部错误", http.StatusInternalServerError)
	}
}

type Response struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data"`
}

func (h *Handler) errorResponse(w http.ResponseWriter, r *http.Request, msg string) {
	h.writeJSON(w, r, http.StatusOK, Response{
		Success: false,
		Message: msg,
		Data:    nil,
	})
}

func (h *Handler) badRequest(w http.ResponseWriter, r *http.Request, err error) {
	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		h.errorResponse(w, r, err.Error())
		return
	}

	h.errorResponse(w, r, validationErrors[0].Translate(h.translator))
}

func (h *Handler) internalServerError(w http.ResponseWriter, r *http.Request, err error) {
	h.logInternalServerError(r, err)
	h.writeJSON(w, r, http.StatusInternalServerError, Response{
		Success: false,
		Message: "服务器内部错误",
		Data:    nil,
	})
}

func (h *Handler) successResponse(w http.ResponseWriter, r *http.Request, msg string, data any) {
	h.writeJSON(w, r, http.StatusOK, Response{
		Success: true,
		Message: msg,
		Data:    data,
	})
}

var domainErrorMessages = []struct {
	err error
	msg string
}{
	{domain.ErrNoAvailableSlot, "当天该线路没有足够的空闲时间"},
	{domain.ErrBookedOutConflict, "该时间段已被停机时段占用"},
	{domain.ErrInvalidRange, "结束时间不能早于开始时间"},
	{domain.ErrInvalidDuration, "时长至少为半小时"},
	{domain.ErrInvalidLine, "线路不存在"},
	{domain.ErrInvalidSlot, "时间格子不存在"},
	{domain.ErrOrderNotFound, "订单不存在"},
	{domain.ErrAssignmentNotFound, "该订单尚未排入时间轴"},
	{domain.ErrBookOutNotFound, "停机时段不存在"},
	{domain.ErrOrderCompleted, "订单已全部完成，不能再拖动"},
	{domain.ErrResizeInProgress, "正在调整时长，请先结束调整"},
	{domain.ErrNoActiveGesture, "没有正在进行的拖拽操作"},
	{domain.ErrMalformedPayload, "拖拽数据格式错误"},
	{domain.ErrItemNotFound, "订单子项不存在"},
	{domain.ErrPurchaseNotFound, "采购单不存在"},
	{domain.ErrHandoffNotFound, "采购单详情已过期，请重新打开"},
}

// domainError 把业务错误转换为提示信息，其他错误按服务器内部错误处理
func (h *Handler) domainError(w http.ResponseWriter, r *http.Request, err error) {
	for _, m := range domainErrorMessages {
		if errors.Is(err, m.err) {
			h.errorResponse(w, r, m.msg)
			return
		}
	}
	h.internalServerError(w, r, err)
}
