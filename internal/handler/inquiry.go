package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sysu-ecnc-dev/production-timeline/backend/internal/domain"
)

type inquiryError struct {
	Error string `json:"error"`
}

// CreateCorporateInquiry 官网表单直接调用，响应格式沿用表单的约定而不是统一的 Response
func (h *Handler) CreateCorporateInquiry(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name     string `json:"name" validate:"required,max=50"`
		Email    string `json:"email" validate:"required,email"`
		Company  string `json:"company" validate:"max=100"`
		Phone    string `json:"phone" validate:"max=30"`
		Quantity int    `json:"quantity" validate:"gte=0"`
		Message  string `json:"message" validate:"required,max=2000"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.writeJSON(w, r, http.StatusBadRequest, inquiryError{Error: "请求格式错误"})
		return
	}
	if err := h.validate.Struct(req); err != nil {
		msg := err.Error()
		if validationErrors, ok := err.(validator.ValidationErrors); ok {
			msg = validationErrors[0].Translate(h.translator)
		}
		h.writeJSON(w, r, http.StatusBadRequest, inquiryError{Error: msg})
		return
	}

	// 准备邮件
	mailMessage := domain.MailMessage{
		Type: domain.MailTypeCorporateInquiry,
		To:   h.config.Email.InquiryRecipient,
		Data: domain.CorporateInquiry{
			Name:        req.Name,
			Email:       req.Email,
			Company:     req.Company,
			Phone:       req.Phone,
			Quantity:    req.Quantity,
			Message:     req.Message,
			SubmittedAt: time.Now(),
		},
	}

	// 序列化邮件
	mailData, err := json.Marshal(mailMessage)
	if err != nil {
		h.logInternalServerError(r, err)
		h.writeJSON(w, r, http.StatusInternalServerError, inquiryError{Error: "服务器内部错误"})
		return
	}

	// 发送邮件到消息队列中
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(h.config.RabbitMQ.PublishTimeout)*time.Second)
	defer cancel()

	if err := h.mailChannel.PublishWithContext(
		ctx,
		"",
		"email_queue",
		true,
		false,
		amqp.Publishing{
			ContentType: "application/json",
			Body:        mailData,
		},
	); err != nil {
		h.logInternalServerError(r, err)
		h.writeJSON(w, r, http.StatusInternalServerError, inquiryError{Error: "提交失败，请稍后再试"})
		return
	}

	h.writeJSON(w, r, http.StatusOK, map[string]bool{"ok": true})
}
