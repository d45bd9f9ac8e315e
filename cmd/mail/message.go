package main

import (
	"embed"
	"encoding/json"
	"fmt"
	"html/template"

	"github.com/sysu-ecnc-dev/production-timeline/backend/internal/domain"
	"github.com/wneessen/go-mail"
)

//go:embed templates/*.html
var templateFS embed.FS

var templates = template.Must(template.ParseFS(templateFS, "templates/*.html"))

// inboundMail 与 domain.MailMessage 对应，Data 延迟到确定类型后再解析
type inboundMail struct {
	Type string          `json:"type"`
	To   string          `json:"to"`
	Data json.RawMessage `json:"data"`
}

// buildMessage 根据邮件类型构建邮件
func buildMessage(from string, m inboundMail) (*mail.Msg, error) {
	msg := mail.NewMsg()
	if err := msg.From(from); err != nil {
		return nil, fmt.Errorf("无法设置邮件发件人: %w", err)
	}
	if err := msg.To(m.To); err != nil {
		return nil, fmt.Errorf("无法设置邮件收件人: %w", err)
	}

	switch m.Type {
	case domain.MailTypeCorporateInquiry:
		var inquiry domain.CorporateInquiry
		if err := json.Unmarshal(m.Data, &inquiry); err != nil {
			return nil, fmt.Errorf("邮件数据反序列化失败: %w", err)
		}
		// 方便直接回复询价人
		if err := msg.ReplyTo(inquiry.Email); err != nil {
			return nil, fmt.Errorf("无法设置回复地址: %w", err)
		}
		if err := msg.SetBodyHTMLTemplate(templates.Lookup("corporate_inquiry_email.html"), inquiry); err != nil {
			return nil, fmt.Errorf("无法设置邮件正文: %w", err)
		}
		subject := "企业定制询价 - " + inquiry.Name
		if inquiry.Company != "" {
			subject += "（" + inquiry.Company + "）"
		}
		msg.Subject(subject)
	default:
		return nil, fmt.Errorf("不支持的邮件类型 %q", m.Type)
	}

	return msg, nil
}
