package domain

import "time"

type MailMessage struct {
	Type string `json:"type"`
	To   string `json:"to"`
	Data any    `json:"data"`
}

// MailTypeCorporateInquiry 企业客户询价表单通知
const MailTypeCorporateInquiry = "corporate_inquiry"

type CorporateInquiry struct {
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	Company     string    `json:"company"`
	Phone       string    `json:"phone"`
	Quantity    int       `json:"quantity"`
	Message     string    `json:"message"`
	SubmittedAt time.Time `json:"submittedAt"`
}
