package domain

import (
	"fmt"

	"github.com/sysu-ecnc-dev/production-timeline/backend/internal/slot"
)

type OrderStatus string

const (
	OrderStatusReceived   OrderStatus = "已收货"
	OrderStatusInReview   OrderStatus = "样稿审核中"
	OrderStatusApproved   OrderStatus = "样稿已确认"
	OrderStatusInProgress OrderStatus = "生产中"
	OrderStatusCompleted  OrderStatus = "已完成"
)

var OrderStatuses = []OrderStatus{
	OrderStatusReceived,
	OrderStatusInReview,
	OrderStatusApproved,
	OrderStatusInProgress,
	OrderStatusCompleted,
}

func ParseOrderStatus(s string) (OrderStatus, error) {
	for _, st := range OrderStatuses {
		if string(st) == s {
			return st, nil
		}
	}
	return "", fmt.Errorf("未知的订单状态 %q", s)
}

type Fulfillment string

const (
	FulfillmentPickup   Fulfillment = "自提"
	FulfillmentDelivery Fulfillment = "配送"
	FulfillmentShipping Fulfillment = "快递"
)

var Fulfillments = []Fulfillment{FulfillmentPickup, FulfillmentDelivery, FulfillmentShipping}

type OrderItem struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
	Complete bool   `json:"complete"`
}

type Order struct {
	ID               string      `json:"id"`
	Name             string      `json:"name"`
	Customer         string      `json:"customer"`
	EstimatedMinutes int         `json:"estimatedMinutes"`
	Deadline         slot.Date   `json:"deadline"`
	ShelfLocation    string      `json:"shelfLocation"`
	Status           OrderStatus `json:"status"`
	Items            []OrderItem `json:"items"`

	// 以下字段只在收货看板中展示
	Vendor      string      `json:"vendor,omitempty"`
	Fulfillment Fulfillment `json:"fulfillment,omitempty"`
}

// DurationSlots 是订单放到时间轴上时默认占用的格子数
func (o *Order) DurationSlots() int {
	return slot.SlotsForMinutes(o.EstimatedMinutes)
}

// IsFullyComplete 当所有需要完成的子项都已完成时返回 true
func (o *Order) IsFullyComplete() bool {
	if len(o.Items) == 0 {
		return false
	}
	for _, item := range o.Items {
		if !item.Complete {
			return false
		}
	}
	return true
}

// Clone 返回一份不与原订单共享子项切片的副本
func (o Order) Clone() Order {
	o.Items = append([]OrderItem(nil), o.Items...)
	return o
}

// IsOverdue 指示订单被排在截止日期之后
func (o *Order) IsOverdue(scheduled slot.Date) bool {
	switch {
	case o.Deadline.IsZero():
		return false
	default:
		return o.Deadline.Before(scheduled)
	}
}
