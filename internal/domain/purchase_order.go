package domain

import (
	"time"

	"github.com/sysu-ecnc-dev/production-timeline/backend/internal/slot"
)

type PurchaseOrderStatus string

const (
	PurchaseOrderOpen     PurchaseOrderStatus = "待收货"
	PurchaseOrderPartial  PurchaseOrderStatus = "部分收货"
	PurchaseOrderReceived PurchaseOrderStatus = "已收货"
)

type PurchaseOrderLine struct {
	SKU      string `json:"sku"`
	Name     string `json:"name"`
	Ordered  int    `json:"ordered"`
	Received int    `json:"received"`
}

type PurchaseOrder struct {
	ID        string              `json:"id"`
	Vendor    string              `json:"vendor"`
	Status    PurchaseOrderStatus `json:"status"`
	Expected  slot.Date           `json:"expected"`
	Lines     []PurchaseOrderLine `json:"lines"`
	CreatedAt time.Time           `json:"createdAt"`
}
