package handler

type ContextKey string

var (
	BoardCtx         ContextKey = "board"
	DateCtx          ContextKey = "date"
	OrderCtx         ContextKey = "order"
	AssignmentCtx    ContextKey = "assignment"
	BookOutCtx       ContextKey = "bookOut"
	PurchaseOrderCtx ContextKey = "purchaseOrder"
)
