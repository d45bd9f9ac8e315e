package domain

import "errors"

var (
	ErrNoAvailableSlot    = errors.New("no available slot")
	ErrInvalidRange       = errors.New("end slot before start slot")
	ErrBookedOutConflict  = errors.New("booked out conflict")
	ErrInvalidDuration    = errors.New("invalid duration")
	ErrInvalidLine        = errors.New("invalid production line")
	ErrInvalidSlot        = errors.New("invalid slot")
	ErrOrderNotFound      = errors.New("order not found")
	ErrAssignmentNotFound = errors.New("assignment not found")
	ErrBookOutNotFound    = errors.New("book out not found")
	ErrOrderCompleted     = errors.New("order already completed")
	ErrResizeInProgress   = errors.New("resize in progress")
	ErrNoActiveGesture    = errors.New("no active gesture")
	ErrMalformedPayload   = errors.New("malformed drag payload")
	ErrPurchaseNotFound   = errors.New("purchase order not found")
	ErrHandoffNotFound    = errors.New("handoff record not found")
	ErrItemNotFound       = errors.New("order item not found")
)
