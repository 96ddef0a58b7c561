package domain

import (
	"context"
	"errors"
	"time"
)

// DefaultStatuses is the status enumeration the fact engine expects to resolve.
var DefaultStatuses = []Status{
	{StatusKey: 1, StatusName: "Pending", Description: "Order placed, awaiting fulfilment"},
	{StatusKey: 2, StatusName: "Shipped", Description: "Order handed to the carrier"},
	{StatusKey: 3, StatusName: "Delivered", Description: "Order received by the customer"},
	{StatusKey: 4, StatusName: "Cancelled", Description: "Order cancelled before delivery"},
}

type Service interface {
	VerifyStatuses(ctx context.Context) (VerifyResult, error)
	VerifyCalendar(ctx context.Context) (VerifyResult, error)

	SeedStatuses(ctx context.Context) (SeedResult, error)
	SeedCalendar(ctx context.Context, from, to time.Time) (SeedResult, error)
}

var (
	ErrInvalidDateRange = errors.New("invalid_date_range")
)
