package domain

import (
	"context"
	"errors"
	"time"

	"github.com/smallbiznis/salesdw/internal/config"
	stagingdomain "github.com/smallbiznis/salesdw/internal/staging/domain"
)

const (
	EntityCustomers    = "customers"
	EntityProducts     = "products"
	EntityOrders       = "orders"
	EntityOrderDetails = "order_details"
)

// Source reads one entity from an upstream system. loadDate is stamped on
// every returned record.
type Source[T any] interface {
	Name() string
	Extract(ctx context.Context, loadDate time.Time) ([]T, error)
}

type Sources struct {
	Customers    Source[stagingdomain.Customer]
	Products     Source[stagingdomain.Product]
	Orders       Source[stagingdomain.Order]
	OrderDetails Source[stagingdomain.OrderDetail]
}

// SourceFactory builds the sources for one run from the current pipeline config.
type SourceFactory func(cfg config.PipelineConfig) Sources

type ExtractionResult struct {
	Customers    int    `json:"customers"`
	Products     int    `json:"products"`
	Orders       int    `json:"orders"`
	OrderDetails int    `json:"order_details"`
	Success      bool   `json:"success"`
	Error        string `json:"error,omitempty"`
}

type Service interface {
	Run(ctx context.Context) (ExtractionResult, error)
}

var (
	ErrSourceNotFound    = errors.New("source_not_found")
	ErrSourceUnavailable = errors.New("source_unavailable")
	ErrInvalidRecord     = errors.New("invalid_record")
)
