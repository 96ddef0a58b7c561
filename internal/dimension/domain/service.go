package domain

import (
	"context"
	"errors"
)

type Service interface {
	MergeCustomers(ctx context.Context) (MergeResult, error)
	MergeProducts(ctx context.Context) (MergeResult, error)
}

var (
	ErrVersionClosed = errors.New("version_already_closed")
)
