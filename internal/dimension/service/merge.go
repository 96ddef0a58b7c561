package service

import (
	"context"
	"fmt"
	"time"

	"github.com/smallbiznis/salesdw/internal/dimension/domain"
	"go.uber.org/zap"
)

// scd2 describes how one dimension is reconciled against its staged snapshot.
// S is the staged record type, R the dimension version type.
type scd2[S, R any] struct {
	dimension    string
	businessKey  func(S) int64
	findCurrent  func(ctx context.Context, key int64) (*R, error)
	changed      func(current *R, staged S) bool
	newVersion   func(staged S, validFrom time.Time) R
	closeCurrent func(ctx context.Context, current *R, validTo time.Time) error
	insert       func(ctx context.Context, rows []R) error
}

// merge runs one SCD2 pass. New versions are written in a single batch after
// every closure of the pass has been applied. A persistence error stops the
// pass; closures already applied stay applied.
func merge[S, R any](ctx context.Context, log *zap.Logger, today time.Time, staged []S, m scd2[S, R]) (domain.MergeResult, error) {
	result := domain.MergeResult{Dimension: m.dimension}
	closedTo := today.AddDate(0, 0, -1)
	pending := make([]R, 0, len(staged))

	fail := func(err error) (domain.MergeResult, error) {
		result.Success = false
		result.Error = err.Error()
		return result, err
	}

	for _, s := range staged {
		if err := ctx.Err(); err != nil {
			return fail(err)
		}
		key := m.businessKey(s)
		result.Processed++

		current, err := m.findCurrent(ctx, key)
		if err != nil {
			return fail(fmt.Errorf("find current %s %d: %w", m.dimension, key, err))
		}

		switch {
		case current == nil:
			pending = append(pending, m.newVersion(s, today))
			result.Inserted++
		case m.changed(current, s):
			if err := m.closeCurrent(ctx, current, closedTo); err != nil {
				return fail(fmt.Errorf("close %s %d: %w", m.dimension, key, err))
			}
			pending = append(pending, m.newVersion(s, today))
			result.Updated++
			log.Debug("dimension.version.closed",
				zap.String("dimension", m.dimension),
				zap.Int64("business_key", key),
				zap.Time("valid_to", closedTo),
			)
		default:
			result.Unchanged++
		}
	}

	if err := m.insert(ctx, pending); err != nil {
		return fail(fmt.Errorf("insert %s versions: %w", m.dimension, err))
	}

	result.Success = true
	return result, nil
}

// sameText compares nullable attributes exactly; two nulls are equal and a
// null never equals an empty string.
func sameText(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
