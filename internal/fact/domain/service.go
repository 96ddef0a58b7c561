package domain

import "context"

type Service interface {
	Snapshot(ctx context.Context) (Snapshot, error)
	Load(ctx context.Context) (LoadResult, error)
}
