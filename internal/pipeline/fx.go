package pipeline

import (
	"context"

	"github.com/smallbiznis/salesdw/internal/pipeline/domain"
	"github.com/smallbiznis/salesdw/internal/pipeline/repository"
	"go.uber.org/fx"
)

var Module = fx.Module("pipeline",
	fx.Provide(repository.Provide),
	fx.Provide(New),
	fx.Provide(func(r *Runner) domain.Service { return r }),
)

// StartScheduler runs the pipeline on its schedule for the lifetime of the app.
// Stopping the app cancels the active run and waits for it to return.
func StartScheduler(lc fx.Lifecycle, runner *Runner) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			go func() {
				defer close(done)
				runner.RunForever(ctx)
			}()
			return nil
		},
		OnStop: func(stopCtx context.Context) error {
			cancel()
			select {
			case <-done:
				return nil
			case <-stopCtx.Done():
				return stopCtx.Err()
			}
		},
	})
}
