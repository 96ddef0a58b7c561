package main

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/salesdw/internal/clock"
	"github.com/smallbiznis/salesdw/internal/config"
	"github.com/smallbiznis/salesdw/internal/dimension"
	"github.com/smallbiznis/salesdw/internal/extract"
	"github.com/smallbiznis/salesdw/internal/fact"
	"github.com/smallbiznis/salesdw/internal/migration"
	"github.com/smallbiznis/salesdw/internal/observability"
	"github.com/smallbiznis/salesdw/internal/pipeline"
	"github.com/smallbiznis/salesdw/internal/reference"
	"github.com/smallbiznis/salesdw/internal/staging"
	"github.com/smallbiznis/salesdw/pkg/db"
	"go.uber.org/fx"
)

const (
	startTimeout = 30 * time.Second
	stopTimeout  = 15 * time.Second
)

// coreModules wires the warehouse without any long-running component.
func coreModules(opts *rootOptions) fx.Option {
	return fx.Options(
		// Core Infrastructure
		config.Module,
		fx.Decorate(opts.decorateConfig),
		observability.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		clock.Module,
		migration.Module,

		// Warehouse
		staging.Module,
		extract.Module,
		reference.Module,
		dimension.Module,
		fact.Module,
		pipeline.Module,
	)
}

func RegisterSnowflake(cfg config.Config) (*snowflake.Node, error) {
	return snowflake.NewNode(cfg.NodeID)
}

// runApp starts the warehouse graph, hands the populated targets to fn and
// stops the graph afterwards.
func runApp(ctx context.Context, opts *rootOptions, fn func(context.Context) error, targets ...any) error {
	app := fx.New(
		coreModules(opts),
		fx.NopLogger,
		fx.Populate(targets...),
	)
	if err := app.Err(); err != nil {
		return err
	}

	startCtx, cancel := context.WithTimeout(ctx, startTimeout)
	defer cancel()
	if err := app.Start(startCtx); err != nil {
		return err
	}
	defer func() {
		stopCtx, cancel := context.WithTimeout(context.Background(), stopTimeout)
		defer cancel()
		_ = app.Stop(stopCtx)
	}()

	return fn(ctx)
}
