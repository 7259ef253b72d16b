package modules

import (
	"context"
	"log/slog"

	"go.uber.org/fx"

	"github.com/rolodexd/rolodexd/internal/batch"
	"github.com/rolodexd/rolodexd/internal/config"
	"github.com/rolodexd/rolodexd/internal/contacts"
	"github.com/rolodexd/rolodexd/internal/dispatch"
	"github.com/rolodexd/rolodexd/internal/fetch"
	"github.com/rolodexd/rolodexd/internal/groups"
	"github.com/rolodexd/rolodexd/internal/partition"
	"github.com/rolodexd/rolodexd/internal/store"
)

var DomainModule = fx.Module(
	"domain",
	fx.Provide(
		provideExecutor,
		providePipeline,
		provideDispatchPool,
		providePartitionPolicy,
		contacts.NewService,
		groups.NewService,
	),
)

func provideExecutor(log *slog.Logger, st store.Store, cfg config.Config) *batch.Executor {
	return batch.NewExecutor(log, st, batch.Options{
		ChunkSize:  cfg.Batch.ChunkSize,
		YieldEvery: cfg.Batch.YieldEvery,
		ArgLimit:   cfg.Batch.ArgLimit,
	})
}

func providePipeline(log *slog.Logger, st store.Store, cfg config.Config) *fetch.Pipeline {
	return fetch.NewPipeline(log, st, cfg.Fetch.Workers)
}

func provideDispatchPool(lc fx.Lifecycle, cfg config.Config) *dispatch.Pool {
	pool := dispatch.NewPool(cfg.Fetch.PoolSize)
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			pool.Close()
			return nil
		},
	})
	return pool
}

func providePartitionPolicy(cfg config.Config) partition.Policy {
	return partition.Policy{DefaultPartitionID: cfg.Partition.DefaultPartitionID}
}
