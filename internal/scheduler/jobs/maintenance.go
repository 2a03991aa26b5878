package jobs

import (
	"context"

	"github.com/optionsense/backend/pkg/logger"
)

type chainSweeper interface {
	SweepChainCache() int
}

// ChainCacheSweepJob drops expired option-chain snapshots so symbols
// queried once do not pin memory all day.
type ChainCacheSweepJob struct {
	sweeper chainSweeper
	logger  *logger.Logger
}

func NewChainCacheSweepJob(sweeper chainSweeper, log *logger.Logger) *ChainCacheSweepJob {
	return &ChainCacheSweepJob{sweeper: sweeper, logger: log}
}

func (j *ChainCacheSweepJob) Name() string { return "chain_cache_sweep" }

// Schedule runs at the top of every hour.
func (j *ChainCacheSweepJob) Schedule() string { return "0 0 * * * *" }

func (j *ChainCacheSweepJob) Run(_ context.Context) error {
	if removed := j.sweeper.SweepChainCache(); removed > 0 {
		j.logger.WithField("removed", removed).Info("option chain cache swept")
	}
	return nil
}
