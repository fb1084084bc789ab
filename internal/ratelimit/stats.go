/*
Copyright © 2025 Acronis International GmbH.

Released under MIT license.
*/

package ratelimit

import (
	"context"
	"time"

	"github.com/acronis/go-hrsearch/log"
	"github.com/acronis/go-hrsearch/service"
)

// NewStatsWorker returns a worker that logs the number of clients tracked by the limiter.
// It is meant to be run by service.PeriodicWorker. Tracked keys are never swept,
// so the log line shows how the limiter memory grows.
func NewStatsWorker(counter KeysCounter, alg Alg, logger log.FieldLogger) service.Worker {
	logger = logger.With(log.String("alg", string(alg)))
	return service.WorkerFunc(func(ctx context.Context) error {
		if err := ctx.Err(); err != nil {
			return nil
		}
		logger.Info("rate limiter stats", log.Int("tracked_keys", counter.Len()))
		return nil
	})
}

// NewStatsUnit wraps the stats worker into a service unit that runs it every interval.
// It returns nil if the limiter cannot report its keys or interval is not positive.
func NewStatsUnit(limiter Limiter, cfg *Config, logger log.FieldLogger) service.Unit {
	counter, ok := limiter.(KeysCounter)
	if !ok || cfg.StatsInterval <= 0 {
		return nil
	}
	worker := service.NewPeriodicWorker(NewStatsWorker(counter, cfg.Alg, logger), time.Duration(cfg.StatsInterval), logger)
	return service.NewWorkerUnit(worker)
}
