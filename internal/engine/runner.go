package engine

import (
	"context"
	"time"
)

const defaultPollInterval = 30 * time.Second

// Runner is the driving loop around an Engine. It ticks once right away and
// then on every poll interval until the engine goes idle or ctx is done.
// Ticks never overlap: a slow tick delays the next one.
type Runner struct {
	engine   *Engine
	interval time.Duration
	log      Logger
}

// NewRunner creates a runner ticking every interval.
func NewRunner(engine *Engine, interval time.Duration, log Logger) *Runner {
	if interval <= 0 {
		interval = time.Duration(engine.Config().PollSeconds) * time.Second
	}
	if interval <= 0 {
		interval = defaultPollInterval
	}
	return &Runner{engine: engine, interval: interval, log: log}
}

// Run blocks until the engine stops. Tick errors are logged and the loop
// carries on. Cancelling ctx stops the engine.
func (r *Runner) Run(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	r.log.Log("analysis loop started")
	defer r.log.Log("analysis loop finished")

	for {
		if err := r.engine.Tick(ctx); err != nil {
			r.log.Log("cycle failed: " + err.Error())
		}
		if !r.engine.Running() {
			return
		}

		select {
		case <-ctx.Done():
			r.engine.Stop()
			return
		case <-ticker.C:
		}
	}
}
