package filesystem

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/ZanzyTHEbar/finddd/finddd/filesystem/common"
	"github.com/ZanzyTHEbar/finddd/finddd/filesystem/interfaces"
	"github.com/ZanzyTHEbar/finddd/finddd/filesystem/options"

	"github.com/rs/zerolog"
	"github.com/sourcegraph/conc/panics"
	"github.com/sourcegraph/conc/pool"
)

// Dispatcher runs a callback over matched paths with a bounded worker pool
type Dispatcher struct {
	workers int
	policy  options.DispatchPolicy
	log     zerolog.Logger
}

// NewDispatcher creates a Dispatcher. workers <= 0 selects the host's CPU count.
func NewDispatcher(workers int, policy options.DispatchPolicy, log zerolog.Logger) *Dispatcher {
	opts := options.SearchOptions{Workers: workers}
	if policy == "" {
		policy = options.DispatchBestEffort
	}
	return &Dispatcher{
		workers: opts.EffectiveWorkers(),
		policy:  policy,
		log:     log,
	}
}

// Dispatch invokes cb once per path and blocks until every started callback
// has returned. Callback panics are recovered and reported as errors wrapping
// common.ErrCallbackPanic.
//
// With DispatchBestEffort every path is dispatched and all failures are
// joined. With DispatchFailFast the first failure cancels the context passed
// to running callbacks, remaining paths are not started, and only the first
// failure is returned.
func (d *Dispatcher) Dispatch(ctx context.Context, paths []string, cb interfaces.Callback, stats *common.SearchStats) error {
	if cb == nil || len(paths) == 0 {
		return nil
	}
	if stats == nil {
		stats = &common.SearchStats{}
	}

	p := pool.New().WithContext(ctx).WithMaxGoroutines(d.workers)
	failFast := d.policy == options.DispatchFailFast
	if failFast {
		p = p.WithCancelOnError().WithFirstError()
	}

	var stopped atomic.Bool
	var cancelled error

	for _, path := range paths {
		if failFast && stopped.Load() {
			break
		}
		if err := ctx.Err(); err != nil {
			cancelled = err
			break
		}

		p.Go(func(ctx context.Context) error {
			if failFast && (stopped.Load() || ctx.Err() != nil) {
				return nil
			}
			stats.Dispatched.Add(1)
			if err := d.invoke(ctx, cb, path); err != nil {
				stats.Failed.Add(1)
				stopped.Store(true)
				d.log.Debug().Err(err).Str("path", path).Msg("Callback failed")
				return err
			}
			return nil
		})
	}

	err := p.Wait()
	if cancelled != nil {
		err = errors.Join(err, cancelled)
	}
	if err != nil {
		d.log.Warn().
			Int64("failed", stats.Failed.Load()).
			Int64("dispatched", stats.Dispatched.Load()).
			Str("policy", string(d.policy)).
			Msg("Dispatch finished with errors")
	}
	return err
}

func (d *Dispatcher) invoke(ctx context.Context, cb interfaces.Callback, path string) error {
	var err error
	var pc panics.Catcher
	pc.Try(func() { err = cb(ctx, path) })

	if rec := pc.Recovered(); rec != nil {
		return fmt.Errorf("%w: %s: %v", common.ErrCallbackPanic, path, rec.Value)
	}
	if err != nil {
		return fmt.Errorf("callback failed for %s: %w", path, err)
	}
	return nil
}
