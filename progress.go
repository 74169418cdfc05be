package md5coll

import (
	"context"
	"time"
)

// Copyright © 2022 Matthew R Bonnette. Licensed under the Apache-2.0 license.

// Progress is a snapshot of a running search. Counters are read independently and may be off by
// the trials in flight.
type Progress struct {
	Trials         uint64
	NearCollisions uint64
	Exhausted      uint64
	Found          bool
	Elapsed        time.Duration
}

// Rate returns finished trials per second.
func (p Progress) Rate() float64 {
	if p.Elapsed <= 0 {
		return 0
	}
	return float64(p.Trials) / p.Elapsed.Seconds()
}

// Progress returns the current counters.
func (f *Finder) Progress() Progress {
	p := Progress{
		Trials:         f.trials.Load(),
		NearCollisions: f.near.Load(),
		Exhausted:      f.exhausted.Load(),
		Found:          f.found.Load(),
	}
	if start := f.start.Load(); start != nil {
		p.Elapsed = time.Since(*start)
	}
	return p
}

// Watch calls fn with the counters every interval until ctx is done, and once more after. It is
// independent of the logged progress interval, so a display can refresh faster than the logs.
func (f *Finder) Watch(ctx context.Context, every time.Duration, fn func(Progress)) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			fn(f.Progress())
			return
		case <-ticker.C:
			fn(f.Progress())
		}
	}
}

// report logs and publishes the counters every ProgressEvery until ctx is done.
func (f *Finder) report(ctx context.Context) {
	ticker := time.NewTicker(f.cfg.ProgressEvery)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			if f.onProgress != nil {
				f.onProgress(f.Progress())
			}
			return
		case <-ticker.C:
			p := f.Progress()
			f.logger.Info("progress",
				"session", f.session,
				"trials", p.Trials,
				"near_collisions", p.NearCollisions,
				"exhausted", p.Exhausted,
				"rate", p.Rate(),
				"elapsed", p.Elapsed.Truncate(time.Second),
			)
			if f.onProgress != nil {
				f.onProgress(p)
			}
		}
	}
}
