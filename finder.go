// Package md5coll searches for second-block MD5 collisions with the Wang et al. differential: given
// first blocks M0 and M0′ with the published difference, it finds M1 and M1′ = M1 + ΔM1 such that
// MD5(M0‖M1) == MD5(M0′‖M1′). Workers run independent trials in parallel and the first verified
// collision stops them all.
package md5coll

import (
	"context"
	"crypto/rand"
	. "fmt"
	"github.com/google/uuid"
	"github.com/p7r0x7/md5coll/conditions"
	"github.com/p7r0x7/md5coll/search"
	"github.com/p7r0x7/md5coll/verify"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"
)

// Copyright © 2022 Matthew R Bonnette. Licensed under the Apache-2.0 license.

// Finder runs one search session. Run may be called once.
type Finder struct {
	cfg        Config
	search     search.Config
	table      *conditions.Table
	logger     *slog.Logger
	seed       []byte
	onProgress func(Progress)
	session    uuid.UUID
	start      atomic.Pointer[time.Time]

	/* Shared by all workers. claimed bounds the budget; trials counts finished trials. */
	claimed, trials, near, exhausted atomic.Uint64
	found                            atomic.Bool
	result                           atomic.Pointer[Collision]

	mu    sync.Mutex
	stats search.Stats

	newTrial func(worker int) (trialer, error)
}

// trialer is the part of *search.Searcher a worker drives.
type trialer interface {
	Trial() search.Result
	Stats() search.Stats
}

// NewFinder validates cfg, loads its condition table and applies opts.
func NewFinder(cfg Config, opts ...Option) (*Finder, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	f := &Finder{cfg: cfg, logger: slog.Default(), session: uuid.New()}
	for _, opt := range opts {
		opt(f)
	}
	if f.cfg.Workers < 0 {
		return nil, Errorf("%w: workers %d is negative", ErrInvalidConfig, f.cfg.Workers)
	}
	f.cfg = f.cfg.withDefaults()

	if f.table == nil {
		if f.cfg.Conditions == "" {
			f.table = conditions.Default()
		} else {
			t, err := conditions.Load(f.cfg.Conditions)
			if err != nil {
				return nil, Errorf("%w: %w", ErrInvalidConfig, err)
			}
			f.table = t
		}
	}
	if f.seed == nil {
		if f.cfg.Seed != "" {
			f.seed = []byte(f.cfg.Seed)
		} else {
			f.seed = make([]byte, 32)
			if _, err := rand.Read(f.seed); err != nil {
				return nil, Errorf("md5coll: seed: %w", err)
			}
		}
	}

	f.search = f.cfg.searchConfig()
	f.search.Table = f.table
	if _, err := search.New(f.search, search.NewSource(nil, 0)); err != nil {
		return nil, Errorf("%w: %w", ErrInvalidConfig, err)
	}
	f.newTrial = f.searcher
	return f, nil
}

// Session identifies this Finder in logs and results.
func (f *Finder) Session() uuid.UUID { return f.session }

// Stats returns the summed driver counters of every finished worker.
func (f *Finder) Stats() search.Stats {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.stats
}

func (f *Finder) searcher(worker int) (trialer, error) {
	s, err := search.New(f.search, search.NewSource(f.seed, worker))
	if err != nil {
		return nil, err
	}
	return s, nil
}

// Run starts the workers and blocks until one finds a verified collision, the trial budget is
// spent or ctx is done. Budget exhaustion yields ErrNotFound; cancellation yields ctx.Err().
func (f *Finder) Run(ctx context.Context) (Collision, error) {
	trials := make([]trialer, f.cfg.Workers)
	for w := range trials {
		t, err := f.newTrial(w)
		if err != nil {
			return Collision{}, Errorf("%w: worker %d: %w", ErrInvalidConfig, w, err)
		}
		trials[w] = t
	}

	now := time.Now()
	f.start.Store(&now)
	digest := f.table.Digest()
	f.logger.Info("search started",
		"session", f.session,
		"workers", f.cfg.Workers,
		"trials", f.cfg.Trials,
		"conditions", f.table.Len(),
		"table", Sprintf("%x", digest[:8]),
	)

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	reported := make(chan struct{})
	go func() {
		defer close(reported)
		f.report(runCtx)
	}()

	var wg sync.WaitGroup
	for w, trial := range trials {
		wg.Add(1)
		go func(w int, trial trialer) {
			defer wg.Done()
			f.work(runCtx, w, trial)
		}(w, trial)
	}
	wg.Wait()
	cancel()
	<-reported

	p := f.Progress()
	if c := f.result.Load(); c != nil {
		f.logger.Info("collision found",
			"session", f.session,
			"worker", c.Worker,
			"trial", c.Trial,
			"digest", c.DigestHex(),
			"fingerprint", Sprintf("%016x", c.Fingerprint()),
			"trials", p.Trials,
			"near_collisions", p.NearCollisions,
			"elapsed", p.Elapsed.Truncate(time.Millisecond),
		)
		return *c, nil
	}
	if err := ctx.Err(); err != nil {
		f.logger.Info("search cancelled", "session", f.session, "trials", p.Trials, "error", err)
		return Collision{}, err
	}
	f.logger.Info("search exhausted", "session", f.session, "trials", p.Trials, "near_collisions", p.NearCollisions)
	return Collision{}, ErrNotFound
}

// work runs trials until the found flag is set, ctx is done or the budget is claimed.
func (f *Finder) work(ctx context.Context, worker int, t trialer) {
	digester := verify.NewDigester()
	defer digester.Close()
	defer func() {
		f.mu.Lock()
		f.stats = f.stats.Add(t.Stats())
		f.mu.Unlock()
	}()
	for !f.found.Load() && ctx.Err() == nil {
		n := f.claimed.Add(1)
		if f.cfg.Trials > 0 && n > f.cfg.Trials {
			return
		}
		r := t.Trial()
		f.trials.Add(1)

		switch r.Outcome {
		case search.Exhausted:
			f.exhausted.Add(1)
		case search.NearCollision:
			f.near.Add(1)
			f.logger.Debug("near collision",
				"session", f.session,
				"worker", worker,
				"trial", n,
				"fingerprint", Sprintf("%016x", (&Collision{M1: r.M1, M1Prime: r.M1Prime}).Fingerprint()),
			)
		case search.Collision:
			c, err := f.collision(digester, r.Pair, worker, n)
			if err != nil {
				/* The driver and the independent check disagree; count it and keep searching. */
				f.near.Add(1)
				f.logger.Warn("collision failed verification", "session", f.session, "worker", worker, "error", err)
				continue
			}
			f.result.CompareAndSwap(nil, c)
			f.found.Store(true)
		}
	}
}

func (f *Finder) collision(d *verify.Digester, p search.Pair, worker int, trial uint64) (*Collision, error) {
	m0, m0p, delta := f.cfg.blocks()
	digest, err := d.Pair(m0, m0p, p.M1, p.M1Prime, delta)
	if err != nil {
		return nil, err
	}
	return &Collision{
		M0: m0, M0Prime: m0p, M1: p.M1, M1Prime: p.M1Prime, Digest: digest,
		Session: f.session, Worker: worker, Trial: trial,
	}, nil
}
