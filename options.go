package md5coll

import (
	"github.com/p7r0x7/md5coll/conditions"
	"log/slog"
)

// Copyright © 2022 Matthew R Bonnette. Licensed under the Apache-2.0 license.

// Option configures a Finder beyond its Config.
type Option func(*Finder)

// WithLogger sets the logger for lifecycle and progress events. The default is slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(f *Finder) {
		if l != nil {
			f.logger = l
		}
	}
}

// WithWorkers overrides Config.Workers.
func WithWorkers(n int) Option {
	return func(f *Finder) { f.cfg.Workers = n }
}

// WithSeed fixes the seed every worker's random source is derived from.
func WithSeed(seed []byte) Option {
	return func(f *Finder) { f.seed = append([]byte(nil), seed...) }
}

// WithTable replaces the condition table named by Config.Conditions.
func WithTable(t *conditions.Table) Option {
	return func(f *Finder) { f.table = t }
}

// WithProgress registers fn to be called with the counters at every progress interval.
func WithProgress(fn func(Progress)) Option {
	return func(f *Finder) { f.onProgress = fn }
}
