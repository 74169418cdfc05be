package main

import (
	"context"
	"errors"
	. "fmt"
	"github.com/dterei/gotsc"
	"github.com/p7r0x7/md5coll"
	"github.com/p7r0x7/md5coll/conditions"
	"github.com/p7r0x7/md5coll/md5block"
	"github.com/p7r0x7/md5coll/search"
	"github.com/p7r0x7/md5coll/step"
	"github.com/p7r0x7/md5coll/vectors"
	"io"
	"log/slog"
	"runtime"
	"sync"
	"testing"
	"time"
)

// Copyright © 2022 Matthew R Bonnette. Licensed under the Apache-2.0 license.

/* Trials per worker for the parallel run; enough for every phase counter to be non-zero. */
const trialsPerCPU = 64

var calltime = gotsc.TSCOverhead()
var ihv = md5block.Compress(md5block.IV, &vectors.M0)

func BenchmarkCompress(b *testing.B) {
	m, iv := vectors.Pairs[0].M1, ihv
	b.SetBytes(md5block.BlockSize)
	b.ResetTimer()
	for i := b.N; i > 0; i-- {
		iv = md5block.Compress(iv, &m)
	}
}

func BenchmarkInverse(b *testing.B) {
	q, m := step.Trace(ihv, &vectors.Pairs[0].M1), md5block.Block{}
	b.SetBytes(md5block.BlockSize)
	b.ResetTimer()
	for i := b.N; i > 0; i-- {
		for s := 0; s < md5block.Words; s++ {
			q.Inverse(s, &m)
		}
	}
}

func BenchmarkTrial(b *testing.B) {
	s, err := search.New(searchConfig(), search.NewSource([]byte("statz"), 0))
	if err != nil {
		b.Fatal(err)
	}
	b.ResetTimer()
	for i := b.N; i > 0; i-- {
		s.Trial()
	}
}

func searchConfig() search.Config {
	return search.Config{
		Table:    conditions.Default(),
		IHV:      ihv,
		IHVPrime: md5block.Compress(md5block.IV, &vectors.M0Prime),
		Delta:    md5coll.Delta(vectors.DiffM1),
	}
}

// benchAlg prints nanoseconds and, where the TSC is usable, cycles per operation.
func benchAlg(alg func(b *testing.B)) {
	totalHz, polls, mut, done := uint64(0), uint64(0), &sync.Mutex{}, make(chan struct{})
	if calltime > 0 {
		go func() {
			for {
				select {
				case <-done:
					return
				default:
				}
				tsc1 := gotsc.BenchStart()
				time.Sleep(time.Millisecond)
				tsc2 := gotsc.BenchEnd()

				mut.Lock()
				totalHz += tsc2 - tsc1 - calltime
				polls++
				mut.Unlock()

				time.Sleep(time.Millisecond * 9)
			}
		}()
	}
	r := testing.Benchmark(alg)
	close(done)
	mut.Lock()
	defer mut.Unlock()

	nsop := float64(r.T.Nanoseconds()) / float64(r.N)
	Println("Time  " + fmtFloats(nsop) + "   ns/op")
	if calltime > 0 && polls > 0 {
		hz := float64(totalHz) * 1000 / float64(polls)
		Println("      " + fmtFloats(hz*nsop/1e9) + "   cycles/op")
	}
	Println("Usage " + fmtFloats(float64(r.AllocedBytesPerOp())) + "   B/op\n")
}

// searchProfile runs a bounded parallel search and prints how often each phase passes.
func searchProfile() {
	quiet := slog.New(slog.NewTextHandler(io.Discard, nil))
	f, err := md5coll.NewFinder(md5coll.Config{Trials: uint64(runtime.NumCPU() * trialsPerCPU)},
		md5coll.WithLogger(quiet))
	if err != nil {
		panic(err)
	}
	_, err = f.Run(context.Background())
	if err != nil && !errors.Is(err, md5coll.ErrNotFound) {
		panic(err)
	}
	p, st := f.Progress(), f.Stats()
	ratio := func(a, b uint64) float64 {
		if b == 0 {
			return 0
		}
		return float64(a) / float64(b)
	}

	Println("Trials" + fmtFloats(float64(st.Trials), p.Rate()) + "   total, per second")
	Println("Early " + fmtFloats(ratio(st.EarlyChains, st.Trials), ratio(st.Q1Draws, st.EarlyChains)) +
		"   chains per trial, Q1 draws per chain")
	Println("Round2" + fmtFloats(ratio(st.Round2Passes, st.Combinations), ratio(st.Combinations, st.EarlyChains)) +
		"   passes per combination, combinations per chain")
	Println("Late  " + fmtFloats(float64(st.SumRejects), float64(st.SignRejects)) + "   sum, sign rejects")
	Println("Found " + fmtFloats(float64(st.NearCollisions), float64(st.Collisions)) + "   near, full\n")
}

func fmtFloats(f ...float64) string {
	var str, style string
	for _, v := range f {
		switch whole := float64(int64(v)) == v; {
		case v > 1e8 || (v < 1e-6 && !whole):
			style = "%10.3g"
		case v <= 1e1 && !whole:
			style = "%10.6f"
		case v <= 1e3 && !whole:
			style = "%10.4f"
		case v <= 1e6 && !whole:
			style = "%10.1f"
		default:
			style = "%10.f"
		}
		str += "  " + Sprintf(style, v)
	}
	return str
}

func main() {
	Printf("Running Statz on %d CPUs!\n%s/%s\n\n", runtime.NumCPU(), runtime.GOOS, runtime.GOARCH)
	t := time.Now()

	Println("md5block.Compress")
	benchAlg(BenchmarkCompress)

	Println("step.Chain.Inverse x16")
	benchAlg(BenchmarkInverse)

	Println("search.Searcher.Trial")
	benchAlg(BenchmarkTrial)

	Println("md5coll.Finder")
	searchProfile()

	Println("Finished in " + time.Since(t).Truncate(time.Millisecond).String() + ".")
}
