package main

import (
	"context"
	"encoding/hex"
	"errors"
	. "fmt"
	"github.com/p7r0x7/md5coll"
	"github.com/p7r0x7/md5coll/md5block"
	"github.com/p7r0x7/md5coll/vectors"
	"github.com/p7r0x7/md5coll/verify"
	"github.com/p7r0x7/vainpath"
	. "github.com/spf13/pflag"
	"github.com/schollz/progressbar/v3"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"runtime/pprof"
	"strings"
	"time"
	"unicode/utf8"
)

// Copyright © 2022 Matthew R Bonnette. Licensed under the Apache-2.0 license.

const n = "\n"
const success, failure, invalid = 0, 1, 2
const barEvery = 250 * time.Millisecond

func main() { os.Exit(program()) }

// help prints a usage menu. To consistently render this menu in most terminal windows, its content
// should be no wider than 80 columns.
func help() {
	origin, err := os.Executable()
	if err != nil {
		origin = "collide" /* Default binary name */
	} else {
		origin = filepath.Base(origin)
	}
	name := vainpath.Trim(origin, "…", 12)
	spaces := strings.Repeat(" ", utf8.RuneCountInString(name)+3)
	Fprint(os.Stderr, yell, "Second-block MD5 collision search after Wang et al.", zero, n+n+
		"Usage:"+n+
		"  ", name, " [-h]"+n,
		spaces, "[-c PATH] [--config PATH] [-w <int>] [-n <uint>] [--seed STRING]"+n,
		spaces, "[--progress <duration>] [--quiet|no-codes]"+n,
		spaces, "--vectors"+n+n+
			"Options:"+n)
	PrintDefaults()
	Fprint(os.Stderr, n+"Exit status is 0 when a collision is found or the vectors verify, 1 when the"+n+
		"trial budget runs out or a vector fails, and 2 for invalid settings."+n)
}

// This program is a command-line interface for md5coll: it loads settings from a file and flags,
// runs the search on every CPU and prints the colliding second blocks.
func program() int {
	if pDebug {
		cf, err := os.Create("cpu.prof")
		if err != nil {
			panic(err)
		}
		_ = pprof.StartCPUProfile(cf)
		defer pprof.StopCPUProfile()
	}
	if pHelp || NArg() > 0 {
		help()
		if NArg() > 0 {
			return invalid
		}
		return success
	}
	if pVectors {
		return checkVectors()
	}

	cfg := md5coll.Config{}
	if pConfig != "" {
		var err error
		if cfg, err = md5coll.LoadConfig(pConfig); err != nil {
			return fail(err)
		}
	}
	switch {
	case pConditions != "":
		cfg.Conditions = pConditions
	case cfg.Conditions != "":
		cfg.Conditions = os.ExpandEnv(cfg.Conditions)
	}
	if pWorkers != 0 {
		cfg.Workers = pWorkers
	}
	if pTrials != 0 {
		cfg.Trials = pTrials
	}
	if pSeed != "" {
		cfg.Seed = pSeed
	}
	if pProgress != 0 {
		cfg.ProgressEvery = pProgress
	}

	level, out := slog.LevelInfo, io.Writer(os.Stderr)
	if pQuiet {
		level = slog.LevelWarn
	}
	logger := slog.New(slog.NewTextHandler(out, &slog.HandlerOptions{Level: level}))
	opts := []md5coll.Option{md5coll.WithLogger(logger)}

	var bar *progressbar.ProgressBar
	if !pQuiet {
		max := int64(cfg.Trials)
		if max == 0 {
			max = -1
		}
		bar = progressbar.NewOptions64(max,
			progressbar.OptionSetWriter(os.Stderr),
			progressbar.OptionSetDescription("searching"),
			progressbar.OptionSetWidth(30),
			progressbar.OptionShowCount(),
			progressbar.OptionShowIts(),
			progressbar.OptionSetItsString("trials"),
			progressbar.OptionThrottle(100*time.Millisecond),
			progressbar.OptionEnableColorCodes(!pNoCodes),
		)
	}

	f, err := md5coll.NewFinder(cfg, opts...)
	if err != nil {
		return fail(err)
	}
	if cfg.Conditions != "" && !pQuiet {
		if pNoCodes {
			Fprint(os.Stderr, "conditions: ", filepath.Clean(cfg.Conditions), n)
		} else {
			Fprint(os.Stderr, "conditions: ", und, vainpath.Simplify(cfg.Conditions), zero, n)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	polled := make(chan struct{})
	if bar != nil {
		go func() {
			defer close(polled)
			f.Watch(ctx, barEvery, func(p md5coll.Progress) { _ = bar.Set64(int64(p.Trials)) })
		}()
	} else {
		close(polled)
	}
	c, err := f.Run(ctx)
	stop()
	<-polled
	if bar != nil {
		_ = bar.Finish()
		Fprint(os.Stderr, n)
	}
	if err != nil {
		return fail(err)
	}

	if pQuiet {
		Print(hex.EncodeToString(c.M1.Bytes()), n, hex.EncodeToString(c.M1Prime.Bytes()), n)
		return success
	}
	Print(yell, "M1  ", zero, hex.EncodeToString(c.M1.Bytes()), n,
		yell, "M1′ ", zero, hex.EncodeToString(c.M1Prime.Bytes()), n,
		yell, "MD5 ", zero, c.DigestHex(), n,
		purp, Sprintf("worker %d, trial %d, session %s", c.Worker, c.Trial, c.Session), zero, n)
	return success
}

// checkVectors verifies the built-in published collisions with both the block primitive and an
// independent MD5.
func checkVectors() int {
	d, code := verify.NewDigester(), success
	defer d.Close()
	for _, p := range vectors.Pairs {
		ihv := md5block.Sum(md5block.IV, vectors.M0, p.M1).String()
		sum, err := d.Pair(vectors.M0, vectors.M0Prime, p.M1, p.M1Prime, vectors.DiffM1)
		switch {
		case err != nil:
			Fprint(os.Stderr, purp, p.Name, zero, ": ", err, n)
			code = failure
		case ihv != p.IHV || hex.EncodeToString(sum[:]) != p.Digest:
			Fprint(os.Stderr, purp, p.Name, zero, ": got ", ihv, " ", hex.EncodeToString(sum[:]), n)
			code = failure
		default:
			Print(yell, hex.EncodeToString(sum[:]), zero, "  ", p.Name, " (ihv ", ihv, ")", n)
		}
	}
	return code
}

// fail reports err and maps it to an exit code.
func fail(err error) int {
	Fprint(os.Stderr, purp, err, zero, n)
	switch {
	case errors.Is(err, md5coll.ErrInvalidConfig):
		return invalid
	case errors.Is(err, md5coll.ErrNotFound), errors.Is(err, context.Canceled):
		return failure
	}
	return invalid
}
