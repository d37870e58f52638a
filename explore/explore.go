// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package explore runs a program many times under a memory model and
// collects the set of outcomes it can produce.
//
// Each run is an ordinary sim.Scheduler run that yields one
// interleaving. An Explorer either samples interleavings with
// consecutive random seeds, in parallel, or enumerates every
// interleaving with a depth-first amb.StrategyDFS.
//
// Compare evaluates several models on the same program and orders
// them by strength, the way a litmus-test model checker does: if
// model A permits an outcome that model B forbids, A is weaker than
// B.
package explore

import (
	"context"
	"errors"
	"fmt"
	"log"
	"runtime"
	"sync"

	"github.com/aclements/memsim/amb"
	"github.com/aclements/memsim/isa"
	"github.com/aclements/memsim/memory"
	"github.com/aclements/memsim/sim"
	"golang.org/x/sync/errgroup"
)

// DefaultRuns is the number of random runs used when Explorer.Runs
// is 0.
const DefaultRuns = 1000

// An Explorer collects the outcomes of a program under one memory
// model.
type Explorer struct {
	Model   memory.Model
	Options memory.Options

	// Regs selects the registers that make up an outcome. If
	// empty, every written register is observed.
	Regs []Reg

	// Exhaustive enumerates every interleaving instead of
	// sampling random ones.
	Exhaustive bool

	// Runs is the number of random runs, using seeds Seed,
	// Seed+1, .... If 0, DefaultRuns is used.
	Runs int
	Seed int64

	// MaxPaths bounds the number of interleavings visited by
	// exhaustive exploration. If 0, there is no bound.
	MaxPaths int

	// Parallel bounds the number of concurrent random runs. If
	// 0, GOMAXPROCS is used.
	Parallel int

	// MaxSteps is passed to each run's sim.Config.
	MaxSteps int

	// Progress, if non-nil, is advanced after every run.
	Progress *Progress

	// Log, if non-nil, receives a line for every run abandoned
	// at the step limit.
	Log *log.Logger
}

// Explore runs prog and returns the set of outcomes observed. Runs
// that hit the step limit are counted in OutcomeSet.Truncated. Any
// other runtime error stops exploration and is returned.
func (e *Explorer) Explore(ctx context.Context, prog *isa.Program) (*OutcomeSet, error) {
	if err := prog.Validate(); err != nil {
		return nil, err
	}
	if e.Exhaustive {
		return e.exhaustive(ctx, prog)
	}
	return e.random(ctx, prog)
}

func (e *Explorer) config() sim.Config {
	return sim.Config{Model: e.Model, Options: e.Options, MaxSteps: e.MaxSteps}
}

// runOne performs a single run with cfg and records its outcome in
// set. It returns a non-nil error only for failures other than
// hitting the step limit.
func (e *Explorer) runOne(prog *isa.Program, cfg sim.Config, set *OutcomeSet) error {
	defer e.Progress.Add(1)
	s, err := sim.New(prog, cfg)
	if err != nil {
		return err
	}
	st, err := s.Run()
	if errors.Is(err, sim.ErrStepLimit) {
		set.Truncated++
		if e.Log != nil {
			e.Log.Printf("%v: run abandoned after %d steps", e.Model, st.Steps)
		}
		return nil
	}
	if err != nil {
		return err
	}
	set.Add(OutcomeOf(st, e.Regs))
	return nil
}

func (e *Explorer) random(ctx context.Context, prog *isa.Program) (*OutcomeSet, error) {
	runs := e.Runs
	if runs == 0 {
		runs = DefaultRuns
	}
	par := e.Parallel
	if par == 0 {
		par = runtime.GOMAXPROCS(0)
	}

	var mu sync.Mutex
	out := NewOutcomeSet()
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(par)
	for i := 0; i < runs; i++ {
		seed := e.Seed + int64(i)
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			cfg := e.config()
			cfg.Seed = seed
			set := NewOutcomeSet()
			if err := e.runOne(prog, cfg, set); err != nil {
				return fmt.Errorf("seed %d: %w", seed, err)
			}
			mu.Lock()
			out.AddAll(set)
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// errMaxPaths stops exhaustive exploration at Explorer.MaxPaths.
var errMaxPaths = errors.New("path limit reached")

func (e *Explorer) exhaustive(ctx context.Context, prog *isa.Program) (*OutcomeSet, error) {
	out := NewOutcomeSet()
	dfs := new(amb.StrategyDFS)
	if e.MaxSteps != 0 {
		dfs.MaxDepth = e.MaxSteps
	}
	paths := 0
	err := amb.Run(dfs, func() error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if e.MaxPaths > 0 && paths >= e.MaxPaths {
			return errMaxPaths
		}
		paths++
		cfg := e.config()
		cfg.Strategy = dfs
		if err := e.runOne(prog, cfg, out); err != nil {
			return fmt.Errorf("path %v: %w", dfs.Path(), err)
		}
		return nil
	})
	if err == errMaxPaths {
		return out, nil
	}
	if err != nil {
		return nil, err
	}
	out.Complete = out.Truncated == 0
	return out, nil
}
