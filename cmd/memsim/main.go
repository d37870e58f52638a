// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command memsim runs small concurrent programs under the SC, TSO and
// PSO memory models.
//
// A program is a text file with one instruction per line and a blank
// line between threads:
//
//	// Thread 0
//	r1 = 1
//	r2 = 2
//	r3 = r1 + r2
//	store SEQ_CST #r1 r3
//
//	// Thread 1
//	r1 = 1
//	load SEQ_CST #r1 r3
//
// By default memsim runs the program once with a random schedule and
// prints the final state. -trace prints the state after every step.
// The seed is printed so the run can be reproduced with -seed.
//
// With -runs n or -exhaustive, memsim runs the program many times and
// prints the table of outcomes it observed. An outcome is the final
// value of the registers listed in -regs (all registers by default)
// together with final memory.
//
// With -compare, memsim explores the program under every model and
// reports which models permit outcomes that others forbid. -graph
// writes the resulting strength order as a dot graph.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"time"

	"github.com/aclements/memsim/explore"
	"github.com/aclements/memsim/isa"
	"github.com/aclements/memsim/memory"
	"github.com/aclements/memsim/sim"
	"github.com/kballard/go-shellquote"
)

var (
	flagFile          = flag.String("file", "", "read program from `path`")
	flagModel         = flag.String("model", "SC", "memory `model`: SC, TSO or PSO")
	flagTrace         = flag.Bool("trace", false, "print the state after every step")
	flagSeed          = flag.Int64("seed", 0, "scheduler `seed` (default: time based)")
	flagRuns          = flag.Int("runs", 0, "run the program `n` times and report outcomes (default 1, or 1000 when exploring)")
	flagExhaustive    = flag.Bool("exhaustive", false, "explore every interleaving")
	flagMaxPaths      = flag.Int("max-paths", 0, "stop -exhaustive after `n` interleavings")
	flagCompare       = flag.Bool("compare", false, "compare outcomes under every model")
	flagRegs          = flag.String("regs", "", "observe only `registers`, such as \"0:r1 1:r2\"")
	flagGraph         = flag.String("graph", "", "with -compare, write model graph to `output` dot file")
	flagNoSimplify    = flag.Bool("no-simplify", false, "disable graph simplification")
	flagSVG           = flag.String("svg", "", "write outcome chart to `output` SVG file")
	flagNoAtomicFence = flag.Bool("no-atomic-fence", false, "do not drain the store buffer before atomics")
	flagMaxSteps      = flag.Int("max-steps", 0, "abandon a run after `n` steps (default 1<<20)")
	flagParallel      = flag.Int("parallel", 0, "run at most `n` simulations at once (default GOMAXPROCS)")
	flagVerbose       = flag.Bool("v", false, "log every step")
)

func main() {
	log.SetFlags(0)
	log.SetPrefix("memsim: ")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [flags] -file prog\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()
	if flag.NArg() > 0 || *flagFile == "" {
		flag.Usage()
		os.Exit(2)
	}

	model, err := memory.ParseModel(*flagModel)
	if err != nil {
		log.Print(err)
		flag.Usage()
		os.Exit(2)
	}
	regs, err := parseRegs(*flagRegs)
	if err != nil {
		log.Print(err)
		flag.Usage()
		os.Exit(2)
	}

	prog, err := readProgram(*flagFile)
	if err != nil {
		log.Fatal(err)
	}

	var logger *log.Logger
	if *flagVerbose {
		logger = log.New(os.Stderr, "memsim: ", 0)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	e := explore.Explorer{
		Model:      model,
		Options:    memory.Options{NoAtomicFence: *flagNoAtomicFence},
		Regs:       regs,
		Exhaustive: *flagExhaustive,
		Runs:       *flagRuns,
		Seed:       *flagSeed,
		MaxPaths:   *flagMaxPaths,
		Parallel:   *flagParallel,
		MaxSteps:   *flagMaxSteps,
		Log:        logger,
	}

	switch {
	case *flagCompare:
		err = compare(ctx, prog, e)
	case *flagExhaustive || *flagRuns > 1:
		err = outcomes(ctx, prog, e)
	default:
		err = runOnce(prog, model, logger)
	}
	if err != nil {
		log.Fatal(err)
	}
}

func parseRegs(s string) ([]explore.Reg, error) {
	words, err := shellquote.Split(s)
	if err != nil {
		return nil, fmt.Errorf("bad -regs: %w", err)
	}
	var regs []explore.Reg
	for _, w := range words {
		r, err := explore.ParseReg(w)
		if err != nil {
			return nil, err
		}
		regs = append(regs, r)
	}
	return regs, nil
}

func readProgram(path string) (*isa.Program, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	prog, err := isa.Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return prog, nil
}

func runOnce(prog *isa.Program, model memory.Model, logger *log.Logger) error {
	seed := *flagSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	fmt.Fprintf(os.Stderr, "seed %d\n", seed)

	cfg := sim.Config{
		Model:    model,
		Options:  memory.Options{NoAtomicFence: *flagNoAtomicFence},
		Seed:     seed,
		MaxSteps: *flagMaxSteps,
		Log:      logger,
	}
	var tw *sim.TraceWriter
	if *flagTrace {
		tw = &sim.TraceWriter{W: os.Stdout}
		cfg.Observer = tw
	}
	s, err := sim.New(prog, cfg)
	if err != nil {
		return err
	}
	st, runErr := s.Run()
	if tw != nil && tw.Err() != nil {
		return tw.Err()
	}
	if !*flagTrace || runErr != nil {
		if *flagTrace {
			fmt.Println("# FINAL")
		}
		if err := sim.WriteState(os.Stdout, st); err != nil {
			return err
		}
	}
	return runErr
}

// newProgress returns a Progress for exploring nmodels models.
func newProgress(label string, nmodels int) *explore.Progress {
	total := *flagRuns
	if total == 0 {
		total = explore.DefaultRuns
	}
	if *flagExhaustive {
		total = *flagMaxPaths
	}
	return explore.NewProgress(os.Stderr, label, total*nmodels)
}

func outcomes(ctx context.Context, prog *isa.Program, e explore.Explorer) error {
	e.Progress = newProgress(e.Model.String(), 1)
	e.Progress.Start()
	set, err := e.Explore(ctx, prog)
	e.Progress.Stop()
	if err != nil {
		return err
	}
	if err := explore.WriteTable(os.Stdout, []string{e.Model.String()}, []*explore.OutcomeSet{set}); err != nil {
		return err
	}
	report(set, e.Model)
	if *flagSVG != "" {
		return writeFile(*flagSVG, func(f *os.File) error {
			explore.WriteSVG(f, e.Model.String(), set)
			return nil
		})
	}
	return nil
}

func compare(ctx context.Context, prog *isa.Program, e explore.Explorer) error {
	e.Progress = newProgress("compare", len(memory.Models))
	e.Progress.Start()
	c, err := explore.Compare(ctx, prog, e, memory.Models)
	e.Progress.Stop()
	if err != nil {
		return err
	}
	if err := explore.WriteTable(os.Stdout, c.Names(), c.Sets); err != nil {
		return err
	}
	for i, m := range c.Models {
		report(c.Sets[i], m)
	}
	for _, row := range c.Counterexamples {
		for _, ce := range row {
			if ce != nil {
				fmt.Println()
				ce.Print(os.Stdout)
			}
		}
	}
	if *flagGraph != "" {
		return writeFile(*flagGraph, func(f *os.File) error {
			c.WriteDot(f, !*flagNoSimplify)
			return nil
		})
	}
	return nil
}

// report logs a summary of set to stderr.
func report(set *explore.OutcomeSet, m memory.Model) {
	fmt.Fprintf(os.Stderr, "%v: %v\n", m, set.Stats())
	if set.Truncated > 0 {
		fmt.Fprintf(os.Stderr, "%v: %d runs hit the step limit\n", m, set.Truncated)
	}
	if set.Complete {
		fmt.Fprintf(os.Stderr, "%v: all interleavings explored\n", m)
	}
}

func writeFile(path string, write func(*os.File) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
