// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package sim runs memsim programs.
//
// A Scheduler interleaves the threads of a program over a shared
// memory.Memory. At every step it collects the enabled actions (the
// next instruction of every unfinished thread, and every buffered
// store that may commit) and lets an amb.Strategy pick one. Making
// store commits independently schedulable is what lets relaxed
// models exhibit behaviors such as store buffering.
//
// A simulation is single-threaded; a Scheduler must not be used from
// more than one goroutine.
package sim

import (
	"fmt"
	"iter"
	"log"

	"github.com/aclements/memsim/amb"
	"github.com/aclements/memsim/isa"
	"github.com/aclements/memsim/memory"
)

// DefaultMaxSteps is the step limit used when Config.MaxSteps is 0.
const DefaultMaxSteps = 1 << 20

// Config configures a Scheduler.
type Config struct {
	// Model is the memory model to simulate.
	Model memory.Model

	// Options controls details of the memory model.
	Options memory.Options

	// Seed seeds the default random strategy. It is ignored if
	// Strategy is set.
	Seed int64

	// Strategy chooses among enabled actions. If nil, a
	// StrategyRandom seeded with Seed is used. A Strategy passed
	// here is not reset, so a StrategyDFS can be shared by
	// successive Schedulers to enumerate interleavings.
	Strategy amb.Strategy

	// MaxSteps bounds the number of actions in a run. If 0,
	// DefaultMaxSteps is used.
	MaxSteps int

	// Observer, if non-nil, receives a Snapshot after every
	// action.
	Observer Observer

	// Log, if non-nil, receives a line per action.
	Log *log.Logger
}

// ActionKind distinguishes the kinds of Action.
type ActionKind uint8

const (
	// Exec executes a thread's next instruction.
	Exec ActionKind = iota
	// Flush commits a buffered store to global memory.
	Flush
)

// An Action is one step of a simulation.
type Action struct {
	Kind   ActionKind
	Thread int

	// For Exec, the executed instruction and its index.
	PC    int
	Instr isa.Instr

	// For Flush, the committed store.
	Addr, Value int64
}

func (a Action) String() string {
	switch a.Kind {
	case Exec:
		return fmt.Sprintf("%d: %v", a.Thread, a.Instr)
	case Flush:
		return fmt.Sprintf("%d: propagate #%d = %d", a.Thread, a.Addr, a.Value)
	}
	return fmt.Sprintf("%d: ???", a.Thread)
}

// A Scheduler runs a single interleaving of a program.
type Scheduler struct {
	prog     *isa.Program
	cfg      Config
	mem      memory.Memory
	threads  []*Thread
	strategy amb.Strategy
	steps    int
	err      error
}

// New returns a Scheduler ready to run prog. It returns an
// *isa.LoadError if prog is invalid.
func New(prog *isa.Program, cfg Config) (*Scheduler, error) {
	if err := prog.Validate(); err != nil {
		return nil, err
	}
	s := &Scheduler{
		prog:     prog,
		cfg:      cfg,
		mem:      memory.New(cfg.Model, prog.NumThreads(), cfg.Options),
		strategy: cfg.Strategy,
	}
	if s.strategy == nil {
		s.strategy = amb.NewRandom(cfg.Seed)
	}
	for tid, t := range prog.Threads {
		s.threads = append(s.threads, NewThread(tid, t))
	}
	return s, nil
}

// Memory returns the simulated memory.
func (s *Scheduler) Memory() memory.Memory {
	return s.mem
}

// Threads returns the simulated threads.
func (s *Scheduler) Threads() []*Thread {
	return s.threads
}

// Steps returns the number of actions performed so far.
func (s *Scheduler) Steps() int {
	return s.steps
}

func (s *Scheduler) maxSteps() int {
	if s.cfg.MaxSteps == 0 {
		return DefaultMaxSteps
	}
	return s.cfg.MaxSteps
}

// Enabled returns the actions that may be performed next: an Exec
// for every unfinished thread, in thread order, followed by a Flush
// for every store that may commit. The result is empty once every
// thread has finished and every buffer has drained.
func (s *Scheduler) Enabled() []Action {
	var acts []Action
	for _, t := range s.threads {
		if in, ok := t.Next(); ok {
			acts = append(acts, Action{Kind: Exec, Thread: t.ID, PC: t.PC, Instr: in})
		}
	}
	for tid := range s.threads {
		for _, addr := range s.mem.Flushable(tid) {
			acts = append(acts, Action{Kind: Flush, Thread: tid, PC: -1, Addr: addr})
		}
	}
	return acts
}

// Step performs one action. It returns the action and true, or false
// if the simulation is complete. Once Step returns an error, the
// simulation is halted and every later call returns the same error.
func (s *Scheduler) Step() (Action, bool, error) {
	a, _, ok, err := s.step(false)
	return a, ok, err
}

// step performs one action. The Snapshot after the action is built
// if want is set or an Observer is configured, and is shared between
// the two.
func (s *Scheduler) step(want bool) (Action, *Snapshot, bool, error) {
	if s.err != nil {
		return Action{}, nil, false, s.err
	}
	acts := s.Enabled()
	if len(acts) == 0 {
		return Action{}, nil, false, nil
	}
	if s.steps >= s.maxSteps() {
		s.err = &RuntimeError{Thread: -1, PC: -1, Kind: ErrStepLimit}
		return Action{}, nil, false, s.err
	}

	i := 0
	if len(acts) > 1 {
		var ok bool
		if i, ok = s.strategy.Amb(len(acts)); !ok {
			s.err = &RuntimeError{Thread: -1, PC: -1, Kind: ErrStepLimit}
			return Action{}, nil, false, s.err
		}
	}
	a := acts[i]

	switch a.Kind {
	case Exec:
		if _, err := s.threads[a.Thread].Step(s.mem); err != nil {
			s.err = err
			return a, nil, false, err
		}
	case Flush:
		a.Value = s.pendingValue(a.Thread, a.Addr)
		if !s.mem.Flush(a.Thread, a.Addr) {
			panic(fmt.Sprintf("flush of enabled store %v failed", a))
		}
	}
	s.steps++

	if s.cfg.Log != nil {
		s.cfg.Log.Printf("step %d: %v", s.steps, a)
	}
	var snap *Snapshot
	if want || s.cfg.Observer != nil {
		snap = s.snapshot(a)
	}
	if s.cfg.Observer != nil {
		s.cfg.Observer.Observe(snap)
	}
	return a, snap, true, nil
}

// pendingValue returns the value of the oldest store to addr buffered
// by thread tid.
func (s *Scheduler) pendingValue(tid int, addr int64) int64 {
	for _, e := range s.mem.Pending(tid) {
		if e.Addr == addr {
			return e.Value
		}
	}
	return 0
}

// Run steps the simulation until every thread has finished and every
// store buffer has drained. It returns the final state. On error, it
// returns the state at the point of failure along with a
// *RuntimeError.
func (s *Scheduler) Run() (*State, error) {
	for {
		_, ok, err := s.Step()
		if err != nil {
			return s.State(), err
		}
		if !ok {
			return s.State(), nil
		}
	}
}

// Snapshots returns the remaining steps of the simulation as a lazy
// sequence. Each iteration performs one action and yields the
// resulting Snapshot, which is the same one passed to any Observer.
// If the simulation fails, the sequence yields the error and ends.
// The sequence consumes the simulation, so it cannot be restarted.
func (s *Scheduler) Snapshots() iter.Seq2[*Snapshot, error] {
	return func(yield func(*Snapshot, error) bool) {
		for {
			_, snap, ok, err := s.step(true)
			if err != nil {
				yield(nil, err)
				return
			}
			if !ok {
				return
			}
			if !yield(snap, nil) {
				return
			}
		}
	}
}

// State returns a copy of the current execution state.
func (s *Scheduler) State() *State {
	st := &State{
		PCs:      make([]int, len(s.threads)),
		Regs:     make([]Registers, len(s.threads)),
		Finished: make([]bool, len(s.threads)),
		Buffers:  make([][]memory.Entry, len(s.threads)),
		Memory:   s.mem.Global(),
		Model:    s.mem.Model(),
		Steps:    s.steps,
	}
	for i, t := range s.threads {
		st.PCs[i] = t.PC
		st.Regs[i] = t.Regs.Clone()
		st.Finished[i] = t.Done()
		st.Buffers[i] = s.mem.Pending(i)
	}
	return st
}

func (s *Scheduler) snapshot(a Action) *Snapshot {
	return &Snapshot{Action: a, State: *s.State()}
}
