// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package explore

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/aclements/go-moremath/stats"
	"github.com/aclements/memsim/sim"
	"golang.org/x/exp/maps"
)

// A Reg names a register of a particular thread.
type Reg struct {
	Thread int
	Name   string
}

// ParseReg parses a register in "thread:name" form, such as "0:r1".
func ParseReg(s string) (Reg, error) {
	tid, name, ok := strings.Cut(s, ":")
	if !ok || name == "" {
		return Reg{}, fmt.Errorf("bad register %q: want thread:name", s)
	}
	n, err := strconv.Atoi(tid)
	if err != nil || n < 0 {
		return Reg{}, fmt.Errorf("bad register %q: bad thread number", s)
	}
	return Reg{n, name}, nil
}

func (r Reg) String() string {
	return fmt.Sprintf("%d:%s", r.Thread, r.Name)
}

// An Outcome is the observable result of a run: the final values of
// a set of registers followed by final global memory, in a canonical
// text form such as
//
//	0:r=0 1:r=0 {1: 1, 2: 1}
type Outcome string

// OutcomeOf returns the outcome of final state st. If regs is empty,
// every register written by any thread is observed.
func OutcomeOf(st *sim.State, regs []Reg) Outcome {
	if len(regs) == 0 {
		for tid, r := range st.Regs {
			for _, name := range r.Names() {
				regs = append(regs, Reg{tid, name})
			}
		}
	}
	var b strings.Builder
	for _, reg := range regs {
		var v int64
		if reg.Thread < len(st.Regs) {
			v = st.Regs[reg.Thread].Get(reg.Name)
		}
		fmt.Fprintf(&b, "%v=%d ", reg, v)
	}
	b.WriteString(sim.FormatMemory(st.Memory))
	return Outcome(b.String())
}

// An OutcomeSet records the outcomes observed over many runs of a
// program and how often each occurred.
type OutcomeSet struct {
	counts map[Outcome]int

	// Runs is the number of runs that contributed an outcome.
	Runs int

	// Truncated is the number of runs abandoned at the step
	// limit. These contribute no outcome.
	Truncated int

	// Complete is set if the set was built by exhaustive
	// exploration that visited every interleaving.
	Complete bool
}

// NewOutcomeSet returns an empty OutcomeSet.
func NewOutcomeSet() *OutcomeSet {
	return &OutcomeSet{counts: make(map[Outcome]int)}
}

// Add records one run with outcome o.
func (s *OutcomeSet) Add(o Outcome) {
	s.counts[o]++
	s.Runs++
}

// AddAll merges the runs recorded in s2 into s.
func (s *OutcomeSet) AddAll(s2 *OutcomeSet) {
	for o, n := range s2.counts {
		s.counts[o] += n
	}
	s.Runs += s2.Runs
	s.Truncated += s2.Truncated
}

// Has reports whether outcome o was observed.
func (s *OutcomeSet) Has(o Outcome) bool {
	return s.counts[o] > 0
}

// Count returns the number of runs with outcome o.
func (s *OutcomeSet) Count(o Outcome) int {
	return s.counts[o]
}

// Len returns the number of distinct outcomes.
func (s *OutcomeSet) Len() int {
	return len(s.counts)
}

// Contains reports whether every outcome in s2 is also in s.
func (s *OutcomeSet) Contains(s2 *OutcomeSet) bool {
	for o := range s2.counts {
		if !s.Has(o) {
			return false
		}
	}
	return true
}

// Equal reports whether s and s2 have the same outcomes, ignoring
// counts.
func (s *OutcomeSet) Equal(s2 *OutcomeSet) bool {
	return s.Len() == s2.Len() && s.Contains(s2)
}

// Difference returns the outcomes in s that are not in s2, sorted.
func (s *OutcomeSet) Difference(s2 *OutcomeSet) []Outcome {
	var out []Outcome
	for _, o := range s.Keys() {
		if !s2.Has(o) {
			out = append(out, o)
		}
	}
	return out
}

// Keys returns the distinct outcomes in s, sorted.
func (s *OutcomeSet) Keys() []Outcome {
	keys := maps.Keys(s.counts)
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

func (s *OutcomeSet) String() string {
	var b strings.Builder
	for _, o := range s.Keys() {
		fmt.Fprintf(&b, "%6d  %s\n", s.counts[o], o)
	}
	return b.String()
}

// Stats summarizes how runs are distributed over outcomes.
type Stats struct {
	Distinct int
	Runs     int

	// Mean and StdDev are of the number of runs per outcome.
	Mean, StdDev float64

	// Min and Max are the frequencies of the rarest and most
	// common outcomes, as fractions of Runs.
	Min, Max float64
}

// Stats returns summary statistics of s. It returns the zero Stats
// if s is empty.
func (s *OutcomeSet) Stats() Stats {
	if s.Len() == 0 {
		return Stats{}
	}
	xs := make([]float64, 0, s.Len())
	for _, o := range s.Keys() {
		xs = append(xs, float64(s.counts[o]))
	}
	st := Stats{
		Distinct: s.Len(),
		Runs:     s.Runs,
		Mean:     stats.Mean(xs),
		StdDev:   stats.StdDev(xs),
	}
	lo, hi := stats.Bounds(xs)
	st.Min, st.Max = lo/float64(s.Runs), hi/float64(s.Runs)
	return st
}

func (st Stats) String() string {
	return fmt.Sprintf("%d runs, %d outcomes, %.1f±%.1f runs/outcome, frequency %.3g..%.3g",
		st.Runs, st.Distinct, st.Mean, st.StdDev, st.Min, st.Max)
}
