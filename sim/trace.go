// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sim

import (
	"bufio"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/aclements/memsim/memory"
	"golang.org/x/exp/maps"
)

// State is the complete state of a simulation.
type State struct {
	Model    memory.Model
	PCs      []int
	Regs     []Registers
	Finished []bool

	// Memory is global memory. It holds every address that has
	// been written.
	Memory map[int64]int64

	// Buffers holds each thread's buffered stores, oldest first.
	Buffers [][]memory.Entry

	// Steps is the number of actions performed.
	Steps int
}

// Drained reports whether every store buffer is empty.
func (st *State) Drained() bool {
	for _, b := range st.Buffers {
		if len(b) > 0 {
			return false
		}
	}
	return true
}

// Done reports whether every thread has finished and every store
// buffer has drained.
func (st *State) Done() bool {
	for _, f := range st.Finished {
		if !f {
			return false
		}
	}
	return st.Drained()
}

// A Snapshot is the state of a simulation just after an action.
type Snapshot struct {
	Action Action
	State
}

// An Observer receives a Snapshot after every action of a
// simulation.
type Observer interface {
	Observe(*Snapshot)
}

// ObserverFunc adapts a function to an Observer.
type ObserverFunc func(*Snapshot)

func (f ObserverFunc) Observe(s *Snapshot) { f(s) }

// A Recorder is an Observer that keeps every Snapshot.
type Recorder struct {
	Snapshots []*Snapshot
}

func (r *Recorder) Observe(s *Snapshot) {
	r.Snapshots = append(r.Snapshots, s)
}

// Actions returns the recorded actions in order.
func (r *Recorder) Actions() []Action {
	out := make([]Action, len(r.Snapshots))
	for i, s := range r.Snapshots {
		out[i] = s.Action
	}
	return out
}

// A TraceWriter is an Observer that writes each Snapshot in the
// textual trace format:
//
//	0: r1 = 1
//	# REGISTERS
//	| Thread 0: {"r1": 1}
//	| Thread 1: {}
//	# BUFFERS
//	| Thread 0: []
//	| Thread 1: []
//	# MEMORY
//	| {}
//
// The BUFFERS section is omitted under SC.
type TraceWriter struct {
	W io.Writer

	err error
}

func (tw *TraceWriter) Observe(s *Snapshot) {
	if tw.err != nil {
		return
	}
	tw.err = WriteSnapshot(tw.W, s)
}

// Err returns the first error encountered writing the trace.
func (tw *TraceWriter) Err() error {
	return tw.err
}

// WriteSnapshot writes s to w in the textual trace format.
func WriteSnapshot(w io.Writer, s *Snapshot) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "%v\n", s.Action)
	writeState(bw, &s.State)
	return bw.Flush()
}

// WriteState writes st to w in the textual trace format, without an
// action line.
func WriteState(w io.Writer, st *State) error {
	bw := bufio.NewWriter(w)
	writeState(bw, st)
	return bw.Flush()
}

func writeState(w io.Writer, st *State) {
	fmt.Fprintf(w, "# REGISTERS\n")
	for i, r := range st.Regs {
		fmt.Fprintf(w, "| Thread %d: %v\n", i, r)
	}
	if st.Model != memory.SC {
		fmt.Fprintf(w, "# BUFFERS\n")
		for i, b := range st.Buffers {
			fmt.Fprintf(w, "| Thread %d: %v\n", i, formatEntries(b))
		}
	}
	fmt.Fprintf(w, "# MEMORY\n")
	fmt.Fprintf(w, "| %s\n", FormatMemory(st.Memory))
}

func formatEntries(es []memory.Entry) string {
	parts := make([]string, len(es))
	for i, e := range es {
		parts[i] = e.String()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// FormatMemory formats mem as "{addr: value, ...}" in address order.
func FormatMemory(mem map[int64]int64) string {
	addrs := maps.Keys(mem)
	sort.Slice(addrs, func(i, j int) bool { return addrs[i] < addrs[j] })
	parts := make([]string, len(addrs))
	for i, a := range addrs {
		parts[i] = fmt.Sprintf("%d: %d", a, mem[a])
	}
	return "{" + strings.Join(parts, ", ") + "}"
}
