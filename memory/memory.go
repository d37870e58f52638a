// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package memory implements shared memory under the sequential
// consistency (SC), total store order (TSO) and partial store order
// (PSO) memory models.
//
// Each model is an operational machine in the style of Sewell, et
// al., "x86-TSO: A Rigorous and Usable Programmer's Model for x86
// Multiprocessors", CACM Research Highlights, 2010. Under TSO, every
// thread has a FIFO store buffer; stores enter the buffer and are
// later committed to global memory, oldest first, at times chosen by
// the caller. A thread's loads are satisfied from its own newest
// buffered store to the same address if there is one. PSO relaxes
// TSO by only keeping buffered stores to the same address in order.
//
// A Memory is not safe for concurrent use. The simulation that owns
// it performs one operation at a time.
package memory

import (
	"fmt"
	"strings"
)

// A Memory is the memory subsystem seen by every thread of a
// simulation. Addresses and values are arbitrary int64s; unwritten
// addresses read as 0.
type Memory interface {
	// Read returns the value of addr as seen by thread tid.
	Read(tid int, addr int64) int64

	// Write stores val to addr on behalf of thread tid. Under
	// buffered models the store is not globally visible until it
	// is flushed.
	Write(tid int, addr, val int64)

	// Flushable returns the addresses for which thread tid has a
	// buffered store that may be committed next. It returns nil
	// if thread tid has no pending stores or the model is
	// unbuffered.
	Flushable(tid int) []int64

	// Flush commits thread tid's oldest buffered store to addr.
	// It reports whether such a store was committed; it fails if
	// addr is not in Flushable(tid).
	Flush(tid int, addr int64) bool

	// FlushOne commits the oldest eligible buffered store of
	// thread tid and reports whether there was one.
	FlushOne(tid int) bool

	// Fence commits every buffered store of thread tid.
	Fence(tid int)

	// AtomicRMW atomically reads the value old at addr and, if f
	// returns write, replaces it with the value v f returns. It
	// returns old. Unless atomic fencing is disabled, it first
	// fences thread tid. A write happens even if the new value
	// equals old.
	AtomicRMW(tid int, addr int64, f func(old int64) (v int64, write bool)) int64

	// Pending returns a copy of thread tid's buffered stores,
	// oldest first.
	Pending(tid int) []Entry

	// Global returns a copy of global memory, holding every
	// address that has been written.
	Global() map[int64]int64

	// Model returns the memory model implemented.
	Model() Model
}

// An Entry is a buffered store.
type Entry struct {
	Addr, Value int64
}

func (e Entry) String() string {
	return fmt.Sprintf("(%d, %d)", e.Addr, e.Value)
}

// Model identifies a memory model.
type Model int

const (
	SC Model = iota
	TSO
	PSO
)

func (m Model) String() string {
	switch m {
	case SC:
		return "SC"
	case TSO:
		return "TSO"
	case PSO:
		return "PSO"
	}
	return fmt.Sprintf("Model(%d)", int(m))
}

// Models lists all supported memory models from strongest to
// weakest.
var Models = []Model{SC, TSO, PSO}

// ParseModel parses a memory model name. It accepts "SC", "TSO",
// "TS" and "PSO" in any case.
func ParseModel(s string) (Model, error) {
	switch strings.ToUpper(s) {
	case "SC":
		return SC, nil
	case "TSO", "TS":
		return TSO, nil
	case "PSO":
		return PSO, nil
	}
	return 0, fmt.Errorf("unknown memory model %q (want SC, TSO or PSO)", s)
}

// Options controls details of a memory model.
type Options struct {
	// NoAtomicFence, if true, makes atomic operations act
	// directly on global memory without first draining the
	// issuing thread's store buffer. Buffered stores are left in
	// place and may later overwrite the atomic's result.
	NoAtomicFence bool
}

// New returns an empty Memory implementing model for nthreads
// threads.
func New(model Model, nthreads int, opts Options) Memory {
	g := global{mem: make(map[int64]int64)}
	switch model {
	case SC:
		return &scMemory{global: g}
	case TSO:
		return &tsoMemory{bufMemory{global: g, sb: make([]storeBuffer, nthreads), opts: opts}}
	case PSO:
		return &psoMemory{bufMemory{global: g, sb: make([]storeBuffer, nthreads), opts: opts}}
	}
	panic(fmt.Sprintf("unknown memory model %v", model))
}

// global is the globally visible memory state shared by all models.
type global struct {
	mem map[int64]int64
}

func (g *global) load(addr int64) int64 {
	// Missing addresses read as 0.
	return g.mem[addr]
}

func (g *global) store(addr, val int64) {
	g.mem[addr] = val
}

func (g *global) Global() map[int64]int64 {
	out := make(map[int64]int64, len(g.mem))
	for k, v := range g.mem {
		out[k] = v
	}
	return out
}
