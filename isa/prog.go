// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package isa

import (
	"errors"
	"fmt"
	"strings"
)

// A Thread is the program of a single thread. It must not be modified
// after construction.
type Thread struct {
	Instrs []Instr

	// Labels maps each label to the index of the instruction it
	// names.
	Labels map[string]int
}

// NewThread builds a Thread from instrs, resolving labels. It returns
// a *LoadError if a label is defined twice, a jump targets an
// undefined label, or an instruction is malformed. tid is used only
// for error reporting.
func NewThread(tid int, instrs []Instr) (*Thread, error) {
	t := &Thread{Instrs: instrs, Labels: make(map[string]int)}
	for i, in := range instrs {
		if in.Label == "" {
			continue
		}
		if prev, ok := t.Labels[in.Label]; ok {
			return nil, &LoadError{Thread: tid, Index: i, Kind: ErrDuplicateLabel,
				Msg: fmt.Sprintf("label %q already defined at instruction %d", in.Label, prev)}
		}
		t.Labels[in.Label] = i
	}
	if err := t.check(tid); err != nil {
		return nil, err
	}
	return t, nil
}

func (t *Thread) check(tid int) error {
	for i, in := range t.Instrs {
		if msg := in.check(); msg != "" {
			return &LoadError{Thread: tid, Index: i, Kind: ErrMalformed, Msg: msg}
		}
		if in.Op == OpCondJump {
			if _, ok := t.Labels[in.Target]; !ok {
				return &LoadError{Thread: tid, Index: i, Kind: ErrUndefinedLabel,
					Msg: fmt.Sprintf("jump to undefined label %q", in.Target)}
			}
		}
	}
	return nil
}

// Len returns the number of instructions in t.
func (t *Thread) Len() int {
	return len(t.Instrs)
}

// Target returns the instruction index named by label.
func (t *Thread) Target(label string) (int, bool) {
	pc, ok := t.Labels[label]
	return pc, ok
}

func (t *Thread) String() string {
	return formatThread(t.Instrs)
}

// A Program is a set of threads that run concurrently.
type Program struct {
	Threads []*Thread
}

// NewProgram builds a Program from per-thread instruction lists.
func NewProgram(threads ...[]Instr) (*Program, error) {
	p := &Program{}
	for tid, instrs := range threads {
		t, err := NewThread(tid, instrs)
		if err != nil {
			return nil, err
		}
		p.Threads = append(p.Threads, t)
	}
	return p, nil
}

// MustProgram is like NewProgram but panics on error. It is meant
// for programs written in Go source, such as litmus tests.
func MustProgram(threads ...[]Instr) *Program {
	p, err := NewProgram(threads...)
	if err != nil {
		panic(err)
	}
	return p
}

// Validate re-checks every thread of p. This catches Programs
// assembled by hand rather than through NewProgram or Parse.
func (p *Program) Validate() error {
	if len(p.Threads) == 0 {
		return &LoadError{Thread: -1, Index: -1, Kind: ErrMalformed, Msg: "program has no threads"}
	}
	for tid, t := range p.Threads {
		if t == nil {
			return &LoadError{Thread: tid, Index: -1, Kind: ErrMalformed, Msg: "nil thread"}
		}
		seen := make(map[string]bool)
		for i, in := range t.Instrs {
			if in.Label == "" {
				continue
			}
			if seen[in.Label] {
				return &LoadError{Thread: tid, Index: i, Kind: ErrDuplicateLabel,
					Msg: fmt.Sprintf("label %q defined twice", in.Label)}
			}
			seen[in.Label] = true
			if pc, ok := t.Labels[in.Label]; !ok || pc != i {
				return &LoadError{Thread: tid, Index: i, Kind: ErrMalformed,
					Msg: fmt.Sprintf("label map disagrees with label %q", in.Label)}
			}
		}
		if err := t.check(tid); err != nil {
			return err
		}
	}
	return nil
}

// NumThreads returns the number of threads in p.
func (p *Program) NumThreads() int {
	return len(p.Threads)
}

// String returns p in the textual program format accepted by Parse.
func (p *Program) String() string {
	parts := make([]string, len(p.Threads))
	for i, t := range p.Threads {
		parts[i] = t.String()
	}
	return strings.Join(parts, "\n\n")
}

// Kinds of LoadError.
var (
	ErrDuplicateLabel = errors.New("duplicate label")
	ErrUndefinedLabel = errors.New("undefined label")
	ErrMalformed      = errors.New("malformed instruction")
)

// A LoadError reports a problem found while building a program,
// before any instruction executes.
type LoadError struct {
	Thread int // Thread ID, or -1 if not specific to a thread.
	Index  int // Instruction index within the thread, or -1.
	Line   int // Source line, if loaded from text; otherwise 0.
	Kind   error
	Msg    string
}

func (e *LoadError) Error() string {
	var pos string
	switch {
	case e.Line > 0:
		pos = fmt.Sprintf("line %d: ", e.Line)
	case e.Thread >= 0 && e.Index >= 0:
		pos = fmt.Sprintf("thread %d instruction %d: ", e.Thread, e.Index)
	case e.Thread >= 0:
		pos = fmt.Sprintf("thread %d: ", e.Thread)
	}
	if e.Msg == "" {
		return pos + e.Kind.Error()
	}
	return pos + e.Kind.Error() + ": " + e.Msg
}

func (e *LoadError) Unwrap() error {
	return e.Kind
}
