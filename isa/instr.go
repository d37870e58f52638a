// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package isa defines the instruction set interpreted by memsim.
//
// A Program is a set of threads, each an ordered list of
// instructions over an unbounded set of named integer registers.
// Registers are private to a thread. Threads communicate only through
// Load, Store and the atomic Cas and Fai instructions, whose ordering
// is decided by the memory model a program is run under.
package isa

import (
	"fmt"
	"strings"
)

// Mode is the memory-order annotation carried by memory
// instructions. It is reproduced in traces, but the memory model
// chosen for a run decides the actual ordering.
type Mode uint8

const (
	SeqCst Mode = iota
	Rel
	Acq
	RelAcq
	Rlx
)

var modeNames = [...]string{
	SeqCst: "SEQ_CST",
	Rel:    "REL",
	Acq:    "ACQ",
	RelAcq: "REL_ACQ",
	Rlx:    "RLX",
}

func (m Mode) String() string {
	if int(m) < len(modeNames) {
		return modeNames[m]
	}
	return fmt.Sprintf("Mode(%d)", m)
}

// ParseMode parses the textual form of a Mode.
func ParseMode(s string) (Mode, bool) {
	for m, name := range modeNames {
		if s == name {
			return Mode(m), true
		}
	}
	return 0, false
}

// Op is the kind of an instruction.
type Op uint8

const (
	OpInvalid Op = iota
	// OpConst sets Dst to Value.
	OpConst
	// OpArith sets Dst to Src1 Arith Src2.
	OpArith
	// OpCondJump jumps to Target if Cond is non-zero.
	OpCondJump
	// OpLoad loads from the address in Addr into Dst.
	OpLoad
	// OpStore stores Src1 to the address in Addr.
	OpStore
	// OpCas compares the value at Addr with Exp and, if equal,
	// replaces it with Des. Dst receives the prior value.
	OpCas
	// OpFai adds Inc to the value at Addr. Dst receives the prior
	// value.
	OpFai
	// OpFence drains the issuing thread's store buffer.
	OpFence
)

var opNames = [...]string{
	OpInvalid:  "invalid",
	OpConst:    "const",
	OpArith:    "arith",
	OpCondJump: "cond",
	OpLoad:     "load",
	OpStore:    "store",
	OpCas:      "cas",
	OpFai:      "fai",
	OpFence:    "fence",
}

func (o Op) String() string {
	if int(o) < len(opNames) {
		return opNames[o]
	}
	return fmt.Sprintf("Op(%d)", o)
}

// IsMemory reports whether o accesses shared memory.
func (o Op) IsMemory() bool {
	switch o {
	case OpLoad, OpStore, OpCas, OpFai, OpFence:
		return true
	}
	return false
}

// IsAtomic reports whether o is an atomic read-modify-write.
func (o Op) IsAtomic() bool {
	return o == OpCas || o == OpFai
}

// ArithOp is a binary operator of an OpArith instruction.
type ArithOp byte

const (
	Add ArithOp = '+'
	Sub ArithOp = '-'
	Mul ArithOp = '*'
	Div ArithOp = '/'
)

func (a ArithOp) String() string {
	return string(rune(a))
}

// Valid reports whether a is a known operator.
func (a ArithOp) Valid() bool {
	switch a {
	case Add, Sub, Mul, Div:
		return true
	}
	return false
}

// Instr is a single instruction. Which fields are meaningful depends
// on Op.
type Instr struct {
	Op    Op
	Label string // Optional label naming this instruction.

	Dst        string
	Src1, Src2 string
	Arith      ArithOp
	Value      int64

	Cond   string
	Target string // Label jumped to by OpCondJump.

	Mode Mode
	Addr string // Register holding the address.
	Exp  string
	Des  string
	Inc  string
}

// Const returns the instruction "dst = value".
func Const(dst string, value int64) Instr {
	return Instr{Op: OpConst, Dst: dst, Value: value}
}

// Arith returns the instruction "dst = src1 op src2".
func Arith(dst, src1 string, op ArithOp, src2 string) Instr {
	return Instr{Op: OpArith, Dst: dst, Src1: src1, Arith: op, Src2: src2}
}

// CondJump returns the instruction "if cond goto target".
func CondJump(cond, target string) Instr {
	return Instr{Op: OpCondJump, Cond: cond, Target: target}
}

// Load returns the instruction "load mode #addr dst".
func Load(mode Mode, addr, dst string) Instr {
	return Instr{Op: OpLoad, Mode: mode, Addr: addr, Dst: dst}
}

// Store returns the instruction "store mode #addr src".
func Store(mode Mode, addr, src string) Instr {
	return Instr{Op: OpStore, Mode: mode, Addr: addr, Src1: src}
}

// Cas returns the instruction "dst := cas mode #addr exp des".
func Cas(mode Mode, dst, addr, exp, des string) Instr {
	return Instr{Op: OpCas, Mode: mode, Dst: dst, Addr: addr, Exp: exp, Des: des}
}

// Fai returns the instruction "dst := fai mode #addr inc".
func Fai(mode Mode, dst, addr, inc string) Instr {
	return Instr{Op: OpFai, Mode: mode, Dst: dst, Addr: addr, Inc: inc}
}

// Fence returns the instruction "fence mode".
func Fence(mode Mode) Instr {
	return Instr{Op: OpFence, Mode: mode}
}

// WithLabel returns a copy of i labeled l.
func (i Instr) WithLabel(l string) Instr {
	i.Label = l
	return i
}

// check reports what is malformed about i, or "" if i is well
// formed. It does not resolve labels.
func (i Instr) check() string {
	need := func(what, reg string) string {
		if reg == "" {
			return "missing " + what + " register"
		}
		return ""
	}
	first := func(msgs ...string) string {
		for _, m := range msgs {
			if m != "" {
				return m
			}
		}
		return ""
	}
	switch i.Op {
	case OpConst:
		return need("destination", i.Dst)
	case OpArith:
		if !i.Arith.Valid() {
			return fmt.Sprintf("unknown operator %q", rune(i.Arith))
		}
		return first(need("destination", i.Dst), need("source", i.Src1), need("source", i.Src2))
	case OpCondJump:
		if i.Target == "" {
			return "missing jump target"
		}
		return need("condition", i.Cond)
	case OpLoad:
		return first(need("address", i.Addr), need("destination", i.Dst))
	case OpStore:
		return first(need("address", i.Addr), need("source", i.Src1))
	case OpCas:
		return first(need("destination", i.Dst), need("address", i.Addr), need("expected", i.Exp), need("desired", i.Des))
	case OpFai:
		return first(need("destination", i.Dst), need("address", i.Addr), need("increment", i.Inc))
	case OpFence:
		return ""
	}
	return "unknown instruction " + i.Op.String()
}

func (i Instr) String() string {
	var s string
	switch i.Op {
	case OpConst:
		s = fmt.Sprintf("%s = %d", i.Dst, i.Value)
	case OpArith:
		s = fmt.Sprintf("%s = %s %s %s", i.Dst, i.Src1, i.Arith, i.Src2)
	case OpCondJump:
		s = fmt.Sprintf("if %s goto %s", i.Cond, i.Target)
	case OpLoad:
		s = fmt.Sprintf("load %s #%s %s", i.Mode, i.Addr, i.Dst)
	case OpStore:
		s = fmt.Sprintf("store %s #%s %s", i.Mode, i.Addr, i.Src1)
	case OpCas:
		s = fmt.Sprintf("%s := cas %s #%s %s %s", i.Dst, i.Mode, i.Addr, i.Exp, i.Des)
	case OpFai:
		s = fmt.Sprintf("%s := fai %s #%s %s", i.Dst, i.Mode, i.Addr, i.Inc)
	case OpFence:
		s = fmt.Sprintf("fence %s", i.Mode)
	default:
		s = "???"
	}
	if i.Label != "" {
		s = i.Label + ": " + s
	}
	return s
}

// formatThread renders instrs one per line.
func formatThread(instrs []Instr) string {
	lines := make([]string, len(instrs))
	for i, in := range instrs {
		lines[i] = in.String()
	}
	return strings.Join(lines, "\n")
}
