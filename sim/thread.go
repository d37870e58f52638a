// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sim

import (
	"github.com/aclements/memsim/isa"
	"github.com/aclements/memsim/memory"
)

// A Thread executes one thread's program, one instruction at a time.
type Thread struct {
	ID   int
	PC   int
	Regs Registers

	prog *isa.Thread
}

// NewThread returns a Thread with id ready to run prog from its
// first instruction.
func NewThread(id int, prog *isa.Thread) *Thread {
	return &Thread{ID: id, Regs: make(Registers), prog: prog}
}

// Done reports whether t has executed its last instruction.
func (t *Thread) Done() bool {
	return t.PC >= t.prog.Len()
}

// Next returns the instruction t will execute next.
func (t *Thread) Next() (isa.Instr, bool) {
	if t.Done() {
		return isa.Instr{}, false
	}
	return t.prog.Instrs[t.PC], true
}

// Step executes the instruction at t's PC against mem and advances
// or redirects the PC. It returns the executed instruction. Errors
// are *RuntimeErrors.
func (t *Thread) Step(mem memory.Memory) (isa.Instr, error) {
	in, ok := t.Next()
	if !ok {
		return in, &RuntimeError{Thread: t.ID, PC: t.PC, Kind: ErrFinished}
	}
	fail := func(kind error) (isa.Instr, error) {
		return in, &RuntimeError{Thread: t.ID, PC: t.PC, Instr: in, Kind: kind}
	}

	r := t.Regs
	next := t.PC + 1
	switch in.Op {
	case isa.OpConst:
		r.Set(in.Dst, in.Value)

	case isa.OpArith:
		a, b := r.Get(in.Src1), r.Get(in.Src2)
		var v int64
		switch in.Arith {
		case isa.Add:
			v = a + b
		case isa.Sub:
			v = a - b
		case isa.Mul:
			v = a * b
		case isa.Div:
			if b == 0 {
				return fail(ErrDivideByZero)
			}
			v = a / b
		default:
			return fail(ErrBadOperator)
		}
		r.Set(in.Dst, v)

	case isa.OpCondJump:
		if r.Get(in.Cond) != 0 {
			pc, ok := t.prog.Target(in.Target)
			if !ok || pc < 0 || pc >= t.prog.Len() {
				return fail(ErrBadJump)
			}
			next = pc
		}

	case isa.OpLoad:
		r.Set(in.Dst, mem.Read(t.ID, r.Get(in.Addr)))

	case isa.OpStore:
		mem.Write(t.ID, r.Get(in.Addr), r.Get(in.Src1))

	case isa.OpCas:
		exp, des := r.Get(in.Exp), r.Get(in.Des)
		old := mem.AtomicRMW(t.ID, r.Get(in.Addr), func(old int64) (int64, bool) {
			return des, old == exp
		})
		r.Set(in.Dst, old)

	case isa.OpFai:
		inc := r.Get(in.Inc)
		old := mem.AtomicRMW(t.ID, r.Get(in.Addr), func(old int64) (int64, bool) {
			return old + inc, true
		})
		r.Set(in.Dst, old)

	case isa.OpFence:
		mem.Fence(t.ID)

	default:
		return fail(ErrBadOperator)
	}
	t.PC = next
	return in, nil
}
