// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sim

import (
	"errors"
	"fmt"

	"github.com/aclements/memsim/isa"
)

// Kinds of RuntimeError.
var (
	ErrDivideByZero = errors.New("division by zero")
	ErrBadOperator  = errors.New("unsupported operator")
	ErrBadJump      = errors.New("jump target out of range")
	ErrStepLimit    = errors.New("step limit exceeded")
	ErrFinished     = errors.New("thread already finished")
)

// A RuntimeError is a fatal error that halted a simulation. State
// committed before the error is left in place.
type RuntimeError struct {
	Thread int // Failing thread, or -1 if not specific to a thread.
	PC     int // Index of the failing instruction, or -1.
	Instr  isa.Instr
	Kind   error
}

func (e *RuntimeError) Error() string {
	if e.Thread < 0 {
		return e.Kind.Error()
	}
	if e.PC < 0 {
		return fmt.Sprintf("thread %d: %v", e.Thread, e.Kind)
	}
	return fmt.Sprintf("thread %d instruction %d (%v): %v", e.Thread, e.PC, e.Instr, e.Kind)
}

func (e *RuntimeError) Unwrap() error {
	return e.Kind
}
