// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package isa

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/kballard/go-shellquote"
)

// Parse reads a program in the memsim text format.
//
// Each line holds one instruction. Threads are separated by one or
// more blank lines. Text following "//" is a comment. An instruction
// may be prefixed by "label:". The instruction forms are:
//
//	r = 42              (decimal, optionally signed)
//	r1 = r2 + r3        (also -, *, /)
//	if r goto label
//	load MODE #a r
//	store MODE #a r
//	r := cas MODE #a exp des
//	r := fai MODE #a inc
//	fence MODE
//
// where MODE is one of SEQ_CST, REL, ACQ, REL_ACQ or RLX and #a names
// the register holding the address (the "#" is optional).
func Parse(r io.Reader) (*Program, error) {
	var (
		prog    Program
		cur     []Instr
		lines   []int // Source line of each instruction in cur.
		lineNum int
	)
	flush := func() error {
		if len(cur) == 0 {
			return nil
		}
		tid := len(prog.Threads)
		t, err := NewThread(tid, cur)
		if err != nil {
			if le, ok := err.(*LoadError); ok && le.Index >= 0 {
				le.Line = lines[le.Index]
			}
			return err
		}
		prog.Threads = append(prog.Threads, t)
		cur, lines = nil, nil
		return nil
	}

	sc := bufio.NewScanner(r)
	for sc.Scan() {
		lineNum++
		line := sc.Text()
		comment := false
		if i := strings.Index(line, "//"); i >= 0 {
			line = line[:i]
			comment = true
		}
		if strings.TrimSpace(line) == "" {
			if comment {
				// A comment line does not end a thread.
				continue
			}
			if err := flush(); err != nil {
				return nil, err
			}
			continue
		}
		in, err := ParseInstr(line)
		if err != nil {
			return nil, &LoadError{Thread: len(prog.Threads), Index: len(cur), Line: lineNum, Kind: ErrMalformed, Msg: err.Error()}
		}
		cur = append(cur, in)
		lines = append(lines, lineNum)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	if err := flush(); err != nil {
		return nil, err
	}
	if len(prog.Threads) == 0 {
		return nil, &LoadError{Thread: -1, Index: -1, Kind: ErrMalformed, Msg: "program has no threads"}
	}
	return &prog, nil
}

// ParseInstr parses a single instruction line.
func ParseInstr(line string) (Instr, error) {
	f, err := shellquote.Split(line)
	if err != nil {
		return Instr{}, err
	}
	if len(f) == 0 {
		return Instr{}, fmt.Errorf("empty instruction")
	}

	var label string
	if strings.HasSuffix(f[0], ":") && f[0] != ":=" {
		label = strings.TrimSuffix(f[0], ":")
		if label == "" {
			return Instr{}, fmt.Errorf("empty label")
		}
		f = f[1:]
	}

	in, err := parseFields(f)
	if err != nil {
		return Instr{}, err
	}
	in.Label = label
	return in, nil
}

func parseFields(f []string) (Instr, error) {
	mode := func(s string) (Mode, error) {
		m, ok := ParseMode(s)
		if !ok {
			return 0, fmt.Errorf("invalid mode %q", s)
		}
		return m, nil
	}

	switch {
	case len(f) == 3 && f[1] == "=":
		v, err := strconv.ParseInt(f[2], 10, 64)
		if err != nil {
			return Instr{}, fmt.Errorf("invalid constant %q", f[2])
		}
		return Const(f[0], v), nil

	case len(f) == 5 && f[1] == "=":
		if len(f[3]) != 1 || !ArithOp(f[3][0]).Valid() {
			return Instr{}, fmt.Errorf("unknown operator %q", f[3])
		}
		return Arith(f[0], f[2], ArithOp(f[3][0]), f[4]), nil

	case len(f) == 4 && f[0] == "if" && f[2] == "goto":
		return CondJump(f[1], f[3]), nil

	case len(f) == 4 && (f[0] == "load" || f[0] == "store"):
		m, err := mode(f[1])
		if err != nil {
			return Instr{}, err
		}
		if f[0] == "load" {
			return Load(m, addrReg(f[2]), f[3]), nil
		}
		return Store(m, addrReg(f[2]), f[3]), nil

	case len(f) == 7 && f[1] == ":=" && f[2] == "cas":
		m, err := mode(f[3])
		if err != nil {
			return Instr{}, err
		}
		return Cas(m, f[0], addrReg(f[4]), f[5], f[6]), nil

	case len(f) == 6 && f[1] == ":=" && f[2] == "fai":
		m, err := mode(f[3])
		if err != nil {
			return Instr{}, err
		}
		return Fai(m, f[0], addrReg(f[4]), f[5]), nil

	case len(f) == 2 && f[0] == "fence":
		m, err := mode(f[1])
		if err != nil {
			return Instr{}, err
		}
		return Fence(m), nil

	case len(f) == 1 && f[0] == "fence":
		return Fence(SeqCst), nil
	}
	return Instr{}, fmt.Errorf("unknown instruction format %q", strings.Join(f, " "))
}

func addrReg(s string) string {
	return strings.TrimPrefix(s, "#")
}
