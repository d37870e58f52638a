// Copyright 2016 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package amb

import "fmt"

// StrategyDFS visits every path through the choice tree exactly once,
// in depth-first order, with the lowest choices first.
//
// A path is replayed from the root on every run: the first calls to
// Amb return the choices of the previous path up to the deepest
// choice that still has an untried sibling, and later calls return 0
// until the run ends. The code under exploration must therefore make
// the same Amb calls when given the same answers.
type StrategyDFS struct {
	// MaxDepth bounds the number of choices on a path. If this is
	// 0, it defaults to DefaultMaxDepth.
	MaxDepth int

	// stack holds the choices of the current path, root first.
	stack []choice
	// depth is the number of choices made so far on this run.
	depth int
	paths int
}

// A choice is one Amb call on the current path.
type choice struct {
	width, pick int
}

func (s *StrategyDFS) Reset() {
	*s = StrategyDFS{MaxDepth: s.MaxDepth}
}

func (s *StrategyDFS) Amb(n int) (int, bool) {
	if s.depth < len(s.stack) {
		c := s.stack[s.depth]
		if c.width != n {
			panic(&ErrNondeterminism{fmt.Sprintf("choice %d has width %d on replay, was %d", s.depth, n, c.width)})
		}
		s.depth++
		return c.pick, true
	}
	limit := s.MaxDepth
	if limit == 0 {
		limit = DefaultMaxDepth
	}
	if s.depth >= limit {
		return 0, false
	}
	s.stack = append(s.stack, choice{width: n})
	s.depth++
	return 0, true
}

// Next advances to the next path. It pops exhausted choices off the
// end of the current path and bumps the deepest one that has an
// untried alternative.
func (s *StrategyDFS) Next() bool {
	s.depth = 0
	s.paths++
	for len(s.stack) > 0 {
		top := &s.stack[len(s.stack)-1]
		if top.pick+1 < top.width {
			top.pick++
			return true
		}
		s.stack = s.stack[:len(s.stack)-1]
	}
	return false
}

// Paths returns the number of completed paths.
func (s *StrategyDFS) Paths() int {
	return s.paths
}

// Path returns the choices made so far on the current run.
func (s *StrategyDFS) Path() []int {
	path := make([]int, s.depth)
	for i := range path {
		path[i] = s.stack[i].pick
	}
	return path
}

// ErrNondeterminism is the panic value of a StrategyDFS whose client
// made different Amb calls while replaying a path.
type ErrNondeterminism struct {
	Detail string
}

func (e *ErrNondeterminism) Error() string {
	return "non-determinism detected: " + e.Detail
}
