// Copyright 2016 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package amb provides strategies for exploring a space of
// ambiguous choices.
//
// A memsim scheduler asks its Strategy to choose among the actions
// enabled at each step. A randomized strategy yields one
// interleaving per run; a depth-first strategy, driven repeatedly by
// Run, visits every interleaving of a program.
package amb

import "errors"

// A Strategy describes how to explore a space of ambiguous values.
// Such a space can be viewed as a tree, where a call to Amb
// introduces a node with fan-out n and a call to Next terminates a
// path.
type Strategy interface {
	// Amb returns an "ambiguous" value in the range [0, n). If
	// the current path cannot be continued (for example, it's
	// reached a maximum depth), it returns 0, false.
	//
	// The first call to Amb after constructing a Strategy or
	// calling Next always starts at the root of the tree.
	//
	// Amb may panic with ErrNondeterminism if it detects that the
	// application is behaving non-deterministically (for example,
	// when replaying a previously explored path, the value of n
	// is different from when Amb was called during a previous
	// exploration of this path). This is best-effort and some
	// strategies may not be able to detect this.
	Amb(n int) (int, bool)

	// Next terminates the current path. If there are no more
	// paths to explore, Next returns false. A Strategy is not
	// required to ever return false (for example, a randomized
	// strategy may not know that it's explored the entire space).
	Next() bool

	// Reset resets the state of this Strategy to the point where
	// no paths have been explored.
	Reset()
}

// DefaultMaxDepth is the default maximum tree depth if it is
// unspecified.
var DefaultMaxDepth = 1 << 20

// ErrPathTerminated is returned by Run's callback, or by a
// simulation, to indicate the Strategy cut the current path short.
var ErrPathTerminated = errors.New("path terminated")

// Run calls root repeatedly at different points in the ambiguous
// value space of s, starting from a fresh Strategy, until s reports
// there are no more paths. If root returns an error other than
// ErrPathTerminated, Run stops and returns it.
func Run(s Strategy, root func() error) error {
	s.Reset()
	for {
		if err := root(); err != nil && !errors.Is(err, ErrPathTerminated) {
			return err
		}
		if !s.Next() {
			return nil
		}
	}
}
