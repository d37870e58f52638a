// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package amb

import (
	"errors"
	"reflect"
	"testing"
)

func TestDFSEnumerates(t *testing.T) {
	var s StrategyDFS
	var got [][2]int
	err := Run(&s, func() error {
		a, _ := s.Amb(2)
		b, _ := s.Amb(3)
		got = append(got, [2]int{a, b})
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
	want := [][2]int{{0, 0}, {0, 1}, {0, 2}, {1, 0}, {1, 1}, {1, 2}}
	if !reflect.DeepEqual(want, got) {
		t.Errorf("want %v, got %v", want, got)
	}
	if s.Paths() != len(want) {
		t.Errorf("want %d paths, got %d", len(want), s.Paths())
	}
}

func TestDFSVariableWidth(t *testing.T) {
	// The width of later choices may depend on earlier ones.
	var s StrategyDFS
	n := 0
	Run(&s, func() error {
		a, _ := s.Amb(3)
		for i := 0; i < a; i++ {
			s.Amb(2)
		}
		n++
		return nil
	})
	// 1 + 2 + 4 leaves.
	if n != 7 {
		t.Errorf("want 7 paths, got %d", n)
	}
}

func TestDFSMaxDepth(t *testing.T) {
	s := StrategyDFS{MaxDepth: 2}
	s.Reset()
	if _, ok := s.Amb(2); !ok {
		t.Fatal("first Amb failed")
	}
	if _, ok := s.Amb(2); !ok {
		t.Fatal("second Amb failed")
	}
	if _, ok := s.Amb(2); ok {
		t.Fatal("Amb beyond MaxDepth succeeded")
	}
}

func TestDFSNondeterminism(t *testing.T) {
	var s StrategyDFS
	width := 2
	defer func() {
		err, _ := recover().(error)
		var nd *ErrNondeterminism
		if !errors.As(err, &nd) {
			t.Errorf("want ErrNondeterminism panic, got %v", err)
		}
	}()
	Run(&s, func() error {
		s.Amb(width)
		s.Amb(2)
		width++
		return nil
	})
}

func TestRandomSeeded(t *testing.T) {
	seq := func(seed int64) []int {
		s := NewRandom(seed)
		var out []int
		for i := 0; i < 20; i++ {
			x, _ := s.Amb(10)
			out = append(out, x)
		}
		return out
	}
	a, b := seq(42), seq(42)
	if !reflect.DeepEqual(a, b) {
		t.Errorf("same seed gave %v and %v", a, b)
	}
	for _, x := range a {
		if x < 0 || x >= 10 {
			t.Fatalf("Amb(10) returned %d", x)
		}
	}
}

func TestRandomMaxPaths(t *testing.T) {
	s := &StrategyRandom{MaxPaths: 5}
	n := 0
	Run(s, func() error {
		s.Amb(2)
		n++
		return nil
	})
	if n != 5 {
		t.Errorf("want 5 paths, got %d", n)
	}
}

func TestRunStopsOnError(t *testing.T) {
	boom := errors.New("boom")
	var s StrategyDFS
	n := 0
	err := Run(&s, func() error {
		s.Amb(4)
		n++
		if n == 2 {
			return boom
		}
		return nil
	})
	if err != boom {
		t.Errorf("want %v, got %v", boom, err)
	}
	if n != 2 {
		t.Errorf("want 2 calls, got %d", n)
	}

	// ErrPathTerminated does not stop exploration.
	n = 0
	err = Run(&s, func() error {
		s.Amb(4)
		n++
		return ErrPathTerminated
	})
	if err != nil || n != 4 {
		t.Errorf("want 4 calls and nil, got %d and %v", n, err)
	}
}
