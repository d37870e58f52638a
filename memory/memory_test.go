// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package memory

import (
	"reflect"
	"testing"
)

func TestParseModel(t *testing.T) {
	for _, test := range []struct {
		in   string
		want Model
	}{
		{"SC", SC}, {"sc", SC}, {"TSO", TSO}, {"TS", TSO}, {"ts", TSO}, {"PSO", PSO},
	} {
		got, err := ParseModel(test.in)
		if err != nil || got != test.want {
			t.Errorf("ParseModel(%q): want %v, got %v, %v", test.in, test.want, got, err)
		}
	}
	if _, err := ParseModel("RC11"); err == nil {
		t.Error("ParseModel(RC11) succeeded")
	}
}

func TestSC(t *testing.T) {
	m := New(SC, 2, Options{})
	if got := m.Read(0, 5); got != 0 {
		t.Errorf("unwritten address: want 0, got %d", got)
	}
	m.Write(0, 5, 7)
	if got := m.Read(1, 5); got != 7 {
		t.Errorf("other thread: want 7, got %d", got)
	}
	if m.Flushable(0) != nil || m.FlushOne(0) || m.Flush(0, 5) {
		t.Error("SC has something to flush")
	}
	if want := map[int64]int64{5: 7}; !reflect.DeepEqual(want, m.Global()) {
		t.Errorf("want %v, got %v", want, m.Global())
	}
}

func TestBufferedReadOwnWrites(t *testing.T) {
	for _, model := range []Model{TSO, PSO} {
		m := New(model, 2, Options{})
		m.Write(0, 1, 10)
		m.Write(0, 1, 11)
		if got := m.Read(0, 1); got != 11 {
			t.Errorf("%v: own read: want 11, got %d", model, got)
		}
		if got := m.Read(1, 1); got != 0 {
			t.Errorf("%v: other read before flush: want 0, got %d", model, got)
		}
		if len(m.Global()) != 0 {
			t.Errorf("%v: store visible before flush: %v", model, m.Global())
		}
		if !m.FlushOne(0) {
			t.Fatalf("%v: FlushOne found nothing", model)
		}
		if got := m.Read(1, 1); got != 10 {
			t.Errorf("%v: after first flush: want 10, got %d", model, got)
		}
		if got := m.Read(0, 1); got != 11 {
			t.Errorf("%v: own read after first flush: want 11, got %d", model, got)
		}
		m.FlushOne(0)
		if got := m.Read(1, 1); got != 11 {
			t.Errorf("%v: after second flush: want 11, got %d", model, got)
		}
		if m.FlushOne(0) {
			t.Errorf("%v: FlushOne on empty buffer succeeded", model)
		}
	}
}

func TestTSOFlushable(t *testing.T) {
	m := New(TSO, 1, Options{})
	m.Write(0, 1, 1)
	m.Write(0, 2, 2)
	if want, got := []int64{1}, m.Flushable(0); !reflect.DeepEqual(want, got) {
		t.Errorf("want %v, got %v", want, got)
	}
	// Address 2 cannot overtake address 1.
	if m.Flush(0, 2) {
		t.Error("TSO committed a store out of order")
	}
	if !m.Flush(0, 1) || !m.Flush(0, 2) {
		t.Error("in-order flush failed")
	}
	if m.Flushable(0) != nil {
		t.Errorf("want empty, got %v", m.Flushable(0))
	}
}

func TestPSOFlushable(t *testing.T) {
	m := New(PSO, 1, Options{})
	m.Write(0, 1, 1)
	m.Write(0, 2, 2)
	m.Write(0, 1, 3)
	if want, got := []int64{1, 2}, m.Flushable(0); !reflect.DeepEqual(want, got) {
		t.Errorf("want %v, got %v", want, got)
	}
	// Address 2 may overtake address 1.
	if !m.Flush(0, 2) {
		t.Fatal("PSO refused to reorder stores to different addresses")
	}
	if want := map[int64]int64{2: 2}; !reflect.DeepEqual(want, m.Global()) {
		t.Errorf("want %v, got %v", want, m.Global())
	}
	// Stores to address 1 stay in order.
	m.Flush(0, 1)
	if got := m.Global()[1]; got != 1 {
		t.Errorf("want 1, got %d", got)
	}
	m.Flush(0, 1)
	if got := m.Global()[1]; got != 3 {
		t.Errorf("want 3, got %d", got)
	}
	if m.Flush(0, 1) {
		t.Error("flushed from empty buffer")
	}
}

func TestFence(t *testing.T) {
	for _, model := range Models {
		m := New(model, 2, Options{})
		m.Write(0, 1, 1)
		m.Write(0, 2, 2)
		m.Write(1, 3, 3)
		m.Fence(0)
		if len(m.Pending(0)) != 0 {
			t.Errorf("%v: pending after fence: %v", model, m.Pending(0))
		}
		if got := m.Global(); got[1] != 1 || got[2] != 2 {
			t.Errorf("%v: fence did not commit: %v", model, got)
		}
		// Fencing thread 0 leaves thread 1 alone.
		if model != SC && len(m.Pending(1)) != 1 {
			t.Errorf("%v: thread 1 pending: want 1 entry, got %v", model, m.Pending(1))
		}
	}
}

func TestAtomicRMW(t *testing.T) {
	add := func(n int64) func(int64) (int64, bool) {
		return func(old int64) (int64, bool) { return old + n, true }
	}
	for _, model := range Models {
		m := New(model, 2, Options{})
		m.Write(0, 1, 5)
		old := m.AtomicRMW(0, 1, add(1))
		if old != 5 {
			t.Errorf("%v: want old 5, got %d", model, old)
		}
		if len(m.Pending(0)) != 0 {
			t.Errorf("%v: atomic did not fence: %v", model, m.Pending(0))
		}
		if got := m.Read(1, 1); got != 6 {
			t.Errorf("%v: want 6 visible, got %d", model, got)
		}
	}
}

func TestAtomicRMWWrite(t *testing.T) {
	for _, model := range Models {
		m := New(model, 1, Options{})
		// Writing the value already there still creates the
		// address.
		m.AtomicRMW(0, 5, func(old int64) (int64, bool) { return old, true })
		// Declining to write leaves memory alone.
		m.AtomicRMW(0, 6, func(old int64) (int64, bool) { return 9, false })
		if want := map[int64]int64{5: 0}; !reflect.DeepEqual(want, m.Global()) {
			t.Errorf("%v: want %v, got %v", model, want, m.Global())
		}
	}
}

func TestAtomicNoFence(t *testing.T) {
	m := New(TSO, 1, Options{NoAtomicFence: true})
	m.Write(0, 1, 5)
	old := m.AtomicRMW(0, 1, func(old int64) (int64, bool) { return old + 1, true })
	if old != 0 {
		t.Errorf("want old 0 from global memory, got %d", old)
	}
	if want := []Entry{{1, 5}}; !reflect.DeepEqual(want, m.Pending(0)) {
		t.Errorf("want %v pending, got %v", want, m.Pending(0))
	}
	// The older buffered store lands after the atomic.
	m.Fence(0)
	if got := m.Global()[1]; got != 5 {
		t.Errorf("want 5, got %d", got)
	}
}

func TestGlobalIsCopy(t *testing.T) {
	m := New(SC, 1, Options{})
	m.Write(0, 1, 1)
	g := m.Global()
	g[1] = 100
	if got := m.Read(0, 1); got != 1 {
		t.Errorf("Global aliases memory: got %d", got)
	}
}
