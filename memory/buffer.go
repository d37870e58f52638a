// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package memory

// storeBuffer is a per-thread queue of stores that have executed but
// are not yet globally visible, oldest first.
type storeBuffer struct {
	entries []Entry
}

func (b *storeBuffer) push(addr, val int64) {
	b.entries = append(b.entries, Entry{addr, val})
}

// newest returns the value of the most recent buffered store to addr.
// This implements store buffer forwarding.
func (b *storeBuffer) newest(addr int64) (int64, bool) {
	for i := len(b.entries) - 1; i >= 0; i-- {
		if b.entries[i].Addr == addr {
			return b.entries[i].Value, true
		}
	}
	return 0, false
}

// popHead removes and returns the oldest entry.
func (b *storeBuffer) popHead() (Entry, bool) {
	if len(b.entries) == 0 {
		return Entry{}, false
	}
	e := b.entries[0]
	b.entries = b.entries[1:]
	if len(b.entries) == 0 {
		b.entries = nil
	}
	return e, true
}

// popAddr removes and returns the oldest entry for addr, leaving the
// relative order of the remaining entries unchanged.
func (b *storeBuffer) popAddr(addr int64) (Entry, bool) {
	for i, e := range b.entries {
		if e.Addr == addr {
			b.entries = append(b.entries[:i:i], b.entries[i+1:]...)
			if len(b.entries) == 0 {
				b.entries = nil
			}
			return e, true
		}
	}
	return Entry{}, false
}

// addrs returns the distinct addresses in b in order of their oldest
// entry.
func (b *storeBuffer) addrs() []int64 {
	var out []int64
	seen := make(map[int64]bool)
	for _, e := range b.entries {
		if !seen[e.Addr] {
			seen[e.Addr] = true
			out = append(out, e.Addr)
		}
	}
	return out
}

// bufMemory is the machinery common to the buffered models. The
// models differ only in which buffered stores may commit next.
type bufMemory struct {
	global
	sb   []storeBuffer
	opts Options
}

func (m *bufMemory) Read(tid int, addr int64) int64 {
	if v, ok := m.sb[tid].newest(addr); ok {
		return v
	}
	return m.load(addr)
}

func (m *bufMemory) Write(tid int, addr, val int64) {
	m.sb[tid].push(addr, val)
}

func (m *bufMemory) Pending(tid int) []Entry {
	return append([]Entry(nil), m.sb[tid].entries...)
}

// commit makes e globally visible.
func (m *bufMemory) commit(e Entry, ok bool) bool {
	if ok {
		m.store(e.Addr, e.Value)
	}
	return ok
}

// FlushOne commits the oldest buffered store. The oldest store is
// eligible under both TSO and PSO.
func (m *bufMemory) FlushOne(tid int) bool {
	return m.commit(m.sb[tid].popHead())
}

// Fence drains the buffer of thread tid in FIFO order. No other
// thread can observe the intermediate states, so the order is
// immaterial beyond preserving per-address order.
func (m *bufMemory) Fence(tid int) {
	for m.FlushOne(tid) {
	}
}

func (m *bufMemory) AtomicRMW(tid int, addr int64, f func(old int64) (int64, bool)) int64 {
	if !m.opts.NoAtomicFence {
		m.Fence(tid)
	}
	old := m.load(addr)
	if nv, ok := f(old); ok {
		m.store(addr, nv)
	}
	return old
}
