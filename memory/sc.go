// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package memory

// scMemory models all loads and stores as sequentially consistent.
// Every store is globally visible the moment it executes, so there
// are no buffers to flush.
type scMemory struct {
	global
}

func (m *scMemory) Model() Model { return SC }

func (m *scMemory) Read(tid int, addr int64) int64 {
	return m.load(addr)
}

func (m *scMemory) Write(tid int, addr, val int64) {
	m.store(addr, val)
}

func (m *scMemory) Flushable(tid int) []int64 { return nil }
func (m *scMemory) Flush(tid int, addr int64) bool { return false }
func (m *scMemory) FlushOne(tid int) bool { return false }
func (m *scMemory) Fence(tid int) {}
func (m *scMemory) Pending(tid int) []Entry { return nil }

func (m *scMemory) AtomicRMW(tid int, addr int64, f func(old int64) (int64, bool)) int64 {
	old := m.load(addr)
	if nv, ok := f(old); ok {
		m.store(addr, nv)
	}
	return old
}
