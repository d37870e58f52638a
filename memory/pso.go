// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package memory

// psoMemory implements partial store order. Conceptually each thread
// has one FIFO per address; stores to different addresses may commit
// in any order.
type psoMemory struct {
	bufMemory
}

func (m *psoMemory) Model() Model { return PSO }

func (m *psoMemory) Flushable(tid int) []int64 {
	return m.sb[tid].addrs()
}

func (m *psoMemory) Flush(tid int, addr int64) bool {
	return m.commit(m.sb[tid].popAddr(addr))
}
