// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package memory

// tsoMemory implements total store order. Each thread's store buffer
// is strictly FIFO, so only its head may commit.
type tsoMemory struct {
	bufMemory
}

func (m *tsoMemory) Model() Model { return TSO }

func (m *tsoMemory) Flushable(tid int) []int64 {
	sb := &m.sb[tid]
	if len(sb.entries) == 0 {
		return nil
	}
	return []int64{sb.entries[0].Addr}
}

func (m *tsoMemory) Flush(tid int, addr int64) bool {
	sb := &m.sb[tid]
	if len(sb.entries) == 0 || sb.entries[0].Addr != addr {
		return false
	}
	return m.commit(sb.popHead())
}
