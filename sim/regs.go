// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sim

import (
	"fmt"
	"sort"
	"strings"

	"golang.org/x/exp/maps"
)

// Registers is a thread's register file. Registers that have never
// been written read as 0.
type Registers map[string]int64

// Get returns the value of register name, or 0 if it is unset.
func (r Registers) Get(name string) int64 {
	return r[name]
}

// Set sets register name to v.
func (r Registers) Set(name string, v int64) {
	r[name] = v
}

// Clone returns a copy of r.
func (r Registers) Clone() Registers {
	out := make(Registers, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// Names returns the names of the set registers in sorted order.
func (r Registers) Names() []string {
	names := maps.Keys(r)
	sort.Strings(names)
	return names
}

func (r Registers) String() string {
	parts := make([]string, 0, len(r))
	for _, name := range r.Names() {
		parts = append(parts, fmt.Sprintf("%q: %d", name, r[name]))
	}
	return "{" + strings.Join(parts, ", ") + "}"
}
