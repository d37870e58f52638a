// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package explore

import (
	"fmt"
	"io"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/crypto/ssh/terminal"
)

// A Progress reports how many runs an exploration has completed.
//
// On a VT100 terminal it keeps a status line up to date while runs
// are in flight. Otherwise it prints a single line when stopped.
type Progress struct {
	w     io.Writer
	vt100 bool
	label string
	total int

	done atomic.Int64
	stop chan struct{}
	wg   sync.WaitGroup
}

// NewProgress returns a Progress that writes to f. total is the
// expected number of runs, or 0 if unknown.
func NewProgress(f *os.File, label string, total int) *Progress {
	vt100 := os.Getenv("TERM") != "" && os.Getenv("TERM") != "dumb" && terminal.IsTerminal(int(f.Fd()))
	return &Progress{w: f, vt100: vt100, label: label, total: total}
}

// Add records n completed runs. It is safe to call from multiple
// goroutines, and on a nil *Progress.
func (p *Progress) Add(n int) {
	if p == nil {
		return
	}
	p.done.Add(int64(n))
}

// Start begins displaying the status line.
func (p *Progress) Start() {
	if p == nil || !p.vt100 {
		return
	}
	p.stop = make(chan struct{})
	p.wg.Add(1)
	go p.run()
}

// Stop stops the status line and prints the final count.
func (p *Progress) Stop() {
	if p == nil {
		return
	}
	if p.stop != nil {
		close(p.stop)
		p.wg.Wait()
		p.stop = nil
		return
	}
	fmt.Fprintf(p.w, "%s\n", p.status())
}

func (p *Progress) status() string {
	done := p.done.Load()
	if p.total > 0 {
		return fmt.Sprintf("%s: %d/%d runs", p.label, done, p.total)
	}
	return fmt.Sprintf("%s: %d runs", p.label, done)
}

// VT100 control sequences
const (
	resetLine = "\r\x1b[2K"
	wrapOff   = "\x1b[?7l"
	wrapOn    = "\x1b[?7h"
)

func (p *Progress) run() {
	defer p.wg.Done()
	tick := time.NewTicker(100 * time.Millisecond)
	defer tick.Stop()
	for {
		fmt.Fprintf(p.w, "%s%s%s%s", resetLine, wrapOff, p.status(), wrapOn)
		select {
		case <-tick.C:
		case <-p.stop:
			// Keep the last status line.
			fmt.Fprintf(p.w, "%s%s\n", resetLine, p.status())
			return
		}
	}
}
