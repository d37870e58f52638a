// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package explore

import (
	"fmt"
	"io"
	"sort"

	"github.com/aclements/go-gg/table"
	svg "github.com/ajstarks/svgo"
)

// WriteTable writes one row per outcome observed in any of sets and
// one column per set, headed by the corresponding name. A cell shows
// Y and the run count if that set has the outcome, or N. Rows where
// the sets disagree are marked with *.
func WriteTable(w io.Writer, names []string, sets []*OutcomeSet) error {
	if len(names) != len(sets) {
		return fmt.Errorf("%d names for %d outcome sets", len(names), len(sets))
	}
	all := NewOutcomeSet()
	for _, s := range sets {
		all.AddAll(s)
	}
	keys := all.Keys()

	outcomes := make([]string, len(keys))
	diff := make([]string, len(keys))
	cols := make([][]string, len(sets))
	for i := range cols {
		cols[i] = make([]string, len(keys))
	}
	for row, o := range keys {
		outcomes[row] = string(o)
		var haveY, haveN bool
		for i, s := range sets {
			if n := s.Count(o); n > 0 {
				cols[i][row] = fmt.Sprintf("Y %d", n)
				haveY = true
			} else {
				cols[i][row] = "N"
				haveN = true
			}
		}
		if haveY && haveN {
			diff[row] = "*"
		}
	}

	tab := new(table.Builder).Add("outcome", outcomes)
	for i, name := range names {
		tab.Add(name, cols[i])
	}
	tab.Add("differs", diff)
	return table.Fprint(w, tab.Done())
}

// Layout of WriteSVG charts, in pixels.
const (
	svgBarHeight = 20
	svgBarMax    = 300
	svgLabelX    = svgBarMax + 70
	svgMargin    = 10
	svgCharWidth = 7
)

// WriteSVG draws a horizontal bar chart of how often each outcome in
// s occurred, most common first.
func WriteSVG(w io.Writer, title string, s *OutcomeSet) {
	keys := s.Keys()
	sort.SliceStable(keys, func(i, j int) bool { return s.Count(keys[i]) > s.Count(keys[j]) })
	maxCount := 1
	longest := len(title)
	for _, o := range keys {
		maxCount = max(maxCount, s.Count(o))
		longest = max(longest, len(o))
	}

	width := svgLabelX + longest*svgCharWidth + svgMargin
	height := (len(keys)+1)*svgBarHeight + 2*svgMargin
	canvas := svg.New(w)
	canvas.Start(width, height, `font-size="12px" font-family="monospace"`)
	defer canvas.End()

	canvas.Text(svgMargin, svgMargin+svgBarHeight/2, title, `dy=".3em" font-weight="bold"`)
	for i, o := range keys {
		n := s.Count(o)
		y := svgMargin + (i+1)*svgBarHeight
		bw := max(1, n*svgBarMax/maxCount)
		canvas.Rect(svgMargin, y+2, bw, svgBarHeight-4, "fill:#4a7ebb")
		canvas.Text(svgMargin+bw+4, y+svgBarHeight/2, fmt.Sprint(n), `dy=".3em" fill="#666"`)
		canvas.Text(svgLabelX, y+svgBarHeight/2, string(o), `dy=".3em"`)
	}
}
