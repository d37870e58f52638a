// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package explore

import (
	"bytes"
	"context"
	"reflect"
	"strings"
	"testing"

	"github.com/aclements/memsim/memory"
)

func TestCompareMessagePassing(t *testing.T) {
	p := mustParse(t, messagePassing)
	e := Explorer{Regs: mustRegs(t, "1:r1", "1:r2"), Exhaustive: true}
	c, err := Compare(context.Background(), p, e, memory.Models)
	if err != nil {
		t.Fatal(err)
	}
	// Only PSO lets the flag overtake the data.
	stale := Outcome("1:r1=1 1:r2=0 {1: 1, 2: 1}")
	for i, m := range c.Models {
		if got, want := c.Sets[i].Has(stale), m == memory.PSO; got != want {
			t.Errorf("%v: stale read: want %v, got %v", m, want, got)
		}
	}
	for i := range c.Models {
		for j := range c.Models {
			ce := c.Counterexamples[i][j]
			if want := c.Models[i] == memory.PSO && i != j; (ce != nil) != want {
				t.Errorf("counterexample %v vs %v: want %v, got %v", c.Models[i], c.Models[j], want, ce)
			}
			if ce != nil && !reflect.DeepEqual(ce.Outcomes, []Outcome{stale}) {
				t.Errorf("counterexample %v vs %v: got %v", c.Models[i], c.Models[j], ce.Outcomes)
			}
		}
	}

	var buf bytes.Buffer
	c.WriteDot(&buf, true)
	want := `0 [label="SC\nTSO"];
0 -> 1;
1 [label="PSO"];
}
`
	if got := buf.String(); !strings.HasSuffix(got, want) {
		t.Errorf("want dot ending with:\n%s\ngot:\n%s", want, got)
	}
	if got := buf.String(); !strings.Contains(got, "# PSO is weaker than SC\n#   1:r1=1 1:r2=0 {1: 1, 2: 1}\n") {
		t.Errorf("dot output lacks counterexample:\n%s", got)
	}
}

func TestCompareStoreBuffering(t *testing.T) {
	p := mustParse(t, storeBuffering)
	e := Explorer{Regs: mustRegs(t, "0:r", "1:r"), Exhaustive: true}
	c, err := Compare(context.Background(), p, e, memory.Models)
	if err != nil {
		t.Fatal(err)
	}
	g := c.Graph(true)
	if len(g.Nodes) != 2 {
		t.Fatalf("want 2 classes, got %d", len(g.Nodes))
	}
	if g.Nodes[0].Label != "SC" || g.Nodes[1].Label != "TSO\nPSO" {
		t.Errorf("want SC and TSO/PSO, got %q and %q", g.Nodes[0].Label, g.Nodes[1].Label)
	}
	if !g.Nodes[0].Out[1] || g.Nodes[1].Out[0] {
		t.Errorf("want SC -> TSO/PSO only")
	}

	// Unsimplified, equivalent models point at each other.
	g = c.Graph(false)
	if !g.Nodes[1].Out[2] || !g.Nodes[2].Out[1] {
		t.Errorf("TSO and PSO are not mutually connected")
	}
}

func TestTransitiveReduction(t *testing.T) {
	g := new(Graph)
	a, b, c, d := g.NewNode("a"), g.NewNode("b"), g.NewNode("c"), g.NewNode("d")
	g.Edge(a, b)
	g.Edge(b, c)
	g.Edge(a, c)
	g.Edge(c, d)
	g.Edge(a, d)
	g.Edge(b, d)
	g.TransitiveReduction()
	var buf bytes.Buffer
	g.ToDot(&buf, "n")
	want := `n0 [label="a"];
n0 -> n1;
n1 [label="b"];
n1 -> n2;
n2 [label="c"];
n2 -> n3;
n3 [label="d"];
`
	if got := buf.String(); got != want {
		t.Errorf("want:\n%s\ngot:\n%s", want, got)
	}
	if len(d.In) != 1 || !d.In[c.ID] {
		t.Errorf("d.In not updated: %v", d.In)
	}
}

func TestEquivalent(t *testing.T) {
	g := new(Graph)
	n := []*Node{g.NewNode("0"), g.NewNode("1"), g.NewNode("2"), g.NewNode("3")}
	both := func(x, y *Node) {
		g.Edge(x, y)
		g.Edge(y, x)
	}
	both(n[0], n[2])
	both(n[1], n[3])
	g.Edge(n[0], n[1])
	want := [][]int{{0, 2}, {1, 3}}
	if got := g.Equivalent(); !reflect.DeepEqual(want, got) {
		t.Errorf("want %v, got %v", want, got)
	}
	cg := g.Collapse(want)
	if cg.Nodes[0].Label != "0\n2" || !cg.Nodes[0].Out[1] || len(cg.Nodes[1].Out) != 0 {
		t.Errorf("bad collapsed graph: %+v %+v", cg.Nodes[0], cg.Nodes[1])
	}
}

func TestWriteTable(t *testing.T) {
	a, b := NewOutcomeSet(), NewOutcomeSet()
	a.Add("x=0")
	a.Add("x=0")
	a.Add("x=1")
	b.Add("x=0")
	var buf bytes.Buffer
	if err := WriteTable(&buf, []string{"TSO", "SC"}, []*OutcomeSet{a, b}); err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("want header and 2 rows, got:\n%s", buf.String())
	}
	for i, want := range [][]string{
		{"outcome", "TSO", "SC", "differs"},
		{"x=0", "Y 2", "Y 1"},
		{"x=1", "Y 1", "N", "*"},
	} {
		for _, field := range want {
			if !strings.Contains(lines[i], field) {
				t.Errorf("line %d %q lacks %q", i, lines[i], field)
			}
		}
	}
	if strings.Contains(lines[1], "*") {
		t.Errorf("agreeing row marked: %q", lines[1])
	}

	if err := WriteTable(&buf, []string{"TSO"}, []*OutcomeSet{a, b}); err == nil {
		t.Errorf("mismatched names accepted")
	}
}

func TestWriteSVG(t *testing.T) {
	s := NewOutcomeSet()
	s.Add("r=<0>")
	s.Add("r=1")
	s.Add("r=1")
	var buf bytes.Buffer
	WriteSVG(&buf, "TSO", s)
	out := buf.String()
	if !strings.Contains(out, "<svg") || !strings.HasSuffix(strings.TrimSpace(out), "</svg>") {
		t.Fatalf("not an SVG document:\n%s", out)
	}
	if n := strings.Count(out, "<rect"); n != 2 {
		t.Errorf("want 2 bars, got %d", n)
	}
	// Most common first, and labels escaped.
	i1, i0 := strings.Index(out, "r=1"), strings.Index(out, "r=&lt;0&gt;")
	if i1 < 0 || i0 < 0 || i1 > i0 {
		t.Errorf("bad labels or order:\n%s", out)
	}
}
