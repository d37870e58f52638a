// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package explore

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/aclements/memsim/isa"
	"github.com/aclements/memsim/memory"
)

// A Counterexample shows that one model is weaker than another: the
// program produced Outcomes under Weaker that it never produced
// under Stronger.
type Counterexample struct {
	Weaker, Stronger memory.Model
	Outcomes         []Outcome
}

func (c *Counterexample) Print(w io.Writer) {
	fmt.Fprintf(w, "%v is weaker than %v\n", c.Weaker, c.Stronger)
	for _, o := range c.Outcomes {
		fmt.Fprintf(w, "  %s\n", o)
	}
}

// A Comparison holds the outcomes of one program under several
// models.
type Comparison struct {
	Models []memory.Model
	Sets   []*OutcomeSet

	// Counterexamples[i][j] is non-nil if Models[i] permits
	// outcomes that Models[j] does not.
	Counterexamples [][]*Counterexample
}

// Compare explores prog under each of models, using e for every
// setting except the model.
func Compare(ctx context.Context, prog *isa.Program, e Explorer, models []memory.Model) (*Comparison, error) {
	c := &Comparison{Models: models}
	for _, m := range models {
		e.Model = m
		set, err := e.Explore(ctx, prog)
		if err != nil {
			return nil, fmt.Errorf("%v: %w", m, err)
		}
		c.Sets = append(c.Sets, set)
	}

	c.Counterexamples = make([][]*Counterexample, len(models))
	for i := range models {
		c.Counterexamples[i] = make([]*Counterexample, len(models))
		for j := range models {
			if i == j {
				continue
			}
			if diff := c.Sets[i].Difference(c.Sets[j]); len(diff) > 0 {
				c.Counterexamples[i][j] = &Counterexample{models[i], models[j], diff}
			}
		}
	}
	return c, nil
}

// Names returns the model names in order.
func (c *Comparison) Names() []string {
	names := make([]string, len(c.Models))
	for i, m := range c.Models {
		names[i] = m.String()
	}
	return names
}

// Graph returns the strength order of the compared models. If
// simplify is set, equivalent models share a node and implied edges
// are removed.
func (c *Comparison) Graph(simplify bool) *Graph {
	g := new(Graph)
	for _, m := range c.Models {
		g.NewNode(m.String())
	}
	for i := range c.Models {
		for j := range c.Models {
			if i != j && c.Counterexamples[i][j] == nil {
				// Model i permits nothing model j
				// forbids, so i is at least as strong.
				g.Edge(g.Nodes[i], g.Nodes[j])
			}
		}
	}
	if simplify {
		g = g.Collapse(g.Equivalent())
		g.TransitiveReduction()
	}
	return g
}

// WriteDot writes the strength graph of c in dot syntax, with every
// counterexample as a comment.
func (c *Comparison) WriteDot(w io.Writer, simplify bool) {
	fmt.Fprintln(w, "digraph memsim {")
	if simplify {
		fmt.Fprintln(w, "label=\"A -> B means A is stronger than B\";")
	} else {
		fmt.Fprintln(w, "label=\"A -> B means A is stronger than or equal to B\";")
	}
	for _, row := range c.Counterexamples {
		for _, ce := range row {
			if ce == nil {
				continue
			}
			var b strings.Builder
			ce.Print(&b)
			fmt.Fprintf(w, "# %s\n", strings.ReplaceAll(strings.TrimSuffix(b.String(), "\n"), "\n", "\n# "))
		}
	}
	c.Graph(simplify).ToDot(w, "")
	fmt.Fprintln(w, "}")
}
