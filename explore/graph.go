// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package explore

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"golang.org/x/exp/maps"
)

// A Graph is a directed graph of memory models. An edge A -> B means
// A is at least as strong as B.
type Graph struct {
	Nodes []*Node
}

// A Node is a node of a Graph. Label may name several models
// separated by newlines once equivalent models are collapsed.
type Node struct {
	ID    int
	Label string
	In    map[int]bool
	Out   map[int]bool
}

func (g *Graph) NewNode(label string) *Node {
	node := &Node{ID: len(g.Nodes), Label: label, In: make(map[int]bool), Out: make(map[int]bool)}
	g.Nodes = append(g.Nodes, node)
	return node
}

func (g *Graph) Edge(from, to *Node) {
	from.Out[to.ID] = true
	to.In[from.ID] = true
}

func (g *Graph) RemoveEdge(from, to *Node) {
	delete(from.Out, to.ID)
	delete(to.In, from.ID)
}

// Equivalent returns the classes of mutually connected nodes, each
// in ID order. Edges must form a preorder (reflexive edges may be
// omitted), so these classes are the maximal cliques and partition
// the nodes.
func (g *Graph) Equivalent() [][]int {
	var classes [][]int
	have := make([]bool, len(g.Nodes))
	for id := range g.Nodes {
		if have[id] {
			continue
		}
		class := []int{id}
		have[id] = true
		for oid := id + 1; oid < len(g.Nodes); oid++ {
			if !have[oid] && g.connectedToAll(g.Nodes[oid], class) {
				class = append(class, oid)
				have[oid] = true
			}
		}
		classes = append(classes, class)
	}
	return classes
}

func (g *Graph) connectedToAll(n *Node, ids []int) bool {
	for _, id := range ids {
		if !n.In[id] || !n.Out[id] {
			return false
		}
	}
	return true
}

// Collapse returns a new graph with one node per group. Edges within
// a group are dropped.
func (g *Graph) Collapse(groups [][]int) *Graph {
	out := new(Graph)
	oldToNew := make([]*Node, len(g.Nodes))
	for _, group := range groups {
		labels := make([]string, len(group))
		for i, id := range group {
			labels[i] = g.Nodes[id].Label
		}
		n := out.NewNode(strings.Join(labels, "\n"))
		for _, id := range group {
			oldToNew[id] = n
		}
	}
	for oid, old := range g.Nodes {
		from := oldToNew[oid]
		if from == nil {
			continue
		}
		for to := range old.Out {
			if nto := oldToNew[to]; nto != nil && nto != from {
				out.Edge(from, nto)
			}
		}
	}
	return out
}

// TransitiveReduction removes every edge implied by a longer path.
// g must be acyclic.
func (g *Graph) TransitiveReduction() {
	type edge struct{ from, to *Node }
	var remove []edge
	for _, n := range g.Nodes {
		// Anything reachable in two or more steps from n does
		// not need a direct edge.
		visited := make([]bool, len(g.Nodes))
		var walk func(id int)
		walk = func(id int) {
			for next := range g.Nodes[id].Out {
				if visited[next] {
					continue
				}
				visited[next] = true
				walk(next)
			}
		}
		for child := range n.Out {
			walk(child)
		}
		for child := range n.Out {
			if visited[child] {
				remove = append(remove, edge{n, g.Nodes[child]})
			}
		}
	}
	for _, e := range remove {
		g.RemoveEdge(e.from, e.to)
	}
}

// ToDot writes the nodes and edges of g in dot syntax, without the
// enclosing digraph block. Node names are nodePrefix followed by the
// node ID.
func (g *Graph) ToDot(w io.Writer, nodePrefix string) {
	for id, node := range g.Nodes {
		name := fmt.Sprintf("%s%d", nodePrefix, id)
		fmt.Fprintf(w, "%s [label=%q];\n", name, node.Label)
		outs := maps.Keys(node.Out)
		sort.Ints(outs)
		for _, oid := range outs {
			fmt.Fprintf(w, "%s -> %s%d;\n", name, nodePrefix, oid)
		}
	}
}
