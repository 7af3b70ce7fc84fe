// Package graph is a small directed executor for per-turn pipelines. Nodes
// mutate a shared state record; edges are either static or selected from the
// state after a node runs. Execution is single-threaded and step-capped, so
// a miswired cycle surfaces as an error instead of a hang.
package graph

import (
	"context"
	"fmt"

	"github.com/mealgraph/mealgraph/pkg/domain"
)

// End is the reserved target that stops execution.
const End = "end"

// DefaultMaxSteps caps node executions in one run.
const DefaultMaxSteps = 16

// NodeFunc is one pipeline stage operating on the turn state.
type NodeFunc func(ctx context.Context, s *domain.State) error

// Selector picks the next node name from the state after a node ran.
type Selector func(s *domain.State) string

// Graph is a directed routing graph. Build it once with AddNode and the edge
// methods, then Run it per turn; a built graph is safe for concurrent runs
// because all mutable data lives on the state.
type Graph struct {
	entry     string
	nodes     map[string]NodeFunc
	edges     map[string]string
	selectors map[string]Selector
	maxSteps  int
}

// New creates an empty graph that starts at entry.
func New(entry string) *Graph {
	return &Graph{
		entry:     entry,
		nodes:     make(map[string]NodeFunc),
		edges:     make(map[string]string),
		selectors: make(map[string]Selector),
		maxSteps:  DefaultMaxSteps,
	}
}

// WithMaxSteps overrides the step cap.
func (g *Graph) WithMaxSteps(n int) *Graph {
	if n > 0 {
		g.maxSteps = n
	}
	return g
}

// AddNode registers a named stage.
func (g *Graph) AddNode(name string, fn NodeFunc) *Graph {
	g.nodes[name] = fn
	return g
}

// AddEdge wires a static transition from one node to the next (or End).
func (g *Graph) AddEdge(from, to string) *Graph {
	g.edges[from] = to
	return g
}

// AddConditionalEdge wires a state-dependent transition. A selector takes
// precedence over a static edge from the same node.
func (g *Graph) AddConditionalEdge(from string, sel Selector) *Graph {
	g.selectors[from] = sel
	return g
}

// Run executes the graph over s from the entry node until an edge reaches
// End. A node without an outgoing edge, an edge to an unregistered node, or
// exceeding the step cap is a wiring error.
func (g *Graph) Run(ctx context.Context, s *domain.State) error {
	current := g.entry
	for steps := 0; ; steps++ {
		if steps >= g.maxSteps {
			return fmt.Errorf("graph exceeded %d steps at node %q", g.maxSteps, current)
		}
		fn, ok := g.nodes[current]
		if !ok {
			return fmt.Errorf("graph has no node %q", current)
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := fn(ctx, s); err != nil {
			return fmt.Errorf("node %q: %w", current, err)
		}

		next, err := g.next(current, s)
		if err != nil {
			return err
		}
		if next == End {
			return nil
		}
		current = next
	}
}

func (g *Graph) next(from string, s *domain.State) (string, error) {
	if sel, ok := g.selectors[from]; ok {
		if to := sel(s); to != "" {
			return to, nil
		}
	}
	if to, ok := g.edges[from]; ok {
		return to, nil
	}
	return "", fmt.Errorf("node %q has no outgoing edge", from)
}
