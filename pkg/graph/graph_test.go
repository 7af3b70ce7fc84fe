package graph

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mealgraph/mealgraph/pkg/domain"
)

func appendNode(order *[]string, name string) NodeFunc {
	return func(context.Context, *domain.State) error {
		*order = append(*order, name)
		return nil
	}
}

func TestRun_StaticEdges(t *testing.T) {
	var order []string
	g := New("a").
		AddNode("a", appendNode(&order, "a")).
		AddNode("b", appendNode(&order, "b")).
		AddEdge("a", "b").
		AddEdge("b", End)

	require.NoError(t, g.Run(context.Background(), domain.NewState(1, "x")))
	assert.Equal(t, []string{"a", "b"}, order)
}

func TestRun_SelectorOverridesStaticEdge(t *testing.T) {
	var order []string
	g := New("a").
		AddNode("a", appendNode(&order, "a")).
		AddNode("b", appendNode(&order, "b")).
		AddNode("c", appendNode(&order, "c")).
		AddEdge("a", "b").
		AddConditionalEdge("a", func(s *domain.State) string {
			if s.NeedsClarification {
				return "c"
			}
			return ""
		}).
		AddEdge("b", End).
		AddEdge("c", End)

	s := domain.NewState(1, "x")
	s.Clarify("q", "q")
	require.NoError(t, g.Run(context.Background(), s))
	assert.Equal(t, []string{"a", "c"}, order)

	// Empty selector result falls back to the static edge.
	order = nil
	require.NoError(t, g.Run(context.Background(), domain.NewState(1, "x")))
	assert.Equal(t, []string{"a", "b"}, order)
}

func TestRun_NodeErrorIsWrapped(t *testing.T) {
	boom := errors.New("boom")
	g := New("a").
		AddNode("a", func(context.Context, *domain.State) error { return boom }).
		AddEdge("a", End)

	err := g.Run(context.Background(), domain.NewState(1, "x"))
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), `node "a"`)
}

func TestRun_MissingEdgeFails(t *testing.T) {
	g := New("a").AddNode("a", appendNode(new([]string), "a"))
	err := g.Run(context.Background(), domain.NewState(1, "x"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no outgoing edge")
}

func TestRun_UnknownNodeFails(t *testing.T) {
	g := New("a").
		AddNode("a", appendNode(new([]string), "a")).
		AddEdge("a", "ghost")
	err := g.Run(context.Background(), domain.NewState(1, "x"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), `no node "ghost"`)
}

func TestRun_CycleHitsStepCap(t *testing.T) {
	g := New("a").
		AddNode("a", appendNode(new([]string), "a")).
		AddNode("b", appendNode(new([]string), "b")).
		AddEdge("a", "b").
		AddEdge("b", "a").
		WithMaxSteps(5)

	err := g.Run(context.Background(), domain.NewState(1, "x"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exceeded 5 steps")
}

func TestRun_CanceledContextStops(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	g := New("a").
		AddNode("a", appendNode(new([]string), "a")).
		AddEdge("a", End)

	err := g.Run(ctx, domain.NewState(1, "x"))
	assert.ErrorIs(t, err, context.Canceled)
}
