// Package toolloop implements the bounded tool-invocation loop: a handler
// delegates open-ended data gathering to a chat model that may request
// execution of declared operations before producing a final answer.
package toolloop

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mealgraph/mealgraph/pkg/domain"
)

// Func is the signature of a concrete tool implementation. It returns the
// payload appended to the transcript as the tool result.
type Func func(ctx context.Context, args map[string]any) (string, error)

// Tool pairs a declaration with its implementation.
type Tool struct {
	Def domain.Tool
	Fn  Func
}

// Toolset is the fixed capability set one handler exposes to the model.
// It is built once at startup and injected; there is no process-global
// registry. The set is immutable after construction.
type Toolset struct {
	tools  []Tool
	byName map[string]Tool
}

// NewToolset builds a capability set. Declaration order is preserved for
// the model prompt.
func NewToolset(tools ...Tool) *Toolset {
	ts := &Toolset{
		tools:  tools,
		byName: make(map[string]Tool, len(tools)),
	}
	for _, t := range tools {
		ts.byName[t.Def.Name] = t
	}
	return ts
}

// Defs returns the declarations advertised to the model.
func (ts *Toolset) Defs() []domain.Tool {
	defs := make([]domain.Tool, len(ts.tools))
	for i, t := range ts.tools {
		defs[i] = t.Def
	}
	return defs
}

// Execute runs one requested call against its implementation. Unknown
// tools and failed executions become error-flagged results on the
// transcript rather than loop failures.
func (ts *Toolset) Execute(ctx context.Context, call domain.ToolCall) domain.ToolResult {
	t, ok := ts.byName[call.Name]
	if !ok {
		return domain.ToolResult{
			ID:      call.ID,
			Name:    call.Name,
			Content: fmt.Sprintf(`{"error": "tool not found: %s"}`, call.Name),
			IsError: true,
		}
	}

	payload, err := t.Fn(ctx, call.Args)
	if err != nil {
		msg, _ := json.Marshal(err.Error())
		return domain.ToolResult{
			ID:      call.ID,
			Name:    call.Name,
			Content: fmt.Sprintf(`{"error": %s}`, msg),
			IsError: true,
		}
	}
	return domain.ToolResult{ID: call.ID, Name: call.Name, Content: payload}
}
