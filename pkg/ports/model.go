package ports

import (
	"context"

	"github.com/mealgraph/mealgraph/pkg/domain"
)

// Classification is the structured output of an intent classifier. Entities
// arrive as a loose key/value map straight off the wire; pkg/extract owns
// the conversion into the typed domain.Entities record.
type Classification struct {
	Intent     string         `json:"intent"`
	Entities   map[string]any `json:"entities"`
	Confidence float64        `json:"confidence"`
}

// IntentClassifier asks a language model for strict structured intent and
// entity extraction. A malformed response is reported as domain.ErrParse
// (possibly wrapped); callers fall back to the deterministic heuristic.
type IntentClassifier interface {
	ClassifyIntent(ctx context.Context, prompt string) (Classification, error)
}

// AssistantTurn is one model reply inside a tool-invocation loop: plain
// content, tool call requests, or both.
type AssistantTurn struct {
	Content   string
	ToolCalls []domain.ToolCall
}

// ChatModel is the conversational model boundary used by the
// tool-invocation loop. Implementations apply their own timeout and a small
// bounded retry count; callers never retry on top.
type ChatModel interface {
	Chat(ctx context.Context, transcript []domain.Message, tools []domain.Tool) (AssistantTurn, error)
}
