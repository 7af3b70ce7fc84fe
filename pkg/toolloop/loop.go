package toolloop

import (
	"context"
	"io"
	"log/slog"

	"github.com/mealgraph/mealgraph/pkg/domain"
	"github.com/mealgraph/mealgraph/pkg/ports"
)

// DefaultMaxRounds caps the model round-trips in one loop invocation.
const DefaultMaxRounds = 6

// Status tags a loop outcome.
type Status string

const (
	// StatusCompleted: the model returned plain content with no tool request.
	StatusCompleted Status = "completed"
	// StatusExhausted: the round cap was reached (or the model failed); the
	// handler finalizes with whatever state is available. Soft degradation,
	// not an error.
	StatusExhausted Status = "exhausted"
)

// Result is the tagged outcome handed to the handler's finalize step.
type Result struct {
	Status     Status
	Content    string
	Transcript []domain.Message
	Rounds     int
}

// Completed reports whether the model produced a final answer.
func (r Result) Completed() bool { return r.Status == StatusCompleted }

// Loop drives bounded round-trips against a chat model.
type Loop struct {
	model     ports.ChatModel
	maxRounds int
	logger    *slog.Logger
}

// Option configures a Loop.
type Option func(*Loop)

// WithMaxRounds overrides the round cap.
func WithMaxRounds(n int) Option {
	return func(l *Loop) {
		if n > 0 {
			l.maxRounds = n
		}
	}
}

// WithLogger sets the loop's logger.
func WithLogger(logger *slog.Logger) Option {
	return func(l *Loop) { l.logger = logger }
}

// New creates a loop bound to a chat model.
func New(model ports.ChatModel, opts ...Option) *Loop {
	l := &Loop{
		model:     model,
		maxRounds: DefaultMaxRounds,
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Run executes the loop: ask the model for a turn; execute any requested
// tool calls against the toolset and append their results; repeat until the
// model returns plain content or the round cap is hit. It never blocks
// indefinitely and never returns an error: exhaustion and model failures
// degrade to StatusExhausted with the partial transcript.
func (l *Loop) Run(ctx context.Context, systemPrompt string, seed []domain.Message, tools *Toolset) Result {
	transcript := make([]domain.Message, 0, len(seed)+1)
	transcript = append(transcript, domain.SystemMessage(systemPrompt))
	transcript = append(transcript, seed...)

	for round := 1; round <= l.maxRounds; round++ {
		turn, err := l.model.Chat(ctx, transcript, tools.Defs())
		if err != nil {
			l.logger.Debug("chat model failed, exiting loop", "round", round, "err", err)
			return Result{Status: StatusExhausted, Transcript: transcript, Rounds: round}
		}

		transcript = append(transcript, domain.Message{
			Role:      domain.RoleAssistant,
			Content:   turn.Content,
			ToolCalls: turn.ToolCalls,
		})

		if len(turn.ToolCalls) == 0 {
			return Result{Status: StatusCompleted, Content: turn.Content, Transcript: transcript, Rounds: round}
		}

		for _, call := range turn.ToolCalls {
			res := tools.Execute(ctx, call)
			if res.IsError {
				l.logger.Debug("tool call failed", "tool", call.Name, "result", res.Content)
			}
			transcript = append(transcript, domain.ToolMessage(res))
		}
	}

	l.logger.Debug("tool loop exhausted", "max_rounds", l.maxRounds)
	return Result{Status: StatusExhausted, Transcript: transcript, Rounds: l.maxRounds}
}
