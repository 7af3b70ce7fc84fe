// Package pipeline assembles the per-turn graph: extraction, intent routing
// to a task handler (optionally preceded by a bounded tool loop), validation
// and clarification. One call to Turn converts one message into one complete
// response.
package pipeline

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/mealgraph/mealgraph/pkg/agents"
	"github.com/mealgraph/mealgraph/pkg/clarify"
	"github.com/mealgraph/mealgraph/pkg/domain"
	"github.com/mealgraph/mealgraph/pkg/extract"
	"github.com/mealgraph/mealgraph/pkg/graph"
	"github.com/mealgraph/mealgraph/pkg/ports"
	"github.com/mealgraph/mealgraph/pkg/toolloop"
	"github.com/mealgraph/mealgraph/pkg/validate"
)

// Node names in the turn graph.
const (
	nodeExtract  = "extract"
	nodeValidate = "validate"
	nodeClarify  = "clarify"
)

// TurnRequest is one incoming user message plus any prior-turn context the
// caller chose to re-supply.
type TurnRequest struct {
	UserID  int64               `json:"user_id"`
	Message string              `json:"message"`
	Context domain.PriorContext `json:"context,omitempty"`
}

// TurnResponse is the complete outcome of one turn. OK is true whenever the
// pipeline ran to the end; domain failures surface through ErrorKind and the
// message text, not through OK.
type TurnResponse struct {
	OK                 bool                        `json:"ok"`
	Intent             domain.Intent               `json:"intent"`
	Message            string                      `json:"message"`
	Confidence         float64                     `json:"confidence"`
	NeedsClarification bool                        `json:"needs_clarification"`
	Questions          []string                    `json:"questions,omitempty"`
	Candidates         []domain.FoodSummary        `json:"candidates,omitempty"`
	Selected           *domain.FoodSummary         `json:"selected,omitempty"`
	LogResult          *domain.LogRecord           `json:"log_result,omitempty"`
	DaySummary         *domain.DaySummary          `json:"day_summary,omitempty"`
	Recommendations    []domain.RecommendationItem `json:"recommendations,omitempty"`
	ErrorKind          domain.ErrorKind            `json:"error_kind,omitempty"`
}

// Observer receives pipeline telemetry. Implementations must be cheap and
// non-blocking; a nil observer disables all hooks.
type Observer interface {
	TurnHandled(intent domain.Intent, clarified bool, errKind domain.ErrorKind)
	LoopFinished(intent domain.Intent, status toolloop.Status, rounds int)
}

// Options configure a Pipeline beyond its collaborators.
type Options struct {
	// Model enables the tool-invocation loop for handlers that declare
	// one. Nil runs every intent on its deterministic path only.
	Model ports.ChatModel

	// Classifier drives model-based extraction; nil means heuristic only.
	Classifier ports.IntentClassifier

	Logger    *slog.Logger
	Observer  Observer
	MaxRounds int
}

// Pipeline is the reusable turn processor. Build once, call Turn per
// message; it holds no per-turn state and is safe for concurrent use.
type Pipeline struct {
	extractor *extract.Extractor
	handlers  map[domain.Intent]agents.Agent
	model     ports.ChatModel
	logger    *slog.Logger
	observer  Observer
	maxRounds int
	g         *graph.Graph
}

// New builds a pipeline over one dependency set.
func New(deps agents.Deps, opts Options) *Pipeline {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if deps.Logger == nil {
		deps.Logger = logger
	}
	maxRounds := opts.MaxRounds
	if maxRounds <= 0 {
		maxRounds = toolloop.DefaultMaxRounds
	}

	p := &Pipeline{
		extractor: extract.New(opts.Classifier, logger),
		handlers:  agents.All(deps),
		model:     opts.Model,
		logger:    logger,
		observer:  opts.Observer,
		maxRounds: maxRounds,
	}
	p.g = p.buildGraph()
	return p
}

// buildGraph wires the turn graph: extract routes to the intent's handler
// node, every handler node flows into validate, and validate ends the turn
// directly or via the clarification generator.
func (p *Pipeline) buildGraph() *graph.Graph {
	g := graph.New(nodeExtract).
		AddNode(nodeExtract, p.extractNode).
		AddConditionalEdge(nodeExtract, func(s *domain.State) string {
			return string(s.Intent)
		})

	for intent, h := range p.handlers {
		g.AddNode(string(intent), p.handlerNode(h)).
			AddEdge(string(intent), nodeValidate)
	}

	g.AddNode(nodeValidate, func(_ context.Context, s *domain.State) error {
		validate.Validate(s)
		return nil
	}).AddConditionalEdge(nodeValidate, func(s *domain.State) string {
		if s.NeedsClarification && len(s.Questions) != 1 {
			return nodeClarify
		}
		return graph.End
	})

	g.AddNode(nodeClarify, func(_ context.Context, s *domain.State) error {
		clarify.Elicit(s)
		return nil
	}).AddEdge(nodeClarify, graph.End)

	return g
}

func (p *Pipeline) extractNode(ctx context.Context, s *domain.State) error {
	res := p.extractor.Extract(ctx, s.InputText)
	s.Intent = res.Intent
	s.Entities = res.Entities
	s.Confidence = res.Confidence
	p.logger.Debug("intent extracted",
		"user_id", s.UserID, "intent", s.Intent, "confidence", s.Confidence)
	return nil
}

// handlerNode runs the optional tool loop and then the handler's finalize.
// Finalize is the deterministic authority for the turn outcome; the loop
// only enriches the state (candidates, selection) through its tools.
func (p *Pipeline) handlerNode(h agents.Agent) graph.NodeFunc {
	return func(ctx context.Context, s *domain.State) error {
		if p.model != nil && h.SystemPrompt() != "" {
			if ts := h.Toolset(s); ts != nil {
				res := toolloop.New(p.model,
					toolloop.WithMaxRounds(p.maxRounds),
					toolloop.WithLogger(p.logger),
				).Run(ctx, h.SystemPrompt(), []domain.Message{domain.UserMessage(s.InputText)}, ts)
				s.Transcript = res.Transcript
				if p.observer != nil {
					p.observer.LoopFinished(h.Intent(), res.Status, res.Rounds)
				}
				p.logger.Debug("tool loop finished",
					"intent", h.Intent(), "status", res.Status, "rounds", res.Rounds)
			}
		}
		return h.Finalize(ctx, s)
	}
}

// Turn processes one message end to end. The returned error covers only
// infrastructure failures; every domain outcome, clarification included,
// arrives as a normal response.
func (p *Pipeline) Turn(ctx context.Context, req TurnRequest) (TurnResponse, error) {
	s := domain.NewState(req.UserID, req.Message)
	if !req.Context.Empty() {
		s.Candidates = req.Context.Candidates
		s.Selected = req.Context.Selected
	}

	if err := p.g.Run(ctx, s); err != nil {
		return TurnResponse{}, fmt.Errorf("turn failed: %w", err)
	}

	// Loop transcripts are turn-internal; drop them before the state
	// leaves the pipeline.
	s.Transcript = nil

	if p.observer != nil {
		p.observer.TurnHandled(s.Intent, s.NeedsClarification, s.ErrorKind)
	}

	return TurnResponse{
		OK:                 true,
		Intent:             s.Intent,
		Message:            s.Response,
		Confidence:         s.Confidence,
		NeedsClarification: s.NeedsClarification,
		Questions:          s.Questions,
		Candidates:         s.Candidates,
		Selected:           s.Selected,
		LogResult:          s.LogResult,
		DaySummary:         s.DaySummary,
		Recommendations:    s.Recommendations,
		ErrorKind:          s.ErrorKind,
	}, nil
}
