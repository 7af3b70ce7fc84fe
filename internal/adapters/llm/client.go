// Package llm is the OpenAI-compatible chat adapter. One Client serves both
// model boundaries: strict-JSON intent classification and the tool-calling
// chat used by the invocation loop. It works against any endpoint speaking
// the /chat/completions wire format.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/mealgraph/mealgraph/pkg/domain"
	"github.com/mealgraph/mealgraph/pkg/ports"
)

// Config holds the connection settings.
type Config struct {
	BaseURL    string
	APIKey     string
	Model      string
	Timeout    time.Duration
	MaxRetries int
}

// Client implements ports.IntentClassifier and ports.ChatModel.
type Client struct {
	cfg        Config
	httpClient *http.Client
	logger     *slog.Logger
}

// New creates a client. Zero-value config fields get working defaults.
func New(cfg Config, logger *slog.Logger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.openai.com/v1"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		logger:     logger,
	}
}

// Wire types for the /chat/completions contract.

type wireMessage struct {
	Role       string         `json:"role"`
	Content    string         `json:"content,omitempty"`
	Name       string         `json:"name,omitempty"`
	ToolCallID string         `json:"tool_call_id,omitempty"`
	ToolCalls  []wireToolCall `json:"tool_calls,omitempty"`
}

type wireToolCall struct {
	ID       string       `json:"id"`
	Type     string       `json:"type"`
	Function wireFunction `json:"function"`
}

type wireFunction struct {
	Name      string `json:"name"`
	Arguments string `json:"arguments"`
}

type wireTool struct {
	Type     string      `json:"type"`
	Function wireToolDef `json:"function"`
}

type wireToolDef struct {
	Name        string         `json:"name"`
	Description string         `json:"description,omitempty"`
	Parameters  map[string]any `json:"parameters,omitempty"`
}

type wireRequest struct {
	Model       string        `json:"model"`
	Messages    []wireMessage `json:"messages"`
	Tools       []wireTool    `json:"tools,omitempty"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
}

type wireResponse struct {
	Choices []struct {
		Message wireMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// ClassifyIntent sends the extraction prompt and decodes the strict-JSON
// reply. Malformed output is reported as domain.ErrParse so the caller's
// heuristic fallback kicks in.
func (c *Client) ClassifyIntent(ctx context.Context, prompt string) (ports.Classification, error) {
	msg, err := c.complete(ctx, []wireMessage{{Role: "user", Content: prompt}}, nil)
	if err != nil {
		return ports.Classification{}, err
	}

	var cls ports.Classification
	if err := json.Unmarshal([]byte(stripFences(msg.Content)), &cls); err != nil {
		return ports.Classification{}, fmt.Errorf("%w: %v", domain.ErrParse, err)
	}
	if cls.Intent == "" {
		return ports.Classification{}, domain.ErrParse
	}
	return cls, nil
}

// Chat sends the loop transcript with the handler's tool definitions.
func (c *Client) Chat(ctx context.Context, transcript []domain.Message, tools []domain.Tool) (ports.AssistantTurn, error) {
	msgs := make([]wireMessage, 0, len(transcript))
	for _, m := range transcript {
		msgs = append(msgs, toWireMessage(m))
	}

	wireTools := make([]wireTool, 0, len(tools))
	for _, t := range tools {
		wireTools = append(wireTools, wireTool{
			Type: "function",
			Function: wireToolDef{
				Name:        t.Name,
				Description: t.Description,
				Parameters:  t.Parameters,
			},
		})
	}

	msg, err := c.complete(ctx, msgs, wireTools)
	if err != nil {
		return ports.AssistantTurn{}, err
	}

	turn := ports.AssistantTurn{Content: strings.TrimSpace(msg.Content)}
	for _, call := range msg.ToolCalls {
		args := map[string]any{}
		if call.Function.Arguments != "" {
			// Unparsable arguments degrade to an empty map; the tool
			// itself reports the missing fields.
			_ = json.Unmarshal([]byte(call.Function.Arguments), &args)
		}
		turn.ToolCalls = append(turn.ToolCalls, domain.ToolCall{
			ID:   call.ID,
			Name: call.Function.Name,
			Args: args,
		})
	}
	return turn, nil
}

func toWireMessage(m domain.Message) wireMessage {
	out := wireMessage{
		Role:       string(m.Role),
		Content:    m.Content,
		Name:       m.Name,
		ToolCallID: m.ToolCallID,
	}
	for _, call := range m.ToolCalls {
		args, err := json.Marshal(call.Args)
		if err != nil {
			args = []byte("{}")
		}
		out.ToolCalls = append(out.ToolCalls, wireToolCall{
			ID:   call.ID,
			Type: "function",
			Function: wireFunction{
				Name:      call.Name,
				Arguments: string(args),
			},
		})
	}
	return out
}

// complete runs one request with bounded retries. Transport errors, 429 and
// 5xx are retried with exponential backoff; everything else fails fast.
func (c *Client) complete(ctx context.Context, msgs []wireMessage, tools []wireTool) (wireMessage, error) {
	if c.cfg.APIKey == "" {
		return wireMessage{}, fmt.Errorf("llm: API key not configured")
	}

	body, err := json.Marshal(wireRequest{
		Model:       c.cfg.Model,
		Messages:    msgs,
		Tools:       tools,
		Temperature: 0.1,
		MaxTokens:   1024,
	})
	if err != nil {
		return wireMessage{}, fmt.Errorf("llm: marshal request: %w", err)
	}

	var lastErr error
	for attempt := 0; attempt <= c.cfg.MaxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return wireMessage{}, ctx.Err()
			case <-time.After(time.Duration(1<<uint(attempt-1)) * time.Second):
			}
		}

		msg, retryable, err := c.once(ctx, body)
		if err == nil {
			return msg, nil
		}
		lastErr = err
		if !retryable {
			return wireMessage{}, err
		}
		c.logger.Debug("llm request failed, retrying", "attempt", attempt+1, "err", err)
	}
	return wireMessage{}, fmt.Errorf("llm: retries exhausted: %w", lastErr)
}

func (c *Client) once(ctx context.Context, body []byte) (wireMessage, bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return wireMessage{}, false, fmt.Errorf("llm: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return wireMessage{}, true, fmt.Errorf("llm: request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return wireMessage{}, true, fmt.Errorf("llm: read response: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusTooManyRequests, resp.StatusCode >= 500:
		return wireMessage{}, true, fmt.Errorf("llm: status %d: %s", resp.StatusCode, strings.TrimSpace(string(data)))
	case resp.StatusCode != http.StatusOK:
		return wireMessage{}, false, fmt.Errorf("llm: status %d: %s", resp.StatusCode, strings.TrimSpace(string(data)))
	}

	var wr wireResponse
	if err := json.Unmarshal(data, &wr); err != nil {
		return wireMessage{}, false, fmt.Errorf("llm: parse response: %w", err)
	}
	if wr.Error != nil {
		return wireMessage{}, false, fmt.Errorf("llm: api error: %s", wr.Error.Message)
	}
	if len(wr.Choices) == 0 {
		return wireMessage{}, false, fmt.Errorf("llm: no completion returned")
	}
	return wr.Choices[0].Message, false, nil
}

// stripFences removes a surrounding markdown code fence, which some models
// wrap around JSON output.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
