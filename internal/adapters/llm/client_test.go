package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mealgraph/mealgraph/pkg/domain"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(Config{BaseURL: srv.URL, APIKey: "test-key", Model: "test-model"}, nil)
}

func completionBody(content string) string {
	b, _ := json.Marshal(map[string]any{
		"choices": []map[string]any{
			{"message": map[string]any{"role": "assistant", "content": content}},
		},
	})
	return string(b)
}

func TestClassifyIntent_ParsesStrictJSON(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		w.Write([]byte(completionBody(`{"intent":"log_meal","entities":{"food_name":"oats","grams":100},"confidence":0.9}`)))
	})

	cls, err := c.ClassifyIntent(context.Background(), "prompt")
	require.NoError(t, err)
	assert.Equal(t, "log_meal", cls.Intent)
	assert.Equal(t, "oats", cls.Entities["food_name"])
	assert.Equal(t, 0.9, cls.Confidence)
}

func TestClassifyIntent_StripsCodeFence(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(completionBody("```json\n{\"intent\":\"search_food\",\"entities\":{},\"confidence\":0.8}\n```")))
	})

	cls, err := c.ClassifyIntent(context.Background(), "prompt")
	require.NoError(t, err)
	assert.Equal(t, "search_food", cls.Intent)
}

func TestClassifyIntent_MalformedIsErrParse(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(completionBody("sure! here is the intent you asked for")))
	})

	_, err := c.ClassifyIntent(context.Background(), "prompt")
	assert.ErrorIs(t, err, domain.ErrParse)
}

func TestChat_MapsToolCallsBothWays(t *testing.T) {
	var got wireRequest
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Write([]byte(`{"choices":[{"message":{
			"role":"assistant",
			"tool_calls":[{"id":"c1","type":"function","function":{"name":"search_food","arguments":"{\"query\":\"oats\"}"}}]
		}}]}`))
	})

	transcript := []domain.Message{
		domain.SystemMessage("system"),
		domain.UserMessage("find oats"),
	}
	tools := []domain.Tool{{Name: "search_food", Description: "search", Parameters: map[string]any{"type": "object"}}}

	turn, err := c.Chat(context.Background(), transcript, tools)
	require.NoError(t, err)
	require.Len(t, turn.ToolCalls, 1)
	assert.Equal(t, "search_food", turn.ToolCalls[0].Name)
	assert.Equal(t, map[string]any{"query": "oats"}, turn.ToolCalls[0].Args)

	require.Len(t, got.Messages, 2)
	assert.Equal(t, "system", got.Messages[0].Role)
	require.Len(t, got.Tools, 1)
	assert.Equal(t, "function", got.Tools[0].Type)
	assert.Equal(t, "search_food", got.Tools[0].Function.Name)
}

func TestComplete_RetriesOn429ThenSucceeds(t *testing.T) {
	var calls int
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.Write([]byte(completionBody(`{"intent":"recommend","entities":{},"confidence":0.7}`)))
	})
	c.cfg.MaxRetries = 2

	cls, err := c.ClassifyIntent(context.Background(), "prompt")
	require.NoError(t, err)
	assert.Equal(t, "recommend", cls.Intent)
	assert.Equal(t, 2, calls)
}

func TestComplete_ClientErrorFailsFast(t *testing.T) {
	var calls int
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusUnauthorized)
	})
	c.cfg.MaxRetries = 3

	_, err := c.ClassifyIntent(context.Background(), "prompt")
	require.Error(t, err)
	assert.Equal(t, 1, calls)
}

func TestComplete_MissingAPIKey(t *testing.T) {
	c := New(Config{Model: "m"}, nil)
	_, err := c.ClassifyIntent(context.Background(), "prompt")
	assert.ErrorContains(t, err, "API key not configured")
}
