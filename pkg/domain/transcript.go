package domain

// Message roles inside a tool-invocation transcript.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleTool      = "tool"
)

// Message is one turn-internal transcript entry. Compatible with
// OpenAI-style chat payloads so adapters can map it directly.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content,omitempty"`

	// ToolCalls is set on assistant messages that request tool execution.
	ToolCalls []ToolCall `json:"tool_calls,omitempty"`

	// ToolCallID and Name are set on tool result messages.
	ToolCallID string `json:"tool_call_id,omitempty"`
	Name       string `json:"name,omitempty"`
}

// ToolCall is a model's request to execute one declared operation.
type ToolCall struct {
	ID   string         `json:"id"`
	Name string         `json:"name"`
	Args map[string]any `json:"args,omitempty"`
}

// ToolResult is the outcome of executing a tool call.
type ToolResult struct {
	ID      string `json:"id"` // matches ToolCall.ID
	Name    string `json:"name"`
	Content string `json:"content"`
	IsError bool   `json:"is_error,omitempty"`
}

// Tool declares one callable operation: name, description and a JSON-schema
// style parameter map, used both for model prompts and MCP registration.
type Tool struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Parameters  map[string]any `json:"parameters,omitempty"`
}

// SystemMessage builds a system transcript entry.
func SystemMessage(content string) Message {
	return Message{Role: RoleSystem, Content: content}
}

// UserMessage builds a user transcript entry.
func UserMessage(content string) Message {
	return Message{Role: RoleUser, Content: content}
}

// ToolMessage builds the transcript entry for a tool result.
func ToolMessage(res ToolResult) Message {
	return Message{Role: RoleTool, Content: res.Content, ToolCallID: res.ID, Name: res.Name}
}
