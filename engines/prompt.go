package engines

import (
	"encoding/json"
	"fmt"
)

type ConvRole string

const (
	ConvRoleUser       ConvRole = "user"
	ConvRoleSystem     ConvRole = "system"
	ConvRoleAssistant  ConvRole = "assistant"
	ConvRoleToolResult ConvRole = "tool_result"
)

// ChatMessage is a single conversation turn. For tool results, ToolResult
// holds the raw result and Text is ignored.
type ChatMessage struct {
	Role       ConvRole `json:"role"`
	Text       string   `json:"content"`
	ToolName   string   `json:"-"`
	ToolResult any      `json:"-"`
}

// Content returns the text sent to the webhook for this turn.
func (m *ChatMessage) Content() string {
	if m.Role != ConvRoleToolResult {
		return m.Text
	}
	switch result := m.ToolResult.(type) {
	case nil:
		return ""
	case string:
		return result
	case fmt.Stringer:
		return result.String()
	default:
		marshaled, err := json.Marshal(result)
		if err != nil {
			return fmt.Sprintf("%v", result)
		}
		return string(marshaled)
	}
}

type WireMessage struct {
	Role    ConvRole `json:"role"`
	Content string   `json:"content"`
}

type BinaryObject struct {
	Name     string `json:"name"`
	Path     string `json:"path"`
	MimeType string `json:"mime_type"`
	Data     string `json:"data"`
}

// ConversationContext holds the keys sent with every conversation turn.
// They are always present; a missing device, device info or user is null.
type ConversationContext struct {
	AgentID         string         `json:"agent_id"`
	DeviceID        *string        `json:"device_id"`
	DeviceInfo      map[string]any `json:"device_info"`
	ExposedEntities string         `json:"exposed_entities"`
	Language        string         `json:"language"`
	UserID          *string        `json:"user_id"`
}

// Payload is the JSON body posted to a conversation or AI task webhook.
// The conversation keys are only sent when ConversationContext is set.
type Payload struct {
	ConversationID string        `json:"conversation_id"`
	Messages       []WireMessage `json:"messages"`
	Query          string        `json:"query"`
	SystemPrompt   string        `json:"system_prompt"`
	Stream         bool          `json:"stream"`

	*ConversationContext

	TaskName      string          `json:"task_name,omitempty"`
	Structure     json.RawMessage `json:"structure,omitempty"`
	BinaryObjects []BinaryObject  `json:"binary_objects,omitempty"`
}
