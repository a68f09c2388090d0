package memory

import "github.com/natexcvi/webhook-llm/engines"

// ChatLog is the ordered, role-tagged record of a single conversation.
//
//go:generate mockgen -source=memory.go -destination=mocks/memory.go -package=mocks
type ChatLog interface {
	ConversationID() string
	Messages() []*engines.ChatMessage
	// SetSystemPrompt replaces the leading system turn, or inserts one.
	SetSystemPrompt(prompt string) error
	Add(msgs ...*engines.ChatMessage) error
	// AddDeltaStream consumes stream and appends the messages it describes.
	// Deltas received before a stream error are kept.
	AddDeltaStream(stream engines.DeltaStream) (*engines.ChatMessage, error)
}
