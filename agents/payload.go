package agents

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/natexcvi/webhook-llm/engines"
	"github.com/natexcvi/webhook-llm/registry"
	"github.com/samber/lo"
)

var ErrNoUserMessage = errors.New("no user message found in chat log")

// ExtraContext carries the request metadata that is not part of the turns.
// The agent, device, entity, language and user fields are only sent when
// Conversation is set; a nil ExposedEntities then sends "[]".
type ExtraContext struct {
	Streaming       bool
	Query           string
	Conversation    bool
	AgentID         string
	DeviceID        string
	DeviceInfo      map[string]any
	ExposedEntities []registry.ExposedEntity
	Language        string
	UserID          string
	TaskName        string
	Structure       json.RawMessage
	BinaryObjects   []engines.BinaryObject
}

// BuildPayload shapes turns into a webhook payload. A leading system turn
// becomes system_prompt, the last turn is the one being answered and is
// left out of messages, and query holds the latest user turn unless
// extra.Query overrides it.
func BuildPayload(turns []*engines.ChatMessage, conversationID string, extra ExtraContext) (*engines.Payload, error) {
	userTurn, _, found := lo.FindLastIndexOf(turns, func(turn *engines.ChatMessage) bool {
		return turn.Role == engines.ConvRoleUser
	})
	if !found {
		return nil, ErrNoUserMessage
	}

	payload := &engines.Payload{
		ConversationID: conversationID,
		Query:          userTurn.Content(),
		Stream:         extra.Streaming,
		TaskName:       extra.TaskName,
		Structure:      extra.Structure,
		BinaryObjects:  extra.BinaryObjects,
	}
	if extra.Query != "" {
		payload.Query = extra.Query
	}

	history := turns
	if history[0].Role == engines.ConvRoleSystem {
		payload.SystemPrompt = history[0].Content()
		history = history[1:]
	}
	if len(history) > 0 {
		history = history[:len(history)-1]
	}
	payload.Messages = lo.Map(history, func(turn *engines.ChatMessage, _ int) engines.WireMessage {
		return engines.WireMessage{
			Role:    turn.Role,
			Content: turn.Content(),
		}
	})

	if extra.Conversation {
		conversation, err := conversationContext(extra)
		if err != nil {
			return nil, err
		}
		payload.ConversationContext = conversation
	}
	return payload, nil
}

func conversationContext(extra ExtraContext) (*engines.ConversationContext, error) {
	entities := extra.ExposedEntities
	if entities == nil {
		entities = []registry.ExposedEntity{}
	}
	exposed, err := json.Marshal(entities)
	if err != nil {
		return nil, fmt.Errorf("failed to encode exposed entities: %w", err)
	}
	return &engines.ConversationContext{
		AgentID:         extra.AgentID,
		DeviceID:        nullable(extra.DeviceID),
		DeviceInfo:      extra.DeviceInfo,
		ExposedEntities: string(exposed),
		Language:        extra.Language,
		UserID:          nullable(extra.UserID),
	}, nil
}

func nullable(value string) *string {
	if value == "" {
		return nil
	}
	return &value
}
