package agents

import (
	"encoding/json"
	"testing"

	"github.com/natexcvi/webhook-llm/engines"
	"github.com/natexcvi/webhook-llm/registry"
	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildPayload(t *testing.T) {
	kitchen := "kitchen"
	testCases := []struct {
		name           string
		turns          []*engines.ChatMessage
		extra          ExtraContext
		expected       *engines.Payload
		expectedErr    error
		exposedJSONDoc string
	}{
		{
			name:        "no turns",
			turns:       []*engines.ChatMessage{},
			expectedErr: ErrNoUserMessage,
		},
		{
			name: "no user turn",
			turns: []*engines.ChatMessage{
				{Role: engines.ConvRoleSystem, Text: "be nice"},
				{Role: engines.ConvRoleAssistant, Text: "hello"},
			},
			expectedErr: ErrNoUserMessage,
		},
		{
			name: "system and user",
			turns: []*engines.ChatMessage{
				{Role: engines.ConvRoleSystem, Text: "be nice"},
				{Role: engines.ConvRoleUser, Text: "turn on the lights"},
			},
			extra: ExtraContext{Streaming: true},
			expected: &engines.Payload{
				ConversationID: "conv-1",
				Messages:       []engines.WireMessage{},
				Query:          "turn on the lights",
				SystemPrompt:   "be nice",
				Stream:         true,
			},
		},
		{
			name: "history with tool results",
			turns: []*engines.ChatMessage{
				{Role: engines.ConvRoleSystem, Text: "be nice"},
				{Role: engines.ConvRoleUser, Text: "what's the temperature?"},
				{Role: engines.ConvRoleAssistant, Text: "checking"},
				{Role: engines.ConvRoleToolResult, ToolName: "sensor", ToolResult: map[string]int{"celsius": 21}},
				{Role: engines.ConvRoleToolResult, ToolName: "sensor"},
				{Role: engines.ConvRoleUser, Text: "and outside?"},
			},
			expected: &engines.Payload{
				ConversationID: "conv-1",
				Messages: []engines.WireMessage{
					{Role: engines.ConvRoleUser, Content: "what's the temperature?"},
					{Role: engines.ConvRoleAssistant, Content: "checking"},
					{Role: engines.ConvRoleToolResult, Content: `{"celsius":21}`},
					{Role: engines.ConvRoleToolResult, Content: ""},
				},
				Query:        "and outside?",
				SystemPrompt: "be nice",
			},
		},
		{
			name: "no system turn",
			turns: []*engines.ChatMessage{
				{Role: engines.ConvRoleUser, Text: "hi"},
				{Role: engines.ConvRoleAssistant, Text: "hello"},
				{Role: engines.ConvRoleUser, Text: "bye"},
			},
			expected: &engines.Payload{
				ConversationID: "conv-1",
				Messages: []engines.WireMessage{
					{Role: engines.ConvRoleUser, Content: "hi"},
					{Role: engines.ConvRoleAssistant, Content: "hello"},
				},
				Query: "bye",
			},
		},
		{
			name: "query override and task fields",
			turns: []*engines.ChatMessage{
				{Role: engines.ConvRoleSystem, Text: "tasks"},
				{Role: engines.ConvRoleUser, Text: "describe"},
			},
			extra: ExtraContext{
				Query:     "describe the image",
				TaskName:  "camera",
				Structure: json.RawMessage(`{"type":"object"}`),
				BinaryObjects: []engines.BinaryObject{
					{Name: "img", Path: "/tmp/img.png", MimeType: "image/png", Data: "AA=="},
				},
			},
			expected: &engines.Payload{
				ConversationID: "conv-1",
				Messages:       []engines.WireMessage{},
				Query:          "describe the image",
				SystemPrompt:   "tasks",
				TaskName:       "camera",
				Structure:      json.RawMessage(`{"type":"object"}`),
				BinaryObjects: []engines.BinaryObject{
					{Name: "img", Path: "/tmp/img.png", MimeType: "image/png", Data: "AA=="},
				},
			},
		},
		{
			name: "conversation context",
			turns: []*engines.ChatMessage{
				{Role: engines.ConvRoleSystem, Text: "be nice"},
				{Role: engines.ConvRoleUser, Text: "hi"},
			},
			extra: ExtraContext{
				Conversation: true,
				AgentID:      "agent-1",
				DeviceID:     "dev-1",
				DeviceInfo:   map[string]any{"name": "Speaker"},
				Language:     "en",
				UserID:       "user-1",
				ExposedEntities: []registry.ExposedEntity{
					{EntityID: "light.kitchen", Name: "Kitchen", State: "on", Aliases: []string{}, AreaID: &kitchen},
				},
			},
			expected: &engines.Payload{
				ConversationID: "conv-1",
				Messages:       []engines.WireMessage{},
				Query:          "hi",
				SystemPrompt:   "be nice",
				ConversationContext: &engines.ConversationContext{
					AgentID:         "agent-1",
					DeviceID:        lo.ToPtr("dev-1"),
					DeviceInfo:      map[string]any{"name": "Speaker"},
					ExposedEntities: `[{"entity_id":"light.kitchen","name":"Kitchen","state":"on","aliases":[],"area_id":"kitchen","area_name":null}]`,
					Language:        "en",
					UserID:          lo.ToPtr("user-1"),
				},
			},
		},
		{
			name: "conversation without context values",
			turns: []*engines.ChatMessage{
				{Role: engines.ConvRoleUser, Text: "hi"},
			},
			extra: ExtraContext{Conversation: true},
			expected: &engines.Payload{
				ConversationID: "conv-1",
				Messages:       []engines.WireMessage{},
				Query:          "hi",
				ConversationContext: &engines.ConversationContext{
					ExposedEntities: "[]",
				},
			},
		},
		{
			name: "context ignored outside conversations",
			turns: []*engines.ChatMessage{
				{Role: engines.ConvRoleUser, Text: "hi"},
			},
			extra: ExtraContext{AgentID: "agent-1", ExposedEntities: []registry.ExposedEntity{}},
			expected: &engines.Payload{
				ConversationID: "conv-1",
				Messages:       []engines.WireMessage{},
				Query:          "hi",
			},
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			payload, err := BuildPayload(tc.turns, "conv-1", tc.extra)
			if tc.expectedErr != nil {
				assert.ErrorIs(t, err, tc.expectedErr)
				assert.Nil(t, payload)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expected, payload)
		})
	}
}

func TestBuildPayloadJSON(t *testing.T) {
	payload, err := BuildPayload([]*engines.ChatMessage{
		{Role: engines.ConvRoleSystem, Text: "be nice"},
		{Role: engines.ConvRoleUser, Text: "hi"},
	}, "conv-1", ExtraContext{})
	require.NoError(t, err)
	encoded, err := json.Marshal(payload)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"conversation_id": "conv-1",
		"messages": [],
		"query": "hi",
		"system_prompt": "be nice",
		"stream": false
	}`, string(encoded))
}

func TestBuildPayloadConversationJSON(t *testing.T) {
	payload, err := BuildPayload([]*engines.ChatMessage{
		{Role: engines.ConvRoleUser, Text: "hi"},
	}, "conv-1", ExtraContext{Conversation: true, AgentID: "agent-1", Language: "en"})
	require.NoError(t, err)
	encoded, err := json.Marshal(payload)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"conversation_id": "conv-1",
		"messages": [],
		"query": "hi",
		"system_prompt": "",
		"stream": false,
		"agent_id": "agent-1",
		"device_id": null,
		"device_info": null,
		"exposed_entities": "[]",
		"language": "en",
		"user_id": null
	}`, string(encoded))
}
