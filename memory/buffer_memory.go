package memory

import (
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/natexcvi/webhook-llm/engines"
)

type BufferMemory struct {
	MaxHistory int
	Buffer     []*engines.ChatMessage

	conversationID string
	mu             sync.Mutex
}

func NewBufferedMemory(maxHistory int) *BufferMemory {
	return NewBufferedMemoryWithID(uuid.NewString(), maxHistory)
}

func NewBufferedMemoryWithID(conversationID string, maxHistory int) *BufferMemory {
	return &BufferMemory{
		MaxHistory:     maxHistory,
		conversationID: conversationID,
	}
}

func (memory *BufferMemory) ConversationID() string {
	return memory.conversationID
}

func (memory *BufferMemory) Messages() []*engines.ChatMessage {
	memory.mu.Lock()
	defer memory.mu.Unlock()
	messages := make([]*engines.ChatMessage, len(memory.Buffer))
	copy(messages, memory.Buffer)
	return messages
}

func (memory *BufferMemory) SetSystemPrompt(prompt string) error {
	memory.mu.Lock()
	defer memory.mu.Unlock()
	system := &engines.ChatMessage{Role: engines.ConvRoleSystem, Text: prompt}
	if len(memory.Buffer) > 0 && memory.Buffer[0].Role == engines.ConvRoleSystem {
		memory.Buffer[0] = system
		return nil
	}
	memory.Buffer = append([]*engines.ChatMessage{system}, memory.Buffer...)
	return nil
}

func (memory *BufferMemory) Add(msgs ...*engines.ChatMessage) error {
	memory.mu.Lock()
	defer memory.mu.Unlock()
	memory.Buffer = append(memory.Buffer, msgs...)
	memory.reduceBuffer()
	return nil
}

func (memory *BufferMemory) AddDeltaStream(stream engines.DeltaStream) (*engines.ChatMessage, error) {
	var (
		messages []*engines.ChatMessage
		role     engines.ConvRole
		text     strings.Builder
		open     bool
	)
	closeMessage := func() {
		if open {
			messages = append(messages, &engines.ChatMessage{Role: role, Text: text.String()})
		}
		text.Reset()
	}
	for stream.Next() {
		delta := stream.Delta()
		if delta.Role != "" {
			closeMessage()
			role, open = delta.Role, true
		}
		if delta.Content == "" {
			continue
		}
		if !open {
			role, open = engines.ConvRoleAssistant, true
		}
		text.WriteString(delta.Content)
	}
	closeMessage()
	if err := memory.Add(messages...); err != nil {
		return nil, err
	}
	var last *engines.ChatMessage
	if len(messages) > 0 {
		last = messages[len(messages)-1]
	}
	return last, stream.Err()
}

// reduceBuffer drops the oldest non-system turns beyond MaxHistory.
func (memory *BufferMemory) reduceBuffer() {
	if memory.MaxHistory <= 0 {
		return
	}
	start := 0
	if len(memory.Buffer) > 0 && memory.Buffer[0].Role == engines.ConvRoleSystem {
		start = 1
	}
	if excess := len(memory.Buffer) - start - memory.MaxHistory; excess > 0 {
		memory.Buffer = append(memory.Buffer[:start:start], memory.Buffer[start+excess:]...)
	}
}
