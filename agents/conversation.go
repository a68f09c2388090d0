package agents

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"text/template"
	"time"

	"github.com/natexcvi/webhook-llm/engines"
	"github.com/natexcvi/webhook-llm/memory"
	"github.com/natexcvi/webhook-llm/registry"
	log "github.com/sirupsen/logrus"
)

var ErrStreamingUnsupported = errors.New("engine does not support streaming")

type ConversationInput struct {
	Text              string
	ChatLog           memory.ChatLog
	AgentID           string
	DeviceID          string
	Language          string
	UserID            string
	ExtraSystemPrompt string
}

type ConversationResult struct {
	ConversationID string
	Response       string
}

// ConversationAgent answers one user turn per Run by delegating to Engine.
// Prompt is a text/template rendered with PromptData.
type ConversationAgent struct {
	Engine    engines.LLM
	Prompt    string
	Streaming bool
	Registry  registry.Lookup
	OnDelta   func(engines.Delta)
}

var _ Agent[*ConversationInput, *ConversationResult] = (*ConversationAgent)(nil)

type PromptData struct {
	AgentID  string
	DeviceID string
	Language string
	UserID   string
	Now      time.Time
}

func (agent *ConversationAgent) Run(ctx context.Context, input *ConversationInput) (*ConversationResult, error) {
	chatLog := input.ChatLog
	if chatLog == nil {
		chatLog = memory.NewBufferedMemory(0)
	}
	prompt, err := agent.renderPrompt(input)
	if err != nil {
		return nil, err
	}
	if err := chatLog.SetSystemPrompt(prompt); err != nil {
		return nil, fmt.Errorf("failed to set system prompt: %w", err)
	}
	if err := chatLog.Add(&engines.ChatMessage{Role: engines.ConvRoleUser, Text: input.Text}); err != nil {
		return nil, fmt.Errorf("failed to add user message: %w", err)
	}

	payload, err := BuildPayload(chatLog.Messages(), chatLog.ConversationID(), agent.extraContext(input))
	if err != nil {
		return nil, err
	}

	var response string
	if agent.Streaming {
		response, err = agent.stream(ctx, payload, chatLog)
	} else {
		response, err = agent.chat(ctx, payload, chatLog)
	}
	if err != nil {
		return nil, err
	}
	return &ConversationResult{
		ConversationID: chatLog.ConversationID(),
		Response:       response,
	}, nil
}

func (agent *ConversationAgent) extraContext(input *ConversationInput) ExtraContext {
	extra := ExtraContext{
		Streaming:    agent.Streaming,
		Conversation: true,
		AgentID:      input.AgentID,
		DeviceID:     input.DeviceID,
		Language:     input.Language,
		UserID:       input.UserID,
	}
	if agent.Registry == nil {
		return extra
	}
	extra.ExposedEntities = agent.Registry.ExposedEntities()
	if input.DeviceID != "" {
		if device, ok := agent.Registry.Device(input.DeviceID); ok {
			extra.DeviceInfo = device.Info()
		}
	}
	return extra
}

func (agent *ConversationAgent) chat(ctx context.Context, payload *engines.Payload, chatLog memory.ChatLog) (string, error) {
	reply, err := agent.Engine.Chat(ctx, payload)
	if err != nil {
		return "", err
	}
	response := reply.String()
	if err := chatLog.Add(&engines.ChatMessage{Role: engines.ConvRoleAssistant, Text: response}); err != nil {
		return "", fmt.Errorf("failed to add assistant message: %w", err)
	}
	return response, nil
}

func (agent *ConversationAgent) stream(ctx context.Context, payload *engines.Payload, chatLog memory.ChatLog) (string, error) {
	streamer, ok := agent.Engine.(engines.StreamingLLM)
	if !ok {
		return "", ErrStreamingUnsupported
	}
	stream, err := streamer.ChatStream(ctx, payload)
	if err != nil {
		return "", err
	}
	defer stream.Close()
	var deltas engines.DeltaStream = stream
	if agent.OnDelta != nil {
		deltas = engines.Tee(stream, agent.OnDelta)
	}
	msg, err := chatLog.AddDeltaStream(deltas)
	if err != nil {
		log.Warnf("webhook stream ended early: %s", err)
		return "", err
	}
	if msg == nil {
		return "", nil
	}
	return msg.Text, nil
}

func (agent *ConversationAgent) renderPrompt(input *ConversationInput) (string, error) {
	tmpl, err := template.New("prompt").Parse(agent.Prompt)
	if err != nil {
		return "", fmt.Errorf("error parsing prompt template: %w", err)
	}
	var prompt bytes.Buffer
	err = tmpl.Execute(&prompt, PromptData{
		AgentID:  input.AgentID,
		DeviceID: input.DeviceID,
		Language: input.Language,
		UserID:   input.UserID,
		Now:      time.Now(),
	})
	if err != nil {
		return "", fmt.Errorf("error rendering prompt template: %w", err)
	}
	parts := []string{strings.TrimSpace(prompt.String())}
	if extra := strings.TrimSpace(input.ExtraSystemPrompt); extra != "" {
		parts = append(parts, extra)
	}
	return strings.Join(parts, "\n"), nil
}
