package agents

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"regexp"

	"github.com/invopop/jsonschema"
	"github.com/natexcvi/webhook-llm/engines"
	"github.com/natexcvi/webhook-llm/memory"
	"github.com/samber/lo"
	log "github.com/sirupsen/logrus"
)

type Attachment struct {
	MediaContentID string
	Path           string
	MimeType       string
}

type AITaskInput struct {
	Name         string
	Instructions string
	Attachments  []Attachment
	// Structure is the JSON schema the webhook should answer with. When set,
	// the reply is returned as decoded JSON.
	Structure json.RawMessage
	ChatLog   memory.ChatLog
}

type GenDataTaskResult struct {
	ConversationID string
	Data           any
}

type AITaskAgent struct {
	Engine    engines.LLM
	Prompt    string
	Streaming bool
}

var _ Agent[*AITaskInput, *GenDataTaskResult] = (*AITaskAgent)(nil)

// StructureFor reflects a JSON schema from a Go value, for use as
// AITaskInput.Structure.
func StructureFor(v any) (json.RawMessage, error) {
	schema := jsonschema.Reflect(v)
	marshaled, err := schema.MarshalJSON()
	if err != nil {
		return nil, fmt.Errorf("error marshaling structure schema: %w", err)
	}
	return marshaled, nil
}

func (agent *AITaskAgent) Run(ctx context.Context, input *AITaskInput) (*GenDataTaskResult, error) {
	chatLog := input.ChatLog
	if chatLog == nil {
		chatLog = memory.NewBufferedMemory(0)
	}
	if err := chatLog.SetSystemPrompt(agent.Prompt); err != nil {
		return nil, fmt.Errorf("failed to set system prompt: %w", err)
	}
	if err := chatLog.Add(&engines.ChatMessage{Role: engines.ConvRoleUser, Text: input.Instructions}); err != nil {
		return nil, fmt.Errorf("failed to add task instructions: %w", err)
	}

	binaryObjects, err := loadAttachments(input.Attachments)
	if err != nil {
		return nil, err
	}
	payload, err := BuildPayload(chatLog.Messages(), chatLog.ConversationID(), ExtraContext{
		Streaming:     agent.Streaming,
		Query:         input.Instructions,
		TaskName:      input.Name,
		Structure:     input.Structure,
		BinaryObjects: binaryObjects,
	})
	if err != nil {
		return nil, err
	}

	reply, err := agent.send(ctx, payload)
	if err != nil {
		return nil, err
	}
	if err := chatLog.Add(&engines.ChatMessage{Role: engines.ConvRoleAssistant, Text: reply.String()}); err != nil {
		return nil, fmt.Errorf("failed to add assistant message: %w", err)
	}

	result := &GenDataTaskResult{ConversationID: chatLog.ConversationID()}
	if len(input.Structure) == 0 {
		result.Data = reply.String()
		return result, nil
	}
	result.Data = decodeStructured(reply)
	return result, nil
}

func (agent *AITaskAgent) send(ctx context.Context, payload *engines.Payload) (*engines.Reply, error) {
	if !agent.Streaming {
		return agent.Engine.Chat(ctx, payload)
	}
	streamer, ok := agent.Engine.(engines.StreamingLLM)
	if !ok {
		return nil, ErrStreamingUnsupported
	}
	stream, err := streamer.ChatStream(ctx, payload)
	if err != nil {
		return nil, err
	}
	defer stream.Close()
	text, err := engines.Collect(stream)
	if err != nil {
		return nil, err
	}
	raw, err := json.Marshal(text)
	if err != nil {
		return nil, err
	}
	return &engines.Reply{Raw: raw}, nil
}

var fencedJSONRegex = regexp.MustCompile(`\x60\x60\x60(?:json)?\s(?P<json>[\s\S]+)\s\x60\x60\x60`)

func extractJSON(text string) string {
	if match := fencedJSONRegex.FindStringSubmatch(text); match != nil {
		return match[1]
	}
	return text
}

// decodeStructured returns the reply as decoded JSON. Text replies that hold
// JSON are decoded too; anything else is returned as text.
func decodeStructured(reply *engines.Reply) any {
	var data any
	if err := reply.Decode(&data); err != nil {
		return string(reply.Raw)
	}
	text, ok := data.(string)
	if !ok {
		return data
	}
	var nested any
	if err := json.Unmarshal([]byte(extractJSON(text)), &nested); err != nil {
		log.Debugf("structured task reply is not JSON: %s", text)
		return text
	}
	return nested
}

func loadAttachments(attachments []Attachment) ([]engines.BinaryObject, error) {
	if len(attachments) == 0 {
		return nil, nil
	}
	var loadErr error
	objects := lo.Map(attachments, func(attachment Attachment, _ int) engines.BinaryObject {
		if loadErr != nil {
			return engines.BinaryObject{}
		}
		data, err := os.ReadFile(attachment.Path)
		if err != nil {
			loadErr = fmt.Errorf("failed to read attachment %s: %w", attachment.Path, err)
			return engines.BinaryObject{}
		}
		name := attachment.MediaContentID
		if name == "" {
			name = filepath.Base(attachment.Path)
		}
		mimeType := attachment.MimeType
		if mimeType == "" {
			mimeType = mime.TypeByExtension(filepath.Ext(attachment.Path))
		}
		return engines.BinaryObject{
			Name:     name,
			Path:     attachment.Path,
			MimeType: mimeType,
			Data:     base64.StdEncoding.EncodeToString(data),
		}
	})
	if loadErr != nil {
		return nil, loadErr
	}
	return objects, nil
}
