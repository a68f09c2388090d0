package webhooktest_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/natexcvi/webhook-llm/agents"
	"github.com/natexcvi/webhook-llm/engines"
	"github.com/natexcvi/webhook-llm/memory"
	"github.com/natexcvi/webhook-llm/webhooktest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newClient(t *testing.T, opts webhooktest.Options, path string, auth engines.AuthConfig) *engines.WebhookClient {
	t.Helper()
	server := httptest.NewServer(webhooktest.NewRouter(opts))
	t.Cleanup(server.Close)
	return engines.NewWebhookClient(server.Client(), engines.WebhookConfig{
		URL:         server.URL + path,
		OutputField: opts.OutputField,
		Auth:        auth,
	})
}

func TestConversationRoundTrip(t *testing.T) {
	testCases := []struct {
		name      string
		streaming bool
	}{
		{name: "single shot"},
		{name: "streaming", streaming: true},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			client := newClient(t, webhooktest.Options{}, "/webhook", engines.AuthConfig{})
			chatLog := memory.NewBufferedMemory(0)
			agent := &agents.ConversationAgent{
				Engine:    client,
				Prompt:    "echo",
				Streaming: tc.streaming,
			}
			result, err := agent.Run(context.Background(), &agents.ConversationInput{
				Text:    "turn on the lights",
				ChatLog: chatLog,
			})
			require.NoError(t, err)
			assert.Equal(t, "turn on the lights", result.Response)
			assert.Len(t, chatLog.Messages(), 3)
		})
	}
}

func TestBasicAuth(t *testing.T) {
	opts := webhooktest.Options{Username: "user", Password: "pass", OutputField: "answer"}
	payload := &engines.Payload{ConversationID: "c", Messages: []engines.WireMessage{}, Query: "hi"}

	authorized := newClient(t, opts, "/webhook", engines.AuthConfig{Type: engines.AuthTypeBasic, Username: "user", Password: "pass"})
	reply, err := authorized.Chat(context.Background(), payload)
	require.NoError(t, err)
	assert.Equal(t, "hi", reply.String())

	unauthorized := newClient(t, opts, "/webhook", engines.AuthConfig{Type: engines.AuthTypeNone})
	_, err = unauthorized.Chat(context.Background(), payload)
	var httpErr *engines.WebhookHTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusUnauthorized, httpErr.StatusCode)
}

func TestStructuredTask(t *testing.T) {
	client := newClient(t, webhooktest.Options{}, "/webhook", engines.AuthConfig{})
	agent := &agents.AITaskAgent{Engine: client, Prompt: "tasks"}
	result, err := agent.Run(context.Background(), &agents.AITaskInput{
		Name:         "echo",
		Instructions: "list the lights",
		Structure:    json.RawMessage(`{"type":"object"}`),
	})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"query": "list the lights"}, result.Data)
}

func TestSpeech(t *testing.T) {
	stt := newClient(t, webhooktest.Options{}, "/stt", engines.AuthConfig{})
	text, err := stt.Transcribe(context.Background(), make([]byte, 100), engines.SpeechMetadata{
		Language:   "en",
		Format:     engines.AudioFormatWAV,
		SampleRate: 16000,
		BitRate:    16,
		Channels:   1,
	})
	require.NoError(t, err)
	assert.Equal(t, "received 144 bytes of audio/wav (en)", text)

	tts := newClient(t, webhooktest.Options{}, "/tts", engines.AuthConfig{})
	format, audio, err := tts.Synthesize(context.Background(), "hello", "en", "")
	require.NoError(t, err)
	assert.Equal(t, "wav", format)
	assert.Equal(t, []byte("hello"), audio)
}

func TestInvalidPayload(t *testing.T) {
	server := httptest.NewServer(webhooktest.NewRouter(webhooktest.Options{}))
	defer server.Close()
	res, err := server.Client().Post(server.URL+"/webhook", "application/json", strings.NewReader("nope"))
	require.NoError(t, err)
	defer res.Body.Close()
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
}
