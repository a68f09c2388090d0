// Package webhooktest implements a reference webhook that speaks the
// conversation, speech and streaming protocols. It backs the package tests
// and the serve-mock command.
package webhooktest

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	log "github.com/sirupsen/logrus"
)

type Options struct {
	// OutputField defaults to "output".
	OutputField string
	// Username and Password, when set, are required as Basic auth.
	Username string
	Password string
	// MetricsHandler is mounted at /metrics when set.
	MetricsHandler http.Handler
	RequestLogging bool
}

type request struct {
	Query     string          `json:"query"`
	Stream    bool            `json:"stream"`
	TaskName  string          `json:"task_name"`
	Structure json.RawMessage `json:"structure"`
}

type audioRequest struct {
	Audio struct {
		Name     string `json:"name"`
		MimeType string `json:"mime_type"`
		Data     string `json:"data"`
	} `json:"audio"`
	Language string `json:"language"`
}

type speechRequest struct {
	Text     string `json:"text"`
	Language string `json:"language"`
	Voice    string `json:"voice"`
}

type streamRecord struct {
	Type    string `json:"type"`
	Content string `json:"content,omitempty"`
}

func NewRouter(opts Options) http.Handler {
	if opts.OutputField == "" {
		opts.OutputField = "output"
	}
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	if opts.RequestLogging {
		r.Use(middleware.Logger)
	}
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	if opts.MetricsHandler != nil {
		r.Handle("/metrics", opts.MetricsHandler)
	}
	r.Group(func(hooks chi.Router) {
		if opts.Username != "" {
			hooks.Use(middleware.BasicAuth("webhook", map[string]string{opts.Username: opts.Password}))
		}
		hooks.Post("/webhook", opts.handleConversation)
		hooks.Post("/stt", opts.handleTranscribe)
		hooks.Post("/tts", opts.handleSynthesize)
	})
	return r
}

// handleConversation echoes the query back, word by word when streaming.
// Structured tasks get the query wrapped in an object.
func (opts Options) handleConversation(w http.ResponseWriter, r *http.Request) {
	var req request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid payload", http.StatusBadRequest)
		return
	}
	log.WithFields(log.Fields{
		"query":  req.Query,
		"stream": req.Stream,
		"task":   req.TaskName,
	}).Debug("mock webhook request")

	if req.Stream {
		writeStream(w, strings.Fields(req.Query))
		return
	}
	var output any = req.Query
	if len(req.Structure) > 0 {
		output = map[string]string{"query": req.Query}
	}
	writeJSON(w, map[string]any{opts.OutputField: output})
}

func (opts Options) handleTranscribe(w http.ResponseWriter, r *http.Request) {
	var req audioRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid payload", http.StatusBadRequest)
		return
	}
	audio, err := base64.StdEncoding.DecodeString(req.Audio.Data)
	if err != nil {
		http.Error(w, "invalid audio data", http.StatusBadRequest)
		return
	}
	writeJSON(w, map[string]any{
		opts.OutputField: fmt.Sprintf("received %d bytes of %s (%s)", len(audio), req.Audio.MimeType, req.Language),
	})
}

// handleSynthesize returns the text itself as the "audio".
func (opts Options) handleSynthesize(w http.ResponseWriter, r *http.Request) {
	var req speechRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid payload", http.StatusBadRequest)
		return
	}
	w.Header().Set("Content-Type", "audio/wav")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(req.Text))
}

func writeStream(w http.ResponseWriter, words []string) {
	w.Header().Set("Content-Type", "application/x-ndjson")
	w.WriteHeader(http.StatusOK)
	flusher, _ := w.(http.Flusher)
	encoder := json.NewEncoder(w)
	for i, word := range words {
		if i < len(words)-1 {
			word += " "
		}
		if err := encoder.Encode(streamRecord{Type: "item", Content: word}); err != nil {
			log.Warnf("failed to write stream record: %s", err)
			return
		}
		if flusher != nil {
			flusher.Flush()
		}
	}
	encoder.Encode(streamRecord{Type: "end"})
}

func writeJSON(w http.ResponseWriter, body any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Warnf("failed to write response: %s", err)
	}
}
