package engines

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/natexcvi/webhook-llm/metrics"
	log "github.com/sirupsen/logrus"
)

const maxStreamLineSize = 1024 * 1024

type ChunkType string

const (
	ChunkTypeItem    ChunkType = "item"
	ChunkTypeEnd     ChunkType = "end"
	ChunkTypeUnknown ChunkType = "unknown"
)

// StreamChunk is one parsed line of a newline-delimited JSON response.
type StreamChunk struct {
	Type       ChunkType
	Content    json.RawMessage
	HasContent bool
}

// Text returns the chunk content, unquoted when it is a JSON string.
func (c StreamChunk) Text() string {
	var text string
	if err := json.Unmarshal(c.Content, &text); err == nil {
		return text
	}
	return string(c.Content)
}

func ParseStreamChunk(line []byte) (StreamChunk, error) {
	var record map[string]json.RawMessage
	if err := json.Unmarshal(line, &record); err != nil {
		return StreamChunk{}, err
	}
	chunk := StreamChunk{Type: ChunkTypeUnknown}
	var chunkType string
	if rawType, ok := record["type"]; ok {
		_ = json.Unmarshal(rawType, &chunkType)
	}
	switch ChunkType(chunkType) {
	case ChunkTypeItem, ChunkTypeEnd:
		chunk.Type = ChunkType(chunkType)
	}
	chunk.Content, chunk.HasContent = record["content"]
	return chunk, nil
}

// Delta is an incremental piece of an assistant message. A delta carrying a
// Role starts a new message.
type Delta struct {
	Role    ConvRole `json:"role,omitempty"`
	Content string   `json:"content,omitempty"`
}

// Stream is a single-pass sequence of deltas read from a streaming webhook
// response. The first delta is always the assistant role marker. A line
// longer than 1 MiB ends the stream with bufio.ErrTooLong.
//
//	stream, err := client.ChatStream(ctx, payload)
//	...
//	defer stream.Close()
//	for stream.Next() {
//		fmt.Print(stream.Delta().Content)
//	}
//	if err := stream.Err(); err != nil { ... }
type Stream struct {
	ctx     context.Context
	cancel  context.CancelFunc
	body    io.ReadCloser
	scanner *bufio.Scanner
	timeout time.Duration
	metrics *metrics.WebhookMetrics

	current Delta
	started bool
	done    bool
	err     error

	closed    atomic.Bool
	closeOnce sync.Once
	closeErr  error
}

// NewStream wraps an already-open NDJSON body.
func NewStream(body io.ReadCloser) *Stream {
	ctx, cancel := context.WithCancel(context.Background())
	return newStream(ctx, cancel, body, 0, nil)
}

func newStream(ctx context.Context, cancel context.CancelFunc, body io.ReadCloser, timeout time.Duration, m *metrics.WebhookMetrics) *Stream {
	scanner := bufio.NewScanner(body)
	scanner.Buffer(make([]byte, 0, 64*1024), maxStreamLineSize)
	return &Stream{
		ctx:     ctx,
		cancel:  cancel,
		body:    body,
		scanner: scanner,
		timeout: timeout,
		metrics: m,
	}
}

// Next advances to the next delta. It blocks on the response body and
// returns false once the webhook sends an end record, the body ends, an
// error occurs or the stream is closed.
func (s *Stream) Next() bool {
	if s.done {
		return false
	}
	if !s.started {
		s.started = true
		s.current = Delta{Role: ConvRoleAssistant}
		return true
	}
	for s.scanner.Scan() {
		line := bytes.TrimSpace(s.scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		chunk, err := ParseStreamChunk(line)
		if err != nil {
			log.Warnf("failed to parse streaming response chunk: %s", line)
			s.metrics.ObserveMalformedLine()
			continue
		}
		switch {
		case chunk.Type == ChunkTypeItem && chunk.HasContent:
			s.current = Delta{Content: chunk.Text()}
			s.metrics.ObserveFragment()
			return true
		case chunk.Type == ChunkTypeEnd:
			s.finish(nil)
			return false
		}
	}
	s.finish(s.scanner.Err())
	return false
}

func (s *Stream) Delta() Delta {
	return s.current
}

// Err returns the error that ended the stream early, if any. Closing the
// stream from the consuming side is not an error.
func (s *Stream) Err() error {
	return s.err
}

// Close releases the underlying connection. It is safe to call more than
// once and from another goroutine than the one calling Next.
func (s *Stream) Close() error {
	s.closeOnce.Do(func() {
		s.closed.Store(true)
		s.cancel()
		s.closeErr = s.body.Close()
	})
	return s.closeErr
}

func (s *Stream) finish(err error) {
	s.done = true
	s.current = Delta{}
	if err != nil && !s.closed.Load() {
		s.err = classifyTransportErr(s.ctx, s.timeout, fmt.Errorf("failed to read streaming response: %w", err))
	}
	s.Close()
}

// Collect drains the stream and joins every content delta.
func Collect(stream DeltaStream) (string, error) {
	var sb strings.Builder
	for stream.Next() {
		sb.WriteString(stream.Delta().Content)
	}
	return sb.String(), stream.Err()
}

type teeStream struct {
	DeltaStream
	onDelta func(Delta)
}

func (t *teeStream) Next() bool {
	if !t.DeltaStream.Next() {
		return false
	}
	t.onDelta(t.DeltaStream.Delta())
	return true
}

// Tee returns a stream that calls onDelta with every delta as it is consumed.
func Tee(stream DeltaStream, onDelta func(Delta)) DeltaStream {
	return &teeStream{DeltaStream: stream, onDelta: onDelta}
}
