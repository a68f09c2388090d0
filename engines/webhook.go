package engines

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/natexcvi/webhook-llm/metrics"
	log "github.com/sirupsen/logrus"
)

const (
	DefaultOutputField = "output"
	DefaultTimeout     = 30 * time.Second
)

type WebhookConfig struct {
	URL         string
	OutputField string
	Timeout     time.Duration
	Auth        AuthConfig
}

// WebhookClient posts payloads to a user-hosted webhook. It never owns the
// underlying *http.Client, which is expected to be shared and pooled.
type WebhookClient struct {
	httpClient *http.Client
	config     WebhookConfig
	metrics    *metrics.WebhookMetrics
}

type Option func(*WebhookClient)

func WithMetrics(m *metrics.WebhookMetrics) Option {
	return func(c *WebhookClient) {
		c.metrics = m
	}
}

func NewWebhookClient(httpClient *http.Client, config WebhookConfig, opts ...Option) *WebhookClient {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if config.OutputField == "" {
		config.OutputField = DefaultOutputField
	}
	if config.Timeout <= 0 {
		config.Timeout = DefaultTimeout
	}
	client := &WebhookClient{
		httpClient: httpClient,
		config:     config,
	}
	for _, opt := range opts {
		opt(client)
	}
	return client
}

// Reply is the value found under the configured output field, kept as raw JSON.
type Reply struct {
	Raw json.RawMessage
}

// String returns the reply text for JSON strings and the raw JSON otherwise.
func (r *Reply) String() string {
	if r == nil {
		return ""
	}
	var text string
	if err := json.Unmarshal(r.Raw, &text); err == nil {
		return text
	}
	return string(r.Raw)
}

func (r *Reply) Decode(v any) error {
	return json.Unmarshal(r.Raw, v)
}

func (c *WebhookClient) Chat(ctx context.Context, payload *Payload) (*Reply, error) {
	log.Debugf("webhook request: %+v", payload)
	ctx, cancel, timeout := c.withTimeout(ctx)
	defer cancel()
	res, err := c.post(ctx, timeout, "chat", payload)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()
	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, classifyTransportErr(ctx, timeout, fmt.Errorf("failed to read webhook response: %w", err))
	}
	reply, err := c.parseResponseBody(body)
	if err != nil {
		return nil, err
	}
	log.Debugf("webhook response: %s", body)
	return reply, nil
}

func (c *WebhookClient) ChatStream(ctx context.Context, payload *Payload) (*Stream, error) {
	log.Debugf("webhook streaming request: %+v", payload)
	ctx, cancel, timeout := c.withTimeout(ctx)
	res, err := c.post(ctx, timeout, "stream", payload)
	if err != nil {
		cancel()
		return nil, err
	}
	return newStream(ctx, cancel, res.Body, timeout, c.metrics), nil
}

// withTimeout bounds ctx by the configured timeout. The returned duration is
// the one that will actually apply, which is shorter when ctx already has an
// earlier deadline.
func (c *WebhookClient) withTimeout(ctx context.Context) (context.Context, context.CancelFunc, time.Duration) {
	timeout := c.config.Timeout
	if deadline, ok := ctx.Deadline(); ok {
		if remaining := time.Until(deadline); remaining < timeout {
			timeout = remaining.Round(time.Millisecond)
		}
	}
	ctx, cancel := context.WithTimeout(ctx, c.config.Timeout)
	return ctx, cancel, timeout
}

func (c *WebhookClient) parseResponseBody(body []byte) (*Reply, error) {
	var result map[string]json.RawMessage
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, &InvalidResponseError{Body: string(body)}
	}
	value, ok := result[c.config.OutputField]
	if !ok {
		return nil, &InvalidResponseError{Body: string(body)}
	}
	return &Reply{Raw: value}, nil
}

// post sends body as JSON under ctx, which must already carry the request
// deadline described by timeout. Only 200 responses are returned; the
// caller closes their body.
func (c *WebhookClient) post(ctx context.Context, timeout time.Duration, kind string, body any) (*http.Response, error) {
	bodyJSON, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to encode webhook payload: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.URL, bytes.NewReader(bodyJSON))
	if err != nil {
		return nil, fmt.Errorf("failed to build webhook request: %w", err)
	}
	req.Header = c.config.Auth.Headers()
	start := time.Now()
	res, err := c.httpClient.Do(req)
	if err != nil {
		c.metrics.ObserveRequest(kind, "error", time.Since(start).Seconds())
		return nil, classifyTransportErr(ctx, timeout, fmt.Errorf("failed to send webhook request: %w", err))
	}
	c.metrics.ObserveRequest(kind, strconv.Itoa(res.StatusCode), time.Since(start).Seconds())
	if res.StatusCode != http.StatusOK {
		res.Body.Close()
		return nil, &WebhookHTTPError{
			StatusCode: res.StatusCode,
			Reason:     reasonPhrase(res),
		}
	}
	return res, nil
}

func reasonPhrase(res *http.Response) string {
	reason := strings.TrimSpace(strings.TrimPrefix(res.Status, strconv.Itoa(res.StatusCode)))
	if reason == "" {
		return http.StatusText(res.StatusCode)
	}
	return reason
}
