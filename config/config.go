package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/joho/godotenv"
	"github.com/natexcvi/webhook-llm/engines"
	"github.com/samber/lo"
	log "github.com/sirupsen/logrus"
)

type Kind string

const (
	KindConversation Kind = "conversation"
	KindAITask       Kind = "ai_task"
	KindSTT          Kind = "stt"
	KindTTS          Kind = "tts"
)

const (
	DefaultName           = "webhook"
	DefaultTimeoutSeconds = 30
	MinTimeoutSeconds     = 1
	MaxTimeoutSeconds     = 300
	DefaultPrompt         = "You are a voice assistant for a smart home. Answer in plain text. Keep it simple and to the point."
)

// Config describes one webhook-backed agent.
type Config struct {
	Name            string
	Kind            Kind
	WebhookURL      string
	OutputField     string
	Prompt          string
	TimeoutSeconds  int
	EnableStreaming bool
	AuthType        engines.AuthType
	Username        string
	Password        string

	// Speech only.
	SupportedLanguages []string
	Voices             []string
}

var (
	ErrUnsupportedLanguage = errors.New("unsupported language")
	ErrUnsupportedVoice    = errors.New("unsupported voice")
)

type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func Default() *Config {
	return &Config{
		Name:           DefaultName,
		Kind:           KindConversation,
		OutputField:    engines.DefaultOutputField,
		Prompt:         DefaultPrompt,
		TimeoutSeconds: DefaultTimeoutSeconds,
		AuthType:       engines.AuthTypeNone,
	}
}

// Load reads the configuration from WEBHOOK_* environment variables, after
// loading a .env file from the working directory if there is one.
func Load() *Config {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Warnf("failed to load .env file: %s", err)
	}
	defaults := Default()
	return &Config{
		Name:               getEnv("WEBHOOK_NAME", defaults.Name),
		Kind:               Kind(getEnv("WEBHOOK_KIND", string(defaults.Kind))),
		WebhookURL:         getEnv("WEBHOOK_URL", ""),
		OutputField:        getEnv("WEBHOOK_OUTPUT_FIELD", defaults.OutputField),
		Prompt:             getEnv("WEBHOOK_PROMPT", defaults.Prompt),
		TimeoutSeconds:     getEnvAsInt("WEBHOOK_TIMEOUT", defaults.TimeoutSeconds),
		EnableStreaming:    getEnvAsBool("WEBHOOK_ENABLE_STREAMING", false),
		AuthType:           engines.AuthType(getEnv("WEBHOOK_AUTH_TYPE", string(defaults.AuthType))),
		Username:           getEnv("WEBHOOK_USERNAME", ""),
		Password:           getEnv("WEBHOOK_PASSWORD", ""),
		SupportedLanguages: getEnvAsList("WEBHOOK_SUPPORTED_LANGUAGES"),
		Voices:             getEnvAsList("WEBHOOK_VOICES"),
	}
}

// Validate reports every problem with the configuration at once.
func (c *Config) Validate() error {
	var result *multierror.Error
	switch c.Kind {
	case KindConversation, KindAITask, KindSTT, KindTTS:
	default:
		result = multierror.Append(result, &ValidationError{Field: "kind", Reason: fmt.Sprintf("unknown kind %q", c.Kind)})
	}
	if !strings.HasPrefix(c.WebhookURL, "http://") && !strings.HasPrefix(c.WebhookURL, "https://") {
		result = multierror.Append(result, &ValidationError{Field: "webhook_url", Reason: "must start with http:// or https://"})
	}
	if c.TimeoutSeconds < MinTimeoutSeconds || c.TimeoutSeconds > MaxTimeoutSeconds {
		result = multierror.Append(result, &ValidationError{
			Field:  "timeout",
			Reason: fmt.Sprintf("must be between %d and %d seconds", MinTimeoutSeconds, MaxTimeoutSeconds),
		})
	}
	switch c.AuthType {
	case engines.AuthTypeNone, "":
	case engines.AuthTypeBasic:
		if strings.TrimSpace(c.Username) == "" || strings.TrimSpace(c.Password) == "" {
			result = multierror.Append(result, &ValidationError{Field: "auth", Reason: "username and password are required for basic authentication"})
		}
	default:
		result = multierror.Append(result, &ValidationError{Field: "auth_type", Reason: fmt.Sprintf("unknown auth type %q", c.AuthType)})
	}
	if (c.Kind == KindSTT || c.Kind == KindTTS) && len(c.SupportedLanguages) == 0 {
		result = multierror.Append(result, &ValidationError{Field: "supported_languages", Reason: "at least one language is required"})
	}
	return result.ErrorOrNil()
}

// SpeechLanguage returns the requested language, or the first supported
// language when none is requested.
func (c *Config) SpeechLanguage(requested string) (string, error) {
	if requested == "" {
		if len(c.SupportedLanguages) == 0 {
			return "", fmt.Errorf("%w: no supported languages configured", ErrUnsupportedLanguage)
		}
		return c.SupportedLanguages[0], nil
	}
	if !lo.Contains(c.SupportedLanguages, requested) {
		return "", fmt.Errorf("%w: %s (supported: %s)", ErrUnsupportedLanguage, requested, strings.Join(c.SupportedLanguages, ", "))
	}
	return requested, nil
}

// SpeechVoice returns the requested voice, or the first configured voice
// when none is requested. Without configured voices no voice is sent.
func (c *Config) SpeechVoice(requested string) (string, error) {
	if requested == "" {
		if len(c.Voices) == 0 {
			return "", nil
		}
		return c.Voices[0], nil
	}
	if !lo.Contains(c.Voices, requested) {
		return "", fmt.Errorf("%w: %s", ErrUnsupportedVoice, requested)
	}
	return requested, nil
}

func (c *Config) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

func (c *Config) WebhookConfig() engines.WebhookConfig {
	auth := engines.AuthConfig{Type: c.AuthType}
	if c.AuthType == engines.AuthTypeBasic {
		auth.Username = strings.TrimSpace(c.Username)
		auth.Password = strings.TrimSpace(c.Password)
	}
	return engines.WebhookConfig{
		URL:         c.WebhookURL,
		OutputField: c.OutputField,
		Timeout:     c.Timeout(),
		Auth:        auth,
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

// getEnvAsList splits a comma separated variable, dropping empty items.
func getEnvAsList(key string) []string {
	var items []string
	for _, item := range strings.Split(getEnv(key, ""), ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}
