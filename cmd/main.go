package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/natexcvi/webhook-llm/config"
	"github.com/natexcvi/webhook-llm/engines"
	"github.com/natexcvi/webhook-llm/metrics"
	"github.com/natexcvi/webhook-llm/registry"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	webhookURL     string
	outputField    string
	timeoutSeconds int
	streaming      bool
	authType       string
	username       string
	password       string
	registryPath   string
	metricsAddr    string
	verbose        bool
)

var rootCmd = &cobra.Command{
	Use:   "webhook-llm",
	Short: "Talk to conversation, AI task and speech webhooks.",
	Long: `Talk to conversation, AI task and speech webhooks.
Configuration is read from WEBHOOK_* environment variables
(or a .env file) and can be overridden with flags, e.g.:
	WEBHOOK_URL=https://n8n.local/webhook/abc webhook-llm chat
`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if verbose {
			log.SetLevel(log.DebugLevel)
		}
	},
}

// loadConfig merges the environment configuration with any flags set on
// the command line and validates the result.
func loadConfig(cmd *cobra.Command, kind config.Kind) (*config.Config, error) {
	cfg := config.Load()
	cfg.Kind = kind
	flags := cmd.Flags()
	if flags.Changed("url") {
		cfg.WebhookURL = webhookURL
	}
	if flags.Changed("output-field") {
		cfg.OutputField = outputField
	}
	if flags.Changed("timeout") {
		cfg.TimeoutSeconds = timeoutSeconds
	}
	if flags.Changed("stream") {
		cfg.EnableStreaming = streaming
	}
	if flags.Changed("auth-type") {
		cfg.AuthType = engines.AuthType(authType)
	}
	if flags.Changed("username") {
		cfg.Username = username
	}
	if flags.Changed("password") {
		cfg.Password = password
	}
	if len(cfg.SupportedLanguages) == 0 {
		if lang, err := flags.GetString("language"); err == nil && lang != "" {
			cfg.SupportedLanguages = []string{lang}
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newClient(cfg *config.Config) *engines.WebhookClient {
	httpClient := &http.Client{Transport: http.DefaultTransport}
	return engines.NewWebhookClient(httpClient, cfg.WebhookConfig(), engines.WithMetrics(metrics.NewWebhookMetrics(nil)))
}

func loadRegistry() (registry.Lookup, error) {
	if registryPath == "" {
		return nil, nil
	}
	r, err := registry.LoadFile(registryPath)
	if err != nil {
		return nil, err
	}
	return r, nil
}

func serveMetrics() {
	if metricsAddr == "" {
		return
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	server := &http.Server{Addr: metricsAddr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Errorf("metrics server failed: %s", err)
		}
	}()
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt)
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&webhookURL, "url", "", "the webhook URL (overrides WEBHOOK_URL)")
	flags.StringVar(&outputField, "output-field", engines.DefaultOutputField, "the response field holding the reply")
	flags.IntVar(&timeoutSeconds, "timeout", config.DefaultTimeoutSeconds, "request timeout in seconds (1-300)")
	flags.BoolVar(&streaming, "stream", false, "ask the webhook for a streaming response")
	flags.StringVar(&authType, "auth-type", string(engines.AuthTypeNone), "none or basic_auth")
	flags.StringVar(&username, "username", "", "basic auth username")
	flags.StringVar(&password, "password", "", "basic auth password")
	flags.StringVar(&registryPath, "registry", "", "JSON file with the entities, devices and areas exposed to the webhook")
	flags.StringVar(&metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address while running")
	flags.BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

func main() {
	rootCmd.AddCommand(chatCmd)
	rootCmd.AddCommand(taskCmd)
	rootCmd.AddCommand(transcribeCmd)
	rootCmd.AddCommand(speakCmd)
	rootCmd.AddCommand(serveMockCmd)
	rootCmd.AddCommand(evalCmd)

	if err := rootCmd.Execute(); err != nil {
		log.Fatal(err)
	}
}
