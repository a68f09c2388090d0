package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/natexcvi/webhook-llm/webhooktest"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var mockAddr string

var serveMockCmd = &cobra.Command{
	Use:   "serve-mock",
	Short: "Run an echoing reference webhook for local testing.",
	Long: `Run an echoing reference webhook for local testing.
Routes: POST /webhook (conversation and AI tasks), POST /stt,
POST /tts, GET /health and GET /metrics. --username and
--password make the webhook require Basic auth.
`,
	Run: func(cmd *cobra.Command, args []string) {
		server := &http.Server{
			Addr: mockAddr,
			Handler: webhooktest.NewRouter(webhooktest.Options{
				OutputField:    outputField,
				Username:       username,
				Password:       password,
				MetricsHandler: promhttp.Handler(),
				RequestLogging: true,
			}),
			ReadHeaderTimeout: 5 * time.Second,
		}
		ctx, cancel := signalContext()
		defer cancel()
		go func() {
			<-ctx.Done()
			shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer shutdownCancel()
			server.Shutdown(shutdownCtx)
		}()
		log.Infof("mock webhook listening on %s", mockAddr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error(err)
		}
	},
	Args: cobra.NoArgs,
}

func init() {
	serveMockCmd.Flags().StringVar(&mockAddr, "addr", ":8080", "the address to listen on")
}
