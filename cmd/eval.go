package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/natexcvi/webhook-llm/agents"
	"github.com/natexcvi/webhook-llm/config"
	"github.com/natexcvi/webhook-llm/evaluation"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var repetitions int

var evalCmd = &cobra.Command{
	Use:   "eval TEST_PACK",
	Short: "Score a conversation webhook against a test pack.",
	Long: `Score a conversation webhook against a test pack.
TEST_PACK is a JSON array of {"query": ..., "expect": ...} cases. A case
scores 1 when the reply contains the expected text, ignoring case.
Example usage:
	webhook-llm eval lights.json --repetitions 5
`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(cmd, config.KindConversation)
		if err != nil {
			log.Error(err)
			return
		}
		raw, err := os.ReadFile(args[0])
		if err != nil {
			log.Error(err)
			return
		}
		var testPack []evaluation.ConversationCase
		if err := json.Unmarshal(raw, &testPack); err != nil {
			log.Errorf("failed to parse test pack: %s", err)
			return
		}
		lookup, err := loadRegistry()
		if err != nil {
			log.Error(err)
			return
		}
		ctx, cancel := signalContext()
		defer cancel()

		agent := &agents.ConversationAgent{
			Engine:    newClient(cfg),
			Prompt:    cfg.Prompt,
			Streaming: cfg.EnableStreaming,
			Registry:  lookup,
		}
		evaluator := evaluation.NewEvaluator(evaluation.NewConversationTester(agent), &evaluation.Options[evaluation.ConversationCase, string]{
			GoodnessFunction: evaluation.ContainsExpected,
			Repetitions:      repetitions,
		})
		s := startSpinner()
		report, err := evaluator.Evaluate(ctx, testPack)
		s.Stop()
		if err != nil {
			log.Error(err)
			return
		}
		total := 0.0
		for i, score := range report {
			total += score
			fmt.Printf("%.2f\t%s\n", score, testPack[i].Query)
		}
		if len(report) > 0 {
			fmt.Printf("mean: %.2f\n", total/float64(len(report)))
		}
	},
	Args: cobra.ExactArgs(1),
}

func init() {
	evalCmd.Flags().IntVar(&repetitions, "repetitions", 1, "how many times to run the test pack")
}
