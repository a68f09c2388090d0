package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/briandowns/spinner"
	"github.com/natexcvi/webhook-llm/agents"
	"github.com/natexcvi/webhook-llm/config"
	"github.com/natexcvi/webhook-llm/engines"
	"github.com/natexcvi/webhook-llm/memory"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	chatLanguage  string
	chatDeviceID  string
	maxHistory    int
	attachments   []string
	structurePath string
)

func startSpinner() *spinner.Spinner {
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond)
	s.Suffix = " Waiting for the webhook..."
	s.Start()
	return s
}

var chatCmd = &cobra.Command{
	Use:   "chat [MESSAGE]",
	Short: "Talk to a conversation webhook.",
	Long: `Talk to a conversation webhook.
With a MESSAGE, sends a single turn and prints the reply.
Without one, starts an interactive conversation on stdin.
`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(cmd, config.KindConversation)
		if err != nil {
			log.Error(err)
			return
		}
		lookup, err := loadRegistry()
		if err != nil {
			log.Error(err)
			return
		}
		serveMetrics()
		ctx, cancel := signalContext()
		defer cancel()

		agent := &agents.ConversationAgent{
			Engine:    newClient(cfg),
			Prompt:    cfg.Prompt,
			Streaming: cfg.EnableStreaming,
			Registry:  lookup,
		}
		if agent.Streaming {
			agent.OnDelta = func(delta engines.Delta) {
				fmt.Print(delta.Content)
			}
		}
		chatLog := memory.NewBufferedMemory(maxHistory)
		input := func(text string) *agents.ConversationInput {
			return &agents.ConversationInput{
				Text:     text,
				ChatLog:  chatLog,
				AgentID:  cfg.Name,
				DeviceID: chatDeviceID,
				Language: chatLanguage,
				UserID:   os.Getenv("USER"),
			}
		}

		if len(args) == 1 {
			if err := runTurn(ctx, agent, input(args[0])); err != nil {
				log.Error(err)
			}
			return
		}
		log.Debugf("conversation id: %s", chatLog.ConversationID())
		scanner := bufio.NewScanner(os.Stdin)
		fmt.Print("> ")
		for scanner.Scan() {
			text := strings.TrimSpace(scanner.Text())
			if text == "exit" || ctx.Err() != nil {
				return
			}
			if text != "" {
				if err := runTurn(ctx, agent, input(text)); err != nil {
					log.Error(err)
				}
			}
			fmt.Print("> ")
		}
	},
	Args: cobra.MaximumNArgs(1),
}

func runTurn(ctx context.Context, agent *agents.ConversationAgent, input *agents.ConversationInput) error {
	if agent.Streaming {
		_, err := agent.Run(ctx, input)
		fmt.Println()
		return err
	}
	s := startSpinner()
	result, err := agent.Run(ctx, input)
	s.Stop()
	if err != nil {
		return err
	}
	fmt.Println(result.Response)
	return nil
}

var taskCmd = &cobra.Command{
	Use:   "task NAME INSTRUCTIONS",
	Short: "Run an AI task against a webhook.",
	Long: `Run an AI task against a webhook.
Example usage:
	webhook-llm task describe "Describe the image" --attach front_door.jpg
	webhook-llm task summary "Summarize the day" --structure summary.schema.json
`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(cmd, config.KindAITask)
		if err != nil {
			log.Error(err)
			return
		}
		var structure json.RawMessage
		if structurePath != "" {
			structure, err = os.ReadFile(structurePath)
			if err != nil {
				log.Error(err)
				return
			}
			if !json.Valid(structure) {
				log.Errorf("%s is not valid JSON", structurePath)
				return
			}
		}
		ctx, cancel := signalContext()
		defer cancel()

		agent := &agents.AITaskAgent{
			Engine:    newClient(cfg),
			Prompt:    cfg.Prompt,
			Streaming: cfg.EnableStreaming,
		}
		taskAttachments := make([]agents.Attachment, 0, len(attachments))
		for _, path := range attachments {
			taskAttachments = append(taskAttachments, agents.Attachment{Path: path})
		}
		s := startSpinner()
		result, err := agent.Run(ctx, &agents.AITaskInput{
			Name:         args[0],
			Instructions: args[1],
			Attachments:  taskAttachments,
			Structure:    structure,
		})
		s.Stop()
		if err != nil {
			log.Error(err)
			return
		}
		if text, ok := result.Data.(string); ok {
			fmt.Println(text)
			return
		}
		out, err := json.MarshalIndent(result.Data, "", "  ")
		if err != nil {
			log.Error(err)
			return
		}
		fmt.Println(string(out))
	},
	Args: cobra.ExactArgs(2),
}

func init() {
	chatCmd.Flags().StringVar(&chatLanguage, "language", "en", "the conversation language")
	chatCmd.Flags().StringVar(&chatDeviceID, "device-id", "", "the device the conversation originates from")
	chatCmd.Flags().IntVar(&maxHistory, "max-history", 0, "keep at most this many turns of history (0 keeps all)")
	taskCmd.Flags().StringArrayVar(&attachments, "attach", nil, "a file to attach to the task (repeatable)")
	taskCmd.Flags().StringVar(&structurePath, "structure", "", "a JSON schema file describing the expected result")
}
