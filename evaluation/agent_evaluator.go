package evaluation

import (
	"context"
	"strings"

	"github.com/natexcvi/webhook-llm/agents"
)

type agentTester[Input, Output any] struct {
	agent agents.Agent[Input, Output]
}

func NewAgentTester[Input, Output any](agent agents.Agent[Input, Output]) Tester[Input, Output] {
	return &agentTester[Input, Output]{
		agent: agent,
	}
}

func (t *agentTester[Input, Output]) Test(ctx context.Context, test Input) (Output, error) {
	return t.agent.Run(ctx, test)
}

// ConversationCase is one entry of a conversation test pack.
type ConversationCase struct {
	Query  string `json:"query"`
	Expect string `json:"expect"`
}

type conversationTester struct {
	agent *agents.ConversationAgent
}

// NewConversationTester runs every case as the first turn of a fresh
// conversation.
func NewConversationTester(agent *agents.ConversationAgent) Tester[ConversationCase, string] {
	return &conversationTester{agent: agent}
}

func (t *conversationTester) Test(ctx context.Context, test ConversationCase) (string, error) {
	result, err := t.agent.Run(ctx, &agents.ConversationInput{Text: test.Query})
	if err != nil {
		return "", err
	}
	return result.Response, nil
}

// ContainsExpected scores 1 when the response contains the expected text,
// ignoring case, and 0 otherwise or on error.
func ContainsExpected(test ConversationCase, response string, err error) float64 {
	if err != nil {
		return 0
	}
	if strings.Contains(strings.ToLower(response), strings.ToLower(test.Expect)) {
		return 1
	}
	return 0
}
