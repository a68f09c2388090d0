package evaluation

import (
	"context"

	"github.com/natexcvi/webhook-llm/engines"
)

type llmTester struct {
	llm engines.LLM
}

// NewLLMTester returns a tester that sends each payload straight to the
// webhook.
func NewLLMTester(llm engines.LLM) Tester[*engines.Payload, *engines.Reply] {
	return &llmTester{
		llm: llm,
	}
}

func (t *llmTester) Test(ctx context.Context, test *engines.Payload) (*engines.Reply, error) {
	return t.llm.Chat(ctx, test)
}
