package evaluation

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/natexcvi/webhook-llm/agents"
	"github.com/natexcvi/webhook-llm/engines"
	"github.com/natexcvi/webhook-llm/engines/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createMockEchoLLM(t *testing.T) engines.LLM {
	t.Helper()
	ctrl := gomock.NewController(t)
	mock := mocks.NewMockLLM(ctrl)
	mock.EXPECT().Chat(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, payload *engines.Payload) (*engines.Reply, error) {
		if payload.Query == "fail" {
			return nil, errors.New("webhook unavailable")
		}
		raw, err := json.Marshal(payload.Query)
		if err != nil {
			return nil, err
		}
		return &engines.Reply{Raw: raw}, nil
	}).AnyTimes()
	return mock
}

func responseLength(_ *engines.Payload, reply *engines.Reply, err error) float64 {
	if err != nil {
		return -1
	}
	return float64(len(reply.String()))
}

func TestLLMEvaluator(t *testing.T) {
	testPack := []*engines.Payload{
		{Query: "Hello"},
		{Query: "Hello Hello"},
		{Query: "fail"},
		{Query: "Hello Hello Hello Hello Hello Hello"},
	}
	tests := []struct {
		name    string
		options *Options[*engines.Payload, *engines.Reply]
		want    []float64
	}{
		{
			name: "response length goodness and 1 repetition",
			options: &Options[*engines.Payload, *engines.Reply]{
				GoodnessFunction: responseLength,
				Repetitions:      1,
			},
			want: []float64{5, 11, -1, 35},
		},
		{
			name: "response length goodness and 5 repetitions",
			options: &Options[*engines.Payload, *engines.Reply]{
				GoodnessFunction: responseLength,
				Repetitions:      5,
			},
			want: []float64{5, 11, -1, 35},
		},
		{
			name: "zero repetitions runs once",
			options: &Options[*engines.Payload, *engines.Reply]{
				GoodnessFunction: responseLength,
			},
			want: []float64{5, 11, -1, 35},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tester := NewLLMTester(createMockEchoLLM(t))
			evaluator := NewEvaluator(tester, tt.options)

			got, err := evaluator.Evaluate(context.Background(), testPack)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestConversationEvaluator(t *testing.T) {
	agent := &agents.ConversationAgent{
		Engine: createMockEchoLLM(t),
		Prompt: "You are a helpful assistant",
	}
	evaluator := NewEvaluator(NewConversationTester(agent), &Options[ConversationCase, string]{
		GoodnessFunction: ContainsExpected,
		Repetitions:      3,
	})

	got, err := evaluator.Evaluate(context.Background(), []ConversationCase{
		{Query: "Turn on the Kitchen lights", Expect: "kitchen"},
		{Query: "Turn on the lights", Expect: "garage"},
		{Query: "fail", Expect: "fail"},
	})
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 0, 0}, got)
}

func TestEvaluatorCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	evaluator := NewEvaluator(NewLLMTester(createMockEchoLLM(t)), &Options[*engines.Payload, *engines.Reply]{
		GoodnessFunction: responseLength,
	})
	_, err := evaluator.Evaluate(ctx, []*engines.Payload{{Query: "Hello"}})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestAgentEvaluator(t *testing.T) {
	agent := &agents.AITaskAgent{
		Engine: createMockEchoLLM(t),
		Prompt: "You run tasks",
	}
	tester := NewAgentTester[*agents.AITaskInput, *agents.GenDataTaskResult](agent)
	evaluator := NewEvaluator(tester, &Options[*agents.AITaskInput, *agents.GenDataTaskResult]{
		GoodnessFunction: func(input *agents.AITaskInput, result *agents.GenDataTaskResult, err error) float64 {
			if err != nil {
				return 0
			}
			if result.Data == input.Instructions {
				return 1
			}
			return 0.5
		},
		Repetitions: 2,
	})

	got, err := evaluator.Evaluate(context.Background(), []*agents.AITaskInput{
		{Name: "summary", Instructions: "Summarize the house"},
		{Name: "summary", Instructions: "fail"},
	})
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 0}, got)
}
