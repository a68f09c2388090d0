package evaluation

import (
	"context"
	"fmt"

	"github.com/samber/mo"
)

// GoodnessFunction scores a single test result; err is the error returned
// by the tester, if any.
type GoodnessFunction[Input, Output any] func(input Input, output Output, err error) float64

type Options[Input, Output any] struct {
	GoodnessFunction GoodnessFunction[Input, Output]
	Repetitions      int
}

type Tester[Input, Output any] interface {
	Test(ctx context.Context, test Input) (Output, error)
}

type Evaluator[Input, Output any] struct {
	options *Options[Input, Output]
	tester  Tester[Input, Output]
}

func NewEvaluator[Input, Output any](tester Tester[Input, Output], options *Options[Input, Output]) *Evaluator[Input, Output] {
	if options.Repetitions <= 0 {
		options.Repetitions = 1
	}
	return &Evaluator[Input, Output]{
		options: options,
		tester:  tester,
	}
}

// Evaluate runs the test pack Repetitions times concurrently and returns the
// mean score of every test.
func (e *Evaluator[Input, Output]) Evaluate(ctx context.Context, testPack []Input) ([]float64, error) {
	channels := make([]chan []float64, e.options.Repetitions)

	for i := 0; i < e.options.Repetitions; i++ {
		channels[i] = make(chan []float64, 1)
		go func(i int) {
			channels[i] <- e.evaluate(ctx, testPack)
		}(i)
	}

	responses := make([][]float64, e.options.Repetitions)
	for i := 0; i < e.options.Repetitions; i++ {
		responses[i] = <-channels[i]
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("evaluation interrupted: %w", err)
	}

	report := make([]float64, len(testPack))
	for i := 0; i < len(testPack); i++ {
		sum := 0.0
		for j := 0; j < e.options.Repetitions; j++ {
			sum += responses[j][i]
		}
		report[i] = sum / float64(e.options.Repetitions)
	}

	return report, nil
}

func (e *Evaluator[Input, Output]) evaluate(ctx context.Context, testPack []Input) []float64 {
	report := make([]float64, len(testPack))
	for i, response := range e.test(ctx, testPack) {
		res, resErr := response.Get()
		report[i] = e.options.GoodnessFunction(testPack[i], res, resErr)
	}
	return report
}

func (e *Evaluator[Input, Output]) test(ctx context.Context, testPack []Input) []mo.Result[Output] {
	responses := make([]mo.Result[Output], len(testPack))

	for i, test := range testPack {
		response, err := e.tester.Test(ctx, test)
		if err != nil {
			responses[i] = mo.Err[Output](err)
		} else {
			responses[i] = mo.Ok(response)
		}
	}

	return responses
}
