package agents

import "context"

type Agent[T any, S any] interface {
	Run(ctx context.Context, input T) (S, error)
}
