package engines

import "context"

//go:generate mockgen -source=engine.go -destination=mocks/engine.go -package=mocks
type LLM interface {
	Chat(ctx context.Context, payload *Payload) (*Reply, error)
}

type StreamingLLM interface {
	LLM
	// ChatStream sends the payload and returns the response as a lazy
	// sequence of deltas. The caller must Close the stream.
	ChatStream(ctx context.Context, payload *Payload) (*Stream, error)
}

// DeltaStream is the consuming side of a streamed reply.
type DeltaStream interface {
	Next() bool
	Delta() Delta
	Err() error
}
