package engines

import (
	"context"
	"errors"
	"fmt"
	"time"
)

type WebhookHTTPError struct {
	StatusCode int
	Reason     string
}

func (e *WebhookHTTPError) Error() string {
	return fmt.Sprintf("error contacting webhook: HTTP %d - %s", e.StatusCode, e.Reason)
}

type InvalidResponseError struct {
	Body string
}

func (e *InvalidResponseError) Error() string {
	return fmt.Sprintf("invalid webhook response: %s", e.Body)
}

type TimeoutError struct {
	Timeout time.Duration
	Err     error
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("webhook did not respond within %s", e.Timeout)
}

func (e *TimeoutError) Unwrap() error {
	if e.Err == nil {
		return context.DeadlineExceeded
	}
	return e.Err
}

// classifyTransportErr turns a failure observed under ctx into a TimeoutError
// when ctx's own deadline is what ended the request.
func classifyTransportErr(ctx context.Context, timeout time.Duration, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(ctx.Err(), context.DeadlineExceeded) || errors.Is(err, context.DeadlineExceeded) {
		if !errors.Is(err, context.DeadlineExceeded) {
			err = fmt.Errorf("%w: %s", context.DeadlineExceeded, err.Error())
		}
		return &TimeoutError{Timeout: timeout, Err: err}
	}
	return err
}
