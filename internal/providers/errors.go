package providers

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"
)

// TimeoutError reports that a collaborator call exceeded its deadline. The
// callers surface it as-is; retry policy belongs to the orchestration layer,
// never to the pipeline stages.
type TimeoutError struct {
	Provider  string
	Operation string
	Timeout   time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("%s: %s timed out after %s", e.Provider, e.Operation, e.Timeout)
}

// wrapTimeout converts a context deadline error into a TimeoutError,
// returning other errors unchanged.
func wrapTimeout(err error, provider, operation string, timeout time.Duration) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return &TimeoutError{Provider: provider, Operation: operation, Timeout: timeout}
	}
	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return &TimeoutError{Provider: provider, Operation: operation, Timeout: timeout}
	}
	return err
}
