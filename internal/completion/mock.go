package completion

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// Mock answers with a canned markdown reply after an optional delay.
// Used for development and testing without a real backend.
type Mock struct {
	Delay time.Duration
}

func (m *Mock) Name() string { return "Mock" }

func (m *Mock) Complete(ctx context.Context, prompt string) (string, error) {
	if m.Delay > 0 {
		select {
		case <-time.After(m.Delay):
		case <-ctx.Done():
			return "", fmt.Errorf("mock: %w", ctx.Err())
		}
	}

	p := strings.TrimSpace(prompt)
	if p == "" {
		return "", nil
	}
	return "**Mock answer**\n\n> " + strings.Join(strings.Fields(p), " "), nil
}

func (m *Mock) Available() bool { return true }
