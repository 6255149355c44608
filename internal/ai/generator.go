package ai

import (
	"context"
	"errors"
)

var ErrGenerationFailed = errors.New("generation failed")

// Generator produces one completion for a composed prompt. Implementations
// make a single non-streaming call; retries are the caller's problem.
type Generator interface {
	Generate(ctx context.Context, system, user string) (string, error)
}
