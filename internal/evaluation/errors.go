package evaluation

import (
	"errors"
	"fmt"

	"github.com/ashureev/debate-coach/internal/domain"
)

// ErrInput is returned when topic or argument text is empty.
var ErrInput = domain.ErrInput

// ErrService marks a failed or timed-out call to the generator.
// Callers may retry with backoff; Evaluate never retries on its own.
var ErrService = errors.New("generation service unavailable")

// ServiceError wraps the generator failure. It matches ErrService with errors.Is.
type ServiceError struct {
	Timeout bool
	Err     error
}

func (e *ServiceError) Error() string {
	if e.Timeout {
		return fmt.Sprintf("generation timed out: %v", e.Err)
	}
	return fmt.Sprintf("generation failed: %v", e.Err)
}

func (e *ServiceError) Unwrap() error { return e.Err }

// Is makes errors.Is(err, ErrService) true for any ServiceError.
func (e *ServiceError) Is(target error) bool {
	return target == ErrService
}
