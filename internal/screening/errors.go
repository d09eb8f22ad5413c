package screening

import (
	"errors"
	"fmt"

	"github.com/Rahul-Birwadkar/SkillScout-AI-Technical-Screening-Agent/internal/ai"
)

// ErrAmbiguousInput marks input that neither answers nor exits, such as an empty line
// or "help". It is handled with a redirect and never returned from Handle.
var ErrAmbiguousInput = errors.New("ambiguous input")

var errEmptyResponse = errors.New("empty response")

// ValidationError means an intake field could not be accepted. The same field is
// asked again.
type ValidationError struct {
	Field Field
	Hint  string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Hint)
}

// GatewayError wraps a failed reasoning gateway call. The turn that caused it was not
// applied, so the same input can be submitted again.
type GatewayError struct {
	Template ai.Template
	Err      error
}

func (e *GatewayError) Error() string {
	return fmt.Sprintf("gateway %s: %v", e.Template, e.Err)
}

func (e *GatewayError) Unwrap() error {
	return e.Err
}

// PersistenceError wraps a failed record store append.
type PersistenceError struct {
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("store screening record: %v", e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// IsRetryable reports whether resubmitting the same input may succeed.
func IsRetryable(err error) bool {
	var gatewayErr *GatewayError
	return errors.As(err, &gatewayErr)
}
