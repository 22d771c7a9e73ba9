package phab

import (
	"errors"
	"fmt"
)

var (
	ErrAPIURLRequired = errors.New("phab: api url is required")
	ErrConduit        = errors.New("phab: conduit api error")
)

// APIError reports an error_info payload returned by the Conduit API. The
// request is not retried: Conduit project creation is stateful and a blind
// retry risks duplicate side effects.
type APIError struct {
	Code string
	Info string
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("%s: %s: %s", ErrConduit.Error(), e.Code, e.Info)
	}
	return fmt.Sprintf("%s: %s", ErrConduit.Error(), e.Info)
}

func (e *APIError) Unwrap() error {
	return ErrConduit
}
