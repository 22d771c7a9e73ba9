package mediawiki

import (
	"errors"
	"fmt"
)

var ErrAPIURLRequired = errors.New("mediawiki: api url is required")
var ErrLoginFailed = errors.New("mediawiki: login failed")
var ErrAPI = errors.New("mediawiki: api request failed")
var ErrRevisionMissing = errors.New("mediawiki: page has no readable revision")

// APIError is an error reported by the MediaWiki action API.
type APIError struct {
	Code string
	Info string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("mediawiki: api error %s: %s", e.Code, e.Info)
}

func (e *APIError) Unwrap() error { return ErrAPI }
