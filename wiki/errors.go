package wiki

import (
	"errors"
	"fmt"
)

var ErrPageMissing = errors.New("wiki: required page is missing")
var ErrUnknownColumn = errors.New("wiki: project column is not configured")
var ErrFulfillmentMissing = errors.New("wiki: goal has no fulfillment text")
var ErrProgramUnknown = errors.New("wiki: program is not present in the operational plan")
var ErrColoursExhausted = errors.New("wiki: not enough colours configured for the programs")

// PageMissingError reports a page that must exist before another page can be
// created from it.
type PageMissingError struct {
	Title string
}

func (e *PageMissingError) Error() string {
	return fmt.Sprintf("page '%s' doesn't exist and is required to create this page", e.Title)
}

func (e *PageMissingError) Unwrap() error { return ErrPageMissing }
