package plan

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrNoTable      = errors.New("plan: no table found in page text")
	ErrMalformedRow = errors.New("plan: malformed table row")
)

// MalformedRowError reports a table row whose structure or embedded
// annotations do not match the operational plan format. The raw row text is
// carried so the offending wikitext can be located and fixed; the extractor
// deliberately fails instead of guessing program or strategy boundaries.
type MalformedRowError struct {
	Row    string
	Reason string
}

func (e *MalformedRowError) Error() string {
	row := strings.TrimSpace(e.Row)
	if len(row) > 120 {
		row = row[:120] + "..."
	}
	return fmt.Sprintf("%s: %s: %q", ErrMalformedRow.Error(), e.Reason, row)
}

func (e *MalformedRowError) Unwrap() error {
	return ErrMalformedRow
}
