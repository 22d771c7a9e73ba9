package wiki

import "context"

// PageStore is the wiki backend the service writes through. Titles are full
// page titles including any namespace prefix.
type PageStore interface {
	// Exists reports whether a page exists.
	Exists(ctx context.Context, title string) (bool, error)
	// Read returns the current wikitext of a page.
	Read(ctx context.Context, title string) (string, error)
	// Write replaces the page content, creating the page when needed.
	Write(ctx context.Context, title, text, summary string) error
}
