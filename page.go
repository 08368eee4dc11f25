package vogel

import "context"

// Page is a downloaded species portrait page.
type Page struct {
	// Name is the file-safe species key, see FileName.
	Name string
	URL  string
	HTML string
}

// PageStore persists pages with atomic semantics.
// Save writes to a temporary location; Commit makes changes permanent;
// Abort discards pending changes.
type PageStore interface {
	Save(ctx context.Context, page *Page) error
	Commit() error
	Abort() error
}

// PageSource reads back committed pages.
type PageSource interface {
	// ListPages returns the names of all stored pages, sorted.
	ListPages(ctx context.Context) ([]string, error)

	// LoadPage returns a stored page.
	// Returns ENOTFOUND if the page does not exist.
	LoadPage(ctx context.Context, name string) (*Page, error)
}
