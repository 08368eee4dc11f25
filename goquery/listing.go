package goquery

import (
	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/vogel"
)

// Ensure ListingExtractor implements vogel.ListingExtractor at compile time.
var _ vogel.ListingExtractor = (*ListingExtractor)(nil)

// DefaultResultSelector matches one species result unit on the listing page.
const DefaultResultSelector = "div.bird-result"

// ListingExtractor reads species links from the portrait listing page.
type ListingExtractor struct {
	selector string
}

// ListingOption configures a ListingExtractor.
type ListingOption func(*ListingExtractor)

// WithResultSelector overrides the CSS selector for result units.
// Defaults to DefaultResultSelector.
func WithResultSelector(selector string) ListingOption {
	return func(e *ListingExtractor) {
		e.selector = selector
	}
}

// NewListingExtractor creates a new ListingExtractor.
func NewListingExtractor(opts ...ListingOption) *ListingExtractor {
	e := &ListingExtractor{selector: DefaultResultSelector}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// ExtractListing returns the title and href of the first link in every
// result unit, in document order. Units without a link, href or title are
// skipped; duplicate titles keep the last href.
func (e *ListingExtractor) ExtractListing(html string) (vogel.Listing, error) {
	doc, err := newDocument(html)
	if err != nil {
		return nil, vogel.Errorf(vogel.EINVALID, "failed to parse HTML: %v", err)
	}

	listing := make(vogel.Listing)
	doc.Find(e.selector).Each(func(_ int, unit *goquery.Selection) {
		link := unit.Find("a").First()
		if link.Length() == 0 {
			return
		}

		href, ok := link.Attr("href")
		if !ok || href == "" {
			return
		}
		title, ok := link.Attr("title")
		if !ok || title == "" {
			return
		}

		listing[title] = href
	})

	return listing, nil
}
