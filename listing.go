package vogel

import (
	"sort"
	"strings"
)

// Listing maps species display names to relative portrait page paths,
// e.g. "Zaunammer" -> "/tiere-und-pflanzen/voegel/portraets/zaunammer/".
type Listing map[string]string

// ListingEntry is a single species link from a listing page.
type ListingEntry struct {
	Name string
	Path string
}

// Entries returns the listing sorted by name.
func (l Listing) Entries() []ListingEntry {
	entries := make([]ListingEntry, 0, len(l))
	for name, path := range l {
		entries = append(entries, ListingEntry{Name: name, Path: path})
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Name < entries[j].Name
	})
	return entries
}

// ListingExtractor turns a listing page into species links.
type ListingExtractor interface {
	// ExtractListing returns every species link on the page. Result units
	// without a link, href or title are skipped; when two units share a
	// title the later one wins.
	ExtractListing(html string) (Listing, error)
}

// FileName converts a display name to a key that is safe to use as a file
// name: spaces become underscores and anything from the first path
// separator on is dropped.
//
//	FileName("Weißstorch")                   → "Weißstorch"
//	FileName("Raubwürger / Nördlicher Raub") → "Raubwürger_"
func FileName(name string) string {
	name = strings.ReplaceAll(name, " ", "_")
	if i := strings.IndexAny(name, `/\`); i >= 0 {
		name = name[:i]
	}
	return name
}
