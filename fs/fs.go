// Package fs provides file-based storage for listings, downloaded pages and
// species records.
package fs

import (
	"strings"

	"github.com/fwojciec/vogel"
)

// Default file and directory names inside the data directory.
const (
	ListingFile = "species_urls.json"
	PagesDir    = "species_data"
	RecordsDir  = "species_data_json"
)

const (
	pageExt   = ".html"
	recordExt = ".json"
)

// validateName rejects keys that would escape the target directory.
func validateName(name string) error {
	if name == "" {
		return vogel.Errorf(vogel.EINVALID, "file name required")
	}
	if name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
		return vogel.Errorf(vogel.EINVALID, "invalid file name %q: path traversal", name)
	}
	return nil
}
