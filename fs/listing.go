package fs

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fwojciec/vogel"
)

// WriteListing saves a listing as a JSON object of name to path.
func WriteListing(path string, listing vogel.Listing) error {
	if listing == nil {
		listing = vogel.Listing{}
	}

	data, err := json.MarshalIndent(listing, "", "    ")
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0644)
}

// ReadListing loads a listing written by WriteListing.
// Returns ENOTFOUND if the file does not exist and EINVALID if it is not a
// JSON object of strings.
func ReadListing(path string) (vogel.Listing, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, vogel.Errorf(vogel.ENOTFOUND, "listing file %s not found", path)
	} else if err != nil {
		return nil, fmt.Errorf("read listing: %w", err)
	}

	var listing vogel.Listing
	if err := json.Unmarshal(data, &listing); err != nil {
		return nil, vogel.Errorf(vogel.EINVALID, "invalid listing file %s: %v", path, err)
	}
	if listing == nil {
		listing = vogel.Listing{}
	}
	return listing, nil
}
