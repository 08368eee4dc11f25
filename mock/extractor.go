package mock

import "github.com/fwojciec/vogel"

// Compile-time interface verification.
var (
	_ vogel.ListingExtractor = (*ListingExtractor)(nil)
	_ vogel.SpeciesExtractor = (*SpeciesExtractor)(nil)
)

// ListingExtractor is a mock implementation of vogel.ListingExtractor.
type ListingExtractor struct {
	ExtractListingFn func(html string) (vogel.Listing, error)
}

func (e *ListingExtractor) ExtractListing(html string) (vogel.Listing, error) {
	return e.ExtractListingFn(html)
}

// SpeciesExtractor is a mock implementation of vogel.SpeciesExtractor.
type SpeciesExtractor struct {
	ExtractSpeciesFn func(html string) *vogel.Species
}

func (e *SpeciesExtractor) ExtractSpecies(html string) *vogel.Species {
	return e.ExtractSpeciesFn(html)
}
