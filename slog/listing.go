package slog

import (
	"log/slog"
	"time"

	"github.com/fwojciec/vogel"
)

// Ensure LoggingListingExtractor implements vogel.ListingExtractor.
var _ vogel.ListingExtractor = (*LoggingListingExtractor)(nil)

// LoggingListingExtractor wraps a ListingExtractor and logs how many species
// the listing page yielded.
type LoggingListingExtractor struct {
	next   vogel.ListingExtractor
	logger *slog.Logger
}

// NewLoggingListingExtractor creates a new LoggingListingExtractor.
func NewLoggingListingExtractor(next vogel.ListingExtractor, logger *slog.Logger) *LoggingListingExtractor {
	return &LoggingListingExtractor{next: next, logger: logger}
}

// ExtractListing delegates to the wrapped extractor.
func (e *LoggingListingExtractor) ExtractListing(html string) (listing vogel.Listing, err error) {
	defer func(begin time.Time) {
		e.logger.Info("extract listing",
			"species", len(listing),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return e.next.ExtractListing(html)
}
