package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/vogel"
)

// Ensure LoggingSpeciesWriter implements vogel.SpeciesWriter.
var _ vogel.SpeciesWriter = (*LoggingSpeciesWriter)(nil)

// LoggingSpeciesWriter wraps a SpeciesWriter with write logging.
type LoggingSpeciesWriter struct {
	next   vogel.SpeciesWriter
	logger *slog.Logger
}

// NewLoggingSpeciesWriter creates a new LoggingSpeciesWriter.
func NewLoggingSpeciesWriter(next vogel.SpeciesWriter, logger *slog.Logger) *LoggingSpeciesWriter {
	return &LoggingSpeciesWriter{next: next, logger: logger}
}

// WriteSpecies logs the stored record and delegates to the wrapped writer.
func (w *LoggingSpeciesWriter) WriteSpecies(ctx context.Context, key string, s *vogel.Species) (err error) {
	defer func(begin time.Time) {
		w.logger.Debug("write species",
			"key", key,
			"german_name", s.GermanName,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return w.next.WriteSpecies(ctx, key, s)
}
