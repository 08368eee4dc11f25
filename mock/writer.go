package mock

import (
	"context"

	"github.com/fwojciec/vogel"
)

// Compile-time interface verification.
var (
	_ vogel.SpeciesWriter  = (*SpeciesWriter)(nil)
	_ vogel.SpeciesService = (*SpeciesService)(nil)
)

// SpeciesWriter is a mock implementation of vogel.SpeciesWriter.
type SpeciesWriter struct {
	WriteSpeciesFn func(ctx context.Context, key string, s *vogel.Species) error
}

func (w *SpeciesWriter) WriteSpecies(ctx context.Context, key string, s *vogel.Species) error {
	return w.WriteSpeciesFn(ctx, key, s)
}

// SpeciesService is a mock implementation of vogel.SpeciesService.
type SpeciesService struct {
	WriteSpeciesFn      func(ctx context.Context, key string, s *vogel.Species) error
	FindSpeciesByNameFn func(ctx context.Context, name string) (*vogel.Species, error)
	FindSpeciesFn       func(ctx context.Context, filter vogel.SpeciesFilter) ([]*vogel.SpeciesEntry, error)
	DeleteSpeciesFn     func(ctx context.Context, name string) error
}

func (s *SpeciesService) WriteSpecies(ctx context.Context, key string, sp *vogel.Species) error {
	return s.WriteSpeciesFn(ctx, key, sp)
}

func (s *SpeciesService) FindSpeciesByName(ctx context.Context, name string) (*vogel.Species, error) {
	return s.FindSpeciesByNameFn(ctx, name)
}

func (s *SpeciesService) FindSpecies(ctx context.Context, filter vogel.SpeciesFilter) ([]*vogel.SpeciesEntry, error) {
	return s.FindSpeciesFn(ctx, filter)
}

func (s *SpeciesService) DeleteSpecies(ctx context.Context, name string) error {
	return s.DeleteSpeciesFn(ctx, name)
}
