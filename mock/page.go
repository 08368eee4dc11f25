package mock

import (
	"context"

	"github.com/fwojciec/vogel"
)

// Compile-time interface verification.
var (
	_ vogel.PageStore  = (*PageStore)(nil)
	_ vogel.PageSource = (*PageSource)(nil)
)

// PageStore is a mock implementation of vogel.PageStore.
type PageStore struct {
	SaveFn   func(ctx context.Context, page *vogel.Page) error
	CommitFn func() error
	AbortFn  func() error
}

func (s *PageStore) Save(ctx context.Context, page *vogel.Page) error {
	return s.SaveFn(ctx, page)
}

func (s *PageStore) Commit() error {
	return s.CommitFn()
}

func (s *PageStore) Abort() error {
	return s.AbortFn()
}

// PageSource is a mock implementation of vogel.PageSource.
type PageSource struct {
	ListPagesFn func(ctx context.Context) ([]string, error)
	LoadPageFn  func(ctx context.Context, name string) (*vogel.Page, error)
}

func (s *PageSource) ListPages(ctx context.Context) ([]string, error) {
	return s.ListPagesFn(ctx)
}

func (s *PageSource) LoadPage(ctx context.Context, name string) (*vogel.Page, error) {
	return s.LoadPageFn(ctx, name)
}
