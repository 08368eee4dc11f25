package fs

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/fwojciec/vogel"
)

// Ensure FileStore implements vogel.PageStore and vogel.PageSource at
// compile time.
var (
	_ vogel.PageStore  = (*FileStore)(nil)
	_ vogel.PageSource = (*FileStore)(nil)
)

// FileStore keeps downloaded pages as <name>.html files with atomic update
// semantics. Pages are saved to a temporary directory and moved into the
// final directory on Commit, replacing files of the same name. Pages from
// earlier runs that were not downloaded again are kept.
type FileStore struct {
	baseDir string
	name    string
}

// NewFileStore creates a new FileStore.
// baseDir is the parent directory, name is the output directory name.
// Files are saved to baseDir/name.tmp and moved to baseDir/name on Commit.
func NewFileStore(baseDir, name string) *FileStore {
	return &FileStore{
		baseDir: baseDir,
		name:    name,
	}
}

func (s *FileStore) tempDir() string {
	return filepath.Join(s.baseDir, s.name+".tmp")
}

func (s *FileStore) finalDir() string {
	return filepath.Join(s.baseDir, s.name)
}

// Save writes the page HTML verbatim to the temporary directory.
func (s *FileStore) Save(ctx context.Context, page *vogel.Page) error {
	if err := validateName(page.Name); err != nil {
		return err
	}

	if err := os.MkdirAll(s.tempDir(), 0755); err != nil {
		return err
	}

	path := filepath.Join(s.tempDir(), page.Name+pageExt)
	return os.WriteFile(path, []byte(page.HTML), 0644)
}

// Commit moves every saved page into the final directory.
func (s *FileStore) Commit() error {
	entries, err := os.ReadDir(s.tempDir())
	if errors.Is(err, os.ErrNotExist) {
		return nil
	} else if err != nil {
		return err
	}

	if err := os.MkdirAll(s.finalDir(), 0755); err != nil {
		return err
	}

	for _, e := range entries {
		from := filepath.Join(s.tempDir(), e.Name())
		to := filepath.Join(s.finalDir(), e.Name())
		if err := os.Rename(from, to); err != nil {
			return err
		}
	}

	return os.RemoveAll(s.tempDir())
}

// Abort discards pages saved since the last Commit.
func (s *FileStore) Abort() error {
	return os.RemoveAll(s.tempDir())
}

// ListPages returns the names of committed pages in lexical order.
// A store that was never committed has no pages.
func (s *FileStore) ListPages(ctx context.Context) ([]string, error) {
	entries, err := os.ReadDir(s.finalDir())
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	} else if err != nil {
		return nil, err
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), pageExt) {
			continue
		}
		names = append(names, strings.TrimSuffix(e.Name(), pageExt))
	}
	return names, nil
}

// LoadPage reads a committed page. The page URL is not persisted.
func (s *FileStore) LoadPage(ctx context.Context, name string) (*vogel.Page, error) {
	if err := validateName(name); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(filepath.Join(s.finalDir(), name+pageExt))
	if errors.Is(err, os.ErrNotExist) {
		return nil, vogel.Errorf(vogel.ENOTFOUND, "page %q not found", name)
	} else if err != nil {
		return nil, err
	}

	return &vogel.Page{Name: name, HTML: string(data)}, nil
}
