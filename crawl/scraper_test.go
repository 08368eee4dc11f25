package crawl_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/fwojciec/vogel"
	"github.com/fwojciec/vogel/crawl"
	"github.com/fwojciec/vogel/goquery"
	"github.com/fwojciec/vogel/mock"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const baseURL = "https://www.nabu.de"

// memoryPages is an in-memory page store and source with commit tracking.
type memoryPages struct {
	mu        sync.Mutex
	pending   map[string]*vogel.Page
	committed map[string]*vogel.Page
	commits   int
	aborts    int
}

func newMemoryPages() *memoryPages {
	return &memoryPages{
		pending:   make(map[string]*vogel.Page),
		committed: make(map[string]*vogel.Page),
	}
}

func (m *memoryPages) store() *mock.PageStore {
	return &mock.PageStore{
		SaveFn: func(_ context.Context, page *vogel.Page) error {
			m.mu.Lock()
			defer m.mu.Unlock()
			m.pending[page.Name] = page
			return nil
		},
		CommitFn: func() error {
			m.mu.Lock()
			defer m.mu.Unlock()
			for name, page := range m.pending {
				m.committed[name] = page
			}
			m.pending = make(map[string]*vogel.Page)
			m.commits++
			return nil
		},
		AbortFn: func() error {
			m.mu.Lock()
			defer m.mu.Unlock()
			m.pending = make(map[string]*vogel.Page)
			m.aborts++
			return nil
		},
	}
}

func (m *memoryPages) source() *mock.PageSource {
	return &mock.PageSource{
		ListPagesFn: func(_ context.Context) ([]string, error) {
			m.mu.Lock()
			defer m.mu.Unlock()
			names := make([]string, 0, len(m.committed))
			for name := range m.committed {
				names = append(names, name)
			}
			sort.Strings(names)
			return names, nil
		},
		LoadPageFn: func(_ context.Context, name string) (*vogel.Page, error) {
			m.mu.Lock()
			defer m.mu.Unlock()
			page, ok := m.committed[name]
			if !ok {
				return nil, vogel.Errorf(vogel.ENOTFOUND, "page %q not found", name)
			}
			return page, nil
		},
	}
}

// siteFetcher serves fixed pages keyed by absolute URL.
func siteFetcher(pages map[string]string) *mock.Fetcher {
	return &mock.Fetcher{
		FetchFn: func(_ context.Context, url string) (string, error) {
			html, ok := pages[url]
			if !ok {
				return "", vogel.Errorf(vogel.ENOTFOUND, "page not found: %s", url)
			}
			return html, nil
		},
		CloseFn: func() error { return nil },
	}
}

// recordingWriter collects written records by key.
type recordingWriter struct {
	mu      sync.Mutex
	records map[string]*vogel.Species
	keys    []string
}

func (w *recordingWriter) WriteSpecies(_ context.Context, key string, s *vogel.Species) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.records == nil {
		w.records = make(map[string]*vogel.Species)
	}
	w.records[key] = s
	w.keys = append(w.keys, key)
	return nil
}

func newScraper(fetcher vogel.Fetcher, pages *memoryPages) *crawl.Scraper {
	return &crawl.Scraper{
		Fetcher:     fetcher,
		Listings:    goquery.NewListingExtractor(),
		Extractor:   goquery.NewSpeciesExtractor(nil),
		Pages:       pages.store(),
		Source:      pages.source(),
		BaseURL:     baseURL,
		RetryDelays: []time.Duration{time.Millisecond},
	}
}

const listingHTML = `<html><body>
<div class="bird-result"><a href="/tiere-und-pflanzen/voegel/portraets/zaunammer/" title="Zaunammer">Zaunammer</a></div>
<div class="bird-result"><a href="/tiere-und-pflanzen/voegel/portraets/amsel/" title="Amsel">Amsel</a></div>
</body></html>`

func detailHTML(name, latin string) string {
	return `<html><body><h1>` + name + `</h1><h2>Art <em>` + latin + `</em></h2></body></html>`
}

func TestScraper_ResolveURL(t *testing.T) {
	t.Parallel()

	s := &crawl.Scraper{BaseURL: baseURL}

	t.Run("joins site path onto base url", func(t *testing.T) {
		t.Parallel()

		u, err := s.ResolveURL("/tiere-und-pflanzen/voegel/portraets/amsel/")
		require.NoError(t, err)
		assert.Equal(t, "https://www.nabu.de/tiere-und-pflanzen/voegel/portraets/amsel/", u)
	})

	t.Run("keeps absolute links", func(t *testing.T) {
		t.Parallel()

		u, err := s.ResolveURL("https://vogel.example.org/star/")
		require.NoError(t, err)
		assert.Equal(t, "https://vogel.example.org/star/", u)
	})

	t.Run("rejects invalid base url", func(t *testing.T) {
		t.Parallel()

		bad := &crawl.Scraper{BaseURL: "://nabu"}
		_, err := bad.ResolveURL("/amsel/")
		assert.Equal(t, vogel.EINVALID, vogel.ErrorCode(err))
	})
}

func TestScraper_DiscoverListing(t *testing.T) {
	t.Parallel()

	t.Run("fetches and extracts the listing page", func(t *testing.T) {
		t.Parallel()

		fetcher := siteFetcher(map[string]string{
			baseURL + "/tiere-und-pflanzen/voegel/portraets/": listingHTML,
		})
		s := newScraper(fetcher, newMemoryPages())

		listing, err := s.DiscoverListing(context.Background(), "/tiere-und-pflanzen/voegel/portraets/")

		require.NoError(t, err)
		assert.Equal(t, vogel.Listing{
			"Zaunammer": "/tiere-und-pflanzen/voegel/portraets/zaunammer/",
			"Amsel":     "/tiere-und-pflanzen/voegel/portraets/amsel/",
		}, listing)
	})

	t.Run("returns fetch error", func(t *testing.T) {
		t.Parallel()

		s := newScraper(siteFetcher(nil), newMemoryPages())

		_, err := s.DiscoverListing(context.Background(), "/missing/")

		require.Error(t, err)
		assert.Equal(t, vogel.ENOTFOUND, vogel.ErrorCode(err))
	})

	t.Run("warns about empty listing", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		fetcher := siteFetcher(map[string]string{baseURL + "/leer/": "<html></html>"})
		s := newScraper(fetcher, newMemoryPages())
		s.Logger = slog.New(slog.NewTextHandler(&buf, nil))

		listing, err := s.DiscoverListing(context.Background(), "/leer/")

		require.NoError(t, err)
		assert.Empty(t, listing)
		assert.Contains(t, buf.String(), "listing page contains no species")
	})
}

func TestScraper_Download(t *testing.T) {
	t.Parallel()

	t.Run("saves every detail page under its file name", func(t *testing.T) {
		t.Parallel()

		pages := newMemoryPages()
		fetcher := siteFetcher(map[string]string{
			baseURL + "/portraets/amsel/":       detailHTML("Amsel", "Turdus merula"),
			baseURL + "/portraets/rotkehlchen/": detailHTML("Rotkehlchen", "Erithacus rubecula"),
		})
		s := newScraper(fetcher, pages)

		result, err := s.Download(context.Background(), vogel.Listing{
			"Amsel":                  "/portraets/amsel/",
			"Rotkehlchen / Rotbrust": "/portraets/rotkehlchen/",
		}, nil)

		require.NoError(t, err)
		assert.Equal(t, 2, result.Saved)
		assert.Equal(t, 0, result.Failed)
		assert.Equal(t, 1, pages.commits)
		require.Contains(t, pages.committed, "Amsel")
		require.Contains(t, pages.committed, "Rotkehlchen_")
		assert.Equal(t, baseURL+"/portraets/amsel/", pages.committed["Amsel"].URL)
	})

	t.Run("counts failed pages and continues", func(t *testing.T) {
		t.Parallel()

		pages := newMemoryPages()
		fetcher := siteFetcher(map[string]string{
			baseURL + "/portraets/star/": detailHTML("Star", "Sturnus vulgaris"),
		})
		s := newScraper(fetcher, pages)

		var events []crawl.ProgressEvent
		result, err := s.Download(context.Background(), vogel.Listing{
			"Kiebitz": "/portraets/kiebitz/",
			"Star":    "/portraets/star/",
		}, func(e crawl.ProgressEvent) {
			events = append(events, e)
		})

		require.NoError(t, err)
		assert.Equal(t, 1, result.Saved)
		assert.Equal(t, 1, result.Failed)
		assert.Contains(t, pages.committed, "Star")

		require.Len(t, events, 4)
		assert.Equal(t, crawl.ProgressStarted, events[0].Type)
		assert.Equal(t, crawl.ProgressFailed, events[1].Type)
		assert.Equal(t, "Kiebitz", events[1].Name)
		assert.Equal(t, vogel.ENOTFOUND, vogel.ErrorCode(events[1].Error))
		assert.Equal(t, crawl.ProgressCompleted, events[2].Type)
		assert.Equal(t, crawl.ProgressFinished, events[3].Type)
		assert.Equal(t, 2, events[3].Total)
	})

	t.Run("skips duplicate paths", func(t *testing.T) {
		t.Parallel()

		pages := newMemoryPages()
		calls := 0
		fetcher := &mock.Fetcher{
			FetchFn: func(_ context.Context, url string) (string, error) {
				calls++
				return detailHTML("Elster", "Pica pica"), nil
			},
		}
		s := newScraper(fetcher, pages)

		result, err := s.Download(context.Background(), vogel.Listing{
			"Elster":        "/portraets/elster/",
			"Elster (Pica)": "/portraets/elster/",
		}, nil)

		require.NoError(t, err)
		assert.Equal(t, 1, result.Saved)
		assert.Equal(t, 1, result.Skipped)
		assert.Equal(t, 1, calls)
	})

	t.Run("aborts the store when nothing was saved", func(t *testing.T) {
		t.Parallel()

		pages := newMemoryPages()
		s := newScraper(siteFetcher(nil), pages)

		result, err := s.Download(context.Background(), vogel.Listing{"Amsel": "/portraets/amsel/"}, nil)

		require.NoError(t, err)
		assert.Equal(t, 1, result.Failed)
		assert.Equal(t, 0, pages.commits)
		assert.Equal(t, 1, pages.aborts)
	})

	t.Run("retries transient fetch errors", func(t *testing.T) {
		t.Parallel()

		pages := newMemoryPages()
		calls := 0
		fetcher := &mock.Fetcher{
			FetchFn: func(_ context.Context, url string) (string, error) {
				calls++
				if calls == 1 {
					return "", errors.New("HTTP 502")
				}
				return detailHTML("Amsel", "Turdus merula"), nil
			},
		}
		s := newScraper(fetcher, pages)

		result, err := s.Download(context.Background(), vogel.Listing{"Amsel": "/portraets/amsel/"}, nil)

		require.NoError(t, err)
		assert.Equal(t, 1, result.Saved)
		assert.Equal(t, 2, calls)
	})

	t.Run("waits on limiter per host", func(t *testing.T) {
		t.Parallel()

		var hosts []string
		s := newScraper(siteFetcher(map[string]string{
			baseURL + "/portraets/amsel/": detailHTML("Amsel", "Turdus merula"),
		}), newMemoryPages())
		s.Limiter = limiterFunc(func(_ context.Context, domain string) error {
			hosts = append(hosts, domain)
			return nil
		})

		_, err := s.Download(context.Background(), vogel.Listing{"Amsel": "/portraets/amsel/"}, nil)

		require.NoError(t, err)
		assert.Equal(t, []string{"www.nabu.de"}, hosts)
	})

	t.Run("stops and aborts on cancellation", func(t *testing.T) {
		t.Parallel()

		pages := newMemoryPages()
		ctx, cancel := context.WithCancel(context.Background())
		fetcher := &mock.Fetcher{
			FetchFn: func(_ context.Context, url string) (string, error) {
				cancel()
				return detailHTML("Amsel", "Turdus merula"), nil
			},
		}
		s := newScraper(fetcher, pages)

		_, err := s.Download(ctx, vogel.Listing{
			"Amsel": "/portraets/amsel/",
			"Star":  "/portraets/star/",
		}, nil)

		assert.ErrorIs(t, err, context.Canceled)
		assert.Equal(t, 0, pages.commits)
		assert.Equal(t, 1, pages.aborts)
		assert.Empty(t, pages.committed)
	})
}

type limiterFunc func(ctx context.Context, domain string) error

func (f limiterFunc) Wait(ctx context.Context, domain string) error { return f(ctx, domain) }

func TestScraper_Parse(t *testing.T) {
	t.Parallel()

	t.Run("writes a record for every stored page", func(t *testing.T) {
		t.Parallel()

		pages := newMemoryPages()
		pages.committed["Amsel"] = &vogel.Page{Name: "Amsel", HTML: detailHTML("Amsel", "Turdus merula")}
		pages.committed["Star"] = &vogel.Page{Name: "Star", HTML: detailHTML("Star", "Sturnus vulgaris")}
		first, second := &recordingWriter{}, &recordingWriter{}
		s := newScraper(siteFetcher(nil), pages)
		s.Writers = []vogel.SpeciesWriter{first, second}

		result, err := s.Parse(context.Background(), nil)

		require.NoError(t, err)
		assert.Equal(t, 2, result.Saved)
		assert.Equal(t, 2, result.Incomplete)
		assert.Equal(t, []string{"Amsel", "Star"}, first.keys)
		assert.Equal(t, first.keys, second.keys)

		want := vogel.DegradedSpecies()
		want.GermanName = "Amsel"
		want.LatinName = "Turdus merula"
		if diff := cmp.Diff(want, first.records["Amsel"]); diff != "" {
			t.Errorf("record mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("stops on writer error", func(t *testing.T) {
		t.Parallel()

		pages := newMemoryPages()
		pages.committed["Amsel"] = &vogel.Page{Name: "Amsel", HTML: detailHTML("Amsel", "Turdus merula")}
		s := newScraper(siteFetcher(nil), pages)
		s.Writers = []vogel.SpeciesWriter{&mock.SpeciesWriter{
			WriteSpeciesFn: func(context.Context, string, *vogel.Species) error {
				return errors.New("disk full")
			},
		}}

		_, err := s.Parse(context.Background(), nil)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "disk full")
		assert.Contains(t, err.Error(), "Amsel")
	})

	t.Run("counts pages that cannot be loaded", func(t *testing.T) {
		t.Parallel()

		s := newScraper(siteFetcher(nil), newMemoryPages())
		s.Source = &mock.PageSource{
			ListPagesFn: func(context.Context) ([]string, error) {
				return []string{"Amsel"}, nil
			},
			LoadPageFn: func(context.Context, string) (*vogel.Page, error) {
				return nil, errors.New("permission denied")
			},
		}

		result, err := s.Parse(context.Background(), nil)

		require.NoError(t, err)
		assert.Equal(t, 1, result.Failed)
		assert.Equal(t, 0, result.Saved)
	})

	t.Run("uses extractor output unchanged", func(t *testing.T) {
		t.Parallel()

		pages := newMemoryPages()
		pages.committed["kaputt"] = &vogel.Page{Name: "kaputt", HTML: "<<<"}
		writer := &recordingWriter{}
		s := newScraper(siteFetcher(nil), pages)
		s.Extractor = &mock.SpeciesExtractor{
			ExtractSpeciesFn: func(string) *vogel.Species { return vogel.DegradedSpecies() },
		}
		s.Writers = []vogel.SpeciesWriter{writer}

		_, err := s.Parse(context.Background(), nil)

		require.NoError(t, err)
		assert.Equal(t, vogel.DegradedSpecies(), writer.records["kaputt"])
	})
}

func TestScraper_Run(t *testing.T) {
	t.Parallel()

	fetcher := siteFetcher(map[string]string{
		baseURL + "/tiere-und-pflanzen/voegel/portraets/":           listingHTML,
		baseURL + "/tiere-und-pflanzen/voegel/portraets/zaunammer/": detailHTML("Zaunammer", "Emberiza cirlus"),
		baseURL + "/tiere-und-pflanzen/voegel/portraets/amsel/":     detailHTML("Amsel", "Turdus merula"),
	})
	writer := &recordingWriter{}
	s := newScraper(fetcher, newMemoryPages())
	s.Writers = []vogel.SpeciesWriter{writer}

	report, err := s.Run(context.Background(), "/tiere-und-pflanzen/voegel/portraets/", nil)

	require.NoError(t, err)
	assert.Equal(t, 2, report.Listed)
	assert.Equal(t, 2, report.Download.Saved)
	assert.Equal(t, 2, report.Parse.Saved)
	assert.Equal(t, "Emberiza cirlus", writer.records["Zaunammer"].LatinName)
}
