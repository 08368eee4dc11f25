// Package crawl orchestrates scraping of the species portraits: listing
// discovery, detail page download and record extraction.
package crawl

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"github.com/fwojciec/vogel"
	"github.com/fwojciec/vogel/bloom"
)

// Scraper processes species portraits one page at a time.
type Scraper struct {
	Fetcher   vogel.Fetcher
	Listings  vogel.ListingExtractor
	Extractor vogel.SpeciesExtractor

	// Pages receives downloaded detail pages; Source reads them back.
	Pages  vogel.PageStore
	Source vogel.PageSource

	// Writers receive every parsed record, in order.
	Writers []vogel.SpeciesWriter

	// Limiter throttles requests per host. Optional.
	Limiter vogel.DomainLimiter

	// BaseURL is the site root that listing paths are resolved against.
	BaseURL string

	// RetryDelays configures fetch retries. Nil selects DefaultRetryDelays.
	RetryDelays []time.Duration

	Logger *slog.Logger
}

// Result holds the outcome of a download or parse pass.
type Result struct {
	Saved   int
	Failed  int
	Skipped int
	Bytes   int

	// Incomplete counts parsed records with at least one missing field.
	Incomplete int
}

// Report holds the outcome of a full scrape.
type Report struct {
	Listed   int
	Download *Result
	Parse    *Result
}

// ProgressEvent reports progress during a download or parse pass.
type ProgressEvent struct {
	Type      ProgressType
	Completed int
	Total     int
	Name      string
	Error     error
}

// ProgressType indicates the type of progress event.
type ProgressType int

const (
	ProgressStarted ProgressType = iota
	ProgressCompleted
	ProgressFailed
	ProgressSkipped
	ProgressFinished
)

// ProgressFunc is a callback for reporting scrape progress.
type ProgressFunc func(event ProgressEvent)

func (s *Scraper) logger() *slog.Logger {
	if s.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return s.Logger
}

func (s *Scraper) retryDelays() []time.Duration {
	if s.RetryDelays == nil {
		return DefaultRetryDelays()
	}
	return s.RetryDelays
}

// ResolveURL joins a listing path onto BaseURL. Absolute links are
// returned unchanged.
func (s *Scraper) ResolveURL(path string) (string, error) {
	base, err := url.Parse(s.BaseURL)
	if err != nil {
		return "", vogel.Errorf(vogel.EINVALID, "invalid base url %q: %v", s.BaseURL, err)
	}
	ref, err := url.Parse(path)
	if err != nil {
		return "", vogel.Errorf(vogel.EINVALID, "invalid path %q: %v", path, err)
	}
	return base.ResolveReference(ref).String(), nil
}

// fetch waits on the limiter and fetches u with retries.
func (s *Scraper) fetch(ctx context.Context, u string) (string, error) {
	if s.Limiter != nil {
		parsed, err := url.Parse(u)
		if err != nil {
			return "", err
		}
		if err := s.Limiter.Wait(ctx, parsed.Host); err != nil {
			return "", err
		}
	}
	return FetchWithRetryDelays(ctx, u, s.Fetcher.Fetch, s.logger(), s.retryDelays())
}

// DiscoverListing fetches the listing page at listPath and returns the
// species it links to.
func (s *Scraper) DiscoverListing(ctx context.Context, listPath string) (vogel.Listing, error) {
	u, err := s.ResolveURL(listPath)
	if err != nil {
		return nil, err
	}

	html, err := s.fetch(ctx, u)
	if err != nil {
		return nil, fmt.Errorf("fetch listing: %w", err)
	}

	listing, err := s.Listings.ExtractListing(html)
	if err != nil {
		return nil, fmt.Errorf("extract listing: %w", err)
	}
	if len(listing) == 0 {
		s.logger().Warn("listing page contains no species", "url", u)
	}
	return listing, nil
}

// Download fetches the detail page of every listing entry, sorted by name,
// and saves it under FileName(name). A page that cannot be fetched or saved
// is counted as failed and does not stop the run; paths already downloaded
// in this run are skipped. The page store is committed when at least one
// page was saved and aborted otherwise.
func (s *Scraper) Download(ctx context.Context, listing vogel.Listing, progress ProgressFunc) (*Result, error) {
	entries := listing.Entries()
	total := len(entries)
	notify := func(e ProgressEvent) {
		if progress != nil {
			e.Total = total
			progress(e)
		}
	}

	capacity := uint(max(total, bloom.DefaultCapacity))
	seen := bloom.NewFilter(capacity, bloom.DefaultFalsePositiveRate)

	result := &Result{}
	notify(ProgressEvent{Type: ProgressStarted})

	for i, entry := range entries {
		if err := ctx.Err(); err != nil {
			_ = s.Pages.Abort()
			return nil, err
		}

		name := vogel.FileName(entry.Name)
		if seen.Seen(entry.Path) {
			result.Skipped++
			s.logger().Debug("skip duplicate path", "species", entry.Name, "path", entry.Path)
			notify(ProgressEvent{Type: ProgressSkipped, Completed: i + 1, Name: name})
			continue
		}

		err := s.download(ctx, name, entry.Path, result)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				_ = s.Pages.Abort()
				return nil, ctxErr
			}
			result.Failed++
			s.logger().Warn("download failed", "species", entry.Name, "err", err)
			notify(ProgressEvent{Type: ProgressFailed, Completed: i + 1, Name: name, Error: err})
			continue
		}

		notify(ProgressEvent{Type: ProgressCompleted, Completed: i + 1, Name: name})
	}

	if result.Saved == 0 {
		if err := s.Pages.Abort(); err != nil {
			return nil, fmt.Errorf("abort page store: %w", err)
		}
	} else if err := s.Pages.Commit(); err != nil {
		return nil, fmt.Errorf("commit page store: %w", err)
	}

	s.logger().Debug("download finished",
		"saved", result.Saved,
		"failed", result.Failed,
		"skipped", result.Skipped,
		"unique_paths", seen.EstimatedCount(),
	)
	notify(ProgressEvent{Type: ProgressFinished, Completed: total})
	return result, nil
}

func (s *Scraper) download(ctx context.Context, name, path string, result *Result) error {
	u, err := s.ResolveURL(path)
	if err != nil {
		return err
	}

	html, err := s.fetch(ctx, u)
	if err != nil {
		return err
	}

	if err := s.Pages.Save(ctx, &vogel.Page{Name: name, URL: u, HTML: html}); err != nil {
		return fmt.Errorf("save page: %w", err)
	}

	result.Saved++
	result.Bytes += len(html)
	return nil
}

// Parse extracts a record from every stored page and hands it to each
// writer. A page that cannot be loaded is counted as failed; a writer error
// stops the run.
func (s *Scraper) Parse(ctx context.Context, progress ProgressFunc) (*Result, error) {
	names, err := s.Source.ListPages(ctx)
	if err != nil {
		return nil, fmt.Errorf("list pages: %w", err)
	}

	total := len(names)
	notify := func(e ProgressEvent) {
		if progress != nil {
			e.Total = total
			progress(e)
		}
	}

	result := &Result{}
	notify(ProgressEvent{Type: ProgressStarted})

	for i, name := range names {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		page, err := s.Source.LoadPage(ctx, name)
		if err != nil {
			result.Failed++
			s.logger().Warn("load page failed", "page", name, "err", err)
			notify(ProgressEvent{Type: ProgressFailed, Completed: i + 1, Name: name, Error: err})
			continue
		}

		species := s.Extractor.ExtractSpecies(page.HTML)
		if len(species.MissingFields()) > 0 {
			result.Incomplete++
		}

		for _, w := range s.Writers {
			if err := w.WriteSpecies(ctx, page.Name, species); err != nil {
				return nil, fmt.Errorf("write species %s: %w", page.Name, err)
			}
		}

		result.Saved++
		result.Bytes += len(page.HTML)
		notify(ProgressEvent{Type: ProgressCompleted, Completed: i + 1, Name: name})
	}

	notify(ProgressEvent{Type: ProgressFinished, Completed: total})
	return result, nil
}

// Run discovers the listing at listPath, downloads every detail page and
// parses the stored pages.
func (s *Scraper) Run(ctx context.Context, listPath string, progress ProgressFunc) (*Report, error) {
	listing, err := s.DiscoverListing(ctx, listPath)
	if err != nil {
		return nil, err
	}

	download, err := s.Download(ctx, listing, progress)
	if err != nil {
		return nil, err
	}

	parse, err := s.Parse(ctx, progress)
	if err != nil {
		return nil, err
	}

	return &Report{Listed: len(listing), Download: download, Parse: parse}, nil
}
