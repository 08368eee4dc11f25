package main

import (
	"fmt"
	"io"

	"github.com/fwojciec/vogel"
	"github.com/fwojciec/vogel/crawl"
	"github.com/fwojciec/vogel/fs"
)

// Run executes the download command.
func (c *DownloadCmd) Run(deps *Dependencies) error {
	path := deps.dataPath(c.Listing)
	listing, err := fs.ReadListing(path)
	if err != nil {
		if vogel.ErrorCode(err) == vogel.ENOTFOUND {
			fmt.Fprintf(deps.Stderr, "error: %s. Run 'vogel list' first.\n", vogel.ErrorMessage(err))
		} else {
			fmt.Fprintf(deps.Stderr, "error: %s\n", vogel.ErrorMessage(err))
		}
		return err
	}

	result, err := deps.Scraper.Download(deps.Ctx, listing, progressPrinter(deps.Stdout, deps.Stderr, "pages"))
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error downloading: %v\n", err)
		return err
	}

	fmt.Fprintf(deps.Stdout, "Saved %d pages (%s, %d failed, %d skipped)\n",
		result.Saved, crawl.FormatBytes(result.Bytes), result.Failed, result.Skipped)
	return nil
}

// progressPrinter reports the start and failures of a pass.
func progressPrinter(stdout, stderr io.Writer, noun string) crawl.ProgressFunc {
	return func(event crawl.ProgressEvent) {
		switch event.Type {
		case crawl.ProgressStarted:
			fmt.Fprintf(stdout, "Processing %d %s\n", event.Total, noun)
		case crawl.ProgressFailed:
			fmt.Fprintf(stderr, "  skip %s: %v\n", event.Name, event.Error)
		}
	}
}
