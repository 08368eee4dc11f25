package main

import (
	"fmt"

	"github.com/fwojciec/vogel/crawl"
)

// Run executes the scrape command.
func (c *ScrapeCmd) Run(deps *Dependencies) error {
	report, err := deps.Scraper.Run(deps.Ctx, deps.ListPath, progressPrinter(deps.Stdout, deps.Stderr, "pages"))
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error scraping: %v\n", err)
		return err
	}

	fmt.Fprintf(deps.Stdout, "Listed %d species\n", report.Listed)
	fmt.Fprintf(deps.Stdout, "Saved %d pages (%s, %d failed, %d skipped)\n",
		report.Download.Saved, crawl.FormatBytes(report.Download.Bytes), report.Download.Failed, report.Download.Skipped)
	fmt.Fprintf(deps.Stdout, "Parsed %d records (%d incomplete, %d failed)\n",
		report.Parse.Saved, report.Parse.Incomplete, report.Parse.Failed)
	return nil
}
