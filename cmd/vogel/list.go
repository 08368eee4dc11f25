package main

import (
	"fmt"

	"github.com/fwojciec/vogel"
	"github.com/fwojciec/vogel/fs"
)

// Run executes the list command.
func (c *ListCmd) Run(deps *Dependencies) error {
	listing, err := deps.Scraper.DiscoverListing(deps.Ctx, deps.ListPath)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", vogel.ErrorMessage(err))
		return err
	}

	path := deps.dataPath(c.Out)
	if err := fs.WriteListing(path, listing); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %v\n", err)
		return err
	}

	fmt.Fprintf(deps.Stdout, "Found %d species, saved to %s\n", len(listing), path)
	return nil
}
