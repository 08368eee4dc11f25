package main

import "fmt"

// Run executes the parse command.
func (c *ParseCmd) Run(deps *Dependencies) error {
	result, err := deps.Scraper.Parse(deps.Ctx, progressPrinter(deps.Stdout, deps.Stderr, "pages"))
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error parsing: %v\n", err)
		return err
	}

	fmt.Fprintf(deps.Stdout, "Parsed %d records (%d incomplete, %d failed)\n",
		result.Saved, result.Incomplete, result.Failed)
	return nil
}
