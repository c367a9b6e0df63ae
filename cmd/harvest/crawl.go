package main

import (
	"fmt"

	"github.com/fwojciec/harvest"
)

// Run executes the crawl command.
func (c *CrawlCmd) Run(deps *Dependencies) error {
	req := harvest.MarkdownRequest{
		ExcludeSelectors: c.Exclude,
		MaxLength:        c.MaxLength,
	}

	if len(c.URLs) == 1 {
		result := deps.Service.RunMarkdownCrawl(deps.Ctx, c.URLs[0], req)
		return writeResult(deps, result)
	}

	batch, err := deps.Service.RunMarkdownCrawlBatch(deps.Ctx, c.URLs, req, c.Concurrency)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", harvest.ErrorMessage(err))
		return err
	}
	if err := saveResults(deps, batch.Results...); err != nil {
		return err
	}
	return writeJSON(deps.Stdout, batch.Results)
}
