package main

import (
	"fmt"

	"github.com/fwojciec/harvest"
)

// Run executes the select command.
func (c *SelectCmd) Run(deps *Dependencies) error {
	req := harvest.SelectiveRequest{
		Selectors:        c.Selector,
		ExcludeSelectors: c.Exclude,
		MaxLength:        c.MaxLength,
		ReturnSections:   c.Sections,
		ContentOnly:      c.ContentOnly,
	}

	if len(c.URLs) == 1 {
		result := deps.Service.RunSelectiveExtraction(deps.Ctx, c.URLs[0], req)
		return writeResult(deps, result)
	}

	batch, err := deps.Service.RunSelectiveExtractionBatch(deps.Ctx, c.URLs, req, c.Concurrency)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", harvest.ErrorMessage(err))
		return err
	}
	if err := saveResults(deps, batch.Results...); err != nil {
		return err
	}
	return writeJSON(deps.Stdout, batch.Results)
}
