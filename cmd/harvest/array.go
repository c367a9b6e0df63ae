package main

import (
	"fmt"

	"github.com/fwojciec/harvest"
)

// Run executes the array command.
func (c *ArrayCmd) Run(deps *Dependencies) error {
	specs, err := loadSelectors(c.Selectors)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", harvest.ErrorMessage(err))
		return err
	}

	req := harvest.ArrayRequest{
		Selectors:        specs,
		ExcludeSelectors: c.Exclude,
		Format:           harvest.Format(c.Format),
	}

	if len(c.URLs) == 1 {
		result := deps.Service.RunArrayExtraction(deps.Ctx, c.URLs[0], req)
		return writeResult(deps, result)
	}

	batch, err := deps.Service.RunArrayExtractionBatch(deps.Ctx, c.URLs, req, c.Concurrency)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", harvest.ErrorMessage(err))
		return err
	}
	if err := saveResults(deps, batch.Results...); err != nil {
		return err
	}
	return writeJSON(deps.Stdout, batch.Results)
}

// writeResult writes a single-URL result. Invalid requests are reported as
// command errors, every other failure is part of the output.
func writeResult(deps *Dependencies, result *harvest.CrawlResult) error {
	if result.ErrorCode == harvest.EINVALID {
		fmt.Fprintf(deps.Stderr, "error: %s\n", result.Error)
		return harvest.Errorf(harvest.EINVALID, "%s", result.Error)
	}
	if err := saveResults(deps, result); err != nil {
		return err
	}
	return writeJSON(deps.Stdout, result)
}
