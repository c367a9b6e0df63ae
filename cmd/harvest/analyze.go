package main

import "github.com/fwojciec/harvest"

// Run executes the analyze command. Analyses are never written to --output.
func (c *AnalyzeCmd) Run(deps *Dependencies) error {
	result := deps.Service.RunStructureAnalysis(deps.Ctx, c.URL, harvest.AnalyzeRequest{MaxSuggestions: c.MaxSuggestions})
	if result.ErrorCode == harvest.EINVALID {
		return writeResult(deps, result)
	}
	return writeJSON(deps.Stdout, result)
}
