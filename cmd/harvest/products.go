package main

import (
	"fmt"

	"github.com/fwojciec/harvest"
)

// Run executes the products command.
func (c *ProductsCmd) Run(deps *Dependencies) error {
	req := harvest.ProductRequest{
		ProductSelector: c.Product,
		NameSelector:    c.Name,
		PriceSelector:   c.Price,
		ImageSelector:   c.Image,
		LinkSelector:    c.Link,
		Limit:           c.Limit,
	}

	if len(c.URLs) == 1 {
		result := deps.Service.RunProductExtraction(deps.Ctx, c.URLs[0], req)
		return writeResult(deps, result)
	}

	batch, err := deps.Service.RunProductExtractionBatch(deps.Ctx, c.URLs, req, c.Concurrency)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", harvest.ErrorMessage(err))
		return err
	}
	if err := saveResults(deps, batch.Results...); err != nil {
		return err
	}
	return writeJSON(deps.Stdout, batch.Results)
}
