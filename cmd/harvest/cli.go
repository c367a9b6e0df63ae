package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/fwojciec/harvest"
	"github.com/fwojciec/harvest/crawl"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx     context.Context
	Stdout  io.Writer
	Stderr  io.Writer
	Service *crawl.Service

	// Store receives successful results when --output is set.
	Store harvest.ResultStore
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Fetcher  string        `enum:"rod,http" default:"rod" help:"Page fetcher: rod (headless Chrome) or http (static pages)"`
	Timeout  time.Duration `env:"HARVEST_TIMEOUT" help:"Fetch timeout per page (default: 20s array, 15s select and crawl, 45s products, 25s analyze)"`
	Cache    string        `env:"HARVEST_CACHE" help:"SQLite page cache path (disabled when empty)"`
	CacheTTL time.Duration `name:"cache-ttl" default:"1h" help:"How long cached pages stay fresh (0 keeps them forever)"`
	Output   string        `short:"o" type:"path" help:"Also write successful results as text files under this directory"`
	LogLevel string        `name:"log-level" enum:"debug,info,warn,error" default:"info" help:"Log level"`

	Array    ArrayCmd    `cmd:"" help:"Extract arrays of repeated items from pages"`
	Select   SelectCmd   `cmd:"" help:"Extract the merged main content of pages"`
	Crawl    CrawlCmd    `cmd:"" help:"Render the main content of pages as Markdown"`
	Products ProductsCmd `cmd:"" help:"List the products on e-commerce pages"`
	Analyze  AnalyzeCmd  `cmd:"" help:"Suggest content and exclude selectors for a page"`
}

// ArrayCmd is the "array" subcommand.
type ArrayCmd struct {
	URLs        []string `arg:"" name:"url" help:"Page URLs"`
	Selectors   string   `short:"s" required:"" help:"YAML file of named array selectors"`
	Exclude     []string `short:"x" help:"Remove elements matching selector before extraction (repeatable)"`
	Format      string   `short:"f" enum:"structured,flat,summary" default:"structured" help:"Content format"`
	Concurrency int      `short:"c" help:"Concurrent fetches for multiple URLs (default 2, max 3)"`
}

// SelectCmd is the "select" subcommand.
type SelectCmd struct {
	URLs        []string `arg:"" name:"url" help:"Page URLs"`
	Selector    []string `short:"s" help:"Content selector (repeatable, default: built-in content selectors)"`
	Exclude     []string `short:"x" help:"Remove elements matching selector before extraction (repeatable)"`
	MaxLength   int      `name:"max-length" help:"Maximum content length in characters (default 10000)"`
	Sections    bool     `help:"Include the individual sections in the metadata"`
	ContentOnly bool     `name:"content-only" help:"Extract plain main text with the built-in content selectors"`
	Concurrency int      `short:"c" help:"Concurrent fetches for multiple URLs (default 3, max 5)"`
}

// CrawlCmd is the "crawl" subcommand.
type CrawlCmd struct {
	URLs        []string `arg:"" name:"url" help:"Page URLs"`
	Exclude     []string `short:"x" help:"Remove elements matching selector before conversion (repeatable)"`
	MaxLength   int      `name:"max-length" help:"Maximum Markdown length in characters (default 5000)"`
	Concurrency int      `short:"c" help:"Concurrent fetches for multiple URLs (default 3, max 3)"`
}

// ProductsCmd is the "products" subcommand.
type ProductsCmd struct {
	URLs        []string `arg:"" name:"url" help:"Page URLs"`
	Product     string   `short:"p" help:"Selector matching one element per product, used when the page has no JSON-LD products"`
	Name        string   `help:"Product name selector, relative to the product element"`
	Price       string   `help:"Price selector, relative to the product element"`
	Image       string   `help:"Image selector, relative to the product element"`
	Link        string   `help:"Product link selector, relative to the product element"`
	Limit       int      `short:"n" help:"Maximum products per page (default and max 50)"`
	Concurrency int      `short:"c" help:"Concurrent fetches for multiple URLs (default 2, max 3)"`
}

// AnalyzeCmd is the "analyze" subcommand.
type AnalyzeCmd struct {
	URL            string `arg:"" name:"url" help:"Page URL"`
	MaxSuggestions int    `name:"max-suggestions" help:"Maximum content selector suggestions (default 5, max 10)"`
}

// saveResults writes results to the store, if any, and commits them.
// A failed save aborts the whole set.
func saveResults(deps *Dependencies, results ...*harvest.CrawlResult) error {
	if deps.Store == nil {
		return nil
	}
	for _, r := range results {
		if err := deps.Store.Save(deps.Ctx, r); err != nil {
			_ = deps.Store.Abort()
			return fmt.Errorf("saving %s: %w", r.URL, err)
		}
	}
	return deps.Store.Commit()
}

// writeJSON writes v as indented JSON.
func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}
