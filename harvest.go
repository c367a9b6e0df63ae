// Package harvest extracts clean, ordered and deduplicated content from
// fetched web pages using declarative CSS selector configurations.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., goquery/, rod/, sqlite/) or after
// the orchestration they perform (dedupe/, pipeline/, crawl/).
package harvest
