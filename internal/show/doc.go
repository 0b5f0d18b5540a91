// Package show provides the normalized show model and the reconciliation
// engine: grouping raw scraped rows into canonical show records, deriving
// deterministic content-hash identifiers, carrying identifiers forward across
// runs through a cascade of matching strategies, and diffing batches.
package show
