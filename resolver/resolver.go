// Package resolver implements the region-aware resolution engine for the
// clinic ranking pages: mapping arbitrary region ids onto hub regions with
// guaranteed ranking data, producing ordered clinic rankings, resolving
// clinic text/asset values through the layered text tables, gating store
// visibility through per-region store views, and building outbound redirect
// URLs.
//
// Every resolver is a pure lookup over an immutable catalog snapshot and is
// total: lookup misses return documented fallback values and emit advisory
// diagnostics instead of failing, because a broken page costs revenue while
// a slightly wrong one does not.
package resolver

import (
	"github.com/rankpage/clinicrank-api/catalogparser/entities"
)

// Resolver answers all page-level resolution queries against one catalog
// snapshot. Construct a new one per snapshot; it holds no other state.
type Resolver struct {
	catalog *entities.Catalog
}

// New creates a resolver over the given catalog snapshot.
func New(catalog *entities.Catalog) *Resolver {
	return &Resolver{catalog: catalog}
}

// Catalog exposes the underlying snapshot for callers that need raw lists
// (region selectors, clinic indexes).
func (r *Resolver) Catalog() *entities.Catalog {
	return r.catalog
}
