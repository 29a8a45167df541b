package engine

import (
	"errors"
	"fmt"
	"sort"

	"github.com/wuzhjian/compass/model"
)

// Registry is the fixed set of analyzers, keyed by category and kept in
// report order. It is built once and never mutated.
type Registry struct {
	analyzers []Analyzer
	byCat     map[model.Category]Analyzer
}

// NewRegistry builds a registry from analyzers. Registration order does not
// matter: analyzers are ordered by priority, then category.
func NewRegistry(analyzers ...Analyzer) (*Registry, error) {
	r := &Registry{
		analyzers: make([]Analyzer, 0, len(analyzers)),
		byCat:     make(map[model.Category]Analyzer, len(analyzers)),
	}
	for _, a := range analyzers {
		if a == nil {
			return nil, errors.New("nil analyzer")
		}
		if _, dup := r.byCat[a.Category()]; dup {
			return nil, fmt.Errorf("duplicate analyzer for category %q", a.Category())
		}
		r.byCat[a.Category()] = a
		r.analyzers = append(r.analyzers, a)
	}
	sort.SliceStable(r.analyzers, func(i, j int) bool {
		return less(r.analyzers[i].Priority(), r.analyzers[i].Category(),
			r.analyzers[j].Priority(), r.analyzers[j].Category())
	})
	return r, nil
}

// less orders by priority ascending, then by category for equal priorities.
func less(pi int, ci model.Category, pj int, cj model.Category) bool {
	if pi != pj {
		return pi < pj
	}
	return ci < cj
}

var defaultRegistry = mustRegistry(
	MRMemoryWaste{},
	SparkMemoryWaste{},
	SparkCPUWaste{},
)

func mustRegistry(analyzers ...Analyzer) *Registry {
	r, err := NewRegistry(analyzers...)
	if err != nil {
		panic(err)
	}
	return r
}

// DefaultRegistry returns the registry of every built-in analyzer.
func DefaultRegistry() *Registry {
	return defaultRegistry
}

// Lookup returns the analyzer for category c.
func (r *Registry) Lookup(c model.Category) (Analyzer, bool) {
	a, ok := r.byCat[c]
	return a, ok
}

// Analyzers returns a copy of the registered analyzers in report order.
func (r *Registry) Analyzers() []Analyzer {
	out := make([]Analyzer, len(r.analyzers))
	copy(out, r.analyzers)
	return out
}

// Len returns the number of registered analyzers.
func (r *Registry) Len() int {
	return len(r.analyzers)
}
