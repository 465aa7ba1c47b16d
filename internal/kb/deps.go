package kb

import "strings"

// Dependency labels with fixed meaning during matching
const (
	DepNeg         = "neg"
	DepDet         = "det"
	DepAppos       = "appos"
	depConjPrefix  = "conj"
	depNegatedConj = "conj_negcc"
	depPrepPrefix  = "prep_"
)

// DefaultStructuralDeps are the labels a noun phrase is expanded through
var DefaultStructuralDeps = []string{"nn", "amod", "prep_of", "num", DepAppos}

// DepRules classifies dependency labels for the matcher and the extractor
type DepRules struct {
	structural map[string]bool
}

// NewDepRules builds rules from the structural label list; an empty list
// falls back to DefaultStructuralDeps.
func NewDepRules(structural []string) DepRules {
	if len(structural) == 0 {
		structural = DefaultStructuralDeps
	}
	m := make(map[string]bool, len(structural))
	for _, d := range structural {
		m[d] = true
	}
	return DepRules{structural: m}
}

// IsStructural reports whether subtree expansion may descend through dep
func (r DepRules) IsStructural(dep string) bool {
	return r.structural[dep]
}

// IsCoordination reports whether dep links an alternative to its head:
// any conj* except conj_negcc, or appos
func (r DepRules) IsCoordination(dep string) bool {
	if dep == DepAppos {
		return true
	}
	return strings.HasPrefix(dep, depConjPrefix) && dep != depNegatedConj
}

// Preposition returns the preposition carried by a prep_* label
func (r DepRules) Preposition(dep string) (string, bool) {
	if !strings.HasPrefix(dep, depPrepPrefix) {
		return "", false
	}
	return strings.TrimPrefix(dep, depPrepPrefix), true
}
