// Package pattern compiles question argument phrases into cluster-index
// patterns that the subtree matcher tests parse-tree nodes against.
package pattern

import (
	"sort"
	"strconv"
	"strings"
)

// ClusterSet is an ascending, duplicate-free set of cluster indices
type ClusterSet []int

// NewClusterSet builds a set from arbitrary indices
func NewClusterSet(cis ...int) ClusterSet {
	if len(cis) == 0 {
		return ClusterSet{}
	}
	s := make(ClusterSet, len(cis))
	copy(s, cis)
	sort.Ints(s)
	out := s[:1]
	for _, ci := range s[1:] {
		if ci != out[len(out)-1] {
			out = append(out, ci)
		}
	}
	return out
}

// Contains reports whether ci is in the set
func (s ClusterSet) Contains(ci int) bool {
	i := sort.SearchInts(s, ci)
	return i < len(s) && s[i] == ci
}

// Intersects reports whether any element of s is in other
func (s ClusterSet) Intersects(other map[int]bool) bool {
	for _, ci := range s {
		if other[ci] {
			return true
		}
	}
	return false
}

func (s ClusterSet) String() string {
	parts := make([]string, len(s))
	for i, ci := range s {
		parts[i] = strconv.Itoa(ci)
	}
	return strings.Join(parts, " ")
}

// Pattern is one alternative reading of an argument phrase: a cluster set
// per content word, in phrase order. The last element is the head.
type Pattern []ClusterSet

// Head returns the cluster set the matched node itself must belong to
func (p Pattern) Head() ClusterSet {
	if len(p) == 0 {
		return nil
	}
	return p[len(p)-1]
}

// Modifiers returns every element but the head
func (p Pattern) Modifiers() []ClusterSet {
	if len(p) == 0 {
		return nil
	}
	return p[:len(p)-1]
}

func (p Pattern) String() string {
	parts := make([]string, len(p))
	for i, s := range p {
		parts[i] = "[" + s.String() + "]"
	}
	return strings.Join(parts, " ")
}
