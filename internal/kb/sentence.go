package kb

import "strings"

// Edge is a typed dependency to another token of the same sentence
type Edge struct {
	Dep   string
	Index int
}

// Token is one word of a parsed sentence
type Token struct {
	Form     string
	Lemma    string
	Parent   *Edge  // nil for the root and unattached tokens
	Children []Edge // in input order
}

// Sentence is a tokenized, dependency-parsed sentence
type Sentence struct {
	Tokens []Token
	Text   string
}

// NewSentence creates a sentence from aligned forms and lemmas
func NewSentence(forms, lemmas []string) *Sentence {
	s := &Sentence{Tokens: make([]Token, len(forms))}
	for i, f := range forms {
		s.Tokens[i].Form = f
		if i < len(lemmas) {
			s.Tokens[i].Lemma = lemmas[i]
		}
	}
	return s
}

// AddDependency attaches dep to gov with the given label. Out of range
// indices are reported as false and leave the sentence unchanged.
func (s *Sentence) AddDependency(label string, gov, dep int) bool {
	if !s.valid(gov) || !s.valid(dep) {
		return false
	}
	s.Tokens[dep].Parent = &Edge{Dep: label, Index: gov}
	s.Tokens[gov].Children = append(s.Tokens[gov].Children, Edge{Dep: label, Index: dep})
	return true
}

// TokenForm returns the surface form of token i
func (s *Sentence) TokenForm(i int) (string, bool) {
	if !s.valid(i) {
		return "", false
	}
	return s.Tokens[i].Form, true
}

// ChildrenOf returns the dependency children of token i
func (s *Sentence) ChildrenOf(i int) []Edge {
	if !s.valid(i) {
		return nil
	}
	return s.Tokens[i].Children
}

// ParentOf returns the dependency parent of token i
func (s *Sentence) ParentOf(i int) (Edge, bool) {
	if !s.valid(i) || s.Tokens[i].Parent == nil {
		return Edge{}, false
	}
	return *s.Tokens[i].Parent, true
}

// String returns the sentence text, falling back to the joined forms
func (s *Sentence) String() string {
	if s.Text != "" {
		return s.Text
	}
	forms := make([]string, len(s.Tokens))
	for i, t := range s.Tokens {
		forms[i] = t.Form
	}
	return strings.Join(forms, " ")
}

func (s *Sentence) valid(i int) bool {
	return i >= 0 && i < len(s.Tokens)
}
