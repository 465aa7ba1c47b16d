package model

import (
	"fmt"
	"strconv"
	"strings"
)

// TreeNodeID identifies a clustered parse-tree node by article, sentence and token.
// The zero Sentence and Token values are valid indices; all indices are 0-based.
type TreeNodeID struct {
	Article  string
	Sentence int
	Token    int
}

// SentenceID identifies a sentence within an article
type SentenceID struct {
	Article  string
	Sentence int
}

// SentenceID projects the node onto its sentence
func (id TreeNodeID) SentenceID() SentenceID {
	return SentenceID{Article: id.Article, Sentence: id.Sentence}
}

// WithToken returns the id of another token in the same sentence
func (id TreeNodeID) WithToken(token int) TreeNodeID {
	return TreeNodeID{Article: id.Article, Sentence: id.Sentence, Token: token}
}

// String renders the id as article:sentence:token
func (id TreeNodeID) String() string {
	return id.Article + ":" + strconv.Itoa(id.Sentence) + ":" + strconv.Itoa(id.Token)
}

// Compare orders ids by (article, sentence, token)
func (id TreeNodeID) Compare(other TreeNodeID) int {
	if c := id.SentenceID().Compare(other.SentenceID()); c != 0 {
		return c
	}
	return compareInt(id.Token, other.Token)
}

// Less reports whether id sorts before other
func (id TreeNodeID) Less(other TreeNodeID) bool {
	return id.Compare(other) < 0
}

// String renders the id as article:sentence
func (id SentenceID) String() string {
	return id.Article + ":" + strconv.Itoa(id.Sentence)
}

// Compare orders ids by (article, sentence)
func (id SentenceID) Compare(other SentenceID) int {
	if c := strings.Compare(id.Article, other.Article); c != 0 {
		return c
	}
	return compareInt(id.Sentence, other.Sentence)
}

// ParseTreeNodeID parses article:sentence:token. The article id may itself
// contain ':' so the numeric fields are taken from the right.
func ParseTreeNodeID(s string) (TreeNodeID, error) {
	last := strings.LastIndex(s, ":")
	if last < 0 {
		return TreeNodeID{}, fmt.Errorf("%w: tree node id %q", ErrMalformedInput, s)
	}
	sid, err := ParseSentenceID(s[:last])
	if err != nil {
		return TreeNodeID{}, fmt.Errorf("%w: tree node id %q", ErrMalformedInput, s)
	}
	tok, err := strconv.Atoi(s[last+1:])
	if err != nil || tok < 0 {
		return TreeNodeID{}, fmt.Errorf("%w: token index in %q", ErrMalformedInput, s)
	}
	return TreeNodeID{Article: sid.Article, Sentence: sid.Sentence, Token: tok}, nil
}

// ParseSentenceID parses article:sentence
func ParseSentenceID(s string) (SentenceID, error) {
	last := strings.LastIndex(s, ":")
	if last <= 0 {
		return SentenceID{}, fmt.Errorf("%w: sentence id %q", ErrMalformedInput, s)
	}
	idx, err := strconv.Atoi(s[last+1:])
	if err != nil || idx < 0 {
		return SentenceID{}, fmt.Errorf("%w: sentence index in %q", ErrMalformedInput, s)
	}
	return SentenceID{Article: s[:last], Sentence: idx}, nil
}

func compareInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}
