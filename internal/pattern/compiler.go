package pattern

import (
	"fmt"
	"log/slog"
	"strings"
	"sync/atomic"

	"golang.org/x/sync/singleflight"

	"github.com/gallupBenRyan/multivac/internal/cache"
	"github.com/gallupBenRyan/multivac/internal/logger"
	"github.com/gallupBenRyan/multivac/internal/model"
)

// DefaultStopwords are dropped from argument phrases before compilation
var DefaultStopwords = []string{"the", "of", "in"}

// Lexicon is the part of the knowledge base the compiler reads
type Lexicon interface {
	LemmasOf(form string) ([]string, bool)
	ClustersOf(lemma string) []int
	HeadDepCluster(head, dep string) (int, bool)
}

type compiled struct {
	patterns []Pattern
	err      error
}

// Compiler turns argument phrases into patterns, memoizing per phrase.
// It is safe for concurrent use.
type Compiler struct {
	lex       Lexicon
	stopwords map[string]bool
	memo      cache.Cache[compiled]
	group     singleflight.Group
	logger    *slog.Logger
	hits      atomic.Int64
	misses    atomic.Int64
}

// NewCompiler creates a compiler over lex. An empty stopword list falls
// back to DefaultStopwords.
func NewCompiler(lex Lexicon, stopwords []string, cacheCfg model.CacheConfig) *Compiler {
	if len(stopwords) == 0 {
		stopwords = DefaultStopwords
	}
	sw := make(map[string]bool, len(stopwords))
	for _, w := range stopwords {
		sw[strings.ToLower(w)] = true
	}
	return &Compiler{
		lex:       lex,
		stopwords: sw,
		memo:      cache.NewMemoryCache[compiled](cacheCfg.PatternTTL, cacheCfg.CleanupInterval),
		logger:    logger.WithComponent("pattern-compiler"),
	}
}

// Compile returns the alternative patterns of phrase. A phrase with a word
// the lexicon has no lemma for, or with no content words at all, yields an
// error wrapping model.ErrMissingMapping.
func (c *Compiler) Compile(phrase string) ([]Pattern, error) {
	key := cache.Key("pattern", phrase)
	if r, ok := c.memo.Get(key); ok {
		c.hits.Add(1)
		return r.patterns, r.err
	}

	v, _, _ := c.group.Do(key, func() (interface{}, error) {
		if r, ok := c.memo.Get(key); ok {
			return r, nil
		}
		c.misses.Add(1)
		ps, err := c.compile(phrase)
		r := compiled{patterns: ps, err: err}
		c.memo.Set(key, r, 0)
		if err != nil {
			c.logger.Debug("argument not compilable", "argument", phrase, "error", err)
		} else {
			c.logger.Debug("argument compiled", "argument", phrase, "patterns", len(ps))
		}
		return r, nil
	})
	r := v.(compiled)
	return r.patterns, r.err
}

// ContentWords splits phrase on whitespace, lower-cases it and drops stopwords
func (c *Compiler) ContentWords(phrase string) []string {
	var words []string
	for _, w := range strings.Fields(strings.ToLower(phrase)) {
		if !c.stopwords[w] {
			words = append(words, w)
		}
	}
	return words
}

func (c *Compiler) compile(phrase string) ([]Pattern, error) {
	words := c.ContentWords(phrase)
	if len(words) == 0 {
		return nil, fmt.Errorf("%w: %q has no content words", model.ErrMissingMapping, phrase)
	}

	lemmas := make([][]string, len(words))
	primary := make(Pattern, len(words))
	for i, w := range words {
		ls, ok := c.lex.LemmasOf(w)
		if !ok || len(ls) == 0 {
			return nil, fmt.Errorf("%w: no lemma for %q", model.ErrMissingMapping, w)
		}
		lemmas[i] = ls

		var cis []int
		for _, l := range ls {
			cis = append(cis, c.lex.ClustersOf(l)...)
		}
		primary[i] = NewClusterSet(cis...)
	}

	patterns := []Pattern{primary}
	if n := len(words); n >= 2 {
		var compound []int
		for _, h := range lemmas[n-1] {
			for _, d := range lemmas[n-2] {
				if ci, ok := c.lex.HeadDepCluster(h, d); ok {
					compound = append(compound, ci)
				}
			}
		}
		if len(compound) > 0 {
			alt := make(Pattern, 0, n-1)
			alt = append(alt, primary[:n-2]...)
			alt = append(alt, NewClusterSet(compound...))
			patterns = append(patterns, alt)
		}
	}
	return patterns, nil
}

// Prepare compiles the argument of every question and splits them into
// answerable questions and ignored ones, preserving order.
func (c *Compiler) Prepare(questions []model.Question) (active, ignored []model.Question) {
	for _, q := range questions {
		if _, err := c.Compile(q.Argument); err != nil {
			ignored = append(ignored, q)
			continue
		}
		active = append(active, q)
	}
	return active, ignored
}

// CacheStats returns memo hits and misses
func (c *Compiler) CacheStats() (hits, misses int64) {
	return c.hits.Load(), c.misses.Load()
}
