package load

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/gallupBenRyan/multivac/internal/kb"
	"github.com/gallupBenRyan/multivac/internal/logger"
	"github.com/gallupBenRyan/multivac/internal/model"
)

// Extensions of the clustering output inside the results directory
const (
	ClusterExt = ".mln"
	PartExt    = ".parse"
)

// Loader builds a knowledge base from a data directory and a results directory
type Loader struct {
	paths   model.PathsConfig
	workers int
	logger  *slog.Logger
}

// NewLoader creates a loader reading articles with up to workers goroutines
func NewLoader(paths model.PathsConfig, workers int) *Loader {
	if workers <= 0 {
		workers = 1
	}
	return &Loader{
		paths:   paths,
		workers: workers,
		logger:  logger.WithComponent("loader"),
	}
}

// RunID returns the name the clustering output files carry: the base name
// of the data directory.
func (l *Loader) RunID() string {
	return filepath.Base(filepath.Clean(l.paths.DataDir))
}

// Load reads every input. Only forms in wanted get a lemma entry; a nil
// wanted keeps them all.
func (l *Loader) Load(ctx context.Context, wanted map[string]bool) (*kb.KnowledgeBase, error) {
	b := kb.NewBuilder()
	fid := l.RunID()

	// 1. Clusters
	clusterPath := filepath.Join(l.paths.ResultsDir, fid+ClusterExt)
	cstats, err := ReadClusters(clusterPath, b)
	if err != nil {
		return nil, fmt.Errorf("load clusters: %w", err)
	}
	l.logger.Info("clusters loaded", "file", clusterPath, "clusters", cstats.Clusters,
		"relations", cstats.Relations, "head_deps", cstats.HeadDeps, "skipped_types", cstats.Skipped)

	// 2. Parts
	partPath := filepath.Join(l.paths.ResultsDir, fid+PartExt)
	parts, err := ReadParts(partPath, b)
	if err != nil {
		return nil, fmt.Errorf("load parts: %w", err)
	}
	l.logger.Info("parts loaded", "file", partPath, "parts", parts)

	// 3. Articles
	articles, err := l.readArticles(ctx)
	if err != nil {
		return nil, err
	}
	dropped := 0
	for _, art := range articles {
		dropped += art.Dropped
		for i, s := range art.Sentences {
			b.AddSentence(model.SentenceID{Article: art.ID, Sentence: i}, s)
			for _, t := range s.Tokens {
				form := strings.ToLower(t.Form)
				if wanted == nil || wanted[form] {
					b.AddForm(form, t.Lemma)
				}
			}
		}
	}
	if dropped > 0 {
		l.logger.Warn("dependencies outside their sentence dropped", "count", dropped)
	}

	k := b.Build()
	st := k.Stats()
	l.logger.Info("knowledge base built", "articles", len(articles), "sentences", st.Sentences,
		"forms", st.Forms, "nodes", st.Nodes)
	return k, nil
}

// readArticles reads all articles concurrently, returning them in id order
func (l *Loader) readArticles(ctx context.Context) ([]*Article, error) {
	ids, err := ListArticles(l.paths.DataDir)
	if err != nil {
		return nil, err
	}

	articles := make([]*Article, len(ids))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(l.workers)

	for i, aid := range ids {
		i, aid := i, aid
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			art, err := ReadArticle(l.paths.DataDir, aid)
			if err != nil {
				return err
			}
			articles[i] = art
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("load articles: %w", err)
	}
	return articles, nil
}
