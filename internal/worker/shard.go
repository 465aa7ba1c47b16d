package worker

import (
	"context"

	"github.com/gallupBenRyan/multivac/internal/match"
	"github.com/gallupBenRyan/multivac/internal/model"
)

// RelationMatcher answers the questions of one relation into acc
type RelationMatcher interface {
	MatchRelation(ctx context.Context, group model.RelationQuestions, acc *model.Answers) (match.Stats, error)
}

// ShardJob matches one relation into its own accumulator
type ShardJob struct {
	Group   model.RelationQuestions
	Matcher RelationMatcher
}

// Execute executes the shard job
func (j *ShardJob) Execute(ctx context.Context) Result {
	acc := model.NewAnswers()
	stats, err := j.Matcher.MatchRelation(ctx, j.Group, acc)
	return &ShardResult{
		Relation: j.Group.Relation,
		Answers:  acc,
		Stats:    stats,
		Error:    err,
	}
}

// ShardResult represents the result of a shard job
type ShardResult struct {
	Relation string
	Answers  *model.Answers
	Stats    match.Stats
	Error    error
}

// GetError returns the error from the shard result
func (r *ShardResult) GetError() error {
	return r.Error
}

// ShardProcessor matches relation groups concurrently
type ShardProcessor struct {
	matcher     RelationMatcher
	concurrency int
}

// NewShardProcessor creates a new shard processor
func NewShardProcessor(matcher RelationMatcher, concurrency int) *ShardProcessor {
	return &ShardProcessor{
		matcher:     matcher,
		concurrency: concurrency,
	}
}

// ProcessGroups matches every group and returns one result per group, in
// group order. Groups skipped because ctx was cancelled have no result.
func (b *ShardProcessor) ProcessGroups(ctx context.Context, groups []model.RelationQuestions) []*ShardResult {
	if len(groups) == 0 {
		return []*ShardResult{}
	}

	pool := NewPool(ctx, b.concurrency)
	pool.Start()

	for _, g := range groups {
		pool.Submit(&ShardJob{
			Group:   g,
			Matcher: b.matcher,
		})
	}

	results := pool.Wait()

	shardResults := make([]*ShardResult, len(results))
	for i, result := range results {
		shardResults[i] = result.(*ShardResult)
	}

	return shardResults
}

// Merge unions the shard accumulators in order and sums their stats. The
// first shard error is returned alongside the partial result.
func Merge(results []*ShardResult) (*model.Answers, match.Stats, error) {
	answers := model.NewAnswers()
	var stats match.Stats
	var firstErr error

	for _, r := range results {
		answers.Merge(r.Answers)
		stats.Add(r.Stats)
		if r.Error != nil && firstErr == nil {
			firstErr = r.Error
		}
	}

	return answers, stats, firstErr
}
