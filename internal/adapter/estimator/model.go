package estimator

import (
	"context"
	"fmt"

	"ngramlm/internal/adapter/extractor"
	"ngramlm/internal/domain"
)

// Model holds the counts of one training corpus and scores n-grams of a single order.
// A Model is never updated after Train returns.
type Model struct {
	n          int
	pairs      map[domain.NGram]domain.NGram
	ngrams     domain.CountTable
	contexts   domain.CountTable
	distinct   int
	total      int
	vocabulary float64
	smoother   Smoother
}

type trainOptions struct {
	shards int
}

// Option configures Train.
type Option func(*trainOptions)

// WithShards counts n-grams and contexts over up to k concurrent shards.
// The resulting counts are identical to a sequential pass.
func WithShards(k int) Option {
	return func(o *trainOptions) {
		o.shards = k
	}
}

// Train counts n-grams and (n-1)-gram contexts of tokens. A nil smoother
// selects maximum likelihood.
func Train(ctx context.Context, tokens []domain.Token, n int, smoother Smoother, opts ...Option) (*Model, error) {
	if n < 1 {
		return nil, fmt.Errorf("train with n=%d: %w", n, domain.ErrInvalidOrder)
	}
	if smoother == nil {
		smoother = MaximumLikelihood{}
	}

	var o trainOptions
	for _, opt := range opts {
		opt(&o)
	}

	pairs, err := extractor.ContextPairs(tokens, n)
	if err != nil {
		return nil, err
	}

	ngrams, err := extractor.CountOccurrencesSharded(ctx, tokens, n, o.shards)
	if err != nil {
		return nil, fmt.Errorf("failed to count %d-grams: %w", n, err)
	}

	contexts, err := extractor.CountOccurrencesSharded(ctx, tokens, n-1, o.shards)
	if err != nil {
		return nil, fmt.Errorf("failed to count contexts: %w", err)
	}

	distinct, total := lexicalCounts(tokens)

	return &Model{
		n:          n,
		pairs:      pairs,
		ngrams:     ngrams,
		contexts:   contexts,
		distinct:   distinct,
		total:      total,
		vocabulary: vocabularyRatio(distinct, total),
		smoother:   smoother,
	}, nil
}

// Order returns n.
func (m *Model) Order() int {
	return m.n
}

// Probability scores any n-gram of the model's order, seen or not. Unseen
// contexts fail under maximum likelihood and get 1/(0+V) under additive smoothing.
func (m *Model) Probability(gram domain.NGram) (float64, error) {
	if gram.Len() != m.n {
		return 0, fmt.Errorf("n-gram %q has length %d, model order is %d: %w", gram, gram.Len(), m.n, domain.ErrInvalidOrder)
	}
	p, err := m.smoother.Smooth(m.ngrams[gram], m.contexts[gram.Context()], m.vocabulary)
	if err != nil {
		return 0, fmt.Errorf("probability of %q: %w", gram, err)
	}
	return p, nil
}

// Table returns the probability of every n-gram observed as a context pair.
// Rows are not normalized per context.
func (m *Model) Table() (domain.ProbabilityTable, error) {
	table := make(domain.ProbabilityTable, len(m.pairs))
	for gram, ctx := range m.pairs {
		p, err := m.smoother.Smooth(m.ngrams[gram], m.contexts[ctx], m.vocabulary)
		if err != nil {
			return nil, fmt.Errorf("probability of %q: %w", gram, err)
		}
		table[gram] = p
	}
	return table, nil
}

// Stats returns statistics about the model.
func (m *Model) Stats() ModelStats {
	return ModelStats{
		N:              m.n,
		DistinctTokens: m.distinct,
		TotalTokens:    m.total,
		VocabularySize: m.vocabulary,
		NGramCount:     len(m.ngrams),
		ContextCount:   len(m.contexts),
		PairCount:      len(m.pairs),
		SmootherName:   m.smoother.Name(),
	}
}

// ModelStats contains statistics about an n-gram model.
type ModelStats struct {
	N              int     `json:"n"`
	DistinctTokens int     `json:"distinct_tokens"`
	TotalTokens    int     `json:"total_tokens"`
	VocabularySize float64 `json:"vocabulary_size"`
	NGramCount     int     `json:"ngram_count"`
	ContextCount   int     `json:"context_count"`
	PairCount      int     `json:"pair_count"`
	SmootherName   string  `json:"smoother_name"`
}

// Estimate computes the probability table of tokens for order n.
func Estimate(tokens []domain.Token, n int, smoother Smoother) (domain.ProbabilityTable, error) {
	m, err := Train(context.Background(), tokens, n, smoother)
	if err != nil {
		return nil, err
	}
	return m.Table()
}

// VocabularySize returns (distinct non-sentinel tokens + 1) / (total non-sentinel tokens + 1).
//
// This is a lexical diversity ratio, not the vocabulary cardinality used by
// textbook Laplace smoothing. Additive smoothing depends on this exact value.
func VocabularySize(tokens []domain.Token) float64 {
	return vocabularyRatio(lexicalCounts(tokens))
}

func vocabularyRatio(distinct, total int) float64 {
	return float64(distinct+1) / float64(total+1)
}

func lexicalCounts(tokens []domain.Token) (distinct, total int) {
	seen := make(map[domain.Token]struct{})
	for _, tok := range tokens {
		if tok.IsSentinel() {
			continue
		}
		seen[tok] = struct{}{}
		total++
	}
	return len(seen), total
}
