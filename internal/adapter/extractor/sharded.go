package extractor

import (
	"context"

	"golang.org/x/sync/errgroup"

	"ngramlm/internal/domain"
)

// CountOccurrencesSharded counts windows over up to shards slices of tokens
// concurrently and merges the partial tables. Shards are only cut right after
// an END sentinel; any window spanning such a cut contains that END and is
// skipped by the sequential pass as well, so the result equals
// CountOccurrences(tokens, windowSize).
func CountOccurrencesSharded(ctx context.Context, tokens []domain.Token, windowSize, shards int) (domain.CountTable, error) {
	if shards <= 1 || windowSize < 1 {
		return CountOccurrences(tokens, windowSize), nil
	}

	parts := SplitShards(tokens, shards)
	if len(parts) == 1 {
		return CountOccurrences(tokens, windowSize), nil
	}

	partials := make([]domain.CountTable, len(parts))
	g, ctx := errgroup.WithContext(ctx)
	for i, part := range parts {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			partials[i] = CountOccurrences(part, windowSize)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	merged := make(domain.CountTable)
	for _, p := range partials {
		merged = merged.Merge(p)
	}
	return merged, nil
}

// SplitShards cuts tokens into at most shards contiguous slices, each ending
// with END (except possibly the last). The slices share the input's backing array.
func SplitShards(tokens []domain.Token, shards int) [][]domain.Token {
	if shards <= 1 || len(tokens) == 0 {
		return [][]domain.Token{tokens}
	}

	target := (len(tokens) + shards - 1) / shards
	var parts [][]domain.Token
	start := 0
	for i, tok := range tokens {
		if tok != domain.End || i+1-start < target || len(parts) == shards-1 {
			continue
		}
		parts = append(parts, tokens[start:i+1])
		start = i + 1
	}
	if start < len(tokens) {
		parts = append(parts, tokens[start:])
	}
	return parts
}
