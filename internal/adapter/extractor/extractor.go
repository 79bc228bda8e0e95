package extractor

import (
	"fmt"
	"iter"

	"ngramlm/internal/domain"
)

// Windows yields every window of size tokens that does not contain END, in
// left-to-right order, repeats included. A window crossing a sentence boundary
// always contains END and is therefore never produced.
//
// size 0 is degenerate: the empty n-gram is yielded once per position.
func Windows(tokens []domain.Token, size int) iter.Seq[domain.NGram] {
	return func(yield func(domain.NGram) bool) {
		if size < 0 {
			return
		}
		for i := 0; i+size <= len(tokens); i++ {
			window := tokens[i : i+size]
			if containsEnd(window) {
				continue
			}
			if !yield(domain.NewNGram(window...)) {
				return
			}
		}
	}
}

// ContextPairs maps every distinct n-gram ending at positions [n-1, len-2] to
// its (n-1)-token context. The final token is never a predicted token.
func ContextPairs(tokens []domain.Token, n int) (map[domain.NGram]domain.NGram, error) {
	if n < 1 {
		return nil, fmt.Errorf("context pairs with n=%d: %w", n, domain.ErrInvalidOrder)
	}

	pairs := make(map[domain.NGram]domain.NGram)
	for i := n - 1; i <= len(tokens)-2; i++ {
		window := tokens[i-n+1 : i+1]
		if containsEnd(window) {
			continue
		}
		gram := domain.NewNGram(window...)
		pairs[gram] = gram.Context()
	}
	return pairs, nil
}

// CountOccurrences counts every END-free window of windowSize tokens.
func CountOccurrences(tokens []domain.Token, windowSize int) domain.CountTable {
	counts := make(domain.CountTable)
	for gram := range Windows(tokens, windowSize) {
		counts[gram]++
	}
	return counts
}

func containsEnd(window []domain.Token) bool {
	for _, tok := range window {
		if tok == domain.End {
			return true
		}
	}
	return false
}
