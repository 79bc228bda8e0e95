package estimator

import (
	"fmt"

	"ngramlm/internal/domain"
)

// Smoother turns raw counts into a conditional probability.
type Smoother interface {
	// Smooth computes P(token | context).
	// ngramCount: count of the full n-gram
	// contextCount: count of the (n-1)-gram context
	// vocabulary: the corpus vocabulary size, see VocabularySize
	Smooth(ngramCount, contextCount int, vocabulary float64) (float64, error)

	// Name returns the name of the smoothing algorithm
	Name() string
}

// MaximumLikelihood is the unsmoothed relative-frequency estimate.
type MaximumLikelihood struct{}

func (MaximumLikelihood) Smooth(ngramCount, contextCount int, _ float64) (float64, error) {
	if contextCount == 0 {
		return 0, domain.ErrDivisionUndefined
	}
	return float64(ngramCount) / float64(contextCount), nil
}

func (MaximumLikelihood) Name() string {
	return "MLE"
}

// AdditiveSmoother implements add-k smoothing: (count + k) / (context + k*V).
type AdditiveSmoother struct {
	k float64
}

// NewAdditiveSmoother creates a new add-k smoother. k <= 0 selects Laplace (k = 1).
func NewAdditiveSmoother(k float64) *AdditiveSmoother {
	if k <= 0 {
		k = 1.0
	}
	return &AdditiveSmoother{k: k}
}

func (s *AdditiveSmoother) Smooth(ngramCount, contextCount int, vocabulary float64) (float64, error) {
	denominator := float64(contextCount) + s.k*vocabulary
	if denominator == 0 {
		return 0, fmt.Errorf("additive smoothing with empty vocabulary: %w", domain.ErrDivisionUndefined)
	}
	return (float64(ngramCount) + s.k) / denominator, nil
}

func (s *AdditiveSmoother) Name() string {
	return "Additive"
}

// SmootherFor maps a configuration name to a Smoother.
func SmootherFor(name string) (Smoother, error) {
	switch name {
	case "", "none", "mle":
		return MaximumLikelihood{}, nil
	case "additive", "laplace":
		return NewAdditiveSmoother(1), nil
	default:
		return nil, fmt.Errorf("unsupported smoothing: %s", name)
	}
}
