package domain

import "errors"

var (
	// ErrInvalidOrder is returned when the model order n is out of range.
	ErrInvalidOrder = errors.New("invalid n-gram order")

	// ErrDivisionUndefined is returned when an unsmoothed context was never counted.
	ErrDivisionUndefined = errors.New("context count is zero")

	// ErrLookupMiss is returned when a scored n-gram is absent from the probability table.
	ErrLookupMiss = errors.New("n-gram not in probability table")

	// ErrArithmeticDegenerate is returned for perplexity over an empty test corpus.
	ErrArithmeticDegenerate = errors.New("test corpus has no characters")
)
