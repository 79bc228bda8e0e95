package port

import "ngramlm/internal/domain"

type Tokenizer interface {
	Tokenize(text string, n int) ([]domain.Token, error)
}
