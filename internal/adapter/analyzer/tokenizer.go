package analyzer

import (
	"fmt"
	"regexp"
	"strings"

	"ngramlm/internal/domain"
)

var (
	// Brackets, braces, comma, semicolon, colon, parentheses, slash, tilde,
	// double quote, underscore and pipe are deleted outright.
	nonTerminalPunct = regexp.MustCompile(`[\[\]{},;:()/~"_|]+`)

	// A run of sentence-terminal punctuation closes one sentence.
	terminalPunct = regexp.MustCompile(`[.!?]+`)
)

// Tokenizer splits raw text into sentence-bounded tokens with START/END sentinels.
type Tokenizer struct{}

// NewTokenizer creates a new Tokenizer.
func NewTokenizer() *Tokenizer {
	return &Tokenizer{}
}

// Tokenize normalizes text and returns its token sequence for a model of order n.
// Every sentence is preceded by n-1 START sentinels and closed by exactly one END.
func (t *Tokenizer) Tokenize(text string, n int) ([]domain.Token, error) {
	if n < 1 {
		return nil, fmt.Errorf("tokenize with n=%d: %w", n, domain.ErrInvalidOrder)
	}

	text = StripPunctuation(text)
	text = strings.ToLower(text)
	text = markSentenceEnds(text)

	words := strings.Fields(text)
	tokens := make([]domain.Token, 0, len(words)+n)
	tokens = append(tokens, runIn(n)...)
	for _, w := range words {
		tokens = append(tokens, domain.Token(w))
	}

	if len(tokens) == 0 || tokens[len(tokens)-1] != domain.End {
		tokens = append(tokens, domain.End)
	}

	return insertRunIns(tokens, n), nil
}

// StripPunctuation deletes all non-terminal punctuation. It is idempotent.
func StripPunctuation(text string) string {
	return nonTerminalPunct.ReplaceAllString(text, "")
}

// SentenceCount returns the number of END sentinels in tokens.
func SentenceCount(tokens []domain.Token) int {
	count := 0
	for _, tok := range tokens {
		if tok == domain.End {
			count++
		}
	}
	return count
}

// markSentenceEnds must run after lowercasing so the inserted sentinel keeps its case.
func markSentenceEnds(text string) string {
	return terminalPunct.ReplaceAllString(text, " "+string(domain.End)+" ")
}

func runIn(n int) []domain.Token {
	starts := make([]domain.Token, n-1)
	for i := range starts {
		starts[i] = domain.Start
	}
	return starts
}

// insertRunIns places n-1 START sentinels after every END except the final token.
func insertRunIns(tokens []domain.Token, n int) []domain.Token {
	out := make([]domain.Token, 0, len(tokens)+(n-1)*SentenceCount(tokens))
	last := len(tokens) - 1
	for i, tok := range tokens {
		out = append(out, tok)
		if tok == domain.End && i != last {
			out = append(out, runIn(n)...)
		}
	}
	return out
}
