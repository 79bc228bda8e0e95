package domain

import (
	"sort"
	"strings"
	"time"
)

// Token is a normalized word or a sentence-boundary sentinel.
type Token string

// Sentinels are upper case; every real word is lowercased by the tokenizer,
// so they can never collide with corpus text.
const (
	Start   Token = "START"
	End     Token = "END"
	Unknown Token = "UNK"
)

// IsSentinel reports whether t is START or END.
func (t Token) IsSentinel() bool {
	return t == Start || t == End
}

// separator joins tokens inside an NGram key. Tokens come from a whitespace
// split, so they never contain it.
const separator = " "

// NGram is an immutable, fixed-length token tuple. It is comparable and
// usable directly as a map key.
type NGram struct {
	key string
	n   int
}

// NewNGram builds an n-gram from tokens. The slice is copied.
func NewNGram(tokens ...Token) NGram {
	if len(tokens) == 0 {
		return NGram{}
	}
	var b strings.Builder
	for i, t := range tokens {
		if i > 0 {
			b.WriteString(separator)
		}
		b.WriteString(string(t))
	}
	return NGram{key: b.String(), n: len(tokens)}
}

// ParseNGram builds an n-gram from whitespace separated tokens, e.g. "START i".
func ParseNGram(s string) NGram {
	fields := strings.Fields(s)
	tokens := make([]Token, len(fields))
	for i, f := range fields {
		tokens[i] = Token(f)
	}
	return NewNGram(tokens...)
}

// Len returns the number of tokens in the n-gram.
func (g NGram) Len() int {
	return g.n
}

// Tokens returns a fresh copy of the n-gram's tokens.
func (g NGram) Tokens() []Token {
	if g.n == 0 {
		return nil
	}
	parts := strings.Split(g.key, separator)
	tokens := make([]Token, len(parts))
	for i, p := range parts {
		tokens[i] = Token(p)
	}
	return tokens
}

// Context returns the (n-1)-token prefix.
func (g NGram) Context() NGram {
	if g.n <= 1 {
		return NGram{}
	}
	idx := strings.LastIndex(g.key, separator)
	return NGram{key: g.key[:idx], n: g.n - 1}
}

// Last returns the predicted token, or "" for the empty n-gram.
func (g NGram) Last() Token {
	if g.n == 0 {
		return ""
	}
	idx := strings.LastIndex(g.key, separator)
	return Token(g.key[idx+1:])
}

// Contains reports whether t appears anywhere in the n-gram.
func (g NGram) Contains(t Token) bool {
	for _, tok := range g.Tokens() {
		if tok == t {
			return true
		}
	}
	return false
}

func (g NGram) String() string {
	return g.key
}

// MarshalText lets n-grams be JSON object keys.
func (g NGram) MarshalText() ([]byte, error) {
	return []byte(g.key), nil
}

// CountTable maps n-grams of one window size to occurrence counts.
type CountTable map[NGram]int

// Merge returns a new table holding the summed counts of c and other.
// Neither input is modified.
func (c CountTable) Merge(other CountTable) CountTable {
	merged := make(CountTable, len(c)+len(other))
	for g, n := range c {
		merged[g] += n
	}
	for g, n := range other {
		merged[g] += n
	}
	return merged
}

// Total returns the sum of all counts.
func (c CountTable) Total() int {
	total := 0
	for _, n := range c {
		total += n
	}
	return total
}

// ProbabilityTable maps an n-gram to P(last token | preceding n-1 tokens).
type ProbabilityTable map[NGram]float64

// Entry is one row of a ProbabilityTable.
type Entry struct {
	NGram       string  `json:"ngram"`
	Context     string  `json:"context"`
	Token       string  `json:"token"`
	Probability float64 `json:"probability"`
}

// Entries returns the table rows ordered by n-gram.
func (p ProbabilityTable) Entries() []Entry {
	entries := make([]Entry, 0, len(p))
	for g, prob := range p {
		entries = append(entries, Entry{
			NGram:       g.String(),
			Context:     g.Context().String(),
			Token:       string(g.Last()),
			Probability: prob,
		})
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].NGram < entries[j].NGram
	})
	return entries
}

// Run records one likelihood/perplexity evaluation.
type Run struct {
	ID         string    `json:"id"`
	Order      int       `json:"order"`
	TrainHash  string    `json:"train_hash"`
	TrainChars int       `json:"train_chars"`
	TestChars  int       `json:"test_chars"`
	TestNGrams int       `json:"test_ngrams"`
	Likelihood float64   `json:"likelihood"`
	Perplexity float64   `json:"perplexity"`
	CreatedAt  time.Time `json:"created_at"`
}
