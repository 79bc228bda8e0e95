package usecase

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"math"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"ngramlm/internal/adapter/estimator"
	"ngramlm/internal/adapter/extractor"
	"ngramlm/internal/domain"
	"ngramlm/internal/port"
)

// MinOrder is the smallest order accepted by estimation and scoring.
const MinOrder = 2

// EvaluateUseCase trains n-gram models and scores held-out text.
type EvaluateUseCase struct {
	tokenizer port.Tokenizer
	runs      port.RunStore
	shards    int
	logger    *zap.Logger
}

// NewEvaluateUseCase creates a new evaluate use case. runs may be nil to skip
// recording evaluations.
func NewEvaluateUseCase(
	tokenizer port.Tokenizer,
	runs port.RunStore,
	shards int,
	logger *zap.Logger,
) *EvaluateUseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EvaluateUseCase{
		tokenizer: tokenizer,
		runs:      runs,
		shards:    shards,
		logger:    logger,
	}
}

// Tokenize returns the sentinel-bounded token sequence of text.
func (u *EvaluateUseCase) Tokenize(text string, n int) ([]domain.Token, error) {
	return u.tokenizer.Tokenize(text, n)
}

// Train tokenizes corpus and counts it into a model of order n.
func (u *EvaluateUseCase) Train(ctx context.Context, corpus string, n int, smoother estimator.Smoother) (*estimator.Model, error) {
	if n < MinOrder {
		return nil, fmt.Errorf("train with n=%d: %w", n, domain.ErrInvalidOrder)
	}

	tokens, err := u.tokenizer.Tokenize(corpus, n)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	model, err := estimator.Train(ctx, tokens, n, smoother, estimator.WithShards(u.shards))
	if err != nil {
		return nil, err
	}

	stats := model.Stats()
	u.logger.Debug("model trained",
		zap.Int("n", n),
		zap.Int("tokens", len(tokens)),
		zap.Int("ngrams", stats.NGramCount),
		zap.Int("contexts", stats.ContextCount),
		zap.String("smoother", stats.SmootherName),
		zap.Duration("elapsed", time.Since(start)),
	)
	return model, nil
}

// EstimateProbabilities returns P(token | context) for every n-gram of corpus.
func (u *EvaluateUseCase) EstimateProbabilities(ctx context.Context, corpus string, n int, useSmoothing bool) (domain.ProbabilityTable, error) {
	var smoother estimator.Smoother = estimator.MaximumLikelihood{}
	if useSmoothing {
		smoother = estimator.NewAdditiveSmoother(1)
	}

	model, err := u.Train(ctx, corpus, n, smoother)
	if err != nil {
		return nil, err
	}
	return model.Table()
}

// Likelihood multiplies, left to right, the unsmoothed probability of every
// n-gram of test under a model trained on train.
func (u *EvaluateUseCase) Likelihood(ctx context.Context, train, test string, n int) (float64, error) {
	likelihood, _, err := u.likelihood(ctx, train, test, n)
	return likelihood, err
}

// Perplexity returns likelihood^(-1/N) where N is the number of non-whitespace
// characters of test.
func (u *EvaluateUseCase) Perplexity(ctx context.Context, train, test string, n int) (float64, error) {
	likelihood, _, err := u.likelihood(ctx, train, test, n)
	if err != nil {
		return 0, err
	}
	return perplexity(likelihood, test)
}

// Evaluate computes likelihood and perplexity of test and records the run.
func (u *EvaluateUseCase) Evaluate(ctx context.Context, train, test string, n int) (domain.Run, error) {
	likelihood, scored, err := u.likelihood(ctx, train, test, n)
	if err != nil {
		return domain.Run{}, err
	}
	pp, err := perplexity(likelihood, test)
	if err != nil {
		return domain.Run{}, err
	}

	run := domain.Run{
		ID:         uuid.NewString(),
		Order:      n,
		TrainHash:  corpusHash(train),
		TrainChars: CharCount(train),
		TestChars:  CharCount(test),
		TestNGrams: scored,
		Likelihood: likelihood,
		Perplexity: pp,
		CreatedAt:  time.Now().UTC(),
	}

	if u.runs != nil {
		if err := u.runs.PutRun(run); err != nil {
			return run, fmt.Errorf("failed to record run: %w", err)
		}
	}

	u.logger.Info("evaluation complete",
		zap.String("run", run.ID),
		zap.Int("n", n),
		zap.Float64("likelihood", likelihood),
		zap.Float64("perplexity", pp),
	)
	return run, nil
}

func (u *EvaluateUseCase) likelihood(ctx context.Context, train, test string, n int) (float64, int, error) {
	model, err := u.Train(ctx, train, n, estimator.MaximumLikelihood{})
	if err != nil {
		return 0, 0, err
	}
	table, err := model.Table()
	if err != nil {
		return 0, 0, err
	}

	tokens, err := u.tokenizer.Tokenize(test, n)
	if err != nil {
		return 0, 0, err
	}

	result := 1.0
	scored := 0
	for gram := range extractor.Windows(tokens, n) {
		p, ok := table[gram]
		if !ok {
			return 0, 0, fmt.Errorf("score %q: %w", gram, domain.ErrLookupMiss)
		}
		result *= p
		scored++
	}
	return result, scored, nil
}

func perplexity(likelihood float64, test string) (float64, error) {
	chars := CharCount(test)
	if chars == 0 {
		return 0, domain.ErrArithmeticDegenerate
	}
	return math.Pow(likelihood, -1/float64(chars)), nil
}

// CharCount returns the number of characters of text once all whitespace is removed.
func CharCount(text string) int {
	return utf8.RuneCountInString(strings.Join(strings.Fields(text), ""))
}

func corpusHash(text string) string {
	hash := sha256.Sum256([]byte(text))
	return hex.EncodeToString(hash[:8])
}
