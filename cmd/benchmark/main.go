package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"reflect"
	"strings"
	"time"

	"ngramlm/config"
	"ngramlm/internal/adapter/analyzer"
	"ngramlm/internal/adapter/extractor"
	"ngramlm/internal/adapter/fs"
	"ngramlm/internal/domain"
	"ngramlm/internal/usecase"
)

func main() {
	corpusPath := flag.String("corpus", "", "Corpus file or directory")
	order := flag.Int("n", 3, "Model order")
	maxShards := flag.Int("shards", 8, "Largest shard count to try")
	rounds := flag.Int("rounds", 3, "Timed rounds per configuration")
	flag.Parse()

	if *corpusPath == "" {
		fmt.Println("Usage: go run cmd/benchmark/main.go -corpus ./texts -n 3")
		fmt.Println("\nMeasures:")
		fmt.Println("  1. Tokenization throughput")
		fmt.Println("  2. Sequential vs sharded n-gram counting (results must match)")
		os.Exit(1)
	}

	cfg, err := config.LoadFromDir(".")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	corpusUC := usecase.NewCorpusUseCase(fs.NewWalker(cfg.Corpus.Includes, cfg.Corpus.Excludes), fs.Reader{}, nil)
	corpus, err := corpusUC.Load(*corpusPath, nil)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading corpus: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("N-GRAM COUNTING BENCHMARK")
	fmt.Println(strings.Repeat("=", 70))
	fmt.Printf("Files: %d  Bytes: %d  Order: %d\n", len(corpus.Files), len(corpus.Text), *order)

	start := time.Now()
	tokens, err := analyzer.NewTokenizer().Tokenize(corpus.Text, *order)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Tokenize error: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Tokenized %d tokens (%d sentences) in %s\n", len(tokens), analyzer.SentenceCount(tokens), time.Since(start))
	fmt.Println(strings.Repeat("-", 70))

	baseline := extractor.CountOccurrences(tokens, *order)
	seqTime := timeIt(*rounds, func() {
		extractor.CountOccurrences(tokens, *order)
	})
	fmt.Printf("%-12s %12s  %d distinct %d-grams\n", "sequential", seqTime, len(baseline), *order)

	ctx := context.Background()
	for shards := 2; shards <= *maxShards; shards *= 2 {
		var counts domain.CountTable
		elapsed := timeIt(*rounds, func() {
			counts, err = extractor.CountOccurrencesSharded(ctx, tokens, *order, shards)
		})
		if err != nil {
			fmt.Fprintf(os.Stderr, "Sharded count error: %v\n", err)
			os.Exit(1)
		}

		status := "OK"
		if !reflect.DeepEqual(counts, baseline) {
			status = "MISMATCH"
		}
		speedup := float64(seqTime) / float64(elapsed)
		fmt.Printf("%-12s %12s  x%.2f  %s\n", fmt.Sprintf("shards=%d", shards), elapsed, speedup, status)
	}
}

func timeIt(rounds int, fn func()) time.Duration {
	if rounds < 1 {
		rounds = 1
	}
	start := time.Now()
	for i := 0; i < rounds; i++ {
		fn()
	}
	return time.Since(start) / time.Duration(rounds)
}
