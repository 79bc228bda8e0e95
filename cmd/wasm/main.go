//go:build js && wasm

package main

import (
	"context"
	"encoding/json"
	"syscall/js"

	"ngramlm/internal/adapter/analyzer"
	"ngramlm/internal/adapter/memstore"
	"ngramlm/internal/usecase"
)

var (
	runs     *memstore.MemoryStore
	evaluate *usecase.EvaluateUseCase
)

func init() {
	runs = memstore.NewMemoryStore()
	evaluate = usecase.NewEvaluateUseCase(analyzer.NewTokenizer(), runs, 1, nil)
}

func main() {
	c := make(chan struct{})

	js.Global().Set("ngramTokenize", js.FuncOf(tokenize))
	js.Global().Set("ngramEstimate", js.FuncOf(estimate))
	js.Global().Set("ngramLikelihood", js.FuncOf(likelihood))
	js.Global().Set("ngramPerplexity", js.FuncOf(perplexity))
	js.Global().Set("ngramHistory", js.FuncOf(history))
	js.Global().Set("ngramClear", js.FuncOf(clearHistory))

	<-c
}

func tokenize(this js.Value, args []js.Value) interface{} {
	if len(args) < 2 {
		return makeError("usage: ngramTokenize(text, n)")
	}

	tokens, err := evaluate.Tokenize(args[0].String(), args[1].Int())
	if err != nil {
		return makeError(err.Error())
	}

	return makeResult(map[string]interface{}{
		"tokens":    tokens,
		"sentences": analyzer.SentenceCount(tokens),
	})
}

func estimate(this js.Value, args []js.Value) interface{} {
	if len(args) < 2 {
		return makeError("usage: ngramEstimate(corpus, n, [smoothing])")
	}

	smoothing := len(args) > 2 && args[2].Truthy()
	table, err := evaluate.EstimateProbabilities(context.Background(), args[0].String(), args[1].Int(), smoothing)
	if err != nil {
		return makeError(err.Error())
	}

	return makeResult(map[string]interface{}{
		"probabilities": table.Entries(),
	})
}

func likelihood(this js.Value, args []js.Value) interface{} {
	if len(args) < 3 {
		return makeError("usage: ngramLikelihood(train, test, n)")
	}

	l, err := evaluate.Likelihood(context.Background(), args[0].String(), args[1].String(), args[2].Int())
	if err != nil {
		return makeError(err.Error())
	}

	return makeResult(map[string]interface{}{
		"likelihood": l,
	})
}

func perplexity(this js.Value, args []js.Value) interface{} {
	if len(args) < 3 {
		return makeError("usage: ngramPerplexity(train, test, n)")
	}

	run, err := evaluate.Evaluate(context.Background(), args[0].String(), args[1].String(), args[2].Int())
	if err != nil {
		return makeError(err.Error())
	}

	return makeResult(map[string]interface{}{
		"run": run,
	})
}

func history(this js.Value, args []js.Value) interface{} {
	list, err := runs.ListRuns()
	if err != nil {
		return makeError(err.Error())
	}
	return makeResult(map[string]interface{}{
		"runs": list,
	})
}

func clearHistory(this js.Value, args []js.Value) interface{} {
	runs = memstore.NewMemoryStore()
	evaluate = usecase.NewEvaluateUseCase(analyzer.NewTokenizer(), runs, 1, nil)
	return makeResult(map[string]interface{}{
		"success": true,
	})
}

func makeError(msg string) interface{} {
	result, _ := json.Marshal(map[string]interface{}{
		"error": msg,
	})
	return string(result)
}

func makeResult(data map[string]interface{}) interface{} {
	result, _ := json.Marshal(data)
	return string(result)
}
