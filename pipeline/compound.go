package pipeline

import (
	"context"
	"encoding/json"
	"text2phenotype.com/compound/decomposer"
	"text2phenotype.com/compound/logger"
	"text2phenotype.com/compound/trie"
	"text2phenotype.com/compound/types"
	"time"
)

type CompoundParams struct {
	ConfigName string `json:"config_name"`
	ConfigHash uint64 `json:"config_hash"`
	Workers    int    `json:"workers"`
	Top        int    `json:"top"`
}

func GetCompoundParams(cfg types.Configuration) CompoundParams {
	return CompoundParams{
		ConfigName: cfg.Name,
		ConfigHash: cfg.GetHashCode(),
		Workers:    cfg.Workers,
		Top:        cfg.Top,
	}
}

type Analysis struct {
	Trie       *trie.PrefixTrie
	Decomposer *decomposer.Decomposer
	// Ranked holds the compound words, longest first.
	Ranked []types.CompoundEntry
}

// Analyze builds the trie from words, classifies every word and ranks the
// compound ones.
func Analyze(ctx context.Context, words []string, params CompoundParams) (*Analysis, error) {
	compLogger := logger.NewLogger("Compound analysis").With().
		Str("config_name", params.ConfigName).
		Uint64("config_hash", params.ConfigHash).
		Logger()
	started := time.Now()
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	pTree := trie.Build(words)
	compLogger.Debug().
		Int("words", len(words)).
		Int("distinct_words", pTree.Len()).
		Int("trie_nodes", pTree.Nodes()).
		Msg("Built prefix trie")

	d := decomposer.New(pTree)
	var entries []types.CompoundEntry
	// a context that can be canceled is checked between words, even with
	// a single worker
	if params.Workers > 1 || ctx.Done() != nil {
		var err error
		entries, err = CompoundListParallel(ctx, d, words, params.Workers)
		if err != nil {
			compLogger.Err(err).Msg("Compound classification stopped")
			return nil, err
		}
	} else {
		entries = CompoundList(d, words)
	}

	compLogger.Info().
		Int("words", len(words)).
		Int("compound_words", len(entries)).
		Int("memo_size", d.MemoSize()).
		Dur("elapsed", time.Since(started)).
		Msg("Classified word list")

	return &Analysis{
		Trie:       pTree,
		Decomposer: d,
		Ranked:     Rank(entries),
	}, nil
}

func NewCompoundPipeline(params CompoundParams) Pipeline {
	compLogger := logger.NewLogger("Compound pipeline")
	compLogger.Info().
		Interface("params", params).
		Msg("Created compound pipeline (see parameters in 'params' field)")

	return func(request Request) <-chan string {
		responseChan := make(chan string, 1)
		pplnLog := compLogger.With().Str("tid", request.Tid).Logger()
		errLogger := pplnLog.With().Caller().Logger()

		go func() {
			defer close(responseChan)
			pplnLog.Info().Msg("Started compound pipeline")

			analysis, err := Analyze(request.Context(), request.Words, params)
			if err != nil {
				errLogger.Err(err).Msg("Failed to analyze word list")
				return
			}

			response := types.NewCompoundResponse(request.Tid, request.Words, analysis.Ranked, params.Top)
			buf, err := json.Marshal(response)
			if err != nil {
				errLogger.Err(err).Msg("Failed to marshall response")
				return
			}
			pplnLog.Info().Msg("Finished compound pipeline")
			responseChan <- string(buf)
		}()

		return responseChan
	}
}
