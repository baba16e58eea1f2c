package pipeline

import (
	"context"
	"golang.org/x/sync/errgroup"
	"sort"
	"text2phenotype.com/compound/decomposer"
	"text2phenotype.com/compound/types"
	"unicode/utf8"
)

// CompoundList classifies words in order and keeps the compound ones.
func CompoundList(d *decomposer.Decomposer, words []string) []types.CompoundEntry {
	var entries []types.CompoundEntry
	for _, w := range words {
		if isCompound, count, parts := d.ClassifyCompound(w); isCompound {
			entries = append(entries, types.CompoundEntry{Word: w, PartCount: count, Parts: parts})
		}
	}
	return entries
}

// CompoundListParallel returns what CompoundList returns, splitting the
// words between workers goroutines that share d.
func CompoundListParallel(ctx context.Context, d *decomposer.Decomposer, words []string, workers int) ([]types.CompoundEntry, error) {
	if workers < 1 {
		workers = 1
	}
	results := make([]decomposer.Result, len(words))

	g, gCtx := errgroup.WithContext(ctx)
	for w := 0; w < workers; w++ {
		first := w
		g.Go(func() error {
			for i := first; i < len(words); i += workers {
				if err := gCtx.Err(); err != nil {
					return err
				}
				results[i] = d.Decompose(words[i])
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var entries []types.CompoundEntry
	for i, res := range results {
		if res.PartCount > 1 {
			entries = append(entries, types.CompoundEntry{Word: words[i], PartCount: res.PartCount, Parts: res.Parts})
		}
	}
	return entries, nil
}

// Rank orders entries longest word first, in place. Words of equal length
// keep their relative order.
func Rank(entries []types.CompoundEntry) []types.CompoundEntry {
	sort.SliceStable(entries, func(i, j int) bool {
		return utf8.RuneCountInString(entries[i].Word) > utf8.RuneCountInString(entries[j].Word)
	})
	return entries
}
