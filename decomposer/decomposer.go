// Package decomposer splits words into chains of words held by a trie.
//
// The split is the first one found when scanning prefixes from shortest to
// longest: at each prefix that is a word, the rest of the word is
// decomposed recursively and the first decomposable rest wins. This is not
// a search for the split with the fewest or most parts.
package decomposer

import (
	"text2phenotype.com/compound/trie"
)

// Result of a decomposition. PartCount is zero when the word can not be
// split, and then Parts is empty.
type Result struct {
	PartCount int      `json:"partCount"`
	Parts     []string `json:"parts"`
}

var notDecomposable = Result{}

func (res Result) clone() Result {
	if len(res.Parts) == 0 {
		return res
	}
	parts := make([]string, len(res.Parts))
	copy(parts, res.Parts)
	return Result{PartCount: res.PartCount, Parts: parts}
}

// Decomposer is bound to one built trie and owns the memo for it.
// It is safe for concurrent use as long as the trie is no longer modified.
type Decomposer struct {
	pTree *trie.PrefixTrie
	memo  *Memo
}

func New(pTree *trie.PrefixTrie) *Decomposer {
	return &Decomposer{
		pTree: pTree,
		memo:  &Memo{},
	}
}

// Decompose returns the first successful split of word into trie words.
// The returned Parts belong to the caller.
func (d *Decomposer) Decompose(word string) Result {
	return d.decompose(word).clone()
}

// decompose shares Parts slices with the memo; they must not be modified.
func (d *Decomposer) decompose(word string) Result {
	if len(word) == 0 {
		return notDecomposable
	}
	if res, ok := d.memo.Load(word); ok {
		return res
	}

	node := d.pTree.Root
	for end := 0; end < len(word); {
		c, size := trie.NextSymbol(word[end:])
		end += size
		node = node.Next(c)
		if node == nil {
			return notDecomposable
		}
		if !node.IsTerminal {
			continue
		}

		suffix := word[end:]
		suffixRes := d.memo.Store(suffix, d.decompose(suffix))
		if suffixRes.PartCount > 0 {
			parts := make([]string, 0, suffixRes.PartCount+1)
			parts = append(parts, word[:end])
			parts = append(parts, suffixRes.Parts...)
			return Result{
				PartCount: suffixRes.PartCount + 1,
				Parts:     parts,
			}
		}
	}

	if node.IsTerminal {
		return Result{PartCount: 1, Parts: []string{word}}
	}
	return notDecomposable
}

// ClassifyCompound reports whether word splits into more than one word.
// A word that is only itself a trie entry is not compound.
func (d *Decomposer) ClassifyCompound(word string) (bool, int, []string) {
	res := d.Decompose(word)
	return res.PartCount > 1, res.PartCount, res.Parts
}

func (d *Decomposer) MemoSize() int {
	return d.memo.Len()
}
