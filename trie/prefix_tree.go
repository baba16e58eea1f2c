// Package trie holds the write-once prefix tree the decomposer walks.
package trie

// Node is a single symbol of one or more inserted words. Symbols come from
// NextSymbol: runes, or negative values for invalid UTF-8 bytes.
type Node struct {
	Symbol     rune
	IsTerminal bool
	Children   map[rune]*Node
}

// Next returns the child reached by c, or nil.
func (node *Node) Next(c rune) *Node {
	if node == nil || node.Children == nil {
		return nil
	}
	return node.Children[c]
}

type PrefixTrie struct {
	Root  *Node
	words int
	nodes int
}

func New() *PrefixTrie {
	return &PrefixTrie{Root: &Node{}, nodes: 1}
}

// Build inserts every word in order.
func Build(words []string) *PrefixTrie {
	pTree := New()
	for _, w := range words {
		pTree.Insert(w)
	}
	return pTree
}

// Insert adds word to the tree and reports whether it was not present yet.
// The empty word is ignored: the root is never terminal.
func (pTree *PrefixTrie) Insert(word string) bool {
	if len(word) == 0 {
		return false
	}

	node := pTree.Root
	for i := 0; i < len(word); {
		c, size := NextSymbol(word[i:])
		i += size
		childNode, isOk := node.Children[c]
		if isOk {
			node = childNode
			continue
		}

		if node.Children == nil {
			node.Children = make(map[rune]*Node)
		}
		childNode = &Node{Symbol: c}
		node.Children[c] = childNode
		pTree.nodes++
		node = childNode
	}

	if node.IsTerminal {
		return false
	}
	node.IsTerminal = true
	pTree.words++
	return true
}

func (pTree *PrefixTrie) Contains(word string) bool {
	if len(word) == 0 {
		return false
	}

	node := pTree.Root
	for i := 0; i < len(word); {
		c, size := NextSymbol(word[i:])
		i += size
		node = node.Next(c)
		if node == nil {
			return false
		}
	}
	return node.IsTerminal
}

// Len is the number of distinct words inserted.
func (pTree *PrefixTrie) Len() int {
	return pTree.words
}

// Nodes counts every node including the root.
func (pTree *PrefixTrie) Nodes() int {
	return pTree.nodes
}
