package decomposer

import (
	"sync"
	"sync/atomic"
)

// Memo caches decomposition results by exact suffix text. Entries are
// final once stored; concurrent writers of one key all carry the same
// value, so the first store wins.
type Memo struct {
	store sync.Map // map[string]Result
	size  int64
}

func (memo *Memo) Load(suffix string) (Result, bool) {
	v, ok := memo.store.Load(suffix)
	if !ok {
		return Result{}, false
	}
	return v.(Result), true
}

// Store records res for suffix unless it is already known, and returns the
// value that ends up in the table.
func (memo *Memo) Store(suffix string, res Result) Result {
	v, loaded := memo.store.LoadOrStore(suffix, res)
	if !loaded {
		atomic.AddInt64(&memo.size, 1)
	}
	return v.(Result)
}

func (memo *Memo) Len() int {
	return int(atomic.LoadInt64(&memo.size))
}
