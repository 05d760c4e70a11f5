package store

import (
	"bytes"

	"github.com/google/btree"
	"github.com/iov-one/weave-paychan/errors"
)

// cachedItems returns a snapshot of all btree items within [start, end).
// Taking a copy upfront means the iterator never holds the tree, so it is
// safe to write to the cache as soon as the iterator is released.
func cachedItems(bt *btree.BTree, start, end []byte, reverse bool) []keyer {
	var res []keyer
	collect := func(item btree.Item) bool {
		res = append(res, item.(keyer))
		return true
	}

	switch {
	case start == nil && end == nil:
		bt.Ascend(collect)
	case start == nil:
		bt.AscendLessThan(bkey{end}, collect)
	case end == nil:
		bt.AscendGreaterOrEqual(bkey{start}, collect)
	default:
		bt.AscendRange(bkey{start}, bkey{end}, collect)
	}

	if reverse {
		for i, j := 0, len(res)-1; i < j; i, j = i+1, j-1 {
			res[i], res[j] = res[j], res[i]
		}
	}
	return res
}

// cacheIterator combines cached writes with the results of the parent
// iterator. When both hold the same key, the cached item wins, and a cached
// delete hides the parent value.
type cacheIterator struct {
	items   []keyer
	parent  Iterator
	reverse bool

	// lookahead of the parent iterator
	pKey   []byte
	pValue []byte
	pDone  bool
}

var _ Iterator = (*cacheIterator)(nil)

func newCacheIterator(items []keyer, parent Iterator, reverse bool) (*cacheIterator, error) {
	it := &cacheIterator{
		items:   items,
		parent:  parent,
		reverse: reverse,
	}
	if err := it.advanceParent(); err != nil {
		parent.Release()
		return nil, err
	}
	return it, nil
}

func (i *cacheIterator) advanceParent() error {
	key, value, err := i.parent.Next()
	if err != nil {
		if !errors.ErrIteratorDone.Is(err) {
			return err
		}
		i.pKey, i.pValue, i.pDone = nil, nil, true
		return nil
	}
	i.pKey, i.pValue = key, value
	return nil
}

// Next returns the next visible key-value pair, skipping deleted entries.
func (i *cacheIterator) Next() (key, value []byte, err error) {
	for {
		if len(i.items) == 0 {
			if i.pDone {
				return nil, nil, errors.Wrap(errors.ErrIteratorDone, "cache iterator")
			}
			key, value = i.pKey, i.pValue
			if err := i.advanceParent(); err != nil {
				return nil, nil, err
			}
			return key, value, nil
		}

		item := i.items[0]
		if !i.pDone {
			cmp := bytes.Compare(i.pKey, item.Key())
			if i.reverse {
				cmp = -cmp
			}
			if cmp < 0 {
				key, value = i.pKey, i.pValue
				if err := i.advanceParent(); err != nil {
					return nil, nil, err
				}
				return key, value, nil
			}
			if cmp == 0 {
				// Shadowed by the cache.
				if err := i.advanceParent(); err != nil {
					return nil, nil, err
				}
			}
		}

		i.items = i.items[1:]
		if set, ok := item.(setItem); ok {
			return set.key, set.value, nil
		}
	}
}

// Release releases the Iterator.
func (i *cacheIterator) Release() {
	i.items = nil
	i.parent.Release()
}
