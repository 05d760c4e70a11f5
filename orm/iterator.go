package orm

import (
	"bytes"

	"github.com/iov-one/weave-paychan"
	"github.com/iov-one/weave-paychan/errors"
)

// ModelIterator loads models from a key range, one at a time.
type ModelIterator interface {
	// LoadNext moves the iterator to the next model and loads it into
	// given destination. The key returned does not contain the bucket
	// prefix. Returns errors.ErrIteratorDone when there is nothing more
	// to load.
	LoadNext(dest Model) ([]byte, error)

	// Release releases the Iterator.
	Release()
}

type modelIterator struct {
	// this is the raw KVStoreIterator
	iterator weave.Iterator
	// this is the bucketPrefix to strip from each key
	bucketPrefix []byte
}

var _ ModelIterator = (*modelIterator)(nil)

func (i *modelIterator) LoadNext(dest Model) ([]byte, error) {
	key, value, err := i.iterator.Next()
	if err != nil {
		return nil, err
	}
	// since we use raw kvstore here, we must remove the bucket prefix manually
	if !bytes.HasPrefix(key, i.bucketPrefix) {
		return nil, errors.Wrapf(errors.ErrDatabase, "key with unexpected prefix: %X", key)
	}
	if err := dest.Unmarshal(value); err != nil {
		return nil, errors.Wrapf(err, "unmarshaling into %T", dest)
	}
	return key[len(i.bucketPrefix):], nil
}

func (i *modelIterator) Release() {
	i.iterator.Release()
}
