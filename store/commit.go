package store

import (
	"github.com/iov-one/weave-paychan/errors"
	"github.com/tendermint/iavl"
	dbm "github.com/tendermint/tendermint/libs/db"
)

// number of tree nodes kept in memory
const cacheSize = 10000

// CommitStore keeps the application state in a versioned iavl tree that is
// persisted in a tendermint database.
//
// All changes are first collected in a working cache. Commit flushes them
// into the tree and saves a new version, whose hash is the merkle root of
// the whole state.
type CommitStore struct {
	db      dbm.DB
	tree    *iavl.MutableTree
	working BTreeCacheWrap
}

var _ CommitKVStore = (*CommitStore)(nil)

// NewCommitStore loads the latest saved version from given database.
func NewCommitStore(db dbm.DB) (*CommitStore, error) {
	tree := iavl.NewMutableTree(db, cacheSize)
	if _, err := tree.LoadVersion(0); err != nil {
		return nil, errors.Wrapf(errors.ErrDatabase, "load tree: %s", err)
	}
	s := &CommitStore{db: db, tree: tree}
	s.resetWorking()
	return s, nil
}

// NewMemCommitStore returns a commit store without persistence.
func NewMemCommitStore() *CommitStore {
	s, err := NewCommitStore(dbm.NewMemDB())
	if err != nil {
		// A fresh memory database holds no versions to fail on.
		panic(err)
	}
	return s
}

// NewLevelDBCommitStore opens (or creates) a goleveldb database named name
// inside of dir.
func NewLevelDBCommitStore(name, dir string) (*CommitStore, error) {
	db, err := dbm.NewGoLevelDB(name, dir)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrDatabase, "open leveldb: %s", err)
	}
	s, err := NewCommitStore(db)
	if err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *CommitStore) resetWorking() {
	t := treeStore{tree: s.tree}
	s.working = NewBTreeCacheWrap(t, t.NewBatch(), nil)
}

// Get returns the value at last committed state
// returns nil iff key doesn't exist.
func (s *CommitStore) Get(key []byte) ([]byte, error) {
	_, val := s.tree.GetVersioned(key, s.tree.Version())
	return val, nil
}

// CacheWrap returns a cache on top of the working state. Writing it makes
// the changes part of the next commit.
func (s *CommitStore) CacheWrap() KVCacheWrap {
	return s.working.CacheWrap()
}

// Commit writes all changes collected since the last commit into the tree
// and saves them as a new version.
func (s *CommitStore) Commit() (CommitID, error) {
	if err := s.working.Write(); err != nil {
		return CommitID{}, errors.Wrap(err, "flush working state")
	}
	hash, version, err := s.tree.SaveVersion()
	if err != nil {
		return CommitID{}, errors.Wrapf(errors.ErrDatabase, "save version: %s", err)
	}
	s.resetWorking()
	return CommitID{Version: version, Hash: hash}, nil
}

// LatestVersion returns info on the latest version saved to disk
func (s *CommitStore) LatestVersion() (CommitID, error) {
	return CommitID{
		Version: s.tree.Version(),
		Hash:    s.tree.Hash(),
	}, nil
}

// Close releases the underlying database.
func (s *CommitStore) Close() {
	s.db.Close()
}

// treeStore exposes the working state of an iavl tree as a KVStore.
type treeStore struct {
	tree *iavl.MutableTree
}

var _ KVStore = treeStore{}

// Get returns nil iff key doesn't exist.
func (t treeStore) Get(key []byte) ([]byte, error) {
	_, val := t.tree.Get(key)
	return val, nil
}

func (t treeStore) Has(key []byte) (bool, error) {
	return t.tree.Has(key), nil
}

// Set adds a new value. The tree cannot hold nil values.
func (t treeStore) Set(key, value []byte) error {
	if value == nil {
		return errors.Wrap(errors.ErrInput, "nil value")
	}
	t.tree.Set(key, value)
	return nil
}

// Delete removes from the tree
func (t treeStore) Delete(key []byte) error {
	t.tree.Remove(key)
	return nil
}

// NewBatch returns a batch that applies all ops one by one.
func (t treeStore) NewBatch() Batch {
	return NewNonAtomicBatch(t)
}

// Iterator over a domain of keys in ascending order. End is exclusive.
func (t treeStore) Iterator(start, end []byte) (Iterator, error) {
	return t.iterate(start, end, true), nil
}

// ReverseIterator over a domain of keys in descending order. End is exclusive.
func (t treeStore) ReverseIterator(start, end []byte) (Iterator, error) {
	return t.iterate(start, end, false), nil
}

func (t treeStore) iterate(start, end []byte, ascending bool) Iterator {
	var res []Model
	t.tree.IterateRange(start, end, ascending, func(key, value []byte) bool {
		res = append(res, Model{Key: key, Value: value})
		return false
	})
	return NewSliceIterator(res)
}
