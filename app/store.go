package app

import (
	"sync"
	"time"

	"github.com/iov-one/weave-paychan"
	"github.com/iov-one/weave-paychan/errors"
	"github.com/tendermint/tendermint/libs/log"
)

// StoreApp contains a data store and all info needed to process
// transactions in order.
//
// Every public method takes the same lock, so that at most one of them is
// executing at any time. Deliveries are written to a deliver cache that is
// flushed into the committed store on Commit. Each check runs on a separate
// check cache, so that it never changes the state seen by deliveries.
type StoreApp struct {
	mu     sync.Mutex
	logger log.Logger

	// name is used in the log entries
	name string

	store   weave.CommitKVStore
	deliver weave.KVCacheWrap
	check   weave.KVCacheWrap

	handler weave.Handler

	// chainID is loaded from db in initialization
	// saved once in InitChain
	chainID string

	// baseContext contains context info that is valid for
	// lifetime of this app (eg. chainID)
	baseContext weave.Context

	// blockContext contains context info that is valid for the
	// current block (eg. height, time), reset on BeginBlock
	blockContext weave.Context
	inBlock      bool
}

// NewStoreApp initializes this app into a ready state. If the store holds
// a previously initialized chain, its chain ID is loaded.
func NewStoreApp(name string, store weave.CommitKVStore, handler weave.Handler, baseContext weave.Context) (*StoreApp, error) {
	s := &StoreApp{
		logger:      log.NewNopLogger(),
		name:        name,
		store:       store,
		deliver:     store.CacheWrap(),
		check:       store.CacheWrap(),
		handler:     handler,
		baseContext: baseContext,
	}

	chainID, err := loadChainID(s.deliver)
	if err != nil {
		return nil, err
	}
	if chainID != "" {
		s.chainID = chainID
		s.baseContext = weave.WithChainID(s.baseContext, chainID)
	}
	return s, nil
}

// WithLogger sets the logger on the StoreApp and returns it,
// to make it easy to chain in initialization
//
// also sets baseContext logger
func (s *StoreApp) WithLogger(logger log.Logger) *StoreApp {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.logger = logger.With("app", s.name)
	s.baseContext = weave.WithLogger(s.baseContext, s.logger)
	return s
}

// ChainID returns the current chainID
func (s *StoreApp) ChainID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.chainID
}

// InitChain stores the chain ID and passes the application state to
// the initializer. It is called only once, the first time the chain
// starts. The state is persisted by the following Commit.
func (s *StoreApp) InitChain(gen Genesis, init weave.Initializer) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.chainID != "" {
		return errors.Wrapf(errors.ErrState, "app state previously loaded for chain: %s", s.chainID)
	}
	if gen.AppState == nil {
		return errors.Wrap(errors.ErrEmpty, "app_state not set in genesis")
	}

	// Initialization is all or nothing.
	cache := s.deliver.CacheWrap()
	if err := saveChainID(cache, gen.ChainID); err != nil {
		cache.Discard()
		return err
	}
	if init != nil {
		if err := init.FromGenesis(gen.AppState, cache); err != nil {
			cache.Discard()
			return errors.Wrap(err, "initialize from genesis")
		}
	}
	if err := cache.Write(); err != nil {
		return errors.Wrap(err, "write genesis state")
	}

	s.chainID = gen.ChainID
	s.baseContext = weave.WithChainID(s.baseContext, gen.ChainID)
	s.logger.Info("chain initialized", "chain_id", gen.ChainID)
	return nil
}

// LoadGenesis reads the genesis file and initializes the chain with it.
func (s *StoreApp) LoadGenesis(filePath string, init weave.Initializer) error {
	gen, err := LoadGenesis(filePath)
	if err != nil {
		return err
	}
	return s.InitChain(gen, init)
}

// BeginBlock starts a new block. Its height and time are visible to all
// transactions until the next Commit.
func (s *StoreApp) BeginBlock(height int64, now time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.chainID == "" {
		return errors.Wrap(errors.ErrState, "chain not initialized")
	}
	if s.inBlock {
		return errors.Wrap(errors.ErrState, "block already started")
	}
	latest, err := s.store.LatestVersion()
	if err != nil {
		return errors.Wrap(err, "latest version")
	}
	if height <= latest.Version {
		return errors.Wrapf(errors.ErrInput, "height %d not after %d", height, latest.Version)
	}

	ctx := weave.WithHeight(s.baseContext, height)
	ctx = weave.WithBlockTime(ctx, now)
	s.blockContext = ctx
	s.inBlock = true
	return nil
}

// CheckTx runs the handler checks without changing the delivered state.
func (s *StoreApp) CheckTx(tx weave.Tx) (*weave.CheckResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.inBlock {
		return nil, errors.Wrap(errors.ErrState, "no block started")
	}
	ctx := weave.WithLogInfo(s.blockContext,
		"call", "check_tx",
		"path", weave.GetPath(tx))

	cache := s.check.CacheWrap()
	res, err := s.handler.Check(ctx, cache, tx)
	if err != nil {
		cache.Discard()
		return nil, err
	}
	if err := cache.Write(); err != nil {
		return nil, errors.Wrap(err, "write check state")
	}
	return res, nil
}

// DeliverTx executes the transaction. A failed transaction leaves no
// changes behind.
func (s *StoreApp) DeliverTx(tx weave.Tx) (*weave.DeliverResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.inBlock {
		return nil, errors.Wrap(errors.ErrState, "no block started")
	}
	ctx := weave.WithLogInfo(s.blockContext,
		"call", "deliver_tx",
		"path", weave.GetPath(tx))

	cache := s.deliver.CacheWrap()
	res, err := s.deliverTx(ctx, cache, tx)
	if err != nil {
		cache.Discard()
		return nil, err
	}
	if err := cache.Write(); err != nil {
		return nil, errors.Wrap(err, "write deliver state")
	}
	return res, nil
}

func (s *StoreApp) deliverTx(ctx weave.Context, db weave.KVStore, tx weave.Tx) (res *weave.DeliverResult, err error) {
	defer errors.Recover(&err)
	return s.handler.Deliver(ctx, db, tx)
}

// Commit persists all delivered transactions and ends the current block.
func (s *StoreApp) Commit() (weave.CommitID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.deliver.Write(); err != nil {
		return weave.CommitID{}, errors.Wrap(err, "flush deliver state")
	}
	id, err := s.store.Commit()
	if err != nil {
		return weave.CommitID{}, errors.Wrap(err, "commit")
	}
	s.logger.Info("commit synced", "version", id.Version, "hash", id.Hash)

	s.deliver = s.store.CacheWrap()
	s.check.Discard()
	s.check = s.store.CacheWrap()
	s.inBlock = false
	return id, nil
}

// LatestVersion returns the information about the last commit.
func (s *StoreApp) LatestVersion() (weave.CommitID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.LatestVersion()
}

// View calls fn with a read only snapshot of the state including every
// delivered, possibly not yet committed, transaction.
func (s *StoreApp) View(fn func(weave.ReadOnlyKVStore) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := s.deliver.CacheWrap()
	defer snapshot.Discard()
	return fn(snapshot)
}
