/*
Package app wires the extensions into a payment channel application.

It is a good place to see how the various components are combined. Coins
are held by x/cash, channels by x/paychan and x/sigs authenticates the
transactions.
*/
package app

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/iov-one/weave-paychan"
	"github.com/iov-one/weave-paychan/app"
	"github.com/iov-one/weave-paychan/errors"
	"github.com/iov-one/weave-paychan/store"
	"github.com/iov-one/weave-paychan/x"
	"github.com/iov-one/weave-paychan/x/cash"
	"github.com/iov-one/weave-paychan/x/paychan"
	"github.com/iov-one/weave-paychan/x/sigs"
	"github.com/iov-one/weave-paychan/x/utils"
	"github.com/tendermint/tendermint/libs/log"
)

// Authenticator returns the typical authentication,
// just using public key signatures
func Authenticator() x.Authenticator {
	return sigs.Authenticate{}
}

// CashControl returns a controller for cash functions
func CashControl() cash.BaseController {
	return cash.NewController()
}

// Ledger returns the payment channel ledger moving coins with the cash
// controller.
func Ledger() *paychan.Ledger {
	return paychan.NewLedger(paychan.NewBucket(), CashControl())
}

// Chain returns a chain of decorators, to handle authentication,
// logging, and recovery
func Chain() app.Decorators {
	return app.ChainDecorators(
		utils.NewLogging(),
		utils.NewRecovery(),
		utils.NewActionTagger(),
		// on CheckTx, bad tx don't affect state
		utils.NewSavepoint().OnCheck(),
		sigs.NewDecorator(),
		// on DeliverTx, a failed message is rolled back
		// before the transaction result is recorded
		utils.NewSavepoint().OnDeliver(),
	)
}

// Router returns a router dispatching all supported messages. The ledger
// is registered as the token receiver of paychan.ModuleAddress, so that
// coins pushed to that address fund a channel.
func Router(authFn x.Authenticator, ledger *paychan.Ledger) *app.Router {
	receivers := cash.NewReceivers()
	receivers.Register(paychan.ModuleAddress, ledger)

	r := app.NewRouter()
	cash.RegisterRoutes(r, authFn, CashControl(), receivers)
	paychan.RegisterRoutes(r, authFn, ledger)
	sigs.RegisterRoutes(r, authFn)
	return r
}

// Stack wires up a standard router with a standard decorator
// chain. This can be passed into a StoreApp.
func Stack() weave.Handler {
	authFn := Authenticator()
	return Chain().WithHandler(Router(authFn, Ledger()))
}

// Initializers returns the genesis initializers of all extensions.
func Initializers() weave.Initializer {
	return weave.ChainInitializers(
		cash.Initializer{},
		paychan.Initializer{},
	)
}

// Application constructs a payment channel application persisting its
// state under dbPath. An empty path keeps the state in memory.
func Application(name string, dbPath string, logger log.Logger) (*app.StoreApp, error) {
	kv, err := CommitKVStore(dbPath)
	if err != nil {
		return nil, err
	}
	s, err := app.NewStoreApp(name, kv, Stack(), context.Background())
	if err != nil {
		return nil, err
	}
	return s.WithLogger(logger), nil
}

// CommitKVStore returns an initialized KVStore that persists
// the data to the named path.
func CommitKVStore(dbPath string) (*store.CommitStore, error) {
	// memory backed case, just for testing
	if dbPath == "" {
		return store.NewMemCommitStore(), nil
	}

	// Expand the path fully
	path, err := filepath.Abs(dbPath)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInput, "invalid database name: %s", dbPath)
	}

	// Some external calls accidentally add a ".db", which is now removed
	path = strings.TrimSuffix(path, filepath.Ext(path))

	// Split the database name into it's components (dir, name)
	dir := filepath.Dir(path)
	name := filepath.Base(path)
	return store.NewLevelDBCommitStore(name, dir)
}
