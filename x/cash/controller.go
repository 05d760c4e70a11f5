package cash

import (
	"github.com/iov-one/weave-paychan"
	"github.com/iov-one/weave-paychan/errors"
	"github.com/iov-one/weave-paychan/orm"
)

// Controller is the value ledger capability other extensions depend on.
type Controller interface {
	// Balance returns the amount of coins held by given address. An
	// unknown address holds nothing.
	Balance(db weave.ReadOnlyKVStore, addr weave.Address) (uint64, error)

	// MoveCoins moves the given amount from src to dest. If src does not
	// have sufficient coins, it fails.
	MoveCoins(db weave.KVStore, src, dest weave.Address, amount uint64) error

	// TransferFrom moves the given amount from owner to dest on behalf of
	// spender. It fails unless the owner approved at least that amount for
	// the spender. The allowance is consumed.
	TransferFrom(db weave.KVStore, spender, owner, dest weave.Address, amount uint64) error
}

// AllowanceController extends Controller with allowance management.
type AllowanceController interface {
	Controller

	// Approve sets the amount spender may pull from owner. Zero revokes the
	// allowance.
	Approve(db weave.KVStore, owner, spender weave.Address, amount uint64) error

	// Allowance returns the amount spender may still pull from owner.
	Allowance(db weave.ReadOnlyKVStore, owner, spender weave.Address) (uint64, error)
}

// BaseController is a simple implementation of the value ledger.
type BaseController struct {
	wallets    orm.ModelBucket
	allowances orm.ModelBucket
}

var _ AllowanceController = BaseController{}

// NewController returns a controller using the default buckets.
func NewController() BaseController {
	return BaseController{
		wallets:    NewWalletBucket(),
		allowances: NewAllowanceBucket(),
	}
}

func (c BaseController) Balance(db weave.ReadOnlyKVStore, addr weave.Address) (uint64, error) {
	var w Wallet
	switch err := c.wallets.One(db, addr, &w); {
	case err == nil:
		return w.Balance, nil
	case errors.ErrNotFound.Is(err):
		return 0, nil
	default:
		return 0, errors.Wrap(err, "load wallet")
	}
}

func (c BaseController) MoveCoins(db weave.KVStore, src, dest weave.Address, amount uint64) error {
	if amount == 0 {
		return errors.Wrap(errors.ErrAmount, "non-positive amount")
	}
	if err := src.Validate(); err != nil {
		return errors.Wrap(err, "src")
	}
	if err := dest.Validate(); err != nil {
		return errors.Wrap(err, "dest")
	}

	have, err := c.Balance(db, src)
	if err != nil {
		return err
	}
	if have < amount {
		return errors.Wrapf(errors.ErrAmount, "insufficient funds: have %d, need %d", have, amount)
	}
	if err := c.setBalance(db, src, have-amount); err != nil {
		return errors.Wrap(err, "debit")
	}
	return c.IssueCoins(db, dest, amount)
}

// IssueCoins adds the given amount of coins to the destination address. It
// fails if the balance overflows.
func (c BaseController) IssueCoins(db weave.KVStore, dest weave.Address, amount uint64) error {
	if err := dest.Validate(); err != nil {
		return errors.Wrap(err, "dest")
	}
	have, err := c.Balance(db, dest)
	if err != nil {
		return err
	}
	total := have + amount
	if total < have {
		return errors.Wrapf(errors.ErrOverflow, "balance of %s", dest)
	}
	return c.setBalance(db, dest, total)
}

func (c BaseController) setBalance(db weave.KVStore, addr weave.Address, balance uint64) error {
	if balance == 0 {
		err := c.wallets.Delete(db, addr)
		if errors.ErrNotFound.Is(err) {
			return nil
		}
		return err
	}
	return c.wallets.Put(db, addr, &Wallet{Balance: balance})
}

func (c BaseController) TransferFrom(db weave.KVStore, spender, owner, dest weave.Address, amount uint64) error {
	allowed, err := c.Allowance(db, owner, spender)
	if err != nil {
		return err
	}
	if allowed < amount {
		return errors.Wrapf(errors.ErrAmount, "allowance exceeded: approved %d, need %d", allowed, amount)
	}
	if err := c.MoveCoins(db, owner, dest, amount); err != nil {
		return err
	}
	return c.Approve(db, owner, spender, allowed-amount)
}

func (c BaseController) Approve(db weave.KVStore, owner, spender weave.Address, amount uint64) error {
	if err := owner.Validate(); err != nil {
		return errors.Wrap(err, "owner")
	}
	if err := spender.Validate(); err != nil {
		return errors.Wrap(err, "spender")
	}
	key := AllowanceKey(owner, spender)
	if amount == 0 {
		err := c.allowances.Delete(db, key)
		if errors.ErrNotFound.Is(err) {
			return nil
		}
		return err
	}
	return c.allowances.Put(db, key, &Allowance{Amount: amount})
}

func (c BaseController) Allowance(db weave.ReadOnlyKVStore, owner, spender weave.Address) (uint64, error) {
	var a Allowance
	switch err := c.allowances.One(db, AllowanceKey(owner, spender), &a); {
	case err == nil:
		return a.Amount, nil
	case errors.ErrNotFound.Is(err):
		return 0, nil
	default:
		return 0, errors.Wrap(err, "load allowance")
	}
}
