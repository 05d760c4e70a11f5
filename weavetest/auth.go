package weavetest

import (
	"context"
	"fmt"

	"github.com/iov-one/weave-paychan"
)

// Auth is an x.Authenticator that considers a fixed set of conditions as
// signers of every transaction.
//
// Signer is a shortcut for the common single signer case. GetConditions
// returns Signers followed by Signer.
type Auth struct {
	Signer  weave.Condition
	Signers []weave.Condition
}

func (a *Auth) GetConditions(weave.Context) []weave.Condition {
	if a.Signer == nil {
		return a.Signers
	}
	conds := make([]weave.Condition, 0, len(a.Signers)+1)
	conds = append(conds, a.Signers...)
	return append(conds, a.Signer)
}

func (a *Auth) HasAddress(ctx weave.Context, addr weave.Address) bool {
	return hasAddress(a.GetConditions(ctx), addr)
}

// CtxAuth is an x.Authenticator that reads the signers from the context.
// Use SetConditions to declare who signed, for example the owner of a
// channel in one call and its receiver in the next one.
type CtxAuth struct {
	// Key under which the conditions are stored in the context.
	Key string
}

// SetConditions returns a context in which the given conditions signed.
func (a *CtxAuth) SetConditions(ctx weave.Context, conds ...weave.Condition) weave.Context {
	return context.WithValue(ctx, a.Key, conds)
}

func (a *CtxAuth) GetConditions(ctx weave.Context) []weave.Condition {
	switch conds := ctx.Value(a.Key).(type) {
	case nil:
		return nil
	case []weave.Condition:
		return conds
	default:
		panic(fmt.Sprintf("instead of []weave.Condition got %T", conds))
	}
}

func (a *CtxAuth) HasAddress(ctx weave.Context, addr weave.Address) bool {
	return hasAddress(a.GetConditions(ctx), addr)
}

func hasAddress(conds []weave.Condition, addr weave.Address) bool {
	for _, c := range conds {
		if addr.Equals(c.Address()) {
			return true
		}
	}
	return false
}
