package app

import (
	"encoding/json"
	"time"

	"github.com/iov-one/weave-paychan"
	"github.com/iov-one/weave-paychan/app"
	"github.com/iov-one/weave-paychan/errors"
	"github.com/iov-one/weave-paychan/x/cash"
	"github.com/iov-one/weave-paychan/x/paychan"
)

// GenInitOptions produces the application state of a development chain
// with one rich account.
func GenInitOptions(addr weave.Address, balance uint64, window time.Duration) (json.RawMessage, error) {
	if err := addr.Validate(); err != nil {
		return nil, errors.Wrap(err, "address")
	}
	type dict map[string]interface{}
	return json.Marshal(dict{
		"cash": []cash.GenesisAccount{
			{Address: addr, Balance: balance},
		},
		"conf": dict{
			"paychan": paychan.Configuration{
				DisputeWindow: weave.AsUnixDuration(window),
			},
		},
	})
}

// GenerateGenesis returns a genesis file content for a development chain.
func GenerateGenesis(chainID string, addr weave.Address, balance uint64, window time.Duration) (app.Genesis, error) {
	if !weave.IsValidChainID(chainID) {
		return app.Genesis{}, errors.Wrapf(errors.ErrInput, "chain id: %q", chainID)
	}
	raw, err := GenInitOptions(addr, balance, window)
	if err != nil {
		return app.Genesis{}, err
	}
	var opts weave.Options
	if err := json.Unmarshal(raw, &opts); err != nil {
		return app.Genesis{}, errors.Wrap(errors.ErrInput, err.Error())
	}
	return app.Genesis{ChainID: chainID, AppState: opts}, nil
}
