package main

import (
	"encoding/hex"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"io/ioutil"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/iov-one/weave-paychan"
	paychand "github.com/iov-one/weave-paychan/cmd/paychand/app"
	"github.com/iov-one/weave-paychan/crypto"
	"github.com/iov-one/weave-paychan/errors"
	"github.com/tendermint/tendermint/libs/log"
)

const (
	genesisFile = "genesis.json"
	keyFile     = "owner.key"
)

// cmdInit generates a development key and writes a genesis file funding it.
// Existing files are never overwritten.
func cmdInit(logger log.Logger, home string, args []string) error {
	fl := flag.NewFlagSet("init", flag.ContinueOnError)
	var (
		chainID = fl.String("chain-id", "paychan-dev", "chain identifier")
		balance = fl.Uint64("balance", 1000000, "coins granted to the generated key")
		window  = fl.Duration("dispute-window", time.Hour, "time between unlock and close")
	)
	if err := fl.Parse(args); err != nil {
		return errors.Wrap(errors.ErrInput, err.Error())
	}

	genPath := filepath.Join(home, genesisFile)
	keyPath := filepath.Join(home, keyFile)
	for _, p := range []string{genPath, keyPath} {
		if _, err := os.Stat(p); err == nil {
			return errors.Wrapf(errors.ErrDuplicate, "%s already exists", p)
		}
	}

	key, err := crypto.GenPrivKey()
	if err != nil {
		return err
	}
	gen, err := paychand.GenerateGenesis(*chainID, key.Address(), *balance, *window)
	if err != nil {
		return err
	}
	raw, err := json.MarshalIndent(gen, "", "  ")
	if err != nil {
		return errors.Wrap(errors.ErrInput, err.Error())
	}

	if err := os.MkdirAll(home, 0700); err != nil {
		return errors.Wrap(err, "create home")
	}
	if err := ioutil.WriteFile(keyPath, []byte(key.Hex()), 0600); err != nil {
		return errors.Wrap(err, "write key")
	}
	if err := ioutil.WriteFile(genPath, raw, 0600); err != nil {
		return errors.Wrap(err, "write genesis")
	}
	logger.Info("Generated genesis file",
		"path", genPath,
		"chain_id", *chainID,
		"owner", key.Address())
	return nil
}

// cmdClaim prints the hex encoded signature of a claim:
//
//	claim <owner key hex> <receiver address> <amount>
//
// The owner address is derived from the key.
func cmdClaim(out io.Writer, args []string) error {
	if len(args) != 3 {
		return errors.Wrap(errors.ErrInput, "usage: claim <owner key> <receiver> <amount>")
	}
	key, err := crypto.PrivKeyFromHex(args[0])
	if err != nil {
		return err
	}
	receiver, amount, err := parseClaim(args[1], args[2])
	if err != nil {
		return err
	}
	sig, err := crypto.SignClaim(key, key.Address(), receiver, amount)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(out, hex.EncodeToString(sig))
	return err
}

// cmdVerify checks a claim signature:
//
//	verify <owner address> <receiver address> <amount> <signature hex>
func cmdVerify(out io.Writer, args []string) error {
	if len(args) != 4 {
		return errors.Wrap(errors.ErrInput, "usage: verify <owner> <receiver> <amount> <signature>")
	}
	owner, err := weave.ParseAddress(args[0])
	if err != nil {
		return errors.Wrap(err, "owner")
	}
	receiver, amount, err := parseClaim(args[1], args[2])
	if err != nil {
		return err
	}
	sig, err := hex.DecodeString(args[3])
	if err != nil {
		return errors.Wrap(errors.ErrInput, "signature is not hex")
	}
	if !crypto.VerifyClaim(owner, receiver, amount, crypto.Signature(sig)) {
		return errors.Wrap(errors.ErrUnauthorized, "claim not signed by the owner")
	}
	_, err = fmt.Fprintln(out, "valid")
	return err
}

func parseClaim(receiver, amount string) (weave.Address, uint64, error) {
	addr, err := weave.ParseAddress(receiver)
	if err != nil {
		return nil, 0, errors.Wrap(err, "receiver")
	}
	if err := addr.Validate(); err != nil {
		return nil, 0, errors.Wrap(err, "receiver")
	}
	n, err := strconv.ParseUint(amount, 10, 64)
	if err != nil {
		return nil, 0, errors.Wrapf(errors.ErrInput, "amount: %s", err)
	}
	return addr, n, nil
}
