package paychan

import (
	"time"

	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/weave-paychan"
	"github.com/iov-one/weave-paychan/errors"
	"github.com/iov-one/weave-paychan/gconf"
)

const packageName = "paychan"

// DefaultDisputeWindow is used when no configuration was stored.
const DefaultDisputeWindow = time.Hour

// Configuration of the payment channel extension.
type Configuration struct {
	// DisputeWindow is how long after the unlock the receiver can still
	// redeem claims before the owner can close the channel.
	DisputeWindow weave.UnixDuration `protobuf:"varint,1,opt,name=dispute_window,json=disputeWindow,proto3,casttype=github.com/iov-one/weave-paychan.UnixDuration" json:"dispute_window"`
}

var _ gconf.Configuration = (*Configuration)(nil)

func (c *Configuration) Validate() error {
	if c.DisputeWindow <= 0 {
		return errors.Field("DisputeWindow", errors.ErrInput, "must be positive")
	}
	return nil
}

func (c *Configuration) Marshal() ([]byte, error) {
	return proto.Marshal((*configurationPB)(c))
}

func (c *Configuration) Unmarshal(raw []byte) error {
	return unmarshal(raw, (*configurationPB)(c), errors.ErrModel)
}

// loadConf returns the stored configuration or the default one if none was
// stored.
func loadConf(db gconf.ReadStore) (Configuration, error) {
	var conf Configuration
	switch err := gconf.Load(db, packageName, &conf); {
	case err == nil:
		return conf, nil
	case errors.ErrNotFound.Is(err):
		return Configuration{DisputeWindow: weave.AsUnixDuration(DefaultDisputeWindow)}, nil
	default:
		return conf, errors.Wrap(err, "load configuration")
	}
}

// Initializer stores the configuration found in the genesis file.
type Initializer struct{}

var _ weave.Initializer = Initializer{}

// FromGenesis stores the "conf.paychan" genesis section. A missing section
// leaves the default configuration in place.
func (Initializer) FromGenesis(opts weave.Options, db weave.KVStore) error {
	var conf Configuration
	err := gconf.InitConfig(db, opts, packageName, &conf)
	if errors.ErrNotFound.Is(err) {
		return nil
	}
	return err
}
