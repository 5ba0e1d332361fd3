package batch

import (
	"github.com/iov-one/nestedsafe"
	"github.com/iov-one/nestedsafe/errors"
	"github.com/iov-one/nestedsafe/gconf"
)

const packageName = "batch"

// Configuration limits what a single batch can hold.
type Configuration struct {
	Metadata *nestedsafe.Metadata `json:"metadata"`
	MaxCalls int32                `json:"max_calls"`
}

// DefaultConfiguration is used when no configuration was saved.
func DefaultConfiguration() Configuration {
	return Configuration{
		Metadata: &nestedsafe.Metadata{Schema: 1},
		MaxCalls: 64,
	}
}

func (c *Configuration) Marshal() ([]byte, error) {
	return nestedsafe.MarshalBinary(*c)
}

func (c *Configuration) Unmarshal(raw []byte) error {
	return nestedsafe.UnmarshalBinary(raw, c)
}

func (c *Configuration) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Metadata", c.Metadata.Validate())
	if c.MaxCalls <= 0 {
		errs = errors.AppendField(errs, "MaxCalls", errors.ErrInput)
	}
	return errs
}

// LoadConfiguration returns the configuration stored in the state, or the
// default one if none was saved.
func LoadConfiguration(db gconf.ReadStore) (Configuration, error) {
	conf := DefaultConfiguration()
	if err := gconf.LoadOrDefault(db, packageName, &conf); err != nil {
		return conf, errors.Wrap(err, "load batch configuration")
	}
	return conf, nil
}

// Initializer fulfils the Initializer interface to load the package
// configuration from genesis. A missing configuration is not an error.
type Initializer struct{}

var _ nestedsafe.Initializer = Initializer{}

// FromGenesis stores the configuration found under "conf.batch".
func (Initializer) FromGenesis(opts nestedsafe.Options, db nestedsafe.KVStore) error {
	var conf Configuration
	err := gconf.InitConfig(db, opts, packageName, &conf)
	if errors.ErrNotFound.Is(err) {
		return nil
	}
	return err
}
