package multisig

import (
	"github.com/iov-one/nestedsafe"
	"github.com/iov-one/nestedsafe/errors"
	"github.com/iov-one/nestedsafe/gconf"
)

const packageName = "multisig"

// Configuration limits the size of safes.
type Configuration struct {
	Metadata  *nestedsafe.Metadata `json:"metadata"`
	MaxOwners int32                `json:"max_owners"`
}

// DefaultConfiguration is used when no configuration was saved.
func DefaultConfiguration() Configuration {
	return Configuration{
		Metadata:  &nestedsafe.Metadata{Schema: 1},
		MaxOwners: 32,
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
	if c.MaxOwners <= 0 {
		errs = errors.AppendField(errs, "MaxOwners", errors.ErrInput)
	}
	return errs
}

func loadConfiguration(db gconf.ReadStore) (Configuration, error) {
	conf := DefaultConfiguration()
	if err := gconf.LoadOrDefault(db, packageName, &conf); err != nil {
		return conf, errors.Wrap(err, "load multisig configuration")
	}
	return conf, nil
}
