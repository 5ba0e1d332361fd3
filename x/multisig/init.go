package multisig

import (
	"github.com/iov-one/nestedsafe"
	"github.com/iov-one/nestedsafe/errors"
	"github.com/iov-one/nestedsafe/gconf"
)

// Initializer fulfils the Initializer interface to load data from the genesis
// file
type Initializer struct{}

var _ nestedsafe.Initializer = (*Initializer)(nil)

// FromGenesis will parse initial safes from genesis and save them in the
// database. Safes are created in order, so a safe can be owned by a safe
// declared before it, referenced as "cond:multisig/usage/<hex id>".
func (*Initializer) FromGenesis(opts nestedsafe.Options, kv nestedsafe.KVStore) error {
	var conf Configuration
	switch err := gconf.InitConfig(kv, opts, packageName, &conf); {
	case errors.ErrNotFound.Is(err):
	case err != nil:
		return errors.Wrap(err, "configuration")
	}

	var safes []struct {
		Owners    []nestedsafe.Address `json:"owners"`
		Threshold int32                `json:"threshold"`
	}
	if err := opts.ReadOptions("multisig", &safes); err != nil {
		return err
	}
	for i, s := range safes {
		if _, err := CreateSafe(kv, s.Owners, s.Threshold); err != nil {
			return errors.Wrapf(err, "cannot create #%d safe", i)
		}
	}
	return nil
}
