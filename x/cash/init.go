package cash

import (
	"github.com/iov-one/nestedsafe"
)

const optKey = "cash"

// GenesisAccount is used to parse the json from genesis file
// use nestedsafe.Address, so address in hex, not base64
type GenesisAccount struct {
	Address nestedsafe.Address `json:"address"`
	Amount  uint64             `json:"amount"`
}

// Initializer fulfils the Initializer interface to load data from
// the genesis file
type Initializer struct{}

var _ nestedsafe.Initializer = Initializer{}

// FromGenesis will parse initial account info from genesis
// and save it to the database
func (Initializer) FromGenesis(opts nestedsafe.Options, kv nestedsafe.KVStore) error {
	accts := []GenesisAccount{}
	if err := opts.ReadOptions(optKey, &accts); err != nil {
		return err
	}
	ctrl := NewController()
	for _, acct := range accts {
		if err := ctrl.Issue(kv, acct.Address, acct.Amount); err != nil {
			return err
		}
	}
	return nil
}
