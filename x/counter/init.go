package counter

import (
	"github.com/iov-one/nestedsafe"
	"github.com/iov-one/nestedsafe/errors"
)

// Initializer fulfils the Initializer interface to load data from the genesis
// file
type Initializer struct{}

var _ nestedsafe.Initializer = (*Initializer)(nil)

// FromGenesis creates the counters declared under "counter", in order.
func (*Initializer) FromGenesis(opts nestedsafe.Options, kv nestedsafe.KVStore) error {
	var counters []struct {
		Owner nestedsafe.Address `json:"owner"`
		Count int64              `json:"count"`
	}
	if err := opts.ReadOptions("counter", &counters); err != nil {
		return err
	}
	bucket := NewBucket()
	for i, c := range counters {
		if _, err := bucket.Create(kv, c.Owner, c.Count); err != nil {
			return errors.Wrapf(err, "cannot create #%d counter", i)
		}
	}
	return nil
}
