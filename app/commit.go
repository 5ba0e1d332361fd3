package app

import (
	"github.com/iov-one/nestedsafe"
	"github.com/iov-one/nestedsafe/errors"
)

// CommitStore handles loading from a CommitKVStore and returns useful
// state info.
type CommitStore struct {
	committed nestedsafe.CommitKVStore
}

// NewCommitStore loads the latest version of the store.
func NewCommitStore(store nestedsafe.CommitKVStore) (*CommitStore, error) {
	if err := store.LoadLatestVersion(); err != nil {
		return nil, errors.Wrap(err, "load latest version")
	}
	return &CommitStore{committed: store}, nil
}

// CommitInfo returns the current version and hash
func (cs *CommitStore) CommitInfo() (nestedsafe.CommitID, error) {
	return cs.committed.LatestVersion()
}

// CacheWrap returns a scratch pad on top of the latest state.
func (cs *CommitStore) CacheWrap() nestedsafe.KVCacheWrap {
	return cs.committed.CacheWrap()
}

// Commit writes the cache into the store and commits a new version. The
// cache is discarded if anything fails.
func (cs *CommitStore) Commit(cache nestedsafe.KVCacheWrap) (nestedsafe.CommitID, error) {
	if err := cache.Write(); err != nil {
		cache.Discard()
		return nestedsafe.CommitID{}, errors.Wrap(err, "write")
	}
	return cs.committed.Commit()
}

//------- storing chainID ---------

// _ns: is a prefix for environment internal data
const chainIDKey = "_ns:chainID"

// loadChainID returns the chain id stored if any
func loadChainID(kv nestedsafe.ReadOnlyKVStore) (string, error) {
	v, err := kv.Get([]byte(chainIDKey))
	if err != nil {
		return "", errors.Wrap(err, "load chain id")
	}
	return string(v), nil
}

// saveChainID stores a chain id in the kv store.
// Returns error if already set, or invalid name
func saveChainID(kv nestedsafe.KVStore, chainID string) error {
	if !nestedsafe.IsValidChainID(chainID) {
		return errors.Wrapf(errors.ErrInput, "chain id: %v", chainID)
	}
	k := []byte(chainIDKey)
	exists, err := kv.Has(k)
	if err != nil {
		return errors.Wrap(err, "load chain id")
	}
	if exists {
		return errors.Wrap(errors.ErrUnauthorized, "can't modify chain id after genesis init")
	}
	if err := kv.Set(k, []byte(chainID)); err != nil {
		return errors.Wrap(err, "save chain id")
	}
	return nil
}
