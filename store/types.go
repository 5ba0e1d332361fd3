package store

import "github.com/iov-one/nestedsafe"

// Move references for all storage types into this package
// for shorter names everywhere

type (
	ReadOnlyKVStore  = nestedsafe.ReadOnlyKVStore
	SetDeleter       = nestedsafe.SetDeleter
	KVStore          = nestedsafe.KVStore
	Batch            = nestedsafe.Batch
	Iterator         = nestedsafe.Iterator
	CacheableKVStore = nestedsafe.CacheableKVStore
	KVCacheWrap      = nestedsafe.KVCacheWrap
	CommitKVStore    = nestedsafe.CommitKVStore
	CommitID         = nestedsafe.CommitID
	Model            = nestedsafe.Model
)

// Pair constructs a model from a key-value pair
func Pair(key, value []byte) Model {
	return Model{
		Key:   key,
		Value: value,
	}
}
