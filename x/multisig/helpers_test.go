package multisig

import (
	"context"
	"testing"

	"github.com/iov-one/nestedsafe"
	"github.com/iov-one/nestedsafe/crypto"
	"github.com/iov-one/nestedsafe/weavetest"
	"github.com/iov-one/nestedsafe/weavetest/assert"
	"github.com/iov-one/nestedsafe/x/batch"
	"github.com/iov-one/nestedsafe/x/sigs"
)

const testChainID = "test-chain"

func testContext() nestedsafe.Context {
	return nestedsafe.WithChainID(context.Background(), testChainID)
}

// resolvers tries each resolver in order.
type resolvers []nestedsafe.Resolver

func (rs resolvers) Resolve(db nestedsafe.ReadOnlyKVStore, target nestedsafe.Address) (nestedsafe.Handler, error) {
	for _, r := range rs {
		h, err := r.Resolve(db, target)
		if err != nil || h != nil {
			return h, err
		}
	}
	return nil, nil
}

func newExecutor(extra weavetest.Resolver) *batch.Executor {
	return batch.NewExecutor(resolvers{NewResolver(Authenticate{}), extra}, nil)
}

func newKeys(n int) ([]crypto.Signer, []nestedsafe.Address) {
	keys := make([]crypto.Signer, n)
	addrs := make([]nestedsafe.Address, n)
	for i := range keys {
		keys[i] = weavetest.NewKey()
		addrs[i] = keys[i].PublicKey().Address()
	}
	return keys, addrs
}

func createSafe(t testing.TB, db nestedsafe.KVStore, owners []nestedsafe.Address, threshold int32) *Safe {
	t.Helper()
	s, err := CreateSafe(db, owners, threshold)
	assert.Nil(t, err)
	return s
}

func signedProof(t testing.TB, hash []byte, keys ...crypto.Signer) *Proof {
	t.Helper()
	entries := make([]ProofEntry, len(keys))
	for i, k := range keys {
		sig, err := sigs.Sign(k, hash)
		assert.Nil(t, err)
		entries[i] = ProofEntry{Owner: k.PublicKey().Address(), Signature: sig}
	}
	return NewProof(entries...)
}

func payloadHash(t testing.TB, p *sigs.SigningPayload) []byte {
	t.Helper()
	h, err := p.Hash()
	assert.Nil(t, err)
	return h
}
