package weavetest

import (
	"github.com/iov-one/nestedsafe"
	"github.com/iov-one/nestedsafe/crypto"
)

// NewKey returns a random ed25519 private key.
func NewKey() crypto.Signer {
	return crypto.GenPrivKeyEd25519()
}

// NewSecp256k1Key returns a random secp256k1 private key.
func NewSecp256k1Key() crypto.Signer {
	return crypto.GenPrivKeySecp256k1()
}

// NewCondition returns a condition of a random key.
func NewCondition() nestedsafe.Condition {
	return NewKey().PublicKey().Condition()
}

// SequenceID returns an 8 byte big endian representation of n, the format
// used by orm sequences.
func SequenceID(n uint64) []byte {
	b := make([]byte, 8)
	for i := 7; i >= 0; i-- {
		b[i] = byte(n)
		n >>= 8
	}
	return b
}
