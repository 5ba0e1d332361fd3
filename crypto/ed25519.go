package crypto

import (
	"github.com/iov-one/nestedsafe/errors"
	"github.com/stellar/go/exp/crypto/derivation"
	"golang.org/x/crypto/ed25519"
)

const ed25519PublicKeySize = ed25519.PublicKeySize

func verifyEd25519(pub, message, sig []byte) bool {
	if len(pub) != ed25519.PublicKeySize || len(sig) != ed25519.SignatureSize {
		return false
	}
	return ed25519.Verify(ed25519.PublicKey(pub), message, sig)
}

func signEd25519(priv, message []byte) (*Signature, error) {
	if len(priv) != ed25519.PrivateKeySize {
		return nil, errors.Wrap(errors.ErrInput, "ed25519 private key length")
	}
	bz := ed25519.Sign(ed25519.PrivateKey(priv), message)
	return &Signature{Ed25519: bz}, nil
}

func publicEd25519(priv []byte) []byte {
	privateKey := ed25519.PrivateKey(priv)
	return privateKey.Public().(ed25519.PublicKey)
}

// GenPrivKeyEd25519 returns a random new private key
func GenPrivKeyEd25519() *PrivateKey {
	_, priv, err := ed25519.GenerateKey(nil)
	if err != nil {
		panic(err)
	}
	return &PrivateKey{Ed25519: priv}
}

// PrivKeyEd25519FromSeed will deterministically generate a private key from
// a given seed. Use if you have a strong source of external randomness,
// or for deterministic keys in test cases.
func PrivKeyEd25519FromSeed(seed []byte) *PrivateKey {
	priv := ed25519.NewKeyFromSeed(seed)
	return &PrivateKey{Ed25519: priv}
}

// DeriveEd25519 derives a private key from a master seed using SLIP-0010
// hardened derivation, for example with path "m/44'/234'/0'".
func DeriveEd25519(seed []byte, path string) (*PrivateKey, error) {
	k, err := derivation.DeriveForPath(path, seed)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInput, "derive %q: %s", path, err)
	}
	return PrivKeyEd25519FromSeed(k.Key), nil
}
