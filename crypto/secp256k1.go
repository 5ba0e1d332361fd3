package crypto

import (
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/iov-one/nestedsafe/errors"
)

// Compressed form is used for both the public key and the condition.
const secp256k1PublicKeySize = 33

// Secp256k1 signatures are created over the keccak256 digest of the
// message and are stored in the 64 byte [R || S] form.
func verifySecp256k1(pub, message, sig []byte) bool {
	if len(pub) != secp256k1PublicKeySize || len(sig) != 64 {
		return false
	}
	return crypto.VerifySignature(pub, crypto.Keccak256(message), sig)
}

func signSecp256k1(priv, message []byte) (*Signature, error) {
	key, err := crypto.ToECDSA(priv)
	if err != nil {
		return nil, errors.Wrap(errors.ErrInput, err.Error())
	}
	sig, err := crypto.Sign(crypto.Keccak256(message), key)
	if err != nil {
		return nil, errors.Wrap(errors.ErrInput, err.Error())
	}
	// Drop the recovery id.
	return &Signature{Secp256k1: sig[:64]}, nil
}

func publicSecp256k1(priv []byte) ([]byte, error) {
	key, err := crypto.ToECDSA(priv)
	if err != nil {
		return nil, errors.Wrap(errors.ErrInput, err.Error())
	}
	return crypto.CompressPubkey(&key.PublicKey), nil
}

// GenPrivKeySecp256k1 returns a random new secp256k1 private key.
func GenPrivKeySecp256k1() *PrivateKey {
	key, err := crypto.GenerateKey()
	if err != nil {
		panic(err)
	}
	return &PrivateKey{Secp256k1: crypto.FromECDSA(key)}
}
