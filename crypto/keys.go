package crypto

import (
	"github.com/iov-one/nestedsafe"
	"github.com/iov-one/nestedsafe/errors"
)

// ExtensionName is used for the conditions we get from signatures
const ExtensionName = "sigs"

// Condition types of the supported key algorithms. A condition type is at
// most 8 characters long.
const (
	Ed25519Type   = "ed25519"
	Secp256k1Type = "secp256k"
)

// Signer is the functionality we use from a private key
// No serializing to support hardware devices as well.
type Signer interface {
	Sign(message []byte) (*Signature, error)
	PublicKey() *PublicKey
}

// PublicKey holds exactly one of the supported public key algorithms.
type PublicKey struct {
	Ed25519   []byte `json:"ed25519,omitempty"`
	Secp256k1 []byte `json:"secp256k1,omitempty"`
}

// PrivateKey holds exactly one of the supported private key algorithms.
type PrivateKey struct {
	Ed25519   []byte `json:"ed25519,omitempty"`
	Secp256k1 []byte `json:"secp256k1,omitempty"`
}

// Signature holds a signature created by one of the supported algorithms.
type Signature struct {
	Ed25519   []byte `json:"ed25519,omitempty"`
	Secp256k1 []byte `json:"secp256k1,omitempty"`
}

// Verify verifies the signature was created with this message and public key.
// Signature algorithm must match the key algorithm.
func (p *PublicKey) Verify(message []byte, sig *Signature) bool {
	if p == nil || sig == nil {
		return false
	}
	switch {
	case len(p.Ed25519) != 0:
		return verifyEd25519(p.Ed25519, message, sig.Ed25519)
	case len(p.Secp256k1) != 0:
		return verifySecp256k1(p.Secp256k1, message, sig.Secp256k1)
	default:
		return false
	}
}

// Condition encodes the public key into a condition. Signing with the
// corresponding private key grants the condition.
//    p.Condition().Address()
// will return an Address if needed.
func (p *PublicKey) Condition() nestedsafe.Condition {
	if p == nil {
		return nil
	}
	switch {
	case len(p.Ed25519) != 0:
		return nestedsafe.NewCondition(ExtensionName, Ed25519Type, p.Ed25519)
	case len(p.Secp256k1) != 0:
		return nestedsafe.NewCondition(ExtensionName, Secp256k1Type, p.Secp256k1)
	default:
		return nil
	}
}

// Address returns the address of the key condition.
func (p *PublicKey) Address() nestedsafe.Address {
	return p.Condition().Address()
}

// Validate returns an error if the key does not carry exactly one well
// formed public key.
func (p *PublicKey) Validate() error {
	if p == nil {
		return errors.Wrap(errors.ErrEmpty, "public key")
	}
	switch {
	case len(p.Ed25519) != 0 && len(p.Secp256k1) != 0:
		return errors.Wrap(errors.ErrInput, "more than one public key")
	case len(p.Ed25519) != 0:
		if len(p.Ed25519) != ed25519PublicKeySize {
			return errors.Wrap(errors.ErrInput, "ed25519 public key length")
		}
	case len(p.Secp256k1) != 0:
		if len(p.Secp256k1) != secp256k1PublicKeySize {
			return errors.Wrap(errors.ErrInput, "secp256k1 public key length")
		}
	default:
		return errors.Wrap(errors.ErrEmpty, "public key")
	}
	return nil
}

var _ Signer = (*PrivateKey)(nil)

// Sign returns a matching signature for this private key
func (p *PrivateKey) Sign(message []byte) (*Signature, error) {
	if p == nil {
		return nil, errors.Wrap(errors.ErrEmpty, "private key")
	}
	switch {
	case len(p.Ed25519) != 0:
		return signEd25519(p.Ed25519, message)
	case len(p.Secp256k1) != 0:
		return signSecp256k1(p.Secp256k1, message)
	default:
		return nil, errors.Wrap(errors.ErrEmpty, "private key")
	}
}

// PublicKey returns the corresponding PublicKey. Nil is returned for an
// empty private key.
func (p *PrivateKey) PublicKey() *PublicKey {
	if p == nil {
		return nil
	}
	switch {
	case len(p.Ed25519) != 0:
		return &PublicKey{Ed25519: publicEd25519(p.Ed25519)}
	case len(p.Secp256k1) != 0:
		pub, err := publicSecp256k1(p.Secp256k1)
		if err != nil {
			return nil
		}
		return &PublicKey{Secp256k1: pub}
	default:
		return nil
	}
}
