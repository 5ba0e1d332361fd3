package sigs

import (
	"github.com/iov-one/nestedsafe"
	"github.com/iov-one/nestedsafe/crypto"
	"github.com/iov-one/nestedsafe/errors"
)

// Signer is anything that can create a signature, for example a private
// key or a hardware wallet.
type Signer = crypto.Signer

// StdSignature is a signature together with the public key that created
// it.
type StdSignature struct {
	Pubkey    *crypto.PublicKey `json:"pubkey"`
	Signature *crypto.Signature `json:"signature"`
}

var _ nestedsafe.Persistent = (*StdSignature)(nil)

func (s *StdSignature) Marshal() ([]byte, error) {
	return nestedsafe.MarshalBinary(*s)
}

func (s *StdSignature) Unmarshal(raw []byte) error {
	return nestedsafe.UnmarshalBinary(raw, s)
}

// Validate ensures the signature is well formed. It does not verify it.
func (s *StdSignature) Validate() error {
	if s == nil {
		return errors.Wrap(errors.ErrEmpty, "signature")
	}
	var errs error
	errs = errors.AppendField(errs, "Pubkey", s.Pubkey.Validate())
	if s.Signature == nil {
		errs = errors.AppendField(errs, "Signature", errors.ErrEmpty)
	}
	return errs
}

// Address returns the address of the signer.
func (s *StdSignature) Address() nestedsafe.Address {
	return s.Pubkey.Address()
}
