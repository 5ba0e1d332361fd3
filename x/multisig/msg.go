package multisig

import (
	"encoding/hex"

	"github.com/iov-one/nestedsafe"
	"github.com/iov-one/nestedsafe/errors"
	"github.com/iov-one/nestedsafe/x/sigs"
)

// ApproveHashMsg is the payload of a call to a safe that approves a hash
// on behalf of the caller, which must be an owner of that safe.
type ApproveHashMsg struct {
	Metadata *nestedsafe.Metadata
	Hash     []byte
}

var _ nestedsafe.Persistent = (*ApproveHashMsg)(nil)

func (m *ApproveHashMsg) Marshal() ([]byte, error) {
	return nestedsafe.MarshalBinary(*m)
}

func (m *ApproveHashMsg) Unmarshal(raw []byte) error {
	return nestedsafe.UnmarshalBinary(raw, m)
}

func (m *ApproveHashMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Metadata", m.Metadata.Validate())
	errs = errors.AppendField(errs, "Hash", validateHash(m.Hash))
	return errs
}

// ApproveHashPayload returns the call payload approving given hash.
func ApproveHashPayload(hash []byte) ([]byte, error) {
	msg := ApproveHashMsg{
		Metadata: &nestedsafe.Metadata{Schema: 1},
		Hash:     hash,
	}
	if err := msg.Validate(); err != nil {
		return nil, err
	}
	return msg.Marshal()
}

func validateHash(hash []byte) error {
	if len(hash) != sigs.HashLength {
		return errors.Wrapf(errors.ErrInput, "hash must be %d bytes, got %d", sigs.HashLength, len(hash))
	}
	return nil
}

func hashString(hash []byte) string {
	return hex.EncodeToString(hash)
}
