package nestedsafe

import "github.com/iov-one/nestedsafe/errors"

// Metadata is the header of every persisted model. Schema is the version
// of the model serialization.
type Metadata struct {
	Schema uint32
}

// Copy returns a copy of this object. This method is helpful when implementing
// orm.CloneableData interface to make a copy of the header.
func (m *Metadata) Copy() *Metadata {
	if m == nil {
		return nil
	}
	cpy := *m
	return &cpy
}

// Validate returns an error if the metadata is not declaring a schema.
func (m *Metadata) Validate() error {
	if m == nil {
		return errors.Wrap(errors.ErrMetadata, "missing metadata")
	}
	if m.Schema < 1 {
		return errors.Wrap(errors.ErrMetadata, "invalid schema version")
	}
	return nil
}
