package nestedsafe

import (
	"github.com/iov-one/nestedsafe/errors"
	amino "github.com/tendermint/go-amino"
)

// Marshaller is anything that can be represented in binary
//
// Marshal may validate the data before serializing it and
// unless you previously validated the struct,
// errors should be expected.
type Marshaller interface {
	Marshal() ([]byte, error)
}

// Persistent supports Marshal and Unmarshal
//
// This is separated from Marshal, as this almost always requires
// a pointer, and functions that only need to marshal bytes can
// use the Marshaller interface to access non-pointers.
//
// As with Marshaller, this may do internal validation on the data
// and errors should be expected.
type Persistent interface {
	Marshaller
	Unmarshal([]byte) error
}

// Validater is any struct that can be validated.
// Not the same as a Validator, which votes on a block.
type Validater interface {
	Validate() error
}

// cdc is the codec used by all models and call payloads. Only concrete
// types are serialized, so nothing has to be registered.
var cdc = amino.NewCodec()

// MarshalBinary serializes given value into its canonical binary
// representation.
func MarshalBinary(o interface{}) ([]byte, error) {
	bz, err := cdc.MarshalBinaryBare(o)
	if err != nil {
		return nil, errors.Wrap(errors.ErrModel, err.Error())
	}
	return bz, nil
}

// UnmarshalBinary deserializes data created with MarshalBinary into given
// pointer.
func UnmarshalBinary(bz []byte, ptr interface{}) error {
	if err := cdc.UnmarshalBinaryBare(bz, ptr); err != nil {
		return errors.Wrap(errors.ErrModel, err.Error())
	}
	return nil
}

// MarshalLengthPrefixed serializes given value prefixed with its length so
// that several values can be concatenated into one byte slice.
func MarshalLengthPrefixed(o interface{}) []byte {
	return cdc.MustMarshalBinaryLengthPrefixed(o)
}
