package app

import (
	"encoding/json"
	"os"

	"github.com/iov-one/nestedsafe"
	"github.com/iov-one/nestedsafe/errors"
)

// Genesis file format.
type Genesis struct {
	ChainID  string             `json:"chain_id"`
	AppState nestedsafe.Options `json:"app_state"`
}

// LoadGenesis tries to load a given file into a Genesis struct
func LoadGenesis(filePath string) (Genesis, error) {
	var gen Genesis
	raw, err := os.ReadFile(filePath)
	if err != nil {
		return gen, errors.Wrap(errors.ErrInput, err.Error())
	}
	if err := json.Unmarshal(raw, &gen); err != nil {
		return gen, errors.Wrap(errors.ErrInput, err.Error())
	}
	return gen, nil
}
