package gconf

import (
	"encoding/json"
	"testing"

	"github.com/iov-one/nestedsafe"
	"github.com/iov-one/nestedsafe/errors"
	"github.com/iov-one/nestedsafe/store"
	"github.com/iov-one/nestedsafe/weavetest/assert"
)

type limits struct {
	MaxItems int64
	Label    string
}

func (l *limits) Marshal() ([]byte, error) { return nestedsafe.MarshalBinary(*l) }
func (l *limits) Unmarshal(raw []byte) error { return nestedsafe.UnmarshalBinary(raw, l) }
func (l *limits) Validate() error {
	if l.MaxItems <= 0 {
		return errors.Wrap(errors.ErrInput, "max items must be positive")
	}
	return nil
}

func TestSaveLoad(t *testing.T) {
	cases := map[string]struct {
		Conf        *limits
		WantSaveErr *errors.Error
	}{
		"valid configuration": {
			Conf: &limits{MaxItems: 12, Label: "batch"},
		},
		"invalid configuration cannot be saved": {
			Conf:        &limits{MaxItems: -1},
			WantSaveErr: errors.ErrInput,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			db := store.MemStore()
			err := Save(db, "mypkg", tc.Conf)
			if !tc.WantSaveErr.Is(err) {
				t.Fatalf("unexpected save error: %+v", err)
			}
			if tc.WantSaveErr != nil {
				return
			}
			var got limits
			assert.Nil(t, Load(db, "mypkg", &got))
			assert.Equal(t, *tc.Conf, got)
		})
	}
}

func TestLoadMissing(t *testing.T) {
	db := store.MemStore()
	var got limits
	if err := Load(db, "nothing", &got); !errors.ErrNotFound.Is(err) {
		t.Fatalf("want not found error, got %+v", err)
	}

	def := limits{MaxItems: 3}
	assert.Nil(t, LoadOrDefault(db, "nothing", &def))
	assert.Equal(t, int64(3), def.MaxItems)
}

func TestInitConfig(t *testing.T) {
	const genesis = `{"conf": {"mypkg": {"MaxItems": 42, "Label": "x"}}}`
	var opts nestedsafe.Options
	assert.Nil(t, json.Unmarshal([]byte(genesis), &opts))

	db := store.MemStore()
	var conf limits
	assert.Nil(t, InitConfig(db, opts, "mypkg", &conf))

	var loaded limits
	assert.Nil(t, Load(db, "mypkg", &loaded))
	assert.Equal(t, limits{MaxItems: 42, Label: "x"}, loaded)

	err := InitConfig(db, opts, "otherpkg", &conf)
	if !errors.ErrNotFound.Is(err) {
		t.Fatalf("want not found error, got %+v", err)
	}
}
