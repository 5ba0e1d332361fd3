package errors

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppend(t *testing.T) {
	cases := map[string]struct {
		errs []error
		want error
	}{
		"nothing": {
			errs: nil,
			want: nil,
		},
		"only nils": {
			errs: []error{nil, nil},
			want: nil,
		},
		"single error is returned as it is": {
			errs: []error{nil, ErrNotFound, nil},
			want: ErrNotFound,
		},
		"two errors": {
			errs: []error{ErrNotFound, ErrMsg},
			want: multiErr{ErrNotFound, ErrMsg},
		},
		"multi errors are flattened": {
			errs: []error{Append(ErrNotFound, ErrMsg), ErrState},
			want: multiErr{ErrNotFound, ErrMsg, ErrState},
		},
		"duplicates are kept": {
			errs: []error{ErrNotFound, ErrNotFound},
			want: multiErr{ErrNotFound, ErrNotFound},
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			assert.Equal(t, tc.want, Append(tc.errs...))
		})
	}
}

func TestMultiErrCode(t *testing.T) {
	err := Append(Wrap(ErrDuplicate, "first"), ErrNotFound)
	code, _ := Info(err, false)
	assert.Equal(t, ErrDuplicate.Code(), code)
}
