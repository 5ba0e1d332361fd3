package nestedsafe_test

import (
	"testing"

	"github.com/iov-one/nestedsafe"
	"github.com/stretchr/testify/assert"
)

func TestVersion(t *testing.T) {
	defer func() { nestedsafe.GitCommit = "" }()

	nestedsafe.GitCommit = ""
	assert.Equal(t, "v0.1.0-dev", nestedsafe.Version())

	nestedsafe.GitCommit = "12345678"
	assert.Equal(t, "v0.1.0-dev 12345678", nestedsafe.Version())
}
