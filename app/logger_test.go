package app

import (
	"bytes"
	"strings"
	"testing"

	"github.com/iov-one/nestedsafe/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger, err := NewLogger(&buf, "info")
	require.NoError(t, err)

	logger.Debug("hidden")
	logger.Info("shown", "key", "value")
	out := buf.String()
	assert.False(t, strings.Contains(out, "hidden"))
	assert.True(t, strings.Contains(out, "shown"))
	assert.True(t, strings.Contains(out, "key=value"))

	_, err = NewLogger(&buf, "loud")
	assert.True(t, errors.ErrInput.Is(err))
}
