package main

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/iov-one/nestedsafe"
	"github.com/iov-one/nestedsafe/weavetest"
	"github.com/iov-one/nestedsafe/x/batch"
	"github.com/iov-one/nestedsafe/x/sigs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return strings.TrimSpace(out.String()), err
}

func writeFile(t *testing.T, name string, content []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, content, 0o600))
	return path
}

func testBatch(t *testing.T) (*batch.CallBatch, string) {
	t.Helper()
	b := batch.NewCallBatch(
		batch.Call{Target: weavetest.NewCondition().Address(), Payload: []byte("inc")},
		batch.Call{Target: weavetest.NewCondition().Address(), Value: 7, AllowFailure: true},
	)
	raw, err := json.Marshal(b)
	require.NoError(t, err)
	return b, writeFile(t, "batch.json", raw)
}

func TestHash(t *testing.T) {
	b, path := testBatch(t)
	safe := weavetest.NewCondition().Address()

	out, err := run(t, "hash", "--chain-id", "test-chain", "--batch", path, "--safe", safe.String(), "--nonce", "3")
	require.NoError(t, err)

	want, err := (&sigs.SigningPayload{ChainID: "test-chain", Safe: safe, Nonce: 3, Batch: b}).Hash()
	require.NoError(t, err)
	assert.Equal(t, hex.EncodeToString(want), out)

	// The chain ID can come from the environment.
	t.Setenv("SAFETX_CHAIN_ID", "test-chain")
	t.Setenv("SAFETX_HASH_NONCE", "3")
	out, err = run(t, "hash", "--batch", path, "--safe", safe.String())
	require.NoError(t, err)
	assert.Equal(t, hex.EncodeToString(want), out)

	_, err = run(t, "hash", "--batch", path, "--safe", "zz")
	assert.Error(t, err)
}

func TestEncode(t *testing.T) {
	b, path := testBatch(t)
	out, err := run(t, "encode", "--batch", path)
	require.NoError(t, err)
	want, err := b.Encode()
	require.NoError(t, err)
	assert.Equal(t, hex.EncodeToString(want), out)
}

func TestSignAndVerify(t *testing.T) {
	for _, algo := range []string{"ed25519", "secp256k1"} {
		t.Run(algo, func(t *testing.T) {
			out, err := run(t, "keygen", "--algo", algo)
			require.NoError(t, err)
			var kf keyFile
			require.NoError(t, json.Unmarshal([]byte(out), &kf))
			assert.True(t, strings.HasPrefix(kf.Bech32, bech32Prefix+"1"))
			keyPath := writeFile(t, "key.json", []byte(out))

			hash := hex.EncodeToString(bytes.Repeat([]byte{0xab}, sigs.HashLength))
			sig, err := run(t, "sign", "--key", keyPath, "--hash", hash)
			require.NoError(t, err)
			sigPath := writeFile(t, "sig.json", []byte(sig))

			out, err = run(t, "verify", "--signature", sigPath, "--hash", hash)
			require.NoError(t, err)
			assert.Equal(t, kf.Address.String(), out)

			other := hex.EncodeToString(bytes.Repeat([]byte{0xcd}, sigs.HashLength))
			_, err = run(t, "verify", "--signature", sigPath, "--hash", other)
			assert.Error(t, err)
		})
	}
}

func TestKeygenDerivation(t *testing.T) {
	seed := hex.EncodeToString(bytes.Repeat([]byte{1}, 32))
	first, err := run(t, "keygen", "--seed", seed)
	require.NoError(t, err)
	second, err := run(t, "keygen", "--seed", seed)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	other, err := run(t, "keygen", "--seed", seed, "--path", "m/44'/234'/1'")
	require.NoError(t, err)
	assert.NotEqual(t, first, other)

	_, err = run(t, "keygen", "--algo", "secp256k1", "--seed", seed)
	assert.Error(t, err)
	_, err = run(t, "keygen", "--algo", "rsa")
	assert.Error(t, err)
}

func TestGenesisCmd(t *testing.T) {
	owner := weavetest.NewCondition().Address()
	gen := map[string]interface{}{
		"chain_id": "test-chain",
		"app_state": map[string]interface{}{
			"multisig": []interface{}{
				map[string]interface{}{"owners": []nestedsafe.Address{owner}, "threshold": 1},
			},
		},
	}
	raw, err := json.Marshal(gen)
	require.NoError(t, err)
	path := writeFile(t, "genesis.json", raw)

	out, err := run(t, "genesis", path, "--log-level", "none")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "test-chain 1 "), out)

	_, err = run(t, "genesis", path, "--chain-id", "other-chain")
	assert.Error(t, err)
}

func TestVersionCmd(t *testing.T) {
	out, err := run(t, "version")
	require.NoError(t, err)
	assert.Equal(t, nestedsafe.Version(), out)
}
