package main

import (
	"bytes"
	"encoding/hex"
	"errors"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/cespare/cp"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tos-network/swapproxy/swap"
)

const (
	testAdmin    = "0x71562b71999873DB5b286dF957af199Ec94617F7"
	testMnemonic = "abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon about"
)

// runSwapproxy runs the app in-process and returns what it wrote.
func runSwapproxy(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	app.Writer = &out
	defer func() { app.Writer = os.Stdout }()
	err := app.Run(append([]string{"swapproxy", "--verbosity", "0"}, args...))
	return out.String(), err
}

func TestCodesCommand(t *testing.T) {
	out, err := runSwapproxy(t, "codes")
	require.NoError(t, err)
	for _, want := range []string{"65537", "NotAdmin", "65546", "UnknownProxyApi", "65024", "InsufficientFunds", "MissingArgument"} {
		assert.Contains(t, out, want)
	}

	out, err = runSwapproxy(t, "codes", "65542")
	require.NoError(t, err)
	assert.Contains(t, out, "AlreadyRegisteredAndReceivedSmallToken")
	assert.NotContains(t, out, "NotAdmin")

	_, err = runSwapproxy(t, "codes", "12345")
	assert.Error(t, err)
}

// copyWorld copies a testdata world file into a fresh directory.
func copyWorld(t *testing.T, name string) string {
	t.Helper()
	dst := filepath.Join(t.TempDir(), name)
	if err := cp.CopyFile(dst, filepath.Join("testdata", name)); err != nil {
		t.Fatalf("failed to copy %s: %v", name, err)
	}
	return dst
}

func TestRunCommand(t *testing.T) {
	world := copyWorld(t, "world.toml")
	prom := filepath.Join(filepath.Dir(world), "swap.prom")

	out, err := runSwapproxy(t, "run", "--metrics", "--metrics.textfile", prom, world)
	require.NoError(t, err)
	assert.Contains(t, out, "insert_snapshot_record")
	assert.Contains(t, out, "65546 UnknownProxyApi")
	assert.Contains(t, out, "999999999999999500")

	metrics, err := os.ReadFile(prom)
	require.NoError(t, err)
	assert.Contains(t, string(metrics), "swapproxy_invocations_total")
}

func TestRunCommandYAML(t *testing.T) {
	out, err := runSwapproxy(t, "run", copyWorld(t, "world.yaml"))
	require.NoError(t, err)
	assert.Contains(t, out, "65542 AlreadyRegisteredAndReceivedSmallToken")
	// One incentive paid out of the admin's 1 hdac.
	assert.Contains(t, out, "900000000000000000")
}

func TestRunWithoutGenesis(t *testing.T) {
	world := filepath.Join(t.TempDir(), "empty.toml")
	require.NoError(t, os.WriteFile(world, nil, 0o600))

	_, err := runSwapproxy(t, "run", world)
	assert.ErrorIs(t, err, errNoGenesis)
}

func TestInvokeCommand(t *testing.T) {
	out, err := runSwapproxy(t, "invoke", "--dev", testAdmin, "string:insert_kyc_allowance_cap", "u512:1000")
	require.NoError(t, err)
	assert.Contains(t, out, "insert_kyc_allowance_cap")

	_, err = runSwapproxy(t, "invoke", "--dev", testAdmin, "string:bogus_method")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errInvocationAborted), "%v", err)
	assert.Contains(t, err.Error(), "65546")

	_, err = runSwapproxy(t, "invoke", "--dev", testAdmin, "--caller", "0xfd0810DD14796680f72adf1a371963d0745BCc64", "string:insert_kyc_allowance_cap", "u512:1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "65537")
}

var (
	pubkeyLine  = regexp.MustCompile(`Public key:\s+(0x[0-9a-f]{66})`)
	addressLine = regexp.MustCompile(`Legacy address:\s+(legacy1\w+)`)
)

func TestLegacyKeyAndSign(t *testing.T) {
	out, err := runSwapproxy(t, "legacy-key", "--mnemonic", testMnemonic, "--index", "1")
	require.NoError(t, err)
	pub := pubkeyLine.FindStringSubmatch(out)
	addr := addressLine.FindStringSubmatch(out)
	require.NotNil(t, pub, out)
	require.NotNil(t, addr, out)

	// Derivation is deterministic and index dependent.
	again, err := runSwapproxy(t, "legacy-key", "--mnemonic", testMnemonic, "--index", "1")
	require.NoError(t, err)
	assert.Equal(t, out, again)
	other, err := runSwapproxy(t, "legacy-key", "--mnemonic", testMnemonic)
	require.NoError(t, err)
	assert.NotEqual(t, addr[1], addressLine.FindStringSubmatch(other)[1])

	sigOut, err := runSwapproxy(t, "sign", "--mnemonic", testMnemonic, "--index", "1", "swap to new chain")
	require.NoError(t, err)
	sig, err := hexDecode(strings.TrimSpace(sigOut))
	require.NoError(t, err)
	pubBytes, err := hexDecode(pub[1])
	require.NoError(t, err)
	assert.True(t, crypto.VerifySignature(pubBytes, crypto.Keccak256([]byte("swap to new chain")), sig[:64]))

	key, err := swap.ParseLegacyPubkey(pub[1])
	require.NoError(t, err)
	assert.Equal(t, addr[1], swap.LegacyAddress(key))
}

func TestLegacyKeyGeneratesMnemonic(t *testing.T) {
	out, err := runSwapproxy(t, "legacy-key")
	require.NoError(t, err)
	m := regexp.MustCompile(`Mnemonic:\s+(.+)\n`).FindStringSubmatch(out)
	require.NotNil(t, m, out)
	assert.Len(t, strings.Fields(m[1]), 12)
}

func TestSignRequiresMnemonic(t *testing.T) {
	_, err := runSwapproxy(t, "sign", "hello")
	assert.Error(t, err)

	_, err = runSwapproxy(t, "sign", "--mnemonic", "not a valid mnemonic", "hello")
	assert.Error(t, err)
}

func TestVersionCommand(t *testing.T) {
	out, err := runSwapproxy(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "Swapproxy")
	assert.Contains(t, out, "Version:")
}

func hexDecode(s string) ([]byte, error) {
	return hex.DecodeString(strings.TrimPrefix(s, "0x"))
}
