package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testAdmin = "0x71562b71999873DB5b286dF957af199Ec94617F7"
	testUser  = "0xfd0810DD14796680f72adf1a371963d0745BCc64"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadTOML(t *testing.T) {
	path := writeFile(t, "world.toml", `
[Log]
Verbosity = 4

[Metrics]
Enabled = true
Textfile = "out.prom"

[Genesis]
Admin = "`+testAdmin+`"
Incentive = "42"

[[Genesis.Accounts]]
Address = "`+testAdmin+`"
Balance = "1000"

[[Genesis.Accounts]]
Address = "`+testUser+`"
Balance = "0x10"

[[Invocations]]
Caller = "`+testAdmin+`"
Args = ["string:insert_kyc_allowance_cap", "u512:1000"]
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 4, cfg.Log.Verbosity)
	assert.False(t, cfg.Log.NoColor)
	assert.True(t, cfg.Metrics.Enabled)
	assert.Equal(t, "out.prom", cfg.Metrics.Textfile)
	require.NotNil(t, cfg.Genesis)
	assert.Equal(t, testAdmin, cfg.Genesis.Admin)
	assert.Equal(t, "42", cfg.Genesis.Incentive)
	require.Len(t, cfg.Genesis.Accounts, 2)
	assert.Equal(t, "0x10", cfg.Genesis.Accounts[1].Balance)
	require.Len(t, cfg.Invocations, 1)
	assert.Equal(t, []string{"string:insert_kyc_allowance_cap", "u512:1000"}, cfg.Invocations[0].Args)
	assert.Empty(t, cfg.Invocations[0].Target)
}

func TestLoadYAML(t *testing.T) {
	path := writeFile(t, "world.yaml", `
log:
  verbosity: 5
  nocolor: true
genesis:
  admin: "`+testAdmin+`"
  accounts:
    - address: "`+testAdmin+`"
      balance: "1000"
invocations:
  - caller: "`+testAdmin+`"
    target: "hash-0x0000000000000000000000000000000000000000000000000000000048444353"
    args: ["string:get_contract_purse"]
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 5, cfg.Log.Verbosity)
	assert.True(t, cfg.Log.NoColor)
	assert.Equal(t, Defaults.Metrics, cfg.Metrics)
	require.NotNil(t, cfg.Genesis)
	require.Len(t, cfg.Genesis.Accounts, 1)
	require.Len(t, cfg.Invocations, 1)
	assert.True(t, strings.HasPrefix(cfg.Invocations[0].Target, "hash-0x"))
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.Log.Verbosity)
	assert.Nil(t, cfg.Genesis)
	assert.Empty(t, cfg.Invocations)
}

func TestLoadUnknownField(t *testing.T) {
	_, err := Load(writeFile(t, "bad.toml", "[Log]\nLevel = 3\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad.toml")

	_, err = Load(writeFile(t, "bad.yml", "log:\n  level: 3\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad.yml")
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("SWAPPROXY_LOG_VERBOSITY", "1")
	t.Setenv("SWAPPROXY_LOG_NOCOLOR", "true")
	t.Setenv("SWAPPROXY_METRICS_ENABLED", "true")
	t.Setenv("SWAPPROXY_METRICS_TEXTFILE", "/tmp/swap.prom")

	path := writeFile(t, "world.toml", "[Log]\nVerbosity = 4\n")
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 1, cfg.Log.Verbosity)
	assert.True(t, cfg.Log.NoColor)
	assert.True(t, cfg.Metrics.Enabled)
	assert.Equal(t, "/tmp/swap.prom", cfg.Metrics.Textfile)
}

func TestEnvInvalidValue(t *testing.T) {
	t.Setenv("SWAPPROXY_LOG_VERBOSITY", "loud")
	_, err := Load("")
	assert.Error(t, err)
}
