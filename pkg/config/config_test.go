package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wbuck/azvm-manager/internal/testutil"
	"github.com/wbuck/azvm-manager/pkg/logger"
	"github.com/wbuck/azvm-manager/pkg/models"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	return testutil.WriteStringToTempFile(t, "azvm.yaml", content)
}

func TestLoad_Defaults(t *testing.T) {
	v := viper.New()
	require.NoError(t, Init(v, filepath.Join(t.TempDir(), "missing.yaml")))

	cfg, err := Load(v)

	require.NoError(t, err)
	assert.Equal(t, 2*time.Second, cfg.Poll.StateInterval)
	assert.Equal(t, 5*time.Minute, cfg.Poll.MaxInterval)
	assert.False(t, cfg.Poll.Backoff)
	assert.Zero(t, cfg.Poll.Timeout)
	assert.Equal(t, 1, cfg.Backup.Concurrency)
	assert.Equal(t, "cli", cfg.Azure.Credential)
	assert.Equal(t, logger.DefaultLogPath, cfg.General.LogPath)
	assert.Equal(t, Defaults{}, cfg.Defaults)
}

func TestLoad_FromFile(t *testing.T) {
	path := writeConfig(t, `
defaults:
  subscription_id: sub-1
  resource_group: rg1
  vault_name: vault-1
poll:
  state_interval: 5s
  backoff: true
  timeout: 30m
backup:
  concurrency: 4
`)
	v := viper.New()
	require.NoError(t, Init(v, path))

	cfg, err := Load(v)

	require.NoError(t, err)
	assert.Equal(t, Defaults{SubscriptionID: "sub-1", ResourceGroup: "rg1", VaultName: "vault-1"}, cfg.Defaults)
	assert.Equal(t, 5*time.Second, cfg.Poll.StateInterval)
	assert.True(t, cfg.Poll.Backoff)
	assert.Equal(t, 30*time.Minute, cfg.Poll.Timeout)
	assert.Equal(t, 4, cfg.Backup.Concurrency)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := writeConfig(t, "defaults:\n  subscription_id: from-file\n")
	t.Setenv("AZVM_DEFAULTS_SUBSCRIPTION_ID", "from-env")
	t.Setenv("AZVM_DEFAULTS_RESOURCE_GROUP", "env-rg")
	v := viper.New()
	require.NoError(t, Init(v, path))

	cfg, err := Load(v)

	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.Defaults.SubscriptionID)
	assert.Equal(t, "env-rg", cfg.Defaults.ResourceGroup)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{name: "zero concurrency", content: "backup:\n  concurrency: 0\n", want: KeyConcurrency},
		{name: "zero interval", content: "poll:\n  state_interval: 0s\n", want: KeyStateInterval},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := viper.New()
			require.NoError(t, Init(v, writeConfig(t, tt.content)))
			_, err := Load(v)
			assert.ErrorContains(t, err, tt.want)
		})
	}
}

func TestInit_BrokenFile(t *testing.T) {
	v := viper.New()
	err := Init(v, writeConfig(t, "defaults: [unclosed"))
	assert.Error(t, err)
}

func TestResolvers(t *testing.T) {
	empty := &Config{}
	withDefaults := &Config{Defaults: Defaults{
		SubscriptionID:     "default-sub",
		ResourceGroup:      "default-rg",
		VaultResourceGroup: "default-vault-rg",
		VaultName:          "default-vault",
	}}

	sub, err := withDefaults.Subscription("flag-sub")
	require.NoError(t, err)
	assert.Equal(t, "flag-sub", sub)
	sub, err = withDefaults.Subscription("")
	require.NoError(t, err)
	assert.Equal(t, "default-sub", sub)
	_, err = empty.Subscription("")
	assert.ErrorIs(t, err, ErrNoSubscription)

	_, err = empty.ResourceGroup("")
	assert.ErrorIs(t, err, ErrNoResourceGroup)
	_, err = empty.VaultName("")
	assert.ErrorIs(t, err, ErrNoVault)
	name, err := withDefaults.VaultName("")
	require.NoError(t, err)
	assert.Equal(t, "default-vault", name)
}

func TestVaultResourceGroup(t *testing.T) {
	withDefault := &Config{Defaults: Defaults{VaultResourceGroup: "vault-rg"}}
	empty := &Config{}

	rg, err := withDefault.VaultResourceGroup("flag-rg", "vm-rg")
	require.NoError(t, err)
	assert.Equal(t, "flag-rg", rg)

	rg, err = withDefault.VaultResourceGroup("", "vm-rg")
	require.NoError(t, err)
	assert.Equal(t, "vault-rg", rg)

	rg, err = empty.VaultResourceGroup("", "vm-rg")
	require.NoError(t, err)
	assert.Equal(t, "vm-rg", rg)

	_, err = empty.VaultResourceGroup("", "")
	assert.ErrorIs(t, err, ErrNoResourceGroup)
}

func TestScope(t *testing.T) {
	cfg := &Config{Defaults: Defaults{SubscriptionID: "sub-1"}}

	scope, err := cfg.Scope("", "rg1")
	require.NoError(t, err)
	assert.Equal(t, models.Scope{SubscriptionID: "sub-1", ResourceGroup: "rg1"}, scope)

	_, err = cfg.Scope("", "")
	assert.ErrorIs(t, err, ErrNoResourceGroup)
}

func TestSaveDefaults_CreatesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "azvm.yaml")
	v := viper.New()
	require.NoError(t, Init(v, path))

	written, err := SaveDefaults(v, Defaults{SubscriptionID: "sub-1", VaultName: "vault-1"})
	require.NoError(t, err)
	assert.Equal(t, path, written)

	reloaded := viper.New()
	require.NoError(t, Init(reloaded, path))
	cfg, err := Load(reloaded)
	require.NoError(t, err)
	assert.Equal(t, "sub-1", cfg.Defaults.SubscriptionID)
	assert.Equal(t, "vault-1", cfg.Defaults.VaultName)
}

func TestSaveDefaults_KeepsExistingValues(t *testing.T) {
	path := writeConfig(t, "defaults:\n  subscription_id: sub-1\n  resource_group: rg1\n")
	v := viper.New()
	require.NoError(t, Init(v, path))

	_, err := SaveDefaults(v, Defaults{ResourceGroup: "rg2"})
	require.NoError(t, err)

	reloaded := viper.New()
	require.NoError(t, Init(reloaded, path))
	cfg, err := Load(reloaded)
	require.NoError(t, err)
	assert.Equal(t, "sub-1", cfg.Defaults.SubscriptionID)
	assert.Equal(t, "rg2", cfg.Defaults.ResourceGroup)
}

func TestLoadDotEnv(t *testing.T) {
	const key = "AZVM_TEST_DOTENV_VALUE"
	path := testutil.WriteStringToTempFile(t, ".env", key+"=from-dotenv\n")
	t.Cleanup(func() { _ = os.Unsetenv(key) })

	require.NoError(t, LoadDotEnv(filepath.Join(t.TempDir(), "missing.env"), path))

	assert.Equal(t, "from-dotenv", os.Getenv(key))
}
