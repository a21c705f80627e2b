package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

// writeConfigFile marshals the given tree into configs/config.yaml under a
// temp working directory.
func writeConfigFile(t *testing.T, tree map[string]interface{}) {
	t.Helper()

	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, "configs"), 0o755))

	raw, err := yaml.Marshal(tree)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "configs", "config.yaml"), raw, 0o644))

	t.Chdir(dir)
}

func TestLoad(t *testing.T) {
	writeConfigFile(t, map[string]interface{}{
		"server": map[string]interface{}{
			"port": 9090,
			"mode": "debug",
		},
		"payman": map[string]interface{}{
			"merchant_id": "test-merchant",
			"sandbox":     true,
		},
		"cipher": map[string]interface{}{
			"master_secret": "file-secret",
		},
	})

	cfg, err := Load("test")
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "test", cfg.Server.Mode, "env parameter overrides the file")
	assert.Equal(t, "test-merchant", cfg.Payman.MerchantID)
	assert.True(t, cfg.Payman.Sandbox)
	assert.Equal(t, "file-secret", cfg.Cipher.MasterSecret)

	// Unset keys fall back to defaults.
	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, 10, cfg.Payman.TimeoutSeconds)
	assert.Equal(t, 15, cfg.Payman.BankListTTLMins)
	assert.Equal(t, 1, cfg.Payman.ContractExpHours)
	assert.Equal(t, "Lax", cfg.Auth.Cookie.SameSite)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.Server.AllowedOrigins)
}

func TestLoad_EnvOverride(t *testing.T) {
	writeConfigFile(t, map[string]interface{}{
		"server": map[string]interface{}{"port": 9090},
	})

	t.Setenv("PAYDESK_DATABASE_PORT", "3307")
	t.Setenv("PAYDESK_PAYMAN_MERCHANT_ID", "env-merchant")

	cfg, err := Load("test")
	require.NoError(t, err)

	assert.Equal(t, 3307, cfg.Database.Port)
	assert.Equal(t, "env-merchant", cfg.Payman.MerchantID)
}

func TestLoad_MissingFile(t *testing.T) {
	t.Chdir(t.TempDir())

	_, err := Load("test")
	assert.Error(t, err)
}

func TestGet_ReturnsLoadedConfig(t *testing.T) {
	writeConfigFile(t, map[string]interface{}{
		"server": map[string]interface{}{"port": 7070},
	})

	cfg, err := Load("test")
	require.NoError(t, err)

	assert.Same(t, cfg, Get())
}
