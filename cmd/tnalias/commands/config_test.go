package commands

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/thoreinstein/tnalias/internal/cli"
	"github.com/thoreinstein/tnalias/internal/config"
	"github.com/thoreinstein/tnalias/internal/errors"
)

// configTestCmd returns a command carrying an App built from cfg and points
// --config at a fresh file under a temp directory.
func configTestCmd(t *testing.T, cfg *config.Config) (*cobra.Command, *bytes.Buffer, string) {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.yaml")
	orig := configFlag
	configFlag = path
	t.Cleanup(func() { configFlag = orig })

	if cfg == nil {
		cfg = config.Default()
	}
	app := cli.NewApp(cfg, cli.WithFs(afero.NewOsFs()))

	var buf bytes.Buffer
	c := &cobra.Command{}
	c.SetContext(cli.NewContext(context.Background(), app))
	c.SetOut(&buf)
	c.SetErr(&buf)
	return c, &buf, path
}

func readSavedConfig(t *testing.T, path string) *config.Config {
	t.Helper()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	cfg := config.Default()
	require.NoError(t, yaml.Unmarshal(data, cfg))
	return cfg
}

func requireUserError(t *testing.T, err error) {
	t.Helper()

	require.Error(t, err)
	var exitErr *errors.ExitError
	require.True(t, errors.As(err, &exitErr), "expected ExitError, got %T", err)
	assert.Equal(t, errors.ExitUser, exitErr.Code)
}

func TestConfigGet(t *testing.T) {
	config.Init()
	t.Cleanup(viper.Reset)

	c, buf, _ := configTestCmd(t, nil)
	viper.Set(config.KeyCatalogWorkers, 6)

	require.NoError(t, runConfigGet(c, []string{config.KeyCatalogWorkers}))
	assert.Equal(t, "6\n", buf.String())
}

func TestConfigGet_MasksToken(t *testing.T) {
	config.Init()
	t.Cleanup(viper.Reset)

	c, buf, _ := configTestCmd(t, nil)
	viper.Set(config.KeyCatalogToken, "ghp_secretvalue")

	require.NoError(t, runConfigGet(c, []string{config.KeyCatalogToken}))
	assert.NotContains(t, buf.String(), "secretvalue")
}

func TestConfigGet_UnknownKey(t *testing.T) {
	c, _, _ := configTestCmd(t, nil)
	requireUserError(t, runConfigGet(c, []string{"default_platforms"}))
}

func TestConfigSet_WritesFile(t *testing.T) {
	c, buf, path := configTestCmd(t, nil)

	require.NoError(t, runConfigSet(c, []string{config.KeyCatalogWorkers, "8"}))
	assert.Contains(t, buf.String(), "Set catalog.workers = 8")

	saved := readSavedConfig(t, path)
	assert.Equal(t, 8, saved.Catalog.Workers)
	assert.Equal(t, config.DefaultCatalogURL, saved.Catalog.URL)
}

func TestConfigSet_KeepsExistingValues(t *testing.T) {
	c, _, path := configTestCmd(t, nil)

	require.NoError(t, runConfigSet(c, []string{config.KeySettingsPath, "/games/tni/settings.json"}))
	require.NoError(t, runConfigSet(c, []string{config.KeyCatalogTimeout, "45s"}))
	require.NoError(t, runConfigSet(c, []string{config.KeyBackupEnabled, "false"}))

	saved := readSavedConfig(t, path)
	assert.Equal(t, "/games/tni/settings.json", saved.SettingsPath)
	assert.Equal(t, "45s", saved.Catalog.Timeout.String())
	assert.False(t, saved.Backup.Enabled)
}

func TestConfigSet_Rejected(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{name: "unknown key", key: "default_platforms", value: "claude"},
		{name: "not a number", key: config.KeyCatalogWorkers, value: "many"},
		{name: "out of range", key: config.KeyCatalogWorkers, value: "0"},
		{name: "bad url", key: config.KeyCatalogURL, value: "ftp://example.com/list"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _, path := configTestCmd(t, nil)

			requireUserError(t, runConfigSet(c, []string{tt.key, tt.value}))

			_, err := os.Stat(path)
			assert.True(t, os.IsNotExist(err), "config file must not be written")
		})
	}
}

func TestConfigSet_CorruptFile(t *testing.T) {
	c, _, path := configTestCmd(t, nil)
	require.NoError(t, os.WriteFile(path, []byte("catalog: [unclosed"), 0o600))

	requireUserError(t, runConfigSet(c, []string{config.KeyCatalogWorkers, "8"}))
}

func TestConfigList_MasksToken(t *testing.T) {
	cfg := config.Default()
	cfg.Catalog.Token = "ghp_secretvalue"
	c, buf, _ := configTestCmd(t, cfg)

	require.NoError(t, runConfigList(c, nil))

	out := buf.String()
	assert.Contains(t, out, "workers: 4")
	assert.Contains(t, out, "token:")
	assert.NotContains(t, out, "secretvalue")
	assert.Equal(t, "ghp_secretvalue", cfg.Catalog.Token, "list must not modify the loaded config")
}

func TestConfigPath(t *testing.T) {
	c, buf, path := configTestCmd(t, nil)

	require.NoError(t, configPathCmd.RunE(c, nil))
	assert.Equal(t, path+"\n", buf.String())
}

func TestMaskToken(t *testing.T) {
	assert.Empty(t, maskToken(""))
	assert.NotEqual(t, "abc123456", maskToken("abc123456"))
}
