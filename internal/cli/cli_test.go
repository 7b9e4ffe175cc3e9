package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubcommandsRegistered(t *testing.T) {
	for _, name := range []string{"list", "show", "create", "delete", "toggle", "played", "enable", "backup", "restore"} {
		cmd, _, err := rootCmd.Find([]string{name})
		require.NoError(t, err, name)
		assert.Equal(t, name, cmd.Name())
		assert.NotEmpty(t, cmd.Short)
	}
	assert.NotNil(t, rootCmd.PersistentFlags().Lookup("config"))
}

func TestLoadConfigExplicitPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "retrocoll.json")
	content := `{"roms_root":"/roms","systems":[{"name":"snes","extensions":["zip"]}]}`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "/roms", cfg.RomsRoot)
}
