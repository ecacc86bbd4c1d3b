package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, ":8080", cfg.Server.Port)
	assert.Equal(t, "UTC", cfg.Parser.DefaultTimezone)
	assert.Contains(t, cfg.Parser.ConferencingHosts, "zoom.")
	assert.Equal(t, 500, cfg.Parser.MaxNotesLength)
	assert.Equal(t, 16, cfg.Parser.MaxTimeCandidates)
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
server:
  port: ":9090"
parser:
  default_timezone: "America/New_York"
  max_notes_length: 200
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	t.Setenv("CONFIG_FILE", path)

	cfg := Load()
	assert.Equal(t, ":9090", cfg.Server.Port)
	assert.Equal(t, "America/New_York", cfg.Parser.DefaultTimezone)
	assert.Equal(t, 200, cfg.Parser.MaxNotesLength)
	// Fields the file omits keep their defaults.
	assert.Equal(t, 16, cfg.Parser.MaxTimeCandidates)
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	t.Setenv("CONFIG_FILE", filepath.Join(t.TempDir(), "absent.yaml"))
	cfg := Load()
	assert.Equal(t, Default(), cfg)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("CONFIG_FILE", filepath.Join(t.TempDir(), "absent.yaml"))
	t.Setenv("SERVER_PORT", ":7070")
	t.Setenv("PARSER_DEFAULT_TIMEZONE", "Europe/Helsinki")
	t.Setenv("PARSER_CONFERENCING_HOSTS", "zoom., custom-bridge.")
	t.Setenv("PARSER_MAX_TIME_CANDIDATES", "4")

	cfg := Load()
	assert.Equal(t, ":7070", cfg.Server.Port)
	assert.Equal(t, "Europe/Helsinki", cfg.Parser.DefaultTimezone)
	assert.Equal(t, []string{"zoom.", "custom-bridge."}, cfg.Parser.ConferencingHosts)
	assert.Equal(t, 4, cfg.Parser.MaxTimeCandidates)
}

func TestEnvOverrideIgnoresInvalidNumbers(t *testing.T) {
	t.Setenv("CONFIG_FILE", filepath.Join(t.TempDir(), "absent.yaml"))
	t.Setenv("PARSER_MAX_NOTES_LENGTH", "not-a-number")
	cfg := Load()
	assert.Equal(t, 500, cfg.Parser.MaxNotesLength)
}
