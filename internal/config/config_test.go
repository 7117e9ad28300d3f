package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	json := `
		{
			"caster_host": "caster.example.com",
			"caster_port": 2101,
			"caster_scheme": "http",
			"user": "alice",
			"passwd": "secret",
			"mountpoints": ["MOUNT1", "MOUNT2"],
			"retry": 10
		}
	`

	cfg, err := parse(strings.NewReader(json))
	require.NoError(t, err)
	require.Equal(t, "caster.example.com", cfg.CasterHost)
	require.Equal(t, 2101, cfg.CasterPort)
	require.Equal(t, []string{"MOUNT1", "MOUNT2"}, cfg.Mountpoints)
	require.Equal(t, 10, cfg.RetryThreshold)
}

func TestParseRejectsMalformedJSON(t *testing.T) {
	_, err := parse(strings.NewReader("{not json"))
	require.Error(t, err)
}

func TestLoadReadsFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"user": "bob"}`), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "bob", cfg.User)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load("/nonexistent/config.json")
	require.Error(t, err)
}

func TestEffectiveUserFlagWins(t *testing.T) {
	cfg := &Config{User: "fromconfig"}
	require.Equal(t, "fromflag", cfg.EffectiveUser("fromflag"))
	require.Equal(t, "fromconfig", cfg.EffectiveUser(""))
}

func TestEffectiveValuesWithNilConfig(t *testing.T) {
	var cfg *Config
	require.Equal(t, "fromflag", cfg.EffectiveUser("fromflag"))
	require.Equal(t, 5, cfg.EffectiveRetryThreshold(0))
	require.Nil(t, cfg.EffectiveMountpoints(nil))
}

func TestEffectiveRetryThresholdDefault(t *testing.T) {
	cfg := &Config{}
	require.Equal(t, 5, cfg.EffectiveRetryThreshold(0))

	cfg.RetryThreshold = 8
	require.Equal(t, 8, cfg.EffectiveRetryThreshold(0))
	require.Equal(t, 3, cfg.EffectiveRetryThreshold(3))
}

func TestEffectiveMountpointsFlagWins(t *testing.T) {
	cfg := &Config{Mountpoints: []string{"A"}}
	require.Equal(t, []string{"B", "C"}, cfg.EffectiveMountpoints([]string{"B", "C"}))
	require.Equal(t, []string{"A"}, cfg.EffectiveMountpoints(nil))
}
