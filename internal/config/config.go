// Package config reads the optional JSON configuration file accepted by the
// CLI's --config flag: caster connection details, mountpoints, credentials
// and the reconnect retry threshold. Grounded on apps/rtcmlogger/config and
// jsonconfig/jsonconfig.go in the teacher; CLI flags take precedence over
// whatever this file supplies.
package config

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// Config is the JSON shape accepted by --config. Every field is optional;
// zero values mean "not set, fall back to flags or defaults".
type Config struct {
	CasterHost     string   `json:"caster_host"`
	CasterPort     int      `json:"caster_port"`
	CasterScheme   string   `json:"caster_scheme"`
	User           string   `json:"user"`
	Password       string   `json:"passwd"`
	Mountpoints    []string `json:"mountpoints"`
	NtripVersion1  bool     `json:"ntrip1"`
	RetryThreshold int      `json:"retry"`
	LogFile        string   `json:"logfile"`
	GGA            string   `json:"gga"`
}

// Load reads and parses a Config from the given file path.
func Load(path string) (*Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("config: opening %s: %w", path, err)
	}
	defer file.Close()

	return parse(file)
}

func parse(r io.Reader) (*Config, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("config: reading: %w", err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config: parsing: %w", err)
	}

	return &cfg, nil
}

// applyStringDefault returns flagValue unless it's empty, in which case it
// falls back to configValue. Flags always win over the config file.
func (c *Config) applyStringDefault(flagValue, configValue string) string {
	if flagValue != "" {
		return flagValue
	}
	return configValue
}

// EffectiveUser returns flagUser if set, else the config file's user.
func (c *Config) EffectiveUser(flagUser string) string {
	if c == nil {
		return flagUser
	}
	return c.applyStringDefault(flagUser, c.User)
}

// EffectivePassword returns flagPassword if set, else the config file's password.
func (c *Config) EffectivePassword(flagPassword string) string {
	if c == nil {
		return flagPassword
	}
	return c.applyStringDefault(flagPassword, c.Password)
}

// EffectiveLogFile returns flagLogFile if set, else the config file's logfile.
func (c *Config) EffectiveLogFile(flagLogFile string) string {
	if c == nil {
		return flagLogFile
	}
	return c.applyStringDefault(flagLogFile, c.LogFile)
}

// EffectiveGGA returns flagGGA if set, else the config file's gga line.
func (c *Config) EffectiveGGA(flagGGA string) string {
	if c == nil {
		return flagGGA
	}
	return c.applyStringDefault(flagGGA, c.GGA)
}

// EffectiveRetryThreshold returns flagRetry if it was explicitly set
// (non-zero), else the config file's retry threshold, else the default 5.
func (c *Config) EffectiveRetryThreshold(flagRetry int) int {
	if flagRetry != 0 {
		return flagRetry
	}
	if c != nil && c.RetryThreshold != 0 {
		return c.RetryThreshold
	}
	return 5
}

// EffectiveMountpoints returns flagMountpoints if non-empty, else the
// config file's mountpoint list.
func (c *Config) EffectiveMountpoints(flagMountpoints []string) []string {
	if len(flagMountpoints) > 0 {
		return flagMountpoints
	}
	if c != nil {
		return c.Mountpoints
	}
	return nil
}
