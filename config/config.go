/*
Configuration of time adjuster service.

TOML or YAML, chosen by file extension. Keys absent from file keep defaults
*/
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/hjkoskel/timeadjuster"
)

type Config struct {
	ServerTZ    int   `toml:"server_tz" yaml:"server_tz"`       //minutes, positive west
	RegionTZ    int   `toml:"region_tz" yaml:"region_tz"`       //minutes, positive west
	ToleranceMs int64 `toml:"tolerance_ms" yaml:"tolerance_ms"` //net lag tolerance

	NTPServers      []string `toml:"ntp_servers,omitempty" yaml:"ntp_servers,omitempty"`
	NTPTimeout      string   `toml:"ntp_timeout,omitempty" yaml:"ntp_timeout,omitempty"`
	HTTPURL         string   `toml:"http_url,omitempty" yaml:"http_url,omitempty"` //Date header source, used if no NTP servers
	RefreshInterval string   `toml:"refresh_interval,omitempty" yaml:"refresh_interval,omitempty"`

	HistoryDir     string `toml:"history_dir,omitempty" yaml:"history_dir,omitempty"`
	MetricsAddress string `toml:"metrics_address,omitempty" yaml:"metrics_address,omitempty"`
}

//Default returns config with server and region at UTC
func Default() *Config {
	s := timeadjuster.DefaultSettings()
	return &Config{
		ServerTZ:        s.ServerTZ,
		RegionTZ:        s.RegionTZ,
		ToleranceMs:     s.Tolerance,
		NTPTimeout:      "30s",
		RefreshInterval: "15m",
	}
}

//Load reads config from TOML or YAML file on top of defaults
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	c := Default()
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		err = toml.Unmarshal(data, c)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, c)
	default:
		return nil, fmt.Errorf("unknown config format %q", filepath.Ext(path))
	}
	if err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if errValid := c.Validate(); errValid != nil {
		return nil, errValid
	}
	return c, nil
}

func (c *Config) Validate() error {
	if c.ToleranceMs < 0 {
		return fmt.Errorf("tolerance_ms must not be negative (%v)", c.ToleranceMs)
	}
	if _, err := c.NTPTimeoutDuration(); err != nil {
		return err
	}
	if d, err := c.RefreshIntervalDuration(); err != nil {
		return err
	} else if d <= 0 {
		return fmt.Errorf("refresh_interval must be positive (%v)", c.RefreshInterval)
	}
	return nil
}

func (c *Config) NTPTimeoutDuration() (time.Duration, error) {
	d, err := time.ParseDuration(c.NTPTimeout)
	if err != nil {
		return 0, fmt.Errorf("invalid ntp_timeout: %w", err)
	}
	return d, nil
}

func (c *Config) RefreshIntervalDuration() (time.Duration, error) {
	d, err := time.ParseDuration(c.RefreshInterval)
	if err != nil {
		return 0, fmt.Errorf("invalid refresh_interval: %w", err)
	}
	return d, nil
}

//Settings for timeadjuster.NewTimeAdjuster
func (c *Config) Settings() timeadjuster.Settings {
	return timeadjuster.Settings{
		ServerTZ:  c.ServerTZ,
		RegionTZ:  c.RegionTZ,
		Tolerance: c.ToleranceMs,
	}
}
