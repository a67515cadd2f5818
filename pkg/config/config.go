// Package config loads the channel layer's runtime tunables from a YAML
// file with environment-variable overrides, following the config-loading
// shape used elsewhere in the example pack (viper.SetConfigFile +
// viper.Unmarshal into a typed struct).
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds every tunable this repository's demo CLI and channel
// pump need.
type Config struct {
	// ListenAddr is the UDP address to bind for "serve" mode.
	ListenAddr string `mapstructure:"listen_addr"`

	// RemoteAddr is the UDP address "send" mode connects to.
	RemoteAddr string `mapstructure:"remote_addr"`

	// CleanupInterval is how often the fragment reassembler's Cleanup is
	// invoked.
	CleanupInterval time.Duration `mapstructure:"cleanup_interval"`

	// FragmentMaxAge is the cutoff age passed to Cleanup: in-flight
	// reassemblies whose last fragment arrived longer ago than this are
	// evicted.
	FragmentMaxAge time.Duration `mapstructure:"fragment_max_age"`

	// MaxFragmentsPerMessage bounds num_fragments accepted per message,
	// overriding the package default when non-zero.
	MaxFragmentsPerMessage int `mapstructure:"max_fragments_per_message"`

	// Debug enables debug-level logging.
	Debug bool `mapstructure:"debug"`

	// LogFile, when non-empty, routes logs through a rotating file
	// instead of stderr.
	LogFile string `mapstructure:"log_file"`
}

// Defaults returns the configuration used when no file or override is
// present.
func Defaults() Config {
	return Config{
		ListenAddr:             ":9500",
		CleanupInterval:        5 * time.Second,
		FragmentMaxAge:         10 * time.Second,
		MaxFragmentsPerMessage: 1024,
	}
}

// Load reads configuration from path (if non-empty) layered over
// Defaults, then applies RELAYNET_-prefixed environment variable
// overrides (e.g. RELAYNET_LISTEN_ADDR).
func Load(path string) (Config, error) {
	cfg := Defaults()

	v := viper.New()
	v.SetEnvPrefix("relaynet")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("listen_addr", cfg.ListenAddr)
	v.SetDefault("cleanup_interval", cfg.CleanupInterval)
	v.SetDefault("fragment_max_age", cfg.FragmentMaxAge)
	v.SetDefault("max_fragments_per_message", cfg.MaxFragmentsPerMessage)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("config: reading %s: %w", path, err)
		}
	}

	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: unmarshal: %w", err)
	}
	return cfg, nil
}
