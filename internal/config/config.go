// Package config loads the CLI's own ambient settings — default root,
// default rule-file path, colour and log-format preferences — layered
// through viper the way the teacher's tooling configuration does. This
// is distinct from the install-rule configuration (internal/rules),
// which the core engine treats as an opaque, hand-rolled format per
// spec §6.
package config

import (
	"os"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Config is the resolved ambient CLI configuration.
type Config struct {
	Root      string `mapstructure:"root"`
	RuleFile  string `mapstructure:"rule_file"`
	NoColor   bool   `mapstructure:"no_color"`
	LogFormat string `mapstructure:"log_format"`
	Verbosity int    `mapstructure:"verbosity"`
}

// Defaults mirror the on-disk layout spec §6 defines.
func Defaults() Config {
	return Config{
		Root:      "/",
		RuleFile:  "/etc/pkgadd.conf",
		NoColor:   false,
		LogFormat: "console",
		Verbosity: 0,
	}
}

// Load layers, in increasing priority: built-in defaults, a YAML file at
// one of the conventional search paths, then environment variables
// prefixed PKGCTL_. It never errors on a missing config file — only a
// malformed one.
func Load(explicitPath string) (Config, error) {
	v := viper.New()
	d := Defaults()
	v.SetDefault("root", d.Root)
	v.SetDefault("rule_file", d.RuleFile)
	v.SetDefault("no_color", d.NoColor)
	v.SetDefault("log_format", d.LogFormat)
	v.SetDefault("verbosity", d.Verbosity)

	v.SetEnvPrefix("pkgctl")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if explicitPath != "" {
		if _, err := os.Stat(explicitPath); err != nil {
			// No file at the explicit path is not an error: fall back to
			// defaults and environment, same as an unconfigured system.
			explicitPath = ""
		}
	}

	if explicitPath != "" {
		v.SetConfigFile(explicitPath)
	} else {
		v.SetConfigName("pkgctl")
		v.SetConfigType("yaml")
		v.AddConfigPath("/etc")
		v.AddConfigPath("$HOME/.config/pkgctl")
	}

	if err := v.ReadInConfig(); err != nil {
		if _, notFound := err.(viper.ConfigFileNotFoundError); !notFound {
			return Config{}, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Dump renders the resolved configuration as YAML, the same format it is
// read back in, for diagnostic echo at high verbosity (mirrors the
// teacher's own YAML marshal strategy for its configuration type).
func (c Config) Dump() ([]byte, error) {
	return yaml.Marshal(c)
}
