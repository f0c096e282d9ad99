package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	configName = "pagestream"
	envPrefix  = "PAGESTREAM"
)

const (
	DefaultOutDir    = "public"
	DefaultSourceDir = ".tmp/pages"
	DefaultImportMap = "import-map.json"
	DefaultLogLevel  = "info"
)

type Config struct {
	OutDir    string `mapstructure:"out_dir"`
	SourceDir string `mapstructure:"source_dir"`
	ImportMap string `mapstructure:"import_map"`
	LogLevel  string `mapstructure:"log_level"`
	NoColor   bool   `mapstructure:"no_color"`
}

// flagKeys maps command line flags onto config keys.
var flagKeys = map[string]string{
	"out":        "out_dir",
	"src":        "source_dir",
	"import-map": "import_map",
	"log-level":  "log_level",
	"no-color":   "no_color",
}

// Load resolves configuration from defaults, an optional config file,
// PAGESTREAM_* environment variables and flags, lowest precedence first.
// A missing config file is not an error unless configPath names one.
func Load(configPath string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()

	v.SetDefault("out_dir", DefaultOutDir)
	v.SetDefault("source_dir", DefaultSourceDir)
	v.SetDefault("import_map", DefaultImportMap)
	v.SetDefault("log_level", DefaultLogLevel)
	v.SetDefault("no_color", false)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName(configName)
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configPath != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	if flags != nil {
		for name, key := range flagKeys {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("failed to bind flag %s: %w", name, err)
				}
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	if c.OutDir == "" {
		return fmt.Errorf("out_dir cannot be empty")
	}
	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown log level %q", c.LogLevel)
	}
	return nil
}
