package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all configuration for relic
type Config struct {
	Scan   ScanConfig   `mapstructure:"scan"`
	Detect DetectConfig `mapstructure:"detect"`
	Output OutputConfig `mapstructure:"output"`
}

// ScanConfig holds file scanner options
type ScanConfig struct {
	MaxFiles         int      `mapstructure:"max_files"`
	Exclude          []string `mapstructure:"exclude"`
	RespectGitignore bool     `mapstructure:"respect_gitignore"`
}

// DetectConfig holds legacy pattern detection options
type DetectConfig struct {
	MaxSourceFiles int `mapstructure:"max_source_files"`
}

// OutputConfig holds report output options
type OutputConfig struct {
	Format string `mapstructure:"format"` // json, yaml, markdown, xml
}

var defaultConfig = Config{
	Scan: ScanConfig{
		MaxFiles:         1000,
		Exclude:          []string{},
		RespectGitignore: false,
	},
	Detect: DetectConfig{
		MaxSourceFiles: 50,
	},
	Output: OutputConfig{
		Format: "json",
	},
}

// LoadConfig loads configuration from defaults, an optional .relic.yaml
// (current directory or ~/.relic/), and RELIC_* environment variables.
func LoadConfig() (*Config, error) {
	v := viper.New()

	v.SetDefault("scan.max_files", defaultConfig.Scan.MaxFiles)
	v.SetDefault("scan.exclude", defaultConfig.Scan.Exclude)
	v.SetDefault("scan.respect_gitignore", defaultConfig.Scan.RespectGitignore)
	v.SetDefault("detect.max_source_files", defaultConfig.Detect.MaxSourceFiles)
	v.SetDefault("output.format", defaultConfig.Output.Format)

	v.SetConfigName(".relic")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(filepath.Join(home, ".relic"))
	}

	v.SetEnvPrefix("RELIC")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		// Missing config file is fine; anything else is a real problem.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Default returns a copy of the built-in defaults without touching disk.
func Default() *Config {
	cfg := defaultConfig
	return &cfg
}
