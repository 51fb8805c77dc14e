package config

import (
	"fmt"
	"path/filepath"
	"strings"

	internal "github.com/Crinklebine/dirstamp/dirstamp"

	"github.com/spf13/viper"
)

// Config stores all configuration of the application.
// The values are read by viper from a config file or environment variables.
type Config struct {
	Dirstamp DirstampConfig `mapstructure:"dirstamp"`
}

// DirstampConfig stores run defaults. CLI flags take precedence over any
// value configured here.
type DirstampConfig struct {
	RootDir          string `mapstructure:"rootDir"`
	FollowSymlinks   bool   `mapstructure:"followSymlinks"`
	ToleranceSeconds int    `mapstructure:"toleranceSeconds"`
	IgnoreFile       string `mapstructure:"ignoreFile"`
	LogLevel         string `mapstructure:"logLevel"`
}

var AppConfig Config

// LoadConfig reads configuration from file or environment variables.
func LoadConfig(configPath string) (*Config, error) {
	if configPath != "" {
		viper.SetConfigFile(configPath)
	} else {
		viper.AddConfigPath(".")
		viper.AddConfigPath(filepath.Join("etc", internal.DefaultAppName))
		viper.AddConfigPath(internal.DefaultConfigPath)
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
	}

	// Set default values
	viper.SetDefault("dirstamp.rootDir", ".")
	viper.SetDefault("dirstamp.followSymlinks", false)
	viper.SetDefault("dirstamp.toleranceSeconds", internal.DefaultToleranceSeconds)
	viper.SetDefault("dirstamp.ignoreFile", "")
	viper.SetDefault("dirstamp.logLevel", "warn")

	viper.AutomaticEnv()                                   // Read in environment variables that match
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_")) // e.g. dirstamp.followSymlinks becomes DIRSTAMP_FOLLOWSYMLINKS

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			// Config file not found; defaults will be used. This is not an
			// error for the application to halt on.
		} else {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	err := viper.Unmarshal(&AppConfig)
	if err != nil {
		return nil, fmt.Errorf("unable to decode into struct: %w", err)
	}

	return &AppConfig, nil
}
