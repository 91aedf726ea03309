package config

import (
	"errors"
	"time"

	"github.com/spf13/viper"
)

const ConfigDirEnvVar = "CONFIG_DIR"

type Config struct {
	ProcDir                  string        `mapstructure:"procDir"`
	EnablePrometheusExporter bool          `mapstructure:"prometheusExporterEnabled"`
	UnmountRetryInterval     time.Duration `mapstructure:"unmountRetryInterval"`
	MaxUnmountRetries        uint64        `mapstructure:"maxUnmountRetries"`
}

// LoadConfig reads configuration from file or environment variables. A
// missing config file is fine, the defaults cover a stock Linux host.
func LoadConfig(path string) (Config, error) {
	viper.AddConfigPath(path)
	viper.SetConfigName("config")
	viper.SetConfigType("json")

	viper.SetDefault("procDir", "/proc")
	viper.SetDefault("unmountRetryInterval", 5*time.Second)
	viper.SetDefault("maxUnmountRetries", 6)

	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, err
		}
	}

	var config Config
	err := viper.Unmarshal(&config)
	return config, err
}
