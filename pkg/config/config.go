package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Metrics   MetricsConfig   `mapstructure:"metrics"`
	Turnstile TurnstileConfig `mapstructure:"turnstile"`
	Mail      MailConfig      `mapstructure:"mail"`
}

type ServerConfig struct {
	Host        string `mapstructure:"host"`
	Port        int    `mapstructure:"port"`
	MetricsPort int    `mapstructure:"metrics_port"`
}

type MetricsConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

// TurnstileConfig holds the Cloudflare Turnstile verification secret. An empty
// secret disables verification entirely.
type TurnstileConfig struct {
	SecretKey string `mapstructure:"secret_key"`
}

// MailConfig holds the Resend delivery credentials and addressing. All three
// fields are required for dispatch to work.
type MailConfig struct {
	APIKey string `mapstructure:"api_key"`
	From   string `mapstructure:"from"`
	To     string `mapstructure:"to"`
}

var globalConfig Config

func Load(configPath string) error {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(configPath)
	viper.AddConfigPath("./config")
	viper.AddConfigPath(".")

	setDefaultValues()

	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFoundError) {
			return fmt.Errorf("error reading config file: %w", err)
		}
		// no config file: environment variables only
	}

	if err := viper.Unmarshal(&globalConfig); err != nil {
		return fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return nil
}

// setDefaultValues registers every key with viper so AutomaticEnv can
// override it even when no config file is present.
func setDefaultValues() {
	viper.SetDefault("server.host", "0.0.0.0")
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.metrics_port", 9090)
	viper.SetDefault("metrics.enabled", false)
	viper.SetDefault("turnstile.secret_key", "")
	viper.SetDefault("mail.api_key", "")
	viper.SetDefault("mail.from", "")
	viper.SetDefault("mail.to", "")
}

func GetConfig() *Config {
	return &globalConfig
}
