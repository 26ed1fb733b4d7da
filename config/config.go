// Ininicializing common application configuration
package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Fetcher FetcherConfig `mapstructure:"fetcher"`
	Storage StorageConfig `mapstructure:"storage"`
	Preset  PresetConfig  `mapstructure:"preset"`
	Kafka   KafkaConfig   `mapstructure:"kafka"`
	Metrics MetricsConfig `mapstructure:"metrics"`
}

type ServerConfig struct {
	AppVersion    string        `mapstructure:"app_version"`
	Host          string        `mapstructure:"host"`
	Port          string        `mapstructure:"port"`
	Timeout       time.Duration `mapstructure:"timeout"`
	RenderTimeout time.Duration `mapstructure:"render_timeout"`
	Idle_timeout  time.Duration `mapstructure:"idle_timeout"`
	Env           string        `mapstructure:"environment"`
	Mode          string        `mapstructure:"mode"`
	LogLevel      string        `mapstructure:"log_level"`
}

type FetcherConfig struct {
	Timeout   time.Duration `mapstructure:"timeout"`
	MaxBytes  int64         `mapstructure:"max_bytes"`
	MaxPixels int64         `mapstructure:"max_pixels"`
	UserAgent string        `mapstructure:"user_agent"`
}

type StorageConfig struct {
	TempDir string `mapstructure:"temp_dir"`
}

// PresetConfig holds the fixed parameters of the /discosolaris route.
type PresetConfig struct {
	Background   string        `mapstructure:"background"`
	Logo         string        `mapstructure:"logo"`
	Overlay      string        `mapstructure:"overlay"`
	TextColor    string        `mapstructure:"text_color"`
	QuoteURL     string        `mapstructure:"quote_url"`
	QuoteTimeout time.Duration `mapstructure:"quote_timeout"`
	DateLayout   string        `mapstructure:"date_layout"`
	FallbackText string        `mapstructure:"fallback_text"`
}

type KafkaConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Brokers string `mapstructure:"brokers"`
	Topic   string `mapstructure:"topic"`
}

type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

func LoadConfig() (*viper.Viper, error) {

	viperInstance := viper.New()

	viperInstance.AddConfigPath("./config")
	viperInstance.SetConfigName("config")
	viperInstance.SetConfigType("yaml")

	setDefaults(viperInstance)

	viperInstance.SetEnvPrefix("APP")
	viperInstance.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viperInstance.AutomaticEnv()
	if err := viperInstance.BindEnv("server.port", "PORT"); err != nil {
		return nil, err
	}

	err := viperInstance.ReadInConfig()

	var notFound viper.ConfigFileNotFoundError
	if err != nil && !errors.As(err, &notFound) {
		return nil, err
	}
	return viperInstance, nil
}

func ParseConfig(v *viper.Viper) (*Config, error) {

	var c Config

	err := v.Unmarshal(&c)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// GetServerAddress returns host:port the http server listens on
func (c *Config) GetServerAddress() string {
	return c.Server.Host + ":" + c.Server.Port
}

// RenderBudget is the deadline given to one render. It always ends before the
// http write timeout so a finished image can still be written.
func (c *Config) RenderBudget() time.Duration {
	write := c.Server.Timeout
	budget := c.Server.RenderTimeout
	if write <= 0 {
		return budget
	}
	if budget <= 0 || budget >= write {
		return write - write/6
	}
	return budget
}

func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.app_version", "1.0.0")
	v.SetDefault("server.host", "")
	v.SetDefault("server.port", "1337")
	v.SetDefault("server.timeout", 60*time.Second)
	v.SetDefault("server.render_timeout", 50*time.Second)
	v.SetDefault("server.idle_timeout", 60*time.Second)
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.mode", "debug")
	v.SetDefault("server.log_level", "info")

	// Fetcher defaults
	v.SetDefault("fetcher.timeout", 30*time.Second)
	v.SetDefault("fetcher.max_bytes", 20<<20)
	v.SetDefault("fetcher.max_pixels", 25_000_000)
	v.SetDefault("fetcher.user_agent", "imagecomposer/1.0")

	// Storage defaults
	v.SetDefault("storage.temp_dir", filepath.Join(os.TempDir(), "imagecomposer"))

	// Preset defaults
	v.SetDefault("preset.background", "https://disco-solaris.github.io/assets/background.png")
	v.SetDefault("preset.logo", "https://disco-solaris.github.io/assets/logo.png")
	v.SetDefault("preset.overlay", "https://disco-solaris.github.io/assets/overlay.png")
	v.SetDefault("preset.text_color", "ffffff")
	v.SetDefault("preset.quote_url", "https://api.quotable.io/random")
	v.SetDefault("preset.quote_timeout", 5*time.Second)
	v.SetDefault("preset.date_layout", "02.01.2006")
	v.SetDefault("preset.fallback_text", "")

	// Kafka defaults
	v.SetDefault("kafka.enabled", false)
	v.SetDefault("kafka.brokers", "localhost:9092")
	v.SetDefault("kafka.topic", "render-events")

	// Metrics defaults
	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.path", "/metrics")
}
