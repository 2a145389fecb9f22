package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/galleria-go/pkg/logger"
	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Provider  ProviderConfig  `mapstructure:"provider"`
	Viewer    ViewerConfig    `mapstructure:"viewer"`
	RateLimit RateLimitConfig `mapstructure:"ratelimit"`
	Logger    logger.Config   `mapstructure:"logger"`
}

type ServerConfig struct {
	Port            int    `mapstructure:"port"`
	Host            string `mapstructure:"host"`
	ReadTimeout     int    `mapstructure:"read_timeout"`
	WriteTimeout    int    `mapstructure:"write_timeout"`
	ShutdownTimeout int    `mapstructure:"shutdown_timeout"`
}

// ProviderConfig selects and configures the file-hosting backend.
// Type is either "uploadkit" (the hosted service's REST API) or "s3".
type ProviderConfig struct {
	Type       string   `mapstructure:"type"`
	APIURL     string   `mapstructure:"api_url"`
	APIKey     string   `mapstructure:"api_key"`
	AppID      string   `mapstructure:"app_id"`
	PublicHost string   `mapstructure:"public_host"`
	Timeout    int      `mapstructure:"timeout"`
	S3         S3Config `mapstructure:"s3"`
}

type S3Config struct {
	Region         string `mapstructure:"region"`
	Bucket         string `mapstructure:"bucket"`
	Endpoint       string `mapstructure:"endpoint"`
	ForcePathStyle bool   `mapstructure:"force_path_style"`
}

// PublicURL renders the provider's fixed object-URL template for a key.
func (p ProviderConfig) PublicURL(key string) string {
	return fmt.Sprintf("https://%s/f/%s", p.PublicHost, key)
}

// ViewerConfig carries the viewer's pacing knobs. The delays are a
// politeness mechanism toward the provider and the platform's download
// throttling, not tuning parameters.
type ViewerConfig struct {
	FacadeURL       string `mapstructure:"facade_url"`
	DownloadDir     string `mapstructure:"download_dir"`
	Timeout         int    `mapstructure:"timeout"`
	DownloadDelayMs int    `mapstructure:"download_delay_ms"`
	DeleteDelayMs   int    `mapstructure:"delete_delay_ms"`
	NoticeTTLSec    int    `mapstructure:"notice_ttl_sec"`
}

func (v ViewerConfig) DownloadDelay() time.Duration {
	return time.Duration(v.DownloadDelayMs) * time.Millisecond
}

func (v ViewerConfig) DeleteDelay() time.Duration {
	return time.Duration(v.DeleteDelayMs) * time.Millisecond
}

func (v ViewerConfig) NoticeTTL() time.Duration {
	return time.Duration(v.NoticeTTLSec) * time.Second
}

type RateLimitConfig struct {
	Enabled bool `mapstructure:"enabled"`
	RPS     int  `mapstructure:"rps"`
	Burst   int  `mapstructure:"burst"`
}

func Load(name string) (*Config, error) {
	viper.SetConfigName(name)
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./configs")
	viper.AddConfigPath("/etc/galleria")

	setDefaults()

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.SetEnvPrefix("GALLERIA")

	if err := viper.ReadInConfig(); err != nil {
		// Defaults and env vars are enough when no file is present.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &config, nil
}

func setDefaults() {
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.host", "0.0.0.0")
	viper.SetDefault("server.read_timeout", 30)
	viper.SetDefault("server.write_timeout", 30)
	viper.SetDefault("server.shutdown_timeout", 30)

	viper.SetDefault("provider.type", "uploadkit")
	viper.SetDefault("provider.api_url", "https://api.uploadkit.com/v6")
	viper.SetDefault("provider.public_host", "utfs.io")
	viper.SetDefault("provider.timeout", 30)
	viper.SetDefault("provider.s3.region", "us-east-1")
	viper.SetDefault("provider.s3.force_path_style", false)

	viper.SetDefault("viewer.facade_url", "http://localhost:8080")
	viper.SetDefault("viewer.download_dir", "")
	viper.SetDefault("viewer.timeout", 30)
	viper.SetDefault("viewer.download_delay_ms", 500)
	viper.SetDefault("viewer.delete_delay_ms", 100)
	viper.SetDefault("viewer.notice_ttl_sec", 4)

	viper.SetDefault("ratelimit.enabled", true)
	viper.SetDefault("ratelimit.rps", 50)
	viper.SetDefault("ratelimit.burst", 100)

	viper.SetDefault("logger.level", "info")
	viper.SetDefault("logger.format", "json")
	viper.SetDefault("logger.add_caller", true)
}
