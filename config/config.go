// Package config loads application settings from defaults, an optional TOML
// file and CAIXA_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/warp/caixa/assetcache"
	"github.com/warp/caixa/reconcile"
)

// Config holds application configuration.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Storage  StorageConfig
	Assets   AssetsConfig
	Log      LogConfig
	UI       UIConfig
}

// ServerConfig holds HTTP settings.
type ServerConfig struct {
	Port           int
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// DatabaseConfig holds sqlite settings. An empty path runs without storage.
type DatabaseConfig struct {
	Path string
}

// StorageConfig names the record key.
type StorageConfig struct {
	Key string
}

// AssetsConfig configures the offline asset cache.
type AssetsConfig struct {
	Dir         string
	Upstream    string
	CacheName   string `mapstructure:"cache_name"`
	Precache    []string
	CachePolicy string `mapstructure:"cache_policy"`
}

// LogConfig holds logger settings.
type LogConfig struct {
	Level string
}

// UIConfig holds presentation settings.
type UIConfig struct {
	Currency string
}

// New returns a viper instance with every default set, reading the config
// file named by CAIXA_CONFIG or ~/.config/caixa/config.toml when present.
func New() *viper.Viper {
	v := viper.New()

	v.SetDefault("server.port", 8080)
	v.SetDefault("server.allowed_origins", []string{"http://localhost:5173", "http://localhost:8080"})
	v.SetDefault("database.path", "caixa.db")
	v.SetDefault("storage.key", reconcile.DefaultKey)
	v.SetDefault("assets.dir", "./web/dist")
	v.SetDefault("assets.upstream", "")
	v.SetDefault("assets.cache_name", assetcache.DefaultCacheName)
	v.SetDefault("assets.precache", assetcache.DefaultPrecache)
	v.SetDefault("assets.cache_policy", "strict")
	v.SetDefault("log.level", "info")
	v.SetDefault("ui.currency", reconcile.DefaultCurrency)

	v.SetConfigType("toml")
	if path := os.Getenv("CAIXA_CONFIG"); path != "" {
		v.SetConfigFile(path)
	} else if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(filepath.Join(home, ".config", "caixa"))
		v.SetConfigName("config")
	}

	v.SetEnvPrefix("CAIXA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// Load reads the config file if present and unmarshals v.
func Load(v *viper.Viper) (Config, error) {
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if os.Getenv("CAIXA_CONFIG") != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if _, err := assetcache.ParsePolicy(c.Assets.CachePolicy); err != nil {
		return Config{}, err
	}
	return c, nil
}

// CachePolicy returns the parsed asset cache policy.
func (c Config) CachePolicy() assetcache.Policy {
	p, _ := assetcache.ParsePolicy(c.Assets.CachePolicy)
	return p
}
