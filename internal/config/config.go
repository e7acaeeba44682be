// internal/config/config.go
package config

import (
	"log"
	"os"
	"sync"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server  ServerConfig
	App     AppConfig
	Cache   CacheConfig
	Storage StorageConfig
}

type ServerConfig struct {
	Port           string
	Mode           string
	ReadTimeout    int
	WriteTimeout   int
	AllowedOrigins []string
}

type AppConfig struct {
	// InputPath is a CSV file or a directory of CSV files holding the
	// transaction batch.
	InputPath string
	OutputDir string
	// SelectorKey is "machine_id" or "location_type"; it drives both the
	// selector dropdown and the filter predicate.
	SelectorKey     string
	StrictSelectors bool
}

type CacheConfig struct {
	Enabled        bool
	RedisURL       string
	RedisHost      string
	RedisPort      string
	RedisPassword  string
	RedisDB        int
	ViewTTLSeconds int
}

type StorageConfig struct {
	Enabled     bool
	Endpoint    string
	AccessKey   string
	SecretKey   string
	Bucket      string
	Region      string
	UseSSL      bool
	ObjectKey   string
	DownloadDir string
}

var (
	once     sync.Once
	instance *Config
)

func Load() *Config {
	once.Do(func() {
		// Load .env file if it exists
		_ = godotenv.Load()

		// Set default values
		viper.SetDefault("SERVER_PORT", "8080")
		viper.SetDefault("SERVER_MODE", "debug")
		viper.SetDefault("SERVER_READ_TIMEOUT", 15)
		viper.SetDefault("SERVER_WRITE_TIMEOUT", 15)
		viper.SetDefault("SERVER_ALLOWED_ORIGINS", []string{"*"})
		viper.SetDefault("APP_INPUT_PATH", "./data/input/vending_sales.csv")
		viper.SetDefault("APP_OUTPUT_DIR", "./data/output")
		viper.SetDefault("APP_SELECTOR_KEY", "machine_id")
		viper.SetDefault("APP_STRICT_SELECTORS", false)
		viper.SetDefault("CACHE_ENABLED", false)
		viper.SetDefault("REDIS_URL", "")
		viper.SetDefault("REDIS_HOST", "127.0.0.1")
		viper.SetDefault("REDIS_PORT", "6379")
		viper.SetDefault("REDIS_PASSWORD", "")
		viper.SetDefault("REDIS_DB", 0)
		viper.SetDefault("CACHE_VIEW_TTL_SECONDS", 60)
		viper.SetDefault("STORAGE_ENABLED", false)
		viper.SetDefault("STORAGE_ENDPOINT", "")
		viper.SetDefault("STORAGE_ACCESS_KEY", "")
		viper.SetDefault("STORAGE_SECRET_KEY", "")
		viper.SetDefault("STORAGE_BUCKET", "")
		viper.SetDefault("STORAGE_REGION", "")
		viper.SetDefault("STORAGE_USE_SSL", true)
		viper.SetDefault("STORAGE_OBJECT_KEY", "")
		viper.SetDefault("STORAGE_DOWNLOAD_DIR", "./data/input")

		// Read from environment variables
		viper.AutomaticEnv()

		// Ensure the output directory exists
		ensureDir(viper.GetString("APP_OUTPUT_DIR"))

		instance = &Config{
			Server: ServerConfig{
				Port:           viper.GetString("SERVER_PORT"),
				Mode:           viper.GetString("SERVER_MODE"),
				ReadTimeout:    viper.GetInt("SERVER_READ_TIMEOUT"),
				WriteTimeout:   viper.GetInt("SERVER_WRITE_TIMEOUT"),
				AllowedOrigins: viper.GetStringSlice("SERVER_ALLOWED_ORIGINS"),
			},
			App: AppConfig{
				InputPath:       viper.GetString("APP_INPUT_PATH"),
				OutputDir:       viper.GetString("APP_OUTPUT_DIR"),
				SelectorKey:     viper.GetString("APP_SELECTOR_KEY"),
				StrictSelectors: viper.GetBool("APP_STRICT_SELECTORS"),
			},
			Cache: CacheConfig{
				Enabled:        viper.GetBool("CACHE_ENABLED"),
				RedisURL:       viper.GetString("REDIS_URL"),
				RedisHost:      viper.GetString("REDIS_HOST"),
				RedisPort:      viper.GetString("REDIS_PORT"),
				RedisPassword:  viper.GetString("REDIS_PASSWORD"),
				RedisDB:        viper.GetInt("REDIS_DB"),
				ViewTTLSeconds: viper.GetInt("CACHE_VIEW_TTL_SECONDS"),
			},
			Storage: StorageConfig{
				Enabled:     viper.GetBool("STORAGE_ENABLED"),
				Endpoint:    viper.GetString("STORAGE_ENDPOINT"),
				AccessKey:   viper.GetString("STORAGE_ACCESS_KEY"),
				SecretKey:   viper.GetString("STORAGE_SECRET_KEY"),
				Bucket:      viper.GetString("STORAGE_BUCKET"),
				Region:      viper.GetString("STORAGE_REGION"),
				UseSSL:      viper.GetBool("STORAGE_USE_SSL"),
				ObjectKey:   viper.GetString("STORAGE_OBJECT_KEY"),
				DownloadDir: viper.GetString("STORAGE_DOWNLOAD_DIR"),
			},
		}
	})

	return instance
}

func ensureDir(dir string) {
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		if err := os.MkdirAll(dir, 0755); err != nil {
			log.Fatalf("Failed to create directory %s: %v", dir, err)
		}
	}
}
