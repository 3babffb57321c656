// internal/config/config.go
package config

import (
	"sync"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	App       AppConfig
	Database  DatabaseConfig
	Mongo     MongoConfig
	Storage   StorageConfig
	Cache     CacheConfig
	Analytics AnalyticsConfig
}

type AppConfig struct {
	LogLevel string
	// Source selects the item repository: sql, mongo or snapshot.
	Source string
}

type DatabaseConfig struct {
	Driver     string
	Host       string
	Port       string
	User       string
	Password   string
	DBName     string
	SSLMode    string
	SQLitePath string
	Table      string
}

type MongoConfig struct {
	URI        string
	Database   string
	Collection string
}

type StorageConfig struct {
	Endpoint     string
	AccessKey    string
	SecretKey    string
	Bucket       string
	Region       string
	UseSSL       bool
	SnapshotKey  string
	ReportPrefix string
}

type CacheConfig struct {
	Enabled             bool
	RedisURL            string
	RedisHost           string
	RedisPort           string
	RedisPassword       string
	RedisDB             int
	DashboardTTLSeconds int
}

// AnalyticsConfig carries the caller-side defaults handed to the analytics
// core on every call.
type AnalyticsConfig struct {
	LowStockThreshold    int
	MediumStockThreshold int
	StaleDays            int
	SpendingWindowDays   int
	SuggestionLimit      int
	ExpiringWithinDays   int
	FrequentMinPurchases int
}

var (
	once     sync.Once
	instance *Config
)

func Load() *Config {
	once.Do(func() {
		// Load .env file if it exists
		_ = godotenv.Load()

		instance = load(viper.GetViper())
	})

	return instance
}

func load(v *viper.Viper) *Config {
	setDefaults(v)

	// Read from environment variables
	v.AutomaticEnv()

	return &Config{
		App: AppConfig{
			LogLevel: v.GetString("LOG_LEVEL"),
			Source:   v.GetString("ITEM_SOURCE"),
		},
		Database: DatabaseConfig{
			Driver:     v.GetString("DB_DRIVER"),
			Host:       v.GetString("DB_HOST"),
			Port:       v.GetString("DB_PORT"),
			User:       v.GetString("DB_USER"),
			Password:   v.GetString("DB_PASSWORD"),
			DBName:     v.GetString("DB_NAME"),
			SSLMode:    v.GetString("DB_SSLMODE"),
			SQLitePath: v.GetString("DB_SQLITE_PATH"),
			Table:      v.GetString("DB_ITEMS_TABLE"),
		},
		Mongo: MongoConfig{
			URI:        v.GetString("MONGO_URI"),
			Database:   v.GetString("MONGO_DATABASE"),
			Collection: v.GetString("MONGO_COLLECTION"),
		},
		Storage: StorageConfig{
			Endpoint:     v.GetString("STORAGE_ENDPOINT"),
			AccessKey:    v.GetString("STORAGE_ACCESS_KEY"),
			SecretKey:    v.GetString("STORAGE_SECRET_KEY"),
			Bucket:       v.GetString("STORAGE_BUCKET"),
			Region:       v.GetString("STORAGE_REGION"),
			UseSSL:       v.GetBool("STORAGE_USE_SSL"),
			SnapshotKey:  v.GetString("STORAGE_SNAPSHOT_KEY"),
			ReportPrefix: v.GetString("STORAGE_REPORT_PREFIX"),
		},
		Cache: CacheConfig{
			Enabled:             v.GetBool("CACHE_ENABLED"),
			RedisURL:            v.GetString("REDIS_URL"),
			RedisHost:           v.GetString("REDIS_HOST"),
			RedisPort:           v.GetString("REDIS_PORT"),
			RedisPassword:       v.GetString("REDIS_PASSWORD"),
			RedisDB:             v.GetInt("REDIS_DB"),
			DashboardTTLSeconds: v.GetInt("CACHE_DASHBOARD_TTL_SECONDS"),
		},
		Analytics: AnalyticsConfig{
			LowStockThreshold:    v.GetInt("ANALYTICS_LOW_STOCK_THRESHOLD"),
			MediumStockThreshold: v.GetInt("ANALYTICS_MEDIUM_STOCK_THRESHOLD"),
			StaleDays:            v.GetInt("ANALYTICS_STALE_DAYS"),
			SpendingWindowDays:   v.GetInt("ANALYTICS_SPENDING_WINDOW_DAYS"),
			SuggestionLimit:      v.GetInt("ANALYTICS_SUGGESTION_LIMIT"),
			ExpiringWithinDays:   v.GetInt("ANALYTICS_EXPIRING_WITHIN_DAYS"),
			FrequentMinPurchases: v.GetInt("ANALYTICS_FREQUENT_MIN_PURCHASES"),
		},
	}
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("ITEM_SOURCE", "sql")

	v.SetDefault("DB_DRIVER", "sqlite3")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "grocery")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("DB_SQLITE_PATH", "./db.sqlite3")
	v.SetDefault("DB_ITEMS_TABLE", "grocery_app_groceryitem")

	v.SetDefault("MONGO_URI", "mongodb://localhost:27017")
	v.SetDefault("MONGO_DATABASE", "grocery_tracker")
	v.SetDefault("MONGO_COLLECTION", "grocery_items")

	v.SetDefault("STORAGE_ENDPOINT", "localhost:9000")
	v.SetDefault("STORAGE_ACCESS_KEY", "")
	v.SetDefault("STORAGE_SECRET_KEY", "")
	v.SetDefault("STORAGE_BUCKET", "grocery")
	v.SetDefault("STORAGE_REGION", "us-east-1")
	v.SetDefault("STORAGE_USE_SSL", false)
	v.SetDefault("STORAGE_SNAPSHOT_KEY", "snapshots/items.json")
	v.SetDefault("STORAGE_REPORT_PREFIX", "reports/")

	v.SetDefault("CACHE_ENABLED", false)
	v.SetDefault("REDIS_URL", "")
	v.SetDefault("REDIS_HOST", "127.0.0.1")
	v.SetDefault("REDIS_PORT", "6379")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("CACHE_DASHBOARD_TTL_SECONDS", 60)

	v.SetDefault("ANALYTICS_LOW_STOCK_THRESHOLD", 5)
	v.SetDefault("ANALYTICS_MEDIUM_STOCK_THRESHOLD", 10)
	v.SetDefault("ANALYTICS_STALE_DAYS", 30)
	v.SetDefault("ANALYTICS_SPENDING_WINDOW_DAYS", 30)
	v.SetDefault("ANALYTICS_SUGGESTION_LIMIT", 10)
	v.SetDefault("ANALYTICS_EXPIRING_WITHIN_DAYS", 7)
	v.SetDefault("ANALYTICS_FREQUENT_MIN_PURCHASES", 3)
}
