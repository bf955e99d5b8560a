package config

import (
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server     ServerConfig
	Database   DatabaseConfig
	Redis      RedisConfig
	Storage    StorageConfig
	Shop       ShopConfig
	Invitation InvitationConfig
	Notify     NotifyConfig
	RateLimit  RateLimitConfig
	CORS       CORSConfig
}

type ServerConfig struct {
	Port     string
	Env      string
	LogLevel string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Database string
	Schema   string
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

// StorageConfig selects the key-value backend that replaces the browser's local storage.
type StorageConfig struct {
	Driver    string // postgres, redis or memory
	Namespace string
}

type ShopConfig struct {
	CutoffHour            int
	Timezone              string
	EnforceDeliveryCutoff bool
	PaymentDelay          time.Duration
	NotificationDelay     time.Duration
	MessageDelay          time.Duration
	StatusPolicy          string // unrestricted or forward-only
	LowStockThreshold     int
}

type InvitationConfig struct {
	Secret  string
	TTL     time.Duration
	BaseURL string
}

type NotifyConfig struct {
	SendGridAPIKey string
	FromEmail      string
	FromName       string
}

type RateLimitConfig struct {
	Enabled  bool
	Requests int
	Window   time.Duration
}

type CORSConfig struct {
	AllowedOrigins []string
}

// IsDevelopment reports whether the server runs outside production.
func (c *Config) IsDevelopment() bool {
	return c.Server.Env != "production"
}

func Load() *Config {
	// .env values never override variables already set in the environment
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: Could not load .env file: %v", err)
	}

	viper.AutomaticEnv()

	// Set defaults
	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("SERVER_ENV", "development")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("DB_HOST", "localhost")
	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_SCHEMA", "public")
	viper.SetDefault("REDIS_HOST", "localhost")
	viper.SetDefault("REDIS_PORT", "6379")
	viper.SetDefault("REDIS_DB", 0)
	viper.SetDefault("STORAGE_DRIVER", "postgres")
	viper.SetDefault("STORAGE_NAMESPACE", "burns-farm")
	viper.SetDefault("SHOP_CUTOFF_HOUR", 19)
	viper.SetDefault("SHOP_TIMEZONE", "Europe/London")
	viper.SetDefault("SHOP_ENFORCE_DELIVERY_CUTOFF", true)
	viper.SetDefault("SHOP_PAYMENT_DELAY", "3s")
	viper.SetDefault("SHOP_NOTIFICATION_DELAY", "2s")
	viper.SetDefault("SHOP_MESSAGE_DELAY", "1s")
	viper.SetDefault("SHOP_STATUS_POLICY", "unrestricted")
	viper.SetDefault("SHOP_LOW_STOCK_THRESHOLD", 5)
	viper.SetDefault("INVITATION_TTL_HOURS", 7*24)
	viper.SetDefault("INVITATION_BASE_URL", "https://burnsfarmshop.com/invite")
	viper.SetDefault("NOTIFY_FROM_EMAIL", "shop@burns-farm.co.uk")
	viper.SetDefault("NOTIFY_FROM_NAME", "Burns Farm Shop")
	viper.SetDefault("RATE_LIMIT_ENABLED", false)
	viper.SetDefault("RATE_LIMIT_REQUESTS", 30)
	viper.SetDefault("RATE_LIMIT_WINDOW", "1m")
	viper.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")

	return &Config{
		Server: ServerConfig{
			Port:     viper.GetString("SERVER_PORT"),
			Env:      viper.GetString("SERVER_ENV"),
			LogLevel: viper.GetString("LOG_LEVEL"),
		},
		Database: DatabaseConfig{
			Host:     viper.GetString("DB_HOST"),
			Port:     viper.GetString("DB_PORT"),
			User:     viper.GetString("DB_USER"),
			Password: viper.GetString("DB_PASSWORD"),
			Database: viper.GetString("DB_DATABASE"),
			Schema:   viper.GetString("DB_SCHEMA"),
		},
		Redis: RedisConfig{
			Host:     viper.GetString("REDIS_HOST"),
			Port:     viper.GetString("REDIS_PORT"),
			Password: viper.GetString("REDIS_PASSWORD"),
			DB:       viper.GetInt("REDIS_DB"),
		},
		Storage: StorageConfig{
			Driver:    strings.ToLower(viper.GetString("STORAGE_DRIVER")),
			Namespace: viper.GetString("STORAGE_NAMESPACE"),
		},
		Shop: ShopConfig{
			CutoffHour:            viper.GetInt("SHOP_CUTOFF_HOUR"),
			Timezone:              viper.GetString("SHOP_TIMEZONE"),
			EnforceDeliveryCutoff: viper.GetBool("SHOP_ENFORCE_DELIVERY_CUTOFF"),
			PaymentDelay:          viper.GetDuration("SHOP_PAYMENT_DELAY"),
			NotificationDelay:     viper.GetDuration("SHOP_NOTIFICATION_DELAY"),
			MessageDelay:          viper.GetDuration("SHOP_MESSAGE_DELAY"),
			StatusPolicy:          viper.GetString("SHOP_STATUS_POLICY"),
			LowStockThreshold:     viper.GetInt("SHOP_LOW_STOCK_THRESHOLD"),
		},
		Invitation: InvitationConfig{
			Secret:  viper.GetString("INVITATION_SECRET"),
			TTL:     time.Duration(viper.GetInt("INVITATION_TTL_HOURS")) * time.Hour,
			BaseURL: viper.GetString("INVITATION_BASE_URL"),
		},
		Notify: NotifyConfig{
			SendGridAPIKey: viper.GetString("SENDGRID_API_KEY"),
			FromEmail:      viper.GetString("NOTIFY_FROM_EMAIL"),
			FromName:       viper.GetString("NOTIFY_FROM_NAME"),
		},
		RateLimit: RateLimitConfig{
			Enabled:  viper.GetBool("RATE_LIMIT_ENABLED"),
			Requests: viper.GetInt("RATE_LIMIT_REQUESTS"),
			Window:   viper.GetDuration("RATE_LIMIT_WINDOW"),
		},
		CORS: CORSConfig{
			AllowedOrigins: splitList(viper.GetString("CORS_ALLOWED_ORIGINS")),
		},
	}
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
