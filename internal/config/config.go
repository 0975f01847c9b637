package config

import (
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	StorageDriverPostgres = "postgres"
	StorageDriverMemory   = "memory"
)

type Config struct {
	Port               string
	JWTSecret          string
	JWTExpiration      time.Duration
	StorageDriver      string
	DatabaseURL        string
	AutoMigrate        bool
	RedisAddress       string
	RedisPassword      string
	MenuCacheTTL       time.Duration
	LoginMaxAttempts   int
	LoginWindow        time.Duration
	CORSAllowedOrigins []string
	// TrustedProxies lists peer IPs or CIDRs whose X-Forwarded-For is believed.
	TrustedProxies []string
	LogLevel           string
	Version            string
}

// newViper reads an optional .env file (ENV_FILE, default ".env") into the
// process environment and exposes it through viper with shared defaults.
func newViper() *viper.Viper {
	envFile := os.Getenv("ENV_FILE")
	if envFile == "" {
		envFile = ".env"
	}
	if _, err := os.Stat(envFile); err == nil {
		if err := godotenv.Load(envFile); err != nil {
			panic("Failed to load " + envFile + ": " + err.Error())
		}
	}

	v := viper.New()
	v.SetDefault("PORT", "5000")
	v.SetDefault("JWT_EXPIRATION", 30*24*time.Hour)
	v.SetDefault("STORAGE_DRIVER", StorageDriverPostgres)
	v.SetDefault("AUTO_MIGRATE", true)
	v.SetDefault("REDIS_ADDRESS", "")
	v.SetDefault("MENU_CACHE_TTL", 10*time.Minute)
	v.SetDefault("LOGIN_MAX_ATTEMPTS", 10)
	v.SetDefault("LOGIN_WINDOW", 15*time.Minute)
	v.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:5173,http://localhost:3000")
	v.SetDefault("TRUSTED_PROXIES", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("APP_VERSION", "unknown")
	v.SetDefault("EVENTS_QUEUE_NAME", "mess-events")
	v.SetDefault("RELAY_HEALTH_PORT", "8090")
	v.AutomaticEnv()
	return v
}

func Load() *Config {
	v := newViper()

	jwtSecret := v.GetString("JWT_SECRET")
	if jwtSecret == "" {
		panic("JWT_SECRET environment variable is required")
	}

	driver := strings.ToLower(v.GetString("STORAGE_DRIVER"))
	if driver != StorageDriverPostgres && driver != StorageDriverMemory {
		panic("STORAGE_DRIVER must be postgres or memory, got " + driver)
	}

	dbURL := v.GetString("DB_CONNECTION_STRING")
	if driver == StorageDriverPostgres && dbURL == "" {
		panic("DB_CONNECTION_STRING environment variable is required")
	}

	return &Config{
		Port:               v.GetString("PORT"),
		JWTSecret:          jwtSecret,
		JWTExpiration:      v.GetDuration("JWT_EXPIRATION"),
		StorageDriver:      driver,
		DatabaseURL:        dbURL,
		AutoMigrate:        v.GetBool("AUTO_MIGRATE"),
		RedisAddress:       v.GetString("REDIS_ADDRESS"),
		RedisPassword:      v.GetString("REDIS_PASSWORD"),
		MenuCacheTTL:       v.GetDuration("MENU_CACHE_TTL"),
		LoginMaxAttempts:   v.GetInt("LOGIN_MAX_ATTEMPTS"),
		LoginWindow:        v.GetDuration("LOGIN_WINDOW"),
		CORSAllowedOrigins: splitList(v.GetString("CORS_ALLOWED_ORIGINS")),
		TrustedProxies:     splitList(v.GetString("TRUSTED_PROXIES")),
		LogLevel:           v.GetString("LOG_LEVEL"),
		Version:            v.GetString("APP_VERSION"),
	}
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
