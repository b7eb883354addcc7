package config

import (
	"sync"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Cache     CacheConfig
	Forecast  ForecastConfig
	Scheduler SchedulerConfig
}

type ServerConfig struct {
	Port           string
	Mode           string
	ReadTimeout    int
	WriteTimeout   int
	AllowedOrigins []string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type CacheConfig struct {
	Enabled          bool
	RedisURL         string
	RedisHost        string
	RedisPort        string
	RedisPassword    string
	RedisDB          int
	ReportTTLSeconds int
}

// ForecastConfig carries the order-computation tuning knobs. The defaults
// mirror how the franchises actually order: a two week horizon, items with
// less than two weeks of runway included, notify admins when the order
// total crosses half a million tenge.
type ForecastConfig struct {
	HorizonDays      int
	ThresholdDays    int
	NotifyThreshold  float64
	DraftTTLSeconds  int
	HistoryWindow    int
	UseRoundingRule  bool
	IncludeInTransit bool
}

type SchedulerConfig struct {
	Enabled       bool
	Timezone      string
	ReminderHours []int
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
		viper.SetDefault("DB_HOST", "localhost")
		viper.SetDefault("DB_PORT", "5432")
		viper.SetDefault("DB_USER", "postgres")
		viper.SetDefault("DB_PASSWORD", "postgres")
		viper.SetDefault("DB_NAME", "inventory")
		viper.SetDefault("DB_SSLMODE", "disable")
		viper.SetDefault("CACHE_ENABLED", false)
		viper.SetDefault("REDIS_URL", "")
		viper.SetDefault("REDIS_HOST", "127.0.0.1")
		viper.SetDefault("REDIS_PORT", "6379")
		viper.SetDefault("REDIS_PASSWORD", "")
		viper.SetDefault("REDIS_DB", 0)
		viper.SetDefault("CACHE_REPORT_TTL_SECONDS", 60)
		viper.SetDefault("FORECAST_HORIZON_DAYS", 14)
		viper.SetDefault("FORECAST_THRESHOLD_DAYS", 14)
		viper.SetDefault("FORECAST_NOTIFY_THRESHOLD", 500000.0)
		viper.SetDefault("FORECAST_DRAFT_TTL_SECONDS", 3600)
		viper.SetDefault("FORECAST_HISTORY_WINDOW_DAYS", 30)
		viper.SetDefault("FORECAST_USE_ROUNDING_RULE", true)
		viper.SetDefault("FORECAST_INCLUDE_IN_TRANSIT", true)
		viper.SetDefault("SCHEDULER_ENABLED", true)
		viper.SetDefault("SCHEDULER_TIMEZONE", "Asia/Almaty")
		viper.SetDefault("SCHEDULER_REMINDER_HOURS", []int{11, 13, 15, 17})

		// Read from environment variables
		viper.AutomaticEnv()

		instance = &Config{
			Server: ServerConfig{
				Port:           viper.GetString("SERVER_PORT"),
				Mode:           viper.GetString("SERVER_MODE"),
				ReadTimeout:    viper.GetInt("SERVER_READ_TIMEOUT"),
				WriteTimeout:   viper.GetInt("SERVER_WRITE_TIMEOUT"),
				AllowedOrigins: viper.GetStringSlice("SERVER_ALLOWED_ORIGINS"),
			},
			Database: DatabaseConfig{
				Host:     viper.GetString("DB_HOST"),
				Port:     viper.GetString("DB_PORT"),
				User:     viper.GetString("DB_USER"),
				Password: viper.GetString("DB_PASSWORD"),
				DBName:   viper.GetString("DB_NAME"),
				SSLMode:  viper.GetString("DB_SSLMODE"),
			},
			Cache: CacheConfig{
				Enabled:          viper.GetBool("CACHE_ENABLED"),
				RedisURL:         viper.GetString("REDIS_URL"),
				RedisHost:        viper.GetString("REDIS_HOST"),
				RedisPort:        viper.GetString("REDIS_PORT"),
				RedisPassword:    viper.GetString("REDIS_PASSWORD"),
				RedisDB:          viper.GetInt("REDIS_DB"),
				ReportTTLSeconds: viper.GetInt("CACHE_REPORT_TTL_SECONDS"),
			},
			Forecast: ForecastConfig{
				HorizonDays:      viper.GetInt("FORECAST_HORIZON_DAYS"),
				ThresholdDays:    viper.GetInt("FORECAST_THRESHOLD_DAYS"),
				NotifyThreshold:  viper.GetFloat64("FORECAST_NOTIFY_THRESHOLD"),
				DraftTTLSeconds:  viper.GetInt("FORECAST_DRAFT_TTL_SECONDS"),
				HistoryWindow:    viper.GetInt("FORECAST_HISTORY_WINDOW_DAYS"),
				UseRoundingRule:  viper.GetBool("FORECAST_USE_ROUNDING_RULE"),
				IncludeInTransit: viper.GetBool("FORECAST_INCLUDE_IN_TRANSIT"),
			},
			Scheduler: SchedulerConfig{
				Enabled:       viper.GetBool("SCHEDULER_ENABLED"),
				Timezone:      viper.GetString("SCHEDULER_TIMEZONE"),
				ReminderHours: viper.GetIntSlice("SCHEDULER_REMINDER_HOURS"),
			},
		}
	})

	return instance
}
