package config

import (
	"log"

	"github.com/spf13/viper"
)

// Config holds all configuration values.
type Config struct {
	AppPort  string `mapstructure:"APP_PORT"`
	Env      string `mapstructure:"ENV"`
	LogLevel string `mapstructure:"LOG_LEVEL"`

	// Redis configuration.
	RedisAddr            string `mapstructure:"REDIS_ADDR"`
	RedisPassword        string `mapstructure:"REDIS_PASSWORD"`
	RedisSessionDB       int    `mapstructure:"REDIS_SESSION_DB"`
	RedisReminderQueueDB int    `mapstructure:"REDIS_REMINDER_QUEUE_DB"`

	// Mongo booking archive.
	DatabaseURL  string `mapstructure:"DATABASE_URL"`
	DatabaseName string `mapstructure:"DATABASE_NAME"`

	// Remote calendar.
	CalendarID            string `mapstructure:"CALENDAR_ID"`
	GoogleCredentialsFile string `mapstructure:"GOOGLE_CREDENTIALS_FILE"`
	DefaultTimezone       string `mapstructure:"DEFAULT_TIMEZONE"`

	// Messaging gateway.
	GatewayURL    string `mapstructure:"GATEWAY_URL"`
	GatewayAPIKey string `mapstructure:"GATEWAY_API_KEY"`

	// Scheduling policy.
	BusinessOpenHour     int  `mapstructure:"BUSINESS_OPEN_HOUR"`
	BusinessCloseHour    int  `mapstructure:"BUSINESS_CLOSE_HOUR"`
	SlotGranularityMin   int  `mapstructure:"SLOT_GRANULARITY_MIN"`
	AppointmentMinutes   int  `mapstructure:"APPOINTMENT_MINUTES"`
	SearchWindowDays     int  `mapstructure:"SEARCH_WINDOW_DAYS"`
	SessionTTLMinutes    int  `mapstructure:"SESSION_TTL_MINUTES"`
	VerifyCallerTimes    bool `mapstructure:"VERIFY_CALLER_TIMES"`
	ClampToBusinessHours bool `mapstructure:"CLAMP_TO_BUSINESS_HOURS"`

	MaxRequestsPerMin int `mapstructure:"MAX_REQUESTS_PER_MIN"`
}

var AppConfig Config

func LoadConfig() {
	// Look for a config file named "config.yaml" in the current and "config" directory.
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	// Automatically use environment variables where available.
	viper.AutomaticEnv()

	// Set default values.
	viper.SetDefault("APP_PORT", "8080")
	viper.SetDefault("ENV", "development")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_SESSION_DB", 0)
	viper.SetDefault("REDIS_REMINDER_QUEUE_DB", 1)
	viper.SetDefault("DATABASE_URL", "mongodb://localhost:27017")
	viper.SetDefault("DATABASE_NAME", "bookline")
	viper.SetDefault("CALENDAR_ID", "primary")
	viper.SetDefault("GOOGLE_CREDENTIALS_FILE", "")
	viper.SetDefault("DEFAULT_TIMEZONE", "Australia/Sydney")
	viper.SetDefault("GATEWAY_URL", "")
	viper.SetDefault("GATEWAY_API_KEY", "")
	viper.SetDefault("BUSINESS_OPEN_HOUR", 9)
	viper.SetDefault("BUSINESS_CLOSE_HOUR", 17)
	viper.SetDefault("SLOT_GRANULARITY_MIN", 30)
	viper.SetDefault("APPOINTMENT_MINUTES", 30)
	viper.SetDefault("SEARCH_WINDOW_DAYS", 7)
	viper.SetDefault("SESSION_TTL_MINUTES", 30)
	viper.SetDefault("VERIFY_CALLER_TIMES", false)
	viper.SetDefault("CLAMP_TO_BUSINESS_HOURS", true)
	viper.SetDefault("MAX_REQUESTS_PER_MIN", 100)

	if err := viper.ReadInConfig(); err != nil {
		log.Println("No config file found, using environment variables only")
	}

	if err := viper.Unmarshal(&AppConfig); err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
}

func GetEnv() string {
	return AppConfig.Env
}

func IsProduction() bool {
	return GetEnv() == "production"
}
