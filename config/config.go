package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/lpernett/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration values.
type Config struct {
	AppPort           string `mapstructure:"APP_PORT"`
	Env               string `mapstructure:"ENV"`
	LogLevel          string `mapstructure:"LOG_LEVEL"`
	Timezone          string `mapstructure:"TIMEZONE"`
	MaxRequestsPerMin int    `mapstructure:"MAX_REQUESTS_PER_MIN"`

	// Webhook shells.
	VapiSecret          string `mapstructure:"VAPI_SECRET"`
	LocalWebhookEnabled bool   `mapstructure:"LOCAL_WEBHOOK_ENABLED"`

	// Supabase (availability RPC and audit capture).
	SupabaseURL     string `mapstructure:"SUPABASE_URL"`
	SupabaseAnonKey string `mapstructure:"SUPABASE_ANON_KEY"`
	AvailabilityRPC string `mapstructure:"AVAILABILITY_RPC"`
	CaptureRPC      string `mapstructure:"CAPTURE_RPC"`

	// Availability backend selection: "supabase" or "ics".
	AvailabilityBackend string `mapstructure:"AVAILABILITY_BACKEND"`
	ICSURL              string `mapstructure:"ICS_URL"`
	BusinessHoursStart  string `mapstructure:"BUSINESS_HOURS_START"`
	BusinessHoursEnd    string `mapstructure:"BUSINESS_HOURS_END"`

	// Booking backend.
	BookingAPIURL         string `mapstructure:"BOOKING_API_URL"`
	BookingAPIKey         string `mapstructure:"BOOKING_API_KEY"`
	BackendTimeoutSeconds int    `mapstructure:"BACKEND_TIMEOUT_SECONDS"`

	// Dispatcher defaults.
	CheckDurationMinutes   int `mapstructure:"CHECK_DURATION_MINUTES"`
	BookingDurationMinutes int `mapstructure:"BOOKING_DURATION_MINUTES"`
	MaxAlternatives        int `mapstructure:"MAX_ALTERNATIVES"`

	// Audit capture: "supabase", "mongo" or "none".
	AuditBackend string `mapstructure:"AUDIT_BACKEND"`
	AuditAsync   bool   `mapstructure:"AUDIT_ASYNC"`

	// MongoDB (audit repository).
	DatabaseURL   string `mapstructure:"DATABASE_URL"`
	MongoDatabase string `mapstructure:"MONGO_DATABASE"`

	// Redis (audit queue).
	RedisAddr     string `mapstructure:"REDIS_ADDR"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`
	RedisQueueDB  int    `mapstructure:"REDIS_QUEUE_DB"`

	HealthCheckSchedule string `mapstructure:"HEALTH_CHECK_SCHEDULE"`
}

var AppConfig Config

// setDefaults registers every key so AutomaticEnv can resolve it on Unmarshal.
func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_PORT", "3000")
	v.SetDefault("ENV", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("TIMEZONE", "UTC")
	v.SetDefault("MAX_REQUESTS_PER_MIN", 200)
	v.SetDefault("VAPI_SECRET", "")
	v.SetDefault("LOCAL_WEBHOOK_ENABLED", true)
	v.SetDefault("SUPABASE_URL", "")
	v.SetDefault("SUPABASE_ANON_KEY", "")
	v.SetDefault("AVAILABILITY_RPC", "fn_check_availability")
	v.SetDefault("CAPTURE_RPC", "fn_capture_vapi_data")
	v.SetDefault("AVAILABILITY_BACKEND", "supabase")
	v.SetDefault("ICS_URL", "")
	v.SetDefault("BUSINESS_HOURS_START", "09:00")
	v.SetDefault("BUSINESS_HOURS_END", "17:00")
	v.SetDefault("BOOKING_API_URL", "https://api.cal.com/v1")
	v.SetDefault("BOOKING_API_KEY", "")
	v.SetDefault("BACKEND_TIMEOUT_SECONDS", 10)
	v.SetDefault("CHECK_DURATION_MINUTES", 15)
	v.SetDefault("BOOKING_DURATION_MINUTES", 15)
	v.SetDefault("MAX_ALTERNATIVES", 3)
	v.SetDefault("AUDIT_BACKEND", "supabase")
	v.SetDefault("AUDIT_ASYNC", false)
	v.SetDefault("DATABASE_URL", "mongodb://localhost:27017")
	v.SetDefault("MONGO_DATABASE", "vapi_calendar")
	v.SetDefault("REDIS_ADDR", "localhost:6379")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_QUEUE_DB", 3)
	v.SetDefault("HEALTH_CHECK_SCHEDULE", "@every 1m")
}

// Load reads .env, config.yaml and the environment into a Config.
func Load(v *viper.Viper) (Config, error) {
	// Look for a config file named "config.yaml" in the current and "config" directory.
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		log.Println("No config file found, using environment variables only")
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return cfg, nil
}

func LoadConfig() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	cfg, err := Load(viper.GetViper())
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	AppConfig = cfg
}

// Validate reports settings that the selected backends cannot run without.
func (c Config) Validate() []string {
	var problems []string

	switch strings.ToLower(c.AvailabilityBackend) {
	case "supabase":
		if c.SupabaseURL == "" || c.SupabaseAnonKey == "" {
			problems = append(problems, "SUPABASE_URL and SUPABASE_ANON_KEY are required for the supabase availability backend")
		}
	case "ics":
		if c.ICSURL == "" {
			problems = append(problems, "ICS_URL is required for the ics availability backend")
		}
	default:
		problems = append(problems, fmt.Sprintf("unknown AVAILABILITY_BACKEND %q", c.AvailabilityBackend))
	}

	if c.BookingAPIKey == "" {
		problems = append(problems, "BOOKING_API_KEY is not set")
	}
	if c.VapiSecret == "" {
		problems = append(problems, "VAPI_SECRET is not set; the hosted webhook will reject every request")
	}

	switch strings.ToLower(c.AuditBackend) {
	case "supabase":
		if c.SupabaseURL == "" || c.SupabaseAnonKey == "" {
			problems = append(problems, "SUPABASE_URL and SUPABASE_ANON_KEY are required for supabase audit capture")
		}
	case "mongo":
		if c.DatabaseURL == "" {
			problems = append(problems, "DATABASE_URL is required for mongo audit capture")
		}
	case "none", "":
	default:
		problems = append(problems, fmt.Sprintf("unknown AUDIT_BACKEND %q", c.AuditBackend))
	}

	if _, err := time.LoadLocation(c.Timezone); err != nil {
		problems = append(problems, fmt.Sprintf("invalid TIMEZONE %q: %v", c.Timezone, err))
	}
	if c.CheckDurationMinutes <= 0 || c.BookingDurationMinutes <= 0 {
		problems = append(problems, "CHECK_DURATION_MINUTES and BOOKING_DURATION_MINUTES must be positive")
	}
	return problems
}

// Location returns the configured display/parse timezone, falling back to UTC.
func (c Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// BackendTimeout is the HTTP timeout applied to outbound backend calls.
func (c Config) BackendTimeout() time.Duration {
	if c.BackendTimeoutSeconds <= 0 {
		return 10 * time.Second
	}
	return time.Duration(c.BackendTimeoutSeconds) * time.Second
}

func GetEnv() string {
	return AppConfig.Env
}

func IsProduction() bool {
	return GetEnv() == "production"
}
