package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	HTTP     HTTPConfig     `yaml:"http"`
	Log      LogConfig      `yaml:"log"`
	Database DatabaseConfig `yaml:"database"`
	Redis    RedisConfig    `yaml:"redis"`
	Kafka    KafkaConfig    `yaml:"kafka"`
	Booking  BookingConfig  `yaml:"booking"`
	Worker   WorkerConfig   `yaml:"worker"`
	Checkout CheckoutConfig `yaml:"checkout"`
	Content  ContentConfig  `yaml:"content"`
	Admin    AdminConfig    `yaml:"admin"`
}

type HTTPConfig struct {
	Address   string `yaml:"address"`
	RateLimit string `yaml:"booking_rate_limit"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	File   string `yaml:"file"`
}

type DatabaseConfig struct {
	URL      string `yaml:"url"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
	SSLMode  string `yaml:"ssl_mode"`
}

// DSN prefers an explicit connection URL over the individual fields.
func (d DatabaseConfig) DSN() string {
	if d.URL != "" {
		return d.URL
	}
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s", d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode)
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type KafkaConfig struct {
	Brokers            []string `yaml:"brokers"`
	BookingTopic       string   `yaml:"booking_topic"`
	NotificationsTopic string   `yaml:"notifications_topic"`
	GroupID            string   `yaml:"group_id"`
}

type BookingConfig struct {
	Timezone              string `yaml:"timezone"`
	AllowOverbooking      bool   `yaml:"allow_overbooking"`
	PendingTTLMinutes     int    `yaml:"pending_ttl_minutes"`
	IdempotencyTTLMinutes int    `yaml:"idempotency_ttl_minutes"`
	AvailabilityCacheTTL  int    `yaml:"availability_cache_ttl_seconds"`
}

type WorkerConfig struct {
	ExpirationSweepMinutes int `yaml:"expiration_sweep_minutes"`
}

// CheckoutConfig maps tour ids to their external checkout page.
type CheckoutConfig struct {
	URLs map[string]string `yaml:"urls"`
}

type ContentConfig struct {
	ProjectID      string `yaml:"project_id"`
	Dataset        string `yaml:"dataset"`
	APIVersion     string `yaml:"api_version"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

type AdminConfig struct {
	Token string `yaml:"token"`
}

// LoadConfig reads .env files, the YAML file at path and then applies
// environment overrides. A missing YAML file is not an error: the service
// starts on defaults plus environment.
func LoadConfig(path string) (*Config, error) {
	_ = godotenv.Load(".env")
	_ = godotenv.Load(".env.local")

	var cfg Config
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	case os.IsNotExist(err):
	default:
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	applyEnv(&cfg)
	applyDefaults(&cfg)
	return &cfg, nil
}

func applyEnv(cfg *Config) {
	setString(&cfg.HTTP.Address, "HTTP_ADDRESS")
	setString(&cfg.Log.Level, "LOG_LEVEL")
	setString(&cfg.Database.URL, "DATABASE_URL")
	setString(&cfg.Redis.Addr, "REDIS_ADDR")
	setString(&cfg.Redis.Password, "REDIS_PASSWORD")
	if brokers := os.Getenv("KAFKA_BROKERS"); brokers != "" {
		cfg.Kafka.Brokers = strings.Split(brokers, ",")
	}
	setString(&cfg.Content.ProjectID, "CONTENT_PROJECT_ID")
	setString(&cfg.Content.Dataset, "CONTENT_DATASET")
	setString(&cfg.Content.APIVersion, "CONTENT_API_VERSION")
	setString(&cfg.Admin.Token, "ADMIN_TOKEN")

	if cfg.Checkout.URLs == nil {
		cfg.Checkout.URLs = map[string]string{}
	}
	for _, env := range os.Environ() {
		key, value, ok := strings.Cut(env, "=")
		if !ok || value == "" || !strings.HasPrefix(key, "CHECKOUT_URL_") {
			continue
		}
		tourID := strings.ToLower(strings.TrimPrefix(key, "CHECKOUT_URL_"))
		cfg.Checkout.URLs[tourID] = value
	}
}

func applyDefaults(cfg *Config) {
	if cfg.HTTP.Address == "" {
		cfg.HTTP.Address = ":8080"
	}
	if cfg.HTTP.RateLimit == "" {
		cfg.HTTP.RateLimit = "10-M"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "json"
	}
	if cfg.Database.SSLMode == "" {
		cfg.Database.SSLMode = "disable"
	}
	if cfg.Redis.Addr == "" {
		cfg.Redis.Addr = "localhost:6379"
	}
	if cfg.Kafka.BookingTopic == "" {
		cfg.Kafka.BookingTopic = "tour-bookings"
	}
	if cfg.Kafka.GroupID == "" {
		cfg.Kafka.GroupID = "tourbooking-worker"
	}
	if cfg.Booking.Timezone == "" {
		cfg.Booking.Timezone = "Europe/Lisbon"
	}
	if cfg.Booking.IdempotencyTTLMinutes <= 0 {
		cfg.Booking.IdempotencyTTLMinutes = 30
	}
	if cfg.Booking.AvailabilityCacheTTL <= 0 {
		cfg.Booking.AvailabilityCacheTTL = 30
	}
	// A non-positive pending TTL disables expiry.
	if cfg.Booking.PendingTTLMinutes < 0 {
		cfg.Booking.PendingTTLMinutes = 0
	}
	if cfg.Worker.ExpirationSweepMinutes <= 0 {
		cfg.Worker.ExpirationSweepMinutes = 5
	}
	if cfg.Content.Dataset == "" {
		cfg.Content.Dataset = "production"
	}
	if cfg.Content.APIVersion == "" {
		cfg.Content.APIVersion = "2024-01-01"
	}
	if cfg.Content.TimeoutSeconds <= 0 {
		cfg.Content.TimeoutSeconds = 5
	}
}

func setString(dst *string, env string) {
	if v := os.Getenv(env); v != "" {
		*dst = v
	}
}
