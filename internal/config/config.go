package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"studiobook/internal/validation"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	App        AppConfig        `yaml:"app"`
	Store      StoreConfig      `yaml:"store"`
	Redis      RedisConfig      `yaml:"redis"`
	Sessions   SessionsConfig   `yaml:"sessions"`
	Booking    BookingConfig    `yaml:"booking"`
	Services   []ServiceSeed    `yaml:"services"`
	Backup     BackupConfig     `yaml:"backup"`
	Monitoring MonitoringConfig `yaml:"monitoring"`
	Logging    LoggingConfig    `yaml:"logging"`
	API        APIConfig        `yaml:"api"`
	Exports    ExportConfig     `yaml:"exports"`
}

type AppConfig struct {
	Name        string `yaml:"name"`
	Environment string `yaml:"environment"`
	Version     string `yaml:"version"`
	Timezone    string `yaml:"timezone"`
}

type StoreConfig struct {
	Driver    string `yaml:"driver"` // sqlite, redis, memory
	Path      string `yaml:"path"`
	KeyPrefix string `yaml:"key_prefix"`
}

type RedisConfig struct {
	Address  string `yaml:"address"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	PoolSize int    `yaml:"pool_size"`
}

type SessionsConfig struct {
	Driver string        `yaml:"driver"` // memory, redis, failover
	TTL    time.Duration `yaml:"ttl"`
}

type BookingConfig struct {
	TimeSlots         []string      `yaml:"time_slots"`
	Currency          string        `yaml:"currency"`
	IDStrategy        string        `yaml:"id_strategy"` // uuid, sequence
	MaxAdvanceDays    int           `yaml:"max_advance_days"`
	// SubmitLimit caps submissions per client and window. Unset means 5,
	// zero disables the cap.
	SubmitLimit       *int          `yaml:"submit_limit"`
	SubmitLimitWindow time.Duration `yaml:"submit_limit_window"`
}

// ServiceSeed is a catalog entry used to seed an empty store.
type ServiceSeed struct {
	ID          string  `yaml:"id"`
	Name        string  `yaml:"name"`
	Duration    string  `yaml:"duration"`
	Price       float64 `yaml:"price"`
	Description string  `yaml:"description"`
}

type BackupConfig struct {
	Enabled       bool   `yaml:"enabled"`
	Schedule      string `yaml:"schedule"`
	RetentionDays int    `yaml:"retention_days"`
	StoragePath   string `yaml:"storage_path"`
}

type MonitoringConfig struct {
	PrometheusEnabled bool `yaml:"prometheus_enabled"`
	PrometheusPort    int  `yaml:"prometheus_port"`
}

type LoggingConfig struct {
	Level    string `yaml:"level"`
	Format   string `yaml:"format"`
	Output   string `yaml:"output"`
	FilePath string `yaml:"file_path"`
}

type APIConfig struct {
	Port       int                `yaml:"port"`
	AdminToken string             `yaml:"admin_token"`
	RateLimit  APIRateLimitConfig `yaml:"rate_limit"`
}

type APIRateLimitConfig struct {
	RPS   float64 `yaml:"rps"`
	Burst int     `yaml:"burst"`
}

type ExportConfig struct {
	Path string `yaml:"path"`
}

var DefaultTimeSlots = []string{"09:00", "10:00", "11:00", "13:00", "14:00", "15:00", "16:00", "17:00"}

var DefaultServices = []ServiceSeed{
	{ID: "1", Name: "Personal Photoshoot", Duration: "2 hours", Price: 250, Description: "Intimate portrait session"},
	{ID: "2", Name: "Wedding Photography", Duration: "Full day", Price: 2500, Description: "Complete wedding coverage"},
	{ID: "3", Name: "Fashion/Beauty Campaign", Duration: "4 hours", Price: 800, Description: "Professional campaign shoot"},
	{ID: "4", Name: "Event Coverage", Duration: "3 hours", Price: 500, Description: "Corporate or private events"},
}

func Load(configPath string) (*Config, error) {
	// .env is optional
	if err := godotenv.Load(".env"); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, err
	}

	expandedData := []byte(os.ExpandEnv(string(data)))

	var config Config
	if err := yaml.Unmarshal(expandedData, &config); err != nil {
		return nil, err
	}

	config.applyDefaults()

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &config, nil
}

func (c *Config) Validate() error {
	switch c.Store.Driver {
	case "sqlite":
		if c.Store.Path == "" {
			return errors.New("store path is required for sqlite driver")
		}
	case "redis":
		if c.Redis.Address == "" {
			return errors.New("redis address is required for redis store driver")
		}
	case "memory":
	default:
		return fmt.Errorf("unknown store driver %q", c.Store.Driver)
	}

	switch c.Sessions.Driver {
	case "memory":
	case "redis", "failover":
		if c.Redis.Address == "" {
			return fmt.Errorf("redis address is required for %s sessions", c.Sessions.Driver)
		}
	default:
		return fmt.Errorf("unknown sessions driver %q", c.Sessions.Driver)
	}

	switch c.Booking.IDStrategy {
	case "uuid", "sequence":
	default:
		return fmt.Errorf("unknown id strategy %q", c.Booking.IDStrategy)
	}

	if c.Booking.MaxAdvanceDays < 0 {
		return errors.New("booking max_advance_days must not be negative")
	}

	if _, err := time.LoadLocation(c.App.Timezone); err != nil {
		return fmt.Errorf("invalid timezone %q: %w", c.App.Timezone, err)
	}

	if c.Booking.SubmitLimit != nil && *c.Booking.SubmitLimit < 0 {
		return errors.New("booking submit_limit must not be negative")
	}

	if err := ValidateTimeSlots(c.Booking.TimeSlots); err != nil {
		return fmt.Errorf("booking time_slots: %w", err)
	}

	return ValidateServices(c.Services)
}

func ValidateTimeSlots(slots []string) error {
	return validation.Var("slots", slots, validation.TimeSlotsRule)
}

func ValidateServices(services []ServiceSeed) error {
	ids := make(map[string]bool)
	for _, s := range services {
		if s.ID == "" {
			return fmt.Errorf("service '%s' has empty ID", s.Name)
		}
		if ids[s.ID] {
			return fmt.Errorf("duplicate service ID found: %s", s.ID)
		}
		if s.Name == "" {
			return fmt.Errorf("service %s has empty name", s.ID)
		}
		if s.Price < 0 {
			return fmt.Errorf("service %s has negative price", s.ID)
		}
		ids[s.ID] = true
	}
	return nil
}

func (c *Config) applyDefaults() {
	if c.App.Name == "" {
		c.App.Name = "studiobook"
	}
	if c.App.Timezone == "" {
		c.App.Timezone = "UTC"
	}
	if c.Store.Driver == "" {
		c.Store.Driver = "sqlite"
	}
	if c.Store.Driver == "sqlite" && c.Store.Path == "" {
		c.Store.Path = "data/studiobook.db"
	}
	if c.Sessions.Driver == "" {
		c.Sessions.Driver = "memory"
	}
	if c.Sessions.TTL == 0 {
		c.Sessions.TTL = 24 * time.Hour
	}
	if len(c.Booking.TimeSlots) == 0 {
		c.Booking.TimeSlots = append([]string(nil), DefaultTimeSlots...)
	}
	if c.Booking.Currency == "" {
		c.Booking.Currency = "EUR"
	}
	if c.Booking.IDStrategy == "" {
		c.Booking.IDStrategy = "uuid"
	}
	if c.Booking.SubmitLimit == nil {
		limit := 5
		c.Booking.SubmitLimit = &limit
	}
	if c.Booking.SubmitLimitWindow == 0 {
		c.Booking.SubmitLimitWindow = time.Hour
	}
	if len(c.Services) == 0 {
		c.Services = append([]ServiceSeed(nil), DefaultServices...)
	}
	if c.API.Port == 0 {
		c.API.Port = 8080
	}
	if c.Monitoring.PrometheusEnabled && c.Monitoring.PrometheusPort == 0 {
		c.Monitoring.PrometheusPort = 9090
	}
	if c.Exports.Path == "" {
		c.Exports.Path = "exports"
	}
	if c.Backup.StoragePath == "" {
		c.Backup.StoragePath = "backups"
	}
}
