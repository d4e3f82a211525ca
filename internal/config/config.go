package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/yalldumb/nails-tg-app/internal/models"
)

// Conflict modes. Selected once per deployment, never mixed.
const (
	ConflictModeDate     = "date"      // at most one booking per calendar date
	ConflictModeDateTime = "date_time" // at most one booking per (date, time) pair
)

type Config struct {
	Server struct {
		Port int `yaml:"port"`
	} `yaml:"server"`

	Database struct {
		Driver string `yaml:"driver"` // "memory" (default) or "sqlite"
		Path   string `yaml:"path"`

		Backup struct {
			Enabled       bool   `yaml:"enabled"`
			Dir           string `yaml:"dir"`
			IntervalHours int    `yaml:"interval_hours"`
			RetentionDays int    `yaml:"retention_days"`
		} `yaml:"backup"`
	} `yaml:"database"`

	Redis struct {
		Address         string `yaml:"address"`
		Password        string `yaml:"password"`
		DB              int    `yaml:"db"`
		CacheTTLSeconds int    `yaml:"cache_ttl_seconds"`
	} `yaml:"redis"`

	Uploads struct {
		Dir                string `yaml:"dir"`
		MaxPhotos          int    `yaml:"max_photos"`
		SaveTimeoutSeconds int    `yaml:"save_timeout_seconds"`
	} `yaml:"uploads"`

	Booking struct {
		ConflictMode string `yaml:"conflict_mode"`
		DayStart     string `yaml:"day_start"` // HH:MM
		DayEnd       string `yaml:"day_end"`   // HH:MM
		SlotMinutes  int    `yaml:"slot_minutes"`
	} `yaml:"booking"`

	Admin struct {
		Token string `yaml:"token"`
	} `yaml:"admin"`

	Monitoring struct {
		HealthCheckPort   int  `yaml:"health_check_port"`
		PrometheusEnabled bool `yaml:"prometheus_enabled"`
		PrometheusPort    int  `yaml:"prometheus_port"`
	} `yaml:"monitoring"`

	Catalog []models.Service `yaml:"catalog"`
}

func Load(path string) (*Config, error) {
	if path == "" {
		path = "configs/config.yaml"
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	// Support ${ENV_VAR} placeholders in YAML config.
	data = []byte(os.ExpandEnv(string(data)))

	var cfg Config
	if err = yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	switch cfg.Booking.ConflictMode {
	case "":
		cfg.Booking.ConflictMode = ConflictModeDate
	case ConflictModeDate, ConflictModeDateTime:
	default:
		return nil, fmt.Errorf("unknown booking.conflict_mode %q", cfg.Booking.ConflictMode)
	}

	if cfg.Database.Driver == "" {
		cfg.Database.Driver = "memory"
	}
	if cfg.Database.Driver == "sqlite" {
		if cfg.Database.Path == "" {
			cfg.Database.Path = "data/nails.db"
		}
		if err = os.MkdirAll(filepath.Dir(cfg.Database.Path), 0o755); err != nil {
			return nil, err
		}
	}

	if len(cfg.Catalog) == 0 {
		cfg.Catalog = DefaultCatalog()
	}

	return &cfg, nil
}

// DefaultCatalog is the salon price list shipped with the app.
func DefaultCatalog() []models.Service {
	return []models.Service{
		{ID: 1, Title: "Натуральные ногти", Price: 3000, DurationMinutes: 90},
		{ID: 2, Title: "Короткие", Price: 3500, DurationMinutes: 105},
		{ID: 3, Title: "Средние", Price: 4000, DurationMinutes: 120},
		{ID: 4, Title: "Длинные", Price: 4500, DurationMinutes: 135},
		{ID: 5, Title: "Длинные+", Price: 5000, DurationMinutes: 150},
		{ID: 6, Title: "Экстра", Price: 7000, DurationMinutes: 165},
		{ID: 7, Title: "Экстра+", Price: 8000, DurationMinutes: 180},
		{ID: 8, Title: "Когти", Price: 1000, DurationMinutes: 30},
	}
}

func (c *Config) ServerPort() int {
	if c.Server.Port <= 0 {
		return 8080
	}
	return c.Server.Port
}

func (c *Config) DayStart() string {
	if c.Booking.DayStart == "" {
		return "10:00"
	}
	return c.Booking.DayStart
}

func (c *Config) DayEnd() string {
	if c.Booking.DayEnd == "" {
		return "20:00"
	}
	return c.Booking.DayEnd
}

func (c *Config) SlotMinutes() int {
	if c.Booking.SlotMinutes <= 0 {
		return 15
	}
	return c.Booking.SlotMinutes
}

func (c *Config) MaxPhotos() int {
	if c.Uploads.MaxPhotos <= 0 {
		return 9
	}
	return c.Uploads.MaxPhotos
}

func (c *Config) UploadsDir() string {
	if c.Uploads.Dir == "" {
		return "data/uploads"
	}
	return c.Uploads.Dir
}

func (c *Config) UploadTimeout() time.Duration {
	if c.Uploads.SaveTimeoutSeconds <= 0 {
		return 10 * time.Second
	}
	return time.Duration(c.Uploads.SaveTimeoutSeconds) * time.Second
}

func (c *Config) BackupDir() string {
	if c.Database.Backup.Dir == "" {
		return "data/backups"
	}
	return c.Database.Backup.Dir
}

func (c *Config) BackupInterval() time.Duration {
	if c.Database.Backup.IntervalHours <= 0 {
		return 24 * time.Hour
	}
	return time.Duration(c.Database.Backup.IntervalHours) * time.Hour
}

func (c *Config) CacheTTL() time.Duration {
	if c.Redis.CacheTTLSeconds <= 0 {
		return 0
	}
	return time.Duration(c.Redis.CacheTTLSeconds) * time.Second
}
