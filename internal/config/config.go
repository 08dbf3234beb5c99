package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

const (
	DriverFile     = "file"
	DriverPostgres = "postgres"

	defaultDSN         = "host=localhost user=postgres password=postgres dbname=depo port=5432 sslmode=disable"
	defaultCORSOrigins = "http://localhost:3000"
)

type Config struct {
	HTTPPort      string `env:"HTTP_PORT" envDefault:"8080"`
	StorageDriver string `env:"STORAGE_DRIVER" envDefault:"file"`
	DataDir       string `env:"DATA_DIR" envDefault:"./data"` // JSON dosyalarının klasörü
	DatabaseDSN   string `env:"DATABASE_DSN" envDefault:"host=localhost user=postgres password=postgres dbname=depo port=5432 sslmode=disable"`
	CORSOrigins   string `env:"CORS_ALLOWED_ORIGINS" envDefault:"http://localhost:3000"`

	LogLevel       string `env:"LOG_LEVEL" envDefault:"info"`
	LogDevelopment bool   `env:"LOG_DEVELOPMENT" envDefault:"false"`

	// Raporlarda gün sınırları ve saat dilimi belirtilmemiş tarihler bu bölgeye göre
	ReportTimezone     string   `env:"REPORT_TIMEZONE" envDefault:"Local"`
	BreakdownLocations []string `env:"BREAKDOWN_LOCATIONS" envSeparator:"," envDefault:"bar,mutfak"`
	TopProductsLimit   int      `env:"TOP_PRODUCTS_LIMIT" envDefault:"5"`

	location *time.Location
}

// Load: ortam değişkenlerini okur ve doğrular
func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("ortam değişkenleri okunamadı: %w", err)
	}

	cfg.StorageDriver = strings.ToLower(strings.TrimSpace(cfg.StorageDriver))
	switch cfg.StorageDriver {
	case DriverFile, DriverPostgres:
	default:
		return nil, fmt.Errorf("STORAGE_DRIVER geçersiz: %q (file veya postgres olmalı)", cfg.StorageDriver)
	}

	loc, err := time.LoadLocation(strings.TrimSpace(cfg.ReportTimezone))
	if err != nil {
		return nil, fmt.Errorf("REPORT_TIMEZONE geçersiz: %w", err)
	}
	cfg.location = loc

	if cfg.TopProductsLimit <= 0 {
		return nil, fmt.Errorf("TOP_PRODUCTS_LIMIT pozitif olmalı: %d", cfg.TopProductsLimit)
	}

	targets := make([]string, 0, len(cfg.BreakdownLocations))
	for _, t := range cfg.BreakdownLocations {
		if t = strings.TrimSpace(t); t != "" {
			targets = append(targets, t)
		}
	}
	cfg.BreakdownLocations = targets

	return &cfg, nil
}

// Location: rapor saat dilimi, Load çağrılmadıysa yerel saat
func (c *Config) Location() *time.Location {
	if c.location == nil {
		return time.Local
	}
	return c.location
}

// CORSOriginList: virgülle ayrılmış origin listesini temizler
func (c *Config) CORSOriginList() []string {
	var out []string
	for _, o := range strings.Split(c.CORSOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}

// Warnings: production için değiştirilmesi gereken varsayılanlar
func (c *Config) Warnings() []string {
	var out []string
	if c.StorageDriver == DriverPostgres && c.DatabaseDSN == defaultDSN {
		out = append(out, "DATABASE_DSN varsayılan değer kullanılıyor, production için mutlaka kendi Postgres bağlantı bilgisini tanımla.")
	}
	if c.CORSOrigins == defaultCORSOrigins {
		out = append(out, "CORS_ALLOWED_ORIGINS varsayılan değer kullanılıyor, production için mutlaka kendi domain'ini tanımla.")
	}
	return out
}
