package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/evilsocket/islazy/log"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"

	"github.com/C4rL0Xt/ControlTemperaturaHumedad/internal/climate"
)

const (
	DriverSQLite = "sqlite"
	DriverMemory = "memory"
)

type AppConfig struct {
	Port  string `validate:"required,numeric"`
	Title string `validate:"required"`

	// Persistence.
	StoreDriver  string `validate:"oneof=sqlite memory"`
	DatabasePath string `validate:"required_if=StoreDriver sqlite"`

	// HistoryDays is the default chart window.
	HistoryDays int `validate:"min=1,max=30"`

	// AutoRefresh triggers a background render pass at this interval (0 = disabled).
	AutoRefresh time.Duration

	// Zones in card order, and the ranges samples are drawn from.
	Zones       []climate.Zone `validate:"min=1,unique,dive,required"`
	Temperature climate.Range
	Humidity    climate.Range
}

// zoneFile is the layout of the optional YAML file named by ZONES_FILE.
type zoneFile struct {
	Zones       []climate.Zone `yaml:"zones"`
	Temperature *climate.Range `yaml:"temperature"`
	Humidity    *climate.Range `yaml:"humidity"`
}

var validate = validator.New()

// Load reads configuration from environment with sensible defaults.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		log.Debug("no .env file found or error loading it: %v", err)
	}
	cfg := &AppConfig{
		Zones:       append([]climate.Zone(nil), climate.DefaultZones...),
		Temperature: climate.DefaultTemperatureRange,
		Humidity:    climate.DefaultHumidityRange,
	}

	cfg.Port = getenvDefault("PORT", "8080")
	cfg.Title = getenvDefault("DASHBOARD_TITLE", "Dashboard Climático de Lima")
	cfg.StoreDriver = strings.ToLower(getenvDefault("STORE_DRIVER", DriverSQLite))
	cfg.DatabasePath = getenvDefault("DATABASE_PATH", "lima_clima.db")

	days, err := getenvInt("HISTORY_DAYS", climate.DefaultHistoryDays)
	if err != nil {
		return nil, err
	}
	cfg.HistoryDays = days

	// Auto refresh: disabled by default.
	refresh, err := time.ParseDuration(getenvDefault("AUTO_REFRESH", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid AUTO_REFRESH: %w", err)
	}
	if refresh < 0 {
		return nil, fmt.Errorf("invalid AUTO_REFRESH: must not be negative")
	}
	cfg.AutoRefresh = refresh

	if path := os.Getenv("ZONES_FILE"); path != "" {
		if err := cfg.loadZoneFile(path); err != nil {
			return nil, err
		}
	}

	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func (c *AppConfig) loadZoneFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading ZONES_FILE: %w", err)
	}

	var zf zoneFile
	if err := yaml.UnmarshalStrict(data, &zf); err != nil {
		return fmt.Errorf("parsing ZONES_FILE %s: %w", path, err)
	}

	if len(zf.Zones) > 0 {
		c.Zones = zf.Zones
	}
	if zf.Temperature != nil {
		c.Temperature = *zf.Temperature
	}
	if zf.Humidity != nil {
		c.Humidity = *zf.Humidity
	}

	log.Debug("loaded %d zones from %s", len(c.Zones), path)
	return nil
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}
