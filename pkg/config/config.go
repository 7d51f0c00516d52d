package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

type Config struct {
	Env string

	Log      LogConfig
	Registry RegistryConfig
	Report   ReportConfig
	Metrics  MetricsConfig
}

type LogConfig struct {
	Level  string
	Format string
}

// RegistryConfig tunes the enrollment registry core.
type RegistryConfig struct {
	Timezone        string
	Location        *time.Location
	StrictDNILetter bool
}

// ReportConfig sets defaults for enrollment report rendering.
type ReportConfig struct {
	Format string
	Title  string
}

// MetricsConfig controls where the batch CLI dumps Prometheus metrics.
type MetricsConfig struct {
	TextfilePath string
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}

	return fromViper(v)
}

func fromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{}

	cfg.Env = v.GetString("ENV")

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	tz := strings.TrimSpace(v.GetString("REGISTRY_TIMEZONE"))
	if tz == "" {
		tz = "UTC"
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return nil, fmt.Errorf("load registry timezone %q: %w", tz, err)
	}
	cfg.Registry = RegistryConfig{
		Timezone:        tz,
		Location:        loc,
		StrictDNILetter: v.GetBool("STRICT_DNI_LETTER"),
	}

	cfg.Report = ReportConfig{
		Format: strings.ToLower(v.GetString("REPORT_FORMAT")),
		Title:  v.GetString("REPORT_TITLE"),
	}

	cfg.Metrics = MetricsConfig{
		TextfilePath: v.GetString("METRICS_TEXTFILE"),
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)

	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "console")

	v.SetDefault("REGISTRY_TIMEZONE", "UTC")
	v.SetDefault("STRICT_DNI_LETTER", false)

	v.SetDefault("REPORT_FORMAT", "table")
	v.SetDefault("REPORT_TITLE", "Enrollments")

	v.SetDefault("METRICS_TEXTFILE", "")
}
