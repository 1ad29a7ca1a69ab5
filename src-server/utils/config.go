package utils

import (
	"log/slog"
	"os"
	"path/filepath"
	"time"
)

type Config struct {
	port string

	databaseURL string

	adminPassword string

	geminiApiKey string

	storageURL    string
	storageKey    string
	storageBucket string

	location           *time.Location
	staticWebClientDir string

	metricCollectionInterval time.Duration
}

func NewConfig() *Config {
	return &Config{
		port: func() string {
			port := os.Getenv("PORT")
			if port == "" {
				port = "8080"
			}
			slog.Debug("env", "PORT", port)
			return port
		}(),

		databaseURL: func() string {
			databaseURL := os.Getenv("DATABASE_URL")
			if databaseURL == "" {
				slog.Error("DATABASE_URL is not set")
				os.Exit(1)
			}
			slog.Debug("env", "DATABASE_URL", "[set]")
			return databaseURL
		}(),

		adminPassword: func() string {
			adminPassword := os.Getenv("ADMIN_PASSWORD")
			if adminPassword == "" {
				slog.Error("ADMIN_PASSWORD is not set")
				os.Exit(1)
			}
			return adminPassword
		}(),

		geminiApiKey: func() string {
			geminiApiKey := os.Getenv("GEMINI_API_KEY")
			if geminiApiKey == "" {
				// coach endpoints fall back to canned replies
				slog.Warn("GEMINI_API_KEY is not set")
				return ""
			}
			slog.Debug("env", "GEMINI_API_KEY", geminiApiKey[0:3]+"...")
			return geminiApiKey
		}(),

		storageURL: func() string {
			storageURL := os.Getenv("STORAGE_URL")
			if storageURL == "" {
				slog.Warn("STORAGE_URL is not set, banner uploads disabled")
			} else {
				slog.Debug("env", "STORAGE_URL", storageURL)
			}
			return storageURL
		}(),
		storageKey: func() string {
			storageKey := os.Getenv("STORAGE_KEY")
			if storageKey != "" {
				slog.Debug("env", "STORAGE_KEY", storageKey[0:3]+"...")
			}
			return storageKey
		}(),
		storageBucket: func() string {
			storageBucket := os.Getenv("STORAGE_BUCKET")
			if storageBucket == "" {
				storageBucket = "event-banners"
			}
			slog.Debug("env", "STORAGE_BUCKET", storageBucket)
			return storageBucket
		}(),

		location: func() *time.Location {
			timezoneStr := os.Getenv("TIMEZONE")
			var loc *time.Location
			var err error
			switch timezoneStr {
			case "":
				slog.Warn("TIMEZONE is not set, using local timezone", "timezone", time.Local)
				loc = time.Local
			case "UTC":
				loc = time.UTC
			default:
				loc, err = time.LoadLocation(timezoneStr)
				if err != nil {
					slog.Error("invalid timezone", "timezone", timezoneStr, "error", err)
					os.Exit(1)
				}
			}
			slog.Debug("env", "TIMEZONE", timezoneStr)
			return loc
		}(),

		staticWebClientDir: func() string {
			staticWebClientDir := os.Getenv("STATIC_WEB_CLIENT_DIR")
			if staticWebClientDir == "" {
				slog.Warn("STATIC_WEB_CLIENT_DIR is not set, not serving the web client")
				return ""
			}
			info, err := os.Stat(staticWebClientDir)
			if err != nil {
				slog.Error("can't get info of STATIC_WEB_CLIENT_DIR", "error", err)
				os.Exit(1)
			}
			if !info.IsDir() {
				slog.Error("STATIC_WEB_CLIENT_DIR is not a directory")
				os.Exit(1)
			}
			slog.Debug("env", "STATIC_WEB_CLIENT_DIR", staticWebClientDir)
			return filepath.Clean(staticWebClientDir)
		}(),

		metricCollectionInterval: func() time.Duration {
			metricCollectionInterval := os.Getenv("METRIC_COLLECTION_INTERVAL")
			if metricCollectionInterval == "" {
				metricCollectionInterval = "1m"
			}
			duration, err := time.ParseDuration(metricCollectionInterval)
			if err != nil {
				slog.Error("invalid METRIC_COLLECTION_INTERVAL", "error", err)
				os.Exit(1)
			}
			slog.Debug("env", "METRIC_COLLECTION_INTERVAL", duration)
			return duration
		}(),
	}
}

// Get PORT env, default to 8080
func (c *Config) GetPort() string {
	return c.port
}

// Get DATABASE_URL env
func (c *Config) GetDatabaseURL() string {
	return c.databaseURL
}

// Get ADMIN_PASSWORD env
func (c *Config) GetAdminPassword() string {
	return c.adminPassword
}

// Get GEMINI_API_KEY env, blank when unset
func (c *Config) GetGeminiApiKey() string {
	return c.geminiApiKey
}

// Get STORAGE_URL env, blank when unset
func (c *Config) GetStorageURL() string {
	return c.storageURL
}

// Get STORAGE_KEY env
func (c *Config) GetStorageKey() string {
	return c.storageKey
}

// Get STORAGE_BUCKET env, default to event-banners
func (c *Config) GetStorageBucket() string {
	return c.storageBucket
}

// Get TIMEZONE env
func (c *Config) GetLocation() *time.Location {
	return c.location
}

// Get STATIC_WEB_CLIENT_DIR env, blank when unset
func (c *Config) GetStaticWebClientDir() string {
	return c.staticWebClientDir
}

// Get METRIC_COLLECTION_INTERVAL env, default to 1m
func (c *Config) GetMetricCollectionInterval() time.Duration {
	return c.metricCollectionInterval
}
