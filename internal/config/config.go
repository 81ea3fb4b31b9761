// Package config reads service configuration from the environment.
package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	// HTTP Server
	Port string

	// Database
	SQLiteDBPath string

	// Assistant backend
	AIAPIURL         string
	AIAPIKey         string
	AIModel          string
	AIConnectTimeout time.Duration
	AIReadTimeout    time.Duration

	// AMQP
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string

	// Worker
	BackupFile string
}

func Load() *Config {
	return &Config{
		Port:         getEnv("PORT", "8081"),
		SQLiteDBPath: getEnv("SQLITE_DB_PATH", "./data/pocketledger.db"),

		AIAPIURL:         getEnv("AI_API_URL", "https://api.deepseek.com/v1/chat/completions"),
		AIAPIKey:         getEnv("AI_API_KEY", ""),
		AIModel:          getEnv("AI_MODEL", "deepseek-chat"),
		AIConnectTimeout: getEnvDuration("AI_CONNECT_TIMEOUT", 15*time.Second),
		AIReadTimeout:    getEnvDuration("AI_READ_TIMEOUT", 15*time.Second),

		AMQPURL:      getEnv("AMQP_URL", ""),
		AMQPExchange: getEnv("AMQP_EXCHANGE", "pocketledger"),
		AMQPQueue:    getEnv("AMQP_QUEUE", "backup_transactions"),

		BackupFile: getEnv("BACKUP_FILE", "./data/backup.csv"),
	}
}

// Validate checks the configuration and returns an error listing every
// problem found.
func (c *Config) Validate() error {
	var errs []string

	if port, err := strconv.Atoi(c.Port); err != nil {
		errs = append(errs, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errs = append(errs, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	if c.SQLiteDBPath == "" {
		errs = append(errs, "SQLite database path cannot be empty")
	} else if dir := filepath.Dir(c.SQLiteDBPath); dir != "." && dir != "" {
		if _, err := os.Stat(dir); os.IsNotExist(err) {
			if err := os.MkdirAll(dir, 0755); err != nil {
				errs = append(errs, fmt.Sprintf("cannot create SQLite database directory '%s': %v", dir, err))
			}
		}
	}

	if c.AIAPIURL != "" {
		if parsed, err := url.Parse(c.AIAPIURL); err != nil {
			errs = append(errs, fmt.Sprintf("invalid AI API URL '%s': %v", c.AIAPIURL, err))
		} else if parsed.Scheme != "http" && parsed.Scheme != "https" {
			errs = append(errs, fmt.Sprintf("invalid AI API URL scheme '%s': must be 'http' or 'https'", parsed.Scheme))
		}
		if c.AIModel == "" {
			errs = append(errs, "AI model cannot be empty when AI API URL is provided")
		}
	}

	if c.AIConnectTimeout < time.Second || c.AIConnectTimeout > time.Minute {
		errs = append(errs, fmt.Sprintf("invalid AI connect timeout %v: must be between 1s and 1m", c.AIConnectTimeout))
	}
	if c.AIReadTimeout < time.Second || c.AIReadTimeout > time.Minute {
		errs = append(errs, fmt.Sprintf("invalid AI read timeout %v: must be between 1s and 1m", c.AIReadTimeout))
	}

	if c.AMQPURL != "" {
		if parsed, err := url.Parse(c.AMQPURL); err != nil {
			errs = append(errs, fmt.Sprintf("invalid AMQP URL '%s': %v", c.AMQPURL, err))
		} else if parsed.Scheme != "amqp" && parsed.Scheme != "amqps" {
			errs = append(errs, fmt.Sprintf("invalid AMQP URL scheme '%s': must be 'amqp' or 'amqps'", parsed.Scheme))
		}
		if c.AMQPExchange == "" {
			errs = append(errs, "AMQP exchange name cannot be empty when AMQP URL is provided")
		}
		if c.AMQPQueue == "" {
			errs = append(errs, "AMQP queue name cannot be empty when AMQP URL is provided")
		}
	}

	if c.BackupFile == "" {
		errs = append(errs, "backup file path cannot be empty")
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errs, "\n- "))
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
