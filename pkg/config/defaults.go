// Package config provides centralized default values for LeadRelay
package config

import (
	"bufio"
	"log"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"
)

var envLoaded sync.Once

func loadEnvFile() {
	envLoaded.Do(func() {
		file, err := os.Open(".env")
		if err != nil {
			return
		}
		defer file.Close()

		log.Println("Loading configuration overrides from .env file...")
		scanner := bufio.NewScanner(file)
		for scanner.Scan() {
			line := strings.TrimSpace(scanner.Text())

			if line == "" || strings.HasPrefix(line, "#") {
				continue
			}

			parts := strings.SplitN(line, "=", 2)
			if len(parts) != 2 {
				continue
			}

			key := strings.TrimSpace(parts[0])
			value := strings.TrimSpace(parts[1])

			if os.Getenv(key) == "" {
				os.Setenv(key, value)
			}
		}
	})
}

func getEnvInt(key string, defaultValue int) int {
	if valStr := os.Getenv(key); valStr != "" {
		if val, err := strconv.Atoi(valStr); err == nil {
			if val != defaultValue {
				log.Printf("Config override: %s=%d (default: %d)", key, val, defaultValue)
			}
			return val
		}
	}
	return defaultValue
}

func getEnvString(key string, defaultValue string) string {
	if val := os.Getenv(key); val != "" {
		if val != defaultValue {
			log.Printf("Config override: %s=%s (default: %s)", key, val, defaultValue)
		}
		return val
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if valStr := os.Getenv(key); valStr != "" {
		if val, err := time.ParseDuration(valStr); err == nil {
			if val != defaultValue {
				log.Printf("Config override: %s=%s (default: %s)", key, val, defaultValue)
			}
			return val
		}
	}
	return defaultValue
}

var (
	// Server Configuration
	Port               string
	ServerReadTimeout  time.Duration
	ServerWriteTimeout time.Duration
	ServerIdleTimeout  time.Duration

	// Storage Configuration
	DataDir string

	// Graph API Configuration
	GraphAPIBaseURL string
	GraphAPIVersion string
	UpstreamTimeout time.Duration

	// Lead Retrieval Policy
	LeadFetchCap int
	LeadPageSize int
	MaxLeadPages int

	// Token Lifecycle Policy
	TokenExpiryDays int

	// Export Configuration
	MaxSplitCount  int
	ColumnWidthCap float64

	// Email Configuration
	EmailProvider string
	EmailFrom     string
	EmailFromName string
	SMTPHost      string
	SMTPPort      int
	SMTPUser      string
	SMTPPass      string
	ResendAPIKey  string
)

func init() {
	loadEnvFile()

	// Server Configuration
	Port = getEnvString("PORT", "8080")
	ServerReadTimeout = getEnvDuration("SERVER_READ_TIMEOUT", 15*time.Second)
	ServerWriteTimeout = getEnvDuration("SERVER_WRITE_TIMEOUT", 60*time.Second)
	ServerIdleTimeout = getEnvDuration("SERVER_IDLE_TIMEOUT", 60*time.Second)

	// Storage
	DataDir = getEnvString("DATA_DIR", "data")

	// Graph API
	GraphAPIBaseURL = getEnvString("GRAPH_API_BASE_URL", "https://graph.facebook.com")
	GraphAPIVersion = getEnvString("GRAPH_API_VERSION", "v19.0")
	UpstreamTimeout = getEnvDuration("UPSTREAM_TIMEOUT", 30*time.Second)

	// Lead Retrieval Policy
	LeadFetchCap = getEnvInt("LEAD_FETCH_CAP", 700)
	LeadPageSize = getEnvInt("LEAD_PAGE_SIZE", 100)
	MaxLeadPages = getEnvInt("MAX_LEAD_PAGES", 4)

	// Token Lifecycle Policy
	TokenExpiryDays = getEnvInt("TOKEN_EXPIRY_DAYS", 60)

	// Export
	MaxSplitCount = getEnvInt("MAX_SPLIT_COUNT", 20)
	ColumnWidthCap = float64(getEnvInt("COLUMN_WIDTH_CAP", 50))

	// Email
	EmailProvider = getEnvString("EMAIL_PROVIDER", "smtp")
	EmailFrom = getEnvString("EMAIL_FROM", "")
	EmailFromName = getEnvString("EMAIL_FROM_NAME", "Lead Data Service")
	SMTPHost = getEnvString("EMAIL_HOST", "smtp.gmail.com")
	SMTPPort = getEnvInt("EMAIL_PORT", 587)
	SMTPUser = getEnvString("EMAIL_USER", "")
	SMTPPass = getEnvString("EMAIL_PASS", "")
	ResendAPIKey = getEnvString("RESEND_API_KEY", "")
}
