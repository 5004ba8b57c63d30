package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	Graph  GraphConfig
	Report ReportConfig
	Email  EmailConfig
	Server ServerConfig
}

// GraphConfig holds the Azure AD app details used to query Microsoft Graph
type GraphConfig struct {
	ClientID     string
	ClientSecret string
	TenantID     string
}

// ReportConfig holds the recipient roster and reporting window settings
type ReportConfig struct {
	UserPrincipalNames []string
	ManagerEmail       string
	WindowHours        int
	Timezone           string
	Schedule           string // cron expression for scheduled runs
}

// EmailConfig holds SendGrid email configuration
type EmailConfig struct {
	APIKey    string
	FromEmail string
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port string
	Host string
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	// Try to load .env file (ignore error if it doesn't exist)
	_ = godotenv.Load()

	config := &Config{
		Graph: GraphConfig{
			ClientID:     getEnv("CLIENT_ID", ""),
			ClientSecret: getEnv("CLIENT_SECRET", ""),
			TenantID:     getEnv("TENANT_ID", ""),
		},
		Report: ReportConfig{
			UserPrincipalNames: splitList(getEnv("USER_PRINCIPAL_NAMES", "")),
			ManagerEmail:       getEnv("MANAGER_EMAIL", ""),
			WindowHours:        getEnvInt("REPORT_WINDOW_HOURS", 24),
			Timezone:           getEnv("REPORT_TIMEZONE", "Europe/London"),
			Schedule:           getEnv("REPORT_SCHEDULE", "0 6 * * *"),
		},
		Email: EmailConfig{
			APIKey:    getEnv("SENDGRID_API_KEY", ""),
			FromEmail: getEnv("SENDGRID_FROM_EMAIL", ""),
		},
		Server: ServerConfig{
			Port: getEnv("PORT", "8086"),
			Host: getEnv("HOST", "0.0.0.0"),
		},
	}

	if err := ValidateConfig(config); err != nil {
		return nil, err
	}

	return config, nil
}

// ValidateConfig validates that required configuration values are present
func ValidateConfig(config *Config) error {
	if config.Graph.ClientID == "" || config.Graph.ClientSecret == "" || config.Graph.TenantID == "" {
		return fmt.Errorf("CLIENT_ID, CLIENT_SECRET and TENANT_ID are required")
	}
	if len(config.Report.UserPrincipalNames) == 0 {
		return fmt.Errorf("USER_PRINCIPAL_NAMES is required")
	}
	if config.Report.ManagerEmail == "" {
		return fmt.Errorf("MANAGER_EMAIL is required")
	}
	if config.Report.WindowHours <= 0 {
		return fmt.Errorf("REPORT_WINDOW_HOURS must be positive")
	}
	// SendGrid settings are optional: with no API key the pipeline still
	// builds reports but mail dispatch is disabled
	return nil
}

// splitList parses a comma-separated env value into a trimmed list
func splitList(value string) []string {
	var items []string
	for _, item := range strings.Split(value, ",") {
		item = strings.TrimSpace(item)
		if item != "" {
			items = append(items, item)
		}
	}
	return items
}

// Helper functions for environment variable access
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
