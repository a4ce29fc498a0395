package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"pnlboard/internal/log"
)

type Config struct {
	// HTTP Server
	Port string

	// Statement source
	SourceBackend string
	WorkbookPath  string
	SheetName     string

	// Google Sheets
	GoogleSpreadsheetID      string
	GoogleServiceAccountJSON string
	GoogleServiceAccountFile string
	GoogleOAuthClientFile    string
	GoogleOAuthTokenFile     string
	OAuthRedirectPort        string

	// Remark store
	RemarksBackend string
	SQLiteDBPath   string
	// RemarksSeedFile seeds the memory backend; a missing file is ignored.
	RemarksSeedFile string

	// Download approval
	ApprovalCode   string
	ApprovalSecret string

	// AMQP, disabled when AMQPURL is empty
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string

	StatementCacheTTL time.Duration
	ImportSheetNotes  bool
	LogLevel          string
}

func Load() *Config {
	return &Config{
		Port: getEnv("PORT", "8081"),

		SourceBackend: getEnv("SOURCE_BACKEND", "excel"),
		WorkbookPath:  getEnv("WORKBOOK_PATH", "./data/MIS.xlsx"),
		SheetName:     getEnv("SHEET_NAME", "P&L (Niko)"),

		GoogleSpreadsheetID:      getEnv("GOOGLE_SPREADSHEET_ID", ""),
		GoogleServiceAccountJSON: getEnv("GOOGLE_SERVICE_ACCOUNT_JSON", ""),
		GoogleServiceAccountFile: getEnv("GOOGLE_SERVICE_ACCOUNT_FILE", ""),
		GoogleOAuthClientFile:    getEnv("GOOGLE_OAUTH_CLIENT_FILE", ""),
		GoogleOAuthTokenFile:     getEnv("GOOGLE_OAUTH_TOKEN_FILE", ""),
		OAuthRedirectPort:        getEnv("OAUTH_REDIRECT_PORT", "8085"),

		RemarksBackend:  getEnv("REMARKS_BACKEND", "sqlite"),
		SQLiteDBPath:    getEnv("SQLITE_DB_PATH", "./data/remarks.db"),
		RemarksSeedFile: getEnv("REMARKS_SEED_FILE", "./data/remarks.tsv"),

		ApprovalCode:   getEnv("APPROVAL_CODE", ""),
		ApprovalSecret: getEnv("APPROVAL_SECRET", ""),

		AMQPURL:      getEnv("AMQP_URL", ""),
		AMQPExchange: getEnv("AMQP_EXCHANGE", "pnlboard"),
		AMQPQueue:    getEnv("AMQP_QUEUE", "remark_events"),

		StatementCacheTTL: getEnvDuration("STATEMENT_CACHE_TTL", 30*time.Second),
		ImportSheetNotes:  getEnvBool("IMPORT_SHEET_NOTES", false),
		LogLevel:          getEnv("LOG_LEVEL", "info"),
	}
}

// Validate validates the server configuration and returns an error if
// invalid.
func (c *Config) Validate() error {
	return c.validate(true)
}

// ValidateTool validates the settings the command line tool uses. The port
// and approval code are not needed there.
func (c *Config) ValidateTool() error {
	return c.validate(false)
}

func (c *Config) validate(server bool) error {
	var errors []string

	if server {
		if port, err := strconv.Atoi(c.Port); err != nil {
			errors = append(errors, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
		} else if port < 1 || port > 65535 {
			errors = append(errors, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
		}
	}

	if c.SheetName == "" {
		errors = append(errors, "sheet name cannot be empty")
	}

	switch c.SourceBackend {
	case "excel":
		if c.WorkbookPath == "" {
			errors = append(errors, "workbook path cannot be empty when using excel source")
		} else if _, err := os.Stat(c.WorkbookPath); os.IsNotExist(err) {
			errors = append(errors, fmt.Sprintf("workbook file does not exist: %s", c.WorkbookPath))
		}
	case "sheets":
		if c.GoogleSpreadsheetID == "" {
			errors = append(errors, "Google Spreadsheet ID is required when using sheets source")
		}
		userToken := c.GoogleOAuthClientFile != "" && c.GoogleOAuthTokenFile != ""
		if c.GoogleServiceAccountJSON == "" && c.GoogleServiceAccountFile == "" && os.Getenv("GOOGLE_APPLICATION_CREDENTIALS") == "" && !userToken {
			errors = append(errors, "either GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE or GOOGLE_OAUTH_CLIENT_FILE with GOOGLE_OAUTH_TOKEN_FILE must be provided for sheets source")
		}
		if userToken {
			if _, err := os.Stat(c.GoogleOAuthTokenFile); os.IsNotExist(err) {
				errors = append(errors, fmt.Sprintf("Google OAuth token file does not exist: %s (run pnlctl google-auth)", c.GoogleOAuthTokenFile))
			}
		}
		if c.GoogleServiceAccountFile != "" {
			if _, err := os.Stat(c.GoogleServiceAccountFile); os.IsNotExist(err) {
				errors = append(errors, fmt.Sprintf("Google service account file does not exist: %s", c.GoogleServiceAccountFile))
			}
		}
	default:
		errors = append(errors, fmt.Sprintf("invalid source backend '%s': must be one of [excel sheets]", c.SourceBackend))
	}

	switch c.RemarksBackend {
	case "memory":
	case "sqlite":
		if c.SQLiteDBPath == "" {
			errors = append(errors, "SQLite database path cannot be empty when using sqlite remarks backend")
		}
	default:
		errors = append(errors, fmt.Sprintf("invalid remarks backend '%s': must be one of [memory sqlite]", c.RemarksBackend))
	}

	if server && strings.TrimSpace(c.ApprovalCode) == "" {
		errors = append(errors, "APPROVAL_CODE is required")
	}

	if c.AMQPURL != "" {
		if parsedURL, err := url.Parse(c.AMQPURL); err != nil {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL '%s': %v", c.AMQPURL, err))
		} else if parsedURL.Scheme != "amqp" && parsedURL.Scheme != "amqps" {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL scheme '%s': must be 'amqp' or 'amqps'", parsedURL.Scheme))
		}
		if c.AMQPExchange == "" {
			errors = append(errors, "AMQP exchange name cannot be empty when AMQP URL is provided")
		}
		if c.AMQPQueue == "" {
			errors = append(errors, "AMQP queue name cannot be empty when AMQP URL is provided")
		}
	}

	if c.StatementCacheTTL < 0 {
		errors = append(errors, fmt.Sprintf("invalid statement cache TTL %v: must not be negative", c.StatementCacheTTL))
	} else if c.StatementCacheTTL > 24*time.Hour {
		errors = append(errors, fmt.Sprintf("invalid statement cache TTL %v: must be at most 24 hours", c.StatementCacheTTL))
	}

	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		errors = append(errors, err.Error())
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}

	return nil
}

// AMQPEnabled reports whether remark events should be published.
func (c *Config) AMQPEnabled() bool {
	return c.AMQPURL != ""
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
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
