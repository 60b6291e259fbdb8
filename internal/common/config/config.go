// internal/common/config/config.go
package config

import "fmt"

// Config is the main application configuration struct.
type Config struct {
	App           AppConfig          `mapstructure:"app"`
	HTTP          HTTPConfig         `mapstructure:"http"`
	Database      DatabaseConfig     `mapstructure:"database"`
	Admin         AdminConfig        `mapstructure:"admin"`
	Integrations  IntegrationConfig  `mapstructure:"integrations"`
	Notifications NotificationConfig `mapstructure:"notifications"`
	SelfDestruct  SelfDestructConfig `mapstructure:"self_destruct"`
	GitHub        GitHubConfig       `mapstructure:"github"`
	RateLimit     RateLimitConfig    `mapstructure:"rate_limit"`
	Logging       LoggingConfig      `mapstructure:"logging"`
}

// --- Core App/Infrastructure Config ---
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

type HTTPConfig struct {
	Address        string `mapstructure:"address"`
	RequestTimeout int    `mapstructure:"request_timeout"` // milliseconds
	MaxBodyBytes   int64  `mapstructure:"max_body_bytes"`
}

type DatabaseConfig struct {
	Postgres PostgresConfig `mapstructure:"postgres"`
	Redis    RedisConfig    `mapstructure:"redis"`
}

type PostgresConfig struct {
	Host           string `mapstructure:"host"`
	Port           int    `mapstructure:"port"`
	Database       string `mapstructure:"database"`
	User           string `mapstructure:"user"`
	Password       string `mapstructure:"password"`
	MaxConnections int    `mapstructure:"max_connections"`
	MaxIdle        int    `mapstructure:"max_idle"`
	SSLMode        string `mapstructure:"sslmode"`
}

// GetDSN returns the PostgreSQL connection string
func (p PostgresConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.Database, p.SSLMode,
	)
}

type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// AdminConfig holds settings gating the admin HTTP surface.
type AdminConfig struct {
	Token string `mapstructure:"token"`
}

// IntegrationConfig holds settings for AWS-backed transports.
type IntegrationConfig struct {
	AWS struct {
		Region string `mapstructure:"region"`
		SES    struct {
			Enabled   bool   `mapstructure:"enabled"`
			FromEmail string `mapstructure:"from_email"`
		} `mapstructure:"ses"`
		SNS struct {
			Enabled    bool   `mapstructure:"enabled"`
			AdminPhone string `mapstructure:"admin_phone"`
		} `mapstructure:"sns"`
	} `mapstructure:"aws"`
}

// NotificationConfig holds applicant/admin email settings.
type NotificationConfig struct {
	AdminEmail  string `mapstructure:"admin_email"`
	SendTimeout int    `mapstructure:"send_timeout"` // milliseconds, response wait cap
	DailyLimit  int    `mapstructure:"daily_limit"`
}

// SelfDestructConfig holds the two server-held secrets gating destruction.
// An empty password means the flow can never execute.
type SelfDestructConfig struct {
	Password    string `mapstructure:"password"`
	FinalAnswer string `mapstructure:"final_answer"`
}

// GitHubConfig holds the repository-destruction target. An empty token means
// the repository step is skipped and reported as skipped.
type GitHubConfig struct {
	Token   string `mapstructure:"token"`
	Owner   string `mapstructure:"owner"`
	Repo    string `mapstructure:"repo"`
	Branch  string `mapstructure:"branch"`
	BaseURL string `mapstructure:"base_url"`
}

// RateLimitConfig throttles the public endpoints.
type RateLimitConfig struct {
	Enabled           bool `mapstructure:"enabled"`
	RequestsPerMinute int  `mapstructure:"requests_per_minute"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}
