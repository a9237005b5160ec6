// Package config loads the receptionist's configuration from environment
// variables. Parse failures are aggregated so one run reports every bad
// value instead of the first one.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Config holds everything the receptionist process needs. All values come
// from env; no business logic reads raw environment variables.
type Config struct {
	App      AppConfig
	Hours    HoursConfig
	Redis    RedisConfig
	DB       DBConfig
	Model    ModelConfig
	Slack    SlackConfig
	Rules    RulesConfig
	Endpoint EndpointConfig
}

type AppConfig struct {
	Env       string
	LogLevel  string // debug, info, warn, error
	LogFormat string // json or text
}

// HoursConfig is the business-hours window used by routing and scheduling.
// Hours are local 24h clock values; Close is exclusive.
type HoursConfig struct {
	Open  int
	Close int
}

// RedisConfig is optional; empty Host keeps caller history in memory.
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// DBConfig is optional; empty Host keeps appointments in memory.
type DBConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
}

// ModelConfig selects the inference backend. Empty Provider disables model
// composition and agents fall back to rule-based replies.
type ModelConfig struct {
	Provider  string // openai or anthropic
	Model     string
	APIKey    string
	MaxTokens int
}

// SlackConfig is optional; empty Token disables Slack notifications.
type SlackConfig struct {
	Token   string
	Channel string
}

// RulesConfig points at optional YAML rule files. Empty paths use the
// built-in defaults.
type RulesConfig struct {
	RoutingFile   string
	KnowledgeFile string
}

// EndpointConfig holds the external integration URLs. Empty values disable
// the corresponding integration.
type EndpointConfig struct {
	CRM      string
	Calendar string
	Email    string
	SMS      string
}

// Load reads and validates the configuration from the environment.
func Load() (Config, error) {
	c := Config{}
	var parseErrs []error

	c.App.Env = strings.TrimSpace(os.Getenv("APP_ENV"))
	c.App.LogLevel = strings.TrimSpace(os.Getenv("LOG_LEVEL"))
	c.App.LogFormat = strings.TrimSpace(os.Getenv("LOG_FORMAT"))

	c.Hours.Open = optionalInt("BUSINESS_OPEN_HOUR", 9, &parseErrs)
	c.Hours.Close = optionalInt("BUSINESS_CLOSE_HOUR", 17, &parseErrs)

	c.Redis.Host = strings.TrimSpace(os.Getenv("REDIS_HOST"))
	c.Redis.Port = optionalInt("REDIS_PORT", 6379, &parseErrs)
	c.Redis.Password = os.Getenv("REDIS_PASSWORD")
	c.Redis.DB = optionalInt("REDIS_DB", 0, &parseErrs)

	c.DB.Host = strings.TrimSpace(os.Getenv("DB_HOST"))
	c.DB.Port = optionalInt("DB_PORT", 5432, &parseErrs)
	c.DB.User = strings.TrimSpace(os.Getenv("DB_USER"))
	c.DB.Password = os.Getenv("DB_PASSWORD")
	c.DB.Name = strings.TrimSpace(os.Getenv("DB_NAME"))
	c.DB.SSLMode = strings.TrimSpace(os.Getenv("DB_SSLMODE"))

	c.Model.Provider = strings.TrimSpace(os.Getenv("MODEL_PROVIDER"))
	c.Model.Model = strings.TrimSpace(os.Getenv("MODEL_NAME"))
	c.Model.APIKey = os.Getenv("MODEL_API_KEY")
	c.Model.MaxTokens = optionalInt("MODEL_MAX_TOKENS", 256, &parseErrs)

	c.Slack.Token = os.Getenv("SLACK_TOKEN")
	c.Slack.Channel = strings.TrimSpace(os.Getenv("SLACK_CHANNEL"))

	c.Rules.RoutingFile = strings.TrimSpace(os.Getenv("ROUTING_RULES_FILE"))
	c.Rules.KnowledgeFile = strings.TrimSpace(os.Getenv("KNOWLEDGE_FILE"))

	c.Endpoint.CRM = strings.TrimSpace(os.Getenv("CRM_ENDPOINT"))
	c.Endpoint.Calendar = strings.TrimSpace(os.Getenv("CALENDAR_ENDPOINT"))
	c.Endpoint.Email = strings.TrimSpace(os.Getenv("EMAIL_ENDPOINT"))
	c.Endpoint.SMS = strings.TrimSpace(os.Getenv("SMS_ENDPOINT"))

	if err := joinErrors(parseErrs); err != nil {
		return Config{}, err
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// Validate checks cross-field constraints and fills local-friendly defaults.
func (c *Config) Validate() error {
	var errs []error

	if c.App.Env == "" {
		c.App.Env = "local"
	} else if !isValidEnv(c.App.Env) {
		errs = append(errs, fmt.Errorf("APP_ENV must be one of local, dev, staging, production, got %q", c.App.Env))
	}
	if c.App.LogLevel != "" && !isValidLogLevel(c.App.LogLevel) {
		errs = append(errs, fmt.Errorf("LOG_LEVEL must be one of debug, info, warn, error, got %q", c.App.LogLevel))
	}
	if c.App.LogFormat != "" && c.App.LogFormat != "json" && c.App.LogFormat != "text" {
		errs = append(errs, fmt.Errorf("LOG_FORMAT must be json or text, got %q", c.App.LogFormat))
	}

	if c.Hours.Open < 0 || c.Hours.Open > 23 {
		errs = append(errs, fmt.Errorf("BUSINESS_OPEN_HOUR must be 0-23, got %d", c.Hours.Open))
	}
	if c.Hours.Close < 0 || c.Hours.Close > 24 {
		errs = append(errs, fmt.Errorf("BUSINESS_CLOSE_HOUR must be 0-24, got %d", c.Hours.Close))
	}
	if c.Hours.Open >= c.Hours.Close {
		errs = append(errs, fmt.Errorf("BUSINESS_OPEN_HOUR (%d) must be before BUSINESS_CLOSE_HOUR (%d)", c.Hours.Open, c.Hours.Close))
	}

	if c.Redis.Port <= 0 || c.Redis.Port > 65535 {
		errs = append(errs, fmt.Errorf("REDIS_PORT must be a valid port, got %d", c.Redis.Port))
	}
	if c.DB.Port <= 0 || c.DB.Port > 65535 {
		errs = append(errs, fmt.Errorf("DB_PORT must be a valid port, got %d", c.DB.Port))
	}
	if c.DB.Host != "" {
		if c.DB.User == "" {
			errs = append(errs, errors.New("DB_USER is required when DB_HOST is set"))
		}
		if c.DB.Name == "" {
			errs = append(errs, errors.New("DB_NAME is required when DB_HOST is set"))
		}
		if c.DB.SSLMode == "" {
			if c.IsProduction() {
				errs = append(errs, errors.New("DB_SSLMODE is required in production"))
			} else {
				c.DB.SSLMode = "disable"
			}
		}
	}

	switch c.Model.Provider {
	case "", "openai", "anthropic":
	default:
		errs = append(errs, fmt.Errorf("MODEL_PROVIDER must be openai or anthropic, got %q", c.Model.Provider))
	}
	if c.Model.Provider != "" && c.Model.APIKey == "" {
		errs = append(errs, fmt.Errorf("MODEL_API_KEY is required when MODEL_PROVIDER is %q", c.Model.Provider))
	}

	if c.Slack.Token != "" && c.Slack.Channel == "" {
		errs = append(errs, errors.New("SLACK_CHANNEL is required when SLACK_TOKEN is set"))
	}

	return joinErrors(errs)
}

// IsProduction reports whether the process runs in production.
func (c *Config) IsProduction() bool { return c.App.Env == "production" }

// UseRedis reports whether caller history should live in Redis.
func (c *Config) UseRedis() bool { return c.Redis.Host != "" }

// UsePostgres reports whether appointments should live in Postgres.
func (c *Config) UsePostgres() bool { return c.DB.Host != "" }

// RedisAddr returns the host:port address for the Redis client.
func (c *Config) RedisAddr() string {
	return fmt.Sprintf("%s:%d", c.Redis.Host, c.Redis.Port)
}

// PostgresDSN builds the connection string. It contains secrets; never log
// the returned value.
func (c *Config) PostgresDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.DB.Host, c.DB.Port, c.DB.User, c.DB.Password, c.DB.Name, c.DB.SSLMode,
	)
}

func optionalInt(key string, def int, parseErrs *[]error) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		*parseErrs = append(*parseErrs, fmt.Errorf("%s must be an integer, got %q", key, v))
		return def
	}
	return n
}

func isValidEnv(v string) bool {
	switch v {
	case "local", "dev", "staging", "production":
		return true
	default:
		return false
	}
}

func isValidLogLevel(v string) bool {
	switch v {
	case "debug", "info", "warn", "error":
		return true
	default:
		return false
	}
}

func joinErrors(errs []error) error {
	if len(errs) == 0 {
		return nil
	}
	if len(errs) == 1 {
		return errs[0]
	}
	var b strings.Builder
	b.WriteString("config errors:\n")
	for _, e := range errs {
		b.WriteString("- ")
		b.WriteString(e.Error())
		b.WriteString("\n")
	}
	return errors.New(strings.TrimSpace(b.String()))
}
