// Package config provides configuration management for the Sportcast service.
package config

import (
	"fmt"
	"time"
)

// Config represents the complete application configuration
type Config struct {
	App        AppConfig        `mapstructure:"app" validate:"required"`
	Database   DatabaseConfig   `mapstructure:"database" validate:"required"`
	OddsFeed   OddsFeedConfig   `mapstructure:"odds_feed" validate:"required"`
	Prediction PredictionConfig `mapstructure:"prediction" validate:"required"`
	Ensemble   EnsembleConfig   `mapstructure:"ensemble" validate:"required"`
	Scheduler  SchedulerConfig  `mapstructure:"scheduler" validate:"required"`
	Metrics    MetricsConfig    `mapstructure:"metrics" validate:"required"`
	Secrets    SecretsConfig    `mapstructure:"secrets"`
}

// AppConfig represents application-level configuration
type AppConfig struct {
	Name        string `mapstructure:"name" validate:"required"`
	Environment string `mapstructure:"environment" validate:"required,environment"`
	LogLevel    string `mapstructure:"log_level" validate:"required,loglevel"`
	APIPort     int    `mapstructure:"api_port" validate:"required,min=1,max=65535"`
	HealthPort  int    `mapstructure:"health_port" validate:"required,min=1,max=65535"`
}

// DatabaseConfig represents database connection configuration
type DatabaseConfig struct {
	Host               string `mapstructure:"host" validate:"required"`
	Port               int    `mapstructure:"port" validate:"required,min=1,max=65535"`
	Name               string `mapstructure:"name" validate:"required"`
	User               string `mapstructure:"user" validate:"required"`
	Password           string `mapstructure:"password" validate:"required"`
	SSLMode            string `mapstructure:"ssl_mode" validate:"required,oneof=disable require verify-full"`
	MaxConnections     int    `mapstructure:"max_connections" validate:"required,gt=0"`
	MaxIdleConnections int    `mapstructure:"max_idle_connections" validate:"required,gt=0"`
}

// OddsFeedConfig represents the bookmaker odds feed configuration
type OddsFeedConfig struct {
	APIURL                string   `mapstructure:"api_url" validate:"required,url"`
	APIKey                string   `mapstructure:"api_key" validate:"required"`
	StreamURL             string   `mapstructure:"stream_url"`
	Regions               []string `mapstructure:"regions" validate:"required,min=1"`
	Markets               []string `mapstructure:"markets" validate:"required,min=1,markets"`
	RequestTimeoutSeconds int      `mapstructure:"request_timeout_seconds" validate:"required,gt=0"`
	RetryAttempts         int      `mapstructure:"retry_attempts" validate:"gte=0"`
	RateLimitPerSecond    float64  `mapstructure:"rate_limit_per_second" validate:"required,gt=0"`
	CacheTTLSeconds       int      `mapstructure:"cache_ttl_seconds" validate:"required,gt=0"`
}

// PredictionConfig represents prediction pipeline configuration
type PredictionConfig struct {
	Sport               string  `mapstructure:"sport" validate:"required"`
	DrawPossible        bool    `mapstructure:"draw_possible"`
	ValueThreshold      float64 `mapstructure:"value_threshold" validate:"required,gt=0,lte=1"`
	CacheTTLMinutes     int     `mapstructure:"cache_ttl_minutes" validate:"required,gt=0"`
	Bankroll            float64 `mapstructure:"bankroll" validate:"gte=0"`
	ConfidenceThreshold float64 `mapstructure:"confidence_threshold" validate:"gte=0,lte=1"`
}

// RemoteModelConfig represents one remote base model endpoint
type RemoteModelConfig struct {
	Name           string  `mapstructure:"name" validate:"required"`
	URL            string  `mapstructure:"url" validate:"required,url"`
	Weight         float64 `mapstructure:"weight" validate:"gte=0"`
	TimeoutSeconds int     `mapstructure:"timeout_seconds" validate:"required,gt=0"`
}

// EnsembleConfig represents ensemble composition configuration
type EnsembleConfig struct {
	Classes      int                 `mapstructure:"classes" validate:"required,min=2,max=3"`
	Weights      map[string]float64  `mapstructure:"weights"`
	RemoteModels []RemoteModelConfig `mapstructure:"remote_models" validate:"dive"`
}

// SchedulerConfig represents background job scheduling
type SchedulerConfig struct {
	RetrainCron     string `mapstructure:"retrain_cron" validate:"required"`
	OddsRefreshCron string `mapstructure:"odds_refresh_cron" validate:"required"`
}

// MetricsConfig represents metrics and monitoring configuration
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Port    int    `mapstructure:"port" validate:"required,min=1,max=65535"`
	Path    string `mapstructure:"path" validate:"required"`
}

// SecretsConfig represents the AWS Secrets Manager integration
type SecretsConfig struct {
	Enabled    bool   `mapstructure:"enabled"`
	Region     string `mapstructure:"region"`
	SecretName string `mapstructure:"secret_name"`
}

// IsDevelopment checks if the application is running in development mode
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}

// IsStaging checks if the application is running in staging mode
func (c *Config) IsStaging() bool {
	return c.App.Environment == "staging"
}

// IsProduction checks if the application is running in production mode
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// GetDatabaseDSN returns a PostgreSQL DSN string
func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

// DecisionCacheTTL returns the decision cache lifetime
func (c *Config) DecisionCacheTTL() time.Duration {
	return time.Duration(c.Prediction.CacheTTLMinutes) * time.Minute
}

// OddsRequestTimeout returns the odds feed HTTP timeout
func (c *Config) OddsRequestTimeout() time.Duration {
	return time.Duration(c.OddsFeed.RequestTimeoutSeconds) * time.Second
}

// OddsCacheTTL returns the odds snapshot cache lifetime
func (c *Config) OddsCacheTTL() time.Duration {
	return time.Duration(c.OddsFeed.CacheTTLSeconds) * time.Second
}
