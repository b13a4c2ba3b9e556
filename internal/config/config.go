package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/flexcargo/flexcargo/internal/types"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Configuration struct {
	Deployment DeploymentConfig `mapstructure:"deployment" validate:"required"`
	Server     ServerConfig     `mapstructure:"server" validate:"required"`
	Logging    LoggingConfig    `mapstructure:"logging" validate:"required"`
	Postgres   PostgresConfig   `mapstructure:"postgres" validate:"required"`
	Auth       AuthConfig       `mapstructure:"auth"`
	Sentry     SentryConfig     `mapstructure:"sentry"`
	Cache      CacheConfig      `mapstructure:"cache"`
	Tenancy    TenancyConfig    `mapstructure:"tenancy"`
	Sequence   SequenceConfig   `mapstructure:"sequence" validate:"required"`
}

type DeploymentConfig struct {
	Mode types.RunMode `mapstructure:"mode" validate:"required"`
}

type ServerConfig struct {
	Address string `mapstructure:"address" validate:"required"`
}

type LoggingConfig struct {
	Level types.LogLevel `mapstructure:"level" validate:"required"`
}

type PostgresConfig struct {
	Host                   string `mapstructure:"host"`
	Port                   int    `mapstructure:"port"`
	User                   string `mapstructure:"user"`
	Password               string `mapstructure:"password"`
	DBName                 string `mapstructure:"dbname"`
	SSLMode                string `mapstructure:"sslmode"`
	MaxOpenConns           int    `mapstructure:"max_open_conns"`
	MaxIdleConns           int    `mapstructure:"max_idle_conns"`
	ConnMaxLifetimeMinutes int    `mapstructure:"conn_max_lifetime_minutes"`
	// ConnectTimeoutSeconds bounds the retries made while the database comes up
	ConnectTimeoutSeconds int `mapstructure:"connect_timeout_seconds"`
}

type AuthConfig struct {
	Secret string `mapstructure:"secret"`
}

type SentryConfig struct {
	Enabled     bool    `mapstructure:"enabled"`
	DSN         string  `mapstructure:"dsn"`
	Environment string  `mapstructure:"environment"`
	SampleRate  float64 `mapstructure:"sample_rate"`
}

type CacheConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

// TenancyConfig controls how an incoming request is mapped to a tenant
type TenancyConfig struct {
	Sources    []types.TenantSource `mapstructure:"sources"`
	Header     string               `mapstructure:"header"`
	QueryParam string               `mapstructure:"query_param"`
	// BaseDomain is stripped from the request host to find the tenant subdomain
	BaseDomain string        `mapstructure:"base_domain"`
	CacheTTL   time.Duration `mapstructure:"cache_ttl"`
}

type SequenceConfig struct {
	AllocationMode          types.AllocationMode          `mapstructure:"allocation_mode" validate:"required"`
	Timezone                string                        `mapstructure:"timezone"`
	FinancialYearStartMonth int                           `mapstructure:"financial_year_start_month" validate:"min=0,max=12"`
	Rules                   map[string]SequenceRuleConfig `mapstructure:"rules"`
}

// SequenceRuleConfig overrides the built in format rule of one sequence type.
// Unset fields keep the built in value.
type SequenceRuleConfig struct {
	Prefix          *string           `mapstructure:"prefix"`
	Suffix          *string           `mapstructure:"suffix"`
	ResetPeriod     types.ResetPeriod `mapstructure:"reset_period"`
	Separator       *string           `mapstructure:"separator"`
	NumberSeparator *string           `mapstructure:"number_separator"`
	IncludeBranch   *bool             `mapstructure:"include_branch"`
	IncludePeriod   *bool             `mapstructure:"include_period"`
	ShortPeriod     *bool             `mapstructure:"short_period"`
	PadWidth        int               `mapstructure:"pad_width" validate:"min=0,max=12"`
}

func NewConfig() (*Configuration, error) {
	// a local .env is optional, real deployments inject the environment directly
	_ = godotenv.Load()

	v := viper.New()

	// Modify config paths to ensure config.yaml is found
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./internal/config")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/flexcargo")

	// Set up environment variables support
	v.SetEnvPrefix("FLEXCARGO")
	v.SetEnvKeyReplacer(strings.NewReplacer(
		".", "_",
		"-", "_",
	))
	v.AutomaticEnv()

	setDefaults(v)

	// Read config file if exists
	if err := v.ReadInConfig(); err != nil {
		fmt.Printf("Error reading config file: %v\n", err)
		if !errors.As(err, &viper.ConfigFileNotFoundError{}) {
			return nil, err
		}
	} else {
		fmt.Printf("Using config file: %s\n", v.ConfigFileUsed())
	}

	var config Configuration
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	// Validate configuration
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("deployment.mode", types.ModeLocal)
	v.SetDefault("server.address", ":8080")
	v.SetDefault("logging.level", types.LogLevelInfo)
	v.SetDefault("postgres.port", 5432)
	v.SetDefault("postgres.sslmode", "disable")
	v.SetDefault("postgres.max_open_conns", 20)
	v.SetDefault("postgres.max_idle_conns", 5)
	v.SetDefault("postgres.conn_max_lifetime_minutes", 30)
	v.SetDefault("postgres.connect_timeout_seconds", 30)
	v.SetDefault("cache.enabled", true)
	v.SetDefault("tenancy.header", types.HeaderTenantID)
	v.SetDefault("tenancy.query_param", "tenant_id")
	v.SetDefault("tenancy.cache_ttl", 5*time.Minute)
	v.SetDefault("sequence.allocation_mode", types.AllocationModeGapTolerant)
	v.SetDefault("sequence.timezone", "UTC")
	v.SetDefault("sequence.financial_year_start_month", 4)
}

func (c Configuration) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return err
	}
	if err := c.Sequence.AllocationMode.Validate(); err != nil {
		return err
	}
	if _, err := c.Sequence.Location(); err != nil {
		return fmt.Errorf("invalid sequence timezone %q: %w", c.Sequence.Timezone, err)
	}
	return nil
}

// GetDefaultConfig returns a default configuration for local development
// This is useful for running scripts or other non-web applications
func GetDefaultConfig() *Configuration {
	return &Configuration{
		Deployment: DeploymentConfig{Mode: types.ModeLocal},
		Server:     ServerConfig{Address: ":8080"},
		Logging:    LoggingConfig{Level: types.LogLevelDebug},
		Cache:      CacheConfig{Enabled: true},
		Tenancy: TenancyConfig{
			Sources:    types.DefaultTenantSources,
			Header:     types.HeaderTenantID,
			QueryParam: "tenant_id",
			CacheTTL:   5 * time.Minute,
		},
		Sequence: SequenceConfig{
			AllocationMode:          types.AllocationModeGapTolerant,
			Timezone:                "UTC",
			FinancialYearStartMonth: 4,
		},
	}
}

func (c PostgresConfig) GetDSN() string {
	return fmt.Sprintf(
		"user=%s password=%s dbname=%s host=%s port=%d sslmode=%s",
		c.User,
		c.Password,
		c.DBName,
		c.Host,
		c.Port,
		c.SSLMode,
	)
}

// Location returns the time zone period boundaries are computed in
func (c SequenceConfig) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.UTC, nil
	}
	return time.LoadLocation(c.Timezone)
}

// GetSources returns the configured tenant resolution order or the default one
func (c TenancyConfig) GetSources() []types.TenantSource {
	if len(c.Sources) == 0 {
		return types.DefaultTenantSources
	}
	return c.Sources
}
