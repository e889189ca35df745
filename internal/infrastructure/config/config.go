package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	App      AppConfig
	Log      LogConfig
	Database DatabaseConfig
	JDE      JDEConfig
	SMTP     SMTPConfig
	HTTP     HTTPConfig
}

// AppConfig holds application-specific settings
type AppConfig struct {
	Name string
	Env  string
	Port string
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string // debug, info, warn, error
	Format string // json, console
	Output string // stdout, stderr, or file path
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	Host             string
	Port             int
	User             string
	Password         string
	DBName           string
	SSLMode          string
	MaxOpenConns     int
	MaxIdleConns     int
	ConnMaxLifetime  int // in minutes
	ConnectTimeout   time.Duration
	StatementTimeout time.Duration // server-side per-statement timeout
	LockTimeout      time.Duration // server-side lock wait timeout
	Offline          bool          // log-only mode, no live database
}

// JDEConfig holds settings for the outbound JDE (ERP) integration.
type JDEConfig struct {
	BaseURL         string
	PathAnagrafiche string
	PathFatture     string
	PathErrorLog    string
	Timeout         time.Duration // per HTTP attempt, not cumulative
	MaxRetries      int           // additional attempts after the first
	BackoffBase     time.Duration
	CredentialsJSON string // per-company or legacy credential blob
	Offline         bool   // short-circuit all outbound calls
}

// SMTPConfig holds notification mail settings
type SMTPConfig struct {
	Host       string
	Port       int
	From       string
	Recipients []string
	Timeout    time.Duration
	Offline    bool
}

// HTTPConfig holds HTTP server configuration
type HTTPConfig struct {
	ReadTimeout      time.Duration
	WriteTimeout     time.Duration
	IdleTimeout      time.Duration
	MaxHeaderBytes   int
	MaxBodySize      int64
	CORSAllowOrigins []string
	TrustedProxies   []string
}

// Load loads configuration from TOML file and environment variables
// Priority (highest to lowest):
// 1. Environment variables with SCAFI_ prefix (e.g., SCAFI_DATABASE_PASSWORD)
// 2. config.toml
// 3. Built-in defaults
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(".")
	v.AddConfigPath("/app")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found is OK, we'll use defaults and env vars
	}

	v.SetEnvPrefix("SCAFI")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Zero is a valid retry count, so the default lives in viper rather
	// than in applyDefaults which cannot tell "unset" from "0".
	v.SetDefault("jde.max_retries", 2)

	cfg := &Config{
		App: AppConfig{
			Name: v.GetString("app.name"),
			Env:  v.GetString("app.env"),
			Port: v.GetString("app.port"),
		},
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
			Output: v.GetString("log.output"),
		},
		Database: DatabaseConfig{
			Host:             v.GetString("database.host"),
			Port:             v.GetInt("database.port"),
			User:             v.GetString("database.user"),
			Password:         v.GetString("database.password"),
			DBName:           v.GetString("database.dbname"),
			SSLMode:          v.GetString("database.sslmode"),
			MaxOpenConns:     v.GetInt("database.max_open_conns"),
			MaxIdleConns:     v.GetInt("database.max_idle_conns"),
			ConnMaxLifetime:  v.GetInt("database.conn_max_lifetime"),
			ConnectTimeout:   v.GetDuration("database.connect_timeout"),
			StatementTimeout: v.GetDuration("database.statement_timeout"),
			LockTimeout:      v.GetDuration("database.lock_timeout"),
			Offline:          v.GetBool("database.offline"),
		},
		JDE: JDEConfig{
			BaseURL:         v.GetString("jde.base_url"),
			PathAnagrafiche: v.GetString("jde.path_anagrafiche"),
			PathFatture:     v.GetString("jde.path_fatture"),
			PathErrorLog:    v.GetString("jde.path_error_log"),
			Timeout:         v.GetDuration("jde.timeout"),
			MaxRetries:      v.GetInt("jde.max_retries"),
			BackoffBase:     v.GetDuration("jde.backoff_base"),
			CredentialsJSON: v.GetString("jde.credentials_json"),
			Offline:         v.GetBool("jde.offline"),
		},
		SMTP: SMTPConfig{
			Host:       v.GetString("smtp.host"),
			Port:       v.GetInt("smtp.port"),
			From:       v.GetString("smtp.from"),
			Recipients: v.GetStringSlice("smtp.recipients"),
			Timeout:    v.GetDuration("smtp.timeout"),
			Offline:    v.GetBool("smtp.offline"),
		},
		HTTP: HTTPConfig{
			ReadTimeout:      v.GetDuration("http.read_timeout"),
			WriteTimeout:     v.GetDuration("http.write_timeout"),
			IdleTimeout:      v.GetDuration("http.idle_timeout"),
			MaxHeaderBytes:   v.GetInt("http.max_header_bytes"),
			MaxBodySize:      v.GetInt64("http.max_body_size"),
			CORSAllowOrigins: v.GetStringSlice("http.cors_allow_origins"),
			TrustedProxies:   v.GetStringSlice("http.trusted_proxies"),
		},
	}

	applyDefaults(cfg)

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// applyDefaults sets default values for any empty config fields
func applyDefaults(cfg *Config) {
	if cfg.App.Name == "" {
		cfg.App.Name = "scafi-integration-backend"
	}
	if cfg.App.Env == "" {
		cfg.App.Env = "development"
	}
	if cfg.App.Port == "" {
		cfg.App.Port = "8080"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "console"
	}
	if cfg.Log.Output == "" {
		cfg.Log.Output = "stdout"
	}
	if cfg.Database.Host == "" {
		cfg.Database.Host = "127.0.0.1"
	}
	if cfg.Database.Port == 0 {
		cfg.Database.Port = 5432
	}
	if cfg.Database.User == "" {
		cfg.Database.User = "scafiadm"
	}
	if cfg.Database.DBName == "" {
		cfg.Database.DBName = "scafisoc"
	}
	if cfg.Database.SSLMode == "" {
		cfg.Database.SSLMode = "disable"
	}
	if cfg.Database.MaxOpenConns == 0 {
		cfg.Database.MaxOpenConns = 10
	}
	if cfg.Database.MaxIdleConns == 0 {
		cfg.Database.MaxIdleConns = 1
	}
	if cfg.Database.ConnMaxLifetime == 0 {
		cfg.Database.ConnMaxLifetime = 60
	}
	if cfg.Database.ConnectTimeout == 0 {
		cfg.Database.ConnectTimeout = 5 * time.Second
	}
	if cfg.Database.StatementTimeout == 0 {
		cfg.Database.StatementTimeout = 8 * time.Second
	}
	if cfg.Database.LockTimeout == 0 {
		cfg.Database.LockTimeout = 3 * time.Second
	}
	if cfg.JDE.BaseURL == "" {
		cfg.JDE.BaseURL = "http://192.168.11.103:8000"
	}
	if cfg.JDE.PathAnagrafiche == "" {
		cfg.JDE.PathAnagrafiche = "/api/anagrafiche"
	}
	if cfg.JDE.PathFatture == "" {
		cfg.JDE.PathFatture = "/api/fatture"
	}
	if cfg.JDE.PathErrorLog == "" {
		cfg.JDE.PathErrorLog = "/jderest/orchestrator/ALFA_ORC_RetriveErrorLog"
	}
	if cfg.JDE.Timeout == 0 {
		cfg.JDE.Timeout = 15 * time.Second
	}
	if cfg.JDE.BackoffBase == 0 {
		cfg.JDE.BackoffBase = 300 * time.Millisecond
	}
	if cfg.SMTP.Host == "" {
		cfg.SMTP.Host = "127.0.0.1"
	}
	if cfg.SMTP.Port == 0 {
		cfg.SMTP.Port = 25
	}
	if cfg.SMTP.From == "" {
		cfg.SMTP.From = "noreply@scafi.it"
	}
	if len(cfg.SMTP.Recipients) == 0 {
		cfg.SMTP.Recipients = []string{"it@scafi.it"}
	}
	if cfg.SMTP.Timeout == 0 {
		cfg.SMTP.Timeout = 5 * time.Second
	}
	if cfg.HTTP.ReadTimeout == 0 {
		cfg.HTTP.ReadTimeout = 15 * time.Second
	}
	if cfg.HTTP.WriteTimeout == 0 {
		cfg.HTTP.WriteTimeout = 15 * time.Second
	}
	if cfg.HTTP.IdleTimeout == 0 {
		cfg.HTTP.IdleTimeout = 60 * time.Second
	}
	if cfg.HTTP.MaxHeaderBytes == 0 {
		cfg.HTTP.MaxHeaderBytes = 1 << 20 // 1MB
	}
	if cfg.HTTP.MaxBodySize == 0 {
		cfg.HTTP.MaxBodySize = 10 << 20 // 10MB
	}
}

// validate performs validation on the configuration
func (c *Config) validate() error {
	if c.Database.MaxOpenConns <= 0 {
		return fmt.Errorf("database.max_open_conns must be positive")
	}
	if c.Database.MaxIdleConns < 0 {
		return fmt.Errorf("database.max_idle_conns cannot be negative")
	}
	if c.Database.MaxIdleConns > c.Database.MaxOpenConns {
		return fmt.Errorf("database.max_idle_conns (%d) cannot exceed database.max_open_conns (%d)",
			c.Database.MaxIdleConns, c.Database.MaxOpenConns)
	}
	if c.JDE.MaxRetries < 0 {
		return fmt.Errorf("jde.max_retries cannot be negative")
	}

	u, err := url.Parse(c.JDE.BaseURL)
	if err != nil || u.Scheme == "" || u.Hostname() == "" {
		return fmt.Errorf("jde.base_url is not a valid URL: %q", c.JDE.BaseURL)
	}

	if c.App.Env == "production" {
		if c.Database.Password == "" && !c.Database.Offline {
			return fmt.Errorf("database.password is required in production")
		}
		if c.Database.SSLMode == "disable" && !c.Database.Offline {
			return fmt.Errorf("database.sslmode cannot be 'disable' in production")
		}
	}

	return nil
}

// DSN returns the database connection string with properly escaped values.
// Server-side statement and lock timeouts are pushed down at connect time so
// every pooled connection carries them.
func (d *DatabaseConfig) DSN() string {
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(d.User, d.Password),
		Host:   fmt.Sprintf("%s:%d", d.Host, d.Port),
		Path:   d.DBName,
	}
	q := u.Query()
	q.Set("sslmode", d.SSLMode)
	q.Set("connect_timeout", fmt.Sprintf("%d", int(d.ConnectTimeout.Seconds())))
	q.Set("options", fmt.Sprintf("-c statement_timeout=%d -c lock_timeout=%d",
		d.StatementTimeout.Milliseconds(), d.LockTimeout.Milliseconds()))
	u.RawQuery = q.Encode()
	return u.String()
}
