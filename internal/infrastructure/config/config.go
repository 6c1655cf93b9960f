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
	App         AppConfig
	Database    DatabaseConfig
	Redis       RedisConfig
	JWT         JWTConfig
	Cookie      CookieConfig
	Log         LogConfig
	HTTP        HTTPConfig
	Collections CollectionsConfig
	Telemetry   TelemetryConfig
}

// AppConfig holds application-specific settings
type AppConfig struct {
	Name string
	Env  string
	Port string
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	Host            string
	Port            int
	User            string
	Password        string
	DBName          string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime int // in minutes
	ConnMaxIdleTime int // in minutes
}

// DSN returns the database connection string with properly escaped values
func (d *DatabaseConfig) DSN() string {
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(d.User, d.Password),
		Host:   fmt.Sprintf("%s:%d", d.Host, d.Port),
		Path:   d.DBName,
	}
	q := u.Query()
	q.Set("sslmode", d.SSLMode)
	u.RawQuery = q.Encode()
	return u.String()
}

// RedisConfig holds Redis connection settings
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// JWTConfig holds JWT settings
type JWTConfig struct {
	Secret                 string
	AccessTokenExpiration  time.Duration
	RefreshTokenExpiration time.Duration
	Issuer                 string
	RefreshSecret          string
	MaxRefreshCount        int
}

// CookieConfig holds cookie settings for refresh token
type CookieConfig struct {
	Domain   string // empty means current domain
	Path     string
	Secure   bool   // must be true in production
	SameSite string // "strict", "lax", or "none"
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string // debug, info, warn, error
	Format string // json, console
	Output string // stdout, stderr, or file path
}

// HTTPConfig holds HTTP server configuration
type HTTPConfig struct {
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	IdleTimeout    time.Duration
	MaxHeaderBytes int
	MaxBodySize    int64

	RateLimitEnabled  bool
	RateLimitRequests int
	RateLimitWindow   time.Duration

	// Stricter budget applied to authentication endpoints only
	AuthRateLimitEnabled  bool
	AuthRateLimitRequests int
	AuthRateLimitWindow   time.Duration

	CORSAllowOrigins []string
	CORSAllowMethods []string
	CORSAllowHeaders []string
	TrustedProxies   []string
}

// CollectionsConfig holds the scheduled chargeback sweep settings
type CollectionsConfig struct {
	SweepEnabled      bool
	SweepCronSchedule string
	StaleAfter        time.Duration // age after which unpaid leases are charged back
}

// TelemetryConfig holds OpenTelemetry configuration
type TelemetryConfig struct {
	Enabled           bool
	CollectorEndpoint string  // OTLP gRPC endpoint, e.g. "localhost:4317"
	SamplingRatio     float64 // 0.0-1.0
	ServiceName       string
	Insecure          bool // non-TLS collector connection, development only

	DBTraceEnabled    bool          // otelgorm query tracing
	DBLogFullSQL      bool          // full SQL in span attributes, never in production
	DBSlowQueryThresh time.Duration // slow query warning threshold
}

// Load reads configuration from config.toml and the environment.
// Priority (highest to lowest):
// 1. Environment variables with LEASELEDGER_ prefix (e.g. LEASELEDGER_DATABASE_PASSWORD)
// 2. config.toml
// 3. Built-in defaults
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(".")
	v.AddConfigPath("./backend")
	v.AddConfigPath("/app")

	if err := v.ReadInConfig(); err != nil {
		// A missing config file is fine, defaults and env vars still apply
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	v.SetEnvPrefix("LEASELEDGER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := &Config{
		App:         loadApp(v),
		Database:    loadDatabase(v),
		Redis:       loadRedis(v),
		JWT:         loadJWT(v),
		Cookie:      loadCookie(v),
		Log:         loadLog(v),
		HTTP:        loadHTTP(v),
		Collections: loadCollections(v),
		Telemetry:   loadTelemetry(v),
	}

	cfg.applyDefaults()

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func loadApp(v *viper.Viper) AppConfig {
	return AppConfig{
		Name: v.GetString("app.name"),
		Env:  v.GetString("app.env"),
		Port: v.GetString("app.port"),
	}
}

func loadDatabase(v *viper.Viper) DatabaseConfig {
	return DatabaseConfig{
		Host:            v.GetString("database.host"),
		Port:            v.GetInt("database.port"),
		User:            v.GetString("database.user"),
		Password:        v.GetString("database.password"),
		DBName:          v.GetString("database.dbname"),
		SSLMode:         v.GetString("database.sslmode"),
		MaxOpenConns:    v.GetInt("database.max_open_conns"),
		MaxIdleConns:    v.GetInt("database.max_idle_conns"),
		ConnMaxLifetime: v.GetInt("database.conn_max_lifetime"),
		ConnMaxIdleTime: v.GetInt("database.conn_max_idle_time"),
	}
}

func loadRedis(v *viper.Viper) RedisConfig {
	return RedisConfig{
		Host:     v.GetString("redis.host"),
		Port:     v.GetInt("redis.port"),
		Password: v.GetString("redis.password"),
		DB:       v.GetInt("redis.db"),
	}
}

func loadJWT(v *viper.Viper) JWTConfig {
	return JWTConfig{
		Secret:                 v.GetString("jwt.secret"),
		AccessTokenExpiration:  v.GetDuration("jwt.access_token_expiration"),
		RefreshTokenExpiration: v.GetDuration("jwt.refresh_token_expiration"),
		Issuer:                 v.GetString("jwt.issuer"),
		RefreshSecret:          v.GetString("jwt.refresh_secret"),
		MaxRefreshCount:        v.GetInt("jwt.max_refresh_count"),
	}
}

func loadCookie(v *viper.Viper) CookieConfig {
	return CookieConfig{
		Domain:   v.GetString("cookie.domain"),
		Path:     v.GetString("cookie.path"),
		Secure:   v.GetBool("cookie.secure"),
		SameSite: v.GetString("cookie.same_site"),
	}
}

func loadLog(v *viper.Viper) LogConfig {
	return LogConfig{
		Level:  v.GetString("log.level"),
		Format: v.GetString("log.format"),
		Output: v.GetString("log.output"),
	}
}

func loadHTTP(v *viper.Viper) HTTPConfig {
	return HTTPConfig{
		ReadTimeout:           v.GetDuration("http.read_timeout"),
		WriteTimeout:          v.GetDuration("http.write_timeout"),
		IdleTimeout:           v.GetDuration("http.idle_timeout"),
		MaxHeaderBytes:        v.GetInt("http.max_header_bytes"),
		MaxBodySize:           v.GetInt64("http.max_body_size"),
		RateLimitEnabled:      v.GetBool("http.rate_limit_enabled"),
		RateLimitRequests:     v.GetInt("http.rate_limit_requests"),
		RateLimitWindow:       v.GetDuration("http.rate_limit_window"),
		AuthRateLimitEnabled:  v.GetBool("http.auth_rate_limit_enabled"),
		AuthRateLimitRequests: v.GetInt("http.auth_rate_limit_requests"),
		AuthRateLimitWindow:   v.GetDuration("http.auth_rate_limit_window"),
		CORSAllowOrigins:      v.GetStringSlice("http.cors_allow_origins"),
		CORSAllowMethods:      v.GetStringSlice("http.cors_allow_methods"),
		CORSAllowHeaders:      v.GetStringSlice("http.cors_allow_headers"),
		TrustedProxies:        v.GetStringSlice("http.trusted_proxies"),
	}
}

func loadCollections(v *viper.Viper) CollectionsConfig {
	return CollectionsConfig{
		SweepEnabled:      v.GetBool("collections.sweep_enabled"),
		SweepCronSchedule: v.GetString("collections.sweep_cron_schedule"),
		StaleAfter:        v.GetDuration("collections.stale_after"),
	}
}

func loadTelemetry(v *viper.Viper) TelemetryConfig {
	return TelemetryConfig{
		Enabled:           v.GetBool("telemetry.enabled"),
		CollectorEndpoint: v.GetString("telemetry.collector_endpoint"),
		SamplingRatio:     v.GetFloat64("telemetry.sampling_ratio"),
		ServiceName:       v.GetString("telemetry.service_name"),
		Insecure:          v.GetBool("telemetry.insecure"),
		DBTraceEnabled:    v.GetBool("telemetry.db_trace_enabled"),
		DBLogFullSQL:      v.GetBool("telemetry.db_log_full_sql"),
		DBSlowQueryThresh: v.GetDuration("telemetry.db_slow_query_threshold"),
	}
}

func fallbackString(target *string, def string) {
	if *target == "" {
		*target = def
	}
}

func fallbackInt(target *int, def int) {
	if *target == 0 {
		*target = def
	}
}

func fallbackDuration(target *time.Duration, def time.Duration) {
	if *target == 0 {
		*target = def
	}
}

// applyDefaults fills zero values so an unset or explicitly zeroed
// setting always lands on a sane default.
func (c *Config) applyDefaults() {
	fallbackString(&c.App.Name, "leaseledger-backend")
	fallbackString(&c.App.Env, "development")
	fallbackString(&c.App.Port, "8080")

	fallbackString(&c.Database.Host, "localhost")
	fallbackInt(&c.Database.Port, 5432)
	fallbackString(&c.Database.User, "postgres")
	fallbackString(&c.Database.DBName, "leaseledger")
	fallbackString(&c.Database.SSLMode, "disable")
	fallbackInt(&c.Database.MaxOpenConns, 25)
	fallbackInt(&c.Database.MaxIdleConns, 5)
	fallbackInt(&c.Database.ConnMaxLifetime, 60)
	fallbackInt(&c.Database.ConnMaxIdleTime, 30)

	fallbackString(&c.Redis.Host, "localhost")
	fallbackInt(&c.Redis.Port, 6379)

	fallbackDuration(&c.JWT.AccessTokenExpiration, 15*time.Minute)
	fallbackDuration(&c.JWT.RefreshTokenExpiration, 168*time.Hour)
	fallbackString(&c.JWT.Issuer, "leaseledger-backend")
	fallbackInt(&c.JWT.MaxRefreshCount, 10)

	fallbackString(&c.Cookie.Path, "/")
	fallbackString(&c.Cookie.SameSite, "lax")

	fallbackString(&c.Log.Level, "info")
	fallbackString(&c.Log.Format, "console")
	fallbackString(&c.Log.Output, "stdout")

	fallbackDuration(&c.HTTP.ReadTimeout, 15*time.Second)
	fallbackDuration(&c.HTTP.WriteTimeout, 15*time.Second)
	fallbackDuration(&c.HTTP.IdleTimeout, 60*time.Second)
	fallbackInt(&c.HTTP.MaxHeaderBytes, 1<<20)
	if c.HTTP.MaxBodySize == 0 {
		c.HTTP.MaxBodySize = 10 << 20
	}
	fallbackInt(&c.HTTP.RateLimitRequests, 100)
	fallbackDuration(&c.HTTP.RateLimitWindow, time.Minute)
	fallbackInt(&c.HTTP.AuthRateLimitRequests, 5)
	fallbackDuration(&c.HTTP.AuthRateLimitWindow, time.Minute)
	// CORS origins get no "*" fallback on purpose. An empty list means
	// no cross-origin requests until explicitly configured.
	if len(c.HTTP.CORSAllowMethods) == 0 {
		c.HTTP.CORSAllowMethods = []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"}
	}
	if len(c.HTTP.CORSAllowHeaders) == 0 {
		c.HTTP.CORSAllowHeaders = []string{"Content-Type", "Authorization", "X-Request-ID"}
	}

	fallbackString(&c.Collections.SweepCronSchedule, "0 3 * * *")
	fallbackDuration(&c.Collections.StaleAfter, 90*24*time.Hour)

	fallbackString(&c.Telemetry.CollectorEndpoint, "localhost:4317")
	if c.Telemetry.SamplingRatio == 0 {
		c.Telemetry.SamplingRatio = 1.0
	}
	fallbackString(&c.Telemetry.ServiceName, "leaseledger-backend")
	fallbackDuration(&c.Telemetry.DBSlowQueryThresh, 200*time.Millisecond)
}

func (c *Config) validate() error {
	if err := c.validatePool(); err != nil {
		return err
	}
	if c.App.Env == "production" {
		if err := c.validateProduction(); err != nil {
			return err
		}
	}
	if c.Telemetry.SamplingRatio < 0.0 || c.Telemetry.SamplingRatio > 1.0 {
		return fmt.Errorf("telemetry.sampling_ratio must be between 0.0 and 1.0, got %f", c.Telemetry.SamplingRatio)
	}
	return nil
}

func (c *Config) validatePool() error {
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
	return nil
}

// validateProduction enforces the settings that must never be left on
// their development defaults once App.Env is "production".
func (c *Config) validateProduction() error {
	if c.JWT.Secret == "" {
		return fmt.Errorf("jwt.secret is required in production")
	}
	if len(c.JWT.Secret) < 32 {
		return fmt.Errorf("jwt.secret must be at least 32 characters in production")
	}
	if c.Database.Password == "" {
		return fmt.Errorf("database.password is required in production")
	}
	if c.Database.SSLMode == "disable" {
		return fmt.Errorf("database.sslmode cannot be 'disable' in production")
	}
	if !c.Cookie.Secure {
		return fmt.Errorf("cookie.secure must be true in production (HTTPS required for secure cookies)")
	}
	for _, origin := range c.HTTP.CORSAllowOrigins {
		if origin == "*" {
			return fmt.Errorf("cors_allow_origins cannot be '*' in production (use specific origins)")
		}
	}
	if c.Telemetry.DBLogFullSQL {
		return fmt.Errorf("telemetry.db_log_full_sql must be false in production to prevent sensitive data exposure in traces")
	}
	return nil
}
