package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Environment  string             `mapstructure:"environment"`
	LogLevel     string             `mapstructure:"log_level"`
	Server       ServerConfig       `mapstructure:"server"`
	Database     DatabaseConfig     `mapstructure:"database"`
	Redis        RedisConfig        `mapstructure:"redis"`
	Quotes       QuotesConfig       `mapstructure:"quotes"`
	Jobs         JobsConfig         `mapstructure:"jobs"`
	Notification NotificationConfig `mapstructure:"notification"`
	Tracing      TracingConfig      `mapstructure:"tracing"`
}

type ServerConfig struct {
	Port            int      `mapstructure:"port"`
	Host            string   `mapstructure:"host"`
	ReadTimeout     int      `mapstructure:"read_timeout"`
	WriteTimeout    int      `mapstructure:"write_timeout"`
	AllowedOrigins  []string `mapstructure:"allowed_origins"`
	RateLimitPerMin int      `mapstructure:"rate_limit_per_min"`
}

type DatabaseConfig struct {
	URL             string `mapstructure:"url"`
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	Name            string `mapstructure:"name"`
	User            string `mapstructure:"user"`
	Password        string `mapstructure:"password"`
	SSLMode         string `mapstructure:"ssl_mode"`
	MaxOpenConns    int    `mapstructure:"max_open_conns"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns"`
	ConnMaxLifetime int    `mapstructure:"conn_max_lifetime"`
	RunMigrations   bool   `mapstructure:"run_migrations"`
}

type RedisConfig struct {
	URL      string `mapstructure:"url"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	Enabled  bool   `mapstructure:"enabled"`
}

// QuotesConfig configures the market price providers and the batch fetcher.
// Timeouts and TTLs are in seconds.
type QuotesConfig struct {
	StockAPIURL     string `mapstructure:"stock_api_url"`
	GoldAPIURL      string `mapstructure:"gold_api_url"`
	DefaultCurrency string `mapstructure:"default_currency"`
	RequestTimeout  int    `mapstructure:"request_timeout"`
	LookupTimeout   int    `mapstructure:"lookup_timeout"`
	MaxConcurrency  int    `mapstructure:"max_concurrency"`
	CacheTTL        int    `mapstructure:"cache_ttl"`
	MaxRetries      int    `mapstructure:"max_retries"`
}

type JobsConfig struct {
	Enabled          bool   `mapstructure:"enabled"`
	SnapshotSchedule string `mapstructure:"snapshot_schedule"`
	WarmupSchedule   string `mapstructure:"warmup_schedule"`
}

type NotificationConfig struct {
	Provider    string   `mapstructure:"provider"`
	APIKey      string   `mapstructure:"api_key"`
	FromEmail   string   `mapstructure:"from_email"`
	FromName    string   `mapstructure:"from_name"`
	Recipients  []string `mapstructure:"recipients"`
	Environment string   `mapstructure:"environment"`

	MatrixHomeserver  string `mapstructure:"matrix_homeserver"`
	MatrixRoomID      string `mapstructure:"matrix_room_id"`
	MatrixAccessToken string `mapstructure:"matrix_access_token"`
}

type TracingConfig struct {
	Enabled      bool    `mapstructure:"enabled"`
	ServiceName  string  `mapstructure:"service_name"`
	OTLPEndpoint string  `mapstructure:"otlp_endpoint"`
	Insecure     bool    `mapstructure:"insecure"`
	SampleRatio  float64 `mapstructure:"sample_ratio"`
}

func (q QuotesConfig) RequestTimeoutDuration() time.Duration {
	return time.Duration(q.RequestTimeout) * time.Second
}

func (q QuotesConfig) LookupTimeoutDuration() time.Duration {
	return time.Duration(q.LookupTimeout) * time.Second
}

func (q QuotesConfig) CacheTTLDuration() time.Duration {
	return time.Duration(q.CacheTTL) * time.Second
}

// Load loads configuration from environment variables and config files
func Load() (*Config, error) {
	// Load .env file if it exists (ignore errors if file doesn't exist)
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./configs")
	v.AddConfigPath(".")

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	overrideFromEnv(v)

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	// Build database URL if not provided
	if config.Database.URL == "" {
		config.Database.URL = fmt.Sprintf(
			"postgres://%s:%s@%s:%d/%s?sslmode=%s",
			config.Database.User,
			config.Database.Password,
			config.Database.Host,
			config.Database.Port,
			config.Database.Name,
			config.Database.SSLMode,
		)
	}

	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &config, nil
}

func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("environment", "development")
	v.SetDefault("log_level", "info")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.read_timeout", 30)
	v.SetDefault("server.write_timeout", 30)
	v.SetDefault("server.allowed_origins", []string{"*"})
	v.SetDefault("server.rate_limit_per_min", 100)

	// Database defaults
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.name", "pfinance")
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.ssl_mode", "disable")
	v.SetDefault("database.max_open_conns", 25)
	v.SetDefault("database.max_idle_conns", 10)
	v.SetDefault("database.conn_max_lifetime", 300)
	v.SetDefault("database.run_migrations", true)

	// Redis defaults
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.enabled", true)

	// Quote provider defaults
	v.SetDefault("quotes.stock_api_url", "http://localhost:5000")
	v.SetDefault("quotes.gold_api_url", "https://data-asg.goldprice.org")
	v.SetDefault("quotes.default_currency", "USD")
	v.SetDefault("quotes.request_timeout", 10)
	v.SetDefault("quotes.lookup_timeout", 5)
	v.SetDefault("quotes.max_concurrency", 8)
	v.SetDefault("quotes.cache_ttl", 60)
	v.SetDefault("quotes.max_retries", 3)

	// Job defaults
	v.SetDefault("jobs.enabled", true)
	v.SetDefault("jobs.snapshot_schedule", "0 0 23 * * *")
	v.SetDefault("jobs.warmup_schedule", "0 */30 * * * *")

	// Notification defaults
	v.SetDefault("notification.provider", "sendgrid")
	v.SetDefault("notification.from_email", "no-reply@pfinance.local")
	v.SetDefault("notification.from_name", "pfinance")
	v.SetDefault("notification.environment", "development")

	// Tracing defaults
	v.SetDefault("tracing.enabled", false)
	v.SetDefault("tracing.service_name", "pfinance")
	v.SetDefault("tracing.otlp_endpoint", "localhost:4317")
	v.SetDefault("tracing.insecure", true)
	v.SetDefault("tracing.sample_ratio", 1.0)
}

func overrideFromEnv(v *viper.Viper) {
	// Server
	if port := os.Getenv("PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			v.Set("server.port", p)
		}
	}

	// Database
	if dbURL := os.Getenv("DATABASE_URL"); dbURL != "" {
		v.Set("database.url", dbURL)
	}

	// Redis
	if redisURL := os.Getenv("REDIS_URL"); redisURL != "" {
		v.Set("redis.url", redisURL)
	}

	// Quote providers
	if stockURL := os.Getenv("STOCK_API_URL"); stockURL != "" {
		v.Set("quotes.stock_api_url", stockURL)
	}

	// SendGrid
	if apiKey := os.Getenv("SENDGRID_API_KEY"); apiKey != "" {
		v.Set("notification.api_key", apiKey)
	}

	// Matrix
	if token := os.Getenv("MATRIX_ACCESS_TOKEN"); token != "" {
		v.Set("notification.matrix_access_token", token)
	}
}

func validate(config *Config) error {
	if config.Database.URL == "" && (config.Database.Host == "" || config.Database.Name == "") {
		return fmt.Errorf("database configuration is incomplete")
	}

	if strings.TrimSpace(config.Quotes.StockAPIURL) == "" {
		return fmt.Errorf("stock API URL is required")
	}

	if config.Quotes.MaxConcurrency <= 0 {
		return fmt.Errorf("quotes max concurrency must be positive")
	}

	if config.Quotes.LookupTimeout <= 0 {
		return fmt.Errorf("quotes lookup timeout must be positive")
	}

	if config.Quotes.CacheTTL < 0 {
		return fmt.Errorf("quotes cache TTL must not be negative")
	}

	if strings.EqualFold(config.Notification.Provider, "matrix") &&
		(config.Notification.MatrixHomeserver == "" || config.Notification.MatrixRoomID == "" || config.Notification.MatrixAccessToken == "") {
		return fmt.Errorf("matrix notifications need a homeserver, room ID and access token")
	}

	if config.Tracing.SampleRatio < 0 || config.Tracing.SampleRatio > 1 {
		return fmt.Errorf("tracing sample ratio must be between 0 and 1")
	}

	return nil
}
