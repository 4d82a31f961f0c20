package config

import "fmt"

// Config aggregates every setting any of the three binaries (api, worker,
// cron) may read. Each binary loads the whole struct but only consults the
// blocks relevant to it; unused blocks are harmless.
type Config struct {
	Service  ServiceConfig  `yaml:"service"`
	Database DatabaseConfig `yaml:"database"`
	Logging  LoggingConfig  `yaml:"logging"`
	Auth     AuthConfig     `yaml:"auth"`
	TLS      TLSConfig      `yaml:"tls"`
	Worker   WorkerConfig   `yaml:"worker"`
	Cron     CronConfig     `yaml:"cron"`
	LLM      LLMConfig      `yaml:"llm"`
	Redis    RedisConfig    `yaml:"redis"`
}

// ServiceConfig holds the API tier's HTTP bind address.
type ServiceConfig struct {
	Host string `env:"HOST" yaml:"host"`
	Port int    `env:"PORT" yaml:"port"`
}

func (c *ServiceConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

func (c *ServiceConfig) SetDefaults() {
	if c.Host == "" {
		c.Host = "127.0.0.1"
	}
	if c.Port == 0 {
		c.Port = 3000
	}
}

func (c *ServiceConfig) Validate() error {
	return ValidatePort("service.port", c.Port)
}

// DatabaseConfig holds the Store connection string. Spec names a single
// DATABASE_URL, not a decomposed host/port/user — the Store accepts
// whatever lib/pq's connection-string parser accepts.
type DatabaseConfig struct {
	URL string `env:"DATABASE_URL" yaml:"url"`

	MaxOpenConns int `yaml:"max_open_conns"`
	MaxIdleConns int `yaml:"max_idle_conns"`
}

func (c *DatabaseConfig) SetDefaults() {
	if c.MaxOpenConns == 0 {
		c.MaxOpenConns = 25
	}
	if c.MaxIdleConns == 0 {
		c.MaxIdleConns = 5
	}
}

func (c *DatabaseConfig) Validate() error {
	return ValidateRequired("database.url", c.URL)
}

// LoggingConfig mirrors internal/logger.Config's env-facing fields.
type LoggingConfig struct {
	Level  string `env:"LOG_LEVEL" yaml:"level"`
	Format string `env:"LOG_FORMAT" yaml:"format"`
}

func (c *LoggingConfig) SetDefaults() {
	if c.Level == "" {
		c.Level = "info"
	}
	if c.Format == "" {
		c.Format = "json"
	}
}

func (c *LoggingConfig) Validate() error {
	if err := ValidateLogLevel(c.Level); err != nil {
		return err
	}
	return ValidateLogFormat(c.Format)
}

// AuthConfig controls the session-cookie authentication gate.
type AuthConfig struct {
	// Enabled is derived from ENABLE_AUTH's truthiness, not a bool env tag,
	// because the spec's truthy set ("1/true/yes/y") is broader than Go's
	// strconv.ParseBool.
	EnabledRaw string `env:"ENABLE_AUTH" yaml:"-"`

	PasswordHash            string `env:"AUTH_PASSWORD_HASH" yaml:"password_hash"`
	SessionSecret           string `env:"SESSION_SECRET" yaml:"session_secret"`
	SessionDurationSeconds  int    `env:"SESSION_DURATION_SECONDS" yaml:"session_duration_seconds"`
	Password                string `env:"AUTH_PASSWORD" yaml:"-"`
}

func (c *AuthConfig) Enabled() bool {
	return ParseTruthy(c.EnabledRaw)
}

func (c *AuthConfig) SetDefaults() {
	if c.SessionDurationSeconds == 0 {
		c.SessionDurationSeconds = 86400
	}
}

// Validate enforces the spec's "required when auth is on" rule: password
// hash and session secret must both be present together.
func (c *AuthConfig) Validate() error {
	if !c.Enabled() {
		return nil
	}
	if err := ValidateRequired("auth.password_hash", c.PasswordHash); err != nil {
		return err
	}
	return ValidateRequired("auth.session_secret", c.SessionSecret)
}

// TLSConfig is optional; when both paths are set the API binds HTTPS.
type TLSConfig struct {
	CertPath string `env:"TLS_CERT_PATH" yaml:"cert_path"`
	KeyPath  string `env:"TLS_KEY_PATH" yaml:"key_path"`
}

func (c *TLSConfig) Enabled() bool {
	return c.CertPath != "" && c.KeyPath != ""
}

// WorkerConfig controls the worker tier's claim loop.
type WorkerConfig struct {
	PollIntervalMS  int    `env:"WORKER_POLL_INTERVAL_MS" yaml:"poll_interval_ms"`
	MaxConcurrency  int    `env:"WORKER_MAX_CONCURRENCY" yaml:"max_concurrency"`
	LeaseSeconds    int    `env:"WORKER_LEASE_SECONDS" yaml:"lease_seconds"`
	MetricsAddress  string `env:"WORKER_METRICS_ADDRESS" yaml:"metrics_address"`
}

func (c *WorkerConfig) SetDefaults() {
	if c.PollIntervalMS == 0 {
		c.PollIntervalMS = 600
	}
	if c.MaxConcurrency == 0 {
		c.MaxConcurrency = 1000
	}
	if c.LeaseSeconds == 0 {
		c.LeaseSeconds = 300
	}
	if c.MetricsAddress == "" {
		c.MetricsAddress = ":9091"
	}
}

func (c *WorkerConfig) Validate() error {
	if err := ValidatePositiveDuration("worker.poll_interval_ms", c.PollIntervalMS); err != nil {
		return err
	}
	return ValidatePositiveDuration("worker.max_concurrency", c.MaxConcurrency)
}

// CronConfig controls the drift-detector loop.
type CronConfig struct {
	PollIntervalMinutes int    `env:"CRON_POLL_INTERVAL_M" yaml:"poll_interval_minutes"`
	APIBaseURL          string `env:"CRON_API_BASE_URL" yaml:"api_base_url"`
	MetricsAddress      string `env:"CRON_METRICS_ADDRESS" yaml:"metrics_address"`
}

func (c *CronConfig) SetDefaults() {
	if c.PollIntervalMinutes == 0 {
		c.PollIntervalMinutes = 1
	}
	if c.APIBaseURL == "" {
		c.APIBaseURL = "http://127.0.0.1:3000"
	}
	if c.MetricsAddress == "" {
		c.MetricsAddress = ":9092"
	}
}

// LLMConfig selects and authenticates the LLM provider.
type LLMConfig struct {
	Provider       string `env:"LLM_PROVIDER" yaml:"provider"`
	OpenAIAPIKey   string `env:"OPENAI_API_KEY" yaml:"-"`
	AnthropicAPIKey string `env:"ANTHROPIC_API_KEY" yaml:"-"`
	Model          string `env:"LLM_MODEL" yaml:"model"`
}

func (c *LLMConfig) SetDefaults() {
	if c.Provider == "" {
		switch {
		case c.AnthropicAPIKey != "":
			c.Provider = "anthropic"
		case c.OpenAIAPIKey != "":
			c.Provider = "openai"
		default:
			c.Provider = "mock"
		}
	}
}

// RedisConfig is additive (§12.2's cron de-dup cache); absence disables
// the cache, it never affects correctness.
type RedisConfig struct {
	URL string `env:"REDIS_URL" yaml:"url"`
}

// SetDefaults applies every block's defaults.
func (c *Config) SetDefaults() {
	c.Service.SetDefaults()
	c.Database.SetDefaults()
	c.Logging.SetDefaults()
	c.Auth.SetDefaults()
	c.Worker.SetDefaults()
	c.Cron.SetDefaults()
	c.LLM.SetDefaults()
}

// Validate checks the blocks shared by all three binaries: Database,
// Logging and Auth. The Service and Worker blocks are not validated here.
// Every binary calls it at startup so misconfiguration surfaces before
// any work starts.
func (c *Config) Validate() error {
	if err := c.Database.Validate(); err != nil {
		return err
	}
	if err := c.Logging.Validate(); err != nil {
		return err
	}
	if err := c.Auth.Validate(); err != nil {
		return err
	}
	return nil
}

// LoadConfig reads an optional YAML file then overlays environment
// variables, following the spec's §6 table.
func LoadConfig(path string) (*Config, error) {
	return Load[Config](path, (*Config).SetDefaults)
}
