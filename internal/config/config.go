// AngelaMos | 2026
// config.go

package config

import (
	"errors"
	"fmt"
	"reflect"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Config is the full runtime configuration. Field rules are checked by
// validate after every source has been merged.
type Config struct {
	App       AppConfig       `koanf:"app"`
	Server    ServerConfig    `koanf:"server"`
	Database  DatabaseConfig  `koanf:"database"`
	Redis     RedisConfig     `koanf:"redis"`
	JWT       JWTConfig       `koanf:"jwt"`
	Auth      AuthConfig      `koanf:"auth"`
	RateLimit RateLimitConfig `koanf:"rate_limit"`
	CORS      CORSConfig      `koanf:"cors"`
	Log       LogConfig       `koanf:"log"`
	Otel      OtelConfig      `koanf:"otel"`
	Metrics   MetricsConfig   `koanf:"metrics"`
	Events    EventsConfig    `koanf:"events"`
}

type AppConfig struct {
	Name        string `koanf:"name"`
	Version     string `koanf:"version"`
	Environment string `koanf:"environment" validate:"oneof=development staging production test"`
}

type ServerConfig struct {
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port"             validate:"gte=0,lte=65535"`
	ReadTimeout     time.Duration `koanf:"read_timeout"     validate:"gt=0"`
	WriteTimeout    time.Duration `koanf:"write_timeout"    validate:"gt=0"`
	IdleTimeout     time.Duration `koanf:"idle_timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
	StaticDir       string        `koanf:"static_dir"`
	// TrustedProxies lists the peers allowed to set X-Forwarded-For and
	// X-Real-IP. Empty means the socket peer is always the client.
	TrustedProxies  []string      `koanf:"trusted_proxies" validate:"dive,cidr|ip"`
}

type DatabaseConfig struct {
	URL             string        `koanf:"url"                validate:"required"`
	MaxOpenConns    int           `koanf:"max_open_conns"     validate:"gte=0"`
	MaxIdleConns    int           `koanf:"max_idle_conns"     validate:"gte=0"`
	ConnMaxLifetime time.Duration `koanf:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `koanf:"conn_max_idle_time"`
	AutoMigrate     bool          `koanf:"auto_migrate"`
}

type RedisConfig struct {
	URL          string        `koanf:"url"            validate:"required"`
	PoolSize     int           `koanf:"pool_size"      validate:"gte=0"`
	MinIdleConns int           `koanf:"min_idle_conns" validate:"gte=0"`
	DialTimeout  time.Duration `koanf:"dial_timeout"`
}

type JWTConfig struct {
	PrivateKeyPath    string        `koanf:"private_key_path"    validate:"required"`
	PublicKeyPath     string        `koanf:"public_key_path"     validate:"required"`
	GenerateKeys      bool          `koanf:"generate_keys"`
	AccessTokenExpire time.Duration `koanf:"access_token_expire" validate:"gt=0"`
	Issuer            string        `koanf:"issuer"`
	Audience          string        `koanf:"audience"`
}

// AuthConfig controls account creation. AdminEmail/AdminPassword seed the
// first administrator on start-up.
type AuthConfig struct {
	AllowAdminSignup bool   `koanf:"allow_admin_signup"`
	AdminName        string `koanf:"admin_name"`
	AdminEmail       string `koanf:"admin_email"    validate:"omitempty,email"`
	AdminPassword    string `koanf:"admin_password" validate:"required_with=AdminEmail,omitempty,min=8"`
}

type RateLimitConfig struct {
	Requests     int           `koanf:"requests"      validate:"gte=0"`
	Window       time.Duration `koanf:"window"        validate:"gte=0"`
	Burst        int           `koanf:"burst"         validate:"gte=0"`
	AuthRequests int           `koanf:"auth_requests" validate:"gte=0"`
	AuthBurst    int           `koanf:"auth_burst"    validate:"gte=0"`
}

type CORSConfig struct {
	AllowedOrigins   []string `koanf:"allowed_origins"`
	AllowedMethods   []string `koanf:"allowed_methods"`
	AllowedHeaders   []string `koanf:"allowed_headers"`
	AllowCredentials bool     `koanf:"allow_credentials"`
	MaxAge           int      `koanf:"max_age"`
}

type LogConfig struct {
	Level  string `koanf:"level"  validate:"omitempty,oneof=debug info warn error"`
	Format string `koanf:"format" validate:"omitempty,oneof=json text"`
}

type OtelConfig struct {
	Endpoint    string  `koanf:"endpoint"`
	ServiceName string  `koanf:"service_name"`
	Enabled     bool    `koanf:"enabled"`
	Insecure    bool    `koanf:"insecure"`
	SampleRate  float64 `koanf:"sample_rate" validate:"gte=0,lte=1"`
}

type MetricsConfig struct {
	Enabled bool   `koanf:"enabled"`
	Path    string `koanf:"path" validate:"required_if=Enabled true,omitempty,startswith=/"`
}

type EventsConfig struct {
	Enabled  bool   `koanf:"enabled"`
	URL      string `koanf:"url"      validate:"required_if=Enabled true"`
	Exchange string `koanf:"exchange"`
}

var (
	cfg  *Config
	once sync.Once
)

func Load(configPath string) (*Config, error) {
	var loadErr error

	once.Do(func() {
		cfg, loadErr = load(configPath)
	})

	if loadErr != nil {
		return nil, loadErr
	}

	return cfg, nil
}

func Get() *Config {
	if cfg == nil {
		panic("config not loaded: call Load() first")
	}
	return cfg
}

func load(configPath string) (*Config, error) {
	k := koanf.New(".")

	if err := loadDefaults(k); err != nil {
		return nil, fmt.Errorf("load defaults: %w", err)
	}

	if configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("load config file: %w", err)
		}
	}

	if err := k.Load(env.ProviderWithValue("", ".", envValue), nil); err != nil {
		return nil, fmt.Errorf("load env vars: %w", err)
	}

	c := &Config{}
	if err := k.Unmarshal("", c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := validate(c); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return c, nil
}

func loadDefaults(k *koanf.Koanf) error {
	defaults := map[string]any{
		"app.name":        "Job Board",
		"app.version":     "1.0.0",
		"app.environment": "development",

		"server.host":             "0.0.0.0",
		"server.port":             8001,
		"server.read_timeout":     "30s",
		"server.write_timeout":    "30s",
		"server.idle_timeout":     "120s",
		"server.shutdown_timeout": "15s",

		"database.max_open_conns":     10,
		"database.max_idle_conns":     5,
		"database.conn_max_lifetime":  "1h",
		"database.conn_max_idle_time": "30m",
		"database.auto_migrate":       true,

		"redis.pool_size":      10,
		"redis.min_idle_conns": 2,
		"redis.dial_timeout":   "5s",

		"jwt.access_token_expire": "1h",
		"jwt.issuer":              "job-board",
		"jwt.audience":            "job-board-api",
		"jwt.private_key_path":    "keys/private.pem",
		"jwt.public_key_path":     "keys/public.pem",
		"jwt.generate_keys":       false,

		"auth.allow_admin_signup": false,
		"auth.admin_name":         "Administrator",

		"rate_limit.requests":      100,
		"rate_limit.window":        "1m",
		"rate_limit.burst":         20,
		"rate_limit.auth_requests": 10,
		"rate_limit.auth_burst":    5,

		"cors.allowed_origins": []string{"http://localhost:8001"},
		"cors.allowed_methods": []string{
			"GET",
			"POST",
			"PUT",
			"DELETE",
			"OPTIONS",
		},
		"cors.allowed_headers": []string{
			"Accept",
			"Authorization",
			"Content-Type",
			"X-Request-ID",
		},
		"cors.allow_credentials": true,
		"cors.max_age":           300,

		"log.level":  "info",
		"log.format": "json",

		"otel.enabled":      false,
		"otel.insecure":     true,
		"otel.sample_rate":  0.1,
		"otel.service_name": "job-board",

		"metrics.enabled": true,
		"metrics.path":    "/metrics",

		"events.enabled":  false,
		"events.exchange": "job_board.events",
	}

	for key, value := range defaults {
		if err := k.Set(key, value); err != nil {
			return fmt.Errorf("set default %s: %w", key, err)
		}
	}

	return nil
}

var envKeyMap = map[string]string{
	"DATABASE_URL":                "database.url",
	"DATABASE_AUTO_MIGRATE":       "database.auto_migrate",
	"REDIS_URL":                   "redis.url",
	"ENVIRONMENT":                 "app.environment",
	"HOST":                        "server.host",
	"PORT":                        "server.port",
	"STATIC_DIR":                  "server.static_dir",
	"TRUSTED_PROXIES":             "server.trusted_proxies",
	"LOG_LEVEL":                   "log.level",
	"LOG_FORMAT":                  "log.format",
	"JWT_PRIVATE_KEY_PATH":        "jwt.private_key_path",
	"JWT_PUBLIC_KEY_PATH":         "jwt.public_key_path",
	"JWT_GENERATE_KEYS":           "jwt.generate_keys",
	"JWT_ACCESS_TOKEN_EXPIRE":     "jwt.access_token_expire",
	"JWT_ISSUER":                  "jwt.issuer",
	"JWT_AUDIENCE":                "jwt.audience",
	"ALLOW_ADMIN_SIGNUP":          "auth.allow_admin_signup",
	"ADMIN_NAME":                  "auth.admin_name",
	"ADMIN_EMAIL":                 "auth.admin_email",
	"ADMIN_PASSWORD":              "auth.admin_password",
	"RATE_LIMIT_REQUESTS":         "rate_limit.requests",
	"RATE_LIMIT_WINDOW":           "rate_limit.window",
	"RATE_LIMIT_BURST":            "rate_limit.burst",
	"RATE_LIMIT_AUTH_REQUESTS":    "rate_limit.auth_requests",
	"RATE_LIMIT_AUTH_BURST":       "rate_limit.auth_burst",
	"OTEL_ENDPOINT":               "otel.endpoint",
	"OTEL_EXPORTER_OTLP_ENDPOINT": "otel.endpoint",
	"OTEL_SERVICE_NAME":           "otel.service_name",
	"OTEL_ENABLED":                "otel.enabled",
	"OTEL_INSECURE":               "otel.insecure",
	"OTEL_SAMPLE_RATE":            "otel.sample_rate",
	"METRICS_ENABLED":             "metrics.enabled",
	"METRICS_PATH":                "metrics.path",
	"EVENTS_ENABLED":              "events.enabled",
	"AMQP_URL":                    "events.url",
	"EVENTS_EXCHANGE":             "events.exchange",
}

func envKeyReplacer(s string) string {
	if mapped, ok := envKeyMap[s]; ok {
		return mapped
	}
	return ""
}

var listKeys = map[string]bool{
	"server.trusted_proxies": true,
}

// envValue maps an environment variable onto its koanf key and splits
// comma-separated list settings.
func envValue(name, value string) (string, any) {
	key := envKeyReplacer(name)
	if key == "" || !listKeys[key] {
		return key, value
	}

	var items []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return key, items
}

func validate(c *Config) error {
	if err := fieldRules.Struct(c); err != nil {
		return describeFieldErrors(err)
	}

	if c.CORS.AllowCredentials && slices.Contains(c.CORS.AllowedOrigins, "*") {
		return errors.New("CORS wildcard '*' cannot be used with allow_credentials")
	}

	if c.IsProduction() {
		if c.Otel.Enabled && c.Otel.Insecure {
			return errors.New("OTEL_INSECURE must be false in production")
		}
		if c.Auth.AllowAdminSignup {
			return errors.New("ALLOW_ADMIN_SIGNUP must be false in production")
		}
	}

	return nil
}

var fieldRules = newFieldRules()

// newFieldRules names fields by their koanf path so failures can point at
// the setting to change.
func newFieldRules() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		return f.Tag.Get("koanf")
	})
	return v
}

func describeFieldErrors(err error) error {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	msgs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		name := settingName(fe.Namespace())
		switch fe.Tag() {
		case "required", "required_if", "required_with":
			msgs = append(msgs, name+" is required")
		case "gt":
			msgs = append(msgs, name+" must be positive")
		case "min":
			msgs = append(msgs, fmt.Sprintf("%s must be at least %s characters", name, fe.Param()))
		case "oneof":
			msgs = append(msgs, fmt.Sprintf("%s must be one of: %s", name, fe.Param()))
		default:
			msgs = append(msgs, fmt.Sprintf("%s is invalid (%s)", name, fe.Tag()))
		}
	}
	return errors.New(strings.Join(msgs, "; "))
}

// settingName turns "Config.database.url" into "DATABASE_URL
// (database.url)", or just the path when no environment variable sets it.
func settingName(namespace string) string {
	_, path, _ := strings.Cut(namespace, ".")

	var envName string
	for name, key := range envKeyMap {
		if key == path && (envName == "" || name < envName) {
			envName = name
		}
	}
	if envName == "" {
		return path
	}
	return envName + " (" + path + ")"
}

func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

func (s *ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}
