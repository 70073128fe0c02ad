package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"

	placeholderSecret = "your_super_secret_key"
	minSecretLength   = 16
	minTokenTTL       = time.Minute
	maxTokenTTL       = 30 * 24 * time.Hour
)

type Config struct {
	HTTPPort           string
	DBDriver           string
	PostgresDSN        string
	SQLitePath         string
	RedisURL           string
	JWTSecret          string
	TokenTTL           time.Duration
	UploadDir          string
	PublicBaseURL      string
	ResumeMaxBytes     int64
	CORSAllowedOrigins []string
	LogLevel           string
	DBMaxOpenConns     int
	DBMaxIdleConns     int
	DBConnMaxIdle      time.Duration
	DBConnMaxLife      time.Duration
	RequestTimeout     time.Duration
	AuthRateLimit      int
	TrustedProxies     []string
}

// Load resolves defaults, then the optional CONFIG_FILE, then the environment.
func Load() (*Config, error) {
	src, err := newSource(os.Getenv("CONFIG_FILE"))
	if err != nil {
		return nil, err
	}
	cfg := &Config{
		HTTPPort:           src.getString("HTTP_PORT", "8000"),
		DBDriver:           strings.ToLower(src.getString("DB_DRIVER", DriverPostgres)),
		PostgresDSN:        src.getString("DATABASE_URL", ""),
		SQLitePath:         src.getString("SQLITE_PATH", "jobconnect.db"),
		RedisURL:           src.getString("REDIS_URL", ""),
		JWTSecret:          src.getString("JWT_SECRET", ""),
		TokenTTL:           src.getDuration("JWT_EXPIRE", 7*24*time.Hour),
		UploadDir:          src.getString("UPLOAD_DIR", "uploads"),
		PublicBaseURL:      strings.TrimRight(src.getString("PUBLIC_BASE_URL", ""), "/"),
		ResumeMaxBytes:     int64(src.getInt("RESUME_MAX_BYTES", 5<<20)),
		CORSAllowedOrigins: splitList(src.getString("CORS_ALLOWED_ORIGINS", "*")),
		LogLevel:           src.getString("LOG_LEVEL", "info"),
		DBMaxOpenConns:     src.getInt("DB_MAX_OPEN_CONNS", 25),
		DBMaxIdleConns:     src.getInt("DB_MAX_IDLE_CONNS", 10),
		DBConnMaxIdle:      src.getDuration("DB_CONN_MAX_IDLE", 5*time.Minute),
		DBConnMaxLife:      src.getDuration("DB_CONN_MAX_LIFE", 30*time.Minute),
		RequestTimeout:     src.getDuration("REQUEST_TIMEOUT", 10*time.Second),
		AuthRateLimit:      src.getInt("AUTH_RATE_LIMIT_PER_MIN", 20),
		TrustedProxies:     splitList(src.getString("TRUSTED_PROXIES", "")),
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	var errs []error
	switch {
	case c.JWTSecret == "":
		errs = append(errs, errors.New("JWT_SECRET is required"))
	case c.JWTSecret == placeholderSecret:
		errs = append(errs, errors.New("JWT_SECRET must not be the example placeholder"))
	case len(c.JWTSecret) < minSecretLength:
		errs = append(errs, fmt.Errorf("JWT_SECRET must be at least %d bytes", minSecretLength))
	}
	switch c.DBDriver {
	case DriverPostgres:
		if c.PostgresDSN == "" {
			errs = append(errs, errors.New("DATABASE_URL is required"))
		}
	case DriverSQLite:
		if c.SQLitePath == "" {
			errs = append(errs, errors.New("SQLITE_PATH is required"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown DB_DRIVER %q", c.DBDriver))
	}
	if c.TokenTTL < minTokenTTL || c.TokenTTL > maxTokenTTL {
		errs = append(errs, fmt.Errorf("JWT_EXPIRE must be between %s and %s", minTokenTTL, maxTokenTTL))
	}
	if c.ResumeMaxBytes <= 0 {
		errs = append(errs, errors.New("RESUME_MAX_BYTES must be positive"))
	}
	if c.UploadDir == "" {
		errs = append(errs, errors.New("UPLOAD_DIR is required"))
	}
	return errors.Join(errs...)
}

type source struct {
	file map[string]string
}

func newSource(path string) (*source, error) {
	src := &source{file: map[string]string{}}
	if path == "" {
		return src, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}
	raw := map[string]interface{}{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse config file: %w", err)
	}
	for key, value := range raw {
		if value == nil {
			continue
		}
		if list, ok := value.([]interface{}); ok {
			parts := make([]string, 0, len(list))
			for _, item := range list {
				parts = append(parts, fmt.Sprint(item))
			}
			src.file[strings.ToUpper(key)] = strings.Join(parts, ",")
			continue
		}
		src.file[strings.ToUpper(key)] = fmt.Sprint(value)
	}
	return src, nil
}

func (s *source) lookup(key string) (string, bool) {
	if value, ok := os.LookupEnv(key); ok {
		return value, true
	}
	value, ok := s.file[key]
	return value, ok
}

func (s *source) getString(key, fallback string) string {
	if value, ok := s.lookup(key); ok {
		return value
	}
	return fallback
}

func (s *source) getDuration(key string, fallback time.Duration) time.Duration {
	if value, ok := s.lookup(key); ok {
		parsed, err := time.ParseDuration(value)
		if err == nil {
			return parsed
		}
	}
	return fallback
}

func (s *source) getInt(key string, fallback int) int {
	if value, ok := s.lookup(key); ok {
		parsed, err := strconv.Atoi(value)
		if err == nil {
			return parsed
		}
	}
	return fallback
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
