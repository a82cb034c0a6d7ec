package config

import (
	"fmt"
	"net"
	"net/url"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

// DB holds the connection settings for the Postgres record store.
type DB struct {
	Name     string        `env:"DB_NAME" env-required:"true"`
	User     string        `env:"DB_USER" env-required:"true"`
	Password string        `env:"DB_PASSWORD" env-required:"true"`
	Host     string        `env:"DB_HOST" env-required:"true"`
	Port     string        `env:"DB_PORT" env-required:"true"`
	SSLMode  string        `env:"DB_SSLMODE" env-default:"disable"`
	Timeout  time.Duration `env:"DB_TIMEOUT" env-default:"3s"`
}

type Session struct {
	Secret string        `env:"SESSION_SECRET" env-required:"true"`
	TTL    time.Duration `env:"SESSION_TTL" env-default:"24h"`
}

// SuperAdmin is the single credential pair that bypasses the users table.
type SuperAdmin struct {
	Username string `env:"SUPERADMIN_USERNAME" env-default:"admin"`
	Password string `env:"SUPERADMIN_PASSWORD" env-required:"true"`
}

type Upload struct {
	Dir      string `env:"UPLOAD_DIR" env-default:"static/uploads"`
	MaxBytes int64  `env:"UPLOAD_MAX_BYTES" env-default:"8388608"`
}

type Paging struct {
	Catalog int `env:"CATALOG_PAGE_SIZE" env-default:"12"`
	Admin   int `env:"ADMIN_PAGE_SIZE" env-default:"20"`
}

type Log struct {
	Level  string `env:"LOG_LEVEL" env-default:"info"`
	Format string `env:"LOG_FORMAT" env-default:"text"`
}

type RateLimit struct {
	RPS   float64 `env:"LOGIN_RPS" env-default:"1"`
	Burst int     `env:"LOGIN_BURST" env-default:"5"`
}

// Config is built once at startup and passed to every component that needs it.
type Config struct {
	Addr       string `env:"APP_ADDR" env-default:":8080"`
	EnableHSTS bool   `env:"ENABLE_HSTS" env-default:"false"`

	DB         DB
	Session    Session
	SuperAdmin SuperAdmin
	Upload     Upload
	Paging     Paging
	Log        Log
	RateLimit  RateLimit
}

// LoadEnvFiles reads .env and .env.local without overriding variables already
// present in the process environment.
func LoadEnvFiles() {
	_ = godotenv.Load(".env")
	_ = godotenv.Load(".env.local")
}

// Load reads the configuration from the environment.
func Load() (*Config, error) {
	LoadEnvFiles()

	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if cfg.Paging.Catalog < 1 || cfg.Paging.Admin < 1 {
		return nil, fmt.Errorf("page sizes must be positive")
	}
	return &cfg, nil
}

// LoadDB reads only the database settings, for tools that do not serve HTTP.
func LoadDB() (DB, error) {
	LoadEnvFiles()

	var db DB
	if err := cleanenv.ReadEnv(&db); err != nil {
		return DB{}, fmt.Errorf("read database config: %w", err)
	}
	return db, nil
}

// DSN returns the postgres:// connection string for the configured database.
func (d DB) DSN() string {
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(d.User, d.Password),
		Host:   net.JoinHostPort(d.Host, d.Port),
		Path:   "/" + d.Name,
	}
	q := url.Values{}
	q.Set("sslmode", d.SSLMode)
	u.RawQuery = q.Encode()
	return u.String()
}

// Redacted is DSN with the password masked, for logging.
func (d DB) Redacted() string {
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(d.User, "***"),
		Host:   net.JoinHostPort(d.Host, d.Port),
		Path:   "/" + d.Name,
	}
	return u.String()
}
