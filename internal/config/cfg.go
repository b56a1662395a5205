package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net"
	"net/url"
	"os"
	"path/filepath"
	"strconv"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// DefaultPath is the YAML file read by NewConfig when the caller has no better idea.
const DefaultPath = "configuration.yaml"

type Server struct {
	Host        string `yaml:"host"         envconfig:"APP_HOST"`
	Port        int    `yaml:"port"         envconfig:"APP_PORT"`
	ReadTimeout int    `yaml:"read_timeout" envconfig:"APP_READ_TIMEOUT"`
}

type Database struct {
	Host     string `yaml:"host"          envconfig:"DB_HOST"`
	Port     int    `yaml:"port"          envconfig:"DB_PORT"`
	User     string `yaml:"username"      envconfig:"DB_USER"`
	Password string `yaml:"password"      envconfig:"DB_PASSWORD"`
	Name     string `yaml:"database_name" envconfig:"DB_NAME"`
	SSLMode  string `yaml:"ssl_mode"      envconfig:"DB_SSL_MODE"`
	MaxConns int32  `yaml:"max_conns"     envconfig:"DB_MAX_CONNS"`
	MinConns int32  `yaml:"min_conns"     envconfig:"DB_MIN_CONNS"`
}

type Log struct {
	Level         string `yaml:"level"           envconfig:"LOG_LEVEL"`
	FilePath      string `yaml:"file_path"       envconfig:"LOG_FILE_PATH"`
	AccessLogPath string `yaml:"access_log_path" envconfig:"LOG_ACCESS_FILE_PATH"`
}

type Tracing struct {
	ServiceName string `yaml:"service_name" envconfig:"TRACING_SERVICE_NAME"`
}

type Config struct {
	Server  Server   `yaml:"application"`
	DB      Database `yaml:"database"`
	Log     Log      `yaml:"log"`
	Tracing Tracing  `yaml:"tracing"`
}

// Default returns the configuration used when neither the YAML file nor the
// environment say otherwise.
func Default() Config {
	return Config{
		Server: Server{
			Host:        "127.0.0.1",
			Port:        8000,
			ReadTimeout: 10,
		},
		DB: Database{
			Host:     "localhost",
			Port:     5432,
			User:     "postgres",
			Password: "password",
			Name:     "newsletter",
			SSLMode:  "disable",
			MaxConns: 8,
			MinConns: 1,
		},
		Log: Log{
			Level:         "info",
			FilePath:      "logs/newsletter.log",
			AccessLogPath: "logs/access.log",
		},
		Tracing: Tracing{
			ServiceName: "newsletter-api",
		},
	}
}

// NewConfig resolves the configuration in layers: defaults, then the YAML file
// at path (skipped when path is empty or the file does not exist), then
// environment variables.
func NewConfig(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		if err := loadFile(filepath.Clean(path), &cfg); err != nil {
			return nil, err
		}
	}

	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("read environment: %w", err)
	}
	return &cfg, nil
}

func loadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}

func (c *Config) ServerAddress() string {
	return net.JoinHostPort(c.Server.Host, strconv.Itoa(c.Server.Port))
}

// DSN is the connection string for the configured database.
func (d Database) DSN() string {
	return d.url("/" + d.Name)
}

// MaintenanceDSN points at the server without selecting a database, so the
// server falls back to its default one for the user. Used for CREATE DATABASE.
func (d Database) MaintenanceDSN() string {
	return d.url("")
}

// WithName returns a copy of d bound to another database on the same server.
func (d Database) WithName(name string) Database {
	d.Name = name
	return d
}

func (d Database) url(path string) string {
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(d.User, d.Password),
		Host:   net.JoinHostPort(d.Host, strconv.Itoa(d.Port)),
		Path:   path,
	}
	if d.SSLMode != "" {
		u.RawQuery = url.Values{"sslmode": []string{d.SSLMode}}.Encode()
	}
	return u.String()
}
