package database

import (
	"fmt"
	"strings"
)

// Supported values of Config.Driver.
const (
	DriverMemory   = "memory"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Config holds journal storage settings. An empty driver keeps the journal
// in process memory.
type Config struct {
	Driver         string `yaml:"driver" envconfig:"DB_DRIVER"`
	Host           string `yaml:"host" envconfig:"DB_HOST"`
	Port           string `yaml:"port" envconfig:"DB_PORT"`
	User           string `yaml:"user" envconfig:"DB_USER"`
	Password       string `yaml:"password" envconfig:"DB_PASSWORD"`
	Name           string `yaml:"name" envconfig:"DB_NAME"`
	SSLMode        string `yaml:"sslmode" envconfig:"DB_SSLMODE"`
	MaxConnections int    `yaml:"max_connections" envconfig:"DB_MAX_CONNECTIONS"`
	// Path is the sqlite database file; ":memory:" is accepted.
	Path string `yaml:"path" envconfig:"DB_PATH"`
}

// Normalize lowercases the driver and fills defaults.
func (c *Config) Normalize() error {
	c.Driver = strings.ToLower(strings.TrimSpace(c.Driver))
	switch c.Driver {
	case "":
		c.Driver = DriverMemory
	case DriverMemory:
	case DriverPostgres:
		if c.Port == "" {
			c.Port = "5432"
		}
		if c.SSLMode == "" {
			c.SSLMode = "disable"
		}
		if c.Host == "" || c.Name == "" {
			return fmt.Errorf("database: postgres requires host and name")
		}
	case DriverSQLite:
		if strings.TrimSpace(c.Path) == "" {
			c.Path = "teamboard.db"
		}
	default:
		return fmt.Errorf("database: unsupported driver %q", c.Driver)
	}
	if c.MaxConnections <= 0 {
		c.MaxConnections = 5
	}
	if c.Driver == DriverSQLite {
		c.MaxConnections = 1
	}
	return nil
}

// Persistent reports whether the journal goes to a SQL database.
func (c Config) Persistent() bool {
	return c.Driver == DriverPostgres || c.Driver == DriverSQLite
}

func (c Config) postgresDSN() string {
	return fmt.Sprintf(
		"user=%s password=%s host=%s port=%s dbname=%s sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.Name, c.SSLMode,
	)
}

func (c Config) postgresURL() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.Name, c.SSLMode,
	)
}
