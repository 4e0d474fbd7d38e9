// Package config loads database connection settings and opens drivers from
// them.
//
// A configuration file names the backend and its connection parameters:
//
//	type: postgres
//	host: db.internal
//	port: 5432
//	username: app
//	password: ${DB_PASSWORD}
//	database: shop
//	params:
//	  sslmode: require
//	max_open_conns: 20
//	conn_max_lifetime: 5m
//
// ${NAME} references to environment variables are expanded before the file
// is decoded. Any other $ is kept as written.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"net"
	"net/url"
	"os"
	"regexp"
	"strconv"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/lib/pq"
	"gopkg.in/yaml.v3"

	"github.com/0xhappyboy/bubble/dialect"
	"github.com/0xhappyboy/bubble/dialect/sql"
)

// ErrInvalid is matched by every validation error.
var ErrInvalid = errors.New("config: invalid database configuration")

var defaultPorts = map[string]int{
	dialect.MySQL:    3306,
	dialect.Postgres: 5432,
}

// DatabaseConfig describes how to connect to one database.
type DatabaseConfig struct {
	// Type is the dialect: "mysql", "postgres" or "sqlite".
	Type     string `yaml:"type"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"` // defaults to the standard port of Type
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	// Database is the database name, or the file path for sqlite.
	Database string `yaml:"database"`
	// Params are appended to the connection string: MySQL system variables,
	// PostgreSQL connection parameters or SQLite URI parameters.
	Params map[string]string `yaml:"params"`

	MaxOpenConns    int           `yaml:"max_open_conns"`
	MaxIdleConns    int           `yaml:"max_idle_conns"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime"`
}

// Load reads the configuration file at path.
func Load(path string) (*DatabaseConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes and validates a YAML configuration. Unknown keys are
// rejected.
func Parse(data []byte) (*DatabaseConfig, error) {
	dec := yaml.NewDecoder(bytes.NewReader(expandEnv(data)))
	dec.KnownFields(true)
	var cfg DatabaseConfig
	if err := dec.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("config: decode: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

var envRef = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)\}`)

// expandEnv replaces ${NAME} with the value of the environment variable NAME.
func expandEnv(data []byte) []byte {
	return envRef.ReplaceAllFunc(data, func(ref []byte) []byte {
		return []byte(os.Getenv(string(ref[2 : len(ref)-1])))
	})
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalid, fmt.Sprintf(format, args...))
}

// Validate reports missing or inconsistent settings.
func (c *DatabaseConfig) Validate() error {
	switch c.Type {
	case dialect.MySQL, dialect.Postgres:
		if c.Host == "" {
			return invalid("%s requires a host", c.Type)
		}
	case dialect.SQLite:
	case "":
		return invalid("missing type")
	default:
		return invalid("unsupported type %q", c.Type)
	}
	switch {
	case c.Database == "":
		return invalid("missing database")
	case c.Port < 0 || c.Port > 65535:
		return invalid("port %d out of range", c.Port)
	case c.MaxOpenConns < 0 || c.MaxIdleConns < 0 || c.ConnMaxLifetime < 0:
		return invalid("negative pool setting")
	}
	return nil
}

func (c *DatabaseConfig) addr() string {
	port := c.Port
	if port == 0 {
		port = defaultPorts[c.Type]
	}
	return net.JoinHostPort(c.Host, strconv.Itoa(port))
}

// DSN returns the connection string of the database/sql driver of Type.
func (c *DatabaseConfig) DSN() (string, error) {
	if err := c.Validate(); err != nil {
		return "", err
	}
	switch c.Type {
	case dialect.MySQL:
		mc := mysql.NewConfig()
		mc.User = c.Username
		mc.Passwd = c.Password
		mc.Net = "tcp"
		mc.Addr = c.addr()
		mc.DBName = c.Database
		mc.ParseTime = true
		if len(c.Params) > 0 {
			mc.Params = c.Params
		}
		return mc.FormatDSN(), nil
	case dialect.Postgres:
		u := &url.URL{
			Scheme:   "postgres",
			Host:     c.addr(),
			Path:     "/" + c.Database,
			RawQuery: c.query(),
		}
		if c.Username != "" {
			u.User = url.UserPassword(c.Username, c.Password)
		}
		if _, err := pq.ParseURL(u.String()); err != nil {
			return "", invalid("postgres url: %v", err)
		}
		return u.String(), nil
	default:
		if len(c.Params) == 0 {
			return c.Database, nil
		}
		return "file:" + c.Database + "?" + c.query(), nil
	}
}

func (c *DatabaseConfig) query() string {
	q := make(url.Values, len(c.Params))
	for k, v := range c.Params {
		q.Set(k, v)
	}
	return q.Encode()
}

// Open opens a driver for the database and applies the pool settings. The
// connection is established lazily by the first statement.
func (c *DatabaseConfig) Open() (*sql.Driver, error) {
	dsn, err := c.DSN()
	if err != nil {
		return nil, err
	}
	drv, err := sql.Open(c.Type, dsn)
	if err != nil {
		return nil, err
	}
	db := drv.DB()
	if c.MaxOpenConns > 0 {
		db.SetMaxOpenConns(c.MaxOpenConns)
	}
	if c.MaxIdleConns > 0 {
		db.SetMaxIdleConns(c.MaxIdleConns)
	}
	if c.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(c.ConnMaxLifetime)
	}
	return drv, nil
}

// String returns a description of the connection without the password.
func (c *DatabaseConfig) String() string {
	if c.Type == dialect.SQLite {
		return "sqlite:" + c.Database
	}
	user := c.Username
	if user != "" {
		user += "@"
	}
	return fmt.Sprintf("%s://%s%s/%s", c.Type, user, c.addr(), c.Database)
}
