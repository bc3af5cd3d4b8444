package config

import (
	"fmt"
	"os"
	"sync"

	"github.com/waltherrera/Social-Media-Database/logutils"

	"gopkg.in/yaml.v3"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"

	defaultConfigPath = "./etc/config.yaml"
)

type Config struct {
	Database struct {
		Driver   string `yaml:"driver"`
		Postgres struct {
			Host     string `yaml:"host"`
			Port     string `yaml:"port"`
			DBName   string `yaml:"dbname"`
			User     string `yaml:"user"`
			Password string `yaml:"password"`
			SSLMode  string `yaml:"sslmode"`
			TimeZone string `yaml:"TimeZone"`
		} `yaml:"postgres"`
		SQLitePath   string `yaml:"sqlitePath"`
		MaxIdleConns int    `yaml:"maxIdleConns"`
		MaxOpenConns int    `yaml:"maxOpenConns"`
	} `yaml:"database"`
	Server struct {
		Addr      string  `yaml:"addr"`
		Mode      string  `yaml:"mode"`
		RateLimit float64 `yaml:"rateLimit"`
		RateBurst int     `yaml:"rateBurst"`
	} `yaml:"server"`
	Log struct {
		Level string `yaml:"level"`
		File  string `yaml:"file"`
	} `yaml:"log"`
}

var (
	once   sync.Once
	config *Config
)

func GetConfig() *Config {
	once.Do(func() {
		config = initConfig()
	})
	return config
}

// initConfig reads the file named by CONFIG_PATH, falling back to ./etc/config.yaml.
func initConfig() *Config {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = defaultConfigPath
	}
	cfg, err := LoadConfig(configPath)
	if err != nil {
		logutils.Log.Error("init config", err)
		panic(err)
	}
	return cfg
}

// LoadConfig reads and validates a YAML configuration file, filling defaults
// for anything left empty.
func LoadConfig(filePath string) (*Config, error) {
	cfg := &Config{}
	if err := readConfig(filePath, cfg); err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func readConfig(filePath string, config *Config) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, config)
}

func (c *Config) applyDefaults() {
	if c.Database.Driver == "" {
		c.Database.Driver = DriverPostgres
	}
	if c.Database.Postgres.SSLMode == "" {
		c.Database.Postgres.SSLMode = "disable"
	}
	if c.Database.Postgres.TimeZone == "" {
		c.Database.Postgres.TimeZone = "UTC"
	}
	if c.Database.SQLitePath == "" {
		c.Database.SQLitePath = "./analysis.db"
	}
	if c.Database.MaxIdleConns == 0 {
		c.Database.MaxIdleConns = 5
	}
	if c.Database.MaxOpenConns == 0 {
		c.Database.MaxOpenConns = 10
	}
	if c.Server.Addr == "" {
		c.Server.Addr = ":5001"
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
}

func (c *Config) validate() error {
	switch c.Database.Driver {
	case DriverPostgres, DriverSQLite:
	default:
		return fmt.Errorf("unsupported database driver %q", c.Database.Driver)
	}
	if c.Server.RateLimit < 0 {
		return fmt.Errorf("server.rateLimit must not be negative")
	}
	return nil
}

// PostgresDSN builds the key/value connection string understood by pgx.
func (c *Config) PostgresDSN() string {
	pg := c.Database.Postgres
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=%s",
		pg.Host, pg.User, pg.Password, pg.DBName, pg.Port, pg.SSLMode, pg.TimeZone)
}
