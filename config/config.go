/*
 * Copyright 2025 tomoncle.
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package config loads the application configuration from a YAML file, a
// .env file and ROSTER_ prefixed environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/tomoncle/roster/database"
	"github.com/tomoncle/roster/utils"
)

const (
	envPrefix     = "ROSTER"
	envConfigPath = "ROSTER_CONFIG"
	envFile       = ".env"
)

type AppConfig struct {
	Server     ServerConfig     `mapstructure:"server"`
	Database   DatabaseConfig   `mapstructure:"database"`
	Migrate    MigrateConfig    `mapstructure:"migrate"`
	SQLInit    SQLInitConfig    `mapstructure:"sql_init"`
	Seed       SeedConfig       `mapstructure:"seed"`
	Pagination PaginationConfig `mapstructure:"pagination"`
	Log        LogConfig        `mapstructure:"log"`
	CORS       CORSConfig       `mapstructure:"cors"`
}

type ServerConfig struct {
	Addr            string        `mapstructure:"addr" validate:"required"`
	Mode            string        `mapstructure:"mode" validate:"oneof=debug release test"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout" validate:"gte=0"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout" validate:"gte=0"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" validate:"gt=0"`
}

type DatabaseConfig struct {
	Type                string        `mapstructure:"type" validate:"required,oneof=mysql postgres postgresql sqlite sqlite3"`
	Host                string        `mapstructure:"host"`
	Port                int           `mapstructure:"port" validate:"gte=0,lte=65535"`
	Username            string        `mapstructure:"username"`
	Password            string        `mapstructure:"password"`
	Name                string        `mapstructure:"name" validate:"required"`
	SSLMode             string        `mapstructure:"sslmode"`
	MaxIdleConns        int           `mapstructure:"max_idle_conns" validate:"gte=0"`
	MaxOpenConns        int           `mapstructure:"max_open_conns" validate:"gte=1"`
	ConnMaxLifetime     time.Duration `mapstructure:"conn_max_lifetime"`
	ConnMaxIdleTime     time.Duration `mapstructure:"conn_max_idle_time"`
	ConnectTimeout      time.Duration `mapstructure:"connect_timeout" validate:"gt=0"`
	ReadTimeout         time.Duration `mapstructure:"read_timeout"`
	WriteTimeout        time.Duration `mapstructure:"write_timeout"`
	EnableReconnect     bool          `mapstructure:"enable_reconnect"`
	ReconnectInterval   time.Duration `mapstructure:"reconnect_interval"`
	MaxReconnectTries   int           `mapstructure:"max_reconnect_tries" validate:"gte=0"`
	HealthCheckInterval time.Duration `mapstructure:"health_check_interval"`
	EnableQueryLog      bool          `mapstructure:"enable_query_log"`
	SlowQueryTime       time.Duration `mapstructure:"slow_query_time"`
}

type MigrateConfig struct {
	OnStartup      bool   `mapstructure:"on_startup"`
	ForeignKeys    bool   `mapstructure:"foreign_keys"`
	ForeignKeyFile string `mapstructure:"foreign_key_file"`
}

type SQLInitConfig struct {
	OnMigration bool   `mapstructure:"on_migration"`
	Path        string `mapstructure:"path"`
	Environment string `mapstructure:"environment"`
}

// SeedConfig controls the sample members created when the server starts.
type SeedConfig struct {
	Enabled bool `mapstructure:"enabled"`
	Count   int  `mapstructure:"count" validate:"gte=0"`
}

type PaginationConfig struct {
	DefaultSize int `mapstructure:"default_size" validate:"gte=1,ltefield=MaxSize"`
	MaxSize     int `mapstructure:"max_size" validate:"gte=1"`
}

type LogConfig struct {
	Level         string        `mapstructure:"level" validate:"oneof=trace debug info warn warning error"`
	ConsoleFormat string        `mapstructure:"console_format" validate:"oneof=text json"`
	File          LogFileConfig `mapstructure:"file"`
}

type LogFileConfig struct {
	Enabled    bool   `mapstructure:"enabled"`
	Dir        string `mapstructure:"dir" validate:"required_if=Enabled true"`
	Format     string `mapstructure:"format" validate:"oneof=text json"`
	MaxSizeMB  int    `mapstructure:"max_size_mb" validate:"gte=0"`
	MaxBackups int    `mapstructure:"max_backups" validate:"gte=0"`
	MaxAgeDays int    `mapstructure:"max_age_days" validate:"gte=0"`
	Compress   bool   `mapstructure:"compress"`
}

type CORSConfig struct {
	AllowOrigins []string `mapstructure:"allow_origins"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.mode", "release")
	v.SetDefault("server.read_timeout", 10*time.Second)
	v.SetDefault("server.write_timeout", 10*time.Second)
	v.SetDefault("server.shutdown_timeout", 5*time.Second)

	v.SetDefault("database.type", "sqlite")
	v.SetDefault("database.host", "")
	v.SetDefault("database.port", 0)
	v.SetDefault("database.username", "")
	v.SetDefault("database.password", "")
	v.SetDefault("database.name", ":memory:")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_idle_conns", 10)
	v.SetDefault("database.max_open_conns", 100)
	v.SetDefault("database.conn_max_lifetime", time.Hour)
	v.SetDefault("database.conn_max_idle_time", 30*time.Minute)
	v.SetDefault("database.connect_timeout", 10*time.Second)
	v.SetDefault("database.read_timeout", 30*time.Second)
	v.SetDefault("database.write_timeout", 30*time.Second)
	v.SetDefault("database.enable_reconnect", true)
	v.SetDefault("database.reconnect_interval", 5*time.Second)
	v.SetDefault("database.max_reconnect_tries", 3)
	v.SetDefault("database.health_check_interval", 5*time.Minute)
	v.SetDefault("database.enable_query_log", false)
	v.SetDefault("database.slow_query_time", 2*time.Second)

	v.SetDefault("migrate.on_startup", true)
	v.SetDefault("migrate.foreign_keys", true)
	v.SetDefault("migrate.foreign_key_file", "configs/foreign_keys.yaml")

	v.SetDefault("sql_init.on_migration", true)
	v.SetDefault("sql_init.path", "configs/sql")
	v.SetDefault("sql_init.environment", "dev")

	v.SetDefault("seed.enabled", true)
	v.SetDefault("seed.count", 100)

	v.SetDefault("pagination.default_size", 5)
	v.SetDefault("pagination.max_size", 2000)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.console_format", "text")
	v.SetDefault("log.file.enabled", false)
	v.SetDefault("log.file.dir", "logs")
	v.SetDefault("log.file.format", "text")
	v.SetDefault("log.file.max_size_mb", 100)
	v.SetDefault("log.file.max_backups", 7)
	v.SetDefault("log.file.max_age_days", 30)
	v.SetDefault("log.file.compress", false)

	v.SetDefault("cors.allow_origins", []string{"*"})
}

// Load reads configuration. path selects the YAML file; when empty,
// ROSTER_CONFIG is used, then configs/app.yaml if present. Values from the
// environment win over the file.
func Load(path string) (*AppConfig, error) {
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load %s: %w", envFile, err)
	}

	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path == "" {
		path = os.Getenv(envConfigPath)
	}
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	} else {
		v.SetConfigName("app")
		v.SetConfigType("yaml")
		v.AddConfigPath("configs")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("read config: %w", err)
			}
		}
	}

	var cfg AppConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks struct tags of the whole configuration.
func (c *AppConfig) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if database.NormalizeType(c.Database.Type) != "sqlite" && c.Database.Host == "" {
		return fmt.Errorf("invalid config: database.host is required for %s", c.Database.Type)
	}
	return nil
}

// ConfigLoader adapts the configuration to the database package.
func (c *AppConfig) ConfigLoader() *database.Config {
	db := c.Database
	return &database.Config{
		ConnectionConfig: database.ConnectionConfig{
			Type:                database.NormalizeType(db.Type),
			Host:                db.Host,
			Port:                db.Port,
			Username:            db.Username,
			Password:            db.Password,
			DBName:              db.Name,
			SSLMode:             db.SSLMode,
			MaxIdleConns:        db.MaxIdleConns,
			MaxOpenConns:        db.MaxOpenConns,
			ConnMaxLifetime:     db.ConnMaxLifetime,
			ConnMaxIdleTime:     db.ConnMaxIdleTime,
			ConnectTimeout:      db.ConnectTimeout,
			ReadTimeout:         db.ReadTimeout,
			WriteTimeout:        db.WriteTimeout,
			EnableReconnect:     db.EnableReconnect,
			ReconnectInterval:   db.ReconnectInterval,
			MaxReconnectTries:   db.MaxReconnectTries,
			HealthCheckInterval: db.HealthCheckInterval,
			EnableQueryLog:      db.EnableQueryLog,
			SlowQueryTime:       db.SlowQueryTime,
		},
		DataMigrateConfig: database.DataMigrateConfig{
			EnableMigrateOnStartup: c.Migrate.OnStartup,
			EnableForeignKey:       c.Migrate.ForeignKeys,
			ForeignKeyFile:         c.Migrate.ForeignKeyFile,
		},
		DataInitConfig: database.DataInitConfig{
			AutoInitOnMigration: c.SQLInit.OnMigration,
			Filepath:            c.SQLInit.Path,
			Environment:         c.SQLInit.Environment,
		},
	}
}

var _ database.AbstractDatabaseConfigProvider = (*AppConfig)(nil)

// LogOptions adapts the log section to utils.LogOptions.
func (c *AppConfig) LogOptions() utils.LogOptions {
	return utils.LogOptions{
		Level:         c.Log.Level,
		ConsoleFormat: c.Log.ConsoleFormat,
		FileEnabled:   c.Log.File.Enabled,
		FileDir:       c.Log.File.Dir,
		FileFormat:    c.Log.File.Format,
		FileName:      "roster",
		MaxSizeMB:     c.Log.File.MaxSizeMB,
		MaxBackups:    c.Log.File.MaxBackups,
		MaxAgeDays:    c.Log.File.MaxAgeDays,
		Compress:      c.Log.File.Compress,
	}
}
