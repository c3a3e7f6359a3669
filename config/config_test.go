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

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "app.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, "sqlite", cfg.Database.Type)
	assert.Equal(t, ":memory:", cfg.Database.Name)
	assert.Equal(t, 5, cfg.Pagination.DefaultSize)
	assert.Equal(t, 2000, cfg.Pagination.MaxSize)
	assert.True(t, cfg.Seed.Enabled)
	assert.Equal(t, 100, cfg.Seed.Count)
	assert.Equal(t, []string{"*"}, cfg.CORS.AllowOrigins)
}

func TestLoad_FileAndEnvironment(t *testing.T) {
	path := writeConfig(t, `
server:
  addr: ":9090"
  shutdown_timeout: 3s
database:
  type: postgres
  host: localhost
  port: 5432
  name: roster
  username: roster
seed:
  count: 10
`)
	t.Setenv("ROSTER_DATABASE_PASSWORD", "from-env")
	t.Setenv("ROSTER_SEED_ENABLED", "false")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":9090", cfg.Server.Addr)
	assert.Equal(t, 3*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, "from-env", cfg.Database.Password)
	assert.Equal(t, 10, cfg.Seed.Count)
	assert.False(t, cfg.Seed.Enabled)

	dbCfg := cfg.ConfigLoader()
	assert.Equal(t, "postgres", dbCfg.ConnectionConfig.Type)
	assert.Equal(t, "roster", dbCfg.ConnectionConfig.DBName)
	assert.Equal(t, "from-env", dbCfg.ConnectionConfig.Password)
	assert.True(t, dbCfg.DataMigrateConfig.EnableMigrateOnStartup)
	assert.Equal(t, "configs/sql", dbCfg.DataInitConfig.Filepath)
}

func TestLoad_ConfigPathFromEnvironment(t *testing.T) {
	path := writeConfig(t, "server:\n  addr: \":7070\"\n")
	t.Setenv("ROSTER_CONFIG", path)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, ":7070", cfg.Server.Addr)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "unknown database type", content: "database:\n  type: oracle\n"},
		{name: "missing host", content: "database:\n  type: mysql\n  name: roster\n"},
		{name: "default size above max", content: "pagination:\n  default_size: 50\n  max_size: 10\n"},
		{name: "bad log level", content: "log:\n  level: loud\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content))
			assert.ErrorContains(t, err, "invalid config")
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestLogOptions(t *testing.T) {
	cfg := &AppConfig{Log: LogConfig{Level: "debug", File: LogFileConfig{Enabled: true, Dir: "var/log", MaxBackups: 2}}}
	opts := cfg.LogOptions()
	assert.Equal(t, "debug", opts.Level)
	assert.True(t, opts.FileEnabled)
	assert.Equal(t, "var/log", opts.FileDir)
	assert.Equal(t, 2, opts.MaxBackups)
}
