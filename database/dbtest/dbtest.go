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

// Package dbtest opens migrated in-memory sqlite databases for tests.
package dbtest

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"

	"github.com/tomoncle/roster/database"
)

// Open returns a connection to a private in-memory sqlite database with the
// registered models created. The connection is closed when the test ends.
func Open(t testing.TB) *bun.DB {
	t.Helper()
	cfg := database.DefaultConnectionConfig()
	cfg.DBName = fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.NewReplacer("/", "_", " ", "_").Replace(t.Name()))
	cfg.HealthCheckInterval = 0

	manager := database.NewDatabaseManager(cfg)
	require.NoError(t, manager.Connect(context.Background()))
	t.Cleanup(func() { _ = manager.Disconnect() })

	migrations := &database.Config{
		ConnectionConfig:  *cfg,
		DataMigrateConfig: database.DataMigrateConfig{EnableMigrateOnStartup: true},
	}
	require.NoError(t, database.NewMigrationManager(manager.GetDB(), migrations, nil).RunMigrations(context.Background()))
	return manager.GetDB()
}
