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

package database

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun/dialect/mysqldialect"
	"github.com/uptrace/bun/dialect/pgdialect"
)

func TestForeignKeyConstraint_Statement(t *testing.T) {
	fk := DefaultForeignKeys()[0]
	assert.Equal(t, "fk_member_team_id", fk.Name())
	assert.Equal(t,
		`ALTER TABLE "member" ADD CONSTRAINT "fk_member_team_id" FOREIGN KEY ("team_id") REFERENCES "team" ("team_id") ON DELETE SET NULL`,
		fk.Statement(pgdialect.New()))

	fk.ConstraintName = "member_team"
	fk.OnUpdate = "cascade"
	assert.Equal(t,
		"ALTER TABLE `member` ADD CONSTRAINT `member_team` FOREIGN KEY (`team_id`) REFERENCES `team` (`team_id`) ON DELETE SET NULL ON UPDATE CASCADE",
		fk.Statement(mysqldialect.New()))
}

func TestForeignKeyManager_Validate(t *testing.T) {
	m := NewForeignKeyManager(nil)
	assert.Empty(t, m.ValidateConstraints())

	m.constraints = append(m.constraints, ForeignKeyConstraint{Table: "member", OnDelete: "EXPLODE"})
	errs := m.ValidateConstraints()
	assert.Len(t, errs, 4)
}

func TestConfigurableForeignKeyManager_LoadAndExport(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fk", "foreign_keys.yaml")

	fallback := NewConfigurableForeignKeyManager(&recordingLogger{}, path)
	assert.Equal(t, DefaultForeignKeys(), fallback.ListAllConstraints())

	require.NoError(t, fallback.ExportToConfig(path))
	writeSQL(t, path, `foreign_keys:
  - table: member
    column: team_id
    reference_table: team
    reference_column: team_id
    on_delete: CASCADE
    constraint_name: fk_member_team
`)

	loaded := NewConfigurableForeignKeyManager(nil, path)
	constraints := loaded.GetConstraintsByTable("MEMBER")
	require.Len(t, constraints, 1)
	assert.Equal(t, "CASCADE", constraints[0].OnDelete)
	assert.Equal(t, "fk_member_team", constraints[0].Name())
	assert.Equal(t, path, loaded.ConfigPath())
}

func TestConfigurableForeignKeyManager_ExportRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "export.yaml")
	require.NoError(t, NewForeignKeyManager(nil).ExportToConfig(path))

	reloaded := NewConfigurableForeignKeyManager(nil, path)
	require.NoError(t, reloaded.ReloadConfig())
	got := reloaded.ListAllConstraints()
	require.Len(t, got, 1)
	assert.Equal(t, "member.team_id -> team.team_id", got[0].Description)
}

func TestForeignKeyManager_AddAllSkipsFailures(t *testing.T) {
	manager := connect(t, sqliteConfig(t))
	logger := &recordingLogger{}

	// sqlite rejects ALTER TABLE ADD CONSTRAINT, so every constraint is skipped.
	added := NewForeignKeyManager(logger).AddAllForeignKeys(context.Background(), manager.GetDB())
	assert.Zero(t, added)
	assert.Equal(t, 1, logger.count("warn"))
}
