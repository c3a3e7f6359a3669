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
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect"
	"github.com/uptrace/bun/schema"
	"gopkg.in/yaml.v3"
)

var referentialActions = []string{"CASCADE", "RESTRICT", "SET NULL", "NO ACTION"}

// ForeignKeyConstraint describes a foreign key relationship between tables.
type ForeignKeyConstraint struct {
	Table           string `yaml:"table"`
	Column          string `yaml:"column"`
	ReferenceTable  string `yaml:"reference_table"`
	ReferenceColumn string `yaml:"reference_column"`
	OnDelete        string `yaml:"on_delete,omitempty"`
	OnUpdate        string `yaml:"on_update,omitempty"`
	ConstraintName  string `yaml:"constraint_name,omitempty"`
	Description     string `yaml:"description,omitempty"`
}

// Name returns the explicit constraint name or fk_<table>_<column>.
func (fk *ForeignKeyConstraint) Name() string {
	if fk.ConstraintName != "" {
		return fk.ConstraintName
	}
	return fmt.Sprintf("fk_%s_%s", fk.Table, fk.Column)
}

// Statement renders the ALTER TABLE statement adding the constraint, with
// identifiers quoted for d.
func (fk *ForeignKeyConstraint) Statement(d schema.Dialect) string {
	sql := schema.NewFormatter(d).FormatQuery("ALTER TABLE ? ADD CONSTRAINT ? FOREIGN KEY (?) REFERENCES ? (?)",
		bun.Ident(fk.Table), bun.Ident(fk.Name()), bun.Ident(fk.Column),
		bun.Ident(fk.ReferenceTable), bun.Ident(fk.ReferenceColumn))
	if fk.OnDelete != "" {
		sql += " ON DELETE " + strings.ToUpper(fk.OnDelete)
	}
	if fk.OnUpdate != "" {
		sql += " ON UPDATE " + strings.ToUpper(fk.OnUpdate)
	}
	return sql
}

// Validate checks required names and referential actions.
func (fk *ForeignKeyConstraint) Validate() []error {
	var errs []error
	if fk.Table == "" {
		errs = append(errs, fmt.Errorf("table name cannot be empty"))
	}
	if fk.Column == "" {
		errs = append(errs, fmt.Errorf("column name cannot be empty: %s", fk.Table))
	}
	if fk.ReferenceTable == "" {
		errs = append(errs, fmt.Errorf("reference table name cannot be empty: %s.%s", fk.Table, fk.Column))
	}
	if fk.ReferenceColumn == "" {
		errs = append(errs, fmt.Errorf("reference column name cannot be empty: %s.%s -> %s", fk.Table, fk.Column, fk.ReferenceTable))
	}
	for kind, action := range map[string]string{"delete": fk.OnDelete, "update": fk.OnUpdate} {
		if action != "" && !validAction(action) {
			errs = append(errs, fmt.Errorf("invalid %s policy: %s, constraint: %s", kind, action, fk.Name()))
		}
	}
	return errs
}

func validAction(action string) bool {
	for _, a := range referentialActions {
		if strings.EqualFold(action, a) {
			return true
		}
	}
	return false
}

// DefaultForeignKeys are applied when no configuration file is available.
// Removing a team keeps its members and clears their reference.
func DefaultForeignKeys() []ForeignKeyConstraint {
	return []ForeignKeyConstraint{
		{
			Table:           "member",
			Column:          "team_id",
			ReferenceTable:  "team",
			ReferenceColumn: "team_id",
			OnDelete:        "SET NULL",
			Description:     "member.team_id -> team.team_id",
		},
	}
}

// ForeignKeyConfig is the YAML document listing foreign key constraints.
type ForeignKeyConfig struct {
	ForeignKeys []ForeignKeyConstraint `yaml:"foreign_keys"`
}

// ForeignKeyManager adds, validates and exports foreign key constraints.
type ForeignKeyManager struct {
	constraints []ForeignKeyConstraint
	configPath  string
	logger      Logger
}

// NewForeignKeyManager creates a manager with the default constraints.
func NewForeignKeyManager(logger Logger) *ForeignKeyManager {
	return &ForeignKeyManager{constraints: DefaultForeignKeys(), logger: logger}
}

// NewConfigurableForeignKeyManager loads constraints from a YAML file and
// falls back to the defaults when the file is missing or unreadable.
func NewConfigurableForeignKeyManager(logger Logger, configPath string) *ForeignKeyManager {
	m := &ForeignKeyManager{configPath: configPath, logger: logger}
	if err := m.ReloadConfig(); err != nil {
		if logger != nil {
			logger.Debug("Using default foreign key constraints", "error", err.Error(), "config_path", configPath)
		}
		m.constraints = DefaultForeignKeys()
	}
	return m
}

func loadForeignKeyConfig(path string) ([]ForeignKeyConstraint, error) {
	if path == "" {
		return nil, fmt.Errorf("no foreign key config file configured")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	var cfg ForeignKeyConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	return cfg.ForeignKeys, nil
}

// ReloadConfig refreshes constraints from the YAML configuration file.
func (m *ForeignKeyManager) ReloadConfig() error {
	constraints, err := loadForeignKeyConfig(m.configPath)
	if err != nil {
		return err
	}
	m.constraints = constraints
	return nil
}

// ExportToConfig writes the current constraints as YAML to outputPath.
func (m *ForeignKeyManager) ExportToConfig(outputPath string) error {
	exported := make([]ForeignKeyConstraint, len(m.constraints))
	for i, c := range m.constraints {
		if c.Description == "" {
			c.Description = fmt.Sprintf("%s.%s -> %s.%s", c.Table, c.Column, c.ReferenceTable, c.ReferenceColumn)
		}
		exported[i] = c
	}
	data, err := yaml.Marshal(&ForeignKeyConfig{ForeignKeys: exported})
	if err != nil {
		return fmt.Errorf("failed to serialize config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	if err := os.WriteFile(outputPath, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

func (m *ForeignKeyManager) ConfigPath() string { return m.configPath }

func (m *ForeignKeyManager) ListAllConstraints() []ForeignKeyConstraint {
	out := make([]ForeignKeyConstraint, len(m.constraints))
	copy(out, m.constraints)
	return out
}

// GetConstraintsByTable returns the constraints defined on a table.
func (m *ForeignKeyManager) GetConstraintsByTable(table string) []ForeignKeyConstraint {
	var result []ForeignKeyConstraint
	for _, c := range m.constraints {
		if strings.EqualFold(c.Table, table) {
			result = append(result, c)
		}
	}
	return result
}

// ValidateConstraints checks every constraint and returns all problems found.
func (m *ForeignKeyManager) ValidateConstraints() []error {
	var errs []error
	for i := range m.constraints {
		errs = append(errs, m.constraints[i].Validate()...)
	}
	return errs
}

// AddAllForeignKeys adds every constraint. A constraint that cannot be added,
// for instance because it already exists, is logged and skipped.
func (m *ForeignKeyManager) AddAllForeignKeys(ctx context.Context, db bun.IDB) int {
	added := 0
	for i := range m.constraints {
		c := &m.constraints[i]
		// A savepoint keeps a failed statement from aborting an enclosing
		// postgres transaction.
		err := db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
			_, err := tx.ExecContext(ctx, c.Statement(tx.Dialect()))
			return err
		})
		if err != nil {
			if m.logger != nil {
				m.logger.Warn("Failed to add foreign key constraint", "constraint", c.Name(), "error", err.Error())
			}
			continue
		}
		added++
		if m.logger != nil {
			m.logger.Debug("Added foreign key constraint", "constraint", c.Name())
		}
	}
	return added
}

// RemoveForeignKey drops a named foreign key from a table.
func (m *ForeignKeyManager) RemoveForeignKey(ctx context.Context, db bun.IDB, table, constraint string) error {
	keyword := "CONSTRAINT"
	if db.Dialect().Name() == dialect.MySQL {
		keyword = "FOREIGN KEY"
	}
	_, err := db.ExecContext(ctx, "ALTER TABLE ? DROP "+keyword+" ?", bun.Ident(table), bun.Ident(constraint))
	return err
}
