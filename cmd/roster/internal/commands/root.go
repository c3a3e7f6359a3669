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

package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/uptrace/bun"

	"github.com/tomoncle/roster/config"
	"github.com/tomoncle/roster/database"
	_ "github.com/tomoncle/roster/entity"
	"github.com/tomoncle/roster/utils"
)

type rootOptions struct {
	configPath string
}

// NewRootCommand builds the roster command tree.
func NewRootCommand() *cobra.Command {
	opts := &rootOptions{}
	root := &cobra.Command{
		Use:   "roster",
		Short: "Member and team sample service",
		Long: `roster serves members and teams stored through bun.

Configuration is read from configs/app.yaml (or --config / ROSTER_CONFIG),
a .env file and ROSTER_ prefixed environment variables. DB_* variables
override the database connection afterwards.`,
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "path to the YAML configuration file")

	root.AddCommand(
		newServeCommand(opts),
		newMigrateCommand(opts),
		newSeedCommand(opts),
	)
	return root
}

// loadConfig reads the configuration and applies its log settings.
func (o *rootOptions) loadConfig() (*config.AppConfig, error) {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return nil, err
	}
	if err := utils.ConfigureLogging(cfg.LogOptions()); err != nil {
		return nil, fmt.Errorf("configure logging: %w", err)
	}
	return cfg, nil
}

// connect opens the global database and runs migrations when enabled.
func connect(ctx context.Context, cfg *config.AppConfig) (*bun.DB, error) {
	return database.InitDB(ctx, cfg.ConfigLoader())
}

func shutdown() {
	_ = database.CloseDB()
	_ = utils.CloseLogFiles()
}
