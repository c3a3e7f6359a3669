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
	"github.com/spf13/cobra"

	"github.com/tomoncle/roster/database"
)

func newMigrateCommand(opts *rootOptions) *cobra.Command {
	var initData bool
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			defer shutdown()

			dbCfg := cfg.ConfigLoader()
			dbCfg.DataMigrateConfig.EnableMigrateOnStartup = true
			if _, err := database.InitDB(cmd.Context(), dbCfg); err != nil {
				return err
			}
			if initData {
				return database.GetDatabaseFactory().InitData(cmd.Context())
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&initData, "init-data", false, "execute the SQL seed files again after migrating")
	return cmd
}
