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
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tomoncle/roster/service"
)

func newSeedCommand(opts *rootOptions) *cobra.Command {
	var count int
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Create sample members user0..userN-1",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			defer shutdown()

			if !cmd.Flags().Changed("count") {
				count = cfg.Seed.Count
			}
			db, err := connect(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			n, err := service.NewMemberService(db).Seed(cmd.Context(), count)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created %d members\n", n)
			return nil
		},
	}
	cmd.Flags().IntVarP(&count, "count", "n", 100, "number of members to create")
	return cmd
}
