// Copyright 2026 The Debride Authors
//
// Licensed under the Business Source License 1.1 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://mariadb.com/bsl11
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/debridehq/debride/internal/config"
)

// generateConfigCmd represents the generate-config command
func newGenerateConfigCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "generate-config",
		Short: "Generate a default config file next to the executable",
		Long: `Write a commented default config.toml into the directory holding the
debride executable. Refuses to overwrite an existing config file.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			exeDir, err := executableDir()
			if err != nil {
				return err
			}

			path := filepath.Join(exeDir, config.FileName)
			if err := config.WriteTemplate(path); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Generated config at %s\n", path)
			return nil
		},
	}
}
