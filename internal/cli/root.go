/*
Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

// Package cli wires the deckplan commands: one-shot planning from CSV files,
// master imports into Postgres, and the API server.
package cli

import (
	"context"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/deckplan/deckplan/internal/config"
)

type configKey struct{}

func withConfig(ctx context.Context, cfg *config.Config) context.Context {
	return context.WithValue(ctx, configKey{}, cfg)
}

func configFrom(ctx context.Context) *config.Config {
	cfg, _ := ctx.Value(configKey{}).(*config.Config)
	return cfg
}

// NewRootCommand builds the deckplan command tree. Configuration is loaded
// once in the persistent pre-run and handed to subcommands through the
// command context.
func NewRootCommand() *cobra.Command {
	var configPath string
	root := &cobra.Command{
		Use:           "deckplan",
		Short:         "Multi-day truck loading planner",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			logger, err := cfg.Logger()
			if err != nil {
				return err
			}
			zap.ReplaceGlobals(logger)
			cmd.SetContext(withConfig(cmd.Context(), cfg))
			return nil
		},
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "path to a TOML configuration file")
	root.AddCommand(newPlanCommand(), newImportCommand(), newServeCommand(), newVersionCommand())
	return root
}

// Execute runs the CLI and returns its error, if any, after logging it.
func Execute() error {
	if err := NewRootCommand().Execute(); err != nil {
		zap.S().Errorw("command failed", "error", err)
		return err
	}
	return nil
}
