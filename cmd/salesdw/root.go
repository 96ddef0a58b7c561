package main

import (
	"strings"

	"github.com/smallbiznis/salesdw/internal/config"
	"github.com/spf13/cobra"
)

var Version = "0.1.0"

type rootOptions struct {
	pipelineConfig string
	autoMigrate    bool
}

func (o *rootOptions) decorateConfig(cfg config.Config) config.Config {
	if path := strings.TrimSpace(o.pipelineConfig); path != "" {
		cfg.PipelineConfigPath = path
	}
	if o.autoMigrate {
		cfg.AutoMigrate = true
	}
	return cfg
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:   "salesdw",
		Short: "Sales data warehouse loader",
		Long: `salesdw extracts customers, products and orders into staging, keeps the
customer and product dimensions as slowly changing history, verifies the
status and calendar dimensions, and reloads the sales fact table.

Database settings come from the environment (see .env). Pipeline settings
come from pipeline.yml.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&opts.pipelineConfig, "pipeline-config", "", "path to pipeline.yml (default: /etc/salesdw or ./pipeline.yml)")
	rootCmd.PersistentFlags().BoolVar(&opts.autoMigrate, "migrate", false, "create the warehouse schema before running")

	rootCmd.AddCommand(newRunCmd(opts))
	rootCmd.AddCommand(newServeCmd(opts))
	rootCmd.AddCommand(newVerifyCmd(opts))
	rootCmd.AddCommand(newSeedCmd(opts))
	rootCmd.AddCommand(newMigrateCmd(opts))

	return rootCmd
}
