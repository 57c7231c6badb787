package cmd

import (
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/exp/slog"

	"credvault/internal/app/server/config"
	"credvault/internal/logger"
)

var (
	cfg *config.Config
	log *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "credvault-admin",
	Short: "Administrative tooling for the credvault server",
	Long: `credvault-admin runs operator tasks against a credvault deployment:
generating encryption keys, applying database migrations and issuing
session tokens for users. Configuration comes from the same environment
variables the server reads.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		cfg = config.MustLoad()
		log = logger.New(cfg.Env)
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		color.Red("Error: %v", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(keygenCmd, migrateCmd, tokenCmd)
}
