package main

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/olfat123/profile-creator/config"
	"github.com/olfat123/profile-creator/internal/logger"
)

var (
	settings *config.Settings
	log      *logrus.Logger
)

var rootCmd = &cobra.Command{
	Use:   "profile-creator",
	Short: "Profile submission service",
	Long: `profile-creator accepts consultant and partner profile submissions,
registers the submitting visitor and publishes one profile record per form.

Run without arguments to start the HTTP server.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		s, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		settings = s
		log = logger.New(s.LogLevel, s.LogFormat)
		return nil
	},
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd, migrateCmd, seedTaxonomyCmd, adminTokenCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
