package cmd

import (
	"github.com/ritankar/dost/internal/journal"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "dost",
	Short: "A companion for overwhelming days",
	Long:  "Dost — a terminal companion that checks in on your day, plans around it, and keeps you sharp through the noise.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd)
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite journal file (overrides DOST_DB env var)")
	rootCmd.PersistentFlags().String("api", "", "Backend base URL (overrides DOST_API_URL env var)")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(updateCmd)
	rootCmd.AddCommand(logCmd)
}

// resolveDBPath returns the journal path using --db flag (highest priority),
// then DOST_DB env var, then the default XDG path.
func resolveDBPath(cmd *cobra.Command) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, journal.EnsureDir(p)
	}
	return journal.DefaultPath()
}
