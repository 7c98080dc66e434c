package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ritankar/dost/internal/journal"
)

var logCmd = &cobra.Command{
	Use:   "log",
	Short: "Print recent diagnostic journal entries",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		dbPath, err := resolveDBPath(cmd)
		if err != nil {
			return fmt.Errorf("resolve journal path: %w", err)
		}
		j, err := journal.Open(dbPath)
		if err != nil {
			return fmt.Errorf("open journal: %w", err)
		}
		defer func() { _ = j.Close() }()

		entries, err := j.Recent(cmd.Context(), limit)
		if err != nil {
			return fmt.Errorf("read journal: %w", err)
		}
		if len(entries) == 0 {
			fmt.Println("No journal entries yet.")
			return nil
		}
		for _, e := range entries {
			fmt.Printf("%s  %-12s %s\n", e.At.Local().Format("2006-01-02 15:04:05"), e.Kind, e.Detail)
		}
		return nil
	},
}

func init() {
	logCmd.Flags().Int("limit", 50, "Maximum number of entries to print")
}
