package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ritankar/dost/internal/api"
	"github.com/ritankar/dost/internal/app"
	"github.com/ritankar/dost/internal/journal"
	"github.com/ritankar/dost/internal/logging"
)

// runApp builds the backend client, the journal and the logger, then
// launches the TUI.
func runApp(cmd *cobra.Command) error {
	log := logging.FromEnv()

	cfg := api.ConfigFromEnv()
	if base, _ := cmd.Flags().GetString("api"); base != "" {
		cfg.BaseURL = base
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("backend config: %w", err)
	}

	opts := app.Options{
		Backend: api.NewClient(cfg, log),
		Events:  api.NewSSESource(cfg, log),
		Log:     log,
	}

	// A broken journal degrades to a no-op; the session itself never
	// depends on it.
	dbPath, err := resolveDBPath(cmd)
	if err == nil {
		opts.Journal, err = journal.Open(dbPath)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "Journal unavailable:", err)
		opts.Journal = journal.Nop()
	} else {
		defer func() { _ = opts.Journal.Close() }()
	}

	return app.Run(opts)
}
