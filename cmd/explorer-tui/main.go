// ArchiveLens TUI - Terminal User Interface for exploring archived accounts.
// Browse the account directory, open explorer sessions, and read reports
// without leaving the terminal.
package main

import (
	"fmt"
	"os"

	"github.com/iconidentify/archivelens/cmd/explorer-tui/internal/config"
	"github.com/iconidentify/archivelens/cmd/explorer-tui/internal/ui"
)

func main() {
	cfg := config.Load()

	app, err := ui.NewApp(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing TUI: %v\n", err)
		os.Exit(1)
	}

	if err := app.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running TUI: %v\n", err)
		os.Exit(1)
	}
}
