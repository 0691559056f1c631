package main

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/praetorian-inc/linemark/pkg/explore"
	"github.com/praetorian-inc/linemark/pkg/store"
	"github.com/spf13/cobra"
)

var exploreCmd = &cobra.Command{
	Use:   "explore",
	Short: "Interactively browse and prune annotations",
	Long: `Launch an interactive TUI over the snapshot store.

Features:
  - Two-pane layout: documents and their annotations
  - Preview of annotated lines for local files
  - Remove single annotations or clear whole documents
  - Vi-style navigation (hjkl, Ctrl-f/b, g/G)
  - Open the document in $PAGER at the selected line`,
	RunE: runExplore,
}

func runExplore(cmd *cobra.Command, args []string) error {
	path := currentConfig().Store
	if path == store.MemoryPath {
		return fmt.Errorf("cannot explore an in-memory store")
	}

	model, err := explore.New(path)
	if err != nil {
		return fmt.Errorf("loading store: %w", err)
	}
	defer model.Close()

	p := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running explore TUI: %w", err)
	}

	return nil
}
