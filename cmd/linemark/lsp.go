package main

import (
	"github.com/praetorian-inc/linemark/pkg/lsp"
	"github.com/spf13/cobra"
)

var lspCmd = &cobra.Command{
	Use:   "lsp",
	Short: "Run as a language server on stdio",
	Long: `Run Linemark as a language server. Annotated ranges are published as
informational diagnostics. The server also accepts the workspace commands
linemark.recordAction, linemark.removeAnnotation and linemark.clear.`,
	RunE: runLSP,
}

func runLSP(cmd *cobra.Command, args []string) error {
	t, err := openTracker()
	if err != nil {
		return err
	}
	// The tracker is closed by the shutdown request.
	return lsp.New(t, version).RunStdio()
}
