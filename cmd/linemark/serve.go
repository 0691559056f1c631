package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/praetorian-inc/linemark/pkg/serve"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run as an NDJSON streaming server for editor integrations",
	Long: `Run Linemark as a long-lived server that accepts requests via stdin and
writes responses to stdout, one JSON object per line.

The process opens the store once at startup and handles requests until stdin
closes, a close request arrives, or SIGTERM is received.`,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	t, err := openTracker()
	if err != nil {
		return err
	}
	defer t.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)
	defer signal.Stop(sigChan)

	go func() {
		select {
		case <-sigChan:
			cancel()
		case <-ctx.Done():
		}
	}()

	srv := serve.NewServer(t, cmd.InOrStdin(), cmd.OutOrStdout())
	return srv.Run(ctx)
}
