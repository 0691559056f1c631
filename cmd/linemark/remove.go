package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"
)

var removeCmd = &cobra.Command{
	Use:   "remove <document> <start-line> <end-line> <created-at>",
	Short: "Remove one annotation from a document",
	Long: `Remove the annotation of <document> that exactly matches the given line
range and creation time. <created-at> is an RFC 3339 timestamp as printed by
"linemark report --format json".`,
	Args: cobra.ExactArgs(4),
	RunE: runRemove,
}

func runRemove(cmd *cobra.Command, args []string) error {
	doc := args[0]
	start, err := strconv.Atoi(args[1])
	if err != nil {
		return fmt.Errorf("invalid start line %q: %w", args[1], err)
	}
	end, err := strconv.Atoi(args[2])
	if err != nil {
		return fmt.Errorf("invalid end line %q: %w", args[2], err)
	}
	createdAt, err := time.Parse(time.RFC3339Nano, args[3])
	if err != nil {
		return fmt.Errorf("invalid timestamp %q: %w", args[3], err)
	}

	t, err := openTracker()
	if err != nil {
		return err
	}
	defer t.Close()

	snap, err := t.Remove(doc, start, end, createdAt)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Removed lines %d-%d from %s (%d annotations left)\n",
		start, end, doc, len(snap.Annotations))
	return nil
}
