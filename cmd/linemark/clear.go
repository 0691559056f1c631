package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var clearAll bool

var clearCmd = &cobra.Command{
	Use:   "clear [document...]",
	Short: "Delete every annotation of the given documents",
	RunE:  runClear,
}

func init() {
	clearCmd.Flags().BoolVar(&clearAll, "all", false, "Clear every stored document")
}

func runClear(cmd *cobra.Command, args []string) error {
	if len(args) == 0 && !clearAll {
		return fmt.Errorf("specify at least one document or --all")
	}

	t, err := openTracker()
	if err != nil {
		return err
	}
	defer t.Close()

	docs := args
	if clearAll {
		if docs, err = t.Documents(); err != nil {
			return fmt.Errorf("listing documents: %w", err)
		}
	}

	for _, doc := range docs {
		if err := t.Clear(doc); err != nil {
			return err
		}
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Cleared %d documents\n", len(docs))
	return nil
}
