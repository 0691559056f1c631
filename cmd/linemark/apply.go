package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/praetorian-inc/linemark/pkg/types"
	"github.com/spf13/cobra"
)

var (
	applyInput    string
	applyClassify bool
)

var applyCmd = &cobra.Command{
	Use:   "apply <document>",
	Short: "Apply a commit to a document's snapshot",
	Long: `Read a commit as JSON and apply it to the stored snapshot of <document>.

The commit has the form
  {"targetVersion": 2, "isSignificant": true, "edits": [...]}
With --classify the isSignificant field is ignored and the configured
heuristics decide instead. The resulting snapshot is printed as JSON.`,
	Args: cobra.ExactArgs(1),
	RunE: runApply,
}

func init() {
	applyCmd.Flags().StringVarP(&applyInput, "input", "i", "-", "Commit JSON file, or - for stdin")
	applyCmd.Flags().BoolVar(&applyClassify, "classify", false, "Decide significance with the configured heuristics")
}

func runApply(cmd *cobra.Command, args []string) error {
	doc := args[0]

	commit, err := readCommit(cmd)
	if err != nil {
		return err
	}

	t, err := openTracker()
	if err != nil {
		return err
	}
	defer t.Close()

	if t.Excluded(doc) {
		return fmt.Errorf("%s is excluded by configuration", doc)
	}
	if applyClassify {
		commit.IsSignificant = t.Classify(commit.Edits)
	}

	snap, err := t.Apply(doc, commit)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(snap)
}

func readCommit(cmd *cobra.Command) (types.Commit, error) {
	var r io.Reader = cmd.InOrStdin()
	if applyInput != "-" {
		f, err := os.Open(applyInput)
		if err != nil {
			return types.Commit{}, fmt.Errorf("opening commit: %w", err)
		}
		defer f.Close()
		r = f
	}

	var commit types.Commit
	if err := json.NewDecoder(r).Decode(&commit); err != nil {
		return types.Commit{}, fmt.Errorf("decoding commit: %w", err)
	}
	return commit, nil
}
