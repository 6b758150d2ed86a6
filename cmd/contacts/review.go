package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rcollins/contacts/internal/review"
)

var reviewCmd = &cobra.Command{
	Use:   "review",
	Short: "Start the interactive merge review shell",
	Long: `Start an interactive shell for reviewing duplicate groups.

The shell lets you:
- Scan for duplicate groups
- Open a group and choose which fields survive the merge
- Apply merges, with full undo/redo history

Type 'help' in the shell for available commands.`,
	Run: func(cmd *cobra.Command, args []string) {
		shell, err := review.New(&review.Config{Service: service})
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: failed to create review shell: %v\n", err)
			os.Exit(1)
		}

		if err := shell.Run(context.Background()); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(reviewCmd)
}
