package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Detect duplicate contacts",
	Long:  `Analyze the contact directory and print duplicate groups with their match signal and confidence.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()

		groups, err := service.RefreshDuplicates(ctx)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: failed to scan for duplicates: %v\n", err)
			os.Exit(1)
		}

		cyan := color.New(color.FgCyan, color.Bold).SprintFunc()
		green := color.New(color.FgGreen).SprintFunc()
		gray := color.New(color.FgHiBlack).SprintFunc()

		fmt.Printf("\n%s\n\n", cyan("=== Duplicate Groups ==="))

		if len(groups) == 0 {
			fmt.Printf("  %s\n", gray("No duplicates found"))
			return
		}

		for i, g := range groups {
			primary := g.PrimaryContact()
			fmt.Printf("%s Group %d: %s (%.0f%% confidence)\n", green("●"), i+1, g.MatchType, g.Confidence*100)
			for _, c := range g.Contacts {
				marker := "  "
				if c.ID == primary.ID {
					marker = green("★ ")
				}
				details := []string{}
				if c.Organization != "" {
					details = append(details, c.Organization)
				}
				if len(c.PhoneNumbers) > 0 {
					details = append(details, fmt.Sprintf("%d phone(s)", len(c.PhoneNumbers)))
				}
				if len(c.Emails) > 0 {
					details = append(details, fmt.Sprintf("%d email(s)", len(c.Emails)))
				}
				fmt.Printf("  %s%s  %s", marker, c.ID, c.DisplayName)
				if len(details) > 0 {
					fmt.Printf("  %s", gray("("+strings.Join(details, ", ")+")"))
				}
				fmt.Println()
			}
			fmt.Println()
		}
		fmt.Printf("Found %d group(s). Run 'contacts review' to merge.\n", len(groups))
	},
}

func init() {
	rootCmd.AddCommand(scanCmd)
}
