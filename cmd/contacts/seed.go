package main

import (
	"context"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/rcollins/contacts/internal/types"
)

// sampleContacts is a small deterministic directory with known duplicates,
// used for demos and manual testing.
var sampleContacts = []types.ContactRecord{
	{
		ID:           "alice-1",
		DisplayName:  "Alice Chen",
		Organization: "Acme Corp",
		PhoneNumbers: []string{"+1 (555) 010-1000", "+1 555 010 1001"},
		Emails:       []string{"alice@acme.example"},
	},
	{
		ID:          "alice-2",
		DisplayName: "Alice Chen",
		Emails:      []string{"alice.chen@gmail.example"},
	},
	{
		ID:           "bob-1",
		DisplayName:  "Bob Martinez",
		PhoneNumbers: []string{"555-020-2000"},
		Emails:       []string{"bob@work.example"},
	},
	{
		ID:           "bob-2",
		DisplayName:  "Robert Martinez",
		PhoneNumbers: []string{"(555) 020-2000"},
	},
	{
		ID:          "jon-1",
		DisplayName: "Jon Smith",
		Emails:      []string{"jon.smith@mail.example"},
	},
	{
		ID:           "jon-2",
		DisplayName:  "John Smith",
		Organization: "Smith & Co",
		PhoneNumbers: []string{"555-030-3000"},
	},
	{
		ID:           "carol-1",
		DisplayName:  "Carol Okafor",
		PhoneNumbers: []string{"555-040-4000"},
		Emails:       []string{"carol@example.org"},
	},
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load sample contacts into the store",
	Long:  `Insert a small deterministic sample directory containing known duplicates, for demos and manual testing.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()

		inserted := 0
		for _, contact := range sampleContacts {
			if err := store.CreateContact(ctx, contact); err != nil {
				fmt.Fprintf(os.Stderr, "Error: failed to insert %s: %v\n", contact.ID, err)
				os.Exit(1)
			}
			inserted++
		}

		green := color.New(color.FgGreen).SprintFunc()
		fmt.Printf("%s Inserted %d sample contact(s). Run 'contacts scan' next.\n", green("✓"), inserted)
	},
}

func init() {
	rootCmd.AddCommand(seedCmd)
}
