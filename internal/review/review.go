// Package review implements the interactive merge review shell.
package review

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/chzyer/readline"
	"github.com/fatih/color"

	"github.com/rcollins/contacts/internal/merge"
	"github.com/rcollins/contacts/internal/organizer"
	"github.com/rcollins/contacts/internal/types"
)

// Shell is the interactive review loop: scan for duplicate groups, open one,
// toggle field selections, merge, and navigate undo/redo history.
type Shell struct {
	service *organizer.Service
	rl      *readline.Instance
	ctx     context.Context

	groups   []types.DuplicateGroup
	current  int // index into groups, -1 when none open
	plan     *merge.Plan
	commands map[string]CommandHandler
}

// CommandHandler handles a specific command
type CommandHandler func(args []string) error

// Config holds shell configuration
type Config struct {
	Service *organizer.Service
}

// New creates a review shell
func New(cfg *Config) (*Shell, error) {
	if cfg.Service == nil {
		return nil, fmt.Errorf("organizer service is required")
	}
	s := &Shell{
		service: cfg.Service,
		current: -1,
	}
	s.registerCommands()
	return s, nil
}

// Run starts the shell loop
func (s *Shell) Run(ctx context.Context) error {
	s.ctx = ctx

	cyan := color.New(color.FgCyan).SprintFunc()
	rl, err := readline.NewEx(&readline.Config{
		Prompt:            cyan("contacts> "),
		InterruptPrompt:   "^C",
		EOFPrompt:         "exit",
		HistorySearchFold: true,
	})
	if err != nil {
		return fmt.Errorf("failed to create readline: %w", err)
	}
	defer rl.Close()
	s.rl = rl

	s.printWelcome()

	for {
		line, err := rl.Readline()
		if err != nil {
			if err == readline.ErrInterrupt {
				continue
			} else if err == io.EOF {
				fmt.Println("\nGoodbye!")
				return nil
			}
			return err
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if err := s.processInput(line); err != nil {
			if err == io.EOF {
				return nil
			}
			red := color.New(color.FgRed).SprintFunc()
			fmt.Printf("%s %v\n", red("Error:"), err)
		}
	}
}

// processInput dispatches a single line of input
func (s *Shell) processInput(line string) error {
	parts := strings.Fields(line)
	command := parts[0]
	args := parts[1:]

	if handler, ok := s.commands[command]; ok {
		return handler(args)
	}
	yellow := color.New(color.FgYellow).SprintFunc()
	fmt.Printf("%s Unknown command %q. Type 'help' for available commands.\n", yellow("Note:"), command)
	return nil
}

func (s *Shell) registerCommands() {
	s.commands = map[string]CommandHandler{
		"help":    s.cmdHelp,
		"?":       s.cmdHelp,
		"exit":    s.cmdExit,
		"quit":    s.cmdExit,
		"scan":    s.cmdScan,
		"groups":  s.cmdGroups,
		"open":    s.cmdOpen,
		"name":    s.cmdName,
		"org":     s.cmdOrg,
		"photo":   s.cmdPhoto,
		"phone":   s.cmdPhone,
		"email":   s.cmdEmail,
		"merge":   s.cmdMerge,
		"undo":    s.cmdUndo,
		"redo":    s.cmdRedo,
		"history": s.cmdHistory,
	}
}

func (s *Shell) printWelcome() {
	cyan := color.New(color.FgCyan, color.Bold).SprintFunc()
	fmt.Printf("\n%s\n", cyan("Contact merge review"))
	fmt.Println("Scan for duplicates, review a group, merge, undo.")
	fmt.Println()
	fmt.Println("Type 'help' for available commands, 'exit' to quit")
	fmt.Println()
}

// cmdScan runs duplicate detection
func (s *Shell) cmdScan(args []string) error {
	groups, err := s.service.RefreshDuplicates(s.ctx)
	if err == organizer.ErrRefreshDeferred {
		yellow := color.New(color.FgYellow).SprintFunc()
		fmt.Printf("%s A refresh is already running; it will pick up this request.\n", yellow("Note:"))
		return nil
	}
	if err != nil {
		return err
	}
	s.groups = groups
	s.current = -1
	s.plan = nil

	green := color.New(color.FgGreen).SprintFunc()
	fmt.Printf("%s Found %d duplicate group(s)\n", green("✓"), len(groups))
	return s.cmdGroups(nil)
}

// cmdGroups lists the detected groups
func (s *Shell) cmdGroups(args []string) error {
	if len(s.groups) == 0 {
		gray := color.New(color.FgHiBlack).SprintFunc()
		fmt.Printf("  %s\n", gray("No duplicate groups. Run 'scan' first."))
		return nil
	}
	for i, g := range s.groups {
		names := make([]string, len(g.Contacts))
		for j, c := range g.Contacts {
			names[j] = c.DisplayName
		}
		fmt.Printf("  [%d] %s (%.0f%%): %s\n", i+1, g.MatchType, g.Confidence*100, strings.Join(names, ", "))
	}
	return nil
}

// cmdOpen starts a merge review for one group
func (s *Shell) cmdOpen(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: open <group-number>")
	}
	n, err := strconv.Atoi(args[0])
	if err != nil || n < 1 || n > len(s.groups) {
		return fmt.Errorf("invalid group number %q", args[0])
	}
	s.current = n - 1
	s.plan = merge.NewPlan(s.groups[s.current])
	s.printCurrentGroup()
	return nil
}

func (s *Shell) printCurrentGroup() {
	group := s.groups[s.current]
	primary := group.PrimaryContact()

	yellow := color.New(color.FgYellow).SprintFunc()
	green := color.New(color.FgGreen).SprintFunc()
	gray := color.New(color.FgHiBlack).SprintFunc()

	fmt.Printf("\n%s %s (%.0f%% confidence)\n", yellow("Group:"), group.MatchType, group.Confidence*100)
	for _, c := range group.Contacts {
		marker := " "
		if c.ID == primary.ID {
			marker = green("●")
		}
		fmt.Printf("  %s %s  %s", marker, c.ID, c.DisplayName)
		if c.Organization != "" {
			fmt.Printf("  (%s)", c.Organization)
		}
		fmt.Println()
		for _, phone := range c.PhoneNumbers {
			state := gray("excluded")
			if s.plan.PhoneSelected(phone) {
				state = green("included")
			}
			fmt.Printf("      phone %s [%s]\n", phone, state)
		}
		for _, email := range c.Emails {
			state := gray("excluded")
			if s.plan.EmailSelected(email) {
				state = green("included")
			}
			fmt.Printf("      email %s [%s]\n", email, state)
		}
	}
	fmt.Printf("  name from %s, organization from %s\n", s.plan.PreferredNameContactID, s.plan.PreferredOrgContactID)
	fmt.Println()
}

// requirePlan ensures a group review is open
func (s *Shell) requirePlan() error {
	if s.plan == nil {
		return fmt.Errorf("no group open; use 'open <group-number>' first")
	}
	return nil
}

// cmdName picks which contact supplies the merged display name
func (s *Shell) cmdName(args []string) error {
	if err := s.requirePlan(); err != nil {
		return err
	}
	if len(args) != 1 {
		return fmt.Errorf("usage: name <contact-id>")
	}
	if _, ok := s.groups[s.current].Member(args[0]); !ok {
		return fmt.Errorf("contact %s is not in the open group", args[0])
	}
	s.plan.PreferredNameContactID = args[0]
	return nil
}

// cmdOrg picks which contact supplies the merged organization
func (s *Shell) cmdOrg(args []string) error {
	if err := s.requirePlan(); err != nil {
		return err
	}
	if len(args) != 1 {
		return fmt.Errorf("usage: org <contact-id>")
	}
	if _, ok := s.groups[s.current].Member(args[0]); !ok {
		return fmt.Errorf("contact %s is not in the open group", args[0])
	}
	s.plan.PreferredOrgContactID = args[0]
	return nil
}

// cmdPhoto picks which contact supplies the merged photo
func (s *Shell) cmdPhoto(args []string) error {
	if err := s.requirePlan(); err != nil {
		return err
	}
	if len(args) != 1 {
		return fmt.Errorf("usage: photo <contact-id>")
	}
	if _, ok := s.groups[s.current].Member(args[0]); !ok {
		return fmt.Errorf("contact %s is not in the open group", args[0])
	}
	s.plan.PreferredPhotoContactID = args[0]
	return nil
}

// cmdPhone toggles a phone number's inclusion
func (s *Shell) cmdPhone(args []string) error {
	if err := s.requirePlan(); err != nil {
		return err
	}
	if len(args) != 1 {
		return fmt.Errorf("usage: phone <value>")
	}
	included := s.plan.TogglePhone(args[0])
	s.printToggle("phone", args[0], included)
	return nil
}

// cmdEmail toggles an email address's inclusion
func (s *Shell) cmdEmail(args []string) error {
	if err := s.requirePlan(); err != nil {
		return err
	}
	if len(args) != 1 {
		return fmt.Errorf("usage: email <value>")
	}
	included := s.plan.ToggleEmail(args[0])
	s.printToggle("email", args[0], included)
	return nil
}

func (s *Shell) printToggle(kind, value string, included bool) {
	if included {
		green := color.New(color.FgGreen).SprintFunc()
		fmt.Printf("  %s %s %s\n", green("✓"), kind, value)
	} else {
		gray := color.New(color.FgHiBlack).SprintFunc()
		fmt.Printf("  %s %s %s\n", gray("✗"), kind, value)
	}
}

// cmdMerge applies the open plan. An optional argument overrides the
// primary contact; the group's derived primary is the default.
func (s *Shell) cmdMerge(args []string) error {
	if err := s.requirePlan(); err != nil {
		return err
	}
	group := s.groups[s.current]

	primaryID := group.PrimaryContact().ID
	if len(args) == 1 {
		if _, ok := group.Member(args[0]); !ok {
			return fmt.Errorf("contact %s is not in the open group", args[0])
		}
		primaryID = args[0]
	}

	cfg := s.plan.Configuration(primaryID, group)
	merged, err := s.service.ApplyMerge(s.ctx, cfg)
	if err != nil {
		return err
	}
	s.plan = nil
	s.current = -1

	green := color.New(color.FgGreen).SprintFunc()
	fmt.Printf("%s Merged into %s (%s); deleted %d record(s). Run 'scan' to re-analyze.\n",
		green("✓"), merged.Contact.ID, merged.Contact.DisplayName, len(merged.SourceIDsToDelete))
	return nil
}

// cmdUndo reverses the most recent action
func (s *Shell) cmdUndo(args []string) error {
	performed, err := s.service.History().Undo(s.ctx)
	if err != nil {
		return fmt.Errorf("undo failed (the action is still on the stack, try again): %w", err)
	}
	if !performed {
		fmt.Println("  Nothing to undo")
		return nil
	}
	green := color.New(color.FgGreen).SprintFunc()
	fmt.Printf("%s Undone\n", green("✓"))
	return nil
}

// cmdRedo re-applies the most recently undone action
func (s *Shell) cmdRedo(args []string) error {
	performed, err := s.service.History().Redo(s.ctx)
	if err != nil {
		return fmt.Errorf("redo failed (the action is still on the stack, try again): %w", err)
	}
	if !performed {
		fmt.Println("  Nothing to redo")
		return nil
	}
	green := color.New(color.FgGreen).SprintFunc()
	fmt.Printf("%s Redone\n", green("✓"))
	return nil
}

// cmdHistory shows both stacks
func (s *Shell) cmdHistory(args []string) error {
	undoDescs, redoDescs, err := s.service.History().History(s.ctx)
	if err != nil {
		return err
	}
	yellow := color.New(color.FgYellow).SprintFunc()
	gray := color.New(color.FgHiBlack).SprintFunc()

	fmt.Printf("%s\n", yellow("Undo stack (most recent last):"))
	if len(undoDescs) == 0 {
		fmt.Printf("  %s\n", gray("empty"))
	}
	for _, desc := range undoDescs {
		fmt.Printf("  - %s\n", desc)
	}
	fmt.Printf("%s\n", yellow("Redo stack (most recent last):"))
	if len(redoDescs) == 0 {
		fmt.Printf("  %s\n", gray("empty"))
	}
	for _, desc := range redoDescs {
		fmt.Printf("  - %s\n", desc)
	}
	return nil
}

// cmdHelp shows help information
func (s *Shell) cmdHelp(args []string) error {
	cyan := color.New(color.FgCyan, color.Bold).SprintFunc()
	green := color.New(color.FgGreen).SprintFunc()
	fmt.Printf("\n%s\n\n", cyan("Available Commands:"))

	commands := []struct {
		name string
		desc string
	}{
		{"scan", "Detect duplicate groups"},
		{"groups", "List detected groups"},
		{"open <n>", "Open a group for merge review"},
		{"name <id>", "Use this contact's display name"},
		{"org <id>", "Use this contact's organization"},
		{"photo <id>", "Use this contact's photo"},
		{"phone <value>", "Toggle a phone number's inclusion"},
		{"email <value>", "Toggle an email address's inclusion"},
		{"merge [id]", "Apply the merge (optionally override the primary)"},
		{"undo", "Reverse the most recent action"},
		{"redo", "Re-apply the most recently undone action"},
		{"history", "Show the undo and redo stacks"},
		{"help, ?", "Show this help message"},
		{"exit, quit", "Exit the shell"},
	}
	for _, cmd := range commands {
		fmt.Printf("  %-16s %s\n", green(cmd.name), cmd.desc)
	}
	fmt.Println()
	return nil
}

// cmdExit exits the shell
func (s *Shell) cmdExit(args []string) error {
	green := color.New(color.FgGreen).SprintFunc()
	fmt.Printf("\n%s Goodbye!\n", green("✓"))
	s.rl.Close()
	return io.EOF
}
