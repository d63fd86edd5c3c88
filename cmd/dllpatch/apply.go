package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/joshuapare/dllpatch/patch"
)

func init() {
	rootCmd.AddCommand(newToggleCmd("enable", true), newToggleCmd("disable", false), newSelectCmd())
}

func newToggleCmd(use string, on bool) *cobra.Command {
	side := "off"
	if on {
		side = "on"
	}
	cmd := &cobra.Command{
		Use:   use + " <file> <patch>",
		Short: fmt.Sprintf("Write the %s bytes of a toggle patch", side),
		Long: fmt.Sprintf(`The %s command writes the bytes of every entry of a toggle patch and
flushes them to disk. <file> is the config name of the DLL, without suffix.

If a multi-entry patch fails partway the file is left partially patched and
the error says which entry failed.

Example:
  dllpatch %s game "Skip intro"`, use, use),
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runToggle(args, on)
		},
	}
	return cmd
}

func newSelectCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "select <file> <patch> <choice>",
		Short: "Write the bytes of one choice of a union patch",
		Long: `The select command writes the bytes of the named choice of a union patch
and flushes them to disk.

Example:
  dllpatch select game Resolution 1080p`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSelect(args)
		},
	}
	return cmd
}

func runToggle(args []string, on bool) error {
	fileName, ruleName := args[0], args[1]

	set, err := openSession()
	if err != nil {
		return err
	}
	defer set.Close()

	t, err := set.Target(fileName)
	if err != nil {
		return err
	}
	tg, err := t.Toggle(ruleName)
	if err != nil {
		return err
	}

	before, _ := tg.Classify()
	printVerbose("%s: %q is %s\n", t.Path(), ruleName, before)

	if err := tg.Apply(on); err != nil {
		return fmt.Errorf("failed to apply patch: %w", err)
	}
	return reportApplied(t, tg, before)
}

func runSelect(args []string) error {
	fileName, ruleName, choice := args[0], args[1], args[2]

	set, err := openSession()
	if err != nil {
		return err
	}
	defer set.Close()

	t, err := set.Target(fileName)
	if err != nil {
		return err
	}
	u, err := t.Union(ruleName)
	if err != nil {
		return err
	}

	before, _ := u.Classify()
	printVerbose("%s: %q is %s\n", t.Path(), ruleName, before)

	if err := u.Apply(choice); err != nil {
		return fmt.Errorf("failed to apply patch: %w", err)
	}
	return reportApplied(t, u, before)
}

// reportApplied re-reads the rule after a write and prints the new state.
func reportApplied(t *patch.Target, r patch.Rule, before patch.State) error {
	after, err := r.Classify()
	if err != nil {
		return fmt.Errorf("patch written but not recognized afterwards: %w", err)
	}

	// Output as JSON if requested
	if jsonOut {
		return printJSON(map[string]interface{}{
			"file":    t.Name(),
			"path":    t.Path(),
			"patch":   r.Name(),
			"before":  before.String(),
			"after":   after.String(),
			"changed": before != after,
		})
	}

	// Text output
	if before == after {
		printInfo("%q already %s in %s\n", r.Name(), after, t.Path())
		return nil
	}
	printInfo("✓ %q %s in %s\n", r.Name(), after, t.Path())
	return nil
}
