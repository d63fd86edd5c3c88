package main

import (
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(newStatusCmd())
}

func newStatusCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "status",
		Aliases: []string{"list", "ls"},
		Short:   "Show the current state of every patch",
		Long: `The status command reads every configured DLL and reports, for each
patch, whether its bytes are enabled, disabled, set to one of its choices,
or not recognized.

Example:
  dllpatch status
  dllpatch status -c sdvx.yml --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStatus(args)
		},
	}
	return cmd
}

func runStatus(_ []string) error {
	set, err := openSession()
	if err != nil {
		return err
	}
	defer set.Close()

	reports := set.Report()

	// Output as JSON if requested
	if jsonOut {
		out := make([]fileJSON, 0, len(reports))
		for _, fr := range reports {
			out = append(out, toFileJSON(fr))
		}
		return printJSON(out)
	}

	// Text output
	for _, fr := range reports {
		printInfo("\n%s\n", fr.Path)
		if len(fr.Rules) == 0 {
			printInfo("  (no patches)\n")
			continue
		}
		for _, r := range fr.Rules {
			printInfo("  %s %-32s %s\n", marker(r), r.Name, describe(r))
		}
	}
	return nil
}
