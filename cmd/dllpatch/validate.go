package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(newValidateCmd())
}

func newValidateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check that every patch is in a recognized state",
		Long: `The validate command checks that the bytes of every configured patch
match one of its declared states. All patches are checked; every
unrecognized one is reported.

Exit status is 3 when any patch is unrecognized, 2 for configuration
errors (including offsets past the end of a file).

Example:
  dllpatch validate
  dllpatch validate --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(args)
		},
	}
	return cmd
}

func runValidate(_ []string) error {
	set, err := openSession()
	if err != nil {
		return err
	}
	defer set.Close()

	problems := set.ValidateAll()
	count := 0
	for _, msgs := range problems {
		count += len(msgs)
	}

	// Output as JSON if requested
	if jsonOut {
		result := map[string]interface{}{
			"valid":  count == 0,
			"errors": problems,
		}
		if err := printJSON(result); err != nil {
			return err
		}
	} else {
		for _, t := range set.Targets() {
			msgs, bad := problems[t.Name()]
			if !bad {
				printInfo("✓ %s loaded successfully\n", t.Path())
				continue
			}
			printInfo("✗ %s\n", t.Path())
			for _, msg := range msgs {
				printInfo("    %s\n", msg)
			}
		}
	}

	if count > 0 {
		return fmt.Errorf("%d patch(es) not recognized: %w", count, errUnrecognized)
	}
	return nil
}
