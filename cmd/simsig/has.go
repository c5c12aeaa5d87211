package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/srozzo/simsig"
)

var hasCmd = &cobra.Command{
	Use:   "has <signal>",
	Short: "Report whether a signal exists on this platform",
	Long: `Exit with status 0 when the signal is known and 1 otherwise. The signal can
be a name with or without the SIG prefix, in any case, or a number.

  simsig has SIGWINCH
  simsig has term
  simsig has 15`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := simsig.Resolve(args[0])
		if err != nil {
			return exitCodeError{code: 1}
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s %d\n", id.Name, int(id.Num))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(hasCmd)
}
