package main

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/grahms/hideblock/internal/version"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version information",
		Long:  `Print the version information of hideblock in JSON format.`,
		Args:  cobra.NoArgs,
		// Version output does not depend on configuration.
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := version.Get().JSON()
			if err != nil {
				return errors.Wrap(err, "failed to format version info")
			}
			fmt.Fprintln(cmd.OutOrStdout(), out)
			return nil
		},
	}
}
