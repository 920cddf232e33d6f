package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/grahms/hideblock/assets"
)

func newAssetsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "assets [dir]",
		Short: "Write the toggle script and stylesheet",
		Long:  `Write hide-script.js and hide.css into dir (default: current directory).`,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) == 1 {
				dir = args[0]
			}
			written, err := assets.WriteTo(dir)
			if err != nil {
				return err
			}
			for _, path := range written {
				fmt.Fprintln(cmd.OutOrStdout(), path)
			}
			return nil
		},
	}
}
