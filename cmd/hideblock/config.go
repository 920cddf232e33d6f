package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/grahms/hideblock/internal/config"
)

func newConfigCmd(v *viper.Viper) *cobra.Command {
	var defaults bool

	cmd := &cobra.Command{
		Use:   "config",
		Short: "Print the configuration",
		Long: `Print the effective configuration as YAML, after merging defaults, the config
file and HIDEBLOCK_* environment variables. With --defaults, print a commented
hideblock.yaml holding every option at its default instead.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				out string
				err error
			)
			if defaults {
				out, err = config.RenderDefaultYAML()
			} else {
				out, err = config.RenderEffectiveYAML(v)
			}
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), out)
			return nil
		},
	}

	cmd.Flags().BoolVar(&defaults, "defaults", false, "print the default configuration file")
	return cmd
}
