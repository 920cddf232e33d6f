package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/grahms/hideblock/internal/logger"
	"github.com/grahms/hideblock/internal/site"
)

func newBuildCmd(v *viper.Viper) *cobra.Command {
	var (
		watch    bool
		debounce time.Duration
	)

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Build every page of the site",
		Long: `Build renders every page under site.source matching site.include (and no
site.exclude glob) into site.output, then writes the toggle script and stylesheet.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := getApp(cmd)
			report, err := a.builder.Build(cmd.Context())
			if err != nil {
				return err
			}
			logger.G(cmd.Context()).WithField("output", a.cfg.Site.Output).Info("site built")
			fmt.Fprintf(cmd.OutOrStdout(), "built %d pages into %s\n", len(report.Pages), a.cfg.Site.Output)
			if !watch {
				return nil
			}

			return a.builder.Watch(cmd.Context(), debounce, func(report site.Report, err error) {
				if err == nil {
					fmt.Fprintf(cmd.OutOrStdout(), "rebuilt %d pages\n", len(report.Pages))
				}
			})
		},
	}

	cmd.Flags().String("source", "", "directory holding page sources (overrides site.source)")
	cmd.Flags().String("output", "", "output directory (overrides site.output)")
	cmd.Flags().Bool("nested", false, "expand tags inside block bodies")
	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "rebuild when source files change")
	cmd.Flags().DurationVar(&debounce, "debounce", 300*time.Millisecond, "quiet period before a rebuild in watch mode")
	_ = v.BindPFlag("site.source", cmd.Flags().Lookup("source"))
	_ = v.BindPFlag("site.output", cmd.Flags().Lookup("output"))
	_ = v.BindPFlag("tags.nested", cmd.Flags().Lookup("nested"))

	return cmd
}
