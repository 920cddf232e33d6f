package main

import (
	"io"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/grahms/hideblock/markup"
)

func newRenderCmd(v *viper.Viper) *cobra.Command {
	var (
		output   string
		fragment bool
	)

	cmd := &cobra.Command{
		Use:   "render [file]",
		Short: "Render a single page",
		Long: `Render a markdown page, expanding hidden blocks. The page is read from file,
or from stdin when file is omitted or "-". Output goes to stdout unless --output is set.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := getApp(cmd)

			name := "stdin.md"
			var src []byte
			var err error
			if len(args) == 1 && args[0] != "-" {
				name = filepath.ToSlash(filepath.Base(args[0]))
				src, err = os.ReadFile(args[0])
			} else {
				src, err = io.ReadAll(cmd.InOrStdin())
			}
			if err != nil {
				return errors.Wrap(err, "failed to read page")
			}

			var out []byte
			if fragment {
				page, err := markup.ParsePage(src)
				if err != nil {
					return err
				}
				html, err := a.builder.RenderContent(cmd.Context(), page)
				if err != nil {
					return errors.Wrapf(err, "failed to render %s", name)
				}
				out = []byte(html)
			} else {
				out, err = a.builder.RenderPage(cmd.Context(), name, src)
				if err != nil {
					return errors.Wrapf(err, "failed to render %s", name)
				}
			}

			if output == "" {
				_, err = cmd.OutOrStdout().Write(out)
				return err
			}
			if err := os.WriteFile(output, out, 0o644); err != nil {
				return errors.Wrapf(err, "failed to write %s", output)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "write the result to this file instead of stdout")
	cmd.Flags().BoolVar(&fragment, "fragment", false, "emit the page content only, without the layout")
	cmd.Flags().Bool("sanitize-titles", false, "strip unsafe HTML from hidden-block titles")
	_ = v.BindPFlag("tags.sanitize_titles", cmd.Flags().Lookup("sanitize-titles"))

	return cmd
}
