package main

import (
	"context"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/grahms/hideblock"
	"github.com/grahms/hideblock/internal/config"
	"github.com/grahms/hideblock/internal/logger"
	"github.com/grahms/hideblock/internal/site"
	"github.com/grahms/hideblock/markup"
)

type ctxKey string

const appKey ctxKey = "app"

// app is everything a subcommand needs, built once from the configuration.
type app struct {
	cfg     *config.Config
	builder *site.Builder
}

func newRootCmd() *cobra.Command {
	var cfgPath string
	v := viper.New()

	cmd := &cobra.Command{
		Use:   "hideblock",
		Short: "Render collapsible hidden blocks in markdown pages",
		Long: `hideblock expands {% hide Title %} ... {% endhide %} blocks in markdown pages into
collapsible HTML fragments and builds the pages into a static site.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cfgPath != "" {
				v.SetConfigFile(cfgPath)
			}
			if err := config.Load(cmd.Context(), v); err != nil {
				return err
			}
			cfg, err := config.Decode(v)
			if err != nil {
				return err
			}
			err = logger.Configure(logger.Options{
				Level:  cfg.Log.Level,
				Format: cfg.Log.Format,
				Output: cmd.ErrOrStderr(),
			})
			if err != nil {
				return errors.Wrap(err, "invalid log level")
			}

			a, err := buildApp(cfg)
			if err != nil {
				return err
			}
			cmd.SetContext(context.WithValue(cmd.Context(), appKey, a))
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&cfgPath, "config", "", "path to config file (default ./hideblock.yaml)")
	cmd.PersistentFlags().String("log-level", "", "log level: debug, info, warn, error")
	cmd.PersistentFlags().String("log-format", "", "log format: fmt or json")
	_ = v.BindPFlag("log.level", cmd.PersistentFlags().Lookup("log-level"))
	_ = v.BindPFlag("log.format", cmd.PersistentFlags().Lookup("log-format"))

	cmd.AddCommand(newRenderCmd(v))
	cmd.AddCommand(newBuildCmd(v))
	cmd.AddCommand(newAssetsCmd())
	cmd.AddCommand(newConfigCmd(v))
	cmd.AddCommand(newVersionCmd())

	cmd.Run = func(cmd *cobra.Command, args []string) { _ = cmd.Help() }

	return cmd
}

// buildApp wires the tag engine, markup renderer and site builder from cfg.
func buildApp(cfg *config.Config) (*app, error) {
	md := markup.New(cfg.Markup)

	var hiddenOpts []hideblock.HiddenOption
	if cfg.Tags.SanitizeTitles {
		hiddenOpts = append(hiddenOpts, hideblock.WithTitleFilter(markup.SanitizeTitle))
	}
	reg := hideblock.NewRegistry()
	hideblock.RegisterHidden(reg, cfg.Tags.Hide, md.Func(), hiddenOpts...)

	policy, _ := hideblock.ParseUnknownTagPolicy(cfg.Tags.Unknown)
	engineOpts := []func(*hideblock.Engine){hideblock.WithUnknownPolicy(policy)}
	if cfg.Tags.Nested {
		engineOpts = append(engineOpts, hideblock.WithNestedExpansion())
	}
	if cfg.Tags.TitlePattern != "" {
		validators := hideblock.NewValidatorRegistry()
		if err := validators.RegisterRegex(cfg.Tags.Hide, cfg.Tags.TitlePattern, "titles must match "+cfg.Tags.TitlePattern); err != nil {
			return nil, err
		}
		engineOpts = append(engineOpts, hideblock.WithValidators(validators))
	}

	builder, err := site.New(cfg.Site, hideblock.NewEngine(reg, engineOpts...), md)
	if err != nil {
		return nil, err
	}
	return &app{cfg: cfg, builder: builder}, nil
}

func getApp(cmd *cobra.Command) *app {
	a, _ := cmd.Context().Value(appKey).(*app)
	return a
}
