package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mchmarny/navd/pkg/config"
	"github.com/mchmarny/navd/pkg/navigation"
	"github.com/mchmarny/navd/pkg/render"
	"github.com/mchmarny/navd/pkg/web"
)

type renderFlags struct {
	context string
	current string
	levels  map[string]string
	path    string
	sub     bool
	level   int
	format  string
}

func newRenderCmd(v *viper.Viper) *cobra.Command {
	f := renderFlags{}

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render a navigation context to stdout",
		Example: `  navd render --current fiction --sub
  navd render --context admin --levels level_1=users --format json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := loadSettings(v)
			if err != nil {
				return err
			}

			opts, err := s.configOptions()
			if err != nil {
				return err
			}

			out, err := renderNavigation(config.New(opts...), f)
			if err != nil {
				return err
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), out)
			return err
		},
	}

	cmd.Flags().StringVar(&f.context, "context", config.DefaultContext, "navigation context")
	cmd.Flags().StringVar(&f.current, "current", "", "current navigation, a key or a comma separated path")
	cmd.Flags().StringToStringVar(&f.levels, "levels", nil, "current navigation by level, e.g. level_2=fiction")
	cmd.Flags().StringVar(&f.path, "path", "", "request path used for auto highlighting")
	cmd.Flags().BoolVar(&f.sub, "sub", false, "include sub navigations")
	cmd.Flags().IntVar(&f.level, "level", 0, "render only the active container at this level")
	cmd.Flags().StringVar(&f.format, "format", web.FormatHTML, "output format: html or json")

	return cmd
}

func renderNavigation(cfg *config.Configuration, f renderFlags) (string, error) {
	root, err := cfg.Navigation(f.context)
	if err != nil {
		return "", err
	}

	explicit := navigation.Explicit{}
	switch {
	case f.current != "":
		explicit = navigation.ExplicitPath(strings.Split(f.current, ",")...)
	case len(f.levels) > 0:
		explicit = navigation.ExplicitLevels(f.levels)
	}

	req := navigation.NewRequest(f.path)
	if err := navigation.HandleExplicitNavigation(root, req, explicit); err != nil {
		return "", err
	}

	container := root
	if f.level > 0 {
		container = root.ActiveItemContainerFor(f.level, req)
	}

	switch f.format {
	case web.FormatHTML:
		if container == nil {
			return "", nil
		}
		return container.Render(req, f.sub)
	case web.FormatJSON:
		if container == nil {
			return render.NewJSON().Render(&navigation.ItemContainer{Level: f.level}, req, f.sub)
		}
		return container.Render(req, f.sub, navigation.WithRenderer(render.NewJSON))
	default:
		return "", fmt.Errorf("unsupported format %q", f.format)
	}
}
