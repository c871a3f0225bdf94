package main

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/mchmarny/navd/pkg/config"
	"github.com/mchmarny/navd/pkg/logger"
	"github.com/mchmarny/navd/pkg/navigation"
)

const (
	appName   = "navd"
	envPrefix = "NAVD"
)

// settings are the command line settings, resolved from flags, NAVD_*
// environment variables and an optional settings file, in that order.
type settings struct {
	ConfigPath      string            `mapstructure:"config_path"`
	LoadMode        string            `mapstructure:"load_mode"`
	LogLevel        string            `mapstructure:"log_level"`
	SelectedClass   string            `mapstructure:"selected_class"`
	AutoHighlight   bool              `mapstructure:"auto_highlight"`
	RenderAllLevels bool              `mapstructure:"render_all_levels"`
	Conditions      map[string]string `mapstructure:"conditions"`
	Port            int               `mapstructure:"port"`
	Watch           bool              `mapstructure:"watch"`
}

func newRootCmd() *cobra.Command {
	v := viper.New()
	var settingsFile string

	root := &cobra.Command{
		Use:          appName,
		Short:        "Serve and render hierarchical navigation menus",
		Long:         `navd builds navigation menus from declarative YAML files and renders them with the active item highlighted.`,
		Version:      fmt.Sprintf("%s (commit %s, built %s)", version, commit, date),
		SilenceUsage: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			if settingsFile != "" {
				v.SetConfigFile(settingsFile)
				if err := v.ReadInConfig(); err != nil {
					return fmt.Errorf("reading settings file %q: %w", settingsFile, err)
				}
			}

			if level := v.GetString("log_level"); level != "" {
				logger.SetDefaultLoggerWithLevel(appName, version, level)
			} else {
				logger.SetDefaultLogger(appName, version)
			}
			slog.Debug("settings resolved", "settings_file", v.ConfigFileUsed())

			return nil
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&settingsFile, "settings", "", "settings file (yaml)")
	flags.StringP("config-path", "c", "navigation", "directory holding the navigation files")
	flags.String("load-mode", string(config.LoadModeOnce), "how often navigation files are read: once or always")
	flags.String("log-level", "", "log level: debug, info, warn or error (defaults to $LOG_LEVEL)")
	flags.String("selected-class", navigation.DefaultSelectedClass, "css class of selected items")
	flags.Bool("auto-highlight", false, "select items whose url matches the request path")
	flags.Bool("render-all-levels", false, "render every sub navigation")
	flags.StringToString("condition", nil, "named condition usable from if/unless, e.g. signed_in=true")

	bindFlags(v, flags, "config-path", "load-mode", "log-level", "selected-class",
		"auto-highlight", "render-all-levels")
	_ = v.BindPFlag("conditions", flags.Lookup("condition"))

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	root.AddCommand(newServeCmd(v), newRenderCmd(v))

	return root
}

func bindFlags(v *viper.Viper, flags *pflag.FlagSet, names ...string) {
	for _, name := range names {
		_ = v.BindPFlag(strings.ReplaceAll(name, "-", "_"), flags.Lookup(name))
	}
}

func loadSettings(v *viper.Viper) (settings, error) {
	var s settings
	if err := v.Unmarshal(&s); err != nil {
		return s, fmt.Errorf("decoding settings: %w", err)
	}

	return s, nil
}

// configOptions converts settings into configuration options.
func (s settings) configOptions() ([]config.Option, error) {
	mode, err := config.ParseLoadMode(s.LoadMode)
	if err != nil {
		return nil, err
	}

	opts := []config.Option{
		config.WithPath(s.ConfigPath),
		config.WithLoadMode(mode),
		config.WithSelectedClass(s.SelectedClass),
		config.WithAutoHighlight(s.AutoHighlight),
		config.WithRenderAllLevels(s.RenderAllLevels),
		config.WithLogger(slog.Default()),
	}

	for name, raw := range s.Conditions {
		val, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, fmt.Errorf("condition %q: invalid value %q", name, raw)
		}
		opts = append(opts, config.WithCondition(name, func() bool { return val }))
	}

	return opts, nil
}
