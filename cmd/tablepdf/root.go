package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/wudi/pdftable/observability"
)

// fileConfig is the YAML file given with --config. Flags set on the command
// line take precedence over it.
type fileConfig struct {
	Page           string  `yaml:"page,omitempty"`
	TopMargin      float64 `yaml:"top_margin,omitempty"`
	BottomMargin   float64 `yaml:"bottom_margin,omitempty"`
	LeftMargin     float64 `yaml:"left_margin,omitempty"`
	Width          float64 `yaml:"width,omitempty"`
	Compress       *bool   `yaml:"compress,omitempty"`
	MaxImagePixels int     `yaml:"max_image_pixels,omitempty"`
	Title          string  `yaml:"title,omitempty"`
	LogLevel       string  `yaml:"log_level,omitempty"`
	LogFormat      string  `yaml:"log_format,omitempty"`
}

func loadConfig(path string) (fileConfig, error) {
	var cfg fileConfig
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// globals holds the state shared by all subcommands once the persistent
// flags are resolved.
type globals struct {
	configFile string
	logLevel   string
	logFormat  string

	cfg    fileConfig
	logger observability.Logger
	stdout io.Writer
	stderr io.Writer
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	g := &globals{stdout: stdout, stderr: stderr, logger: observability.NopLogger{}}

	root := &cobra.Command{
		Use:   "tablepdf",
		Short: "Render tables to paginated PDF",
		Long: `tablepdf lays out a table read from an HTML, Markdown or YAML file
onto fixed-size pages and writes it as PDF.

The input format is taken from the file extension (.html, .htm, .md,
.markdown, .yaml, .yml) unless --format is given.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(g.configFile)
			if err != nil {
				return err
			}
			g.cfg = cfg
			level, format := g.logLevel, g.logFormat
			if !cmd.Flags().Changed("log-level") && cfg.LogLevel != "" {
				level = cfg.LogLevel
			}
			if !cmd.Flags().Changed("log-format") && cfg.LogFormat != "" {
				format = cfg.LogFormat
			}
			g.logger, err = observability.NewCLILogger(g.stderr, level, format)
			return err
		},
	}
	root.SetOut(stdout)
	root.SetErr(stderr)

	flags := root.PersistentFlags()
	flags.StringVar(&g.configFile, "config", "", "YAML file with default settings")
	flags.StringVar(&g.logLevel, "log-level", "warn", "log level: debug, info, warn or error")
	flags.StringVar(&g.logFormat, "log-format", "text", "log format: text, json or json-pretty")

	root.AddCommand(newRenderCmd(g), newPlanCmd(g))
	return root
}

var errUsage = errors.New("usage error")
