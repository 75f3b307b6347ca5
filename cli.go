package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/chazu/holeplate/pkg/config"
	"github.com/chazu/holeplate/pkg/layout"
	"github.com/chazu/holeplate/pkg/macro"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

// cli holds the state shared by all commands.
type cli struct {
	logger *log.Logger
	app    *App
}

func newCLI(logw io.Writer, level log.Level) *cli {
	logger := newLogger(logw, level)
	return &cli{logger: logger, app: NewApp(logger)}
}

// rootCommand creates the root command with all subcommands registered.
func (c *cli) rootCommand() *cobra.Command {
	var verbose bool

	root := &cobra.Command{
		Use:           "holeplate",
		Short:         "holeplate lays out drill holes on a circular plate",
		Long:          `holeplate computes a symmetric grid of drill holes inside a circular plate and writes it as a CAD macro, a CSV dump, or DXF/SVG drawings.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if verbose {
				c.logger.SetLevel(log.DebugLevel)
			}
			cmd.SetContext(withLogger(cmd.Context(), c.logger))
		},
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")

	root.AddCommand(c.generateCommand())
	root.AddCommand(c.edgesCommand())
	root.AddCommand(c.checkCommand())
	return root
}

type generateOpts struct {
	output string
	dump   string
	style  string
	dxf    string
	svg    string
	print  bool
}

func (c *cli) generateCommand() *cobra.Command {
	var opts generateOpts

	cmd := &cobra.Command{
		Use:   "generate <config> [quadrants]",
		Short: "Generate the hole layout and write its outputs",
		Long: `Generate the hole layout described by a JSON, TOML or Lisp recipe file.

The optional quadrants argument (one..four or 1..4) overrides the configured coverage.
With --print the macro lines go to stdout and no macro file is stitched.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.app.LoadConfig(args[0])
			if err != nil {
				return err
			}
			if len(args) == 2 {
				q, err := layout.ParseQuadrant(args[1])
				if err != nil {
					return err
				}
				cfg.Quadrants = q
			}
			cfg = opts.apply(cfg)

			res, err := c.app.Run(cmd.Context(), cfg, RunOptions{SkipMacro: opts.print})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if opts.print {
				style, err := macro.ParseStyle(cfg.Style)
				if err != nil {
					return err
				}
				return macro.WriteLines(out, res.Holes, style)
			}
			printSuccess(out, "%d holes, coverage %s", res.Summary.Total, cfg.Quadrants)
			for _, p := range res.Written {
				printFile(out, p)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "macro file to write (overrides target_file_name)")
	cmd.Flags().StringVar(&opts.dump, "dump", "", "also write the layout as CSV")
	cmd.Flags().StringVar(&opts.style, "style", "", "macro line style: tuple or typed")
	cmd.Flags().StringVar(&opts.dxf, "dxf", "", "also write the drilled plate as DXF")
	cmd.Flags().StringVar(&opts.svg, "svg", "", "also write the drilled plate as SVG")
	cmd.Flags().BoolVar(&opts.print, "print", false, "print macro lines to stdout instead of stitching")
	return cmd
}

// apply overrides cfg with the flags that were set. Flag paths are taken
// relative to the working directory.
func (o generateOpts) apply(cfg config.Config) config.Config {
	set := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	set(&cfg.TargetFile, o.output)
	set(&cfg.DumpFile, o.dump)
	set(&cfg.Style, o.style)
	set(&cfg.DXFFile, o.dxf)
	set(&cfg.SVGFile, o.svg)
	return cfg
}

func (c *cli) edgesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "edges <config>",
		Short: "Print the edge-distance table",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.app.LoadConfig(args[0])
			if err != nil {
				return err
			}
			if err := cfg.ValidateGeometry(); err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			printGeometry(out, cfg.Geometry())
			fmt.Fprintln(out)
			printEdgeTable(out, cfg.Spec().EdgeTable())
			return nil
		},
	}
}

func (c *cli) checkCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "check <config>",
		Short: "Validate a configuration and summarize its layout",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.app.LoadConfig(args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			verr := cfg.Validate()
			var verrs config.ValidationErrors
			if errors.As(verr, &verrs) {
				printValidation(out, verrs)
				if cfg.ValidateGeometry() != nil {
					return verr
				}
			}

			holes, err := c.app.Layout(cfg)
			if err != nil {
				return err
			}
			printGeometry(out, cfg.Geometry())
			printSummary(out, layout.Summarize(holes))
			if verr != nil {
				return verr
			}
			printSuccess(out, "%s is valid", args[0])
			return nil
		},
	}
}
