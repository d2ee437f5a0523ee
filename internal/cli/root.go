package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/RyanBlaney/capillary/internal/input"
	"github.com/RyanBlaney/capillary/internal/output"
	"github.com/RyanBlaney/capillary/logging"
)

var version = "0.1.0"

// globalOptions holds the persistent flags shared by every command
type globalOptions struct {
	logLevel  string
	noColor   bool
	output    string
	formatter output.FormatProvider
}

// NewRootCmd builds the command tree
func NewRootCmd() *cobra.Command {
	opts := &globalOptions{}

	rootCmd := &cobra.Command{
		Use:     "capillary",
		Short:   "Measure capillary wavelengths from intensity profiles",
		Version: version,
		Long: `Capillary locates wave crests in camera intensity profiles with
sub-sample precision, histograms the spacings between them and reports the
dominant wavelength. Given the image resolution and excitation frequency it
also derives the surface tension to density ratio of the liquid.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.setup(cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			// If no subcommand is provided, print help
			return cmd.Help()
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&opts.logLevel, "log-level", "warn", "Log level (debug, info, warn, error)")
	flags.BoolVar(&opts.noColor, "no-color", false, "Disable colored output")
	flags.StringVarP(&opts.output, "output", "o", "text", "Output format (text, json, yaml)")

	rootCmd.AddCommand(newArgmaxCmd(opts))
	rootCmd.AddCommand(newPeakCmd(opts))
	rootCmd.AddCommand(newHistogramCmd(opts))
	rootCmd.AddCommand(newAnalyzeCmd(opts))

	return rootCmd
}

// setup routes logs to stderr so stdout only carries results
func (o *globalOptions) setup(cmd *cobra.Command) error {
	level, err := logging.ParseLevel(o.logLevel)
	if err != nil {
		return err
	}

	logger := logging.NewDefaultLoggerWithWriters(cmd.ErrOrStderr(), cmd.ErrOrStderr())
	logger.SetLevel(level)
	logging.SetGlobalLogger(logger)
	if output.UseColor(o.noColor, os.Stderr) {
		logging.EnableColors()
	}

	format, err := output.ParseFormat(o.output)
	if err != nil {
		return err
	}
	o.formatter = output.GetFormatter(format, !output.UseColor(o.noColor, os.Stdout))

	logging.Debug("Command configured", logging.Fields{
		"command": cmd.Name(),
		"output":  format,
	})
	return nil
}

// render writes one formatted result to the command's stdout
func (o *globalOptions) render(cmd *cobra.Command, format func(output.FormatProvider) (string, error)) error {
	text, err := format(o.formatter)
	if err != nil {
		return err
	}
	_, err = fmt.Fprint(cmd.OutOrStdout(), text)
	return err
}

// readSeries loads the numeric series selected by --input and --path
func readSeries(cmd *cobra.Command, inputFile, path string) ([]float64, error) {
	data, err := input.ReadSource(inputFile, cmd.InOrStdin())
	if err != nil {
		return nil, err
	}
	return input.ParseNumbers(data, path)
}

// addInputFlags registers the flags shared by the single-series commands
func addInputFlags(cmd *cobra.Command, inputFile, path *string) {
	cmd.Flags().StringVarP(inputFile, "input", "i", "-", "Input file, or - for stdin")
	cmd.Flags().StringVarP(path, "path", "p", "", "gjson path selecting a numeric array in JSON input")
}

// Execute builds the command tree and runs it against os.Args
func Execute() error {
	rootCmd := NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		noColor, _ := rootCmd.PersistentFlags().GetBool("no-color")
		fmt.Fprintf(os.Stderr, "%s Error: %v\n", output.ErrorIcon(noColor), err)
		return err
	}
	return nil
}
