package cli

import (
	"github.com/spf13/cobra"

	"github.com/RyanBlaney/capillary/analysis"
	"github.com/RyanBlaney/capillary/analysis/config"
	"github.com/RyanBlaney/capillary/internal/input"
	"github.com/RyanBlaney/capillary/internal/output"
	"github.com/RyanBlaney/capillary/logging"
)

func newAnalyzeCmd(opts *globalOptions) *cobra.Command {
	var (
		inputFile, configFile string
		resolution, frequency float64
	)

	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Measure the dominant wavelength of a group of profiles",
		Long: `Measure the dominant wavelength of a group of intensity profiles.

The input is a JSON document of the form
  {"profiles": [[...], [...]], "resolution": 5000, "frequency": 60}
where resolution (pixels per metre) and frequency (Hz) are optional. When
both are known the surface tension to density ratio is reported as well.
Flags override the values in the document, which override the config file.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.DefaultConfig()
			if configFile != "" {
				loaded, err := config.LoadConfig(configFile)
				if err != nil {
					return err
				}
				cfg = loaded
			}

			data, err := input.ReadSource(inputFile, cmd.InOrStdin())
			if err != nil {
				return err
			}
			doc, err := input.ParseDocument(data)
			if err != nil {
				return err
			}

			if doc.Resolution > 0 {
				cfg.Tension.Resolution = doc.Resolution
			}
			if doc.Frequency > 0 {
				cfg.Tension.Frequency = doc.Frequency
			}
			if cmd.Flags().Changed("resolution") {
				cfg.Tension.Resolution = resolution
			}
			if cmd.Flags().Changed("frequency") {
				cfg.Tension.Frequency = frequency
			}

			analyzer, err := analysis.NewAnalyzer(cfg)
			if err != nil {
				return err
			}

			logging.Info("Analyzing profiles", logging.Fields{
				"profiles": len(doc.Profiles),
				"input":    inputFile,
			})

			result, err := analyzer.AnalyzeGroup(doc.Profiles)
			if err != nil {
				return err
			}

			return opts.render(cmd, func(f output.FormatProvider) (string, error) {
				return f.FormatStatistics(result)
			})
		},
	}

	cmd.Flags().StringVarP(&inputFile, "input", "i", "-", "Analysis document, or - for stdin")
	cmd.Flags().StringVarP(&configFile, "config", "c", "", "YAML or JSON analysis config")
	cmd.Flags().Float64Var(&resolution, "resolution", 0, "Image resolution in pixels per metre")
	cmd.Flags().Float64Var(&frequency, "frequency", 0, "Excitation frequency in Hz")
	return cmd
}
