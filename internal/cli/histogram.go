package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/RyanBlaney/capillary/algorithms/stats"
	"github.com/RyanBlaney/capillary/internal/output"
)

func newHistogramCmd(opts *globalOptions) *cobra.Command {
	var (
		inputFile, path string
		buckets         int
		statistic       string
		lower, upper    float64
	)

	cmd := &cobra.Command{
		Use:   "histogram",
		Short: "Bin a series into equal-width buckets",
		Long: `Bin a series into equal-width buckets spanning its range. Non-finite values
are skipped. With --min and --max the range is fixed and values outside it
are ignored.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			values, err := readSeries(cmd, inputFile, path)
			if err != nil {
				return err
			}

			stat, err := stats.ParseHistogramStatistic(statistic)
			if err != nil {
				return err
			}
			histOpts := stats.HistogramOptions{Statistic: stat}

			minSet, maxSet := cmd.Flags().Changed("min"), cmd.Flags().Changed("max")
			switch {
			case minSet && maxSet:
				histOpts.Range = &[2]float64{lower, upper}
			case minSet || maxSet:
				return fmt.Errorf("--min and --max must be given together")
			}

			hist, err := stats.Bin(values, buckets, histOpts)
			if err != nil {
				return err
			}

			return opts.render(cmd, func(f output.FormatProvider) (string, error) {
				return f.FormatHistogram(hist)
			})
		},
	}

	addInputFlags(cmd, &inputFile, &path)
	cmd.Flags().IntVarP(&buckets, "buckets", "b", 10, "Number of buckets")
	cmd.Flags().StringVar(&statistic, "statistic", "count", "Bucket statistic (count, density)")
	cmd.Flags().Float64Var(&lower, "min", 0, "Lower edge of the binning range")
	cmd.Flags().Float64Var(&upper, "max", 0, "Upper edge of the binning range")
	return cmd
}
