package cli

import (
	"github.com/spf13/cobra"

	"github.com/RyanBlaney/capillary/algorithms/common"
	"github.com/RyanBlaney/capillary/algorithms/peaks"
	"github.com/RyanBlaney/capillary/internal/output"
)

func newPeakCmd(opts *globalOptions) *cobra.Command {
	var (
		inputFile, path string
		index           int
	)

	cmd := &cobra.Command{
		Use:   "peak",
		Short: "Refine the position of a peak to sub-sample precision",
		Long: `Refine the position of a peak by fitting a parabola through it and its two
neighbours. Without --index the largest sample is refined.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			values, err := readSeries(cmd, inputFile, path)
			if err != nil {
				return err
			}

			idx := index
			if !cmd.Flags().Changed("index") {
				if idx, err = common.Argmax(values); err != nil {
					return err
				}
			}

			peak, err := peaks.RefineAt(values, idx)
			if err != nil {
				return err
			}

			return opts.render(cmd, func(f output.FormatProvider) (string, error) {
				return f.FormatPeak(peak)
			})
		},
	}

	addInputFlags(cmd, &inputFile, &path)
	cmd.Flags().IntVar(&index, "index", 0, "Coarse peak index to refine (default: the argmax)")
	return cmd
}
