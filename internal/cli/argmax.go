package cli

import (
	"github.com/spf13/cobra"

	"github.com/RyanBlaney/capillary/algorithms/common"
	"github.com/RyanBlaney/capillary/internal/output"
)

func newArgmaxCmd(opts *globalOptions) *cobra.Command {
	var inputFile, path string

	cmd := &cobra.Command{
		Use:   "argmax",
		Short: "Print the index of the largest value in a series",
		Long: `Print the index of the largest value in a series. Ties resolve to the
first occurrence and NaN values are ignored.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			values, err := readSeries(cmd, inputFile, path)
			if err != nil {
				return err
			}

			idx, err := common.Argmax(values)
			if err != nil {
				return err
			}

			result := output.ArgmaxResult{Index: idx, Value: values[idx]}
			return opts.render(cmd, func(f output.FormatProvider) (string, error) {
				return f.FormatArgmax(result)
			})
		},
	}

	addInputFlags(cmd, &inputFile, &path)
	return cmd
}
