package list

import (
	"strconv"

	"github.com/spf13/cobra"

	"github.com/tphakala/urbansound-go/cmd/app"
	"github.com/tphakala/urbansound-go/internal/output"
)

// Command creates the list command printing the sample display names
func Command(ctx *app.Context) *cobra.Command {
	var missing bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the samples of the catalog",
		Long:  "Lists the display names of every sample in the metadata table. With --missing only samples whose audio or spectrogram file cannot be found are listed.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := ctx.App
			format := ctx.Settings.Output.Format

			if !missing {
				return output.Write(cmd.OutOrStdout(), format, output.List{
					Title: "Sample",
					Items: a.Catalog.DisplayNames(),
				})
			}

			assets, err := a.MissingAssets(cmd.Context())
			if err != nil {
				return err
			}
			return output.Write(cmd.OutOrStdout(), format, missingAssets(assets))
		},
	}

	setupFlags(cmd, &missing)
	return cmd
}

func setupFlags(cmd *cobra.Command, missing *bool) {
	cmd.Flags().BoolVar(missing, "missing", false, "Only list samples with missing audio or spectrogram files")
	cmd.Flags().StringP("format", "f", "", "Output format: table, json, yaml")
}

type missingAssets []app.MissingAsset

func (m missingAssets) Headers() []string {
	return []string{"Sample", "Audio missing", "Spectrogram missing"}
}

func (m missingAssets) Rows() [][]string {
	rows := make([][]string, len(m))
	for i, a := range m {
		rows[i] = []string{a.DisplayName, strconv.FormatBool(a.Audio), strconv.FormatBool(a.Spectrogram)}
	}
	return rows
}
