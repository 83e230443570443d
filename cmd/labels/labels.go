package labels

import (
	"strconv"

	"github.com/spf13/cobra"

	"github.com/tphakala/urbansound-go/cmd/app"
	"github.com/tphakala/urbansound-go/internal/classes"
	"github.com/tphakala/urbansound-go/internal/output"
)

// Command creates the labels command printing the class catalog
func Command(ctx *app.Context) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "labels",
		Short: "Print the class labels in model output order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return output.Write(cmd.OutOrStdout(), ctx.Settings.Output.Format, labelTable(ctx.App.Labels.Labels()))
		},
	}
	cmd.Flags().StringP("format", "f", "", "Output format: table, json, yaml")
	return cmd
}

type labelTable []classes.Label

func (l labelTable) Headers() []string { return []string{"Index", "Class"} }

func (l labelTable) Rows() [][]string {
	rows := make([][]string, len(l))
	for i, label := range l {
		rows[i] = []string{strconv.Itoa(label.Index), label.Name}
	}
	return rows
}
