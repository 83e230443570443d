package version

import (
	"github.com/spf13/cobra"

	"github.com/tphakala/urbansound-go/internal/buildinfo"
	"github.com/tphakala/urbansound-go/internal/output"
)

// Command creates the version command. It runs without loading settings.
func Command() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version and build information",
		Args:  cobra.NoArgs,
		// Overrides the root hook so no dataset or model is needed
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return output.Write(cmd.OutOrStdout(), format, buildinfo.Get())
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", output.FormatTable, "Output format: table, json, yaml")
	return cmd
}
