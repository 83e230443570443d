package spectrogram

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tphakala/urbansound-go/cmd/app"
	"github.com/tphakala/urbansound-go/internal/spectrogram"
)

// Command creates the spectrogram command rendering a sample to PNG
func Command(ctx *app.Context) *cobra.Command {
	var outputPath, size string

	cmd := &cobra.Command{
		Use:   "spectrogram <sample>",
		Short: "Render the spectrogram of a sample as a PNG image",
		Long:  "Renders the stored spectrogram of the named sample with its first axis rising upward. Without -o the image is written to <sample>.png in the working directory.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s := ctx.App.Session
			if err := s.Select(args[0]); err != nil {
				return err
			}

			m, err := s.Spectrogram()
			if err != nil {
				return err
			}

			opts := spectrogram.RenderOptions{}
			if size != "" {
				if opts.Width, err = spectrogram.SizeToPixels(size); err != nil {
					return err
				}
			}

			path := outputPath
			if path == "" {
				if path, err = spectrogram.BuildImagePath(args[0]); err != nil {
					return err
				}
			}

			if err := spectrogram.WritePNGFile(path, m, opts); err != nil {
				return err
			}
			lo, hi := m.Range()
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %dx%d, range [%.3f, %.3f]\n", path, m.Rows, m.Cols, lo, hi)
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Output PNG path")
	cmd.Flags().StringVar(&size, "size", "", "Image size: sm, md, lg, xl (default one pixel per value)")
	return cmd
}
