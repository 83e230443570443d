package play

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/tphakala/urbansound-go/cmd/app"
	"github.com/tphakala/urbansound-go/pkg/spinner"
)

const spinnerInterval = 100 * time.Millisecond

// Command creates the play command. It blocks until the clip has played
// or the command is interrupted.
func Command(ctx *app.Context) *cobra.Command {
	var quiet bool

	cmd := &cobra.Command{
		Use:         "play <sample>",
		Short:       "Play the audio clip of a sample",
		Args:        cobra.ExactArgs(1),
		Annotations: map[string]string{app.AnnotationNeeds: "playback"},
		RunE: func(cmd *cobra.Command, args []string) error {
			s := ctx.App.Session
			if err := s.Select(args[0]); err != nil {
				return err
			}
			if err := s.Play(cmd.Context()); err != nil {
				return err
			}

			if quiet {
				fmt.Fprintf(cmd.ErrOrStderr(), "Playing %s\n", args[0])
				select {
				case <-s.PlaybackDone():
				case <-cmd.Context().Done():
				}
				return s.Stop()
			}

			spin := spinner.NewSpinner(cmd.ErrOrStderr())
			defer spin.Cleanup()

			ticker := time.NewTicker(spinnerInterval)
			defer ticker.Stop()

			label := fmt.Sprintf("Playing %s, press Ctrl-C to stop", args[0])
			for {
				spin.Update(label)
				select {
				case <-s.PlaybackDone():
					return s.Stop()
				case <-cmd.Context().Done():
					return s.Stop()
				case <-ticker.C:
				}
			}
		},
	}

	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "Do not draw a progress indicator")
	return cmd
}
