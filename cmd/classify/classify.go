package classify

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/tphakala/urbansound-go/cmd/app"
	"github.com/tphakala/urbansound-go/internal/classifier"
	"github.com/tphakala/urbansound-go/internal/output"
)

// Command creates the classify command for a single sample
func Command(ctx *app.Context) *cobra.Command {
	cmd := &cobra.Command{
		Use:         "classify <sample>",
		Short:       "Classify a sample from its spectrogram",
		Long:        "Runs the spectrogram of the named sample through the model and prints the most likely classes.",
		Args:        cobra.ExactArgs(1),
		Annotations: map[string]string{app.AnnotationNeeds: "model"},
		RunE: func(cmd *cobra.Command, args []string) error {
			s := ctx.App.Session
			if err := s.Select(args[0]); err != nil {
				return err
			}
			result, err := s.Classify(cmd.Context())
			if err != nil {
				return err
			}
			return Print(cmd, ctx.Settings.Output.Format, args[0], result)
		},
	}

	setupFlags(cmd)
	return cmd
}

func setupFlags(cmd *cobra.Command) {
	cmd.Flags().IntP("top", "k", 0, "Number of classes to show, 0 shows all (default from config, 3)")
	cmd.Flags().StringP("format", "f", "", "Output format: table, json, yaml")
}

// Report is the printable form of a classification
type Report struct {
	Sample      string            `json:"sample" yaml:"sample"`
	Predictions classifier.Result `json:"predictions" yaml:"predictions"`
}

func (r Report) Headers() []string { return []string{"#", "Class", "Confidence"} }

func (r Report) Rows() [][]string {
	rows := make([][]string, len(r.Predictions))
	for i, p := range r.Predictions {
		rows[i] = []string{strconv.Itoa(i + 1), p.Label.Name, p.Percent()}
	}
	return rows
}

// Print writes result in format. The table format leads with the single
// best class.
func Print(cmd *cobra.Command, format, sample string, result classifier.Result) error {
	w := cmd.OutOrStdout()
	if format == output.FormatTable || format == "" {
		if top, ok := result.Top(); ok {
			if _, err := fmt.Fprintf(w, "Predicted class: %s (%s)\n", top.Label.Name, top.Percent()); err != nil {
				return err
			}
		}
	}
	return output.Write(w, format, Report{Sample: sample, Predictions: result})
}
