// Package cmd assembles the urbansound command tree.
package cmd

import (
	"github.com/spf13/cobra"

	"github.com/tphakala/urbansound-go/cmd/app"
	"github.com/tphakala/urbansound-go/cmd/classify"
	"github.com/tphakala/urbansound-go/cmd/labels"
	"github.com/tphakala/urbansound-go/cmd/list"
	"github.com/tphakala/urbansound-go/cmd/play"
	"github.com/tphakala/urbansound-go/cmd/session"
	"github.com/tphakala/urbansound-go/cmd/spectrogram"
	"github.com/tphakala/urbansound-go/cmd/version"
	"github.com/tphakala/urbansound-go/internal/conf"
)

// RootCommand creates and returns the root command
func RootCommand(ctx *app.Context) *cobra.Command {
	var configFile string

	rootCmd := &cobra.Command{
		Use:           "urbansound",
		Short:         "UrbanSound8K sample browser and classifier",
		Long:          "Browse UrbanSound8K samples, play their audio, show their spectrograms and classify them.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	setupFlags(rootCmd, &configFile)

	subcommands := []*cobra.Command{
		list.Command(ctx),
		labels.Command(ctx),
		classify.Command(ctx),
		play.Command(ctx),
		spectrogram.Command(ctx),
		session.Command(ctx),
		version.Command(),
	}
	rootCmd.AddCommand(subcommands...)

	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		settings, err := conf.Load(conf.LoadOptions{
			ConfigFile:  configFile,
			SearchPaths: conf.GetDefaultConfigPaths(),
			Flags:       cmd.Flags(),
		})
		if err != nil {
			return err
		}
		ctx.Settings = settings

		needs := app.ParseNeeds(cmd.Annotations[app.AnnotationNeeds])
		ctx.App, err = app.New(settings, needs)
		return err
	}

	return rootCmd
}

// setupFlags defines flags that are global to the command line interface
func setupFlags(rootCmd *cobra.Command, configFile *string) {
	flags := rootCmd.PersistentFlags()
	flags.StringVarP(configFile, "config", "c", "", "Config file (default: search ., ~/.config/urbansound, /etc/urbansound)")
	flags.BoolP("debug", "d", false, "Enable debug output")
	flags.String("metadata", conf.DefaultMetadataPath, "Metadata CSV listing the spectrograms")
	flags.String("audio-dir", conf.DefaultAudioDir, "Root directory of the audio fold shards")
	flags.String("spec-dir", conf.DefaultSpectrogramDir, "Directory holding the .npy spectrograms")
	flags.String("model", conf.DefaultModelPath, "Path to the TFLite model file")
}
