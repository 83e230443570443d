package conf

import "github.com/spf13/viper"

// Defaults mirror the layout of the UrbanSound8K mel spectrogram export:
// mel_metadata.csv next to data/foldN/*.wav and espectrogramas/*.npy.
const (
	DefaultMetadataPath      = "mel_metadata.csv"
	DefaultAudioDir          = "data"
	DefaultSpectrogramDir    = "espectrogramas"
	DefaultSpectrogramColumn = "spectrogram"
	DefaultAudioExt          = ".wav"
	DefaultModelPath         = "crnn_urbansound8k.tflite"
	DefaultTopK              = 3
)

// Values accepted by enumerated settings
const (
	DuplicatesFirst  = "first"
	DuplicatesReject = "reject"

	LocatorModeIndex = "index"
	LocatorModeProbe = "probe"

	FormatTable = "table"
	FormatJSON  = "json"
	FormatYAML  = "yaml"
)

// setDefaultConfig sets default values for every configuration key
func setDefaultConfig(v *viper.Viper) {
	v.SetDefault("debug", false)

	v.SetDefault("dataset.metadata", DefaultMetadataPath)
	v.SetDefault("dataset.audiodir", DefaultAudioDir)
	v.SetDefault("dataset.spectrogramdir", DefaultSpectrogramDir)
	v.SetDefault("dataset.spectrogramcolumn", DefaultSpectrogramColumn)
	v.SetDefault("dataset.audioext", DefaultAudioExt)

	v.SetDefault("catalog.duplicates", DuplicatesFirst)

	v.SetDefault("model.path", DefaultModelPath)
	v.SetDefault("model.labelpath", "")
	v.SetDefault("model.threads", 0)
	v.SetDefault("model.usexnnpack", false)

	v.SetDefault("locator.mode", LocatorModeIndex)
	v.SetDefault("locator.indexttl", "10m")
	v.SetDefault("locator.watch", false)

	v.SetDefault("output.format", FormatTable)
	v.SetDefault("output.topk", DefaultTopK)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.file", "")
	v.SetDefault("logging.modulelevels", map[string]string{})

	v.SetDefault("metrics.textfile", "")
}
