package conf

import (
	"fmt"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// flagKeys maps command line flags onto configuration keys
var flagKeys = map[string]string{
	"debug":     "debug",
	"metadata":  "dataset.metadata",
	"audio-dir": "dataset.audiodir",
	"spec-dir":  "dataset.spectrogramdir",
	"model":     "model.path",
	"top":       "output.topk",
	"format":    "output.format",
}

// bindFlags binds the flags present in fs. Viper only lets a flag override
// the config when it was set on the command line.
func bindFlags(v *viper.Viper, fs *pflag.FlagSet) error {
	for name, key := range flagKeys {
		flag := fs.Lookup(name)
		if flag == nil {
			continue
		}
		if err := v.BindPFlag(key, flag); err != nil {
			return fmt.Errorf("failed to bind flag --%s: %w", name, err)
		}
	}
	return nil
}
