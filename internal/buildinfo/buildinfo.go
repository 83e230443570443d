// Package buildinfo holds build-time metadata, kept apart from user configuration
package buildinfo

import (
	"runtime"
	"runtime/debug"
)

// UnknownValue is reported for metadata that was not injected at build time
const UnknownValue = "unknown"

// Injected by package main through Set
var (
	version   string
	buildDate string
)

// Info describes the running binary
type Info struct {
	Version   string `json:"version" yaml:"version"`
	BuildDate string `json:"build_date" yaml:"build_date"`
	Commit    string `json:"commit" yaml:"commit"`
	GoVersion string `json:"go_version" yaml:"go_version"`
	Platform  string `json:"platform" yaml:"platform"`
}

// Set records the values injected into package main
func Set(v, date string) {
	version, buildDate = v, date
}

// Get returns the metadata of the running binary. Missing values fall back
// to the module build info embedded by the Go toolchain.
func Get() Info {
	info := Info{
		Version:   version,
		BuildDate: buildDate,
		GoVersion: runtime.Version(),
		Platform:  runtime.GOOS + "/" + runtime.GOARCH,
	}

	if bi, ok := debug.ReadBuildInfo(); ok {
		if info.Version == "" && bi.Main.Version != "" && bi.Main.Version != "(devel)" {
			info.Version = bi.Main.Version
		}
		for _, s := range bi.Settings {
			switch s.Key {
			case "vcs.revision":
				info.Commit = shortRevision(s.Value)
			case "vcs.time":
				if info.BuildDate == "" {
					info.BuildDate = s.Value
				}
			}
		}
	}

	info.Version = orUnknown(info.Version)
	info.BuildDate = orUnknown(info.BuildDate)
	info.Commit = orUnknown(info.Commit)
	return info
}

func shortRevision(rev string) string {
	if len(rev) > 12 {
		return rev[:12]
	}
	return rev
}

func orUnknown(s string) string {
	if s == "" {
		return UnknownValue
	}
	return s
}

// Headers implements output.Tabular
func (i Info) Headers() []string { return []string{"Field", "Value"} }

// Rows implements output.Tabular
func (i Info) Rows() [][]string {
	return [][]string{
		{"Version", i.Version},
		{"Build date", i.BuildDate},
		{"Commit", i.Commit},
		{"Go", i.GoVersion},
		{"Platform", i.Platform},
	}
}
