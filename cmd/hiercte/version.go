package main

import (
	"fmt"
	"runtime/debug"

	"github.com/spf13/cobra"

	"github.com/pthm/hiercte/internal/version"
)

func init() {
	// If the version wasn't set via ldflags, fall back to Go module info.
	// This works when installed via "go install github.com/pthm/hiercte/cmd/hiercte@version".
	if version.Version != "dev" {
		return
	}
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return
	}
	if info.Main.Version != "" && info.Main.Version != "(devel)" {
		version.Version = info.Main.Version
	}
	for _, setting := range info.Settings {
		switch setting.Key {
		case "vcs.revision":
			if len(setting.Value) >= 7 {
				version.Commit = setting.Value[:7]
			} else {
				version.Commit = setting.Value
			}
		case "vcs.time":
			version.Date = setting.Value
		}
	}
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(version.Info())
	},
}
