package cmd

import (
	"github.com/spf13/cobra"

	"github.com/reliclabs/relic/pkg/buildinfo"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Run: func(cmd *cobra.Command, _ []string) {
		cmd.Printf("relic %s\n", buildinfo.BinaryVersion)
		if mv := buildinfo.ModuleVersion(); mv != "" && mv != "(devel)" {
			cmd.Printf("module %s\n", mv)
		}
	},
}
