package cmd

import (
	"runtime/debug"

	"github.com/spf13/cobra"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the solmut version",
		Long:  "Prints the solmut release and the Go toolchain it was built with.",
		Run: func(cmd *cobra.Command, _ []string) {
			info, ok := debug.ReadBuildInfo()
			if !ok {
				cmd.Println("solmut (unknown build)")
				return
			}

			release := info.Main.Version
			if release == "" {
				release = "devel"
			}

			cmd.Printf("solmut %s (%s)\n", release, info.GoVersion)
		},
	}
}

// versionCmd represents the version command.
var versionCmd = newVersionCmd()

func init() {
	rootCmd.AddCommand(versionCmd)
}
