package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/luma/voxelwire/cmd/gen"
	"github.com/luma/voxelwire/internal/meta"
)

var rootCmd = &cobra.Command{
	Use:   "voxelwire",
	Short: "Voxel game network engine",
	Long:  `Client/server network protocol engine for voxel games.`,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print build information",
	Run: func(cmd *cobra.Command, args []string) {
		info := meta.GetInfo()
		fmt.Printf("voxelwire %s (%s %s, built %s, %s)\n",
			info.Version, info.Branch, info.Build, info.BuildTime, info.GoVersion)
	},
}

func init() {
	rootCmd.AddCommand(StartCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(gen.RootCmd)
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
