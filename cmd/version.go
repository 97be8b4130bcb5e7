package cmd

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	consts "github.com/khanhnv2901/bigip-recon/internal/shared/constants"
)

// Set with -ldflags "-X github.com/khanhnv2901/bigip-recon/cmd.Version=..."
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the build version",
	Long:  "Print the build version. With --verbose, also show build metadata and scan defaults.",
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "bigip-recon %s\n", Version)

		if verbose, _ := cmd.Flags().GetBool("verbose"); !verbose {
			return
		}

		rows := [][2]string{
			{"commit", GitCommit},
			{"built", BuildDate},
			{"go", fmt.Sprintf("%s %s/%s", runtime.Version(), runtime.GOOS, runtime.GOARCH)},
			{"timeout", fmt.Sprintf("%s per lookup, %s per probe", consts.DefaultProbeTimeout, consts.DefaultProbeTimeout)},
			{"workers", fmt.Sprintf("%d (max %d)", consts.DefaultConcurrency, consts.MaxConcurrency)},
			{"heuristics", fmt.Sprintf("server header contains %q, IPv4 address in --subnets", consts.BigIPServerMarker)},
		}
		for _, row := range rows {
			fmt.Fprintf(out, "  %-11s %s\n", row[0]+":", row[1])
		}
	},
}

func init() {
	versionCmd.Flags().BoolP("verbose", "v", false, "also print build metadata and scan defaults")
}
