package cmd

import (
	"github.com/fatih/color"

	"github.com/khanhnv2901/bigip-recon/internal/domain/site"
)

var (
	colorSuccess = color.New(color.FgGreen).SprintFunc()
	colorInfo    = color.New(color.FgCyan).SprintFunc()
	colorWarn    = color.New(color.FgYellow).SprintFunc()
	colorError   = color.New(color.FgRed).SprintFunc()
)

func formatVerdictWithColor(v site.Verdict) string {
	switch v {
	case site.VerdictBigIPByHeader, site.VerdictBigIPBySubnet:
		return colorWarn(v.Method())
	default:
		return colorSuccess("none")
	}
}
