package main

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/tos-network/swapproxy/params"
)

var (
	versionCommand = &cli.Command{
		Action:    version,
		Name:      "version",
		Usage:     "Print version numbers",
		ArgsUsage: " ",
		Description: `
The output of this command is supposed to be machine-readable.
`,
	}
	licenseCommand = &cli.Command{
		Action:    license,
		Name:      "license",
		Usage:     "Display license information",
		ArgsUsage: " ",
	}
)

func version(ctx *cli.Context) error {
	w := ctx.App.Writer
	fmt.Fprintln(w, strings.Title(clientIdentifier))
	fmt.Fprintln(w, "Version:", params.VersionWithMeta)
	if gitCommit != "" {
		fmt.Fprintln(w, "Git Commit:", gitCommit)
	}
	if gitDate != "" {
		fmt.Fprintln(w, "Git Commit Date:", gitDate)
	}
	fmt.Fprintln(w, "Architecture:", runtime.GOARCH)
	fmt.Fprintln(w, "Go Version:", runtime.Version())
	fmt.Fprintln(w, "Operating System:", runtime.GOOS)
	return nil
}

func license(ctx *cli.Context) error {
	fmt.Fprintln(ctx.App.Writer, `swapproxy licensing summary

- Libraries: GNU Lesser General Public License v3.0 or later
- cmd/ command applications: GNU General Public License v3.0 or later`)
	return nil
}
