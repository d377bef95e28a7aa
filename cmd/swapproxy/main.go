// swapproxy runs the swap command-routing proxy against an in-memory world.
package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/tos-network/swapproxy/cmd/utils"
	"github.com/tos-network/swapproxy/config"
	"github.com/tos-network/swapproxy/internal/flags"
)

const clientIdentifier = "swapproxy"

// Git SHA1 commit hash of the release (set via linker flags)
var gitCommit = ""
var gitDate = ""

var app *cli.App

func init() {
	app = flags.NewApp(gitCommit, gitDate, "the swap command-routing proxy")
	app.Commands = []*cli.Command{
		runCommand,
		invokeCommand,
		codesCommand,
		legacyKeyCommand,
		signCommand,
		versionCommand,
		licenseCommand,
	}
	app.Flags = utils.LoggingFlags
	app.Before = func(ctx *cli.Context) error {
		cfg := config.Defaults
		if err := config.ApplyEnv(&cfg); err != nil {
			return err
		}
		utils.SetLogConfig(ctx, &cfg.Log)
		utils.SetupLogging(cfg.Log)
		return nil
	}
}

func main() {
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
