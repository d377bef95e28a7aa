// Copyright 2015 The go-ethereum Authors
// This file is part of go-ethereum.
//
// go-ethereum is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// go-ethereum is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with go-ethereum. If not, see <http://www.gnu.org/licenses/>.

// Package utils contains internal helper functions for swapproxy commands.
package utils

import (
	"io"
	"os"

	"github.com/ethereum/go-ethereum/log"
	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
	"github.com/urfave/cli/v2"

	"github.com/tos-network/swapproxy/config"
	"github.com/tos-network/swapproxy/internal/flags"
)

var (
	// World settings
	ConfigFileFlag = &cli.StringFlag{
		Name:     "config",
		Usage:    "TOML or YAML world configuration file",
		Category: flags.WorldCategory,
	}
	CallerFlag = &cli.StringFlag{
		Name:     "caller",
		Usage:    "Account address the invocation is made from (defaults to the admin)",
		Category: flags.WorldCategory,
	}
	TargetFlag = &cli.StringFlag{
		Name:     "target",
		Usage:    "Key of the called service (defaults to the proxy)",
		Category: flags.WorldCategory,
	}
	DeveloperFlag = &cli.StringFlag{
		Name:     "dev",
		Usage:    "Start from a developer world with the given admin address funded",
		Category: flags.WorldCategory,
	}

	// Legacy key settings
	MnemonicFlag = &cli.StringFlag{
		Name:     "mnemonic",
		Usage:    "BIP-39 mnemonic the legacy key is derived from",
		Category: flags.KeyCategory,
	}
	PassphraseFlag = &cli.StringFlag{
		Name:     "passphrase",
		Usage:    "Optional BIP-39 passphrase",
		Category: flags.KeyCategory,
	}
	IndexFlag = &cli.Uint64Flag{
		Name:     "index",
		Usage:    "Derivation index of the legacy key",
		Category: flags.KeyCategory,
	}

	// Logging and debug settings
	VerbosityFlag = &cli.IntFlag{
		Name:     "verbosity",
		Usage:    "Logging verbosity: 0=crit, 1=error, 2=warn, 3=info, 4=debug, 5=trace",
		Value:    config.Defaults.Log.Verbosity,
		Category: flags.LoggingCategory,
	}
	NoColorFlag = &cli.BoolFlag{
		Name:     "nocolor",
		Usage:    "Disable colored terminal output",
		Category: flags.LoggingCategory,
	}

	// Metrics flags
	MetricsEnabledFlag = &cli.BoolFlag{
		Name:     "metrics",
		Usage:    "Enable metrics collection and reporting",
		Category: flags.MetricsCategory,
	}
	MetricsTextfileFlag = &cli.StringFlag{
		Name:     "metrics.textfile",
		Usage:    "File the collected metrics are written to after a run",
		Value:    config.Defaults.Metrics.Textfile,
		Category: flags.MetricsCategory,
	}
)

var (
	// WorldFlags is the flag group of commands executing invocations.
	WorldFlags = []cli.Flag{
		ConfigFileFlag,
		DeveloperFlag,
	}
	// LoggingFlags is the flag group shared by every command.
	LoggingFlags = []cli.Flag{
		VerbosityFlag,
		NoColorFlag,
	}
	// MetricsFlags is the flag group of metrics collection.
	MetricsFlags = []cli.Flag{
		MetricsEnabledFlag,
		MetricsTextfileFlag,
	}
)

// MakeConfig loads the configuration file, if any, and applies environment
// variables and then command line flags on top of it.
func MakeConfig(ctx *cli.Context, file string) (*config.Config, error) {
	if file == "" {
		file = ctx.String(ConfigFileFlag.Name)
	}
	cfg, err := config.Load(file)
	if err != nil {
		return nil, err
	}
	SetLogConfig(ctx, &cfg.Log)
	if ctx.IsSet(MetricsEnabledFlag.Name) {
		cfg.Metrics.Enabled = ctx.Bool(MetricsEnabledFlag.Name)
	}
	if ctx.IsSet(MetricsTextfileFlag.Name) {
		cfg.Metrics.Textfile = ctx.String(MetricsTextfileFlag.Name)
	}
	return cfg, nil
}

// SetLogConfig applies logging flags to cfg.
func SetLogConfig(ctx *cli.Context, cfg *config.LogConfig) {
	if ctx.IsSet(VerbosityFlag.Name) {
		cfg.Verbosity = ctx.Int(VerbosityFlag.Name)
	}
	if ctx.IsSet(NoColorFlag.Name) {
		cfg.NoColor = ctx.Bool(NoColorFlag.Name)
	}
}

// SetupLogging installs the default terminal logger on stderr.
func SetupLogging(cfg config.LogConfig) {
	var (
		output   io.Writer = os.Stderr
		useColor           = !cfg.NoColor && (isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd()))
	)
	if useColor {
		output = colorable.NewColorableStderr()
	}
	handler := log.NewTerminalHandlerWithLevel(output, log.FromLegacyLevel(cfg.Verbosity), useColor)
	log.SetDefault(log.NewLogger(handler))
}
