package main

import (
	"errors"
	"fmt"
	"io"
	"math/big"
	"strconv"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/log"
	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli/v2"

	"github.com/tos-network/swapproxy/apierror"
	"github.com/tos-network/swapproxy/cmd/utils"
	"github.com/tos-network/swapproxy/config"
	"github.com/tos-network/swapproxy/core"
	"github.com/tos-network/swapproxy/host"
	"github.com/tos-network/swapproxy/internal/flags"
	"github.com/tos-network/swapproxy/metrics"
	"github.com/tos-network/swapproxy/params"
)

var (
	errNoGenesis         = errors.New("no genesis: set Genesis in the config file or use --dev")
	errInvocationAborted = errors.New("invocation aborted")
)

var (
	runCommand = &cli.Command{
		Action:    runWorld,
		Name:      "run",
		Usage:     "Execute the invocations of a world file through the proxy",
		ArgsUsage: "<world.toml|world.yaml>",
		Flags:     flags.Merge(utils.WorldFlags, utils.MetricsFlags),
		Description: `
The run command builds the genesis world of the given file, installs the swap
service and the proxy, executes every listed invocation in order and prints a
receipt per invocation followed by the resulting account balances.

Aborted invocations are reported with their abort code and do not stop the run.`,
	}
	invokeCommand = &cli.Command{
		Action:    invoke,
		Name:      "invoke",
		Usage:     "Execute a single invocation against a world",
		ArgsUsage: "<kind:value>...",
		Flags: flags.Merge(utils.WorldFlags, utils.MetricsFlags, []cli.Flag{
			utils.CallerFlag,
			utils.TargetFlag,
		}),
		Description: `
The invoke command replays the invocations of the configured world and then
executes one more built from the positional arguments, e.g.

    swapproxy invoke --dev 0x... string:insert_kyc_allowance_cap u512:1000

Arguments are written as kind:value with kind one of string, u512, pubkey,
key and strings (a JSON array). The command fails when the invocation aborts.`,
	}
)

func runWorld(ctx *cli.Context) error {
	if ctx.Args().Len() > 1 {
		return fmt.Errorf("too many arguments")
	}
	cfg, world, err := makeWorld(ctx, ctx.Args().First())
	if err != nil {
		return err
	}
	receipts, err := world.Process(cfg.Invocations)
	printReceipts(ctx.App.Writer, cfg.Invocations, receipts)
	printBalances(ctx.App.Writer, world, balanceAddresses(cfg))
	if merr := writeMetrics(cfg.Metrics); merr != nil && err == nil {
		err = merr
	}
	return err
}

func invoke(ctx *cli.Context) error {
	if ctx.Args().Len() == 0 {
		return fmt.Errorf("no invocation arguments given")
	}
	cfg, world, err := makeWorld(ctx, "")
	if err != nil {
		return err
	}
	if _, err := world.Process(cfg.Invocations); err != nil {
		return err
	}
	inv := core.Invocation{
		Caller: cfg.Genesis.Admin,
		Target: ctx.String(utils.TargetFlag.Name),
		Args:   ctx.Args().Slice(),
	}
	if ctx.IsSet(utils.CallerFlag.Name) {
		inv.Caller = ctx.String(utils.CallerFlag.Name)
	}
	rcpt, err := world.Apply(inv)
	if err != nil {
		return err
	}
	invs := []core.Invocation{inv}
	printReceipts(ctx.App.Writer, invs, []*host.Receipt{rcpt})
	printBalances(ctx.App.Writer, world, balanceAddresses(cfg, inv))
	if err := writeMetrics(cfg.Metrics); err != nil {
		return err
	}
	if rcpt.Failed() {
		return fmt.Errorf("%w: code %d: %v", errInvocationAborted, rcpt.Code, rcpt.Err)
	}
	return nil
}

// makeWorld loads the configuration and commits its genesis. The --dev flag
// replaces the configured genesis with a developer one.
func makeWorld(ctx *cli.Context, file string) (*config.Config, *core.World, error) {
	cfg, err := utils.MakeConfig(ctx, file)
	if err != nil {
		return nil, nil, err
	}
	utils.SetupLogging(cfg.Log)
	if cfg.Log.NoColor {
		color.NoColor = true
	}
	if ctx.IsSet(utils.DeveloperFlag.Name) {
		admin := ctx.String(utils.DeveloperFlag.Name)
		if !common.IsHexAddress(admin) {
			return nil, nil, fmt.Errorf("%w: %q", core.ErrInvalidAddress, admin)
		}
		cfg.Genesis = core.DeveloperGenesis(common.HexToAddress(admin))
		log.Info("Using developer genesis", "admin", admin)
	}
	if cfg.Genesis == nil {
		return nil, nil, errNoGenesis
	}
	world, err := cfg.Genesis.Commit()
	if err != nil {
		return nil, nil, err
	}
	return cfg, world, nil
}

func writeMetrics(cfg metrics.Config) error {
	if !cfg.Enabled || cfg.Textfile == "" {
		return nil
	}
	if err := metrics.WriteTextfile(cfg.Textfile); err != nil {
		return fmt.Errorf("write metrics: %w", err)
	}
	log.Info("Wrote metrics", "file", cfg.Textfile)
	return nil
}

func printReceipts(w io.Writer, invs []core.Invocation, receipts []*host.Receipt) {
	var (
		ok    = color.New(color.FgGreen).SprintFunc()
		abort = color.New(color.FgRed).SprintFunc()
	)
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"#", "ID", "Caller", "Method", "Outcome", "Code", "Error"})
	table.SetAutoWrapText(false)
	for i, rcpt := range receipts {
		row := []string{
			strconv.Itoa(i),
			rcpt.ID.String()[:8],
			rcpt.Caller.Hex(),
			methodOf(invs[i]),
		}
		if rcpt.Failed() {
			name := ""
			if e, found := apierror.Lookup(rcpt.Code); found {
				name = " " + e.Name
			}
			row = append(row, abort("aborted"), strconv.FormatUint(uint64(rcpt.Code), 10)+name, rcpt.Err.Error())
		} else {
			row = append(row, ok("ok"), "", "")
		}
		table.Append(row)
	}
	table.Render()
}

func methodOf(inv core.Invocation) string {
	if len(inv.Args) == 0 {
		return "-"
	}
	v, err := host.ParseArg(inv.Args[0])
	if err != nil {
		return "-"
	}
	if s, ok := v.AsString(); ok {
		return s
	}
	return "-"
}

// balanceAddresses lists the genesis accounts, the callers of invs and the
// swap holding account, without duplicates.
func balanceAddresses(cfg *config.Config, extra ...core.Invocation) []common.Address {
	var (
		seen  = make(map[common.Address]bool)
		addrs []common.Address
	)
	add := func(s string) {
		if !common.IsHexAddress(s) {
			return
		}
		addr := common.HexToAddress(s)
		if !seen[addr] {
			seen[addr] = true
			addrs = append(addrs, addr)
		}
	}
	for _, acc := range cfg.Genesis.Accounts {
		add(acc.Address)
	}
	for _, inv := range cfg.Invocations {
		add(inv.Caller)
	}
	for _, inv := range extra {
		add(inv.Caller)
	}
	add(params.SwapPurseAddress.Hex())
	return addrs
}

func printBalances(w io.Writer, world *core.World, addrs []common.Address) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Account", "Balance (bigsun)", "Balance (hdac)"})
	for _, addr := range addrs {
		bal := host.Balance(world.State, addr)
		table.Append([]string{addr.Hex(), bal.String(), toHdac(bal)})
	}
	table.Render()
}

func toHdac(bigsun *big.Int) string {
	f := new(big.Float).SetInt(bigsun)
	f.Quo(f, new(big.Float).SetInt64(params.Hdac))
	return f.Text('f', 4)
}
