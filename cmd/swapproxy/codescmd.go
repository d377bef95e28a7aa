package main

import (
	"fmt"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli/v2"

	"github.com/tos-network/swapproxy/apierror"
)

var codesCommand = &cli.Command{
	Action:    codes,
	Name:      "codes",
	Usage:     "Print the abort code table",
	ArgsUsage: "[code]",
	Description: `
Without arguments the codes command prints every abort code the proxy and the
swap service can produce. With a numeric argument only that code is shown.`,
}

func codes(ctx *cli.Context) error {
	entries := apierror.Table()
	if ctx.Args().Present() {
		n, err := strconv.ParseUint(ctx.Args().First(), 0, 32)
		if err != nil {
			return fmt.Errorf("invalid code %q: %v", ctx.Args().First(), err)
		}
		e, ok := apierror.Lookup(apierror.Code(n))
		if !ok {
			return fmt.Errorf("unknown abort code %d", n)
		}
		entries = []apierror.Entry{e}
	}
	table := tablewriter.NewWriter(ctx.App.Writer)
	table.SetHeader([]string{"Code", "Band", "Name", "Description"})
	for _, e := range entries {
		table.Append([]string{strconv.FormatUint(uint64(e.Code), 10), e.Band, e.Name, e.Description})
	}
	table.Render()
	return nil
}
