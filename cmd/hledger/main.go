package main

import (
	"os"

	"github.com/alecthomas/kong"

	"github.com/robinvdvleuten/hledger/cli"
)

var app struct {
	Version kong.VersionFlag `help:"Show version information"`
	cli.Commands
}

func main() {
	ctx := kong.Parse(&app,
		kong.Vars{
			"version": cli.BuildVersion(),
		},
		kong.Name("hledger"),
		kong.Description("An hledger journal parser and formatter."),
		kong.UsageOnError(),
		kong.Configuration(kong.JSON, cli.ConfigPaths...),
		kong.Bind(&app.Globals),
	)

	result := cli.Result(ctx.Run())
	if result.Err != nil && !result.Reported {
		ctx.Errorf("%s", result.Err)
	}
	os.Exit(result.ExitCode)
}
