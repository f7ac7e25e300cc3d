package main

import (
	"github.com/urfave/cli"

	"computerunner/internal/log"
)

var logger = log.New("computerunner")

func setupLogging(ctx *cli.Context) {
	log.SetLevel(log.Verbosity(boolFlag(ctx, "v"), boolFlag(ctx, "vv")))
}

// The flags below are defined on the app; subcommands reach them through
// the parent context.

func boolFlag(ctx *cli.Context, name string) bool {
	return ctx.Bool(name) || ctx.GlobalBool(name)
}

func isSet(ctx *cli.Context, name string) bool {
	return ctx.IsSet(name) || ctx.GlobalIsSet(name)
}

func intFlag(ctx *cli.Context, name string) int {
	if ctx.IsSet(name) {
		return ctx.Int(name)
	}
	return ctx.GlobalInt(name)
}

func stringFlag(ctx *cli.Context, name string) string {
	if v := ctx.String(name); v != "" {
		return v
	}
	return ctx.GlobalString(name)
}
