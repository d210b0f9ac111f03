package main

import (
	"fmt"
	"os"
	"time"

	"vapicalendar/config"

	"github.com/alecthomas/kong"
)

var CLI struct {
	Env     EnvCmd     `cmd:"" help:"Check that the required environment is set."`
	Ping    PingCmd    `cmd:"" help:"Check that the configured backends are reachable."`
	Resolve ResolveCmd `cmd:"" help:"Resolve a date/time phrase the way the webhook would."`
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name("diagnose"),
		kong.Description("Diagnostics for the VAPI calendar webhook"),
		kong.UsageOnError(),
	)

	config.LoadConfig()
	appCtx := &Context{
		Config: config.AppConfig,
		Out:    os.Stdout,
		Now:    time.Now,
	}

	if err := ctx.Run(appCtx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
