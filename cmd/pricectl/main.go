package main

import (
	"context"
	"flag"
	"os"
	"path"

	"github.com/google/subcommands"
)

func main() {
	configPath := flag.String("config", "", "Path to a config file. Defaults to configs/config.yaml and the environment.")

	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")
	commander.Register(commander.CommandsCommand(), "")

	for _, c := range priceCommands {
		commander.Register(c, "prices")
	}
	for _, c := range cacheCommands {
		commander.Register(c, "cache")
	}

	flag.Parse()

	app := newApp(*configPath, os.Stdout)
	status := commander.Execute(context.Background(), app)
	app.close()
	os.Exit(int(status))
}
