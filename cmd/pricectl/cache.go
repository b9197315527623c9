package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"price-cache-service/internal/application/dto"
)

var cacheCommands = []subcommands.Command{
	&statsCmd{},
	&cleanupCmd{},
	&clearCmd{},
}

type statsCmd struct{}

func (*statsCmd) Name() string           { return "stats" }
func (*statsCmd) Synopsis() string       { return "count cached current and historical prices" }
func (*statsCmd) Usage() string          { return "pricectl stats\n" }
func (*statsCmd) SetFlags(*flag.FlagSet) {}

func (*statsCmd) Execute(ctx context.Context, _ *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	a, service, status := fromArgs(args)
	if status != subcommands.ExitSuccess {
		return status
	}

	if !service.CacheEnabled() {
		fmt.Fprintln(a.out, "cache disabled")
		return subcommands.ExitSuccess
	}

	stats := service.GetCacheStats(ctx)
	fmt.Fprintf(a.out, "current:    %d\nhistorical: %d\ntotal:      %d\n", stats.Current, stats.Historical, stats.Total)
	return subcommands.ExitSuccess
}

type cleanupCmd struct{}

func (*cleanupCmd) Name() string           { return "cleanup" }
func (*cleanupCmd) Synopsis() string       { return "remove expired current prices" }
func (*cleanupCmd) Usage() string          { return "pricectl cleanup\n" }
func (*cleanupCmd) SetFlags(*flag.FlagSet) {}

func (*cleanupCmd) Execute(ctx context.Context, _ *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	a, service, status := fromArgs(args)
	if status != subcommands.ExitSuccess {
		return status
	}

	removed := service.CleanupExpiredCache(ctx)
	fmt.Fprintf(a.out, "removed %d expired entries\n", removed)
	return subcommands.ExitSuccess
}

type clearCmd struct {
	all bool
}

func (*clearCmd) Name() string     { return "clear" }
func (*clearCmd) Synopsis() string { return "remove cached prices of some asset types" }
func (*clearCmd) Usage() string {
	return `pricectl clear <type>[,<type>...]
pricectl clear -all

  Removes current and historical entries. Historical prices are never
  refetched automatically until they are requested again.
`
}

func (c *clearCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.all, "all", false, "Remove every cached price.")
}

func (c *clearCmd) Execute(ctx context.Context, f *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	if c.all {
		a, service, status := fromArgs(args)
		if status != subcommands.ExitSuccess {
			return status
		}
		fmt.Fprintf(a.out, "removed %d entries\n", service.ClearAllCache(ctx))
		return subcommands.ExitSuccess
	}

	if f.NArg() != 1 {
		fmt.Fprint(os.Stderr, c.Usage())
		return subcommands.ExitUsageError
	}

	req, err := dto.NewClearCacheRequest(f.Arg(0))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitUsageError
	}

	a, service, status := fromArgs(args)
	if status != subcommands.ExitSuccess {
		return status
	}

	removed := service.ClearCacheByTypes(ctx, req.Types)
	fmt.Fprintf(a.out, "removed %d entries for %v\n", removed, dto.NewPriceMapper().ToTypeNames(req.Types))
	return subcommands.ExitSuccess
}
