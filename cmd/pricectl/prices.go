package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/google/subcommands"

	"price-cache-service/internal/application/dto"
	"price-cache-service/internal/domain/entities"
)

var priceCommands = []subcommands.Command{
	&currentCmd{},
	&historicalCmd{},
	&assetsCmd{},
}

type currentCmd struct{}

func (*currentCmd) Name() string     { return "current" }
func (*currentCmd) Synopsis() string { return "print the current price of one or more assets" }
func (*currentCmd) Usage() string {
	return `pricectl current <type> <symbol> [<symbol>...]

  Looks up current prices through the cache. Fresh cached prices are served
  without contacting the providers.
`
}

func (*currentCmd) SetFlags(*flag.FlagSet) {}

func (c *currentCmd) Execute(ctx context.Context, f *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	if f.NArg() < 2 {
		fmt.Fprint(os.Stderr, c.Usage())
		return subcommands.ExitUsageError
	}

	refs := make([]dto.AssetRef, 0, f.NArg()-1)
	for _, symbol := range f.Args()[1:] {
		req, err := dto.NewCurrentPriceRequest(f.Arg(0), symbol)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return subcommands.ExitUsageError
		}
		refs = append(refs, req.AssetRef)
	}

	a, service, status := fromArgs(args)
	if status != subcommands.ExitSuccess {
		return status
	}

	w := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ASSET\tPRICE\t24H\tSOURCE\tAS OF")

	degraded := false
	for _, ref := range refs {
		result := service.GetCurrentPrice(ctx, ref.Type, ref.Symbol)
		if !entities.IsUsablePrice(result.Price) || entities.IsDegradedSource(result.Source) {
			degraded = true
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			ref.String(),
			formatPrice(ref.Type, result.Price),
			formatChange(ref.Type, result.Change24h, result.Change24hPercent),
			result.Source,
			time.UnixMilli(result.Timestamp).UTC().Format(time.RFC3339),
		)
	}
	if err := w.Flush(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	if degraded {
		fmt.Fprintln(os.Stderr, "warning: some prices came from a fallback and may be unavailable")
	}
	return subcommands.ExitSuccess
}

type historicalCmd struct{}

func (*historicalCmd) Name() string     { return "historical" }
func (*historicalCmd) Synopsis() string { return "print the closing price of an asset on a date" }
func (*historicalCmd) Usage() string {
	return `pricectl historical <type> <symbol> <YYYY-MM-DD>

  Looks up the closing price for a calendar day. Days within the last ten
  years are cached permanently once found.
`
}

func (*historicalCmd) SetFlags(*flag.FlagSet) {}

func (c *historicalCmd) Execute(ctx context.Context, f *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 3 {
		fmt.Fprint(os.Stderr, c.Usage())
		return subcommands.ExitUsageError
	}

	req, err := dto.NewHistoricalPriceRequest(f.Arg(0), f.Arg(1), f.Arg(2))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitUsageError
	}

	a, service, status := fromArgs(args)
	if status != subcommands.ExitSuccess {
		return status
	}

	result := service.GetHistoricalPrice(ctx, req.Type, req.Symbol, req.Date)
	if !result.Exists {
		fmt.Fprintf(a.out, "%s on %s: no price (%s, %s)\n", req.AssetRef.String(), result.Date, result.Source, result.Error)
		return subcommands.ExitFailure
	}

	fmt.Fprintf(a.out, "%s on %s: %s (%s)\n", req.AssetRef.String(), result.Date, formatPrice(req.Type, result.Price), result.Source)
	return subcommands.ExitSuccess
}

type assetsCmd struct {
	assetType string
}

func (*assetsCmd) Name() string     { return "assets" }
func (*assetsCmd) Synopsis() string { return "list the supported assets" }
func (*assetsCmd) Usage() string {
	return `pricectl assets [-type <type>]
`
}

func (c *assetsCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.assetType, "type", "", "Only list one asset type (crypto, stock, index, domestic).")
}

func (c *assetsCmd) Execute(_ context.Context, _ *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	types := entities.AllAssetTypes()
	if c.assetType != "" {
		t, err := entities.ParseAssetType(c.assetType)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return subcommands.ExitUsageError
		}
		types = []entities.AssetType{t}
	}

	a, service, status := fromArgs(args)
	if status != subcommands.ExitSuccess {
		return status
	}

	supported := service.GetSupportedAssets()
	for _, t := range types {
		fmt.Fprintf(a.out, "%-9s %s\n", t, strings.Join(supported.ByType(t), ", "))
	}
	return subcommands.ExitSuccess
}
