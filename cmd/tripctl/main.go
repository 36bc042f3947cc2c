package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/alecthomas/kong"

	"github.com/gilby125/weekend-trip-api/pkg/buildinfo"
	"github.com/gilby125/weekend-trip-api/pkg/logger"
)

// Globals are flags shared by every command.
type Globals struct {
	Server  string        `name:"server" env:"TRIPS_SERVER" default:"http://localhost:8080" help:"API base URL"`
	Timeout time.Duration `name:"timeout" default:"10s" help:"Per-attempt HTTP timeout"`
	Retries int           `name:"retries" default:"3" help:"Retries on connection errors and 5xx"`
	JSON    bool          `name:"json" short:"j" help:"Print raw JSON"`
	Verbose bool          `name:"verbose" short:"v" help:"Log HTTP attempts to stderr"`

	out io.Writer
}

func (g *Globals) client() *Client {
	var log *logger.Logger
	if g.Verbose {
		log = logger.New(logger.Config{Level: "debug", Format: "text", Output: os.Stderr})
		return NewClient(g.Server, g.Timeout, g.Retries, log.Slog())
	}
	return NewClient(g.Server, g.Timeout, g.Retries, nil)
}

func (g *Globals) printJSON(v interface{}) error {
	enc := json.NewEncoder(g.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// CLI is the tripctl command tree.
type CLI struct {
	Globals

	Weekend WeekendCmd       `cmd:"" name:"weekend" help:"Show the weekend window after a reference date"`
	Presets PresetsCmd       `cmd:"" name:"presets" help:"Expand date presets into departure and return dates"`
	Catalog CatalogCmd       `cmd:"" name:"catalog" help:"List available presets"`
	Version kong.VersionFlag `name:"version" help:"Print version"`
}

type WeekendCmd struct {
	Reference string `name:"reference" short:"r" help:"Reference date (YYYY-MM-DD), default today"`
}

func (c *WeekendCmd) Run(ctx context.Context, g *Globals) error {
	w, err := g.client().Weekend(ctx, c.Reference)
	if err != nil {
		return err
	}
	if g.JSON {
		return g.printJSON(w)
	}
	_, err = fmt.Fprintf(g.out, "%s -> %s (%d nights, from %s)\n", w.Start, w.End, w.Nights, w.Reference)
	return err
}

type PresetsCmd struct {
	Reference string   `name:"reference" short:"r" help:"Reference date (YYYY-MM-DD), default today"`
	Keys      []string `arg:"" name:"preset" help:"weekend, next-weekend, next-week, flexible"`
}

func (c *PresetsCmd) Run(ctx context.Context, g *Globals) error {
	plan, err := g.client().Presets(ctx, c.Reference, c.Keys)
	if err != nil {
		return err
	}
	if g.JSON {
		return g.printJSON(plan)
	}
	fmt.Fprintf(g.out, "reference %s, presets %s\n", plan.Reference, strings.Join(plan.Presets, ","))
	for _, s := range plan.Departures {
		fmt.Fprintf(g.out, "depart  %s  %s-%s\n", s.Date, s.Earliest, s.Latest)
	}
	for _, s := range plan.Returns {
		fmt.Fprintf(g.out, "return  %s  %s-%s\n", s.Date, s.Earliest, s.Latest)
	}
	return nil
}

type CatalogCmd struct {
	Lang string `name:"lang" short:"l" help:"Label language (en, fr)"`
}

func (c *CatalogCmd) Run(ctx context.Context, g *Globals) error {
	entries, err := g.client().Catalog(ctx, c.Lang)
	if err != nil {
		return err
	}
	if g.JSON {
		return g.printJSON(entries)
	}
	for _, e := range entries {
		fmt.Fprintf(g.out, "%-13s %s %s\n", e.Key, e.Icon, e.Label)
	}
	return nil
}

func run(ctx context.Context, args []string, out io.Writer) error {
	var cli CLI
	cli.out = out
	parser, err := kong.New(&cli,
		kong.Name("tripctl"),
		kong.Description("Resolve weekend trip dates against the weekend trip API."),
		kong.UsageOnError(),
		kong.Vars{"version": buildinfo.Version},
		kong.BindTo(ctx, (*context.Context)(nil)),
	)
	if err != nil {
		return err
	}
	kctx, err := parser.Parse(args)
	if err != nil {
		return err
	}
	return kctx.Run(&cli.Globals)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, "tripctl:", err)
		os.Exit(1)
	}
}
