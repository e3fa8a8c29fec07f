// Command versefinder looks up Bible verses in a flat-text corpus.
// With no subcommand it runs the interactive prompt loop.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/dustin/go-humanize"

	"github.com/FocuswithJustin/versefinder/core/abbrev"
	"github.com/FocuswithJustin/versefinder/core/corpus"
	"github.com/FocuswithJustin/versefinder/core/errors"
	"github.com/FocuswithJustin/versefinder/core/history"
	"github.com/FocuswithJustin/versefinder/core/sqlite"
	"github.com/FocuswithJustin/versefinder/internal/config"
	"github.com/FocuswithJustin/versefinder/internal/console"
	"github.com/FocuswithJustin/versefinder/internal/logging"
	"github.com/FocuswithJustin/versefinder/internal/lookup"
)

const version = "1.0.0"

var (
	stdin  io.Reader = os.Stdin
	stdout io.Writer = os.Stdout
)

// Globals are flags shared by every command. Non-empty values override the
// configuration file and environment.
type Globals struct {
	Config        string `name:"config" short:"c" help:"Configuration file (YAML)" type:"path"`
	Corpus        string `name:"corpus" help:"Bible text file (.txt, .txt.xz, .txt.gz)" type:"path"`
	Abbreviations string `name:"abbreviations" help:"Abbreviation table (.csv or .xml)" type:"path"`
	Output        string `name:"output" short:"o" help:"File found verses are appended to" type:"path"`
	HistoryDB     string `name:"history-db" help:"SQLite database recording every lookup" type:"path"`
	LogLevel      string `name:"log-level" help:"Log level (debug, info, warn, error)"`
	LogFormat     string `name:"log-format" help:"Log format (text, json)"`
}

// CLI defines the command-line interface for versefinder.
var CLI struct {
	Globals

	Interactive InteractiveCmd `cmd:"" default:"1" help:"Prompt for references until told to stop (default)"`
	Get         GetCmd         `cmd:"" help:"Look up one verse by book, chapter and verse"`
	Ref         RefCmd         `cmd:"" help:"Look up one verse from a reference such as \"John 3:16\""`
	History     HistoryCmd     `cmd:"" help:"List recent lookups from the history database"`
	Info        InfoCmd        `cmd:"" help:"Describe the loaded corpus and abbreviation table"`
	Env         EnvCmd         `cmd:"" help:"List supported environment variables"`
	Version     VersionCmd     `cmd:"" help:"Print version information"`
}

// InteractiveCmd runs the prompt loop on stdin and stdout.
type InteractiveCmd struct{}

func (c *InteractiveCmd) Run(g *Globals) error {
	cfg, err := g.load()
	if err != nil {
		return err
	}
	svc, err := openService(cfg)
	if err != nil {
		return err
	}
	defer closeSink(svc.Sink)

	d := &console.Driver{In: stdin, Out: stdout, Finder: svc}
	return d.Run(context.Background())
}

// GetCmd performs a single lookup from positional arguments.
type GetCmd struct {
	Book    string `arg:"" help:"Book name or abbreviation"`
	Chapter string `arg:"" help:"Chapter (or psalm) number"`
	Verse   string `arg:"" optional:"" help:"Verse number"`
}

func (c *GetCmd) Run(g *Globals) error {
	return oneShot(g, func(ctx context.Context, svc *lookup.Service) (lookup.Result, error) {
		return svc.Find(ctx, c.Book, c.Chapter, c.Verse)
	})
}

// RefCmd performs a single lookup from one reference string.
type RefCmd struct {
	Reference []string `arg:"" help:"Reference, e.g. \"1 John 4:8\" or \"Ps 23\""`
}

func (c *RefCmd) Run(g *Globals) error {
	return oneShot(g, func(ctx context.Context, svc *lookup.Service) (lookup.Result, error) {
		return svc.FindRef(ctx, strings.Join(c.Reference, " "))
	})
}

func oneShot(g *Globals, find func(context.Context, *lookup.Service) (lookup.Result, error)) error {
	cfg, err := g.load()
	if err != nil {
		return err
	}
	svc, err := openService(cfg)
	if err != nil {
		return err
	}
	defer closeSink(svc.Sink)

	ctx := logging.WithSessionID(context.Background(), "cli")
	res, err := find(ctx, svc)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(stdout, res.Message)
	return err
}

// HistoryCmd lists recorded lookups, newest first.
type HistoryCmd struct {
	Limit int `name:"limit" short:"n" default:"20" help:"Maximum number of lookups to list"`
}

func (c *HistoryCmd) Run(g *Globals) error {
	cfg, err := g.load()
	if err != nil {
		return err
	}
	if !cfg.HistoryEnabled() {
		return errors.NewValidation("history-db", "no history database configured (use --history-db or VERSEFINDER_HISTORY_DB)")
	}

	ctx := context.Background()
	store, err := history.OpenSQLite(ctx, cfg.History.Path)
	if err != nil {
		return err
	}
	defer store.Close()

	records, err := store.Recent(ctx, c.Limit)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		fmt.Fprintln(stdout, "No lookups recorded.")
		return nil
	}

	for _, rec := range records {
		status := "miss"
		if rec.Found {
			status = "found"
		}
		fmt.Fprintf(stdout, "%5d  %-16s  %-5s  %-16s  %s\n",
			rec.ID, humanize.Time(rec.CreatedAt), status, rec.Query, strings.Join(strings.Fields(rec.Text), " "))
	}
	return nil
}

// InfoCmd prints corpus and table statistics.
type InfoCmd struct{}

func (c *InfoCmd) Run(g *Globals) error {
	cfg, err := g.load()
	if err != nil {
		return err
	}

	table, err := abbrev.LoadFile(cfg.Abbreviations.Path, cfg.DuplicatePolicy())
	if err != nil {
		return err
	}
	text, err := corpus.Load(cfg.Corpus.Path)
	if err != nil {
		return err
	}

	info := sqlite.GetInfo()
	fmt.Fprintf(stdout, "Corpus:         %s\n", text.Path)
	fmt.Fprintf(stdout, "Lines:          %s\n", humanize.Comma(int64(text.Len())))
	fmt.Fprintf(stdout, "Size:           %s\n", text.HumanSize())
	fmt.Fprintf(stdout, "BLAKE3:         %s\n", text.Fingerprint)
	fmt.Fprintf(stdout, "Abbreviations:  %s (%d aliases, duplicates: %s)\n", cfg.Abbreviations.Path, table.Len(), table.Policy())
	fmt.Fprintf(stdout, "Book match:     %s\n", cfg.BookMatch())
	fmt.Fprintf(stdout, "Output:         %s (width %d)\n", cfg.Output.Path, cfg.Output.Width)
	if cfg.HistoryEnabled() {
		fmt.Fprintf(stdout, "History:        %s\n", cfg.History.Path)
	} else {
		fmt.Fprintln(stdout, "History:        disabled")
	}
	fmt.Fprintf(stdout, "SQLite driver:  %s (%s)\n", info.DriverName, info.DriverType)
	return nil
}

// EnvCmd prints the environment variables the configuration reads.
type EnvCmd struct{}

func (c *EnvCmd) Run() error {
	fmt.Fprint(stdout, config.Usage())
	return nil
}

// VersionCmd prints the version.
type VersionCmd struct{}

func (c *VersionCmd) Run() error {
	fmt.Fprintf(stdout, "versefinder version %s\n", version)
	return nil
}

// load reads the configuration, applies flag overrides and initializes
// logging.
func (g *Globals) load() (*config.Config, error) {
	cfg, err := config.Load(g.Config)
	if err != nil {
		return nil, err
	}

	override(&cfg.Corpus.Path, g.Corpus)
	override(&cfg.Abbreviations.Path, g.Abbreviations)
	override(&cfg.Output.Path, g.Output)
	override(&cfg.History.Path, g.HistoryDB)
	override(&cfg.Log.Level, g.LogLevel)
	override(&cfg.Log.Format, g.LogFormat)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: validate: %w", err)
	}

	logging.InitLogger(logging.ParseLevel(cfg.Log.Level), logging.ParseFormat(cfg.Log.Format))
	return cfg, nil
}

func override(dst *string, flag string) {
	if flag != "" {
		*dst = flag
	}
}

// openService loads the abbreviation table and corpus and wires the sinks:
// the verse log always, the SQLite history when configured.
func openService(cfg *config.Config) (*lookup.Service, error) {
	table, err := abbrev.LoadFile(cfg.Abbreviations.Path, cfg.DuplicatePolicy())
	if err != nil {
		return nil, err
	}
	text, err := corpus.Load(cfg.Corpus.Path)
	if err != nil {
		return nil, err
	}

	sinks := history.Multi{history.NewFileSink(cfg.Output.Path)}
	if cfg.HistoryEnabled() {
		store, err := history.OpenSQLite(context.Background(), cfg.History.Path)
		if err != nil {
			return nil, err
		}
		sinks = append(sinks, store)
	}

	return &lookup.Service{
		Table:  table,
		Corpus: text,
		Sink:   sinks,
		Options: lookup.Options{
			BookMatch:      cfg.BookMatch(),
			Capitalization: cfg.Capitalization(),
			Width:          cfg.Output.Width,
		},
	}, nil
}

func closeSink(s history.Sink) {
	if err := s.Close(); err != nil {
		logging.Warn("closing history sinks", "error", err)
	}
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name("versefinder"),
		kong.Description("Look up Bible verses by book, chapter and verse"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
	)
	err := ctx.Run(&CLI.Globals)
	ctx.FatalIfErrorf(err)
}
