// Command tui opens an interactive terminal explorer over a keyword
// corpus: pick nodes from the keyword table, pin and release them, reheat
// the simulation and switch layout variants while it runs.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/dd0wney/keygraph/pkg/corpus"
	"github.com/dd0wney/keygraph/pkg/layout"
	"github.com/dd0wney/keygraph/pkg/logging"
	"github.com/dd0wney/keygraph/pkg/pipeline"
	"github.com/dd0wney/keygraph/pkg/tui"
)

type runOptions struct {
	input       string
	delimiter   string
	header      bool
	maxNodes    int
	minStrength int
	variant     string
	width       float64
	height      float64
	seed        int64
	tick        time.Duration
	ascii       bool
}

func main() {
	var opts runOptions
	flag.StringVar(&opts.input, "input", "", "Path to the corpus CSV/TSV file")
	flag.StringVar(&opts.delimiter, "delimiter", "", "Column delimiter; empty sniffs from the extension")
	noHeader := flag.Bool("no-header", false, "Treat the first row as data, not column names")
	flag.IntVar(&opts.maxNodes, "max-nodes", 30, "Keep the N most frequent keywords")
	flag.IntVar(&opts.minStrength, "min-strength", 1, "Drop links below this co-occurrence count")
	flag.StringVar(&opts.variant, "variant", "standard", "Layout variant: standard, radial or cluster")
	flag.Float64Var(&opts.width, "width", 800, "Canvas width")
	flag.Float64Var(&opts.height, "height", 600, "Canvas height")
	flag.Int64Var(&opts.seed, "seed", 1, "Placement seed; equal seeds reproduce equal layouts")
	flag.DurationVar(&opts.tick, "tick", 33*time.Millisecond, "Simulation step interval")
	flag.BoolVar(&opts.ascii, "ascii", false, "Draw the canvas with plain glyphs instead of braille")
	flag.Parse()
	opts.header = !*noHeader

	if opts.input == "" {
		fmt.Fprintln(os.Stderr, "usage: tui -input corpus.csv [flags]")
		flag.PrintDefaults()
		os.Exit(1)
	}

	if err := run(opts); err != nil {
		fmt.Fprintf(os.Stderr, "tui: %v\n", err)
		os.Exit(1)
	}
}

func run(opts runOptions) error {
	variant, err := layout.ParseVariant(opts.variant)
	if err != nil {
		return err
	}

	ctx := context.Background()

	fileOpts := corpus.DefaultFileOptions(opts.input)
	fileOpts.Header = opts.header
	if opts.delimiter != "" {
		fileOpts.Delimiter = []rune(opts.delimiter)[0]
	}

	docs, err := corpus.NewFileSource(fileOpts).Load(ctx)
	if err != nil {
		return err
	}

	cfg := pipeline.Config{
		MaxNodes:    opts.maxNodes,
		MinStrength: opts.minStrength,
		Variant:     variant,
		Layout:      layout.DefaultOptions(opts.width, opts.height),
	}
	cfg.Layout.Seed = opts.seed

	// Log lines would tear the alternate screen, so the session stays quiet
	session, err := pipeline.New(cfg, pipeline.WithLogger(logging.NewNopLogger()))
	if err != nil {
		return err
	}
	defer session.Stop()

	if _, err := session.Rebuild(ctx, docs); err != nil {
		return err
	}

	model, err := tui.New(tui.Options{
		Session:      session,
		Docs:         docs,
		TickInterval: opts.tick,
		ASCII:        opts.ascii,
	})
	if err != nil {
		return err
	}

	_, err = tea.NewProgram(model, tea.WithAltScreen()).Run()
	return err
}
