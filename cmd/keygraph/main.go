// Command keygraph runs the keyword graph pipeline once: it loads a
// delimited corpus file, builds and lays out the co-occurrence graph,
// and writes the result as JSON (optionally snappy-framed).
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/golang/snappy"

	"github.com/dd0wney/keygraph/pkg/community"
	"github.com/dd0wney/keygraph/pkg/corpus"
	"github.com/dd0wney/keygraph/pkg/graph"
	"github.com/dd0wney/keygraph/pkg/keywords"
	"github.com/dd0wney/keygraph/pkg/layout"
	"github.com/dd0wney/keygraph/pkg/logging"
	"github.com/dd0wney/keygraph/pkg/pipeline"
)

// exportPayload is the one-shot output document
type exportPayload struct {
	GeneratedAt time.Time              `json:"generated_at"`
	Documents   int                    `json:"documents"`
	Ticks       int                    `json:"ticks"`
	Stats       []keywords.KeywordStat `json:"stats"`
	Graph       *graph.Graph           `json:"graph"`
	Communities *community.Result      `json:"communities"`
	Layout      layout.Snapshot        `json:"layout"`
}

type runOptions struct {
	input       string
	output      string
	delimiter   string
	header      bool
	maxNodes    int
	minStrength int
	variant     string
	ticks       int
	width       float64
	height      float64
	seed        int64
	compress    bool
}

func main() {
	var opts runOptions
	flag.StringVar(&opts.input, "input", "", "Path to the corpus CSV/TSV file")
	flag.StringVar(&opts.output, "output", "-", "Output path; - writes to stdout")
	flag.StringVar(&opts.delimiter, "delimiter", "", "Column delimiter; empty sniffs from the extension")
	noHeader := flag.Bool("no-header", false, "Treat the first row as data, not column names")
	flag.IntVar(&opts.maxNodes, "max-nodes", 30, "Keep the N most frequent keywords")
	flag.IntVar(&opts.minStrength, "min-strength", 1, "Drop links below this co-occurrence count")
	flag.StringVar(&opts.variant, "variant", "standard", "Layout variant: standard, radial or cluster")
	flag.IntVar(&opts.ticks, "ticks", 0, "Simulation steps to run; 0 runs until settled")
	flag.Float64Var(&opts.width, "width", 800, "Canvas width")
	flag.Float64Var(&opts.height, "height", 600, "Canvas height")
	flag.Int64Var(&opts.seed, "seed", 1, "Placement seed; equal seeds reproduce equal layouts")
	flag.BoolVar(&opts.compress, "compress", false, "Snappy-frame the output")
	logLevel := flag.String("log-level", "info", "Log level: debug, info, warn or error")
	flag.Parse()
	opts.header = !*noHeader

	if opts.input == "" {
		fmt.Fprintln(os.Stderr, "Usage: keygraph -input corpus.csv [-output graph.json] [-ticks 300] [-variant radial] [-compress]")
		fmt.Fprintln(os.Stderr)
		fmt.Fprintln(os.Stderr, "The corpus file needs id, title and keywords columns; keywords are")
		fmt.Fprintln(os.Stderr, "delimited with ; , full-width comma or ideographic comma.")
		os.Exit(1)
	}

	log := logging.NewJSONLogger(os.Stderr, logging.ParseLevel(*logLevel))

	if err := run(log, opts); err != nil {
		log.Error("Run failed", logging.Error(err))
		os.Exit(1)
	}
}

func run(log logging.Logger, opts runOptions) error {
	variant, err := layout.ParseVariant(opts.variant)
	if err != nil {
		return err
	}

	ctx := context.Background()
	start := time.Now()

	fileOpts := corpus.DefaultFileOptions(opts.input)
	fileOpts.Header = opts.header
	if opts.delimiter != "" {
		fileOpts.Delimiter = []rune(opts.delimiter)[0]
	}

	docs, err := corpus.NewFileSource(fileOpts).Load(ctx)
	if err != nil {
		return err
	}
	log.Info("Corpus loaded", logging.Path(opts.input), logging.Documents(len(docs)))

	cfg := pipeline.Config{
		MaxNodes:    opts.maxNodes,
		MinStrength: opts.minStrength,
		Variant:     variant,
		Layout:      layout.DefaultOptions(opts.width, opts.height),
	}
	cfg.Layout.Seed = opts.seed

	session, err := pipeline.New(cfg, pipeline.WithLogger(log))
	if err != nil {
		return err
	}
	defer session.Stop()

	result, err := session.Rebuild(ctx, docs)
	if err != nil {
		return err
	}

	ran := runSimulation(session, opts.ticks)

	snap, err := session.Snapshot()
	if err != nil {
		return err
	}

	payload := exportPayload{
		GeneratedAt: time.Now().UTC(),
		Documents:   result.Documents,
		Ticks:       ran,
		Stats:       result.Stats,
		Graph:       result.Graph,
		Communities: result.Communities,
		Layout:      snap,
	}

	if err := writePayload(opts.output, opts.compress, &payload); err != nil {
		return err
	}

	log.Info("Graph written",
		logging.Path(opts.output),
		logging.Nodes(len(result.Graph.Nodes)),
		logging.Links(len(result.Graph.Links)),
		logging.Communities(result.Communities.Count),
		logging.Tick(ran),
		logging.String("phase", snap.Phase),
		logging.Latency(time.Since(start)),
	)
	return nil
}

// runSimulation advances the layout the requested number of steps, or
// until it settles when ticks is zero, and reports the steps taken
func runSimulation(session *pipeline.Session, ticks int) int {
	ran := 0
	if ticks > 0 {
		for i := 0; i < ticks; i++ {
			if !session.Tick() {
				break
			}
			ran++
		}
		return ran
	}
	for session.Tick() {
		ran++
	}
	return ran
}

func writePayload(output string, compress bool, payload *exportPayload) (err error) {
	var w io.Writer = os.Stdout
	if output != "-" {
		f, createErr := os.Create(output)
		if createErr != nil {
			return fmt.Errorf("failed to create output file: %w", createErr)
		}
		defer func() {
			if closeErr := f.Close(); closeErr != nil && err == nil {
				err = closeErr
			}
		}()
		w = f
	}

	if compress {
		sw := snappy.NewBufferedWriter(w)
		defer func() {
			if closeErr := sw.Close(); closeErr != nil && err == nil {
				err = closeErr
			}
		}()
		w = sw
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(payload)
}
