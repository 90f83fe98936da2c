// Command build-dict runs the dictionary-building pass: it streams a
// wiki dump, translates it through the MT engine, aligns sentences
// with their translations, and writes the filtered dictionary.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/nordtext/bidict/pkg/bidict"
	"github.com/nordtext/bidict/pkg/bidict/aggregate"
	"github.com/nordtext/bidict/pkg/bidict/config"
	"github.com/nordtext/bidict/pkg/bidict/corpus"
	"github.com/nordtext/bidict/pkg/bidict/store"
	"github.com/nordtext/bidict/pkg/bidict/store/sqlite"
	"github.com/nordtext/bidict/pkg/bidict/translate"
)

type options struct {
	direction  string
	limit      int
	inputFile  string
	outputFile string
	sourceTF   int
	sourceDF   float64
	transTF    int
	transDF    float64
	topN       int

	configPath string
	dbPath     string
	engine     string
	chunkSize  int
	workers    int
}

func registerFlags(fs *flag.FlagSet, o *options) {
	def := config.Default()

	o.direction = def.Direction
	o.sourceTF = int(def.Filters.SourceTF)
	o.sourceDF = def.Filters.SourceDF
	o.transTF = int(def.Filters.TransTF)
	o.transDF = def.Filters.TransDF
	o.topN = def.Filters.TopN

	fs.StringVar(&o.direction, "d", o.direction, "language pair, <from>-<to>")
	fs.StringVar(&o.direction, "direction", o.direction, "language pair, <from>-<to>")
	fs.IntVar(&o.limit, "l", 0, "cap on articles processed, 0 = all")
	fs.IntVar(&o.limit, "limit", 0, "cap on articles processed, 0 = all")
	fs.StringVar(&o.inputFile, "i", "", "wiki dump, gzip line-delimited JSON (required)")
	fs.StringVar(&o.inputFile, "input-file", "", "wiki dump, gzip line-delimited JSON (required)")
	fs.StringVar(&o.outputFile, "o", "", "dictionary output file (required)")
	fs.StringVar(&o.outputFile, "output-file", "", "dictionary output file (required)")
	fs.IntVar(&o.sourceTF, "S", o.sourceTF, "minimum source token frequency")
	fs.IntVar(&o.sourceTF, "source-tf-filter", o.sourceTF, "minimum source token frequency")
	fs.Float64Var(&o.sourceDF, "s", o.sourceDF, "maximum source document-frequency ratio")
	fs.Float64Var(&o.sourceDF, "source-df-filter", o.sourceDF, "maximum source document-frequency ratio")
	fs.IntVar(&o.transTF, "T", o.transTF, "minimum target token frequency")
	fs.IntVar(&o.transTF, "trans-tf-filter", o.transTF, "minimum target token frequency")
	fs.Float64Var(&o.transDF, "t", o.transDF, "maximum target document-frequency ratio")
	fs.Float64Var(&o.transDF, "trans-df-filter", o.transDF, "maximum target document-frequency ratio")
	fs.IntVar(&o.topN, "n", o.topN, "ranked targets kept per source token")
	fs.IntVar(&o.topN, "top-n", o.topN, "ranked targets kept per source token")

	fs.StringVar(&o.configPath, "config", "", "YAML config file")
	fs.StringVar(&o.dbPath, "db", "", "also persist the run to this SQLite database")
	fs.StringVar(&o.engine, "engine", "", "MT engine binary, overrides config")
	fs.IntVar(&o.chunkSize, "chunk-size", 0, "articles per engine invocation, overrides config")
	fs.IntVar(&o.workers, "workers", 0, "concurrent engine invocations, overrides config")
}

// mergeConfig overlays explicitly set flags on the file/default config.
func mergeConfig(fs *flag.FlagSet, o *options) (config.Config, error) {
	cfg := config.Default()
	if o.configPath != "" {
		loaded, err := config.Load(o.configPath)
		if err != nil {
			return config.Config{}, err
		}
		cfg = loaded
	}

	set := make(map[string]bool)
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })

	if set["d"] || set["direction"] {
		cfg.Direction = o.direction
	}
	if set["S"] || set["source-tf-filter"] {
		cfg.Filters.SourceTF = int64(o.sourceTF)
	}
	if set["s"] || set["source-df-filter"] {
		cfg.Filters.SourceDF = o.sourceDF
	}
	if set["T"] || set["trans-tf-filter"] {
		cfg.Filters.TransTF = int64(o.transTF)
	}
	if set["t"] || set["trans-df-filter"] {
		cfg.Filters.TransDF = o.transDF
	}
	if set["n"] || set["top-n"] {
		cfg.Filters.TopN = o.topN
	}
	if o.engine != "" {
		cfg.Engine = o.engine
	}
	if o.chunkSize > 0 {
		cfg.ChunkSize = o.chunkSize
	}
	if o.workers > 0 {
		cfg.Workers = o.workers
	}

	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

func main() {
	var opts options
	registerFlags(flag.CommandLine, &opts)
	flag.Parse()

	if opts.inputFile == "" || opts.outputFile == "" {
		fmt.Fprintln(os.Stderr, "build-dict: --input-file and --output-file are required")
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := mergeConfig(flag.CommandLine, &opts)
	if err != nil {
		log.Fatal(err)
	}

	ctx := context.Background()

	var st store.Store
	if opts.dbPath != "" {
		st, err = sqlite.Open(ctx, opts.dbPath)
		if err != nil {
			log.Fatal("open store:", err)
		}
		defer st.Close()
	}

	r, err := corpus.Open(opts.inputFile)
	if err != nil {
		log.Fatal("open dump:", err)
	}
	defer r.Close()

	out, err := os.Create(opts.outputFile)
	if err != nil {
		log.Fatal("create output:", err)
	}

	builder := bidict.New(bidict.Options{
		Engine: &translate.ApertiumEngine{
			Binary:  cfg.Engine,
			Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second,
		},
		Direction:        cfg.Direction,
		ChunkSize:        cfg.ChunkSize,
		Workers:          cfg.Workers,
		Separator:        cfg.Separator,
		SkipFailedChunks: cfg.SkipFailedChunks,
		Filters: aggregate.Filters{
			SourceMinTF:      cfg.Filters.SourceTF,
			SourceMaxDFRatio: cfg.Filters.SourceDF,
			TransMinTF:       cfg.Filters.TransTF,
			TransMaxDFRatio:  cfg.Filters.TransDF,
			TopN:             cfg.Filters.TopN,
		},
		Limit: opts.limit,
		Store: st,
		Logf:  log.Printf,
	})

	summary, err := builder.BuildDictionary(ctx, r, out)
	if err != nil {
		out.Close()
		log.Fatal(err)
	}
	if err := out.Close(); err != nil {
		log.Fatal("close output:", err)
	}

	log.Printf("run %s done: %d articles, %d entries, %d malformed lines, %d under admission length",
		summary.RunID, summary.Articles, summary.Entries, summary.Malformed, summary.Rejected)
}
