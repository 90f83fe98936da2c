// Command build-corpus translates the Nynorsk and Bokmål wiki dumps in
// both directions and writes aligned {original, translation} pair
// corpora. Dumps not given on the command line are resolved against the
// public dump listing and downloaded first.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/nordtext/bidict/internal/dumps"
	"github.com/nordtext/bidict/pkg/bidict"
	"github.com/nordtext/bidict/pkg/bidict/config"
	"github.com/nordtext/bidict/pkg/bidict/corpus"
	"github.com/nordtext/bidict/pkg/bidict/translate"
)

func main() {
	var (
		nnDump   = flag.String("nndump", "", "Nynorsk wiki dump, downloaded when absent")
		nbDump   = flag.String("nbdump", "", "Bokmål wiki dump, downloaded when absent")
		nnTrans  = flag.String("nntrans", "", "nno-nob pair corpus output (required)")
		nbTrans  = flag.String("nbtrans", "", "nob-nno pair corpus output (required)")
		cacheDir = flag.String("cache-dir", "dumps", "directory for downloaded dumps")

		configPath = flag.String("config", "", "YAML config file")
		engine     = flag.String("engine", "", "MT engine binary, overrides config")
		chunkSize  = flag.Int("chunk-size", 0, "articles per engine invocation, overrides config")
		workers    = flag.Int("workers", 0, "concurrent engine invocations, overrides config")
		limit      = flag.Int("limit", 0, "cap on articles per dump, 0 = all")
	)
	flag.Parse()

	if *nnTrans == "" || *nbTrans == "" {
		fmt.Fprintln(os.Stderr, "build-corpus: --nntrans and --nbtrans are required")
		flag.Usage()
		os.Exit(2)
	}

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			log.Fatal(err)
		}
		cfg = loaded
	}
	if *engine != "" {
		cfg.Engine = *engine
	}
	if *chunkSize > 0 {
		cfg.ChunkSize = *chunkSize
	}
	if *workers > 0 {
		cfg.Workers = *workers
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal(err)
	}

	ctx := context.Background()

	nnPath, err := resolveDump(ctx, *nnDump, "nn", *cacheDir)
	if err != nil {
		log.Fatal(err)
	}
	nbPath, err := resolveDump(ctx, *nbDump, "no", *cacheDir)
	if err != nil {
		log.Fatal(err)
	}

	if err := buildPairCorpus(ctx, cfg, "nno-nob", nnPath, *nnTrans, *limit); err != nil {
		log.Fatal(err)
	}
	if err := buildPairCorpus(ctx, cfg, "nob-nno", nbPath, *nbTrans, *limit); err != nil {
		log.Fatal(err)
	}
}

// resolveDump returns the given path unchanged, or finds and downloads
// the newest content dump for the wiki.
func resolveDump(ctx context.Context, path, wiki, cacheDir string) (string, error) {
	if path != "" {
		return path, nil
	}
	dumpURL, err := dumps.LatestContentDump(ctx, nil, dumps.ListingURL, wiki)
	if err != nil {
		return "", fmt.Errorf("resolve %s dump: %w", wiki, err)
	}
	log.Printf("downloading %s", dumpURL)
	dest, err := dumps.Download(ctx, nil, dumpURL, cacheDir)
	if err != nil {
		return "", fmt.Errorf("download %s dump: %w", wiki, err)
	}
	return dest, nil
}

func buildPairCorpus(ctx context.Context, cfg config.Config, direction, dumpPath, outPath string, limit int) error {
	r, err := corpus.Open(dumpPath)
	if err != nil {
		return fmt.Errorf("open dump %s: %w", dumpPath, err)
	}
	defer r.Close()

	out, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}

	builder := bidict.New(bidict.Options{
		Engine: &translate.ApertiumEngine{
			Binary:  cfg.Engine,
			Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second,
		},
		Direction:        direction,
		ChunkSize:        cfg.ChunkSize,
		Workers:          cfg.Workers,
		Separator:        cfg.Separator,
		SkipFailedChunks: cfg.SkipFailedChunks,
		Limit:            limit,
		Logf:             log.Printf,
	})

	summary, err := builder.BuildPairCorpus(ctx, r, out)
	if err != nil {
		out.Close()
		return err
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("close output: %w", err)
	}

	log.Printf("%s: %d pairs written to %s", direction, summary.Articles, outPath)
	return nil
}
