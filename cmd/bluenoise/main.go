// Command bluenoise generates a blue-noise point set by best-candidate
// sampling.
//
// Usage:
//
//	bluenoise [flags] [key=value ...]
//
// Sampling parameters are given as key=value arguments: count, multiplier,
// radius, height, seed (x,y,z), index (auto, brute, kdtree) and metric.
// Points are written as CSV, or stored in the bluenoise_points table of a
// SQLite database with -db. -compare samples with both indexes under the
// same generator seeds and reports timing and agreement.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/viant/bluenoise/sampler"
)

func main() {
	var (
		output   = flag.String("o", "", "CSV output file (default stdout)")
		dbPath   = flag.String("db", "", "SQLite database to store the points in")
		compare  = flag.Bool("compare", false, "compare the brute force and k-d tree indexes")
		trials   = flag.Int("trials", 4, "trials per index in compare mode")
		parallel = flag.Int("parallel", 0, "maximum concurrent trials in compare mode (0 = unbounded)")
		randSeed = flag.Uint64("rand-seed", 0, "candidate generator seed (0 = random)")
		verbose  = flag.Bool("v", false, "log every filled slot")
	)
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: %s [flags] [key=value ...]\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	cfg, err := sampler.ParseConfig(flag.Args())
	if err != nil {
		fatal(logger, err)
	}

	if *compare {
		report, err := compareIndexes(ctx, cfg, *trials, *parallel, *randSeed)
		if err != nil {
			fatal(logger, err)
		}
		report.write(os.Stdout)
		return
	}

	opts := []sampler.Option{sampler.WithLogger(logger)}
	if *randSeed != 0 {
		opts = append(opts, sampler.WithRandSeed(*randSeed))
	}
	if *dbPath != "" {
		n, err := generateToDB(ctx, *dbPath, cfg, opts...)
		if err != nil {
			fatal(logger, err)
		}
		logger.Info("points stored", "db", *dbPath, "points", n)
		return
	}

	res, err := sampler.Generate(ctx, cfg, opts...)
	if err != nil {
		fatal(logger, err)
	}
	var w io.Writer = os.Stdout
	if *output != "" {
		f, err := os.Create(*output)
		if err != nil {
			fatal(logger, err)
		}
		defer f.Close()
		w = f
	}
	if err := writeCSV(w, res); err != nil {
		fatal(logger, err)
	}
}

func fatal(logger *slog.Logger, err error) {
	logger.Error("bluenoise failed", "error", err)
	os.Exit(1)
}

func seedFor(base uint64, trial int) uint64 {
	if base == 0 {
		base = uint64(time.Now().UnixNano())
	}
	return base + uint64(trial)
}
