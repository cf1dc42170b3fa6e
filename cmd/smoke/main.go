package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/sureshchouksey8/MOVIERATINGS/internal/smoke"
	"github.com/sureshchouksey8/MOVIERATINGS/pkg/logger"
)

const (
	defaultTimeout    = 20 * time.Second
	defaultRunTimeout = 5 * time.Minute
)

func main() {
	var (
		baseURL = flag.String("url", "http://localhost:8080", "Base URL of the service")
		queries = flag.String("queries", "", `Titles separated by "|"`)
		details = flag.Int("details", 1, "Details fetched per query")
		workers = flag.Int("workers", 4, "Concurrent queries")
		timeout = flag.Duration("timeout", defaultTimeout, "Per-request timeout")
		output  = flag.String("output", "", "Write the JSON report to this file")
		verbose = flag.Bool("verbose", false, "Log every detail record")
		help    = flag.Bool("help", false, "Show help")
	)
	flag.Parse()

	if *help {
		smoke.ShowHelp()
		return
	}

	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), defaultRunTimeout)
	defer cancel()

	report, err := smoke.Run(ctx, &smoke.Config{
		BaseURL:       *baseURL,
		Queries:       smoke.ParseQueries(*queries),
		DetailsPerHit: *details,
		Workers:       *workers,
		Timeout:       *timeout,
		OutputFile:    *output,
		Verbose:       *verbose,
	})
	if err != nil {
		os.Stderr.WriteString("smoke run failed: " + err.Error() + "\n")
		os.Exit(1)
	}
	if report.Failed() {
		os.Exit(2)
	}
}
