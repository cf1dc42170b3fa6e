package smoke

import (
	"os"
	"strings"
)

// ParseQueries splits a "|"-separated list of titles.
func ParseQueries(raw string) []string {
	var out []string
	for _, q := range strings.Split(raw, "|") {
		if q = strings.TrimSpace(q); q != "" {
			out = append(out, q)
		}
	}
	return out
}

// ShowHelp prints usage information for the smoke tool.
func ShowHelp() {
	os.Stdout.WriteString(`Movie Ratings Smoke Tool
========================

Searches a running service for a set of titles, loads details for the top
hits and reports rating and trailer coverage.

Usage:
  go run ./cmd/smoke [options]

Options:
  -url string
        Base URL of the service (default "http://localhost:8080")
  -queries string
        Titles separated by "|" (default: a built-in list)
  -details int
        Details fetched per query (default 1)
  -workers int
        Concurrent queries (default 4)
  -timeout duration
        Per-request timeout (default 20s)
  -output string
        Write the JSON report to this file
  -verbose
        Log every detail record
  -help
        Show this help message

Examples:
  go run ./cmd/smoke -queries "Inception|Param Sundari" -details 3
  go run ./cmd/smoke -url http://localhost:9090 -output smoke.json
`)
}
