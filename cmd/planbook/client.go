package main

import (
	"encoding/json"
	"io"
	"os"
	"text/tabwriter"

	"github.com/joho/godotenv"
	"github.com/planbook/planbook/pkg/planner"
)

// resolveClient builds an API client for the query subcommands. The key
// comes from PLANBOOK_API_KEY (via .env if present), matching what the
// server reads.
func resolveClient(addr string) *planner.Client {
	_ = godotenv.Load()
	return planner.NewClient(addr, os.Getenv("PLANBOOK_API_KEY"), nil)
}

// printJSON marshals v to indented JSON on the given writer.
func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// newTabWriter returns a configured tabwriter for aligned columns.
func newTabWriter(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
}
