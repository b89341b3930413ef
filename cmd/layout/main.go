// Command layout prints the saved occupancy grid in the forms downstream
// tools consume.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sort"
	"strings"

	"layout-editor/internal/grid"
	"layout-editor/internal/layout"
)

const usage = `Usage: layout [-grid path] [-plain] [-sep s] <command>

Commands:
  json          raw grid as a JSON array of arrays
  map           symbol grid as JSON
  string        grid rendered as text
  info          dimensions and cell statistics
  symbols       the symbol table
  png <out>     grid as a PNG image (-scale px per cell)
  watch         print info each time the grid file changes
`

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	os.Exit(run(ctx, os.Args[1:], os.Stdout, os.Stderr))
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("layout", flag.ContinueOnError)
	fs.SetOutput(stderr)
	gridPath := fs.String("grid", grid.DefaultPath, "Path to the grid JSON file")
	plain := fs.Bool("plain", false, "Use uncolored symbols")
	sep := fs.String("sep", " ", "Cell separator for the string command")
	scale := fs.Int("scale", 16, "Pixels per cell for the png command")
	fs.Usage = func() { fmt.Fprint(stderr, usage) }

	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() == 0 {
		fs.Usage()
		return 2
	}

	m := layout.New(*gridPath)
	var symbols layout.SymbolSet
	if *plain {
		symbols = layout.PlainSymbols()
	}

	switch cmd := fs.Arg(0); cmd {
	case "json":
		return printJSON(stdout, stderr, m.JSON())
	case "map":
		return printJSON(stdout, stderr, m.Symbols(symbols))
	case "string":
		fmt.Fprintln(stdout, m.String(symbols, *sep))
	case "info":
		printInfo(stdout, m.Info())
	case "symbols":
		printSymbols(stdout, symbols)
	case "png":
		if fs.NArg() < 2 {
			fmt.Fprintln(stderr, "png needs an output path")
			return 2
		}
		if err := m.WritePNG(fs.Arg(1), *scale); err != nil {
			fmt.Fprintf(stderr, "Failed to write image: %v\n", err)
			return 1
		}
		fmt.Fprintf(stdout, "Wrote %s\n", fs.Arg(1))
	case "watch":
		printInfo(stdout, m.Info())
		err := m.Watch(ctx, func(info layout.Info) {
			fmt.Fprintln(stdout, strings.Repeat("-", 40))
			printInfo(stdout, info)
		})
		if err != nil {
			fmt.Fprintf(stderr, "Watch failed: %v\n", err)
			return 1
		}
	default:
		fmt.Fprintf(stderr, "unknown command %q\n", cmd)
		fs.Usage()
		return 2
	}
	return 0
}

func printJSON(stdout, stderr io.Writer, v interface{}) int {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Fprintf(stderr, "Failed to encode: %v\n", err)
		return 1
	}
	fmt.Fprintln(stdout, string(data))
	return 0
}

func printInfo(w io.Writer, info layout.Info) {
	if info.TotalCells == 0 {
		fmt.Fprintln(w, "No map data found")
		return
	}
	fmt.Fprintf(w, "Dimensions: %d rows x %d cols (%d cells)\n", info.Rows, info.Cols, info.TotalCells)
	fmt.Fprintf(w, "Free:      %5d (%.1f%%)\n", info.FreeCount, info.FreePercent)
	fmt.Fprintf(w, "Obstacles: %5d (%.1f%%)\n", info.ObstacleCount, info.ObstaclePercent)
	fmt.Fprintf(w, "Home:      %5d (%.1f%%)\n", info.HomeCount, info.HomePercent)
}

func printSymbols(w io.Writer, override layout.SymbolSet) {
	table := layout.DefaultSymbols()
	for k, v := range override {
		table[k] = v
	}
	names := make([]string, 0, len(table))
	for name := range table {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(w, "%-9s %s\n", name, table[name])
	}
}
