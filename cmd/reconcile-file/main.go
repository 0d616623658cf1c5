package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/Vodeneev/statjoin/internal/joiner/joiner"
	"github.com/Vodeneev/statjoin/internal/pkg/models"
	"github.com/Vodeneev/statjoin/internal/pkg/stats"
	"github.com/Vodeneev/statjoin/internal/reconcile"
)

// Exit codes
const (
	exitOK     = 0
	exitError  = 1
	exitSchema = 2
)

func main() {
	var (
		picksPath  string
		statsPath  string
		teamColumn string
		selector   string
		exactOnly  bool
	)
	flag.StringVar(&picksPath, "picks", "", "Path to picks JSON (array of pick records, - for stdin)")
	flag.StringVar(&statsPath, "stats", "", "Path to stats table (.csv, or .html/.htm)")
	flag.StringVar(&teamColumn, "team-column", "Team", "Team name column in the stats table")
	flag.StringVar(&selector, "selector", "table", "CSS selector of the stats table in HTML files")
	flag.BoolVar(&exactOnly, "exact", false, "Match exact normalized names only")
	flag.Parse()

	if picksPath == "" || statsPath == "" {
		flag.Usage()
		os.Exit(exitError)
	}

	code, err := run(os.Stdout, picksPath, statsPath, teamColumn, selector, exactOnly)
	if err != nil {
		log.Printf("reconcile-file: %v", err)
	}
	os.Exit(code)
}

func run(out io.Writer, picksPath, statsPath, teamColumn, selector string, exactOnly bool) (int, error) {
	picks, err := readPicks(picksPath)
	if err != nil {
		return exitError, err
	}
	table, err := readTable(statsPath, selector)
	if err != nil {
		return exitError, err
	}

	var opts []reconcile.Option
	if exactOnly {
		opts = append(opts, reconcile.ExactOnly())
	}
	o := joiner.Evaluate(picks, table, teamColumn, opts...)

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(o); err != nil {
		return exitError, fmt.Errorf("failed to write outcome: %w", err)
	}
	if errors.Is(o.StatsErr, stats.ErrSchema) {
		return exitSchema, o.StatsErr
	}
	return exitOK, nil
}

func readPicks(path string) ([]models.PickRecord, error) {
	var r io.Reader = os.Stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("failed to open picks: %w", err)
		}
		defer f.Close()
		r = f
	}
	var picks []models.PickRecord
	if err := json.NewDecoder(r).Decode(&picks); err != nil {
		return nil, fmt.Errorf("failed to decode picks: %w", err)
	}
	return picks, nil
}

func readTable(path, selector string) (stats.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return stats.Table{}, fmt.Errorf("failed to open stats: %w", err)
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".html", ".htm":
		return stats.ReadHTML(f, selector)
	default:
		return stats.ReadCSV(f)
	}
}
