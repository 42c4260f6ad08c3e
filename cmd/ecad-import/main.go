// ecad-import loads a directory of ECA&D TG_STAIDnnnnnn.txt files (and the
// accompanying stations.txt) into the SQLite database served by ecadweather.
//
// Usage:
//
//	ecad-import -source ./ECA_blend_tg -output data/ecad.db [station ids...]
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/chrissnell/ecadweather/internal/log"
	"github.com/chrissnell/ecadweather/internal/storage/ecadfile"
	"github.com/chrissnell/ecadweather/internal/storage/sqlite"
)

func main() {
	source := flag.String("source", "data", "Directory holding the ECA&D text files")
	stationsFile := flag.String("stations-file", ecadfile.StationsFile, "Name of the station listing inside -source")
	output := flag.String("output", "data/ecad.db", "SQLite database to create or update")
	debug := flag.Bool("debug", false, "Turn on debugging output")
	flag.Parse()

	if err := log.Init(*debug); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	ids, err := parseIDs(flag.Args())
	if err != nil {
		log.Fatalf("invalid station id: %v", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, *source, *stationsFile, *output, ids); err != nil {
		log.Errorf("import failed: %v", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, source, stationsFile, output string, ids []int) error {
	logger := log.GetSugaredLogger()

	src, err := ecadfile.New(source, stationsFile, logger)
	if err != nil {
		return err
	}

	w, err := sqlite.NewWriter(output)
	if err != nil {
		return err
	}
	defer w.Close()

	list, err := src.Stations(ctx)
	if err != nil {
		return fmt.Errorf("reading station list: %w", err)
	}
	if err := w.WriteStations(ctx, list); err != nil {
		return err
	}
	log.Infof("wrote %d stations to %s", len(list), output)

	if len(ids) == 0 {
		ids, err = src.SeriesFiles()
		if err != nil {
			return err
		}
	}

	start := time.Now()
	var rows int
	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			return err
		}

		series, err := src.LoadSeries(ctx, id)
		if err != nil {
			return fmt.Errorf("station %d: %w", id, err)
		}
		if err := w.WriteSeries(ctx, id, series); err != nil {
			return fmt.Errorf("station %d: %w", id, err)
		}

		rows += len(series)
		log.Debugw("imported station", "station", id, "rows", len(series))
	}

	log.Infow("import complete", "stations", len(ids), "rows", rows, "duration", time.Since(start))
	return nil
}

func parseIDs(args []string) ([]int, error) {
	ids := make([]int, 0, len(args))
	for _, a := range args {
		id, err := strconv.Atoi(a)
		if err != nil || id < 0 {
			return nil, fmt.Errorf("%q", a)
		}
		ids = append(ids, id)
	}
	return ids, nil
}
