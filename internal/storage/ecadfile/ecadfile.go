// Package ecadfile reads the flat text files distributed by the European
// Climate Assessment & Dataset (ECA&D) project.
//
// Each file begins with a free-text preamble followed by a comma-separated
// table whose header line starts with STAID. Fields are padded with spaces:
//
//	STAID, SOUID,    DATE,   TG, Q_TG
//	   10,   100,19600101,  -12,    0
package ecadfile

import (
	"bufio"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/chrissnell/ecadweather/internal/storage"
	"github.com/chrissnell/ecadweather/internal/types"
	"go.uber.org/zap"
)

// StationsFile is the default name of the station listing
const StationsFile = "stations.txt"

// Storage is a read-only repository over a directory of ECA&D text files
type Storage struct {
	dir          string
	stationsFile string
	logger       *zap.SugaredLogger
}

// New creates a repository rooted at dir. stationsFile may be empty.
func New(dir, stationsFile string, logger *zap.SugaredLogger) (*Storage, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("ECA&D data directory %s is not accessible: %w", dir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("ECA&D data path %s is not a directory", dir)
	}
	if stationsFile == "" {
		stationsFile = StationsFile
	}

	return &Storage{dir: dir, stationsFile: stationsFile, logger: logger}, nil
}

// Name returns the backend name
func (s *Storage) Name() string {
	return "ecadfile"
}

// SeriesPath returns the file holding a station's TG series
func (s *Storage) SeriesPath(stationID int) string {
	return filepath.Join(s.dir, storage.TableName(stationID)+".txt")
}

// LoadSeries reads the station's TG_STAIDnnnnnn.txt file
func (s *Storage) LoadSeries(ctx context.Context, stationID int) ([]types.RawRow, error) {
	if stationID < 0 {
		return nil, storage.ErrStationNotFound
	}
	path := s.SeriesPath(stationID)

	records, err := readFile(ctx, path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, storage.ErrStationNotFound
	}
	if err != nil {
		return nil, err
	}

	out := make([]types.RawRow, 0, len(records))
	for i, rec := range records {
		row, err := storage.NewRawRow(rec)
		if err != nil {
			return nil, fmt.Errorf("%s record %d: %w", path, i+1, err)
		}
		out = append(out, row)
	}

	s.logger.Debugw("loaded station file", "path", path, "rows", len(out))
	return out, nil
}

// Stations reads the station listing. A missing listing yields an empty list.
func (s *Storage) Stations(ctx context.Context) ([]types.Station, error) {
	path := filepath.Join(s.dir, s.stationsFile)

	records, err := readFile(ctx, path)
	if errors.Is(err, fs.ErrNotExist) {
		s.logger.Warnf("station listing %s not found", path)
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	out := make([]types.Station, 0, len(records))
	for i, rec := range records {
		st, err := storage.NewStation(rec)
		if err != nil {
			return nil, fmt.Errorf("%s record %d: %w", path, i+1, err)
		}
		out = append(out, st)
	}
	return out, nil
}

// SeriesFiles lists the station ids that have a TG file in the directory
func (s *Storage) SeriesFiles() ([]int, error) {
	matches, err := filepath.Glob(filepath.Join(s.dir, "TG_STAID*.txt"))
	if err != nil {
		return nil, err
	}

	var ids []int
	for _, m := range matches {
		digits := strings.TrimSuffix(strings.TrimPrefix(filepath.Base(m), "TG_STAID"), ".txt")
		id, err := strconv.Atoi(digits)
		if err != nil || len(digits) != 6 {
			s.logger.Warnf("skipping unrecognized file %s", m)
			continue
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func readFile(ctx context.Context, path string) ([]map[string]any, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return ReadTable(ctx, f)
}

// ReadTable parses an ECA&D table, skipping the preamble. Records are keyed
// by canonical column name.
func ReadTable(ctx context.Context, r io.Reader) ([]map[string]any, error) {
	br := bufio.NewReader(r)

	header, err := findHeader(br)
	if err != nil {
		return nil, err
	}

	cr := csv.NewReader(br)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	cr.LazyQuotes = true
	cr.ReuseRecord = true

	var out []map[string]any
	for line := 1; ; line++ {
		if line%10000 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}

		fields, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("error parsing table: %w", err)
		}
		if len(fields) == 1 && strings.TrimSpace(fields[0]) == "" {
			continue
		}
		if len(fields) != len(header) {
			return nil, fmt.Errorf("table line %d has %d fields, header has %d", line, len(fields), len(header))
		}

		rec := make(map[string]any, len(header))
		for i, name := range header {
			rec[name] = storage.ParseValue(fields[i])
		}
		out = append(out, rec)
	}

	return out, nil
}

// findHeader consumes lines up to and including the column header line
func findHeader(br *bufio.Reader) ([]string, error) {
	for {
		line, err := br.ReadString('\n')
		if len(line) > 0 {
			fields := strings.Split(strings.TrimRight(line, "\r\n"), ",")
			if storage.CanonicalColumn(fields[0]) == storage.ColumnStationID {
				header := make([]string, len(fields))
				for i, f := range fields {
					header[i] = storage.CanonicalColumn(f)
				}
				return header, nil
			}
		}
		if err == io.EOF {
			return nil, fmt.Errorf("no STAID header line found")
		}
		if err != nil {
			return nil, err
		}
	}
}
