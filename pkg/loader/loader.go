// Package loader reads the three startup reference files: the indicator
// table, the country color file and the sunburst hierarchy.
//
// Every loader is all-or-nothing. A missing file, a header that does not carry
// the expected columns, or a malformed line is returned as an error and the
// caller is expected to refuse to start.
package loader

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/vanderheijden86/wdiview/internal/datasource"
	"github.com/vanderheijden86/wdiview/pkg/debug"
	"github.com/vanderheijden86/wdiview/pkg/metrics"
	"github.com/vanderheijden86/wdiview/pkg/model"
	"github.com/vanderheijden86/wdiview/pkg/table"
)

// Sentinel errors returned (wrapped) by the loaders.
var (
	ErrMissingColumn      = errors.New("missing column")
	ErrMalformedRow       = errors.New("malformed row")
	ErrMalformedColorLine = errors.New("malformed color line")
)

// Indicator table columns, in normalised form.
const (
	ColCountryName = "country_name"
	ColCountryCode = "country_code"
	ColIndicator   = "indicator_name"
	ColYear        = "year"
	ColValue       = "value"
)

var observationColumns = []string{ColCountryName, ColCountryCode, ColIndicator, ColYear, ColValue}

// LoadIndicatorTable reads the indicator table at path. The format is chosen
// from the extension: delimited text, an Excel workbook or an exported SQLite
// database.
func LoadIndicatorTable(path string) (*table.Table, error) {
	defer metrics.Timer(metrics.TableLoad)()
	start := time.Now()

	src, err := datasource.Detect(path)
	if err != nil {
		return nil, err
	}

	var rows []model.Observation
	switch src.Type {
	case datasource.SourceTypeSQLite:
		rows, err = loadSQLite(src)
	case datasource.SourceTypeXLSX:
		var cells [][]string
		cells, err = datasource.ReadXLSXRows(src)
		if err == nil {
			rows, err = decodeObservations(sliceRows(cells))
		}
	default:
		rows, err = loadDelimited(src)
	}
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}

	debug.Log("loaded %d observations from %s", len(rows), src)
	debug.LogTiming("LoadIndicatorTable", time.Since(start))
	return table.New(rows), nil
}

func loadSQLite(src datasource.DataSource) ([]model.Observation, error) {
	r, err := datasource.NewSQLiteReader(src)
	if err != nil {
		return nil, err
	}
	defer r.Close()
	if meta, err := r.Meta(); err == nil {
		debug.Log("%s: schema %s written by %s at %s", src.Path, meta["schema_version"], meta["generator"], meta["exported_at"])
	}
	return r.LoadObservations()
}

func loadDelimited(src datasource.DataSource) ([]model.Observation, error) {
	f, err := os.Open(src.Path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	if src.Type == datasource.SourceTypeTSV {
		r.Comma = '\t'
	}
	return decodeObservations(r.Read)
}

// ParseIndicatorTable decodes comma-separated indicator rows from r.
func ParseIndicatorTable(r io.Reader) (*table.Table, error) {
	rows, err := decodeObservations(csv.NewReader(r).Read)
	if err != nil {
		return nil, err
	}
	return table.New(rows), nil
}

// sliceRows adapts in-memory rows to the streaming decoder.
func sliceRows(rows [][]string) func() ([]string, error) {
	i := 0
	return func() ([]string, error) {
		if i >= len(rows) {
			return nil, io.EOF
		}
		i++
		return rows[i-1], nil
	}
}

// decodeObservations reads a header followed by data rows from next until
// io.EOF.
func decodeObservations(next func() ([]string, error)) ([]model.Observation, error) {
	header, err := next()
	if err == io.EOF {
		return nil, fmt.Errorf("%w: empty file, want columns %s", ErrMissingColumn, strings.Join(observationColumns, ", "))
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	idx, err := columnIndex(header, observationColumns)
	if err != nil {
		return nil, err
	}

	var out []model.Observation
	line := 1
	for {
		rec, err := next()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", ErrMalformedRow, line, err)
		}
		if isBlank(rec) {
			continue
		}

		o, err := decodeObservation(rec, idx)
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", ErrMalformedRow, line, err)
		}
		out = append(out, o)
	}
	return out, nil
}

func decodeObservation(rec []string, idx map[string]int) (model.Observation, error) {
	cell := func(col string) string {
		i := idx[col]
		if i >= len(rec) {
			return ""
		}
		return strings.TrimSpace(rec[i])
	}

	yearRaw := cell(ColYear)
	year, err := strconv.Atoi(yearRaw)
	if err != nil {
		// Workbooks and pandas exports sometimes write years as floats.
		f, ferr := strconv.ParseFloat(yearRaw, 64)
		if ferr != nil || f != float64(int(f)) {
			return model.Observation{}, fmt.Errorf("year %q is not an integer", yearRaw)
		}
		year = int(f)
	}

	value, err := model.ParseValue(cell(ColValue))
	if err != nil {
		return model.Observation{}, fmt.Errorf("value %q is not numeric", cell(ColValue))
	}

	return model.Observation{
		CountryName: cell(ColCountryName),
		CountryCode: cell(ColCountryCode),
		Indicator:   cell(ColIndicator),
		Year:        year,
		Value:       value,
	}, nil
}

// columnIndex maps each wanted column to its position in header. Header
// matching ignores case, surrounding whitespace, and treats spaces and
// hyphens as underscores.
func columnIndex(header, want []string) (map[string]int, error) {
	found := make(map[string]int, len(header))
	for i, h := range header {
		key := normalizeColumn(h)
		if _, dup := found[key]; !dup {
			found[key] = i
		}
	}

	idx := make(map[string]int, len(want))
	var missing []string
	for _, col := range want {
		i, ok := found[col]
		if !ok {
			missing = append(missing, col)
			continue
		}
		idx[col] = i
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s (header: %s)", ErrMissingColumn, strings.Join(missing, ", "), strings.Join(header, ", "))
	}
	return idx, nil
}

func normalizeColumn(h string) string {
	h = strings.TrimPrefix(h, "\ufeff")
	h = strings.ToLower(strings.TrimSpace(h))
	h = strings.NewReplacer(" ", "_", "-", "_").Replace(h)
	return h
}

func isBlank(rec []string) bool {
	for _, c := range rec {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
