// Package datasource detects the storage format of an indicator table file and
// provides the readers and writers for the formats that are not plain
// delimited text: SQLite databases and Excel workbooks.
package datasource

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// SourceType identifies the type of data source
type SourceType string

const (
	// SourceTypeCSV is a comma-separated text file
	SourceTypeCSV SourceType = "csv"
	// SourceTypeTSV is a tab-separated text file
	SourceTypeTSV SourceType = "tsv"
	// SourceTypeXLSX is an Excel workbook; the first sheet is read
	SourceTypeXLSX SourceType = "xlsx"
	// SourceTypeSQLite is a SQLite database written by ExportSQLite
	SourceTypeSQLite SourceType = "sqlite"
)

// DataSource describes one indicator table file on disk.
type DataSource struct {
	Type    SourceType `json:"type"`
	Path    string     `json:"path"`
	ModTime time.Time  `json:"mod_time"`
	Size    int64      `json:"size"`
}

// String returns a human-readable description of the source
func (s DataSource) String() string {
	return fmt.Sprintf("%s (%s, %d bytes, mod=%s)", s.Path, s.Type, s.Size, s.ModTime.Format(time.RFC3339))
}

// TypeForPath infers the source type from a file extension. Unknown
// extensions are treated as CSV.
func TypeForPath(path string) SourceType {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".tsv", ".tab":
		return SourceTypeTSV
	case ".xlsx", ".xlsm":
		return SourceTypeXLSX
	case ".db", ".sqlite", ".sqlite3":
		return SourceTypeSQLite
	default:
		return SourceTypeCSV
	}
}

// Detect stats path and returns its DataSource. A missing file or a
// directory is an error.
func Detect(path string) (DataSource, error) {
	info, err := os.Stat(path)
	if err != nil {
		return DataSource{}, fmt.Errorf("indicator table %s: %w", path, err)
	}
	if info.IsDir() {
		return DataSource{}, fmt.Errorf("indicator table %s: is a directory", path)
	}
	return DataSource{
		Type:    TypeForPath(path),
		Path:    path,
		ModTime: info.ModTime(),
		Size:    info.Size(),
	}, nil
}
