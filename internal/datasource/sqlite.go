package datasource

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/vanderheijden86/wdiview/pkg/model"
)

// SQLiteReader provides read access to an indicator database written by ExportSQLite
type SQLiteReader struct {
	db   *sql.DB
	path string
}

// NewSQLiteReader opens a SQLite database for reading
func NewSQLiteReader(source DataSource) (*SQLiteReader, error) {
	if source.Type != SourceTypeSQLite {
		return nil, fmt.Errorf("source is not SQLite: %s", source.Type)
	}

	// Open in read-only mode; the table is static reference data
	dsn := fmt.Sprintf("file:%s?mode=ro&_busy_timeout=5000", source.Path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("cannot open database: %w", err)
	}

	pragmas := []string{
		"PRAGMA cache_size = -64000", // 64MB cache
		"PRAGMA temp_store = MEMORY",
	}
	for _, pragma := range pragmas {
		// Non-fatal: read performance only
		_, _ = db.Exec(pragma)
	}

	return &SQLiteReader{
		db:   db,
		path: source.Path,
	}, nil
}

// Close closes the database connection
func (r *SQLiteReader) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// LoadObservations reads every observation in insertion order.
func (r *SQLiteReader) LoadObservations() ([]model.Observation, error) {
	rows, err := r.db.Query(`
		SELECT country_name, country_code, indicator_name, year, value
		FROM observations
		ORDER BY rowid
	`)
	if err != nil {
		return nil, fmt.Errorf("query observations in %s: %w", r.path, err)
	}
	defer rows.Close()

	var out []model.Observation
	for rows.Next() {
		var o model.Observation
		var value sql.NullFloat64
		if err := rows.Scan(&o.CountryName, &o.CountryCode, &o.Indicator, &o.Year, &value); err != nil {
			return nil, fmt.Errorf("scan observation: %w", err)
		}
		if value.Valid {
			o.Value = model.Present(value.Float64)
		}
		out = append(out, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating observations: %w", err)
	}
	return out, nil
}

// LoadColors reads the color assignments stored alongside the observations.
// Databases exported without colors return an empty slice.
func (r *SQLiteReader) LoadColors() ([]model.ColorAssignment, error) {
	rows, err := r.db.Query(`SELECT country_code, color FROM colors ORDER BY rowid`)
	if err != nil {
		return nil, fmt.Errorf("query colors in %s: %w", r.path, err)
	}
	defer rows.Close()

	var out []model.ColorAssignment
	for rows.Next() {
		var a model.ColorAssignment
		if err := rows.Scan(&a.CountryCode, &a.Color); err != nil {
			return nil, fmt.Errorf("scan color: %w", err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// Meta returns the export metadata key/value pairs.
func (r *SQLiteReader) Meta() (map[string]string, error) {
	rows, err := r.db.Query(`SELECT key, value FROM export_meta`)
	if err != nil {
		return nil, fmt.Errorf("query meta: %w", err)
	}
	defer rows.Close()

	meta := make(map[string]string)
	for rows.Next() {
		var k, v string
		if err := rows.Scan(&k, &v); err != nil {
			return nil, err
		}
		meta[k] = v
	}
	return meta, rows.Err()
}
