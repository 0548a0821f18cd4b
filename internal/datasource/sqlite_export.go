package datasource

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	_ "modernc.org/sqlite"

	"github.com/vanderheijden86/wdiview/pkg/model"
	"github.com/vanderheijden86/wdiview/pkg/version"
)

// SchemaVersion tracks the layout of exported databases.
const SchemaVersion = 1

// SQLiteExport bundles the data written by ExportSQLite.
type SQLiteExport struct {
	Observations []model.Observation
	Colors       []model.ColorAssignment
}

// ExportSQLite writes observations and colors into a fresh database at path.
// An existing file is replaced.
func ExportSQLite(path string, data SQLiteExport) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove existing database: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	if err := createSchema(db); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	if err := insertObservations(tx, data.Observations); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("insert observations: %w", err)
	}
	if err := insertColors(tx, data.Colors); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("insert colors: %w", err)
	}
	if err := insertMeta(tx, len(data.Observations)); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("insert meta: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}

	if _, err := db.Exec("VACUUM"); err != nil {
		return fmt.Errorf("vacuum: %w", err)
	}
	return nil
}

func createSchema(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS observations (
			country_name TEXT NOT NULL,
			country_code TEXT NOT NULL,
			indicator_name TEXT NOT NULL,
			year INTEGER NOT NULL,
			value REAL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_observations_indicator_year
			ON observations(indicator_name, year)`,
		`CREATE TABLE IF NOT EXISTS colors (
			country_code TEXT PRIMARY KEY,
			color TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS export_meta (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		)`,
	}
	for _, s := range stmts {
		if _, err := db.Exec(s); err != nil {
			return err
		}
	}
	return nil
}

func insertObservations(tx *sql.Tx, obs []model.Observation) error {
	stmt, err := tx.Prepare(`INSERT INTO observations
		(country_name, country_code, indicator_name, year, value) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, o := range obs {
		var value sql.NullFloat64
		if o.Value.Valid {
			value = sql.NullFloat64{Float64: o.Value.Float, Valid: true}
		}
		if _, err := stmt.Exec(o.CountryName, o.CountryCode, o.Indicator, o.Year, value); err != nil {
			return err
		}
	}
	return nil
}

func insertColors(tx *sql.Tx, colors []model.ColorAssignment) error {
	stmt, err := tx.Prepare(`INSERT OR REPLACE INTO colors (country_code, color) VALUES (?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, c := range colors {
		if _, err := stmt.Exec(c.CountryCode, c.Color); err != nil {
			return err
		}
	}
	return nil
}

func insertMeta(tx *sql.Tx, count int) error {
	meta := map[string]string{
		"schema_version": strconv.Itoa(SchemaVersion),
		"generator":      "wdi " + version.Version,
		"exported_at":    time.Now().UTC().Format(time.RFC3339),
		"observations":   strconv.Itoa(count),
	}
	for k, v := range meta {
		if _, err := tx.Exec(`INSERT INTO export_meta (key, value) VALUES (?, ?)`, k, v); err != nil {
			return err
		}
	}
	return nil
}
