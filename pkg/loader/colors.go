package loader

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/vanderheijden86/wdiview/internal/datasource"
	"github.com/vanderheijden86/wdiview/pkg/debug"
	"github.com/vanderheijden86/wdiview/pkg/model"
)

// LoadColorLookup reads a whitespace-delimited "CODE COLOR" file, one pair per
// line. Blank lines are skipped. A line with a code but no color is fatal:
// the file is reference data and a half-read palette would silently recolor
// the bar chart.
//
// A database written by wdi --export-sqlite is also accepted; its colors
// table is read instead.
func LoadColorLookup(path string) (model.ColorLookup, error) {
	if datasource.TypeForPath(path) == datasource.SourceTypeSQLite {
		return loadSQLiteColors(path)
	}
	f, err := os.Open(path)
	if err != nil {
		return model.ColorLookup{}, fmt.Errorf("color file: %w", err)
	}
	defer f.Close()

	lookup, err := ParseColorLookup(f)
	if err != nil {
		return model.ColorLookup{}, fmt.Errorf("color file %s: %w", path, err)
	}
	debug.Log("loaded %d country colors from %s", lookup.Len(), path)
	return lookup, nil
}

func loadSQLiteColors(path string) (model.ColorLookup, error) {
	src, err := datasource.Detect(path)
	if err != nil {
		return model.ColorLookup{}, fmt.Errorf("color file: %w", err)
	}
	r, err := datasource.NewSQLiteReader(src)
	if err != nil {
		return model.ColorLookup{}, fmt.Errorf("color file %s: %w", path, err)
	}
	defer r.Close()

	assignments, err := r.LoadColors()
	if err != nil {
		return model.ColorLookup{}, fmt.Errorf("color file %s: %w", path, err)
	}
	debug.Log("loaded %d country colors from %s", len(assignments), src)
	return model.NewColorLookup(assignments), nil
}

// ParseColorLookup decodes color assignments from r.
func ParseColorLookup(r io.Reader) (model.ColorLookup, error) {
	var assignments []model.ColorAssignment

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimRight(scanner.Text(), " \t\r\n")
		if strings.TrimSpace(line) == "" {
			continue
		}

		fields := strings.Fields(line)
		if len(fields) < 2 {
			return model.ColorLookup{}, fmt.Errorf("%w: line %d: %q has no color column", ErrMalformedColorLine, lineNo, line)
		}
		assignments = append(assignments, model.ColorAssignment{
			CountryCode: fields[0],
			Color:       fields[1],
		})
	}
	if err := scanner.Err(); err != nil {
		return model.ColorLookup{}, fmt.Errorf("read colors: %w", err)
	}
	return model.NewColorLookup(assignments), nil
}
