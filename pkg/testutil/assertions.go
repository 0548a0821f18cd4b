package testutil

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	json "github.com/goccy/go-json"

	"github.com/vanderheijden86/wdiview/pkg/loader"
	"github.com/vanderheijden86/wdiview/pkg/model"
)

// AssertJSONEqual compares two values by their JSON encoding.
func AssertJSONEqual(t *testing.T, expected, actual any) {
	t.Helper()

	expectedJSON, err := json.Marshal(expected)
	if err != nil {
		t.Fatalf("failed to marshal expected: %v", err)
	}
	actualJSON, err := json.Marshal(actual)
	if err != nil {
		t.Fatalf("failed to marshal actual: %v", err)
	}
	if string(expectedJSON) != string(actualJSON) {
		t.Errorf("JSON mismatch:\nexpected: %s\nactual:   %s", expectedJSON, actualJSON)
	}
}

// AssertDescending fails unless vals never increase.
func AssertDescending(t *testing.T, vals []float64) {
	t.Helper()
	for i := 1; i < len(vals); i++ {
		if vals[i] > vals[i-1] {
			t.Errorf("not descending at %d: %v > %v", i, vals[i], vals[i-1])
			return
		}
	}
}

// AssertSubset fails unless every element of sub is in super.
func AssertSubset(t *testing.T, sub, super []string) {
	t.Helper()
	have := make(map[string]bool, len(super))
	for _, s := range super {
		have[s] = true
	}
	for _, s := range sub {
		if !have[s] {
			t.Errorf("%q missing from %v", s, super)
		}
	}
}

// GoldenFile handles golden file comparisons.
type GoldenFile struct {
	t      *testing.T
	dir    string
	name   string
	update bool
}

// NewGoldenFile creates a golden file helper.
// If GENERATE_GOLDEN is set, golden files are rewritten instead of compared.
func NewGoldenFile(t *testing.T, dir, name string) *GoldenFile {
	t.Helper()
	return &GoldenFile{
		t:      t,
		dir:    dir,
		name:   name,
		update: os.Getenv("GENERATE_GOLDEN") != "",
	}
}

// Path returns the full path to the golden file.
func (g *GoldenFile) Path() string {
	return filepath.Join(g.dir, g.name)
}

// Assert compares actual content against the golden file.
func (g *GoldenFile) Assert(actual string) {
	g.t.Helper()

	path := g.Path()
	if g.update {
		if err := os.MkdirAll(g.dir, 0o755); err != nil {
			g.t.Fatalf("failed to create golden dir: %v", err)
		}
		if err := os.WriteFile(path, []byte(actual), 0o644); err != nil {
			g.t.Fatalf("failed to write golden file: %v", err)
		}
		g.t.Logf("updated golden file: %s", path)
		return
	}

	expected, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			g.t.Fatalf("golden file does not exist: %s\nRun with GENERATE_GOLDEN=1 to create it", path)
		}
		g.t.Fatalf("failed to read golden file: %v", err)
	}
	if string(expected) == actual {
		return
	}

	expectedLines := strings.Split(string(expected), "\n")
	actualLines := strings.Split(actual, "\n")
	for i := 0; i < len(expectedLines) || i < len(actualLines); i++ {
		var expLine, actLine string
		if i < len(expectedLines) {
			expLine = expectedLines[i]
		}
		if i < len(actualLines) {
			actLine = actualLines[i]
		}
		if expLine != actLine {
			g.t.Errorf("golden file mismatch at line %d:\nexpected: %s\nactual:   %s", i+1, expLine, actLine)
			return
		}
	}
}

// WriteDataDir writes data as the three default reference files under dir
// and returns their paths.
func WriteDataDir(t *testing.T, dir string, data *loader.Data) loader.Paths {
	t.Helper()

	paths := loader.DefaultPaths(dir)
	writeCSV(t, paths.Table, []string{"Country_Name", "Country_Code", "Indicator_Name", "Year", "Value"},
		func(emit func(...string)) {
			for _, o := range data.Table.Rows() {
				value := ""
				if o.Value.Valid {
					value = strconv.FormatFloat(o.Value.Float, 'g', -1, 64)
				}
				emit(o.CountryName, o.CountryCode, o.Indicator, strconv.Itoa(o.Year), value)
			}
		})
	writeCSV(t, paths.Hierarchy, []string{"ids", "labels", "parents", "values"},
		func(emit func(...string)) {
			for _, n := range data.Hierarchy {
				emit(n.ID, n.Label, n.Parent, strconv.FormatFloat(n.Value, 'g', -1, 64))
			}
		})
	WriteColorFile(t, paths.Colors, data.Colors.Assignments())
	return paths
}

// WriteColorFile writes one "code color" line per assignment.
func WriteColorFile(t *testing.T, path string, assignments []model.ColorAssignment) {
	t.Helper()
	var b strings.Builder
	for _, a := range assignments {
		fmt.Fprintf(&b, "%s %s\n", a.CountryCode, a.Color)
	}
	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
}

func writeCSV(t *testing.T, path string, header []string, rows func(emit func(...string))) {
	t.Helper()
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("failed to create %s: %v", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		t.Fatal(err)
	}
	rows(func(fields ...string) {
		if err := w.Write(fields); err != nil {
			t.Fatal(err)
		}
	})
	w.Flush()
	if err := w.Error(); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
}
