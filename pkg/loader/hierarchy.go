package loader

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/vanderheijden86/wdiview/pkg/debug"
	"github.com/vanderheijden86/wdiview/pkg/model"
)

// Hierarchy file columns. The file written for the original dashboard uses
// the plural spellings.
var hierarchyColumns = []string{"ids", "labels", "parents", "values"}

// LoadHierarchy reads the taxonomy file behind the sunburst chart.
func LoadHierarchy(path string) ([]model.HierarchyNode, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("hierarchy file: %w", err)
	}
	defer f.Close()

	nodes, err := ParseHierarchy(f)
	if err != nil {
		return nil, fmt.Errorf("hierarchy file %s: %w", path, err)
	}
	debug.Log("loaded %d hierarchy nodes from %s", len(nodes), path)
	return nodes, nil
}

// ParseHierarchy decodes hierarchy rows (id, label, parent, value) from r.
// Singular column names are accepted as well.
func ParseHierarchy(r io.Reader) ([]model.HierarchyNode, error) {
	cr := csv.NewReader(r)
	header, err := cr.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("%w: empty file, want columns %s", ErrMissingColumn, strings.Join(hierarchyColumns, ", "))
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	normalized := make([]string, len(header))
	for i, h := range header {
		h = normalizeColumn(h)
		if !strings.HasSuffix(h, "s") {
			h += "s"
		}
		normalized[i] = h
	}
	idx, err := columnIndex(normalized, hierarchyColumns)
	if err != nil {
		return nil, err
	}

	var nodes []model.HierarchyNode
	line := 1
	for {
		rec, err := cr.Read()
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

		rawValue := strings.TrimSpace(rec[idx["values"]])
		var value float64
		if rawValue != "" {
			value, err = strconv.ParseFloat(rawValue, 64)
			if err != nil {
				return nil, fmt.Errorf("%w: line %d: value %q is not numeric", ErrMalformedRow, line, rawValue)
			}
		}

		nodes = append(nodes, model.HierarchyNode{
			ID:     strings.TrimSpace(rec[idx["ids"]]),
			Label:  strings.TrimSpace(rec[idx["labels"]]),
			Parent: strings.TrimSpace(rec[idx["parents"]]),
			Value:  value,
		})
	}
	return nodes, nil
}
