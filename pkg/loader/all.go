package loader

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	"github.com/vanderheijden86/wdiview/pkg/model"
	"github.com/vanderheijden86/wdiview/pkg/table"
)

// DataDirEnvVar overrides the directory the default file names are resolved against.
const DataDirEnvVar = "WDI_DATA_DIR"

// Default file names inside the data directory.
const (
	DefaultTableFile     = "part_wdi.csv"
	DefaultColorFile     = "country_color.txt"
	DefaultHierarchyFile = "sun_fig.csv"
)

// Paths names the three reference files.
type Paths struct {
	Table     string
	Colors    string
	Hierarchy string
}

// DefaultPaths resolves the default file names against dir, or against
// WDI_DATA_DIR, or ./data when both are empty.
func DefaultPaths(dir string) Paths {
	if dir == "" {
		dir = os.Getenv(DataDirEnvVar)
	}
	if dir == "" {
		dir = "data"
	}
	return Paths{
		Table:     filepath.Join(dir, DefaultTableFile),
		Colors:    filepath.Join(dir, DefaultColorFile),
		Hierarchy: filepath.Join(dir, DefaultHierarchyFile),
	}
}

// Data is everything loaded at startup. It is never modified afterwards.
type Data struct {
	Table     *table.Table
	Colors    model.ColorLookup
	Hierarchy []model.HierarchyNode
}

// LoadAll loads the three files concurrently. The first failure cancels the
// remaining loads and is returned; there is no partial result.
func LoadAll(ctx context.Context, paths Paths) (*Data, error) {
	var data Data

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := ctx.Err(); err != nil {
			return err
		}
		t, err := LoadIndicatorTable(paths.Table)
		if err != nil {
			return err
		}
		data.Table = t
		return nil
	})
	g.Go(func() error {
		if err := ctx.Err(); err != nil {
			return err
		}
		c, err := LoadColorLookup(paths.Colors)
		if err != nil {
			return err
		}
		data.Colors = c
		return nil
	})
	g.Go(func() error {
		if err := ctx.Err(); err != nil {
			return err
		}
		h, err := LoadHierarchy(paths.Hierarchy)
		if err != nil {
			return err
		}
		data.Hierarchy = h
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("loading reference data: %w", err)
	}
	return &data, nil
}
