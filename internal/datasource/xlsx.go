package datasource

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

// ReadXLSXRows returns the cell text of the first sheet of a workbook, header
// row included.
func ReadXLSXRows(source DataSource) ([][]string, error) {
	if source.Type != SourceTypeXLSX {
		return nil, fmt.Errorf("source is not a workbook: %s", source.Type)
	}

	f, err := excelize.OpenFile(source.Path)
	if err != nil {
		return nil, fmt.Errorf("open workbook %s: %w", source.Path, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook %s has no sheets", source.Path)
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheets[0], err)
	}
	return rows, nil
}
