package scanner

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/bytedance/sonic"

	"github.com/usagelens/usagelens/internal/core/model"
	"github.com/usagelens/usagelens/internal/util"
)

// Scanner decodes an export file into raw rows. Two shapes are
// understood: a CSV flattening of the first sheet (header row required)
// and a JSON array of column-keyed objects. Real workbook decoding is
// the job of whatever produced the file.
type Scanner struct{}

func New() *Scanner {
	return &Scanner{}
}

// Read decodes the file at path into raw rows. Any failure here is
// file-level: the load aborts with a single descriptive error and no
// partial rows are returned.
func (s *Scanner) Read(path string) ([]model.RawRow, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open export file: %w", err)
	}
	defer file.Close()

	ext := strings.ToLower(filepath.Ext(path))
	var rows []model.RawRow
	switch ext {
	case ".json":
		rows, err = readJSON(file)
	default:
		rows, err = readCSV(file)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("no data rows in %s", path)
	}

	util.LogDebug(fmt.Sprintf("Decoded %d raw rows from %s", len(rows), path))
	return rows, nil
}

func readCSV(r io.Reader) ([]model.RawRow, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("empty file")
	}
	if err != nil {
		return nil, err
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	var rows []model.RawRow
	for {
		cells, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		row := make(model.RawRow, len(header))
		for i, name := range header {
			if name == "" {
				continue
			}
			if i < len(cells) {
				row[name] = cells[i]
			}
		}
		rows = append(rows, row)
	}

	return rows, nil
}

func readJSON(r io.Reader) ([]model.RawRow, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	var rows []model.RawRow
	if err := sonic.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("expected a JSON array of row objects: %w", err)
	}
	return rows, nil
}
