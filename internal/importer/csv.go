// Package importer parses uploaded yard sheets into raw pair records ready
// for the merge engine.
package importer

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/Lorandel/Warehouse-Ramps/internal/lookup"
	"github.com/Lorandel/Warehouse-Ramps/internal/models"
)

// Parse reads a CSV or TSV yard sheet. The first line is treated as a
// header when it names truck/trailer columns; otherwise the first two
// columns are truck and trailer. Blank rows are skipped; rows that are
// blank on both sides are dropped like everywhere else.
func Parse(r io.Reader, delimiter rune) ([]models.PairRecord, error) {
	reader := csv.NewReader(r)
	reader.Comma = delimiter
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	truckCol, trailerCol := 0, 1
	headerSkipped := false

	var records []models.PairRecord

	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			// csv.Reader tracks the real file line; a read counter drifts
			// past skipped blank lines and multi-line quoted fields.
			var csvErr *csv.ParseError
			if errors.As(err, &csvErr) {
				return nil, &models.ParseError{Line: csvErr.Line, Err: csvErr.Err}
			}
			return nil, &models.ParseError{Err: err}
		}

		if !headerSkipped {
			headerSkipped = true
			if t, r, ok := headerColumns(row); ok {
				truckCol, trailerCol = t, r
				continue
			}
		}

		if len(row) <= truckCol && len(row) <= trailerCol {
			continue
		}

		rec := models.PairRecord{Sequence: len(records) + 1}
		if truckCol < len(row) {
			rec.Truck = lookup.NormalizeID(row[truckCol])
		}
		if trailerCol < len(row) {
			rec.Trailer = lookup.NormalizeID(row[trailerCol])
		}

		if rec.IsBlank() {
			continue
		}

		records = append(records, rec)
	}

	if len(records) == 0 {
		return nil, &models.ParseError{Err: fmt.Errorf("no usable truck/trailer rows found")}
	}

	return records, nil
}

// ParseFile parses a yard sheet from disk, picking the delimiter from the
// file extension (.tsv/.tab use tabs, everything else commas).
func ParseFile(path string) ([]models.PairRecord, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open import file: %w", err)
	}
	defer file.Close()

	delimiter := ','
	switch strings.ToLower(filepath.Ext(path)) {
	case ".tsv", ".tab":
		delimiter = '\t'
	}

	return Parse(file, delimiter)
}

// headerColumns detects a header row naming the truck and trailer columns.
func headerColumns(row []string) (int, int, bool) {
	truckCol, trailerCol := -1, -1

	for i, cell := range row {
		switch strings.ToLower(strings.TrimSpace(cell)) {
		case "truck", "truck_number", "truck number":
			if truckCol == -1 {
				truckCol = i
			}
		case "trailer", "trailer_number", "trailer number":
			if trailerCol == -1 {
				trailerCol = i
			}
		}
	}

	if truckCol >= 0 && trailerCol >= 0 {
		return truckCol, trailerCol, true
	}
	return 0, 0, false
}
