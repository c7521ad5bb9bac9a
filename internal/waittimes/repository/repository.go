// Package repository loads the wait-time snapshot from disk. The snapshot
// is produced offline by the fetch tool; the serving process only ever
// reads it, once, at startup.
package repository

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/roledad/visa-wait-time/internal/waittimes/domain"
)

// LoadError is a fatal data-load failure: a missing snapshot, a missing
// required column or a malformed row. The server refuses to start on it
// rather than serve partial data.
type LoadError struct {
	Path   string
	Column string
	Line   int
	Err    error
}

func (e *LoadError) Error() string {
	switch {
	case e.Column != "":
		return fmt.Sprintf("load %s: missing required column %q", e.Path, e.Column)
	case e.Line > 0:
		return fmt.Sprintf("load %s: line %d: %v", e.Path, e.Line, e.Err)
	default:
		return fmt.Sprintf("load %s: %v", e.Path, e.Err)
	}
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// Column names expected in the wait-time snapshot.
const (
	colAsOfDate   = "asof_date"
	colUpdateDate = "update_date"
	colCountry    = "country"
	colCity       = "city"
	colCategory   = "visa_category"
	colWaitDays   = "wait_days"
	colUnit       = "unit"
)

// Snapshot is the raw wait-time table plus its dataset-level dates.
type Snapshot struct {
	Rows       []domain.WaitTimeRecord
	AsOfDate   string
	UpdateDate string
}

// Load reads the wait-time snapshot. The file is long format, one row per
// (city, category) cell, with the published category label in
// visa_category. Column order does not matter; every required column must
// be present by name.
func Load(path string) (*Snapshot, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}
	defer f.Close()

	reader := csv.NewReader(f)
	header, err := reader.Read()
	if err != nil {
		return nil, &LoadError{Path: path, Err: fmt.Errorf("read header: %w", err)}
	}

	cols, missing := headerIndex(header,
		colAsOfDate, colUpdateDate, colCountry, colCity, colCategory, colWaitDays, colUnit)
	if missing != "" {
		return nil, &LoadError{Path: path, Column: missing}
	}

	snapshot := &Snapshot{}
	line := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, &LoadError{Path: path, Line: line, Err: err}
		}

		label := strings.TrimSpace(record[cols[colCategory]])
		category, ok := domain.CategoryByLabel(label)
		if !ok {
			return nil, &LoadError{Path: path, Line: line, Err: fmt.Errorf("unknown visa category %q", label)}
		}

		waitDays, err := strconv.Atoi(strings.TrimSpace(record[cols[colWaitDays]]))
		if err != nil {
			return nil, &LoadError{Path: path, Line: line, Err: fmt.Errorf("invalid wait_days %q", record[cols[colWaitDays]])}
		}
		if waitDays < 0 {
			return nil, &LoadError{Path: path, Line: line, Err: fmt.Errorf("negative wait_days %d", waitDays)}
		}

		row := domain.WaitTimeRecord{
			Country:      strings.TrimSpace(record[cols[colCountry]]),
			City:         strings.TrimSpace(record[cols[colCity]]),
			CategorySlug: category.Slug,
			WaitDays:     waitDays,
			Unit:         strings.TrimSpace(record[cols[colUnit]]),
		}
		if row.Country == "" || row.City == "" {
			return nil, &LoadError{Path: path, Line: line, Err: fmt.Errorf("empty country or city")}
		}

		// Dataset-level dates ride on every row; the first row wins.
		if snapshot.AsOfDate == "" {
			snapshot.AsOfDate = strings.TrimSpace(record[cols[colAsOfDate]])
			snapshot.UpdateDate = strings.TrimSpace(record[cols[colUpdateDate]])
		}

		snapshot.Rows = append(snapshot.Rows, row)
	}

	if len(snapshot.Rows) == 0 {
		return nil, &LoadError{Path: path, Err: fmt.Errorf("no wait-time rows")}
	}
	return snapshot, nil
}

func headerIndex(header []string, required ...string) (map[string]int, string) {
	positions := make(map[string]int, len(header))
	for i, name := range header {
		positions[strings.ToLower(strings.TrimSpace(name))] = i
	}

	cols := make(map[string]int, len(required))
	for _, name := range required {
		pos, ok := positions[name]
		if !ok {
			return nil, name
		}
		cols[name] = pos
	}
	return cols, ""
}

// Save writes the snapshot in the schema Load reads. Categories are stored
// under their published labels so the file is readable on its own.
func Save(path string, snapshot *Snapshot) error {
	f, err := os.Create(path)
	if err != nil {
		return &LoadError{Path: path, Err: err}
	}
	defer f.Close()

	w := csv.NewWriter(f)
	header := []string{colAsOfDate, colUpdateDate, colCountry, colCity, colCategory, colWaitDays, colUnit}
	if err := w.Write(header); err != nil {
		return &LoadError{Path: path, Err: err}
	}

	for _, row := range snapshot.Rows {
		category, ok := domain.CategoryBySlug(row.CategorySlug)
		if !ok {
			return &LoadError{Path: path, Err: fmt.Errorf("unknown category slug %q", row.CategorySlug)}
		}
		record := []string{
			snapshot.AsOfDate,
			snapshot.UpdateDate,
			row.Country,
			row.City,
			category.Label,
			strconv.Itoa(row.WaitDays),
			row.Unit,
		}
		if err := w.Write(record); err != nil {
			return &LoadError{Path: path, Err: err}
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return &LoadError{Path: path, Err: err}
	}
	return f.Close()
}
