// Package tsv reads the tab separated spreadsheet exports that drive
// project creation: one file describing the projects and one holding the
// goal matrix.
package tsv

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
)

var ErrNoHeader = errors.New("tsv: project file has no header row")

// ProjectRecord is one project row keyed by the header labels.
type ProjectRecord map[string]string

// ReadProjects reads tab separated project data. The first row holds the
// column labels, every following row becomes one record. Short rows are
// padded with empty values so lookups never miss.
func ReadProjects(r io.Reader) ([]ProjectRecord, error) {
	reader := newReader(r)

	header, err := reader.Read()
	if err == io.EOF {
		return nil, ErrNoHeader
	}
	if err != nil {
		return nil, fmt.Errorf("tsv: read project header: %w", err)
	}

	var records []ProjectRecord
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("tsv: read project row: %w", err)
		}
		record := make(ProjectRecord, len(header))
		for i, label := range header {
			if i < len(row) {
				record[label] = row[i]
			} else {
				record[label] = ""
			}
		}
		records = append(records, record)
	}
	return records, nil
}

func newReader(r io.Reader) *csv.Reader {
	reader := csv.NewReader(r)
	reader.Comma = '\t'
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	return reader
}
