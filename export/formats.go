// Package export serializes labeled tables and build manifests for
// downstream model-training consumers.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/c360studio/chebiprep/dataset"
)

// Format specifies the output serialization format.
type Format string

const (
	// FormatCSV produces comma-separated values with a header row.
	FormatCSV Format = "csv"

	// FormatJSONL produces one JSON object per row.
	FormatJSONL Format = "jsonl"
)

// FormatInfo provides metadata about an export format.
type FormatInfo struct {
	// Name is the format identifier.
	Name Format

	// MIMEType is the standard MIME type.
	MIMEType string

	// Extension is the file extension (with dot).
	Extension string

	// Description describes the format.
	Description string
}

// FormatRegistry contains metadata for all supported formats.
var FormatRegistry = map[Format]FormatInfo{
	FormatCSV: {
		Name:        FormatCSV,
		MIMEType:    "text/csv",
		Extension:   ".csv",
		Description: "Comma-separated values with header",
	},
	FormatJSONL: {
		Name:        FormatJSONL,
		MIMEType:    "application/jsonl",
		Extension:   ".jsonl",
		Description: "JSON Lines - one record per line",
	},
}

// GetFormatInfo returns metadata for a format.
func GetFormatInfo(format Format) (FormatInfo, bool) {
	info, ok := FormatRegistry[format]
	return info, ok
}

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	f := Format(s)
	if _, ok := FormatRegistry[f]; !ok {
		return "", fmt.Errorf("unsupported export format %q", s)
	}
	return f, nil
}

// WriteTable serializes a labeled table to the writer in the given format.
func WriteTable(w io.Writer, t *dataset.Table, format Format) error {
	switch format {
	case FormatCSV:
		return writeCSV(w, t)
	case FormatJSONL:
		return writeJSONL(w, t)
	default:
		return fmt.Errorf("unsupported export format %q", format)
	}
}

func writeCSV(w io.Writer, t *dataset.Table) error {
	cw := csv.NewWriter(w)

	header := append([]string{"chebi_id", "smiles"}, t.Labels...)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}

	record := make([]string, len(header))
	for _, row := range t.Rows {
		record[0] = row.ID
		record[1] = ""
		if row.Structure != nil {
			record[1] = row.Structure.SMILES
		}
		for i, v := range row.Labels {
			record[2+i] = strconv.FormatBool(v)
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write csv row %s: %w", row.ID, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// jsonlRow is the JSON Lines representation of one labeled molecule.
type jsonlRow struct {
	ID        string             `json:"chebi_id"`
	Structure *dataset.Structure `json:"structure,omitempty"`
	Labels    map[string]bool    `json:"labels"`
}

func writeJSONL(w io.Writer, t *dataset.Table) error {
	enc := json.NewEncoder(w)
	for _, row := range t.Rows {
		labels := make(map[string]bool, len(t.Labels))
		for i, name := range t.Labels {
			labels[name] = row.Labels[i]
		}
		out := jsonlRow{ID: row.ID, Structure: row.Structure, Labels: labels}
		if err := enc.Encode(out); err != nil {
			return fmt.Errorf("write jsonl row %s: %w", row.ID, err)
		}
	}
	return nil
}
