package export

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c360studio/chebiprep/dataset"
)

func exportTable() *dataset.Table {
	return &dataset.Table{
		Labels: []string{"acid", "base"},
		Rows: []dataset.Row{
			{ID: "15377", Structure: &dataset.Structure{SMILES: "O"}, Labels: []bool{true, false}},
			{ID: "16134", Labels: []bool{false, true}},
		},
	}
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("csv")
	require.NoError(t, err)
	assert.Equal(t, FormatCSV, f)

	_, err = ParseFormat("parquet")
	assert.ErrorContains(t, err, "unsupported export format")
}

func TestGetFormatInfo(t *testing.T) {
	info, ok := GetFormatInfo(FormatJSONL)
	require.True(t, ok)
	assert.Equal(t, ".jsonl", info.Extension)

	_, ok = GetFormatInfo(Format("xml"))
	assert.False(t, ok)
}

func TestWriteTable_CSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteTable(&buf, exportTable(), FormatCSV))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "chebi_id,smiles,acid,base", lines[0])
	assert.Equal(t, "15377,O,true,false", lines[1])
	assert.Equal(t, "16134,,false,true", lines[2])
}

func TestWriteTable_JSONL(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteTable(&buf, exportTable(), FormatJSONL))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)

	var row struct {
		ID     string          `json:"chebi_id"`
		Labels map[string]bool `json:"labels"`
	}
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &row))
	assert.Equal(t, "15377", row.ID)
	assert.Equal(t, map[string]bool{"acid": true, "base": false}, row.Labels)
}

func TestWriteTable_UnsupportedFormat(t *testing.T) {
	var buf bytes.Buffer
	err := WriteTable(&buf, exportTable(), Format("xml"))
	assert.ErrorContains(t, err, "unsupported export format")
}

func TestWriteManifest(t *testing.T) {
	var buf bytes.Buffer
	m := Manifest{
		BuildID:      "b-123",
		CreatedAt:    time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
		MinMolecules: 50,
		Molecules:    3,
		Labels:       []string{"acid"},
		Seed:         42,
		Splits:       SplitCounts{Train: 2, Val: 0, Test: 1},
	}
	require.NoError(t, WriteManifest(&buf, m))

	var decoded Manifest
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, m, decoded)
}
