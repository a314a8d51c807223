package export

import (
	"encoding/json"
	"fmt"
	"io"
	"time"
)

// SplitCounts records the row counts of one three-way split.
type SplitCounts struct {
	Train int `json:"train"`
	Val   int `json:"val"`
	Test  int `json:"test"`
}

// Manifest records the provenance of one dataset build so downstream
// training runs can identify exactly which build produced their inputs.
type Manifest struct {
	BuildID      string      `json:"build_id"`
	CreatedAt    time.Time   `json:"created_at"`
	MinMolecules int         `json:"min_molecules"`
	Molecules    int         `json:"molecules"`
	Labels       []string    `json:"labels"`
	Seed         int64       `json:"seed"`
	Splits       SplitCounts `json:"splits"`
}

// WriteManifest writes the manifest as indented JSON.
func WriteManifest(w io.Writer, m Manifest) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(m); err != nil {
		return fmt.Errorf("write manifest: %w", err)
	}
	return nil
}
