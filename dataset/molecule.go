// Package dataset builds machine-learning-ready labeled tables from parsed
// molecules and a precomputed ontology ancestor index.
package dataset

// Structure is the parsed chemical structure attached to a molecule record,
// as produced by the SDF-parsing layer. The pipeline treats it as an opaque
// handle; a nil *Structure marks a molecule that failed structure parsing.
type Structure struct {
	SMILES   string `json:"smiles,omitempty"`
	InChI    string `json:"inchi,omitempty"`
	InChIKey string `json:"inchikey,omitempty"`
	Formula  string `json:"formula,omitempty"`
}

// Molecule is one molecule record keyed by its ChEBI class identifier. The
// identifier is not required to exist in the ontology graph.
type Molecule struct {
	ID        string     `json:"chebi_id"`
	Structure *Structure `json:"structure,omitempty"`
}
