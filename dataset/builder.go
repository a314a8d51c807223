package dataset

import (
	"log/slog"
	"sort"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/c360studio/chebiprep/ontology"
)

// DefaultMinMolecules is the default minimum number of molecules a class
// must cover, directly or transitively, to be selected as a label.
const DefaultMinMolecules = 50

// Builder turns molecule records into a one-hot labeled table using the
// ontology ancestor index. The closure is read-only, so row construction may
// fan out across workers without locking.
type Builder struct {
	closure      *ontology.Closure
	minMolecules int
	workers      int
	logger       *slog.Logger
}

// Option configures a Builder.
type Option func(*Builder)

// WithMinMolecules sets the minimum-support threshold for label selection.
func WithMinMolecules(n int) Option {
	return func(b *Builder) { b.minMolecules = n }
}

// WithWorkers sets how many goroutines build label rows. Values below 2
// keep row construction sequential.
func WithWorkers(n int) Option {
	return func(b *Builder) { b.workers = n }
}

// WithLogger sets the builder's logger.
func WithLogger(l *slog.Logger) Option {
	return func(b *Builder) { b.logger = l }
}

// NewBuilder creates a Builder over a precomputed ancestor index.
func NewBuilder(closure *ontology.Closure, opts ...Option) *Builder {
	b := &Builder{
		closure:      closure,
		minMolecules: DefaultMinMolecules,
		workers:      1,
		logger:       slog.Default(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Stats summarizes one dataset build.
type Stats struct {
	// Molecules is the number of rows in the labeled table.
	Molecules int
	// Excluded is the number of records dropped for lacking a structure.
	Excluded int
	// Classes is the number of selected labels.
	Classes int
}

// Result is the outcome of one dataset build.
type Result struct {
	// BuildID uniquely identifies this build in manifests and logs.
	BuildID string
	// Table is the labeled table, one row per retained molecule in input
	// order, one boolean column per selected label in vocabulary order.
	Table *Table
	// Labels is the selected vocabulary in lexicographic order.
	Labels []string
	// Stats summarizes the build.
	Stats Stats
}

// Build assigns every molecule with a parsed structure to each selected
// ontology class it belongs to, directly or through a chain of is_a
// relationships.
//
// Support counting treats distinct identifiers once: a class's support is
// the number of distinct molecules in its transitive subtree, itself
// included. Classes below the minimum-support threshold are dropped; an
// empty vocabulary yields an empty table, not an error. Records with a nil
// structure never count toward support and never appear in the output.
func (b *Builder) Build(molecules []Molecule) *Result {
	retained := make([]Molecule, 0, len(molecules))
	for _, m := range molecules {
		if m.Structure != nil {
			retained = append(retained, m)
		}
	}

	counts := b.countSupport(retained)

	labels := make([]string, 0, len(counts))
	for class, n := range counts {
		if n >= b.minMolecules {
			labels = append(labels, class)
		}
	}
	sort.Strings(labels)

	res := &Result{
		BuildID: uuid.New().String(),
		Labels:  labels,
		Stats: Stats{
			Excluded: len(molecules) - len(retained),
			Classes:  len(labels),
		},
	}

	if len(labels) == 0 {
		res.Table = NewTable(nil)
		b.log(res)
		return res
	}

	res.Table = b.buildRows(retained, labels)
	res.Stats.Molecules = res.Table.Len()
	b.log(res)
	return res
}

// countSupport counts, per ontology class, the distinct molecules falling in
// its transitive subtree. A molecule always counts for its own class, even
// when its identifier never appears in the hierarchy.
func (b *Builder) countSupport(molecules []Molecule) map[string]int {
	counts := make(map[string]int)
	seen := make(map[string]bool, len(molecules))
	for _, m := range molecules {
		if seen[m.ID] {
			continue
		}
		seen[m.ID] = true
		counts[m.ID]++
		for _, anc := range b.closure.Ancestors(m.ID) {
			counts[anc]++
		}
	}
	return counts
}

func (b *Builder) buildRows(molecules []Molecule, labels []string) *Table {
	rows := make([]Row, len(molecules))

	build := func(start, end int) {
		for i := start; i < end; i++ {
			m := molecules[i]
			member := make(map[string]bool)
			for _, class := range b.closure.AncestorsOrSelf(m.ID) {
				member[class] = true
			}
			values := make([]bool, len(labels))
			for j, label := range labels {
				values[j] = member[label]
			}
			rows[i] = Row{ID: m.ID, Structure: m.Structure, Labels: values}
		}
	}

	if b.workers < 2 || len(molecules) < 2 {
		build(0, len(molecules))
	} else {
		var g errgroup.Group
		chunk := (len(molecules) + b.workers - 1) / b.workers
		for start := 0; start < len(molecules); start += chunk {
			start := start
			end := min(start+chunk, len(molecules))
			g.Go(func() error {
				build(start, end)
				return nil
			})
		}
		// Workers never fail; Wait only fences completion.
		_ = g.Wait()
	}

	return &Table{Labels: append([]string(nil), labels...), Rows: rows}
}

func (b *Builder) log(res *Result) {
	b.logger.Debug("built labeled dataset",
		"build_id", res.BuildID,
		"molecules", res.Stats.Molecules,
		"excluded", res.Stats.Excluded,
		"labels", res.Stats.Classes)
}
