package split

import (
	"fmt"
	"math/rand"

	"github.com/c360studio/chebiprep/dataset"
)

// Result holds the three disjoint output tables of a split. Every input row
// appears in exactly one of them.
type Result struct {
	Train *dataset.Table
	Val   *dataset.Table
	Test  *dataset.Table
}

// Len returns the total number of rows across the three subsets.
func (r *Result) Len() int {
	return r.Train.Len() + r.Val.Len() + r.Test.Len()
}

// Split partitions a table uniformly at random: one seeded permutation,
// sliced by the train and validation ratios, remainder to test.
func Split(t *dataset.Table, r Ratios, seed int64) (*Result, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}
	rng := rand.New(rand.NewSource(seed))

	n := t.Len()
	perm := rng.Perm(n)
	nTrain := int(float64(n) * r.Train)
	nVal := int(float64(n) * r.Val)

	return &Result{
		Train: t.Select(perm[:nTrain]),
		Val:   t.Select(perm[nTrain : nTrain+nVal]),
		Test:  t.Select(perm[nTrain+nVal:]),
	}, nil
}

// SplitStratified partitions each category's rows independently by the same
// ratios and concatenates the per-category slices. Row counts use floor
// rounding, except that every non-empty category contributes at least one
// training row. A nil category function falls back to Split.
//
// This is the simple single-column path; it needs no label-vector machinery.
func SplitStratified(t *dataset.Table, category func(dataset.Row) string, r Ratios, seed int64) (*Result, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}
	if category == nil {
		return Split(t, r, seed)
	}
	rng := rand.New(rand.NewSource(seed))

	// Group row indices by category in first-occurrence order.
	groups := make(map[string][]int)
	var order []string
	for i, row := range t.Rows {
		k := category(row)
		if _, ok := groups[k]; !ok {
			order = append(order, k)
		}
		groups[k] = append(groups[k], i)
	}

	var trainIdx, valIdx, testIdx []int
	for _, k := range order {
		g := append([]int(nil), groups[k]...)
		shuffle(rng, g)

		nTrain := int(float64(len(g)) * r.Train)
		if nTrain < 1 {
			nTrain = 1
		}
		if nTrain > len(g) {
			nTrain = len(g)
		}
		nVal := int(float64(len(g)) * r.Val)
		if nTrain+nVal > len(g) {
			nVal = len(g) - nTrain
		}

		trainIdx = append(trainIdx, g[:nTrain]...)
		valIdx = append(valIdx, g[nTrain:nTrain+nVal]...)
		testIdx = append(testIdx, g[nTrain+nVal:]...)
	}

	return &Result{
		Train: t.Select(trainIdx),
		Val:   t.Select(valIdx),
		Test:  t.Select(testIdx),
	}, nil
}

// Option adjusts how SplitMultilabel reads the table's label columns.
type Option func(*options)

type options struct {
	labelStart   int
	hasStart     bool
	labelColumns []string
}

// WithLabelStart restricts the active label space to the vocabulary columns
// at and after the given index.
func WithLabelStart(i int) Option {
	return func(o *options) {
		o.labelStart = i
		o.hasStart = true
	}
}

// WithLabelColumns restricts the active label space to the named vocabulary
// columns.
func WithLabelColumns(names ...string) Option {
	return func(o *options) { o.labelColumns = names }
}

// SplitMultilabel partitions a labeled table into train/validation/test with
// label-aware stratification: the relative frequency of each label (or label
// combination) in every subset approximates its frequency in the full table.
//
// The split runs in two stages: the test subset is held out first using the
// test ratio, then the validation subset is held out from the remainder
// using val/(1-test) so the final proportions of the original table match
// the requested ratios. A single active label dimension with no co-occurring
// labels selects the single-label stratifier; anything wider selects the
// multi-label stratifier; no active labels fall back to a pure random split.
//
// Identical seeds and inputs produce identical partitions.
func SplitMultilabel(t *dataset.Table, r Ratios, seed int64, opts ...Option) (*Result, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	active, err := activeLabels(t, o)
	if err != nil {
		return nil, err
	}

	rng := rand.New(rand.NewSource(seed))
	strat := chooseStratifier(t, active)

	all := make([]int, t.Len())
	for i := range all {
		all[i] = i
	}

	kept, testIdx := strat.Holdout(rng, all, r.Test)

	valFraction := 0.0
	if 1-r.Test > ratioTolerance {
		valFraction = r.Val / (1 - r.Test)
	}
	trainIdx, valIdx := strat.Holdout(rng, kept, valFraction)

	return &Result{
		Train: t.Select(trainIdx),
		Val:   t.Select(valIdx),
		Test:  t.Select(testIdx),
	}, nil
}

// activeLabels resolves the label-column options to vocabulary indices,
// defaulting to the table's full vocabulary.
func activeLabels(t *dataset.Table, o options) ([]int, error) {
	if o.hasStart {
		if o.labelStart < 0 || o.labelStart >= len(t.Labels) {
			return nil, fmt.Errorf("label start column %d out of range (table has %d label columns)",
				o.labelStart, len(t.Labels))
		}
		active := make([]int, 0, len(t.Labels)-o.labelStart)
		for i := o.labelStart; i < len(t.Labels); i++ {
			active = append(active, i)
		}
		return active, nil
	}
	if len(o.labelColumns) > 0 {
		active := make([]int, 0, len(o.labelColumns))
		for _, name := range o.labelColumns {
			i := t.LabelIndex(name)
			if i < 0 {
				return nil, fmt.Errorf("label column %q not found", name)
			}
			active = append(active, i)
		}
		return active, nil
	}
	active := make([]int, len(t.Labels))
	for i := range active {
		active[i] = i
	}
	return active, nil
}

// chooseStratifier inspects the shape of the active label space: rows with
// at most one true label use single-label stratification, co-occurring
// labels require the multi-label strategy.
func chooseStratifier(t *dataset.Table, active []int) Stratifier {
	if len(active) == 0 {
		return Random{}
	}

	multilabel := false
	for _, row := range t.Rows {
		count := 0
		for _, j := range active {
			if row.Labels[j] {
				count++
			}
		}
		if count > 1 {
			multilabel = true
			break
		}
	}

	if multilabel {
		return MultiLabel{
			NumLabels: len(active),
			Labels: func(i int) []int {
				var out []int
				for pos, j := range active {
					if t.Rows[i].Labels[j] {
						out = append(out, pos)
					}
				}
				return out
			},
		}
	}

	return SingleLabel{
		Key: func(i int) string {
			for _, j := range active {
				if t.Rows[i].Labels[j] {
					return t.Labels[j]
				}
			}
			return ""
		},
	}
}
