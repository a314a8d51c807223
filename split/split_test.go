package split

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c360studio/chebiprep/dataset"
)

// multilabelTable mirrors the shape of a propagated ChEBI table: 200 rows
// cycling through six label combinations over three label columns.
func multilabelTable() *dataset.Table {
	patterns := [][]bool{
		{true, false, false},
		{false, true, false},
		{false, false, true},
		{true, true, false},
		{true, false, true},
		{false, true, true},
	}
	t := dataset.NewTable([]string{"label_A", "label_B", "label_C"})
	for i := 0; i < 200; i++ {
		p := patterns[i%len(patterns)]
		t.Rows = append(t.Rows, dataset.Row{
			ID:        fmt.Sprintf("CHEBI:%d", i),
			Structure: &dataset.Structure{SMILES: "C"},
			Labels:    append([]bool(nil), p...),
		})
	}
	return t
}

// singleLabelTable has one label column, true for even rows.
func singleLabelTable() *dataset.Table {
	t := dataset.NewTable([]string{"label_A"})
	for i := 0; i < 200; i++ {
		t.Rows = append(t.Rows, dataset.Row{
			ID:     fmt.Sprintf("CHEBI:%d", i),
			Labels: []bool{i%2 == 0},
		})
	}
	return t
}

func idSet(t *dataset.Table) map[string]bool {
	out := make(map[string]bool, t.Len())
	for _, id := range t.IDs() {
		out[id] = true
	}
	return out
}

// assertPartition checks the partition law: disjoint subsets whose union is
// exactly the input row set.
func assertPartition(t *testing.T, input *dataset.Table, res *Result) {
	t.Helper()
	require.Equal(t, input.Len(), res.Len())

	train, val, test := idSet(res.Train), idSet(res.Val), idSet(res.Test)
	union := make(map[string]bool, input.Len())
	for id := range train {
		assert.False(t, val[id], "row %s in both train and val", id)
		assert.False(t, test[id], "row %s in both train and test", id)
		union[id] = true
	}
	for id := range val {
		assert.False(t, test[id], "row %s in both val and test", id)
		union[id] = true
	}
	for id := range test {
		union[id] = true
	}
	assert.Equal(t, idSet(input), union)
}

func TestSplitMultilabel_PartitionLaw(t *testing.T) {
	tbl := multilabelTable()
	res, err := SplitMultilabel(tbl, DefaultRatios(), 42)
	require.NoError(t, err)
	assertPartition(t, tbl, res)
}

func TestSplitMultilabel_ApproximateSizes(t *testing.T) {
	tbl := multilabelTable()
	res, err := SplitMultilabel(tbl, DefaultRatios(), 42)
	require.NoError(t, err)

	assert.InDelta(t, 20, res.Test.Len(), 2)
	assert.InDelta(t, 20, res.Val.Len(), 2)
	assert.InDelta(t, 160, res.Train.Len(), 4)
}

func TestSplitMultilabel_LabelColumnsPreserved(t *testing.T) {
	tbl := multilabelTable()
	res, err := SplitMultilabel(tbl, DefaultRatios(), 42)
	require.NoError(t, err)

	for _, sub := range []*dataset.Table{res.Train, res.Val, res.Test} {
		assert.Equal(t, tbl.Labels, sub.Labels)
	}
}

func TestSplitMultilabel_ReproducibleWithSameSeed(t *testing.T) {
	tbl := multilabelTable()

	a, err := SplitMultilabel(tbl, DefaultRatios(), 7)
	require.NoError(t, err)
	b, err := SplitMultilabel(tbl, DefaultRatios(), 7)
	require.NoError(t, err)

	assert.Equal(t, a.Train.IDs(), b.Train.IDs())
	assert.Equal(t, a.Val.IDs(), b.Val.IDs())
	assert.Equal(t, a.Test.IDs(), b.Test.IDs())
}

func TestSplitMultilabel_DifferentSeedsDiverge(t *testing.T) {
	tbl := multilabelTable()

	a, err := SplitMultilabel(tbl, DefaultRatios(), 1)
	require.NoError(t, err)
	b, err := SplitMultilabel(tbl, DefaultRatios(), 2)
	require.NoError(t, err)

	assert.NotEqual(t, a.Train.IDs(), b.Train.IDs())
}

func TestSplitMultilabel_PreservesLabelProportions(t *testing.T) {
	tbl := multilabelTable()
	res, err := SplitMultilabel(tbl, DefaultRatios(), 42)
	require.NoError(t, err)

	frequency := func(sub *dataset.Table, label string) float64 {
		count := 0
		for i := range sub.Rows {
			if v, _ := sub.Value(i, label); v {
				count++
			}
		}
		return float64(count) / float64(sub.Len())
	}

	// Every label is true in 3 of the 6 patterns. The test subset is only
	// 20 rows, so its tolerance is a couple of rows wider.
	for _, label := range tbl.Labels {
		assert.InDelta(t, 0.5, frequency(res.Train, label), 0.10)
		assert.InDelta(t, 0.5, frequency(res.Test, label), 0.15)
	}
}

func TestSplitMultilabel_SingleLabelPath(t *testing.T) {
	tbl := singleLabelTable()
	res, err := SplitMultilabel(tbl, DefaultRatios(), 42)
	require.NoError(t, err)

	assertPartition(t, tbl, res)

	// label_A is true for half the input; the train subset must hold that.
	count := 0
	for i := range res.Train.Rows {
		if v, _ := res.Train.Value(i, "label_A"); v {
			count++
		}
	}
	assert.InDelta(t, 0.5, float64(count)/float64(res.Train.Len()), 0.10)
}

func TestSplitMultilabel_InvalidRatios(t *testing.T) {
	_, err := SplitMultilabel(multilabelTable(), Ratios{Train: 0.5, Val: 0.3, Test: 0.3}, 42)
	assert.ErrorContains(t, err, "must equal 1.0")
}

func TestSplitMultilabel_LabelStartOutOfRange(t *testing.T) {
	_, err := SplitMultilabel(multilabelTable(), DefaultRatios(), 42, WithLabelStart(100))
	assert.ErrorContains(t, err, "out of range")
}

func TestSplitMultilabel_LabelStartRestrictsColumns(t *testing.T) {
	tbl := multilabelTable()
	res, err := SplitMultilabel(tbl, DefaultRatios(), 42, WithLabelStart(1))
	require.NoError(t, err)
	assertPartition(t, tbl, res)
}

func TestSplitMultilabel_UnknownLabelColumn(t *testing.T) {
	_, err := SplitMultilabel(multilabelTable(), DefaultRatios(), 42, WithLabelColumns("label_Z"))
	assert.ErrorContains(t, err, "not found")
}

func TestSplitMultilabel_EmptyTable(t *testing.T) {
	tbl := dataset.NewTable([]string{"label_A"})
	res, err := SplitMultilabel(tbl, DefaultRatios(), 42)
	require.NoError(t, err)

	assert.Equal(t, 0, res.Len())
}

func TestSplit_PartitionLawAndSizes(t *testing.T) {
	tbl := multilabelTable()
	res, err := Split(tbl, DefaultRatios(), 42)
	require.NoError(t, err)

	assertPartition(t, tbl, res)
	assert.Equal(t, 160, res.Train.Len())
	assert.Equal(t, 20, res.Val.Len())
	assert.Equal(t, 20, res.Test.Len())
}

func TestSplit_Reproducible(t *testing.T) {
	tbl := multilabelTable()

	a, err := Split(tbl, DefaultRatios(), 3)
	require.NoError(t, err)
	b, err := Split(tbl, DefaultRatios(), 3)
	require.NoError(t, err)
	c, err := Split(tbl, DefaultRatios(), 4)
	require.NoError(t, err)

	assert.Equal(t, a.Train.IDs(), b.Train.IDs())
	assert.NotEqual(t, a.Train.IDs(), c.Train.IDs())
}

func TestSplitStratified_ProportionsPreserved(t *testing.T) {
	// 100 rows: 60 organic, 30 inorganic, 10 metal.
	tbl := dataset.NewTable(nil)
	categories := make(map[string]string)
	addRows := func(category string, count int) {
		for i := 0; i < count; i++ {
			id := fmt.Sprintf("%s-%d", category, i)
			categories[id] = category
			tbl.Rows = append(tbl.Rows, dataset.Row{ID: id})
		}
	}
	addRows("organic", 60)
	addRows("inorganic", 30)
	addRows("metal", 10)

	res, err := SplitStratified(tbl, func(r dataset.Row) string { return categories[r.ID] }, DefaultRatios(), 42)
	require.NoError(t, err)
	assertPartition(t, tbl, res)

	proportion := func(sub *dataset.Table, category string) float64 {
		count := 0
		for _, id := range sub.IDs() {
			if categories[id] == category {
				count++
			}
		}
		return float64(count) / float64(sub.Len())
	}
	assert.InDelta(t, 0.6, proportion(res.Train, "organic"), 0.10)
	assert.InDelta(t, 0.3, proportion(res.Train, "inorganic"), 0.10)
	assert.InDelta(t, 0.1, proportion(res.Train, "metal"), 0.10)
}

func TestSplitStratified_SingletonCategoryGoesToTrain(t *testing.T) {
	tbl := dataset.NewTable(nil)
	tbl.Rows = append(tbl.Rows, dataset.Row{ID: "only"})

	res, err := SplitStratified(tbl, func(dataset.Row) string { return "solo" }, DefaultRatios(), 42)
	require.NoError(t, err)

	assert.Equal(t, []string{"only"}, res.Train.IDs())
	assert.Equal(t, 0, res.Val.Len())
	assert.Equal(t, 0, res.Test.Len())
}

func TestSplitStratified_NilCategoryFallsBackToRandom(t *testing.T) {
	tbl := multilabelTable()

	a, err := SplitStratified(tbl, nil, DefaultRatios(), 9)
	require.NoError(t, err)
	b, err := Split(tbl, DefaultRatios(), 9)
	require.NoError(t, err)

	assert.Equal(t, b.Train.IDs(), a.Train.IDs())
}
