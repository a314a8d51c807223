package split

import (
	"math"
	"math/rand"
	"sort"
)

// Stratifier selects a held-out subset of row indices such that the held-out
// fraction approximates some distributional criterion of the full set.
// Implementations must be deterministic given the same generator state and
// input.
type Stratifier interface {
	// Holdout partitions indices into (kept, held), where held contains
	// approximately fraction of the input.
	Holdout(rng *rand.Rand, indices []int, fraction float64) (kept, held []int)
}

// holdoutCount converts a fraction into an exact held-out size.
func holdoutCount(n int, fraction float64) int {
	target := int(math.Round(fraction * float64(n)))
	if target < 0 {
		return 0
	}
	if target > n {
		return n
	}
	return target
}

func shuffle(rng *rand.Rand, indices []int) {
	rng.Shuffle(len(indices), func(i, j int) {
		indices[i], indices[j] = indices[j], indices[i]
	})
}

// Random draws the held-out subset uniformly, with no stratification
// criterion.
type Random struct{}

// Holdout shuffles the indices and slices off the held-out count.
func (Random) Holdout(rng *rand.Rand, indices []int, fraction float64) ([]int, []int) {
	target := holdoutCount(len(indices), fraction)
	shuffled := append([]int(nil), indices...)
	shuffle(rng, shuffled)
	return shuffled[target:], shuffled[:target]
}

// SingleLabel stratifies on a single categorical key per row: each key's
// relative frequency in the held-out subset approximates its frequency in
// the input, and the global held-out size is exact.
type SingleLabel struct {
	// Key returns the stratification key of a table row index.
	Key func(i int) string
}

// Holdout allocates per-key held-out quotas by largest remainder, then
// shuffles within each key group.
func (s SingleLabel) Holdout(rng *rand.Rand, indices []int, fraction float64) ([]int, []int) {
	target := holdoutCount(len(indices), fraction)

	groups := make(map[string][]int)
	var keys []string
	for _, idx := range indices {
		k := s.Key(idx)
		if _, ok := groups[k]; !ok {
			keys = append(keys, k)
		}
		groups[k] = append(groups[k], idx)
	}
	// Deterministic group order regardless of input order.
	sort.Strings(keys)

	type quota struct {
		key       string
		count     int
		remainder float64
	}
	quotas := make([]quota, 0, len(keys))
	allocated := 0
	for _, k := range keys {
		exact := fraction * float64(len(groups[k]))
		base := int(math.Floor(exact))
		if base > len(groups[k]) {
			base = len(groups[k])
		}
		allocated += base
		quotas = append(quotas, quota{key: k, count: base, remainder: exact - float64(base)})
	}

	// Hand out the remaining held-out slots by largest fractional part.
	order := make([]int, len(quotas))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		qa, qb := quotas[order[a]], quotas[order[b]]
		if qa.remainder != qb.remainder {
			return qa.remainder > qb.remainder
		}
		return qa.key < qb.key
	})
	for allocated < target {
		progressed := false
		for _, i := range order {
			if allocated == target {
				break
			}
			q := &quotas[i]
			if q.count < len(groups[q.key]) {
				q.count++
				allocated++
				progressed = true
			}
		}
		if !progressed {
			break
		}
	}

	var kept, held []int
	for _, q := range quotas {
		g := append([]int(nil), groups[q.key]...)
		shuffle(rng, g)
		held = append(held, g[:q.count]...)
		kept = append(kept, g[q.count:]...)
	}
	return kept, held
}

// MultiLabel stratifies on combinations of simultaneously-true labels using
// greedy iterative stratification: labels are processed rarest first, and
// each example goes to the side whose remaining demand for that label is
// greatest, subject to exact side capacities.
type MultiLabel struct {
	// Labels returns the active label positions of a table row index.
	Labels func(i int) []int
	// NumLabels is the size of the active label space.
	NumLabels int
}

// Holdout implements the two-subset iterative stratification pass.
func (s MultiLabel) Holdout(rng *rand.Rand, indices []int, fraction float64) ([]int, []int) {
	n := len(indices)
	heldTarget := holdoutCount(n, fraction)

	// Remaining desired per-label counts on each side.
	desiredHeld := make([]float64, s.NumLabels)
	desiredKept := make([]float64, s.NumLabels)
	remaining := make([]int, s.NumLabels)
	for _, idx := range indices {
		for _, l := range s.Labels(idx) {
			remaining[l]++
		}
	}
	for l, count := range remaining {
		desiredHeld[l] = fraction * float64(count)
		desiredKept[l] = (1 - fraction) * float64(count)
	}

	assigned := make(map[int]bool, n)
	kept := make([]int, 0, n-heldTarget)
	held := make([]int, 0, heldTarget)
	capKept := n - heldTarget
	capHeld := heldTarget

	assign := func(idx int, toHeld bool) {
		// Exact side capacities override label demand so the partition
		// sizes always land on target.
		if toHeld && capHeld <= 0 && capKept > 0 {
			toHeld = false
		} else if !toHeld && capKept <= 0 && capHeld > 0 {
			toHeld = true
		}
		if toHeld {
			held = append(held, idx)
			capHeld--
		} else {
			kept = append(kept, idx)
			capKept--
		}
		for _, l := range s.Labels(idx) {
			remaining[l]--
			if toHeld {
				desiredHeld[l]--
			} else {
				desiredKept[l]--
			}
		}
		assigned[idx] = true
	}

	for {
		// Rarest label still carried by unassigned rows.
		best := -1
		for l := 0; l < s.NumLabels; l++ {
			if remaining[l] > 0 && (best < 0 || remaining[l] < remaining[best]) {
				best = l
			}
		}
		if best < 0 {
			break
		}

		var rows []int
		for _, idx := range indices {
			if assigned[idx] {
				continue
			}
			for _, l := range s.Labels(idx) {
				if l == best {
					rows = append(rows, idx)
					break
				}
			}
		}
		shuffle(rng, rows)

		for _, idx := range rows {
			toHeld := desiredHeld[best] > desiredKept[best]
			if desiredHeld[best] == desiredKept[best] {
				if capHeld != capKept {
					toHeld = capHeld > capKept
				} else {
					toHeld = rng.Intn(2) == 1
				}
			}
			assign(idx, toHeld)
		}
	}

	// Rows with no active label fill whatever capacity is left.
	var rest []int
	for _, idx := range indices {
		if !assigned[idx] {
			rest = append(rest, idx)
		}
	}
	shuffle(rng, rest)
	for _, idx := range rest {
		toHeld := capHeld > capKept
		if capHeld == capKept {
			toHeld = rng.Intn(2) == 1
		}
		assign(idx, toHeld)
	}

	return kept, held
}
