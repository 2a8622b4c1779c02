package stats

import (
	"math"
	"sort"

	"github.com/verte-zerg/credence/internal/model"
)

// TopReaders returns the ids of the n highest-weighted readers.
func TopReaders(readers []model.ReaderWeight, n int) []string {
	return pickReaders(readers, n, func(a, b float64) bool { return a > b })
}

// BottomReaders returns the ids of the n lowest-weighted readers.
func BottomReaders(readers []model.ReaderWeight, n int) []string {
	return pickReaders(readers, n, func(a, b float64) bool { return a < b })
}

func pickReaders(readers []model.ReaderWeight, n int, before func(a, b float64) bool) []string {
	if n <= 0 || len(readers) == 0 {
		return nil
	}
	candidates := make([]model.ReaderWeight, len(readers))
	copy(candidates, readers)
	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].Weight == candidates[j].Weight {
			return candidates[i].ReaderID < candidates[j].ReaderID
		}
		return before(candidates[i].Weight, candidates[j].Weight)
	})
	if n > len(candidates) {
		n = len(candidates)
	}
	out := make([]string, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, candidates[i].ReaderID)
	}
	return out
}

// WorstReporters orders reporters by absolute estimate error, largest first,
// and keeps the first n. n <= 0 keeps all. Unvoted reporters have no estimate
// and go last.
func WorstReporters(reporters []model.ReporterScore, n int) []model.ReporterScore {
	out := make([]model.ReporterScore, len(reporters))
	copy(out, reporters)
	sort.SliceStable(out, func(i, j int) bool {
		if vi, vj := out[i].Votes > 0, out[j].Votes > 0; vi != vj {
			return vi
		}
		ei := math.Abs(out[i].Combined - out[i].Origin)
		ej := math.Abs(out[j].Combined - out[j].Origin)
		if ei == ej {
			return out[i].ReporterID < out[j].ReporterID
		}
		return ei > ej
	})
	if n > 0 && n < len(out) {
		out = out[:n]
	}
	return out
}

// KindWeight is the mean final weight of one reader kind.
type KindWeight struct {
	Kind    model.ReaderKind `json:"kind" yaml:"kind"`
	Readers int              `json:"readers" yaml:"readers"`
	Mean    float64          `json:"mean" yaml:"mean"`
}

// WeightByKind groups readers by kind in a fixed order: honest, careless,
// adversarial, then anything else by name.
func WeightByKind(readers []model.ReaderWeight) []KindWeight {
	sums := map[model.ReaderKind]float64{}
	counts := map[model.ReaderKind]int{}
	for _, r := range readers {
		sums[r.Kind] += r.Weight
		counts[r.Kind]++
	}
	order := []model.ReaderKind{model.ReaderHonest, model.ReaderCareless, model.ReaderAdversarial}
	var extra []model.ReaderKind
	for k := range counts {
		if k != model.ReaderHonest && k != model.ReaderCareless && k != model.ReaderAdversarial {
			extra = append(extra, k)
		}
	}
	sort.Slice(extra, func(i, j int) bool { return extra[i] < extra[j] })
	order = append(order, extra...)

	out := make([]KindWeight, 0, len(counts))
	for _, k := range order {
		n := counts[k]
		if n == 0 {
			continue
		}
		out = append(out, KindWeight{Kind: k, Readers: n, Mean: sums[k] / float64(n)})
	}
	return out
}
