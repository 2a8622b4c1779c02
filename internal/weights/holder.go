// Package weights keeps a rolling trust weight per reader.
//
// Each reader owns a fixed-length FIFO window of past weight observations.
// The current weight is the arithmetic mean of that window. A window never
// grows or shrinks: every insert evicts the oldest entry.
package weights

import (
	"errors"
	"fmt"
	"sort"

	"github.com/verte-zerg/credence/internal/model"
)

// DefaultWindow is the number of observations kept per reader.
const DefaultWindow = 10

// ErrUnknownReader is returned for reader ids outside the construction set.
var ErrUnknownReader = errors.New("unknown reader")

// Holder owns the weight windows for a fixed set of readers.
// It is not safe for concurrent use.
type Holder struct {
	order    []string
	initMean float64
	window   int

	weights map[string]float64
	past    map[string][]float64
}

// New creates a holder for readers. Duplicate ids are collapsed, keeping the
// first occurrence's position. A non-positive window selects DefaultWindow.
func New(readers []string, initMean float64, window int) (*Holder, error) {
	if window <= 0 {
		window = DefaultWindow
	}
	order := make([]string, 0, len(readers))
	seen := make(map[string]struct{}, len(readers))
	for _, id := range readers {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		order = append(order, id)
	}
	if len(order) == 0 {
		return nil, fmt.Errorf("reader set is empty")
	}
	h := &Holder{
		order:    order,
		initMean: initMean,
		window:   window,
	}
	h.Reset()
	return h, nil
}

// FromReaders creates a holder from the reader table's id column.
func FromReaders(readers []model.Reader, initMean float64, window int) (*Holder, error) {
	ids := make([]string, len(readers))
	for i, r := range readers {
		ids[i] = r.ID
	}
	return New(ids, initMean, window)
}

// Reset discards all history. Every window is refilled with the initial mean.
func (h *Holder) Reset() {
	h.weights = make(map[string]float64, len(h.order))
	h.past = make(map[string][]float64, len(h.order))
	for _, id := range h.order {
		hist := make([]float64, h.window)
		for i := range hist {
			hist[i] = h.initMean
		}
		h.past[id] = hist
		h.weights[id] = h.initMean
	}
}

// Get returns the current weight of a reader.
func (h *Holder) Get(readerID string) (float64, error) {
	w, ok := h.weights[readerID]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownReader, readerID)
	}
	return w, nil
}

// Inserts pushes one new observation per listed reader. Readers missing from
// the map keep their state. The whole map is checked before anything changes,
// so an unknown id leaves the holder untouched.
func (h *Holder) Inserts(observations map[string]float64) error {
	for id := range observations {
		if _, ok := h.past[id]; !ok {
			return fmt.Errorf("%w: %q", ErrUnknownReader, id)
		}
	}
	for id, v := range observations {
		h.push(id, v)
	}
	return nil
}

func (h *Holder) push(id string, v float64) {
	hist := h.past[id]
	copy(hist, hist[1:])
	hist[len(hist)-1] = v

	var sum float64
	for _, x := range hist {
		sum += x
	}
	h.weights[id] = sum / float64(h.window)
}

// Weights returns a copy of the current weight of every reader.
func (h *Holder) Weights() map[string]float64 {
	out := make(map[string]float64, len(h.weights))
	for id, w := range h.weights {
		out[id] = w
	}
	return out
}

// PastWeights returns a copy of every reader's window, oldest first.
func (h *Holder) PastWeights() map[string][]float64 {
	out := make(map[string][]float64, len(h.past))
	for id, hist := range h.past {
		out[id] = append([]float64(nil), hist...)
	}
	return out
}

// History returns a copy of one reader's window, oldest first.
func (h *Holder) History(readerID string) ([]float64, error) {
	hist, ok := h.past[readerID]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownReader, readerID)
	}
	return append([]float64(nil), hist...), nil
}

// Readers returns reader ids in construction order.
func (h *Holder) Readers() []string {
	return append([]string(nil), h.order...)
}

// Has reports whether readerID belongs to the holder.
func (h *Holder) Has(readerID string) bool {
	_, ok := h.past[readerID]
	return ok
}

// Len returns the number of readers.
func (h *Holder) Len() int { return len(h.order) }

// Window returns the fixed history length.
func (h *Holder) Window() int { return h.window }

// InitMean returns the value windows are reset to.
func (h *Holder) InitMean() float64 { return h.initMean }

// Ranked returns reader ids sorted by weight, highest first. Ties keep
// construction order.
func (h *Holder) Ranked() []string {
	ids := h.Readers()
	sort.SliceStable(ids, func(i, j int) bool {
		return h.weights[ids[i]] > h.weights[ids[j]]
	})
	return ids
}
