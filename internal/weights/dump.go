package weights

import (
	"fmt"
	"io"
	"strconv"

	"github.com/verte-zerg/credence/internal/textfmt"
)

// WriteWeights prints the current weight of the first n readers.
// n <= 0 prints every reader.
func (h *Holder) WriteWeights(w io.Writer, n int) error {
	ids := h.head(n)
	rows := make([][]string, 0, len(ids))
	for _, id := range ids {
		rows = append(rows, []string{id, formatWeight(h.weights[id])})
	}
	return textfmt.Table{
		Headers:    []string{"reader_id", "weight"},
		Rows:       rows,
		RightAlign: map[int]bool{1: true},
	}.Write(w)
}

// WritePastWeights prints the window of the first n readers, one column per slot.
func (h *Holder) WritePastWeights(w io.Writer, n int) error {
	ids := h.head(n)
	headers := make([]string, 0, h.window+1)
	headers = append(headers, "reader_id")
	rightAlign := make(map[int]bool, h.window)
	for i := 0; i < h.window; i++ {
		headers = append(headers, strconv.Itoa(i))
		rightAlign[i+1] = true
	}
	rows := make([][]string, 0, len(ids))
	for _, id := range ids {
		row := make([]string, 0, h.window+1)
		row = append(row, id)
		for _, v := range h.past[id] {
			row = append(row, formatWeight(v))
		}
		rows = append(rows, row)
	}
	return textfmt.Table{Headers: headers, Rows: rows, RightAlign: rightAlign}.Write(w)
}

// WriteAll prints every reader's weight and window.
func (h *Holder) WriteAll(w io.Writer) error {
	if _, err := fmt.Fprintf(w, "Weights (window=%d, init=%s)\n", h.window, formatWeight(h.initMean)); err != nil {
		return err
	}
	if err := h.WriteWeights(w, 0); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(w, "Past weights (oldest first)"); err != nil {
		return err
	}
	return h.WritePastWeights(w, 0)
}

func (h *Holder) head(n int) []string {
	if n <= 0 || n > len(h.order) {
		n = len(h.order)
	}
	return h.order[:n]
}

func formatWeight(v float64) string {
	return strconv.FormatFloat(v, 'f', 3, 64)
}
