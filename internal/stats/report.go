package stats

import (
	"io"

	"github.com/verte-zerg/credence/internal/model"
	"github.com/verte-zerg/credence/internal/scoring"
)

// Report contains precomputed data for stats rendering.
type Report struct {
	Result      scoring.Result
	Kinds       []KindWeight
	CurveIDs    []string
	CurveWindow int
	Top         int
}

// BuildReport selects what to render from a scoring result. Without explicit
// reader ids the curves show the strongest and weakest readers.
func BuildReport(res scoring.Result, cfg model.ViewConfig) Report {
	ids := make([]string, 0, len(cfg.Readers))
	for _, id := range cfg.Readers {
		if _, ok := res.History[id]; ok {
			ids = append(ids, id)
		}
	}
	if len(cfg.Readers) == 0 {
		ids = append(TopReaders(res.Readers, 2), BottomReaders(res.Readers, 2)...)
		ids = dedupe(ids)
	}
	return Report{
		Result:      res,
		Kinds:       WeightByKind(res.Readers),
		CurveIDs:    ids,
		CurveWindow: cfg.CurveWindow,
		Top:         cfg.Top,
	}
}

// Write renders the whole report as plain text.
func (r Report) Write(w io.Writer, totalWidth int, useColor bool) error {
	if err := RenderSummary(w, r.Result); err != nil {
		return err
	}
	if err := RenderCurvesWithSize(w, r.Result, r.CurveWindow, totalWidth, 10, useColor); err != nil {
		return err
	}
	if err := RenderKindTable(w, r.Kinds); err != nil {
		return err
	}
	if err := RenderReaderTable(w, r.Result.Readers, r.Top); err != nil {
		return err
	}
	if err := RenderReporterTable(w, r.Result.Reporters, r.Top); err != nil {
		return err
	}
	return RenderReaderCurvesWithSize(w, r.Result, r.CurveIDs, r.CurveWindow, totalWidth, 10, useColor)
}

func dedupe(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := ids[:0]
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
