package scoring

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"sort"

	"github.com/google/uuid"

	"github.com/verte-zerg/credence/internal/model"
	"github.com/verte-zerg/credence/internal/scale"
	"github.com/verte-zerg/credence/internal/store"
	"github.com/verte-zerg/credence/internal/weights"
)

// ErrScoreOutOfScale is returned when a stored vote lies outside the scale.
var ErrScoreOutOfScale = errors.New("vote score outside the scale")

// Result is the outcome of a scoring run.
type Result struct {
	RunID     string                      `json:"run_id" yaml:"run_id"`
	Policy    string                      `json:"policy" yaml:"policy"`
	ScaleMin  float64                     `json:"scale_min" yaml:"scale_min"`
	ScaleMax  float64                     `json:"scale_max" yaml:"scale_max"`
	Window    int                         `json:"window" yaml:"window"`
	InitMean  float64                     `json:"init_mean" yaml:"init_mean"`
	Rounds    []model.RoundSummary        `json:"rounds" yaml:"rounds"`
	Reporters []model.ReporterScore       `json:"reporters" yaml:"reporters"`
	Readers   []model.ReaderWeight        `json:"readers" yaml:"readers"`
	History   map[string][]float64        `json:"history" yaml:"history"`
	Kinds     map[string]model.ReaderKind `json:"-" yaml:"-"`
}

// Engine runs rounds of votes through a weight holder.
type Engine struct {
	store  *store.Store
	holder *weights.Holder
	scale  scale.Scale
	policy Policy
	log    *slog.Logger

	readers   []model.Reader
	reporters []model.Reporter
	history   map[string][]float64
}

// NewEngine loads the reader and reporter tables from st. The holder must
// know every reader that appears in the votes.
func NewEngine(ctx context.Context, st *store.Store, holder *weights.Holder, sc scale.Scale, policy Policy, logger *slog.Logger) (*Engine, error) {
	if logger == nil {
		logger = slog.Default()
	}
	readers, err := st.ListReaders(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load readers: %w", err)
	}
	reporters, err := st.ListReporters(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load reporters: %w", err)
	}
	e := &Engine{
		store:     st,
		holder:    holder,
		scale:     sc,
		policy:    policy,
		log:       logger,
		readers:   readers,
		reporters: reporters,
		history:   map[string][]float64{},
	}
	for id, w := range holder.Weights() {
		e.history[id] = []float64{w}
	}
	return e, nil
}

// Run scores every round found in the store, in order, then the final
// reporter aggregates.
func (e *Engine) Run(ctx context.Context) (Result, error) {
	rounds, err := e.store.Rounds(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("failed to list rounds: %w", err)
	}
	runID := uuid.NewString()
	log := e.log.With("run", runID[:8])
	log.Info("scoring started", "rounds", len(rounds), "readers", e.holder.Len(), "policy", e.policy.Name())

	summaries := make([]model.RoundSummary, 0, len(rounds))
	for _, round := range rounds {
		if err := ctx.Err(); err != nil {
			return Result{}, err
		}
		summary, err := e.Round(ctx, round)
		if err != nil {
			return Result{}, err
		}
		log.Debug("round scored",
			"round", summary.Round,
			"votes", summary.Votes,
			"mean_weight", summary.MeanWeight,
			"mae", summary.MAE,
		)
		summaries = append(summaries, summary)
	}

	reporters, err := e.FinalScores(ctx)
	if err != nil {
		return Result{}, err
	}
	res := Result{
		RunID:     runID,
		Policy:    e.policy.Name(),
		ScaleMin:  e.scale.Min(),
		ScaleMax:  e.scale.Max(),
		Window:    e.holder.Window(),
		InitMean:  e.holder.InitMean(),
		Rounds:    summaries,
		Reporters: reporters,
		Readers:   e.ReaderWeights(),
		History:   e.History(),
		Kinds:     e.kinds(),
	}
	if n := len(summaries); n > 0 {
		log.Info("scoring finished", "mae", summaries[n-1].MAE, "simple_mae", summaries[n-1].SimpleMAE)
	}
	return res, nil
}

// Round scores one round: consensus per reporter, then one weight
// observation per voting reader.
func (e *Engine) Round(ctx context.Context, round int) (model.RoundSummary, error) {
	votes, err := e.store.ListVotes(ctx, round)
	if err != nil {
		return model.RoundSummary{}, fmt.Errorf("failed to load votes for round %d: %w", round, err)
	}
	for _, v := range votes {
		if !e.holder.Has(v.ReaderID) {
			return model.RoundSummary{}, fmt.Errorf("round %d: %w: %q", round, weights.ErrUnknownReader, v.ReaderID)
		}
		if !e.scale.Contains(v.Score) {
			return model.RoundSummary{}, fmt.Errorf("round %d: %w: %s scored %s %g on %s", round, ErrScoreOutOfScale, v.ReaderID, v.ReporterID, v.Score, e.scale)
		}
	}
	current := e.holder.Weights()

	aggs := e.aggregate(votes, current)
	observations := e.observations(votes, aggs)
	if err := e.holder.Inserts(observations); err != nil {
		return model.RoundSummary{}, fmt.Errorf("failed to update weights for round %d: %w", round, err)
	}
	after := e.holder.Weights()
	for id, w := range after {
		e.history[id] = append(e.history[id], w)
	}

	summary := model.RoundSummary{
		Round:  round,
		Votes:  len(votes),
		Voters: len(observations),
	}
	summary.MeanWeight, summary.MinWeight, summary.MaxWeight = describe(after)
	summary.MAE, summary.SimpleMAE = e.errors(aggs)
	return summary, nil
}

// FinalScores aggregates every vote with the current reader weights.
func (e *Engine) FinalScores(ctx context.Context) ([]model.ReporterScore, error) {
	votes, err := e.store.ListVotes(ctx, -1)
	if err != nil {
		return nil, fmt.Errorf("failed to load votes: %w", err)
	}
	simple, err := e.store.ReporterVoteStats(ctx, -1)
	if err != nil {
		return nil, fmt.Errorf("failed to load vote stats: %w", err)
	}
	bySQL := make(map[string]model.ReporterVoteStats, len(simple))
	for _, st := range simple {
		bySQL[st.ReporterID] = st
	}
	aggs := e.aggregate(votes, e.holder.Weights())

	out := make([]model.ReporterScore, 0, len(e.reporters))
	for _, rep := range e.reporters {
		// Unvoted reporters sit at the scale mean with Votes == 0.
		score := model.ReporterScore{
			ReporterID: rep.ID,
			Origin:     rep.Origin,
			Simple:     e.scale.Mean(),
			Weighted:   e.scale.Mean(),
			Combined:   e.scale.Mean(),
		}
		st, voted := bySQL[rep.ID]
		agg, ok := aggs[rep.ID]
		if voted && ok && st.Votes > 0 {
			score.Votes = st.Votes
			score.Simple = st.Mean
			score.Weighted = agg.weighted
			score.Combined = e.scale.Clamp(e.policy.Combine(st.Mean, agg.weighted))
		}
		out = append(out, score)
	}
	return out, nil
}

// ReaderWeights returns final weights, highest first.
func (e *Engine) ReaderWeights() []model.ReaderWeight {
	kinds := e.kinds()
	current := e.holder.Weights()
	out := make([]model.ReaderWeight, 0, e.holder.Len())
	for _, id := range e.holder.Ranked() {
		window, err := e.holder.History(id)
		if err != nil {
			continue
		}
		out = append(out, model.ReaderWeight{
			ReaderID: id,
			Kind:     kinds[id],
			Weight:   current[id],
			Window:   window,
		})
	}
	return out
}

// History returns each reader's weight after every round, starting with the
// initial weight.
func (e *Engine) History() map[string][]float64 {
	out := make(map[string][]float64, len(e.history))
	for id, h := range e.history {
		out[id] = append([]float64(nil), h...)
	}
	return out
}

type reporterAgg struct {
	votes     int
	simple    float64
	weighted  float64
	consensus float64
}

func (e *Engine) aggregate(votes []model.Vote, current map[string]float64) map[string]reporterAgg {
	type acc struct {
		n      int
		sum    float64
		wsum   float64
		wtotal float64
	}
	accs := map[string]*acc{}
	for _, v := range votes {
		a, ok := accs[v.ReporterID]
		if !ok {
			a = &acc{}
			accs[v.ReporterID] = a
		}
		trust := e.trust(current[v.ReaderID])
		a.n++
		a.sum += v.Score
		a.wsum += trust * v.Score
		a.wtotal += trust
	}
	out := make(map[string]reporterAgg, len(accs))
	for id, a := range accs {
		simple := a.sum / float64(a.n)
		weighted := simple
		if a.wtotal > 0 {
			weighted = a.wsum / a.wtotal
		}
		out[id] = reporterAgg{
			votes:     a.n,
			simple:    simple,
			weighted:  weighted,
			consensus: e.scale.Clamp(e.policy.Combine(simple, weighted)),
		}
	}
	return out
}

// trust converts a weight on the scale into a non-negative vote multiplier.
// A reader at the scale minimum carries no influence.
func (e *Engine) trust(weight float64) float64 {
	return math.Max(weight-e.scale.Min(), 0)
}

// observations scores each voting reader by how far their votes sit from the
// consensus, standardized across the round's voters. Closer than average maps
// above the scale mean.
func (e *Engine) observations(votes []model.Vote, aggs map[string]reporterAgg) map[string]float64 {
	devSum := map[string]float64{}
	devN := map[string]int{}
	for _, v := range votes {
		devSum[v.ReaderID] += math.Abs(v.Score - aggs[v.ReporterID].consensus)
		devN[v.ReaderID]++
	}
	if len(devSum) == 0 {
		return map[string]float64{}
	}
	devs := make(map[string]float64, len(devSum))
	values := make([]float64, 0, len(devSum))
	for id, sum := range devSum {
		d := sum / float64(devN[id])
		devs[id] = d
		values = append(values, d)
	}
	mean, std := meanStd(values)

	out := make(map[string]float64, len(devs))
	for id, d := range devs {
		z := 0.0
		if std > 0 {
			z = (d - mean) / std
		}
		out[id] = e.scale.ToValue(-z)
	}
	return out
}

func (e *Engine) errors(aggs map[string]reporterAgg) (mae, simpleMAE float64) {
	n := 0
	for _, rep := range e.reporters {
		agg, ok := aggs[rep.ID]
		if !ok {
			continue
		}
		mae += math.Abs(agg.consensus - rep.Origin)
		simpleMAE += math.Abs(agg.simple - rep.Origin)
		n++
	}
	if n == 0 {
		return 0, 0
	}
	return mae / float64(n), simpleMAE / float64(n)
}

func (e *Engine) kinds() map[string]model.ReaderKind {
	out := make(map[string]model.ReaderKind, len(e.readers))
	for _, r := range e.readers {
		out[r.ID] = r.Kind
	}
	return out
}

func describe(ws map[string]float64) (mean, minW, maxW float64) {
	if len(ws) == 0 {
		return 0, 0, 0
	}
	values := make([]float64, 0, len(ws))
	for _, w := range ws {
		values = append(values, w)
	}
	sort.Float64s(values)
	for _, w := range values {
		mean += w
	}
	return mean / float64(len(values)), values[0], values[len(values)-1]
}

func meanStd(values []float64) (mean, std float64) {
	if len(values) == 0 {
		return 0, 0
	}
	sort.Float64s(values)
	for _, v := range values {
		mean += v
	}
	mean /= float64(len(values))
	var variance float64
	for _, v := range values {
		variance += (v - mean) * (v - mean)
	}
	return mean, math.Sqrt(variance / float64(len(values)))
}
