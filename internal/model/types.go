// Package model defines shared data structures.
package model

import "fmt"

// ReaderKind describes how a synthetic reader votes.
type ReaderKind string

const (
	// ReaderHonest votes near the reporter's origin score.
	ReaderHonest ReaderKind = "honest"
	// ReaderCareless votes uniformly at random on the scale.
	ReaderCareless ReaderKind = "careless"
	// ReaderAdversarial mirrors the reporter's origin score.
	ReaderAdversarial ReaderKind = "adversarial"
)

// ParseReaderKind validates a reader kind name.
func ParseReaderKind(s string) (ReaderKind, error) {
	switch k := ReaderKind(s); k {
	case ReaderHonest, ReaderCareless, ReaderAdversarial:
		return k, nil
	default:
		return "", fmt.Errorf("unknown reader kind %q", s)
	}
}

// Reader is a row of the reader table.
type Reader struct {
	ID       string     `json:"id" yaml:"id"`
	Kind     ReaderKind `json:"kind" yaml:"kind"`
	Baseline float64    `json:"baseline" yaml:"baseline"`
}

// Reporter is a row of the reporter table. Origin is its true credibility.
type Reporter struct {
	ID     string  `json:"id" yaml:"id"`
	Origin float64 `json:"origin" yaml:"origin"`
}

// Vote is a single reader's score for a reporter in one round.
type Vote struct {
	Round      int     `json:"round" yaml:"round"`
	ReaderID   string  `json:"reader_id" yaml:"reader_id"`
	ReporterID string  `json:"reporter_id" yaml:"reporter_id"`
	Score      float64 `json:"score" yaml:"score"`
}

// ReporterVoteStats aggregates the votes a reporter received in a round.
type ReporterVoteStats struct {
	ReporterID string
	Votes      int
	Mean       float64
}

// ReporterScore is the final aggregate for one reporter. A reporter without
// votes has Votes == 0 and every score at the scale mean.
type ReporterScore struct {
	ReporterID string  `json:"reporter_id" yaml:"reporter_id"`
	Origin     float64 `json:"origin" yaml:"origin"`
	Simple     float64 `json:"simple" yaml:"simple"`
	Weighted   float64 `json:"weighted" yaml:"weighted"`
	Combined   float64 `json:"combined" yaml:"combined"`
	Votes      int     `json:"votes" yaml:"votes"`
}

// ReaderWeight is the final trust weight for one reader.
type ReaderWeight struct {
	ReaderID string     `json:"reader_id" yaml:"reader_id"`
	Kind     ReaderKind `json:"kind" yaml:"kind"`
	Weight   float64    `json:"weight" yaml:"weight"`
	Window   []float64  `json:"window" yaml:"window"`
}

// RoundSummary captures population-level numbers after a round.
type RoundSummary struct {
	Round      int     `json:"round" yaml:"round"`
	Votes      int     `json:"votes" yaml:"votes"`
	Voters     int     `json:"voters" yaml:"voters"`
	MeanWeight float64 `json:"mean_weight" yaml:"mean_weight"`
	MinWeight  float64 `json:"min_weight" yaml:"min_weight"`
	MaxWeight  float64 `json:"max_weight" yaml:"max_weight"`
	SimpleMAE  float64 `json:"simple_mae" yaml:"simple_mae"`
	MAE        float64 `json:"mae" yaml:"mae"`
}

// SimConfig defines population and round settings.
type SimConfig struct {
	Readers       int
	Reporters     int
	Rounds        int
	VotesPerRound int
	Window        int
	Seed          int64
	Noise         float64
	Adversarial   float64
	Careless      float64
	Policy        string
	BlendAlpha    float64
}

// ViewConfig defines display options for reports.
type ViewConfig struct {
	CurveWindow int
	Readers     []string
	Top         int
}
