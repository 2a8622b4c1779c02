// Package generator builds synthetic reader and reporter populations.
package generator

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/verte-zerg/credence/internal/model"
	"github.com/verte-zerg/credence/internal/scale"
)

// Generator produces randomized readers, reporters and votes on a scale.
type Generator struct {
	rnd   *rand.Rand
	scale scale.Scale
}

// New returns a Generator. A zero seed selects the current time.
func New(sc scale.Scale, seed int64) *Generator {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Generator{rnd: rand.New(rand.NewSource(seed)), scale: sc}
}

// IndexAsID derives a stable id from a row index, e.g. reader_0007.
func IndexAsID(prefix string, index int) string {
	return fmt.Sprintf("%s_%04d", prefix, index)
}

// Reporters draws count reporters with an origin credibility on the scale.
func (g *Generator) Reporters(count int) []model.Reporter {
	out := make([]model.Reporter, 0, count)
	for i := 0; i < count; i++ {
		out = append(out, model.Reporter{
			ID:     IndexAsID("reporter", i),
			Origin: g.uniform(),
		})
	}
	return out
}

// Readers draws count readers. adversarialPct and carelessPct are the share
// of each kind (0-1); the rest are honest. Baseline is the reader's habitual
// offset from a reporter's true score.
func (g *Generator) Readers(count int, adversarialPct, carelessPct float64) []model.Reader {
	out := make([]model.Reader, 0, count)
	for i := 0; i < count; i++ {
		kind := model.ReaderHonest
		r := g.rnd.Float64()
		switch {
		case r < adversarialPct:
			kind = model.ReaderAdversarial
		case r < adversarialPct+carelessPct:
			kind = model.ReaderCareless
		}
		out = append(out, model.Reader{
			ID:       IndexAsID("reader", i),
			Kind:     kind,
			Baseline: g.rnd.NormFloat64() * g.scale.Sigma() / 4,
		})
	}
	return out
}

// Votes produces one round of votes: every reader scores perReader distinct
// reporters chosen uniformly. noise is the honest voters' spread in sigmas.
func (g *Generator) Votes(round int, readers []model.Reader, reporters []model.Reporter, perReader int, noise float64) []model.Vote {
	if len(reporters) == 0 || perReader <= 0 {
		return nil
	}
	if perReader > len(reporters) {
		perReader = len(reporters)
	}
	votes := make([]model.Vote, 0, len(readers)*perReader)
	for _, reader := range readers {
		for _, idx := range g.rnd.Perm(len(reporters))[:perReader] {
			rep := reporters[idx]
			votes = append(votes, model.Vote{
				Round:      round,
				ReaderID:   reader.ID,
				ReporterID: rep.ID,
				Score:      g.score(reader, rep, noise),
			})
		}
	}
	return votes
}

func (g *Generator) score(reader model.Reader, rep model.Reporter, noise float64) float64 {
	var v float64
	switch reader.Kind {
	case model.ReaderCareless:
		return g.uniform()
	case model.ReaderAdversarial:
		v = g.scale.Min() + g.scale.Max() - rep.Origin
	default:
		v = rep.Origin
	}
	v += reader.Baseline + g.rnd.NormFloat64()*noise*g.scale.Sigma()
	return g.scale.Clamp(v)
}

func (g *Generator) uniform() float64 {
	return g.scale.Min() + g.rnd.Float64()*(g.scale.Max()-g.scale.Min())
}

// Population draws the reporters and readers described by cfg.
func (g *Generator) Population(cfg model.SimConfig) ([]model.Reader, []model.Reporter) {
	reporters := g.Reporters(cfg.Reporters)
	readers := g.Readers(cfg.Readers, cfg.Adversarial, cfg.Careless)
	return readers, reporters
}
