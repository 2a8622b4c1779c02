package generator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/credence/internal/model"
	"github.com/verte-zerg/credence/internal/scale"
)

func TestIndexAsID(t *testing.T) {
	assert.Equal(t, "reader_0007", IndexAsID("reader", 7))
	assert.Equal(t, "reporter_12345", IndexAsID("reporter", 12345))
}

func TestPopulationIsDeterministicForSeed(t *testing.T) {
	sc := scale.Default()
	a := New(sc, 42)
	b := New(sc, 42)

	assert.Equal(t, a.Reporters(5), b.Reporters(5))
	assert.Equal(t, a.Readers(8, 0.2, 0.2), b.Readers(8, 0.2, 0.2))
}

func TestReportersOnScale(t *testing.T) {
	sc := scale.Default()
	reps := New(sc, 1).Reporters(50)
	require.Len(t, reps, 50)
	seen := map[string]bool{}
	for _, r := range reps {
		assert.True(t, sc.Contains(r.Origin), "origin %v", r.Origin)
		assert.False(t, seen[r.ID], "duplicate id %s", r.ID)
		seen[r.ID] = true
	}
}

func TestReaderKinds(t *testing.T) {
	g := New(scale.Default(), 3)

	for _, r := range g.Readers(20, 1, 0) {
		assert.Equal(t, model.ReaderAdversarial, r.Kind)
	}
	for _, r := range g.Readers(20, 0, 1) {
		assert.Equal(t, model.ReaderCareless, r.Kind)
	}
	for _, r := range g.Readers(20, 0, 0) {
		assert.Equal(t, model.ReaderHonest, r.Kind)
	}
}

func TestVotes(t *testing.T) {
	sc := scale.Default()
	g := New(sc, 9)
	reporters := g.Reporters(6)
	readers := g.Readers(4, 0.25, 0.25)

	votes := g.Votes(2, readers, reporters, 3, 0.5)
	require.Len(t, votes, 12)

	perReader := map[string]map[string]bool{}
	for _, v := range votes {
		assert.Equal(t, 2, v.Round)
		assert.True(t, sc.Contains(v.Score), "score %v", v.Score)
		if perReader[v.ReaderID] == nil {
			perReader[v.ReaderID] = map[string]bool{}
		}
		assert.False(t, perReader[v.ReaderID][v.ReporterID], "reader %s voted twice for %s", v.ReaderID, v.ReporterID)
		perReader[v.ReaderID][v.ReporterID] = true
	}
	assert.Len(t, perReader, 4)
}

func TestVotesCapsPerReader(t *testing.T) {
	g := New(scale.Default(), 5)
	votes := g.Votes(0, g.Readers(2, 0, 0), g.Reporters(3), 10, 0)
	assert.Len(t, votes, 6)
	assert.Empty(t, g.Votes(0, g.Readers(2, 0, 0), nil, 3, 0))
}

func TestAdversarialMirrorsOrigin(t *testing.T) {
	sc := scale.Default()
	g := New(sc, 11)
	reader := model.Reader{ID: "r", Kind: model.ReaderAdversarial}
	rep := model.Reporter{ID: "p", Origin: 9}

	votes := g.Votes(0, []model.Reader{reader}, []model.Reporter{rep}, 1, 0)
	require.Len(t, votes, 1)
	assert.InDelta(t, 2.0, votes[0].Score, 1e-9)
}

func TestPopulation(t *testing.T) {
	readers, reporters := New(scale.Default(), 9).Population(model.SimConfig{
		Readers:     12,
		Reporters:   4,
		Adversarial: 1,
	})
	require.Len(t, readers, 12)
	require.Len(t, reporters, 4)
	for _, r := range readers {
		assert.Equal(t, model.ReaderAdversarial, r.Kind)
	}
}
