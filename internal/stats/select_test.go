package stats

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/credence/internal/model"
)

func TestTopAndBottomReaders(t *testing.T) {
	readers := []model.ReaderWeight{
		{ReaderID: "b", Weight: 4},
		{ReaderID: "a", Weight: 4},
		{ReaderID: "c", Weight: 9},
		{ReaderID: "d", Weight: 1},
	}
	assert.Equal(t, []string{"c", "a"}, TopReaders(readers, 2))
	assert.Equal(t, []string{"d", "a", "b"}, BottomReaders(readers, 3))
	assert.Nil(t, TopReaders(readers, 0))
	assert.Len(t, TopReaders(readers, 10), 4)
	assert.Equal(t, "b", readers[0].ReaderID, "input must not be reordered")
}

func TestWorstReporters(t *testing.T) {
	reporters := []model.ReporterScore{
		{ReporterID: "p1", Origin: 5, Combined: 5.5, Votes: 3},
		{ReporterID: "p2", Origin: 2, Combined: 5, Votes: 3},
		{ReporterID: "p3", Origin: 9, Combined: 8, Votes: 3},
	}
	got := WorstReporters(reporters, 2)
	require.Len(t, got, 2)
	assert.Equal(t, "p2", got[0].ReporterID)
	assert.Equal(t, "p3", got[1].ReporterID)
	assert.Len(t, WorstReporters(reporters, 0), 3)
}

func TestWorstReportersPutsUnvotedLast(t *testing.T) {
	reporters := []model.ReporterScore{
		{ReporterID: "quiet", Origin: 1, Combined: 5.5},
		{ReporterID: "p1", Origin: 5, Combined: 5.25, Votes: 2},
		{ReporterID: "p2", Origin: 9, Combined: 8, Votes: 4},
	}
	got := WorstReporters(reporters, 0)
	require.Len(t, got, 3)
	assert.Equal(t, "p2", got[0].ReporterID)
	assert.Equal(t, "p1", got[1].ReporterID)
	assert.Equal(t, "quiet", got[2].ReporterID)

	top := WorstReporters(reporters, 2)
	require.Len(t, top, 2)
	assert.NotContains(t, []string{top[0].ReporterID, top[1].ReporterID}, "quiet")
}

func TestWeightByKind(t *testing.T) {
	got := WeightByKind([]model.ReaderWeight{
		{ReaderID: "a", Kind: model.ReaderAdversarial, Weight: 2},
		{ReaderID: "b", Kind: model.ReaderHonest, Weight: 8},
		{ReaderID: "c", Kind: model.ReaderHonest, Weight: 6},
		{ReaderID: "d", Kind: "", Weight: 5},
	})
	require.Len(t, got, 3)
	assert.Equal(t, KindWeight{Kind: model.ReaderHonest, Readers: 2, Mean: 7}, got[0])
	assert.Equal(t, model.ReaderAdversarial, got[1].Kind)
	assert.Equal(t, 2.0, got[1].Mean)
	assert.Equal(t, model.ReaderKind(""), got[2].Kind)
	assert.Equal(t, 5.0, got[2].Mean)
}
