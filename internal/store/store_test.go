package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/credence/internal/model"
)

func openStore(t *testing.T) *Store {
	t.Helper()
	st, err := Open()
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = st.Close()
	})
	return st
}

func TestReadersAndReportersKeepOrder(t *testing.T) {
	st := openStore(t)
	ctx := context.Background()

	readers := []model.Reader{
		{ID: "zed", Kind: model.ReaderHonest, Baseline: 0.5},
		{ID: "amy", Kind: model.ReaderAdversarial, Baseline: -0.25},
	}
	require.NoError(t, st.InsertReaders(ctx, readers))
	reporters := []model.Reporter{{ID: "p2", Origin: 7}, {ID: "p1", Origin: 3}}
	require.NoError(t, st.InsertReporters(ctx, reporters))

	gotReaders, err := st.ListReaders(ctx)
	require.NoError(t, err)
	assert.Equal(t, readers, gotReaders)

	gotReporters, err := st.ListReporters(ctx)
	require.NoError(t, err)
	require.Len(t, gotReporters, 2)
	assert.Equal(t, "p2", gotReporters[0].ID)
	assert.Equal(t, "p1", gotReporters[1].ID)
}

func TestVotesByRound(t *testing.T) {
	st := openStore(t)
	ctx := context.Background()

	votes := []model.Vote{
		{Round: 0, ReaderID: "r1", ReporterID: "p1", Score: 4},
		{Round: 0, ReaderID: "r2", ReporterID: "p1", Score: 6},
		{Round: 0, ReaderID: "r1", ReporterID: "p2", Score: 9},
		{Round: 1, ReaderID: "r1", ReporterID: "p1", Score: 1},
	}
	require.NoError(t, st.InsertVotes(ctx, votes))

	round0, err := st.ListVotes(ctx, 0)
	require.NoError(t, err)
	require.Len(t, round0, 3)
	assert.Equal(t, "p1", round0[0].ReporterID)
	assert.Equal(t, "r1", round0[0].ReaderID)
	assert.Equal(t, "p2", round0[2].ReporterID)

	stats, err := st.ReporterVoteStats(ctx, 0)
	require.NoError(t, err)
	require.Len(t, stats, 2)
	assert.Equal(t, "p1", stats[0].ReporterID)
	assert.Equal(t, 2, stats[0].Votes)
	assert.InDelta(t, 5, stats[0].Mean, 1e-9)

	all, err := st.ReporterVoteStats(ctx, -1)
	require.NoError(t, err)
	require.NotEmpty(t, all)
	assert.Equal(t, 3, all[0].Votes)
	assert.InDelta(t, 11.0/3, all[0].Mean, 1e-9)

	rounds, err := st.Rounds(ctx)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1}, rounds)
}

func TestDuplicateVoteRollsBack(t *testing.T) {
	st := openStore(t)
	ctx := context.Background()

	err := st.InsertVotes(ctx, []model.Vote{
		{Round: 0, ReaderID: "r1", ReporterID: "p1", Score: 4},
		{Round: 0, ReaderID: "r1", ReporterID: "p1", Score: 5},
	})
	require.Error(t, err)

	votes, err := st.ListVotes(ctx, 0)
	require.NoError(t, err)
	assert.Empty(t, votes, "insert must roll back")
}

func TestStoresAreIsolated(t *testing.T) {
	a := openStore(t)
	b := openStore(t)
	ctx := context.Background()
	require.NoError(t, a.InsertReporters(ctx, []model.Reporter{{ID: "p", Origin: 1}}))

	got, err := b.ListReporters(ctx)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestListReadersRejectsUnknownKind(t *testing.T) {
	st := openStore(t)
	ctx := context.Background()
	require.NoError(t, st.InsertReaders(ctx, []model.Reader{{ID: "r1", Kind: "sneaky"}}))

	_, err := st.ListReaders(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sneaky")
}
