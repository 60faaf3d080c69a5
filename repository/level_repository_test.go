package repository

import (
	"context"
	"testing"

	"seyobot/repository/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLevelRepository_GetAndUpsert(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	repo := NewLevelRepository(testDB.DB)
	ctx := context.Background()

	t.Run("missing record returns nil", func(t *testing.T) {
		record, err := repo.Get(ctx, 100, 200)
		require.NoError(t, err)
		assert.Nil(t, record)
	})

	t.Run("insert then read back", func(t *testing.T) {
		original := testutil.CreateTestLevelRecord(200, 100, 150, 4)
		require.NoError(t, repo.Upsert(ctx, original))

		record, err := repo.Get(ctx, 100, 200)
		require.NoError(t, err)
		require.NotNil(t, record)
		assert.Equal(t, 150, record.XP)
		assert.Equal(t, 4, record.Level)
		assert.Equal(t, original.LastMessageAt, record.LastMessageAt)
	})

	t.Run("upsert replaces the stored pair", func(t *testing.T) {
		updated := testutil.CreateTestLevelRecord(200, 100, 50, 5)
		require.NoError(t, repo.Upsert(ctx, updated))

		record, err := repo.Get(ctx, 100, 200)
		require.NoError(t, err)
		require.NotNil(t, record)
		assert.Equal(t, 50, record.XP)
		assert.Equal(t, 5, record.Level)
	})

	t.Run("per guild isolation", func(t *testing.T) {
		other := testutil.CreateTestLevelRecord(200, 999, 10, 1)
		require.NoError(t, repo.Upsert(ctx, other))

		record, err := repo.Get(ctx, 100, 200)
		require.NoError(t, err)
		require.NotNil(t, record)
		assert.Equal(t, 5, record.Level)
	})
}

func TestLevelRepository_CountHigherRanked(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	repo := NewLevelRepository(testDB.DB)
	ctx := context.Background()

	seed := []struct {
		userID int64
		xp     int
		level  int
	}{
		{1, 300, 5},
		{2, 100, 5},
		{3, 100, 5},
		{4, 50, 2},
	}
	for _, s := range seed {
		require.NoError(t, repo.Upsert(ctx, testutil.CreateTestLevelRecord(s.userID, 100, s.xp, s.level)))
	}

	t.Run("strictly higher level outranks", func(t *testing.T) {
		count, err := repo.CountHigherRanked(ctx, 100, 2, 50)
		require.NoError(t, err)
		assert.Equal(t, 3, count)
	})

	t.Run("equal level compares xp", func(t *testing.T) {
		count, err := repo.CountHigherRanked(ctx, 100, 5, 100)
		require.NoError(t, err)
		assert.Equal(t, 1, count)
	})

	t.Run("ties do not outrank each other", func(t *testing.T) {
		// Both users at (5, 100) see the same single record above them
		countA, err := repo.CountHigherRanked(ctx, 100, 5, 100)
		require.NoError(t, err)
		countB, err := repo.CountHigherRanked(ctx, 100, 5, 100)
		require.NoError(t, err)
		assert.Equal(t, countA, countB)
	})

	t.Run("top of the guild", func(t *testing.T) {
		count, err := repo.CountHigherRanked(ctx, 100, 5, 300)
		require.NoError(t, err)
		assert.Equal(t, 0, count)
	})

	t.Run("empty guild", func(t *testing.T) {
		count, err := repo.CountHigherRanked(ctx, 777, 1, 0)
		require.NoError(t, err)
		assert.Equal(t, 0, count)
	})
}

func TestLevelRepository_LeaderboardTop(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	repo := NewLevelRepository(testDB.DB)
	ctx := context.Background()

	for _, s := range []struct {
		userID int64
		xp     int
		level  int
	}{
		{1, 10, 3},
		{2, 200, 7},
		{3, 100, 7},
		{4, 0, 1},
	} {
		require.NoError(t, repo.Upsert(ctx, testutil.CreateTestLevelRecord(s.userID, 100, s.xp, s.level)))
	}

	records, err := repo.LeaderboardTop(ctx, 100, 3)
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, int64(2), records[0].UserID)
	assert.Equal(t, int64(3), records[1].UserID)
	assert.Equal(t, int64(1), records[2].UserID)
}

func TestSuggestionRepository_VoteFlow(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	repo := NewSuggestionRepository(testDB.DB)
	ctx := context.Background()

	suggestion := testutil.CreateTestSuggestion(999, 100, 200, "more emotes")
	require.NoError(t, repo.Create(ctx, suggestion))
	assert.False(t, suggestion.CreatedAt.IsZero())

	t.Run("first vote has no previous", func(t *testing.T) {
		previous, err := repo.UpsertVote(ctx, testutil.CreateTestVote(300, 999, 1))
		require.NoError(t, err)
		assert.Nil(t, previous)

		tally, err := repo.UpdateTally(ctx, 999)
		require.NoError(t, err)
		assert.Equal(t, 1, tally.Upvotes)
		assert.Equal(t, 0, tally.Downvotes)
	})

	t.Run("changed vote replaces the previous one", func(t *testing.T) {
		previous, err := repo.UpsertVote(ctx, testutil.CreateTestVote(300, 999, -1))
		require.NoError(t, err)
		require.NotNil(t, previous)
		assert.Equal(t, 1, previous.Vote)

		tally, err := repo.UpdateTally(ctx, 999)
		require.NoError(t, err)
		assert.Equal(t, 0, tally.Upvotes)
		assert.Equal(t, 1, tally.Downvotes)
	})

	t.Run("votes accumulate across users", func(t *testing.T) {
		_, err := repo.UpsertVote(ctx, testutil.CreateTestVote(301, 999, 1))
		require.NoError(t, err)
		_, err = repo.UpsertVote(ctx, testutil.CreateTestVote(302, 999, 1))
		require.NoError(t, err)

		tally, err := repo.UpdateTally(ctx, 999)
		require.NoError(t, err)
		assert.Equal(t, 2, tally.Upvotes)
		assert.Equal(t, 1, tally.Downvotes)
	})

	t.Run("tally lands on the suggestion row", func(t *testing.T) {
		stored, err := repo.GetByMessageID(ctx, 999)
		require.NoError(t, err)
		require.NotNil(t, stored)
		assert.Equal(t, 2, stored.Upvotes)
		assert.Equal(t, 1, stored.Downvotes)
	})
}
