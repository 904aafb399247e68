package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/felixgeelhaar/moodsphere/internal/journal/domain"
	shareddomain "github.com/felixgeelhaar/moodsphere/internal/shared/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEntry(t *testing.T, userID, text string, at time.Time) *domain.JournalEntry {
	t.Helper()

	analysis := domain.Analyzed(domain.Analysis{
		Summary:             "A test entry.",
		DominantMood:        "happy",
		MoodScores:          map[string]float64{"happy": 0.82, "positive": 0.6, "negative": 0, "neutral": 0.4},
		Keywords:            []string{"sunny", "walk"},
		Suggestion:          "Keep going.",
		SentimentScore:      0.6,
		EmotionDistribution: map[string]float64{"joy": 0.9, "sadness": 0.1},
	})
	entry, err := domain.NewJournalEntry(userID, text, "", "What made you smile?", at, analysis)
	require.NoError(t, err)
	return entry
}

// runRepositoryContract exercises the behavior every entry store shares.
func runRepositoryContract(t *testing.T, newRepo func(t *testing.T) domain.EntryRepository) {
	ctx := context.Background()
	base := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)

	t.Run("insert and read back", func(t *testing.T) {
		repo := newRepo(t)
		entry := newTestEntry(t, "alice", "A sunny walk", base)

		id, err := repo.Insert(ctx, entry)
		require.NoError(t, err)
		assert.Equal(t, entry.ID().String(), id)

		found, err := repo.FindByUser(ctx, "alice", domain.EntryFilter{})
		require.NoError(t, err)
		require.Len(t, found, 1)

		got := found[0]
		assert.Equal(t, entry.ID(), got.ID())
		assert.Equal(t, "happy", got.Mood)
		assert.Equal(t, entry.Timestamp, got.Timestamp)
		assert.Equal(t, entry.Prompt, got.Prompt)
		assert.Equal(t, domain.AnalysisAnalyzed, got.Analysis.Status)
		assert.Equal(t, entry.Analysis.MoodScores, got.Analysis.MoodScores)
		assert.Equal(t, entry.Analysis.Keywords, got.Analysis.Keywords)
		assert.InDelta(t, 0.6, got.Analysis.SentimentScore, 1e-9)
		assert.Equal(t, entry.Analysis.EmotionDistribution, got.Analysis.EmotionDistribution)
	})

	t.Run("unanalyzed entries keep their reason", func(t *testing.T) {
		repo := newRepo(t)
		entry, err := domain.NewJournalEntry("alice", "quiet day", "", "", base, domain.Unanalyzed(domain.ReasonTimeout))
		require.NoError(t, err)

		_, err = repo.Insert(ctx, entry)
		require.NoError(t, err)

		found, err := repo.FindByUser(ctx, "alice", domain.EntryFilter{})
		require.NoError(t, err)
		require.Len(t, found, 1)
		assert.False(t, found[0].Analysis.IsAnalyzed())
		assert.Equal(t, domain.ReasonTimeout, found[0].Analysis.Reason)
		assert.Equal(t, "neutral", found[0].Mood)
	})

	t.Run("filters and ordering", func(t *testing.T) {
		repo := newRepo(t)
		for i, text := range []string{"Old Rainy day", "middle SUNNY day", "new sunny day"} {
			_, err := repo.Insert(ctx, newTestEntry(t, "alice", text, base.AddDate(0, 0, i)))
			require.NoError(t, err)
		}
		_, err := repo.Insert(ctx, newTestEntry(t, "bob", "sunny for bob", base))
		require.NoError(t, err)

		all, err := repo.FindByUser(ctx, "alice", domain.EntryFilter{})
		require.NoError(t, err)
		require.Len(t, all, 3)
		assert.Equal(t, "new sunny day", all[0].Text)
		assert.Equal(t, "Old Rainy day", all[2].Text)

		asc, err := repo.FindByUser(ctx, "alice", domain.EntryFilter{Ascending: true})
		require.NoError(t, err)
		require.Len(t, asc, 3)
		assert.Equal(t, "Old Rainy day", asc[0].Text)

		since := base.AddDate(0, 0, 1)
		recent, err := repo.FindByUser(ctx, "alice", domain.EntryFilter{Since: &since})
		require.NoError(t, err)
		assert.Len(t, recent, 2)

		search, err := repo.FindByUser(ctx, "alice", domain.EntryFilter{Search: "Sunny"})
		require.NoError(t, err)
		assert.Len(t, search, 2)

		limited, err := repo.FindByUser(ctx, "alice", domain.EntryFilter{Limit: 1})
		require.NoError(t, err)
		require.Len(t, limited, 1)
		assert.Equal(t, "new sunny day", limited[0].Text)

		wildcard, err := repo.FindByUser(ctx, "alice", domain.EntryFilter{Search: "%"})
		require.NoError(t, err)
		assert.Empty(t, wildcard)

		count, err := repo.CountByUser(ctx, "alice")
		require.NoError(t, err)
		assert.Equal(t, 3, count)
	})

	t.Run("delete", func(t *testing.T) {
		repo := newRepo(t)
		entry := newTestEntry(t, "alice", "to delete", base)
		_, err := repo.Insert(ctx, entry)
		require.NoError(t, err)

		owner, deleted, err := repo.DeleteByID(ctx, entry.Key())
		require.NoError(t, err)
		assert.True(t, deleted)
		assert.Equal(t, "alice", owner)

		owner, deleted, err = repo.DeleteByID(ctx, entry.Key())
		require.NoError(t, err)
		assert.False(t, deleted)
		assert.Empty(t, owner)

		_, deleted, err = repo.DeleteByID(ctx, "not-an-id")
		require.NoError(t, err)
		assert.False(t, deleted)

		count, err := repo.CountByUser(ctx, "alice")
		require.NoError(t, err)
		assert.Zero(t, count)
	})

	t.Run("delete reports the owning user", func(t *testing.T) {
		repo := newRepo(t)
		mine := newTestEntry(t, "alice", "alice's entry", base)
		theirs := newTestEntry(t, "bob", "bob's entry", base.Add(time.Hour))
		_, err := repo.Insert(ctx, mine)
		require.NoError(t, err)
		_, err = repo.Insert(ctx, theirs)
		require.NoError(t, err)

		owner, deleted, err := repo.DeleteByID(ctx, theirs.Key())
		require.NoError(t, err)
		assert.True(t, deleted)
		assert.Equal(t, "bob", owner)

		count, err := repo.CountByUser(ctx, "alice")
		require.NoError(t, err)
		assert.Equal(t, 1, count)
	})
}

func TestMemoryEntryRepository(t *testing.T) {
	runRepositoryContract(t, func(t *testing.T) domain.EntryRepository {
		return NewMemoryEntryRepository()
	})
}

func TestLikePattern(t *testing.T) {
	assert.Equal(t, "%sunny%", likePattern("Sunny"))
	assert.Equal(t, `%50\%\_off%`, likePattern("50%_off"))
}

func TestOpenEntryStore(t *testing.T) {
	ctx := context.Background()
	base := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)

	t.Run("memory", func(t *testing.T) {
		store, err := OpenEntryStore(ctx, StoreConfig{Driver: "memory"}, nil)
		require.NoError(t, err)
		assert.IsType(t, &MemoryEntryRepository{}, store.Repository)
		assert.NoError(t, store.Ping(ctx))
		assert.NoError(t, store.Close(ctx))
	})

	t.Run("sqlite", func(t *testing.T) {
		store, err := OpenEntryStore(ctx, StoreConfig{Driver: "sqlite", SQLitePath: ":memory:", AutoMigrate: true}, nil)
		require.NoError(t, err)
		defer store.Close(ctx)

		require.IsType(t, &availabilityRepository{}, store.Repository)
		assert.IsType(t, &SQLiteEntryRepository{}, store.Repository.(*availabilityRepository).next)
		assert.NoError(t, store.Ping(ctx))

		count, err := store.Repository.CountByUser(ctx, "alice")
		require.NoError(t, err)
		assert.Zero(t, count)
	})

	t.Run("closed sqlite store reports unavailable", func(t *testing.T) {
		store, err := OpenEntryStore(ctx, StoreConfig{Driver: "sqlite", SQLitePath: ":memory:", AutoMigrate: true}, nil)
		require.NoError(t, err)
		require.NoError(t, store.Close(ctx))

		_, err = store.Repository.FindByUser(ctx, "alice", domain.EntryFilter{})
		assert.ErrorIs(t, err, shareddomain.ErrUpstreamUnavailable)

		_, err = store.Repository.Insert(ctx, newTestEntry(t, "alice", "after close", base))
		assert.ErrorIs(t, err, shareddomain.ErrUpstreamUnavailable)
	})

	t.Run("unknown driver", func(t *testing.T) {
		_, err := OpenEntryStore(ctx, StoreConfig{Driver: "cassandra"}, nil)
		assert.Error(t, err)
	})
}
