package subscribers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/felixgeelhaar/moodsphere/internal/journal/application/services"
	"github.com/felixgeelhaar/moodsphere/internal/journal/domain"
	"github.com/felixgeelhaar/moodsphere/internal/shared/infrastructure/eventbus"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockEntryRepo struct {
	mock.Mock
}

func (m *mockEntryRepo) Insert(ctx context.Context, entry *domain.JournalEntry) (string, error) {
	args := m.Called(ctx, entry)
	return args.String(0), args.Error(1)
}

func (m *mockEntryRepo) FindByUser(ctx context.Context, userID string, filter domain.EntryFilter) ([]*domain.JournalEntry, error) {
	args := m.Called(ctx, userID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.JournalEntry), args.Error(1)
}

func (m *mockEntryRepo) CountByUser(ctx context.Context, userID string) (int, error) {
	args := m.Called(ctx, userID)
	return args.Int(0), args.Error(1)
}

func (m *mockEntryRepo) DeleteByID(ctx context.Context, id string) (string, bool, error) {
	args := m.Called(ctx, id)
	return args.String(0), args.Bool(1), args.Error(2)
}

type mockCache struct {
	mock.Mock
}

func (m *mockCache) Get(ctx context.Context, userID, rangeKey string) (*services.Trends, error) {
	args := m.Called(ctx, userID, rangeKey)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.Trends), args.Error(1)
}

func (m *mockCache) Set(ctx context.Context, userID, rangeKey string, trends *services.Trends) error {
	return m.Called(ctx, userID, rangeKey, trends).Error(0)
}

func (m *mockCache) Invalidate(ctx context.Context, userID string) error {
	return m.Called(ctx, userID).Error(0)
}

var now = time.Date(2025, 6, 15, 14, 0, 0, 0, time.UTC)

func newWarmer(repo *mockEntryRepo, cache *mockCache) *InsightsWarmer {
	trends := services.NewTrendAggregator(repo, func() time.Time { return now })
	return NewInsightsWarmer(trends, cache, nil, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func createdEvent(t *testing.T, userID string) *eventbus.ConsumedEvent {
	t.Helper()
	payload, err := json.Marshal(EntryCreatedPayload{EntryID: uuid.NewString(), UserID: userID, Mood: "calm"})
	require.NoError(t, err)
	return &eventbus.ConsumedEvent{
		EventID:    uuid.New(),
		RoutingKey: domain.RoutingKeyEntryCreated,
		Payload:    payload,
	}
}

func TestInsightsWarmer_EventTypes(t *testing.T) {
	w := newWarmer(new(mockEntryRepo), new(mockCache))
	assert.ElementsMatch(t, []string{"journal.entry.created", "journal.entry.deleted"}, w.EventTypes())
}

func TestInsightsWarmer_CreatedWarmsDefaultRange(t *testing.T) {
	repo := new(mockEntryRepo)
	cache := new(mockCache)
	r := services.ParseDateRange(services.DefaultRange)

	entry := domain.RehydrateJournalEntry(uuid.New(), "alice", "t", "calm", "",
		domain.FormatTimestamp(now), domain.Analyzed(domain.Analysis{SentimentScore: 0}), now)
	repo.On("FindByUser", mock.Anything, "alice", r.TrendFilter(now)).Return([]*domain.JournalEntry{entry}, nil)
	cache.On("Set", mock.Anything, "alice", "30d", mock.MatchedBy(func(tr *services.Trends) bool {
		return len(tr.Dates) == 1 && tr.Scores[0] == 0.5
	})).Return(nil)

	err := newWarmer(repo, cache).Handle(context.Background(), createdEvent(t, "alice"))
	require.NoError(t, err)
	cache.AssertExpectations(t)
}

func TestInsightsWarmer_CreatedFallsBackToMetadataUser(t *testing.T) {
	repo := new(mockEntryRepo)
	cache := new(mockCache)
	repo.On("FindByUser", mock.Anything, "bob", mock.Anything).Return([]*domain.JournalEntry{}, nil)
	cache.On("Set", mock.Anything, "bob", "30d", mock.Anything).Return(nil)

	event := &eventbus.ConsumedEvent{
		RoutingKey: domain.RoutingKeyEntryCreated,
		Metadata:   eventbus.EventMetadata{UserID: "bob"},
	}
	require.NoError(t, newWarmer(repo, cache).Handle(context.Background(), event))
	cache.AssertExpectations(t)
}

func TestInsightsWarmer_CreatedRepoErrorIsReturned(t *testing.T) {
	repo := new(mockEntryRepo)
	cache := new(mockCache)
	repo.On("FindByUser", mock.Anything, "alice", mock.Anything).Return(nil, errors.New("db down"))

	err := newWarmer(repo, cache).Handle(context.Background(), createdEvent(t, "alice"))
	assert.Error(t, err)
	cache.AssertNotCalled(t, "Set", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestInsightsWarmer_DeletedInvalidates(t *testing.T) {
	cache := new(mockCache)
	cache.On("Invalidate", mock.Anything, "alice").Return(nil)

	event := &eventbus.ConsumedEvent{
		RoutingKey: domain.RoutingKeyEntryDeleted,
		Metadata:   eventbus.EventMetadata{UserID: "alice"},
	}
	require.NoError(t, newWarmer(new(mockEntryRepo), cache).Handle(context.Background(), event))
	cache.AssertExpectations(t)
}

func TestInsightsWarmer_IgnoresUnknownAndOwnerless(t *testing.T) {
	cache := new(mockCache)
	w := newWarmer(new(mockEntryRepo), cache)

	assert.NoError(t, w.Handle(context.Background(), &eventbus.ConsumedEvent{RoutingKey: "other.event"}))
	assert.NoError(t, w.Handle(context.Background(), &eventbus.ConsumedEvent{RoutingKey: domain.RoutingKeyEntryDeleted}))
	assert.NoError(t, w.Handle(context.Background(), &eventbus.ConsumedEvent{RoutingKey: domain.RoutingKeyEntryCreated}))
	cache.AssertNotCalled(t, "Invalidate", mock.Anything, mock.Anything)
}
