package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	analysisservices "github.com/felixgeelhaar/moodsphere/internal/analysis/application/services"
	"github.com/felixgeelhaar/moodsphere/internal/journal/application/services"
	"github.com/felixgeelhaar/moodsphere/internal/journal/domain"
	"github.com/felixgeelhaar/moodsphere/internal/shared/application"
	shareddomain "github.com/felixgeelhaar/moodsphere/internal/shared/domain"
	"github.com/felixgeelhaar/moodsphere/internal/shared/infrastructure/eventbus"
	"github.com/felixgeelhaar/moodsphere/pkg/observability"
)

// DefaultAnalysisTimeout bounds text analysis during a save.
const DefaultAnalysisTimeout = 5 * time.Second

// TextAnalyzer analyzes journal text.
type TextAnalyzer interface {
	Analyze(ctx context.Context, text string) (*analysisservices.TextAnalysis, error)
}

// SaveEntryCommand contains the data to save a journal entry.
type SaveEntryCommand struct {
	UserID string
	Text   string
	Mood   string // Optional, defaults to the analyzed mood
	Prompt string
	// Datetime is an optional ISO-8601 timestamp; unparsable values mean now.
	Datetime string
}

// SaveEntryResult contains the saved entry and the user's updated stats.
type SaveEntryResult struct {
	Success      bool               `json:"success"`
	SavedEntry   services.EntryView `json:"saved_entry"`
	StreakCount  int                `json:"streak_count"`
	EntriesCount int                `json:"entries_count"`
}

// SaveEntryHandler analyzes and stores journal entries.
type SaveEntryHandler struct {
	repo      domain.EntryRepository
	analyzer  TextAnalyzer
	streaks   *services.StreakCalculator
	cache     services.InsightsCache
	publisher eventbus.Publisher
	timeout   time.Duration
	clock     services.Clock
	metrics   observability.Metrics
	logger    *slog.Logger
}

// SaveEntryOption configures a SaveEntryHandler.
type SaveEntryOption func(*SaveEntryHandler)

// WithAnalysisTimeout sets how long a save waits for analysis.
func WithAnalysisTimeout(d time.Duration) SaveEntryOption {
	return func(h *SaveEntryHandler) {
		if d > 0 {
			h.timeout = d
		}
	}
}

// WithClock sets the clock used for entries saved without a datetime.
func WithClock(clock services.Clock) SaveEntryOption {
	return func(h *SaveEntryHandler) {
		if clock != nil {
			h.clock = clock
		}
	}
}

// WithMetrics sets the metrics sink.
func WithMetrics(m observability.Metrics) SaveEntryOption {
	return func(h *SaveEntryHandler) {
		if m != nil {
			h.metrics = m
		}
	}
}

// NewSaveEntryHandler creates a new save entry handler.
func NewSaveEntryHandler(
	repo domain.EntryRepository,
	analyzer TextAnalyzer,
	streaks *services.StreakCalculator,
	cache services.InsightsCache,
	publisher eventbus.Publisher,
	logger *slog.Logger,
	opts ...SaveEntryOption,
) *SaveEntryHandler {
	if logger == nil {
		logger = slog.Default()
	}
	if publisher == nil {
		publisher = eventbus.NewNoopPublisher(logger)
	}
	h := &SaveEntryHandler{
		repo:      repo,
		analyzer:  analyzer,
		streaks:   streaks,
		cache:     cache,
		publisher: publisher,
		timeout:   DefaultAnalysisTimeout,
		clock:     time.Now,
		metrics:   observability.NoopMetrics{},
		logger:    logger,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Handle executes the save entry command.
func (h *SaveEntryHandler) Handle(ctx context.Context, cmd SaveEntryCommand) (*SaveEntryResult, error) {
	if strings.TrimSpace(cmd.Text) == "" {
		return nil, shareddomain.NewValidationError("text", "entry text cannot be empty")
	}

	at := h.entryTime(cmd.Datetime)
	analysis := h.analyze(ctx, cmd.Text)

	entry, err := domain.NewJournalEntry(cmd.UserID, cmd.Text, cmd.Mood, cmd.Prompt, at, analysis)
	if err != nil {
		return nil, err
	}

	if _, err := h.repo.Insert(ctx, entry); err != nil {
		return nil, fmt.Errorf("failed to save entry: %w", err)
	}
	h.metrics.Counter(observability.MetricEntriesSaved, 1,
		observability.T("analysis", string(entry.Analysis.Status)))

	// Invalidate before publishing so a subscriber warming the cache from
	// the created event is not undone.
	if h.cache != nil {
		if err := h.cache.Invalidate(ctx, entry.UserID); err != nil {
			h.logger.Warn("failed to invalidate insights cache", "user_id", entry.UserID, "error", err)
		}
	}
	h.publish(ctx, entry)

	streak, err := h.streaks.Streak(ctx, entry.UserID)
	if err != nil {
		return nil, err
	}
	count, err := h.repo.CountByUser(ctx, entry.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to count entries: %w", err)
	}

	h.logger.Info("journal entry saved",
		"entry_id", entry.Key(),
		"user_id", entry.UserID,
		"mood", entry.Mood,
		"analysis", entry.Analysis.Status,
	)

	return &SaveEntryResult{
		Success:      true,
		SavedEntry:   services.NewEntryView(entry),
		StreakCount:  streak,
		EntriesCount: count,
	}, nil
}

func (h *SaveEntryHandler) entryTime(raw string) time.Time {
	now := h.clock()
	if strings.TrimSpace(raw) == "" {
		return now
	}
	t, err := domain.ParseTimestamp(raw, now.Location())
	if err != nil {
		h.logger.Debug("unparsable entry datetime, using now", "datetime", raw, "error", err)
		return now
	}
	return t
}

// analyze runs the analyzer under the save timeout. Failure or timeout
// yields an unanalyzed result instead of failing the save.
func (h *SaveEntryHandler) analyze(ctx context.Context, text string) domain.Analysis {
	actx, cancel := context.WithTimeout(ctx, h.timeout)
	defer cancel()

	type outcome struct {
		result *analysisservices.TextAnalysis
		err    error
	}
	done := make(chan outcome, 1)
	go func() {
		result, err := h.analyzer.Analyze(actx, text)
		done <- outcome{result: result, err: err}
	}()

	select {
	case o := <-done:
		if o.err == nil && o.result != nil {
			h.metrics.Counter(observability.MetricTextAnalyses, 1)
			return toAnalysis(o.result)
		}
		reason := domain.ReasonError
		if errors.Is(o.err, context.DeadlineExceeded) {
			reason = domain.ReasonTimeout
		}
		return h.fallback(reason, o.err)
	case <-actx.Done():
		return h.fallback(domain.ReasonTimeout, actx.Err())
	}
}

func (h *SaveEntryHandler) fallback(reason string, err error) domain.Analysis {
	h.metrics.Counter(observability.MetricAnalysisFallbacks, 1, observability.T("reason", reason))
	h.logger.Warn("saving entry without analysis", "reason", reason, "error", err)
	return domain.Unanalyzed(reason)
}

func (h *SaveEntryHandler) publish(ctx context.Context, entry *domain.JournalEntry) {
	events := entry.DomainEvents()
	application.ApplyEventMetadata(events, application.NewEventMetadata(ctx, entry.UserID))
	if err := eventbus.PublishEvents(ctx, h.publisher, events...); err != nil {
		h.logger.Warn("failed to publish entry events", "entry_id", entry.Key(), "error", err)
	} else {
		h.metrics.Counter(observability.MetricEventsPublished, int64(len(events)))
	}
	entry.ClearDomainEvents()
}

func toAnalysis(r *analysisservices.TextAnalysis) domain.Analysis {
	return domain.Analyzed(domain.Analysis{
		Summary:             r.Summary,
		DominantMood:        r.DominantMood,
		MoodScores:          r.MoodScores,
		Keywords:            r.Keywords,
		Suggestion:          r.Suggestion,
		SentimentScore:      r.SentimentScore,
		EmotionDistribution: r.EmotionDistribution,
	})
}
