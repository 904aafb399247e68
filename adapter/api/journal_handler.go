package api

import (
	"context"
	"log/slog"
	"net/http"

	analysisservices "github.com/felixgeelhaar/moodsphere/internal/analysis/application/services"
	"github.com/felixgeelhaar/moodsphere/internal/journal/application/commands"
	"github.com/felixgeelhaar/moodsphere/internal/journal/application/queries"
	"github.com/felixgeelhaar/moodsphere/internal/journal/domain"
)

// TextAnalyzer analyzes free text and draws writing prompts.
type TextAnalyzer interface {
	Analyze(ctx context.Context, text string) (*analysisservices.TextAnalysis, error)
	ClassifyText(text string) (*analysisservices.Classification, error)
	Prompt() string
}

// JournalHandler handles journal API requests.
type JournalHandler struct {
	saveEntry     *commands.SaveEntryHandler
	deleteEntry   *commands.DeleteEntryHandler
	listEntries   *queries.ListEntriesHandler
	getInsights   *queries.GetInsightsHandler
	getStreak     *queries.GetStreakHandler
	analyzer      TextAnalyzer
	defaultUserID string
	logger        *slog.Logger
}

// JournalHandlerConfig holds dependencies for the journal handler.
type JournalHandlerConfig struct {
	SaveEntry     *commands.SaveEntryHandler
	DeleteEntry   *commands.DeleteEntryHandler
	ListEntries   *queries.ListEntriesHandler
	GetInsights   *queries.GetInsightsHandler
	GetStreak     *queries.GetStreakHandler
	Analyzer      TextAnalyzer
	DefaultUserID string
	Logger        *slog.Logger
}

// NewJournalHandler creates a new journal handler.
func NewJournalHandler(cfg JournalHandlerConfig) *JournalHandler {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.DefaultUserID == "" {
		cfg.DefaultUserID = domain.DefaultUserID
	}
	return &JournalHandler{
		saveEntry:     cfg.SaveEntry,
		deleteEntry:   cfg.DeleteEntry,
		listEntries:   cfg.ListEntries,
		getInsights:   cfg.GetInsights,
		getStreak:     cfg.GetStreak,
		analyzer:      cfg.Analyzer,
		defaultUserID: cfg.DefaultUserID,
		logger:        cfg.Logger,
	}
}

func (h *JournalHandler) userID(r *http.Request) string {
	if id := r.URL.Query().Get("user_id"); id != "" {
		return id
	}
	return h.defaultUserID
}

// GetPrompt handles GET /journal/prompts
func (h *JournalHandler) GetPrompt(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"prompt": h.analyzer.Prompt()})
}

type textRequest struct {
	Text string `json:"text"`
}

// AnalyzeText handles POST /journal/analyze
func (h *JournalHandler) AnalyzeText(w http.ResponseWriter, r *http.Request) {
	var req textRequest
	if err := decodeJSON(r, &req); err != nil {
		writeAppError(w, r, h.logger, err)
		return
	}

	result, err := h.analyzer.Analyze(r.Context(), req.Text)
	if err != nil {
		writeAppError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

type saveEntryRequest struct {
	Text     string `json:"text"`
	Mood     string `json:"mood"`
	Prompt   string `json:"prompt"`
	Datetime string `json:"datetime"`
}

// SaveEntry handles POST /journal/entry
func (h *JournalHandler) SaveEntry(w http.ResponseWriter, r *http.Request) {
	var req saveEntryRequest
	if err := decodeJSON(r, &req); err != nil {
		writeAppError(w, r, h.logger, err)
		return
	}

	result, err := h.saveEntry.Handle(r.Context(), commands.SaveEntryCommand{
		UserID:   h.userID(r),
		Text:     req.Text,
		Mood:     req.Mood,
		Prompt:   req.Prompt,
		Datetime: req.Datetime,
	})
	if err != nil {
		writeAppError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// ListEntries handles GET /journal/entries
func (h *JournalHandler) ListEntries(w http.ResponseWriter, r *http.Request) {
	result, err := h.listEntries.Handle(r.Context(), queries.ListEntriesQuery{
		UserID: h.userID(r),
		Range:  r.URL.Query().Get("range"),
	})
	if err != nil {
		writeAppError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// GetInsights handles GET /journal/insights
func (h *JournalHandler) GetInsights(w http.ResponseWriter, r *http.Request) {
	result, err := h.getInsights.Handle(r.Context(), queries.GetInsightsQuery{
		UserID: h.userID(r),
		Range:  r.URL.Query().Get("range"),
	})
	if err != nil {
		writeAppError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// GetStreak handles GET /journal/streak
func (h *JournalHandler) GetStreak(w http.ResponseWriter, r *http.Request) {
	result, err := h.getStreak.Handle(r.Context(), queries.GetStreakQuery{UserID: h.userID(r)})
	if err != nil {
		writeAppError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// DeleteEntry handles DELETE /journal/entry/{id}
func (h *JournalHandler) DeleteEntry(w http.ResponseWriter, r *http.Request) {
	err := h.deleteEntry.Handle(r.Context(), commands.DeleteEntryCommand{
		EntryID: r.PathValue("id"),
		UserID:  h.userID(r),
	})
	if err != nil {
		writeAppError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Entry deleted successfully"})
}
