package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	analysisCommands "github.com/felixgeelhaar/moodsphere/internal/analysis/application/commands"
	"github.com/felixgeelhaar/moodsphere/internal/analysis/domain"
	"github.com/felixgeelhaar/moodsphere/internal/app"
	"github.com/felixgeelhaar/moodsphere/internal/journal/application/queries"
	"github.com/felixgeelhaar/moodsphere/internal/journal/application/services"
	"github.com/felixgeelhaar/moodsphere/internal/journal/infrastructure/persistence"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// modelFunc adapts a function to analysisCommands.ModelCaller.
type modelFunc func(ctx context.Context, body, out any) error

func (f modelFunc) Post(ctx context.Context, body, out any) error { return f(ctx, body, out) }

func jsonModel(raw string) modelFunc {
	return func(_ context.Context, _, out any) error {
		return json.Unmarshal([]byte(raw), out)
	}
}

var testNow = time.Date(2024, 3, 10, 20, 0, 0, 0, time.UTC)

func newTestServer(t *testing.T) (*Server, *app.Container) {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	c := app.NewInMemoryContainer(nil, logger, func() time.Time { return testNow })
	t.Cleanup(c.Close)

	journal := NewJournalHandler(JournalHandlerConfig{
		SaveEntry:     c.SaveEntryHandler,
		DeleteEntry:   c.DeleteEntryHandler,
		ListEntries:   c.ListEntriesHandler,
		GetInsights:   c.GetInsightsHandler,
		GetStreak:     c.GetStreakHandler,
		Analyzer:      c.TextAnalyzer,
		DefaultUserID: c.UserID(),
		Logger:        logger,
	})
	analysis := NewAnalysisHandler(c.TextAnalyzer, c.AnalyzeFaceHandler, c.AnalyzeSpeechHandler, logger)

	return NewServer(DefaultServerConfig(), journal, analysis, c.Health, logger), c
}

func do(t *testing.T, s *Server, method, target string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, target, reader)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func TestHealth(t *testing.T) {
	s, _ := newTestServer(t)

	rec := do(t, s, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, map[string]any{"status": "ok", "service": "journal_api"}, decode(t, rec))
	assert.NotEmpty(t, rec.Header().Get(RequestIDHeader))

	rec = do(t, s, http.MethodGet, "/readyz", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequestIDIsEchoed(t *testing.T) {
	s, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(RequestIDHeader, "req-123")
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	assert.Equal(t, "req-123", rec.Header().Get(RequestIDHeader))
}

func TestGetPrompt(t *testing.T) {
	s, _ := newTestServer(t)

	rec := do(t, s, http.MethodGet, "/journal/prompts", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, domain.Prompts, decode(t, rec)["prompt"])
}

func TestAnalyzeText(t *testing.T) {
	s, _ := newTestServer(t)

	rec := do(t, s, http.MethodPost, "/journal/analyze", map[string]string{"text": "I am so happy and grateful today"})
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, "happy", body["dominant_mood"])
	assert.Contains(t, body, "ai_summary")
	assert.Contains(t, body, "emotion_distribution")

	rec = do(t, s, http.MethodPost, "/journal/analyze", map[string]string{"text": "  "})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Bad Request", decode(t, rec)["error"])
}

func TestSaveListInsightsDelete(t *testing.T) {
	s, _ := newTestServer(t)

	rec := do(t, s, http.MethodPost, "/journal/entry?user_id=alice", map[string]string{
		"text":     "A happy sunny walk with friends",
		"datetime": "not a date",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	saved := decode(t, rec)
	assert.Equal(t, true, saved["success"])
	assert.Equal(t, float64(1), saved["streak_count"])
	assert.Equal(t, float64(1), saved["entries_count"])

	entry := saved["saved_entry"].(map[string]any)
	id := entry["_id"].(string)
	assert.Equal(t, "alice", entry["user_id"])
	assert.Equal(t, "analyzed", entry["analysis_status"])

	rec = do(t, s, http.MethodGet, "/journal/entries?user_id=alice&range=7d", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	listed := decode(t, rec)
	assert.Len(t, listed["entries"], 1)
	assert.Equal(t, float64(1), listed["entries_count"])

	rec = do(t, s, http.MethodGet, "/journal/entries?user_id=bob", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decode(t, rec)["entries"])

	rec = do(t, s, http.MethodGet, "/journal/insights?user_id=alice", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	insights := decode(t, rec)
	assert.Equal(t, []any{"03/10"}, insights["dates"])
	assert.Len(t, insights["scores"], 1)
	assert.NotEmpty(t, insights["keywords"])

	rec = do(t, s, http.MethodGet, "/journal/streak?user_id=alice", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(1), decode(t, rec)["streak_count"])

	rec = do(t, s, http.MethodDelete, "/journal/entry/"+id+"?user_id=alice", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Entry deleted successfully", decode(t, rec)["message"])

	rec = do(t, s, http.MethodDelete, "/journal/entry/"+id, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDeleteWithoutUserRefreshesOwnersInsights(t *testing.T) {
	s, _ := newTestServer(t)

	var ids []string
	for _, at := range []string{"2024-03-09T10:00:00Z", "2024-03-10T10:00:00Z"} {
		rec := do(t, s, http.MethodPost, "/journal/entry?user_id=alice", map[string]string{
			"text":     "A calm and happy afternoon",
			"datetime": at,
		})
		require.Equal(t, http.StatusOK, rec.Code)
		ids = append(ids, decode(t, rec)["saved_entry"].(map[string]any)["_id"].(string))
	}

	rec := do(t, s, http.MethodGet, "/journal/insights?user_id=alice", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, decode(t, rec)["dates"], 2)

	rec = do(t, s, http.MethodDelete, "/journal/entry/"+ids[0], nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, s, http.MethodGet, "/journal/insights?user_id=alice", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []any{"03/10"}, decode(t, rec)["dates"])
}

func TestStoreOutageIsServiceUnavailable(t *testing.T) {
	s, _ := newTestServer(t)
	ctx := context.Background()

	store, err := persistence.OpenEntryStore(ctx, persistence.StoreConfig{
		Driver:      "sqlite",
		SQLitePath:  ":memory:",
		AutoMigrate: true,
	}, nil)
	require.NoError(t, err)
	require.NoError(t, store.Close(ctx))

	clock := func() time.Time { return testNow }
	s.journal.listEntries = queries.NewListEntriesHandler(
		store.Repository, services.NewStreakCalculator(store.Repository, clock), clock)

	rec := do(t, s, http.MethodGet, "/journal/entries?user_id=alice", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, "upstream service unavailable", body["message"])
	assert.NotContains(t, rec.Body.String(), "sql:")
}

func TestSaveEntry_Validation(t *testing.T) {
	s, _ := newTestServer(t)

	rec := do(t, s, http.MethodPost, "/journal/entry", map[string]string{"text": ""})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, s, http.MethodPost, "/journal/entry", map[string]string{"text": "hello", "mood": "ecstatic"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	req := httptest.NewRequest(http.MethodPost, "/journal/entry", bytes.NewBufferString("{not json"))
	raw := httptest.NewRecorder()
	s.Handler().ServeHTTP(raw, req)
	assert.Equal(t, http.StatusBadRequest, raw.Code)
}

func TestClassifyText(t *testing.T) {
	s, _ := newTestServer(t)

	rec := do(t, s, http.MethodPost, "/analyze", map[string]string{"text": "I am furious and angry"})
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, "anger", body["emotion"])
	assert.Contains(t, body, "emotion_distribution")
}

func TestAnalyzeFace(t *testing.T) {
	s, _ := newTestServer(t)

	t.Run("missing image", func(t *testing.T) {
		rec := do(t, s, http.MethodPost, "/analyze_face", map[string]string{})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("model not configured", func(t *testing.T) {
		rec := do(t, s, http.MethodPost, "/analyze_face", map[string]string{"image": "AAA"})
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	})

	t.Run("success", func(t *testing.T) {
		s.analysis.analyzeFace = analysisCommands.NewAnalyzeFaceHandler(
			jsonModel(`{"dominant_emotion":"Happy"}`), domain.NewSeededPicker(3))

		rec := do(t, s, http.MethodPost, "/analyze_face", map[string]string{"image": "AAA"})
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "happy", decode(t, rec)["emotion"])
	})
}

func TestAnalyzeSpeech(t *testing.T) {
	s, _ := newTestServer(t)
	s.analysis.analyzeSpeech = analysisCommands.NewAnalyzeSpeechHandler(
		jsonModel(`{"label":"sad","probabilities":{"sad":0.7,"neutral":0.2,"angry":0.1}}`))

	rec := do(t, s, http.MethodPost, "/analyze_speech", map[string]string{"audio": "UklGRg=="})
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, "success", body["status"])
	assert.Equal(t, "sadness", body["emotion"])
	assert.Equal(t, "sad", body["raw_label"])
	assert.Equal(t, []any{"sad", 0.7}, body["top3"].([]any)[0])

	rec = do(t, s, http.MethodPost, "/analyze_speech", map[string]string{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCORSPreflight(t *testing.T) {
	s, _ := newTestServer(t)

	rec := do(t, s, http.MethodOptions, "/journal/entry", nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}
