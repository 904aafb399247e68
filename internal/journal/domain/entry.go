package domain

import (
	"strings"
	"time"

	analysisdomain "github.com/felixgeelhaar/moodsphere/internal/analysis/domain"
	"github.com/felixgeelhaar/moodsphere/internal/shared/domain"
	"github.com/google/uuid"
)

// DefaultUserID owns entries saved without an explicit user.
const DefaultUserID = "default_user"

// AnalysisStatus distinguishes analyzed entries from ones saved without
// analysis.
type AnalysisStatus string

const (
	AnalysisAnalyzed   AnalysisStatus = "analyzed"
	AnalysisUnanalyzed AnalysisStatus = "unanalyzed"
)

// Reasons an entry was saved without analysis.
const (
	ReasonTimeout = "timeout"
	ReasonError   = "error"
)

// Analysis is the text analysis attached to an entry. Unanalyzed entries
// carry only a reason; every other field is zero.
type Analysis struct {
	Status              AnalysisStatus
	Reason              string
	Summary             string
	DominantMood        string
	MoodScores          map[string]float64
	Keywords            []string
	Suggestion          string
	SentimentScore      float64
	EmotionDistribution map[string]float64
}

// Analyzed marks a as a completed analysis.
func Analyzed(a Analysis) Analysis {
	a.Status = AnalysisAnalyzed
	a.Reason = ""
	return a
}

// Unanalyzed creates the analysis variant for an entry saved without one.
func Unanalyzed(reason string) Analysis {
	return Analysis{Status: AnalysisUnanalyzed, Reason: reason}
}

// IsAnalyzed reports whether analysis completed for the entry.
func (a Analysis) IsAnalyzed() bool {
	return a.Status == AnalysisAnalyzed
}

// JournalEntry is a single journal entry owned by a user.
// Entries are immutable once created; they can only be deleted.
type JournalEntry struct {
	domain.BaseAggregateRoot
	UserID string
	Text   string
	Mood   string
	Prompt string
	// Timestamp is the ISO-8601 logical time of the entry as stored.
	Timestamp string
	Analysis  Analysis
	// LegacyID is the store key of entries written before ids were UUIDs.
	LegacyID string
}

// NewJournalEntry validates input and creates an entry.
//
// An explicit mood wins over the analyzed dominant mood; without either the
// entry is neutral.
func NewJournalEntry(userID, text, mood, prompt string, at time.Time, analysis Analysis) (*JournalEntry, error) {
	if strings.TrimSpace(text) == "" {
		return nil, domain.NewValidationError("text", "entry text cannot be empty")
	}
	userID = strings.TrimSpace(userID)
	if userID == "" {
		userID = DefaultUserID
	}

	mood = strings.ToLower(strings.TrimSpace(mood))
	switch {
	case mood != "":
		if !analysisdomain.IsValidMood(mood) {
			return nil, domain.NewValidationError("mood", "unknown mood "+mood)
		}
	case analysis.IsAnalyzed() && analysis.DominantMood != "":
		mood = analysis.DominantMood
	default:
		mood = string(analysisdomain.MoodNeutral)
	}

	entry := &JournalEntry{
		BaseAggregateRoot: domain.NewBaseAggregateRoot(),
		UserID:            userID,
		Text:              text,
		Mood:              mood,
		Prompt:            prompt,
		Timestamp:         FormatTimestamp(at),
		Analysis:          analysis,
	}

	entry.AddDomainEvent(NewEntryCreatedEvent(entry))

	return entry, nil
}

// RehydrateJournalEntry recreates an entry from persisted state.
func RehydrateJournalEntry(
	id uuid.UUID,
	userID, text, mood, prompt, timestamp string,
	analysis Analysis,
	createdAt time.Time,
) *JournalEntry {
	return &JournalEntry{
		BaseAggregateRoot: domain.RehydrateBaseAggregateRoot(id, createdAt),
		UserID:            userID,
		Text:              text,
		Mood:              mood,
		Prompt:            prompt,
		Timestamp:         timestamp,
		Analysis:          analysis,
	}
}

// Key returns the identifier the entry is stored and deleted under.
func (e *JournalEntry) Key() string {
	if e.LegacyID != "" {
		return e.LegacyID
	}
	return e.ID().String()
}

// Time parses the entry timestamp, interpreting offset-less values in loc.
func (e *JournalEntry) Time(loc *time.Location) (time.Time, error) {
	return ParseTimestamp(e.Timestamp, loc)
}

// MoodEmoji returns the display emoji for the entry mood.
func (e *JournalEntry) MoodEmoji() string {
	return analysisdomain.Mood(e.Mood).Emoji()
}

// TrendScore is the entry's contribution to a mood trend: the stored score
// for its dominant mood (0.5 when missing), or the sentiment rescaled to
// [0, 1] when no mood scores were stored.
func (e *JournalEntry) TrendScore() float64 {
	a := e.Analysis
	if len(a.MoodScores) > 0 {
		dominant := a.DominantMood
		if dominant == "" {
			dominant = string(analysisdomain.MoodNeutral)
		}
		if score, ok := a.MoodScores[dominant]; ok {
			return score
		}
		return 0.5
	}
	return (a.SentimentScore + 1) / 2
}
