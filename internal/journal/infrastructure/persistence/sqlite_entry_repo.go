package persistence

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/felixgeelhaar/moodsphere/internal/journal/domain"
	"github.com/felixgeelhaar/moodsphere/internal/shared/infrastructure/database"
)

// SQLiteEntryRepository implements domain.EntryRepository using SQLite.
// JSON-valued analysis fields are stored as text.
type SQLiteEntryRepository struct {
	conn database.Executor
}

// NewSQLiteEntryRepository creates a new SQLite entry repository.
func NewSQLiteEntryRepository(conn database.Executor) *SQLiteEntryRepository {
	return &SQLiteEntryRepository{conn: conn}
}

// Insert persists a new entry.
func (r *SQLiteEntryRepository) Insert(ctx context.Context, entry *domain.JournalEntry) (string, error) {
	rec := recordFromEntry(entry)

	moodScores, err := marshalJSON(rec.MoodScores)
	if err != nil {
		return "", fmt.Errorf("failed to encode mood scores: %w", err)
	}
	keywords, err := marshalJSON(rec.Keywords)
	if err != nil {
		return "", fmt.Errorf("failed to encode keywords: %w", err)
	}
	distribution, err := marshalJSON(rec.EmotionDistribution)
	if err != nil {
		return "", fmt.Errorf("failed to encode emotion distribution: %w", err)
	}

	_, err = r.conn.Exec(ctx, `
		INSERT INTO journal_entries (`+entryColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.UserID, rec.Text, rec.Mood, rec.Prompt, rec.Datetime,
		rec.AnalysisStatus, rec.AnalysisReason, rec.Summary, rec.DominantMood,
		moodScores, keywords, rec.Suggestion, rec.SentimentScore, distribution,
		rec.CreatedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return "", fmt.Errorf("failed to insert entry: %w", err)
	}
	return rec.ID, nil
}

// FindByUser returns a user's entries matching filter.
func (r *SQLiteEntryRepository) FindByUser(ctx context.Context, userID string, filter domain.EntryFilter) ([]*domain.JournalEntry, error) {
	var (
		where = []string{"user_id = ?"}
		args  = []any{userID}
	)
	if filter.Since != nil {
		where = append(where, "datetime >= ?")
		args = append(args, domain.FormatTimestamp(*filter.Since))
	}
	if filter.Search != "" {
		where = append(where, `LOWER(text) LIKE ? ESCAPE '\'`)
		args = append(args, likePattern(filter.Search))
	}

	order := "DESC"
	if filter.Ascending {
		order = "ASC"
	}

	query := "SELECT " + entryColumns + " FROM journal_entries WHERE " +
		strings.Join(where, " AND ") + " ORDER BY datetime " + order
	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
	}

	rows, err := r.conn.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query entries: %w", err)
	}
	defer rows.Close()

	var entries []*domain.JournalEntry
	for rows.Next() {
		entry, err := r.scan(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

// CountByUser returns the number of entries a user has.
func (r *SQLiteEntryRepository) CountByUser(ctx context.Context, userID string) (int, error) {
	var count int
	err := r.conn.QueryRow(ctx,
		"SELECT COUNT(*) FROM journal_entries WHERE user_id = ?", userID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count entries: %w", err)
	}
	return count, nil
}

// DeleteByID removes the entry with the given id and returns its owner.
func (r *SQLiteEntryRepository) DeleteByID(ctx context.Context, id string) (string, bool, error) {
	var userID string
	err := r.conn.QueryRow(ctx,
		"DELETE FROM journal_entries WHERE id = ? RETURNING user_id", id,
	).Scan(&userID)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to delete entry: %w", err)
	}
	return userID, true, nil
}

func (r *SQLiteEntryRepository) scan(row database.Row) (*domain.JournalEntry, error) {
	var rec entryRecord
	var moodScores, keywords, distribution, createdAt string
	err := row.Scan(
		&rec.ID, &rec.UserID, &rec.Text, &rec.Mood, &rec.Prompt, &rec.Datetime,
		&rec.AnalysisStatus, &rec.AnalysisReason, &rec.Summary, &rec.DominantMood,
		&moodScores, &keywords, &rec.Suggestion, &rec.SentimentScore, &distribution,
		&createdAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to scan entry: %w", err)
	}

	if err := unmarshalJSON(moodScores, &rec.MoodScores); err != nil {
		return nil, fmt.Errorf("invalid mood scores for entry %s: %w", rec.ID, err)
	}
	if err := unmarshalJSON(keywords, &rec.Keywords); err != nil {
		return nil, fmt.Errorf("invalid keywords for entry %s: %w", rec.ID, err)
	}
	if err := unmarshalJSON(distribution, &rec.EmotionDistribution); err != nil {
		return nil, fmt.Errorf("invalid emotion distribution for entry %s: %w", rec.ID, err)
	}
	if rec.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt); err != nil {
		return nil, fmt.Errorf("invalid created_at for entry %s: %w", rec.ID, err)
	}

	return rec.toEntry()
}
