package persistence

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/felixgeelhaar/moodsphere/internal/journal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const postgresSelectColumns = `id::text, user_id, text, mood, prompt, datetime, analysis_status, analysis_reason,
	ai_summary, dominant_mood, mood_scores, keywords, suggestion, sentiment_score,
	emotion_distribution, created_at`

// PostgresEntryRepository implements domain.EntryRepository using PostgreSQL.
// Scores are JSONB columns and keywords a text array.
type PostgresEntryRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresEntryRepository creates a new PostgreSQL entry repository.
func NewPostgresEntryRepository(pool *pgxpool.Pool) *PostgresEntryRepository {
	return &PostgresEntryRepository{pool: pool}
}

// Insert persists a new entry.
func (r *PostgresEntryRepository) Insert(ctx context.Context, entry *domain.JournalEntry) (string, error) {
	rec := recordFromEntry(entry)

	_, err := r.pool.Exec(ctx, `
		INSERT INTO journal_entries (`+entryColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`,
		entry.ID(), rec.UserID, rec.Text, rec.Mood, rec.Prompt, rec.Datetime,
		rec.AnalysisStatus, rec.AnalysisReason, rec.Summary, rec.DominantMood,
		rec.MoodScores, rec.Keywords, rec.Suggestion, rec.SentimentScore, rec.EmotionDistribution,
		rec.CreatedAt,
	)
	if err != nil {
		return "", fmt.Errorf("failed to insert entry: %w", err)
	}
	return rec.ID, nil
}

// FindByUser returns a user's entries matching filter.
func (r *PostgresEntryRepository) FindByUser(ctx context.Context, userID string, filter domain.EntryFilter) ([]*domain.JournalEntry, error) {
	var (
		where = []string{"user_id = $1"}
		args  = []any{userID}
	)
	next := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if filter.Since != nil {
		where = append(where, "datetime >= "+next(domain.FormatTimestamp(*filter.Since)))
	}
	if filter.Search != "" {
		where = append(where, "LOWER(text) LIKE "+next(likePattern(filter.Search))+` ESCAPE '\'`)
	}

	order := "DESC"
	if filter.Ascending {
		order = "ASC"
	}

	query := "SELECT " + postgresSelectColumns + " FROM journal_entries WHERE " +
		strings.Join(where, " AND ") + " ORDER BY datetime " + order
	if filter.Limit > 0 {
		query += " LIMIT " + next(filter.Limit)
	}

	rows, err := r.pool.Query(ctx, query, args...)
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
func (r *PostgresEntryRepository) CountByUser(ctx context.Context, userID string) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx,
		"SELECT COUNT(*) FROM journal_entries WHERE user_id = $1", userID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count entries: %w", err)
	}
	return count, nil
}

// DeleteByID removes the entry with the given id. Ids that are not UUIDs
// cannot exist in this store.
func (r *PostgresEntryRepository) DeleteByID(ctx context.Context, id string) (string, bool, error) {
	entryID, err := uuid.Parse(id)
	if err != nil {
		return "", false, nil
	}

	var userID string
	err = r.pool.QueryRow(ctx,
		"DELETE FROM journal_entries WHERE id = $1 RETURNING user_id", entryID,
	).Scan(&userID)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to delete entry: %w", err)
	}
	return userID, true, nil
}

func (r *PostgresEntryRepository) scan(row pgx.Row) (*domain.JournalEntry, error) {
	var rec entryRecord
	err := row.Scan(
		&rec.ID, &rec.UserID, &rec.Text, &rec.Mood, &rec.Prompt, &rec.Datetime,
		&rec.AnalysisStatus, &rec.AnalysisReason, &rec.Summary, &rec.DominantMood,
		&rec.MoodScores, &rec.Keywords, &rec.Suggestion, &rec.SentimentScore, &rec.EmotionDistribution,
		&rec.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to scan entry: %w", err)
	}
	return rec.toEntry()
}
