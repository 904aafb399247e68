package persistence

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/felixgeelhaar/moodsphere/internal/journal/domain"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// mongoEntry is the document shape of the journals collection. Older
// documents carry an ObjectID key and may lack the analysis status fields.
type mongoEntry struct {
	ID                  any                `bson:"_id"`
	UserID              string             `bson:"user_id"`
	Text                string             `bson:"text"`
	Mood                string             `bson:"mood"`
	Prompt              string             `bson:"prompt"`
	Datetime            string             `bson:"datetime"`
	AnalysisStatus      string             `bson:"analysis_status,omitempty"`
	AnalysisReason      string             `bson:"analysis_reason,omitempty"`
	Summary             string             `bson:"ai_summary"`
	DominantMood        string             `bson:"dominant_mood"`
	MoodScores          map[string]float64 `bson:"mood_scores"`
	Keywords            []string           `bson:"keywords"`
	Suggestion          string             `bson:"suggestion"`
	SentimentScore      float64            `bson:"sentiment_score"`
	EmotionDistribution map[string]float64 `bson:"emotion_distribution"`
	CreatedAt           time.Time          `bson:"created_at"`
}

// MongoEntryRepository implements domain.EntryRepository over a MongoDB
// collection.
type MongoEntryRepository struct {
	collection *mongo.Collection
}

// NewMongoEntryRepository creates a repository over collection.
func NewMongoEntryRepository(collection *mongo.Collection) *MongoEntryRepository {
	return &MongoEntryRepository{collection: collection}
}

// ConnectMongo opens a client and verifies the primary is reachable.
func ConnectMongo(ctx context.Context, uri string) (*mongo.Client, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}
	return client, nil
}

// EnsureIndexes creates the user/datetime index used by FindByUser.
func (r *MongoEntryRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "datetime", Value: -1}},
	})
	return err
}

// Insert persists a new entry.
func (r *MongoEntryRepository) Insert(ctx context.Context, entry *domain.JournalEntry) (string, error) {
	rec := recordFromEntry(entry)
	doc := mongoEntry{
		ID:                  rec.ID,
		UserID:              rec.UserID,
		Text:                rec.Text,
		Mood:                rec.Mood,
		Prompt:              rec.Prompt,
		Datetime:            rec.Datetime,
		AnalysisStatus:      rec.AnalysisStatus,
		AnalysisReason:      rec.AnalysisReason,
		Summary:             rec.Summary,
		DominantMood:        rec.DominantMood,
		MoodScores:          rec.MoodScores,
		Keywords:            rec.Keywords,
		Suggestion:          rec.Suggestion,
		SentimentScore:      rec.SentimentScore,
		EmotionDistribution: rec.EmotionDistribution,
		CreatedAt:           rec.CreatedAt,
	}

	if _, err := r.collection.InsertOne(ctx, doc); err != nil {
		return "", fmt.Errorf("failed to insert entry: %w", err)
	}
	return rec.ID, nil
}

// FindByUser returns a user's entries matching filter.
func (r *MongoEntryRepository) FindByUser(ctx context.Context, userID string, filter domain.EntryFilter) ([]*domain.JournalEntry, error) {
	query := bson.M{"user_id": userID}
	if filter.Since != nil {
		query["datetime"] = bson.M{"$gte": domain.FormatTimestamp(*filter.Since)}
	}
	if filter.Search != "" {
		query["text"] = bson.M{"$regex": regexp.QuoteMeta(filter.Search), "$options": "i"}
	}

	direction := -1
	if filter.Ascending {
		direction = 1
	}
	opts := options.Find().SetSort(bson.D{{Key: "datetime", Value: direction}})
	if filter.Limit > 0 {
		opts.SetLimit(int64(filter.Limit))
	}

	cursor, err := r.collection.Find(ctx, query, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query entries: %w", err)
	}
	defer cursor.Close(ctx)

	var entries []*domain.JournalEntry
	for cursor.Next(ctx) {
		var doc mongoEntry
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("failed to decode entry: %w", err)
		}
		entry, err := doc.toEntry()
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, cursor.Err()
}

// CountByUser returns the number of entries a user has.
func (r *MongoEntryRepository) CountByUser(ctx context.Context, userID string) (int, error) {
	n, err := r.collection.CountDocuments(ctx, bson.M{"user_id": userID})
	if err != nil {
		return 0, fmt.Errorf("failed to count entries: %w", err)
	}
	return int(n), nil
}

// DeleteByID removes the entry stored under id, trying the string key
// first and then an ObjectID key.
func (r *MongoEntryRepository) DeleteByID(ctx context.Context, id string) (string, bool, error) {
	userID, deleted, err := r.deleteOne(ctx, bson.M{"_id": id})
	if err != nil || deleted {
		return userID, deleted, err
	}

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return "", false, nil
	}
	return r.deleteOne(ctx, bson.M{"_id": oid})
}

func (r *MongoEntryRepository) deleteOne(ctx context.Context, filter bson.M) (string, bool, error) {
	opts := options.FindOneAndDelete().SetProjection(bson.M{"user_id": 1})

	var owner struct {
		UserID string `bson:"user_id"`
	}
	err := r.collection.FindOneAndDelete(ctx, filter, opts).Decode(&owner)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to delete entry: %w", err)
	}
	return owner.UserID, true, nil
}

func (d mongoEntry) toEntry() (*domain.JournalEntry, error) {
	rec := entryRecord{
		UserID:              d.UserID,
		Text:                d.Text,
		Mood:                d.Mood,
		Prompt:              d.Prompt,
		Datetime:            d.Datetime,
		AnalysisStatus:      d.AnalysisStatus,
		AnalysisReason:      d.AnalysisReason,
		Summary:             d.Summary,
		DominantMood:        d.DominantMood,
		MoodScores:          d.MoodScores,
		Keywords:            d.Keywords,
		Suggestion:          d.Suggestion,
		SentimentScore:      d.SentimentScore,
		EmotionDistribution: d.EmotionDistribution,
		CreatedAt:           d.CreatedAt,
	}

	var legacyID string
	switch id := d.ID.(type) {
	case string:
		if _, err := uuid.Parse(id); err == nil {
			rec.ID = id
		} else {
			legacyID = id
		}
	case primitive.ObjectID:
		legacyID = id.Hex()
	default:
		return nil, errors.New("entry has unsupported _id type")
	}

	if legacyID != "" {
		rec.ID = uuid.NewSHA1(uuid.NameSpaceOID, []byte(legacyID)).String()
	}

	entry, err := rec.toEntry()
	if err != nil {
		return nil, err
	}
	entry.LegacyID = legacyID
	return entry, nil
}
