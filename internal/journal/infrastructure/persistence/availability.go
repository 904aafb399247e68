package persistence

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"net"
	"strings"
	"syscall"

	"github.com/felixgeelhaar/moodsphere/internal/journal/domain"
	shareddomain "github.com/felixgeelhaar/moodsphere/internal/shared/domain"
	"github.com/jackc/pgx/v5/pgconn"
	"go.mongodb.org/mongo-driver/mongo"
)

// errDatabaseClosed matches database/sql's unexported closed-pool error.
const errDatabaseClosed = "sql: database is closed"

// IsStoreUnavailable reports whether err means the backing store could not
// be reached, as opposed to a bad query or bad data.
func IsStoreUnavailable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, shareddomain.ErrUpstreamUnavailable) {
		return true
	}
	if errors.Is(err, sql.ErrConnDone) || errors.Is(err, driver.ErrBadConn) {
		return true
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	if errors.Is(err, syscall.ECONNREFUSED) || errors.Is(err, syscall.ECONNRESET) {
		return true
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	var connectErr *pgconn.ConnectError
	if errors.As(err, &connectErr) || pgconn.Timeout(err) {
		return true
	}
	if mongo.IsNetworkError(err) || mongo.IsTimeout(err) || errors.Is(err, mongo.ErrClientDisconnected) {
		return true
	}

	return strings.Contains(err.Error(), errDatabaseClosed)
}

// markUnavailable tags store outages with ErrUpstreamUnavailable and leaves
// every other error untouched.
func markUnavailable(err error) error {
	if err == nil || errors.Is(err, shareddomain.ErrUpstreamUnavailable) || !IsStoreUnavailable(err) {
		return err
	}
	return fmt.Errorf("entry store: %w: %w", shareddomain.ErrUpstreamUnavailable, err)
}

// availabilityRepository wraps a store so callers can tell an outage apart
// from other failures.
type availabilityRepository struct {
	next domain.EntryRepository
}

// withAvailability decorates repo with outage classification.
func withAvailability(repo domain.EntryRepository) domain.EntryRepository {
	return &availabilityRepository{next: repo}
}

func (r *availabilityRepository) Insert(ctx context.Context, entry *domain.JournalEntry) (string, error) {
	id, err := r.next.Insert(ctx, entry)
	return id, markUnavailable(err)
}

func (r *availabilityRepository) FindByUser(ctx context.Context, userID string, filter domain.EntryFilter) ([]*domain.JournalEntry, error) {
	entries, err := r.next.FindByUser(ctx, userID, filter)
	return entries, markUnavailable(err)
}

func (r *availabilityRepository) CountByUser(ctx context.Context, userID string) (int, error) {
	count, err := r.next.CountByUser(ctx, userID)
	return count, markUnavailable(err)
}

func (r *availabilityRepository) DeleteByID(ctx context.Context, id string) (string, bool, error) {
	userID, deleted, err := r.next.DeleteByID(ctx, id)
	return userID, deleted, markUnavailable(err)
}
