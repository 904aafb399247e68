package domain

import (
	"time"

	"github.com/google/uuid"
)

// AggregateRoot is the root entity of an aggregate that records domain events.
type AggregateRoot interface {
	ID() uuid.UUID
	CreatedAt() time.Time
	DomainEvents() []DomainEvent
	ClearDomainEvents()
}

// BaseAggregateRoot provides identity, creation time and event recording.
type BaseAggregateRoot struct {
	id           uuid.UUID
	createdAt    time.Time
	domainEvents []DomainEvent
}

// NewBaseAggregateRoot creates an aggregate root with a generated ID.
func NewBaseAggregateRoot() BaseAggregateRoot {
	return BaseAggregateRoot{
		id:        uuid.New(),
		createdAt: time.Now().UTC(),
	}
}

// RehydrateBaseAggregateRoot recreates an aggregate root from persisted state.
func RehydrateBaseAggregateRoot(id uuid.UUID, createdAt time.Time) BaseAggregateRoot {
	return BaseAggregateRoot{id: id, createdAt: createdAt}
}

func (a *BaseAggregateRoot) ID() uuid.UUID        { return a.id }
func (a *BaseAggregateRoot) CreatedAt() time.Time { return a.createdAt }

// DomainEvents returns all unpublished domain events.
func (a *BaseAggregateRoot) DomainEvents() []DomainEvent {
	return a.domainEvents
}

// ClearDomainEvents drops the recorded events once they are published.
func (a *BaseAggregateRoot) ClearDomainEvents() {
	a.domainEvents = nil
}

// AddDomainEvent records a domain event.
func (a *BaseAggregateRoot) AddDomainEvent(event DomainEvent) {
	a.domainEvents = append(a.domainEvents, event)
}
