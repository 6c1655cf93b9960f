package shared

// AggregateRoot is implemented by entities that own a consistency
// boundary. It layers optimistic-lock versioning and domain event
// collection on top of the plain Entity contract.
type AggregateRoot interface {
	Entity
	GetVersion() int
	IncrementVersion()
	AddDomainEvent(event DomainEvent)
	GetDomainEvents() []DomainEvent
	ClearDomainEvents()
}

// BaseAggregateRoot is the embeddable implementation of AggregateRoot.
// Events accumulate in memory until the application layer publishes
// them after a successful save and clears the queue.
type BaseAggregateRoot struct {
	BaseEntity
	Version int           `gorm:"not null;default:1"`
	events  []DomainEvent `gorm:"-"`
}

var _ AggregateRoot = (*BaseAggregateRoot)(nil)

// NewBaseAggregateRoot returns a fresh aggregate root at version 1 with
// no pending events.
func NewBaseAggregateRoot() BaseAggregateRoot {
	return BaseAggregateRoot{
		BaseEntity: NewBaseEntity(),
		Version:    1,
	}
}

// GetVersion returns the version used for optimistic locking.
func (a *BaseAggregateRoot) GetVersion() int { return a.Version }

// IncrementVersion bumps the optimistic-lock version. Aggregates call
// it from every state-changing method.
func (a *BaseAggregateRoot) IncrementVersion() { a.Version++ }

// AddDomainEvent queues an event for publication.
func (a *BaseAggregateRoot) AddDomainEvent(event DomainEvent) {
	a.events = append(a.events, event)
}

// GetDomainEvents returns the events queued since the last clear.
func (a *BaseAggregateRoot) GetDomainEvents() []DomainEvent { return a.events }

// ClearDomainEvents drops all queued events.
func (a *BaseAggregateRoot) ClearDomainEvents() { a.events = nil }
