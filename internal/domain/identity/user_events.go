package identity

import (
	"time"

	"github.com/leaseledger/backend/internal/domain/shared"
)

// Event types raised by the User aggregate.
const (
	AggregateTypeUser = "User"

	EventTypeUserCreated         = "UserCreated"
	EventTypeUserDeactivated     = "UserDeactivated"
	EventTypeUserPasswordChanged = "UserPasswordChanged"
)

func userEvent(eventType string, user *User) shared.BaseDomainEvent {
	return shared.NewBaseDomainEvent(eventType, AggregateTypeUser, user.ID)
}

// UserCreatedEvent is raised when a new account is registered.
type UserCreatedEvent struct {
	shared.BaseDomainEvent
	Username string `json:"username"`
	Role     Role   `json:"role"`
}

func NewUserCreatedEvent(user *User) *UserCreatedEvent {
	e := &UserCreatedEvent{Username: user.Username, Role: user.Role}
	e.BaseDomainEvent = userEvent(EventTypeUserCreated, user)
	return e
}

// UserDeactivatedEvent is raised when an account is soft deleted.
type UserDeactivatedEvent struct {
	shared.BaseDomainEvent
	Username string `json:"username"`
}

func NewUserDeactivatedEvent(user *User) *UserDeactivatedEvent {
	e := &UserDeactivatedEvent{Username: user.Username}
	e.BaseDomainEvent = userEvent(EventTypeUserDeactivated, user)
	return e
}

// UserPasswordChangedEvent is raised on password change so other
// sessions can be revoked.
type UserPasswordChangedEvent struct {
	shared.BaseDomainEvent
	Username  string    `json:"username"`
	ChangedAt time.Time `json:"changed_at"`
}

func NewUserPasswordChangedEvent(user *User) *UserPasswordChangedEvent {
	e := &UserPasswordChangedEvent{Username: user.Username, ChangedAt: time.Now()}
	if user.PasswordChangedAt != nil {
		e.ChangedAt = *user.PasswordChangedAt
	}
	e.BaseDomainEvent = userEvent(EventTypeUserPasswordChanged, user)
	return e
}
