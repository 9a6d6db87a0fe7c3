package service

import (
	"time"

	"github.com/google/uuid"

	"github.com/lookman/lending-engine/internal/domain"
	"github.com/lookman/lending-engine/pkg/utils"
)

// Clock supplies the business date. Injected so status derivation and the
// sweep are testable against fixed dates.
type Clock interface {
	Today() time.Time
}

type realClock struct{}

func (realClock) Today() time.Time {
	return utils.Truncate(time.Now())
}

func NewClock() Clock {
	return realClock{}
}

// Actor is the identity performing an operation. Officers only reach their
// own borrowers and loans; admins see everything.
type Actor struct {
	ID   uuid.UUID
	Role domain.UserRole
}

func (a Actor) IsAdmin() bool {
	return a.Role == domain.RoleAdmin
}
