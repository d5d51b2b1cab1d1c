package queries

import (
	"errors"

	"cargo/internal/core/domain/model/kernel"
	"cargo/internal/pkg/errs"
	"cargo/internal/pkg/guard"
)

const (
	DefaultRecentEventsLimit = 200
	MaxRecentEventsLimit     = 1000
)

var ErrGetRecentEventsQueryIsNotConstructed = errors.New(
	"GetRecentEventsQuery must be created via NewGetRecentEventsQuery constructor",
)

// GetRecentEventsQuery returns the newest events across all shipments. A zero limit
// means DefaultRecentEventsLimit.
type GetRecentEventsQuery struct {
	actor kernel.Actor
	limit int

	guard guard.ConstructorGuard
}

func NewGetRecentEventsQuery(actor kernel.Actor, limit int) (GetRecentEventsQuery, error) {
	if err := actor.Validate(); err != nil {
		return GetRecentEventsQuery{}, err
	}
	if limit == 0 {
		limit = DefaultRecentEventsLimit
	}
	if limit < 1 || limit > MaxRecentEventsLimit {
		return GetRecentEventsQuery{}, errs.NewValueIsOutOfRangeError("limit", limit, 1, MaxRecentEventsLimit)
	}

	return GetRecentEventsQuery{
		actor: actor,
		limit: limit,
		guard: guard.NewConstructorGuard(),
	}, nil
}

func (q GetRecentEventsQuery) Validate() error {
	return q.guard.Validate(ErrGetRecentEventsQueryIsNotConstructed)
}

func (q GetRecentEventsQuery) Actor() kernel.Actor {
	return q.actor
}

func (q GetRecentEventsQuery) Limit() int {
	return q.limit
}
