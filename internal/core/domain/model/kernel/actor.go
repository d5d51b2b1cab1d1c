package kernel

import (
	"errors"

	"cargo/internal/pkg/errs"
	"cargo/internal/pkg/guard"
)

var ErrActorIsNotConstructed = errors.New("Actor must be created via NewActor or SystemActor")

// Actor is the identity an operation runs for. The system actor drives sweeps,
// queued tasks and gateway callbacks; it holds every capability and has no identity,
// so audit rows record it as null.
type Actor struct {
	id     UUID
	role   Role
	system bool
	guard  guard.ConstructorGuard
}

func NewActor(id UUID, role Role) (Actor, error) {
	if err := errors.Join(id.Validate(), role.Validate()); err != nil {
		return Actor{}, err
	}
	return Actor{id: id, role: role, guard: guard.NewConstructorGuard()}, nil
}

func SystemActor() Actor {
	return Actor{system: true, guard: guard.NewConstructorGuard()}
}

func (a Actor) Validate() error {
	return a.guard.Validate(ErrActorIsNotConstructed)
}

// ID returns nil for the system actor.
func (a Actor) ID() *UUID {
	if a.system {
		return nil
	}
	id := a.id
	return &id
}

func (a Actor) Role() Role {
	return a.role
}

func (a Actor) IsSystem() bool {
	return a.system
}

func (a Actor) Is(role Role) bool {
	return !a.system && a.role == role
}

// IsIdentity reports whether the actor is the agent with the given id.
func (a Actor) IsIdentity(id UUID) bool {
	return !a.system && a.id.IsEqual(id)
}

func (a Actor) Can(c Capability) bool {
	if a.Validate() != nil {
		return false
	}
	return a.system || a.role.Can(c)
}

// Authorize returns an AccessDeniedError when the actor lacks c.
func (a Actor) Authorize(c Capability) error {
	if !a.Can(c) {
		return errs.NewAccessDeniedError(a.String(), c.String())
	}
	return nil
}

func (a Actor) String() string {
	if a.system {
		return "SYSTEM"
	}
	return a.role.String() + ":" + a.id.String()
}
