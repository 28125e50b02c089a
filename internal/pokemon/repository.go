package pokemon

import (
	"context"
	"errors"
	"fmt"
)

// ErrEmptyTeam is returned when SaveTeam is called without members.
var ErrEmptyTeam = errors.New("team has no members")

// ErrMixedOwners is returned when SaveTeam receives members owned by different trainers.
var ErrMixedOwners = errors.New("team members belong to different trainers")

// ErrUnknownPokemon is returned when a team references a pokemon id that does not exist.
var ErrUnknownPokemon = errors.New("pokemon does not exist")

// ErrDuplicatePokemon is returned when Import is given an id that is already taken.
var ErrDuplicatePokemon = errors.New("pokemon id already exists")

// ErrDuplicateMember is returned when a team lists the same pokemon twice.
var ErrDuplicateMember = errors.New("pokemon listed twice in team")

// StoreError wraps every failure reported by the backing store.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// Repository persists pokemon and the active team of each trainer.
type Repository interface {
	// GetByID returns the pokemon with the given id, or nil when none exists.
	GetByID(ctx context.Context, id int) (*Pokemon, error)
	// ListByOwner returns every pokemon owned by the trainer.
	ListByOwner(ctx context.Context, ownerID int) ([]Pokemon, error)
	// ListTeam returns the pokemon in the trainer's saved team.
	ListTeam(ctx context.Context, ownerID int) ([]Pokemon, error)
	// Create inserts p, assigns its generated id and reports whether one row was written.
	Create(ctx context.Context, p *Pokemon) (bool, error)
	// SaveTeam replaces the team of members[0].OwnerID with members.
	SaveTeam(ctx context.Context, members []Pokemon) (bool, error)
	// Import inserts p keeping its id.
	Import(ctx context.Context, p *Pokemon) (bool, error)
}
