package pokemon

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/pokemania/pokemania/internal/postgres"
)

const (
	opGetByID     = "fetching pokemon"
	opListByOwner = "listing trainer pokemon"
	opListTeam    = "listing trainer team"
	opCreate      = "saving pokemon"
	opSaveTeam    = "saving team"
	opImport      = "importing pokemon"
)

// lockTeam serializes team writes per trainer for the rest of the transaction.
const lockTeam = `SELECT pg_advisory_xact_lock(hashtext('pokemon_team'), $1)`

const resetIDSequence = `SELECT setval(pg_get_serial_sequence('pokemon', 'pokemon_id'), (SELECT MAX(pokemon_id) FROM pokemon))`

var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

// PostgresRepository implements Repository on top of a pgx connection pool.
type PostgresRepository struct {
	db postgres.DB
}

// NewRepository creates a new Repository backed by the given connection pool.
func NewRepository(db postgres.DB) Repository {
	return &PostgresRepository{db: db}
}

// GetByID retrieves a single pokemon by id. A missing row yields (nil, nil).
func (r *PostgresRepository) GetByID(ctx context.Context, id int) (*Pokemon, error) {
	if !fitsInt4(id) {
		return nil, nil
	}

	query, args, err := psql.Select(columns...).
		From("pokemon").
		Where(squirrel.Eq{"pokemon_id": id}).
		ToSql()
	if err != nil {
		return nil, r.fail(opGetByID, fmt.Errorf("building select query: %w", err))
	}

	var p Pokemon
	if err := pgxscan.Get(ctx, r.db, &p, query, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, nil
		}
		return nil, r.fail(opGetByID, fmt.Errorf("querying pokemon: %w", err))
	}

	return &p, nil
}

// ListByOwner retrieves every pokemon in the trainer's box.
func (r *PostgresRepository) ListByOwner(ctx context.Context, ownerID int) ([]Pokemon, error) {
	if !fitsInt4(ownerID) {
		return []Pokemon{}, nil
	}

	query, args, err := psql.Select(columns...).
		From("pokemon").
		Where(squirrel.Eq{"trainer_id": ownerID}).
		OrderBy("pokemon_id").
		ToSql()
	if err != nil {
		return nil, r.fail(opListByOwner, fmt.Errorf("building select query: %w", err))
	}

	return r.list(ctx, opListByOwner, query, args...)
}

// ListTeam retrieves the pokemon listed in the trainer's saved team.
func (r *PostgresRepository) ListTeam(ctx context.Context, ownerID int) ([]Pokemon, error) {
	if !fitsInt4(ownerID) {
		return []Pokemon{}, nil
	}

	query, args, err := psql.Select(columns...).
		From("pokemon").
		Where("pokemon_id IN (SELECT pokemon_id FROM pokemon_team WHERE trainer_id = ?)", ownerID).
		OrderBy("pokemon_id").
		ToSql()
	if err != nil {
		return nil, r.fail(opListTeam, fmt.Errorf("building select query: %w", err))
	}

	return r.list(ctx, opListTeam, query, args...)
}

// Create inserts a new pokemon and sets p.ID to the generated id.
func (r *PostgresRepository) Create(ctx context.Context, p *Pokemon) (bool, error) {
	query, args, err := psql.Insert("pokemon").
		Columns(columns[1:]...).
		Values(p.values()...).
		Suffix("RETURNING pokemon_id").
		ToSql()
	if err != nil {
		return false, r.fail(opCreate, fmt.Errorf("building insert query: %w", err))
	}

	var id int
	if err := r.db.QueryRow(ctx, query, args...).Scan(&id); err != nil {
		return false, r.fail(opCreate, fmt.Errorf("inserting pokemon: %w", err))
	}

	p.ID = id
	return true, nil
}

// SaveTeam replaces the trainer's team with members. The old membership is
// deleted and the new one inserted as a single batch in one transaction, so
// a failure leaves the previous team in place. Concurrent saves for the same
// trainer wait on a transaction-scoped advisory lock and apply one after the
// other.
func (r *PostgresRepository) SaveTeam(ctx context.Context, members []Pokemon) (bool, error) {
	if len(members) == 0 {
		return false, ErrEmptyTeam
	}

	ownerID := members[0].OwnerID
	for _, m := range members[1:] {
		if m.OwnerID != ownerID {
			return false, ErrMixedOwners
		}
	}

	clearSQL, clearArgs, err := psql.Delete("pokemon_team").
		Where(squirrel.Eq{"trainer_id": ownerID}).
		ToSql()
	if err != nil {
		return false, r.fail(opSaveTeam, fmt.Errorf("building delete query: %w", err))
	}

	batch := &pgx.Batch{}
	for _, m := range members {
		query, args, err := psql.Insert("pokemon_team").
			Columns("trainer_id", "pokemon_id").
			Values(ownerID, m.ID).
			ToSql()
		if err != nil {
			return false, r.fail(opSaveTeam, fmt.Errorf("building insert query: %w", err))
		}
		batch.Queue(query, args...)
	}

	var written int64
	err = postgres.WithTx(ctx, r.db, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, lockTeam, ownerID); err != nil {
			return fmt.Errorf("locking team: %w", err)
		}
		if _, err := tx.Exec(ctx, clearSQL, clearArgs...); err != nil {
			return fmt.Errorf("clearing team: %w", err)
		}

		results := tx.SendBatch(ctx, batch)
		for range members {
			tag, err := results.Exec()
			if err != nil {
				_ = results.Close()
				return fmt.Errorf("inserting team member: %w", mapConstraint(err, ErrDuplicateMember))
			}
			written += tag.RowsAffected()
		}
		if err := results.Close(); err != nil {
			return fmt.Errorf("closing team batch: %w", err)
		}
		return nil
	})
	if err != nil {
		return false, r.fail(opSaveTeam, err)
	}

	return written == int64(len(members)), nil
}

// Import inserts p with its own id and moves the id sequence past it.
func (r *PostgresRepository) Import(ctx context.Context, p *Pokemon) (bool, error) {
	query, args, err := psql.Insert("pokemon").
		Columns(columns...).
		Values(append([]any{p.ID}, p.values()...)...).
		ToSql()
	if err != nil {
		return false, r.fail(opImport, fmt.Errorf("building insert query: %w", err))
	}

	var written int64
	err = postgres.WithTx(ctx, r.db, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, query, args...)
		if err != nil {
			return fmt.Errorf("inserting pokemon: %w", mapConstraint(err, ErrDuplicatePokemon))
		}
		written = tag.RowsAffected()

		if _, err := tx.Exec(ctx, resetIDSequence); err != nil {
			return fmt.Errorf("resetting id sequence: %w", err)
		}
		return nil
	})
	if err != nil {
		return false, r.fail(opImport, err)
	}

	return written == 1, nil
}

func (r *PostgresRepository) list(ctx context.Context, op, query string, args ...any) ([]Pokemon, error) {
	var pokemon []Pokemon
	if err := pgxscan.Select(ctx, r.db, &pokemon, query, args...); err != nil {
		return nil, r.fail(op, fmt.Errorf("querying pokemon: %w", err))
	}

	if pokemon == nil {
		pokemon = []Pokemon{}
	}

	return pokemon, nil
}

// fitsInt4 reports whether v can be stored in an INTEGER column. Ids outside
// that range cannot match any row.
func fitsInt4(v int) bool {
	return v >= math.MinInt32 && v <= math.MaxInt32
}

// fail logs a store failure and wraps it in a StoreError.
func (r *PostgresRepository) fail(op string, err error) error {
	slog.Warn("pokemon store operation failed", "op", op, "error", err)
	return &StoreError{Op: op, Err: err}
}

// mapConstraint translates integrity violations into package sentinels.
// Unique violations map to onDuplicate.
func mapConstraint(err, onDuplicate error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}
	switch pgErr.Code {
	case "23503":
		return fmt.Errorf("%w: %s", ErrUnknownPokemon, pgErr.Detail)
	case "23505":
		return fmt.Errorf("%w: %s", onDuplicate, pgErr.Detail)
	}
	return err
}
