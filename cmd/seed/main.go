// Command seed loads a YAML fixture of pokemon and teams into the database.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/pokemania/pokemania/internal/config"
	"github.com/pokemania/pokemania/internal/pokemon"
	"github.com/pokemania/pokemania/internal/postgres"
)

func main() {
	file := flag.String("file", "fixtures.yaml", "path to the YAML fixture")
	timeout := flag.Duration("timeout", 2*time.Minute, "overall deadline for the seed run")
	flag.Parse()

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	if err := run(*file, *timeout); err != nil {
		slog.Error("seed failed", "error", err)
		os.Exit(1)
	}
}

func run(file string, timeout time.Duration) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}

	f, err := loadFixture(file)
	if err != nil {
		return err
	}
	records, err := f.records()
	if err != nil {
		return err
	}
	teams, err := f.teams(records)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := postgres.Migrate(ctx, cfg.DatabaseURL); err != nil {
		return err
	}

	pool, err := postgres.NewPool(ctx, cfg.DatabaseURL, postgres.PoolOptions{MaxConns: cfg.DBMaxConns})
	if err != nil {
		return err
	}
	defer pool.Close()

	return seed(ctx, pokemon.NewRepository(pool), records, teams)
}

// seed imports records, skipping ids that already exist, then replaces each team.
func seed(ctx context.Context, repo pokemon.Repository, records []pokemon.Pokemon, teams []seedTeam) error {
	imported, skipped := 0, 0
	for i := range records {
		ok, err := repo.Import(ctx, &records[i])
		if errors.Is(err, pokemon.ErrDuplicatePokemon) {
			skipped++
			continue
		}
		if err != nil {
			return fmt.Errorf("importing pokemon %d: %w", records[i].ID, err)
		}
		if !ok {
			return fmt.Errorf("importing pokemon %d: no row written", records[i].ID)
		}
		imported++
	}

	for _, team := range teams {
		ok, err := repo.SaveTeam(ctx, team.Members)
		if err != nil {
			return fmt.Errorf("saving team for trainer %d: %w", team.TrainerID, err)
		}
		if !ok {
			return fmt.Errorf("saving team for trainer %d: not every member was written", team.TrainerID)
		}
	}

	slog.Info("seed complete", "imported", imported, "skipped", skipped, "teams", len(teams))
	return nil
}
