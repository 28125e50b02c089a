package main

import (
	"fmt"
	"os"
	"sort"

	"sigs.k8s.io/yaml"

	"github.com/pokemania/pokemania/internal/pokemon"
)

type fixturePokemon struct {
	ID         int     `json:"id"`
	OwnerID    int     `json:"ownerId"`
	SpeciesID  int     `json:"speciesId"`
	Level      int     `json:"level"`
	HP         int     `json:"hp"`
	Attack     int     `json:"attack"`
	Defense    int     `json:"defense"`
	Speed      int     `json:"speed"`
	Type1      string  `json:"type1"`
	Type2      *string `json:"type2"`
	FrontImage string  `json:"frontImage"`
	BackImage  string  `json:"backImage"`
}

type fixture struct {
	Pokemon []fixturePokemon `json:"pokemon"`
	Teams   map[int][]int    `json:"teams"`
}

// seedTeam is a team ready to be handed to SaveTeam.
type seedTeam struct {
	TrainerID int
	Members   []pokemon.Pokemon
}

func loadFixture(path string) (*fixture, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading fixture: %w", err)
	}
	var f fixture
	if err := yaml.UnmarshalStrict(raw, &f); err != nil {
		return nil, fmt.Errorf("parsing fixture %s: %w", path, err)
	}
	return &f, nil
}

// records converts the fixture pokemon, rejecting entries without an id and
// repeated ids.
func (f *fixture) records() ([]pokemon.Pokemon, error) {
	seen := make(map[int]bool, len(f.Pokemon))
	out := make([]pokemon.Pokemon, 0, len(f.Pokemon))
	for i, fp := range f.Pokemon {
		if fp.ID <= 0 {
			return nil, fmt.Errorf("pokemon #%d: id must be positive", i)
		}
		if seen[fp.ID] {
			return nil, fmt.Errorf("pokemon #%d: id %d listed twice", i, fp.ID)
		}
		seen[fp.ID] = true
		out = append(out, pokemon.Pokemon{
			ID:         fp.ID,
			OwnerID:    fp.OwnerID,
			SpeciesID:  fp.SpeciesID,
			Level:      fp.Level,
			HP:         fp.HP,
			Attack:     fp.Attack,
			Defense:    fp.Defense,
			Speed:      fp.Speed,
			Type1:      fp.Type1,
			Type2:      fp.Type2,
			FrontImage: fp.FrontImage,
			BackImage:  fp.BackImage,
		})
	}
	return out, nil
}

// teams resolves each roster against the fixture's pokemon, ordered by trainer id.
func (f *fixture) teams(records []pokemon.Pokemon) ([]seedTeam, error) {
	byID := make(map[int]pokemon.Pokemon, len(records))
	for _, p := range records {
		byID[p.ID] = p
	}

	trainers := make([]int, 0, len(f.Teams))
	for trainerID := range f.Teams {
		trainers = append(trainers, trainerID)
	}
	sort.Ints(trainers)

	out := make([]seedTeam, 0, len(trainers))
	for _, trainerID := range trainers {
		ids := f.Teams[trainerID]
		if len(ids) == 0 {
			return nil, fmt.Errorf("team for trainer %d: no pokemon listed", trainerID)
		}
		members := make([]pokemon.Pokemon, 0, len(ids))
		for _, id := range ids {
			p, ok := byID[id]
			if !ok {
				return nil, fmt.Errorf("team for trainer %d: pokemon %d not in fixture", trainerID, id)
			}
			if p.OwnerID != trainerID {
				return nil, fmt.Errorf("team for trainer %d: pokemon %d belongs to trainer %d", trainerID, id, p.OwnerID)
			}
			members = append(members, p)
		}
		out = append(out, seedTeam{TrainerID: trainerID, Members: members})
	}
	return out, nil
}
