package pokemon

// Pokemon represents a row in the pokemon table.
type Pokemon struct {
	ID         int     `db:"pokemon_id"`
	OwnerID    int     `db:"trainer_id"`
	SpeciesID  int     `db:"pokedex_id"`
	Level      int     `db:"pokemon_level"`
	HP         int     `db:"pokemon_hp"`
	Attack     int     `db:"pokemon_att"`
	Defense    int     `db:"pokemon_def"`
	Speed      int     `db:"pokemon_speed"`
	Type1      string  `db:"pokemon_type1"`
	Type2      *string `db:"pokemon_type2"` // nil when the species has no secondary type
	FrontImage string  `db:"front_image"`
	BackImage  string  `db:"back_image"`
}

// columns lists the pokemon table columns in select order.
var columns = []string{
	"pokemon_id",
	"trainer_id",
	"pokedex_id",
	"pokemon_level",
	"pokemon_hp",
	"pokemon_att",
	"pokemon_def",
	"pokemon_speed",
	"pokemon_type1",
	"pokemon_type2",
	"front_image",
	"back_image",
}

// values returns the data columns of p in the order of columns[1:].
func (p *Pokemon) values() []any {
	return []any{
		p.OwnerID,
		p.SpeciesID,
		p.Level,
		p.HP,
		p.Attack,
		p.Defense,
		p.Speed,
		p.Type1,
		p.Type2,
		p.FrontImage,
		p.BackImage,
	}
}
