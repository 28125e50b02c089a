package validation

import "fmt"

// ValidateTeamPokemonIDs checks a team roster: between 1 and limit distinct
// pokemon ids, each a positive 32-bit integer.
func ValidateTeamPokemonIDs(ids []int, limit int) []FieldError {
	rule := fmt.Sprintf("required,min=1,max=%d,unique,dive,gt=0,lte=2147483647", limit)
	return toFieldErrors(validate.Var(ids, rule), "pokemonIds")
}
