package validation

// CreatePokemonRequest mirrors the fields needed for create pokemon validation.
// Integer fields are capped at the Postgres INTEGER maximum.
type CreatePokemonRequest struct {
	OwnerID    int     `json:"ownerId" validate:"required,gt=0,lte=2147483647"`
	SpeciesID  int     `json:"speciesId" validate:"required,gt=0,lte=2147483647"`
	Level      int     `json:"level" validate:"required,min=1,max=100"`
	HP         int     `json:"hp" validate:"gte=0,lte=2147483647"`
	Attack     int     `json:"attack" validate:"gte=0,lte=2147483647"`
	Defense    int     `json:"defense" validate:"gte=0,lte=2147483647"`
	Speed      int     `json:"speed" validate:"gte=0,lte=2147483647"`
	Type1      string  `json:"type1" validate:"required,max=32"`
	Type2      *string `json:"type2" validate:"omitempty,max=32"`
	FrontImage string  `json:"frontImage" validate:"max=255"`
	BackImage  string  `json:"backImage" validate:"max=255"`
}

// ValidateCreatePokemonRequest validates the fields of a create pokemon request.
// Returns a slice of field errors; empty slice means valid.
func ValidateCreatePokemonRequest(req CreatePokemonRequest) []FieldError {
	return toFieldErrors(validate.Struct(req), "")
}
