package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/pokemania/pokemania/internal/api/middleware"
	"github.com/pokemania/pokemania/internal/api/response"
	"github.com/pokemania/pokemania/internal/api/validation"
	"github.com/pokemania/pokemania/internal/pokemon"
)

type createPokemonRequest struct {
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

type pokemonResponse struct {
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

func toPokemonResponse(p *pokemon.Pokemon) pokemonResponse {
	return pokemonResponse{
		ID:         p.ID,
		OwnerID:    p.OwnerID,
		SpeciesID:  p.SpeciesID,
		Level:      p.Level,
		HP:         p.HP,
		Attack:     p.Attack,
		Defense:    p.Defense,
		Speed:      p.Speed,
		Type1:      p.Type1,
		Type2:      p.Type2,
		FrontImage: p.FrontImage,
		BackImage:  p.BackImage,
	}
}

func toPokemonResponses(list []pokemon.Pokemon) []pokemonResponse {
	items := make([]pokemonResponse, 0, len(list))
	for i := range list {
		items = append(items, toPokemonResponse(&list[i]))
	}
	return items
}

// PokemonHandler handles the pokemon endpoints.
type PokemonHandler struct {
	repo pokemon.Repository
}

// NewPokemonHandler creates a new PokemonHandler.
func NewPokemonHandler(repo pokemon.Repository) *PokemonHandler {
	return &PokemonHandler{repo: repo}
}

// Create handles POST /pokemon.
func (h *PokemonHandler) Create(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req createPokemonRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Err(w, http.StatusBadRequest, "INVALID_JSON", "Request body must be valid JSON", requestID)
		return
	}

	// An empty secondary type means the species has none.
	if req.Type2 != nil && strings.TrimSpace(*req.Type2) == "" {
		req.Type2 = nil
	}

	fieldErrors := validation.ValidateCreatePokemonRequest(validation.CreatePokemonRequest(req))
	if len(fieldErrors) > 0 {
		response.ErrWithDetails(w, http.StatusBadRequest, "VALIDATION_ERROR", "Input validation failed", fieldErrors, requestID)
		return
	}

	p := &pokemon.Pokemon{
		OwnerID:    req.OwnerID,
		SpeciesID:  req.SpeciesID,
		Level:      req.Level,
		HP:         req.HP,
		Attack:     req.Attack,
		Defense:    req.Defense,
		Speed:      req.Speed,
		Type1:      req.Type1,
		Type2:      req.Type2,
		FrontImage: req.FrontImage,
		BackImage:  req.BackImage,
	}

	ok, err := h.repo.Create(r.Context(), p)
	if err != nil {
		slog.Error("failed to create pokemon", "error", err)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to create pokemon", requestID)
		return
	}
	if !ok {
		slog.Error("pokemon insert reported no row written", "ownerId", req.OwnerID)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to create pokemon", requestID)
		return
	}

	response.Success(w, http.StatusCreated, toPokemonResponse(p), requestID)
}

// GetByID handles GET /pokemon/{id}.
func (h *PokemonHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	id, ok := parsePositiveID(w, r, "id", requestID)
	if !ok {
		return
	}

	p, err := h.repo.GetByID(r.Context(), id)
	if err != nil {
		slog.Error("failed to get pokemon", "error", err, "id", id)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to get pokemon", requestID)
		return
	}
	if p == nil {
		response.Err(w, http.StatusNotFound, "NOT_FOUND", "Pokemon not found", requestID)
		return
	}

	response.Success(w, http.StatusOK, toPokemonResponse(p), requestID)
}

// ListByOwner handles GET /trainers/{trainerID}/pokemon.
func (h *PokemonHandler) ListByOwner(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	trainerID, ok := parsePositiveID(w, r, "trainerID", requestID)
	if !ok {
		return
	}

	list, err := h.repo.ListByOwner(r.Context(), trainerID)
	if err != nil {
		slog.Error("failed to list trainer pokemon", "error", err, "trainerId", trainerID)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list pokemon", requestID)
		return
	}

	items := toPokemonResponses(list)
	response.SuccessList(w, http.StatusOK, items, len(items), requestID)
}

// parsePositiveID reads a positive 32-bit integer URL parameter, writing a 400
// when it is not one. Ids are stored as Postgres INTEGER.
func parsePositiveID(w http.ResponseWriter, r *http.Request, param, requestID string) (int, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, param), 10, 32)
	if err != nil || id <= 0 {
		response.Err(w, http.StatusBadRequest, "INVALID_ID", param+" must be a positive integer", requestID)
		return 0, false
	}
	return int(id), true
}
