package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/pokemania/pokemania/internal/api/middleware"
	"github.com/pokemania/pokemania/internal/api/response"
	"github.com/pokemania/pokemania/internal/api/validation"
	"github.com/pokemania/pokemania/internal/pokemon"
)

type saveTeamRequest struct {
	PokemonIDs []int `json:"pokemonIds"`
}

// TeamHandler handles a trainer's active team.
type TeamHandler struct {
	repo      pokemon.Repository
	sizeLimit int
}

// NewTeamHandler creates a new TeamHandler. sizeLimit caps the number of
// pokemon a trainer may put on a team.
func NewTeamHandler(repo pokemon.Repository, sizeLimit int) *TeamHandler {
	return &TeamHandler{repo: repo, sizeLimit: sizeLimit}
}

// Get handles GET /trainers/{trainerID}/team.
func (h *TeamHandler) Get(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	trainerID, ok := parsePositiveID(w, r, "trainerID", requestID)
	if !ok {
		return
	}

	team, err := h.repo.ListTeam(r.Context(), trainerID)
	if err != nil {
		slog.Error("failed to list team", "error", err, "trainerId", trainerID)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to get team", requestID)
		return
	}

	items := toPokemonResponses(team)
	response.SuccessList(w, http.StatusOK, items, len(items), requestID)
}

// Save handles PUT /trainers/{trainerID}/team. The body replaces the whole team.
func (h *TeamHandler) Save(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	trainerID, ok := parsePositiveID(w, r, "trainerID", requestID)
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req saveTeamRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Err(w, http.StatusBadRequest, "INVALID_JSON", "Request body must be valid JSON", requestID)
		return
	}

	if fieldErrors := validation.ValidateTeamPokemonIDs(req.PokemonIDs, h.sizeLimit); len(fieldErrors) > 0 {
		response.ErrWithDetails(w, http.StatusBadRequest, "VALIDATION_ERROR", "Input validation failed", fieldErrors, requestID)
		return
	}

	box, err := h.repo.ListByOwner(r.Context(), trainerID)
	if err != nil {
		slog.Error("failed to list trainer pokemon", "error", err, "trainerId", trainerID)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to save team", requestID)
		return
	}

	owned := make(map[int]pokemon.Pokemon, len(box))
	for _, p := range box {
		owned[p.ID] = p
	}

	members := make([]pokemon.Pokemon, 0, len(req.PokemonIDs))
	for _, id := range req.PokemonIDs {
		p, found := owned[id]
		if !found {
			response.Err(w, http.StatusUnprocessableEntity, "INVALID_TEAM",
				fmt.Sprintf("Pokemon %d does not belong to trainer %d", id, trainerID), requestID)
			return
		}
		members = append(members, p)
	}

	saved, err := h.repo.SaveTeam(r.Context(), members)
	if err != nil {
		if errors.Is(err, pokemon.ErrUnknownPokemon) {
			response.Err(w, http.StatusUnprocessableEntity, "INVALID_TEAM", "Team references an unknown pokemon", requestID)
			return
		}
		slog.Error("failed to save team", "error", err, "trainerId", trainerID)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to save team", requestID)
		return
	}
	if !saved {
		slog.Error("team save wrote fewer rows than members", "trainerId", trainerID, "members", len(members))
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to save team", requestID)
		return
	}

	response.SuccessList(w, http.StatusOK, toPokemonResponses(members), len(members), requestID)
}
