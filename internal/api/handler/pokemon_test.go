package handler_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pokemania/pokemania/internal/api/handler"
	"github.com/pokemania/pokemania/internal/pokemon"
)

func validCreateBody() map[string]interface{} {
	return map[string]interface{}{
		"ownerId":    1,
		"speciesId":  25,
		"level":      5,
		"hp":         35,
		"attack":     55,
		"defense":    40,
		"speed":      90,
		"type1":      "Electric",
		"frontImage": "pikachu_f.png",
		"backImage":  "pikachu_b.png",
	}
}

// ===== POST /pokemon =====

func TestPokemonCreate_Success(t *testing.T) {
	t.Parallel()

	var stored *pokemon.Pokemon
	repo := &mockPokemonRepo{
		createFn: func(_ context.Context, p *pokemon.Pokemon) (bool, error) {
			p.ID = 42
			stored = p
			return true, nil
		},
	}
	h := handler.NewPokemonHandler(repo)

	body, _ := json.Marshal(validCreateBody())
	req, w := makeChiRequest(http.MethodPost, "/pokemon", body, nil)

	h.Create(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)

	env := parseEnvelope(t, w)
	assert.Nil(t, env["error"])
	data := env["data"].(map[string]interface{})
	assert.Equal(t, float64(42), data["id"])
	assert.Equal(t, float64(1), data["ownerId"])
	assert.Equal(t, float64(25), data["speciesId"])
	assert.Equal(t, "Electric", data["type1"])
	assert.Nil(t, data["type2"])
	assert.Equal(t, "pikachu_f.png", data["frontImage"])

	require.NotNil(t, stored)
	assert.Equal(t, 35, stored.HP)
	assert.Equal(t, 90, stored.Speed)
}

func TestPokemonCreate_WithSecondaryType(t *testing.T) {
	t.Parallel()

	h := handler.NewPokemonHandler(&mockPokemonRepo{})

	in := validCreateBody()
	in["type1"] = "Fire"
	in["type2"] = "Flying"
	body, _ := json.Marshal(in)
	req, w := makeChiRequest(http.MethodPost, "/pokemon", body, nil)

	h.Create(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	data := parseEnvelope(t, w)["data"].(map[string]interface{})
	assert.Equal(t, "Flying", data["type2"])
}

func TestPokemonCreate_InvalidJSON(t *testing.T) {
	t.Parallel()

	h := handler.NewPokemonHandler(&mockPokemonRepo{})
	req, w := makeChiRequest(http.MethodPost, "/pokemon", []byte(`{not json`), nil)

	h.Create(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "INVALID_JSON", errorCode(t, parseEnvelope(t, w)))
}

func TestPokemonCreate_ValidationError(t *testing.T) {
	t.Parallel()

	called := false
	repo := &mockPokemonRepo{
		createFn: func(_ context.Context, _ *pokemon.Pokemon) (bool, error) {
			called = true
			return true, nil
		},
	}
	h := handler.NewPokemonHandler(repo)

	in := validCreateBody()
	in["level"] = 150
	in["hp"] = -3
	body, _ := json.Marshal(in)
	req, w := makeChiRequest(http.MethodPost, "/pokemon", body, nil)

	h.Create(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	env := parseEnvelope(t, w)
	assert.Equal(t, "VALIDATION_ERROR", errorCode(t, env))
	details := env["error"].(map[string]interface{})["details"].([]interface{})
	assert.Len(t, details, 2)
	assert.False(t, called, "store must not be called for invalid input")
}

func TestPokemonCreate_StoreError(t *testing.T) {
	t.Parallel()

	repo := &mockPokemonRepo{
		createFn: func(_ context.Context, _ *pokemon.Pokemon) (bool, error) {
			return false, &pokemon.StoreError{Op: "saving pokemon", Err: errors.New("connection reset")}
		},
	}
	h := handler.NewPokemonHandler(repo)

	body, _ := json.Marshal(validCreateBody())
	req, w := makeChiRequest(http.MethodPost, "/pokemon", body, nil)

	h.Create(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "INTERNAL_ERROR", errorCode(t, parseEnvelope(t, w)))
}

func TestPokemonCreate_NothingWritten(t *testing.T) {
	t.Parallel()

	repo := &mockPokemonRepo{
		createFn: func(_ context.Context, _ *pokemon.Pokemon) (bool, error) {
			return false, nil
		},
	}
	h := handler.NewPokemonHandler(repo)

	body, _ := json.Marshal(validCreateBody())
	req, w := makeChiRequest(http.MethodPost, "/pokemon", body, nil)

	h.Create(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestPokemonCreate_EmptySecondaryTypeStoredAsNone(t *testing.T) {
	t.Parallel()

	var stored *pokemon.Pokemon
	repo := &mockPokemonRepo{
		createFn: func(_ context.Context, p *pokemon.Pokemon) (bool, error) {
			p.ID = 3
			stored = p
			return true, nil
		},
	}
	h := handler.NewPokemonHandler(repo)

	in := validCreateBody()
	in["type2"] = "  "
	body, _ := json.Marshal(in)
	req, w := makeChiRequest(http.MethodPost, "/pokemon", body, nil)

	h.Create(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	require.NotNil(t, stored)
	assert.Nil(t, stored.Type2)
	data := parseEnvelope(t, w)["data"].(map[string]interface{})
	assert.Nil(t, data["type2"])
}

func TestPokemonCreate_ValuesBeyondInt4Rejected(t *testing.T) {
	t.Parallel()

	repo := &mockPokemonRepo{
		createFn: func(_ context.Context, _ *pokemon.Pokemon) (bool, error) {
			t.Error("store must not be called")
			return false, nil
		},
	}
	h := handler.NewPokemonHandler(repo)

	in := validCreateBody()
	in["ownerId"] = 3000000000
	in["hp"] = 4000000000
	body, _ := json.Marshal(in)
	req, w := makeChiRequest(http.MethodPost, "/pokemon", body, nil)

	h.Create(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	env := parseEnvelope(t, w)
	assert.Equal(t, "VALIDATION_ERROR", errorCode(t, env))
	details := env["error"].(map[string]interface{})["details"].([]interface{})
	assert.Len(t, details, 2)
}

// ===== GET /pokemon/{id} =====

func TestPokemonGetByID_Success(t *testing.T) {
	t.Parallel()

	repo := &mockPokemonRepo{
		getByIDFn: func(_ context.Context, id int) (*pokemon.Pokemon, error) {
			p := samplePokemon(id, 1)
			return &p, nil
		},
	}
	h := handler.NewPokemonHandler(repo)
	req, w := makeChiRequest(http.MethodGet, "/pokemon/7", nil, map[string]string{"id": "7"})

	h.GetByID(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	data := parseEnvelope(t, w)["data"].(map[string]interface{})
	assert.Equal(t, float64(7), data["id"])
	assert.Equal(t, float64(5), data["level"])
}

func TestPokemonGetByID_NotFound(t *testing.T) {
	t.Parallel()

	h := handler.NewPokemonHandler(&mockPokemonRepo{})
	req, w := makeChiRequest(http.MethodGet, "/pokemon/99", nil, map[string]string{"id": "99"})

	h.GetByID(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "NOT_FOUND", errorCode(t, parseEnvelope(t, w)))
}

func TestPokemonGetByID_InvalidID(t *testing.T) {
	t.Parallel()

	for _, raw := range []string{"abc", "0", "-5", "2147483648", "3000000000"} {
		t.Run(raw, func(t *testing.T) {
			t.Parallel()
			h := handler.NewPokemonHandler(&mockPokemonRepo{
				getByIDFn: func(_ context.Context, id int) (*pokemon.Pokemon, error) {
					t.Errorf("store must not be called, got id %d", id)
					return nil, nil
				},
			})
			req, w := makeChiRequest(http.MethodGet, "/pokemon/"+raw, nil, map[string]string{"id": raw})

			h.GetByID(w, req)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Equal(t, "INVALID_ID", errorCode(t, parseEnvelope(t, w)))
		})
	}
}

func TestPokemonGetByID_StoreError(t *testing.T) {
	t.Parallel()

	repo := &mockPokemonRepo{
		getByIDFn: func(_ context.Context, _ int) (*pokemon.Pokemon, error) {
			return nil, errors.New("db down")
		},
	}
	h := handler.NewPokemonHandler(repo)
	req, w := makeChiRequest(http.MethodGet, "/pokemon/1", nil, map[string]string{"id": "1"})

	h.GetByID(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

// ===== GET /trainers/{trainerID}/pokemon =====

func TestPokemonListByOwner_Success(t *testing.T) {
	t.Parallel()

	var gotOwner int
	repo := &mockPokemonRepo{
		listByOwnerFn: func(_ context.Context, ownerID int) ([]pokemon.Pokemon, error) {
			gotOwner = ownerID
			return []pokemon.Pokemon{samplePokemon(1, ownerID), samplePokemon(2, ownerID)}, nil
		},
	}
	h := handler.NewPokemonHandler(repo)
	req, w := makeChiRequest(http.MethodGet, "/trainers/3/pokemon", nil, map[string]string{"trainerID": "3"})

	h.ListByOwner(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 3, gotOwner)

	env := parseEnvelope(t, w)
	data := env["data"].([]interface{})
	assert.Len(t, data, 2)
	meta := env["meta"].(map[string]interface{})
	assert.Equal(t, float64(2), meta["count"])
}

func TestPokemonListByOwner_EmptyIsArray(t *testing.T) {
	t.Parallel()

	h := handler.NewPokemonHandler(&mockPokemonRepo{})
	req, w := makeChiRequest(http.MethodGet, "/trainers/3/pokemon", nil, map[string]string{"trainerID": "3"})

	h.ListByOwner(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	env := parseEnvelope(t, w)
	data, ok := env["data"].([]interface{})
	require.True(t, ok, "data should be a JSON array")
	assert.Empty(t, data)
}

func TestPokemonListByOwner_StoreError(t *testing.T) {
	t.Parallel()

	repo := &mockPokemonRepo{
		listByOwnerFn: func(_ context.Context, _ int) ([]pokemon.Pokemon, error) {
			return nil, errors.New("db down")
		},
	}
	h := handler.NewPokemonHandler(repo)
	req, w := makeChiRequest(http.MethodGet, "/trainers/3/pokemon", nil, map[string]string{"trainerID": "3"})

	h.ListByOwner(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}
