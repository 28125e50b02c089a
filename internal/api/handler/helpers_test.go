package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/pokemania/pokemania/internal/pokemon"
)

// --- Mock Pokemon Repository ---

type mockPokemonRepo struct {
	getByIDFn     func(ctx context.Context, id int) (*pokemon.Pokemon, error)
	listByOwnerFn func(ctx context.Context, ownerID int) ([]pokemon.Pokemon, error)
	listTeamFn    func(ctx context.Context, ownerID int) ([]pokemon.Pokemon, error)
	createFn      func(ctx context.Context, p *pokemon.Pokemon) (bool, error)
	saveTeamFn    func(ctx context.Context, members []pokemon.Pokemon) (bool, error)
	importFn      func(ctx context.Context, p *pokemon.Pokemon) (bool, error)
}

func (m *mockPokemonRepo) GetByID(ctx context.Context, id int) (*pokemon.Pokemon, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, nil
}

func (m *mockPokemonRepo) ListByOwner(ctx context.Context, ownerID int) ([]pokemon.Pokemon, error) {
	if m.listByOwnerFn != nil {
		return m.listByOwnerFn(ctx, ownerID)
	}
	return []pokemon.Pokemon{}, nil
}

func (m *mockPokemonRepo) ListTeam(ctx context.Context, ownerID int) ([]pokemon.Pokemon, error) {
	if m.listTeamFn != nil {
		return m.listTeamFn(ctx, ownerID)
	}
	return []pokemon.Pokemon{}, nil
}

func (m *mockPokemonRepo) Create(ctx context.Context, p *pokemon.Pokemon) (bool, error) {
	if m.createFn != nil {
		return m.createFn(ctx, p)
	}
	p.ID = 1
	return true, nil
}

func (m *mockPokemonRepo) SaveTeam(ctx context.Context, members []pokemon.Pokemon) (bool, error) {
	if m.saveTeamFn != nil {
		return m.saveTeamFn(ctx, members)
	}
	return true, nil
}

func (m *mockPokemonRepo) Import(ctx context.Context, p *pokemon.Pokemon) (bool, error) {
	if m.importFn != nil {
		return m.importFn(ctx, p)
	}
	return true, nil
}

// --- Helpers ---

func makeChiRequest(method, path string, body []byte, params map[string]string) (*http.Request, *httptest.ResponseRecorder) {
	var req *http.Request
	if body != nil {
		req = httptest.NewRequest(method, path, bytes.NewReader(body))
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()

	if len(params) > 0 {
		rctx := chi.NewRouteContext()
		for k, v := range params {
			rctx.URLParams.Add(k, v)
		}
		req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
	}

	return req, w
}

func parseEnvelope(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var env map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &env)
	require.NoError(t, err, "failed to parse response body")
	return env
}

func errorCode(t *testing.T, env map[string]interface{}) string {
	t.Helper()
	errObj, ok := env["error"].(map[string]interface{})
	require.True(t, ok, "expected error object in envelope")
	return errObj["code"].(string)
}

func samplePokemon(id, ownerID int) pokemon.Pokemon {
	return pokemon.Pokemon{
		ID:         id,
		OwnerID:    ownerID,
		SpeciesID:  25,
		Level:      5,
		HP:         35,
		Attack:     55,
		Defense:    40,
		Speed:      90,
		Type1:      "Electric",
		FrontImage: "pikachu_f.png",
		BackImage:  "pikachu_b.png",
	}
}
