package httpx

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
)

type ProfileStore interface {
	Get(ctx context.Context, username string) (map[string]string, error)
	Set(ctx context.Context, username string, fields map[string]string) error
}

// ProfileHandler serves the free-form contact fields a user keeps on their
// profile page. Routes are mounted behind required auth.
type ProfileHandler struct{ Store ProfileStore }

func (h *ProfileHandler) Register(r chi.Router) {
	r.Get("/profile", h.get)
	r.Put("/profile", h.put)
}

func (h *ProfileHandler) get(w http.ResponseWriter, r *http.Request) {
	claims, ok := ClaimsFrom(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "login required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	fields, err := h.Store.Get(ctx, claims.Username)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeData(w, http.StatusOK, fields)
}

func (h *ProfileHandler) put(w http.ResponseWriter, r *http.Request) {
	claims, ok := ClaimsFrom(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "login required")
		return
	}

	var fields map[string]string
	if err := json.NewDecoder(r.Body).Decode(&fields); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	if err := h.Store.Set(ctx, claims.Username, fields); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeData(w, http.StatusOK, fields)
}
