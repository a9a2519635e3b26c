// SPDX-License-Identifier: MIT
package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/nvoronin/golab/internal/vault"
)

const maxSecretLen = 64 * 1024

// secretBody is the wire form of a secret. Values travel as plain strings;
// at rest they are sealed by the vault.
type secretBody struct {
	Value string `json:"value"`
}

func (s *Server) handlePutSecret(w http.ResponseWriter, r *http.Request) {
	var in secretBody
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if in.Value == "" {
		writeError(w, http.StatusBadRequest, "value must not be empty")
		return
	}
	if len(in.Value) > maxSecretLen {
		writeError(w, http.StatusBadRequest, "value too large")
		return
	}

	id := chi.URLParam(r, "id")
	if err := s.vault.Put(r.Context(), id, []byte(in.Value)); err != nil {
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"id": id})
}

func (s *Server) handleGetSecret(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	plain, err := s.vault.Get(r.Context(), id)
	switch {
	case errors.Is(err, vault.ErrNotFound):
		writeError(w, http.StatusNotFound, "secret not found")
	case err != nil:
		writeError(w, http.StatusInternalServerError, "internal error")
	default:
		writeJSON(w, http.StatusOK, map[string]string{"id": id, "value": string(plain)})
	}
}

func (s *Server) handleDeleteSecret(w http.ResponseWriter, r *http.Request) {
	if err := s.vault.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
