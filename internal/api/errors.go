// SPDX-License-Identifier: MIT
package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/nvoronin/golab/internal/store"
)

// writeJSON writes a JSON response with the given status code
func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError writes a JSON error envelope with the given status code
func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"error": msg})
}

// writeStoreError maps repository sentinel errors to HTTP status codes.
func writeStoreError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		writeError(w, http.StatusNotFound, "user not found")
	case errors.Is(err, store.ErrDuplicate):
		writeError(w, http.StatusConflict, "username already taken")
	default:
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}
