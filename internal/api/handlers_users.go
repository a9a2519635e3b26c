// SPDX-License-Identifier: MIT
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/nvoronin/golab/internal/log"
	"github.com/nvoronin/golab/internal/metrics"
	"github.com/nvoronin/golab/internal/store"
)

const (
	maxUsernameLen = 64
	userCacheTTL   = 5 * time.Minute
)

func userCacheKey(id int64) string {
	return fmt.Sprintf("user:%d", id)
}

// validateUserInput enforces the writable field constraints shared by create
// and update.
func validateUserInput(in store.UserInput) error {
	username := strings.TrimSpace(in.Username)
	if username == "" {
		return errors.New("username must not be empty")
	}
	if len(username) > maxUsernameLen {
		return fmt.Errorf("username must be at most %d characters", maxUsernameLen)
	}
	if !strings.Contains(in.Email, "@") {
		return errors.New("email must contain @")
	}
	return nil
}

func (s *Server) handleCreateUser(w http.ResponseWriter, r *http.Request) {
	var in store.UserInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if err := validateUserInput(in); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	user, err := s.repo.Create(r.Context(), strings.TrimSpace(in.Username), in.Email)
	if err != nil {
		writeStoreError(w, err)
		return
	}

	s.cacheUser(r, user)
	s.refreshUserCount(r)
	writeJSON(w, http.StatusCreated, user)
}

func (s *Server) handleGetUser(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid user id")
		return
	}

	if s.cache != nil {
		if raw, ok := s.cache.Get(r.Context(), userCacheKey(id)); ok {
			var user store.User
			if json.Unmarshal(raw, &user) == nil {
				writeJSON(w, http.StatusOK, &user)
				return
			}
		}
	}

	user, err := s.repo.GetByID(r.Context(), id)
	if err != nil {
		writeStoreError(w, err)
		return
	}

	s.cacheUser(r, user)
	writeJSON(w, http.StatusOK, user)
}

func (s *Server) handleUpdateUser(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid user id")
		return
	}

	var in store.UserInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if err := validateUserInput(in); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	user, err := s.repo.Update(r.Context(), id, strings.TrimSpace(in.Username), in.Email)
	if err != nil {
		writeStoreError(w, err)
		return
	}

	if s.cache != nil {
		s.cache.Delete(r.Context(), userCacheKey(id))
	}
	writeJSON(w, http.StatusOK, user)
}

func (s *Server) handleDeleteUser(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid user id")
		return
	}

	if err := s.repo.Delete(r.Context(), id); err != nil {
		writeStoreError(w, err)
		return
	}

	if s.cache != nil {
		s.cache.Delete(r.Context(), userCacheKey(id))
	}
	s.refreshUserCount(r)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := s.repo.List(r.Context())
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"users": users,
		"count": len(users),
	})
}

// handleCreatePair inserts two users atomically: both or neither.
func (s *Server) handleCreatePair(w http.ResponseWriter, r *http.Request) {
	var in struct {
		First  store.UserInput `json:"first"`
		Second store.UserInput `json:"second"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if err := validateUserInput(in.First); err != nil {
		writeError(w, http.StatusBadRequest, "first: "+err.Error())
		return
	}
	if err := validateUserInput(in.Second); err != nil {
		writeError(w, http.StatusBadRequest, "second: "+err.Error())
		return
	}

	a, b, err := s.repo.CreatePair(r.Context(), in.First, in.Second)
	if err != nil {
		writeStoreError(w, err)
		return
	}

	s.cacheUser(r, a)
	s.cacheUser(r, b)
	s.refreshUserCount(r)
	writeJSON(w, http.StatusCreated, map[string]any{
		"first":  a,
		"second": b,
	})
}

func (s *Server) cacheUser(r *http.Request, user *store.User) {
	if s.cache == nil || user == nil {
		return
	}
	raw, err := json.Marshal(user)
	if err != nil {
		return
	}
	s.cache.Set(r.Context(), userCacheKey(user.ID), raw, userCacheTTL)
}

func (s *Server) refreshUserCount(r *http.Request) {
	n, err := s.repo.Count(r.Context())
	if err != nil {
		s.logger.Warn().Err(err).Str(log.FieldEvent, "users.count_failed").Msg("user count refresh failed")
		return
	}
	metrics.SetUsersTotal(n)
}
