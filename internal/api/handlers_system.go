// SPDX-License-Identifier: MIT
package api

import (
	"net/http"
)

// handleAlerts reports the threshold monitor's current violations.
func (s *Server) handleAlerts(w http.ResponseWriter, r *http.Request) {
	alerts := s.monitor.Check()
	writeJSON(w, http.StatusOK, map[string]any{
		"alerts": alerts,
		"count":  len(alerts),
	})
}

// handleCacheStats exposes cache backend counters for operators.
func (s *Server) handleCacheStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.cache.Stats())
}
