// SPDX-License-Identifier: MIT
package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/nvoronin/golab/internal/device"
)

// deviceView is the wire representation of a device.
type deviceView struct {
	ID     string `json:"id"`
	State  string `json:"state"`
	Status uint32 `json:"status"`
}

func viewOf(d *device.Device) deviceView {
	return deviceView{
		ID:     d.ID(),
		State:  string(d.State()),
		Status: d.Status().Value(),
	}
}

func (s *Server) handleListDevices(w http.ResponseWriter, r *http.Request) {
	devices := s.devices.List()
	views := make([]deviceView, 0, len(devices))
	for _, d := range devices {
		views = append(views, viewOf(d))
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"devices": views,
		"count":   len(views),
	})
}

func (s *Server) handleGetDevice(w http.ResponseWriter, r *http.Request) {
	d := s.devices.Get(chi.URLParam(r, "id"))
	if d == nil {
		writeError(w, http.StatusNotFound, "device not found")
		return
	}
	writeJSON(w, http.StatusOK, viewOf(d))
}

func (s *Server) handleDeviceTransition(w http.ResponseWriter, r *http.Request) {
	var in struct {
		State string `json:"state"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if in.State == "" {
		writeError(w, http.StatusBadRequest, "state must not be empty")
		return
	}

	d, ok, err := s.devices.Transition(chi.URLParam(r, "id"), device.State(in.State))
	if !ok {
		writeError(w, http.StatusNotFound, "device not found")
		return
	}
	if err != nil {
		var inv *device.ErrInvalidTransition
		if errors.As(err, &inv) {
			writeError(w, http.StatusConflict, inv.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, viewOf(d))
}
