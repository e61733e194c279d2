// Package api serves the score database over HTTP.
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/ayusman/fingergun/internal/store"
)

// DefaultListLimit caps session listings without an explicit limit.
const DefaultListLimit = 50

// SessionHandler serves /api/sessions, /api/sessions/{id} and
// /api/sessions/{id}/shots.
type SessionHandler struct {
	store *store.Store
}

// NewSessionHandler creates a SessionHandler backed by s.
func NewSessionHandler(s *store.Store) *SessionHandler {
	return &SessionHandler{store: s}
}

func (h *SessionHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/api/sessions")
	path = strings.Trim(path, "/")

	if path == "" {
		switch r.Method {
		case http.MethodGet:
			h.list(w, r)
		default:
			writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		}
		return
	}

	id, sub, _ := strings.Cut(path, "/")
	switch {
	case sub == "" && r.Method == http.MethodGet:
		h.get(w, id)
	case sub == "" && r.Method == http.MethodDelete:
		h.delete(w, id)
	case sub == "shots" && r.Method == http.MethodGet:
		h.shots(w, id)
	case sub == "" || sub == "shots":
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	default:
		writeError(w, http.StatusNotFound, "not found")
	}
}

type sessionResponse struct {
	*store.Session
	Accuracy float64 `json:"accuracy"`
}

type listSessionsResponse struct {
	Sessions []sessionResponse `json:"sessions"`
}

type listShotsResponse struct {
	SessionID string        `json:"sessionId"`
	Shots     []*store.Shot `json:"shots"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func toResponse(s *store.Session) sessionResponse {
	return sessionResponse{Session: s, Accuracy: s.Accuracy()}
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// list handles GET /api/sessions?limit=N&order=recent|best.
func (h *SessionHandler) list(w http.ResponseWriter, r *http.Request) {
	limit := DefaultListLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = n
	}

	var (
		sessions []*store.Session
		err      error
	)
	switch order := r.URL.Query().Get("order"); order {
	case "", "recent":
		sessions, err = h.store.Sessions().List(limit)
	case "best":
		sessions, err = h.store.Sessions().Best(limit)
	default:
		writeError(w, http.StatusBadRequest, "order must be recent or best")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list sessions")
		return
	}

	resp := listSessionsResponse{Sessions: make([]sessionResponse, 0, len(sessions))}
	for _, s := range sessions {
		resp.Sessions = append(resp.Sessions, toResponse(s))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *SessionHandler) get(w http.ResponseWriter, id string) {
	s, err := h.store.Sessions().GetByID(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "session not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to get session")
		return
	}
	writeJSON(w, http.StatusOK, toResponse(s))
}

func (h *SessionHandler) delete(w http.ResponseWriter, id string) {
	if err := h.store.Sessions().Delete(id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "session not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to delete session")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *SessionHandler) shots(w http.ResponseWriter, id string) {
	if _, err := h.store.Sessions().GetByID(id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "session not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to get session")
		return
	}

	shots, err := h.store.Shots().ListBySession(id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list shots")
		return
	}
	writeJSON(w, http.StatusOK, listShotsResponse{SessionID: id, Shots: shots})
}
