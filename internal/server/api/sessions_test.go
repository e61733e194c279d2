package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ayusman/fingergun/internal/store"
)

// newTestStore creates a Store with a temporary database.
func newTestStore(t *testing.T) *store.Store {
	t.Helper()

	tmpDir, err := os.MkdirTemp("", "fingergun-api-test-*")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(tmpDir) })

	s, err := store.New(filepath.Join(tmpDir, "test.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { s.Close() })

	return s
}

// seed creates a session with the given totals started offset minutes
// after a fixed base time.
func seed(t *testing.T, s *store.Store, id string, score, shots, offset int) *store.Session {
	t.Helper()

	session := &store.Session{
		ID:              id,
		StartedAt:       time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC).Add(time.Duration(offset) * time.Minute),
		Score:           score,
		Shots:           shots,
		TargetRadius:    100,
		RangeMultiplier: 3,
	}
	if err := s.Sessions().Create(session); err != nil {
		t.Fatalf("failed to create session: %v", err)
	}
	return session
}

func get(t *testing.T, h http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestSessionHandler_List(t *testing.T) {
	s := newTestStore(t)
	seed(t, s, "old", 4, 8, 0)
	seed(t, s, "new", 1, 4, 5)
	handler := NewSessionHandler(s)

	rec := get(t, handler, "/api/sessions")

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("expected Content-Type application/json, got %s", ct)
	}

	var response struct {
		Sessions []struct {
			ID       string  `json:"id"`
			Score    int     `json:"score"`
			Accuracy float64 `json:"accuracy"`
		} `json:"sessions"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if len(response.Sessions) != 2 {
		t.Fatalf("expected 2 sessions, got %d", len(response.Sessions))
	}
	if response.Sessions[0].ID != "new" {
		t.Errorf("expected most recent first, got %s", response.Sessions[0].ID)
	}
	if response.Sessions[1].Accuracy != 0.5 {
		t.Errorf("expected accuracy 0.5, got %v", response.Sessions[1].Accuracy)
	}
}

func TestSessionHandler_ListQuery(t *testing.T) {
	s := newTestStore(t)
	seed(t, s, "low", 1, 5, 0)
	seed(t, s, "high", 9, 10, 1)
	seed(t, s, "mid", 5, 5, 2)
	handler := NewSessionHandler(s)

	tests := []struct {
		name     string
		target   string
		wantCode int
		wantIDs  []string
	}{
		{"best order", "/api/sessions?order=best", http.StatusOK, []string{"high", "mid", "low"}},
		{"limit", "/api/sessions?limit=1", http.StatusOK, []string{"mid"}},
		{"best with limit", "/api/sessions?order=best&limit=2", http.StatusOK, []string{"high", "mid"}},
		{"bad limit", "/api/sessions?limit=zero", http.StatusBadRequest, nil},
		{"negative limit", "/api/sessions?limit=-3", http.StatusBadRequest, nil},
		{"bad order", "/api/sessions?order=worst", http.StatusBadRequest, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := get(t, handler, tt.target)
			if rec.Code != tt.wantCode {
				t.Fatalf("expected status %d, got %d", tt.wantCode, rec.Code)
			}
			if tt.wantIDs == nil {
				return
			}

			var response listSessionsResponse
			if err := json.NewDecoder(rec.Body).Decode(&response); err != nil {
				t.Fatalf("failed to decode response: %v", err)
			}
			if len(response.Sessions) != len(tt.wantIDs) {
				t.Fatalf("expected %d sessions, got %d", len(tt.wantIDs), len(response.Sessions))
			}
			for i, id := range tt.wantIDs {
				if response.Sessions[i].ID != id {
					t.Errorf("sessions[%d] = %s, want %s", i, response.Sessions[i].ID, id)
				}
			}
		})
	}
}

func TestSessionHandler_ListEmpty(t *testing.T) {
	handler := NewSessionHandler(newTestStore(t))

	rec := get(t, handler, "/api/sessions")

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rec.Code)
	}
	var raw map[string]json.RawMessage
	if err := json.NewDecoder(rec.Body).Decode(&raw); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if string(raw["sessions"]) != "[]" {
		t.Errorf("expected empty array, got %s", raw["sessions"])
	}
}

func TestSessionHandler_Get(t *testing.T) {
	s := newTestStore(t)
	seed(t, s, "round-1", 2, 3, 0)
	handler := NewSessionHandler(s)

	t.Run("existing session", func(t *testing.T) {
		rec := get(t, handler, "/api/sessions/round-1")
		if rec.Code != http.StatusOK {
			t.Fatalf("expected status %d, got %d", http.StatusOK, rec.Code)
		}

		var response struct {
			ID           string  `json:"id"`
			Score        int     `json:"score"`
			Shots        int     `json:"shots"`
			TargetRadius float64 `json:"targetRadius"`
		}
		if err := json.NewDecoder(rec.Body).Decode(&response); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if response.ID != "round-1" || response.Score != 2 || response.Shots != 3 || response.TargetRadius != 100 {
			t.Errorf("unexpected session %+v", response)
		}
	})

	t.Run("missing session", func(t *testing.T) {
		rec := get(t, handler, "/api/sessions/nope")
		if rec.Code != http.StatusNotFound {
			t.Errorf("expected status %d, got %d", http.StatusNotFound, rec.Code)
		}
	})

	t.Run("unknown subresource", func(t *testing.T) {
		rec := get(t, handler, "/api/sessions/round-1/targets")
		if rec.Code != http.StatusNotFound {
			t.Errorf("expected status %d, got %d", http.StatusNotFound, rec.Code)
		}
	})
}

func TestSessionHandler_Shots(t *testing.T) {
	s := newTestStore(t)
	session := seed(t, s, "round-1", 1, 2, 0)
	for _, hit := range []bool{false, true} {
		if err := s.Shots().Record(&store.Shot{SessionID: session.ID, Hit: hit, Angle: 12.5}); err != nil {
			t.Fatalf("failed to record shot: %v", err)
		}
	}
	handler := NewSessionHandler(s)

	rec := get(t, handler, "/api/sessions/round-1/shots")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rec.Code)
	}

	var response listShotsResponse
	if err := json.NewDecoder(rec.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if response.SessionID != "round-1" {
		t.Errorf("sessionId = %s, want round-1", response.SessionID)
	}
	if len(response.Shots) != 2 {
		t.Fatalf("expected 2 shots, got %d", len(response.Shots))
	}
	if response.Shots[0].Hit || !response.Shots[1].Hit {
		t.Errorf("shots out of order: %+v", response.Shots)
	}

	if rec := get(t, handler, "/api/sessions/nope/shots"); rec.Code != http.StatusNotFound {
		t.Errorf("shots of missing session: expected status %d, got %d", http.StatusNotFound, rec.Code)
	}
}

func TestSessionHandler_Delete(t *testing.T) {
	s := newTestStore(t)
	seed(t, s, "round-1", 0, 0, 0)
	handler := NewSessionHandler(s)

	req := httptest.NewRequest(http.MethodDelete, "/api/sessions/round-1", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected status %d, got %d", http.StatusNoContent, rec.Code)
	}

	req = httptest.NewRequest(http.MethodDelete, "/api/sessions/round-1", nil)
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Errorf("second delete: expected status %d, got %d", http.StatusNotFound, rec.Code)
	}
}

func TestSessionHandler_MethodNotAllowed(t *testing.T) {
	handler := NewSessionHandler(newTestStore(t))

	tests := []struct {
		method string
		target string
	}{
		{http.MethodPost, "/api/sessions"},
		{http.MethodPut, "/api/sessions/x"},
		{http.MethodPost, "/api/sessions/x/shots"},
	}
	for _, tt := range tests {
		req := httptest.NewRequest(tt.method, tt.target, nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		if rec.Code != http.StatusMethodNotAllowed {
			t.Errorf("%s %s: expected status %d, got %d", tt.method, tt.target, http.StatusMethodNotAllowed, rec.Code)
		}
	}
}
