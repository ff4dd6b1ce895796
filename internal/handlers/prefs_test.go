package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"testing"
	"time"

	"timetrack/internal/models"
	"timetrack/internal/service"
)

func TestGetPreference(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		prefs := &mockPreferences{
			pref: &models.Preference{
				UserID:    1,
				Key:       "fold_state",
				Value:     json.RawMessage(`{"open":true}`),
				UpdatedAt: time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC),
			},
		}
		r := newTestRouter(&service.Service{
			Authorization: &mockAuth{parseID: 1},
			Preferences:   prefs,
		})

		w := performRequest(r, http.MethodGet, "/api/v1/prefs/fold_state", "tok", "")

		if w.Code != http.StatusOK {
			t.Fatalf("status: got %d, body=%s", w.Code, w.Body.String())
		}

		var resp struct {
			Key   string          `json:"key"`
			Value json.RawMessage `json:"value"`
		}
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		if resp.Key != "fold_state" || string(resp.Value) != `{"open":true}` {
			t.Fatalf("unexpected response: %+v", resp)
		}
	})

	t.Run("not set", func(t *testing.T) {
		r := newTestRouter(&service.Service{
			Authorization: &mockAuth{parseID: 1},
			Preferences:   &mockPreferences{},
		})

		w := performRequest(r, http.MethodGet, "/api/v1/prefs/missing", "tok", "")

		if w.Code != http.StatusNotFound {
			t.Fatalf("status: got %d, want 404; body=%s", w.Code, w.Body.String())
		}
	})

	t.Run("service error", func(t *testing.T) {
		prefs := &mockPreferences{getErr: errors.New("db down")}
		r := newTestRouter(&service.Service{
			Authorization: &mockAuth{parseID: 1},
			Preferences:   prefs,
		})

		w := performRequest(r, http.MethodGet, "/api/v1/prefs/fold_state", "tok", "")

		if w.Code != http.StatusInternalServerError {
			t.Fatalf("status: got %d, want 500; body=%s", w.Code, w.Body.String())
		}
	})
}

func TestSetPreference(t *testing.T) {
	t.Run("stores body verbatim", func(t *testing.T) {
		prefs := &mockPreferences{}
		r := newTestRouter(&service.Service{
			Authorization: &mockAuth{parseID: 1},
			Preferences:   prefs,
		})

		w := performRequest(r, http.MethodPut, "/api/v1/prefs/fold_state", "tok", `{"open":false}`)

		if w.Code != http.StatusOK {
			t.Fatalf("status: got %d, body=%s", w.Code, w.Body.String())
		}
		if prefs.lastSetKey != "fold_state" {
			t.Fatalf("key: got %q, want %q", prefs.lastSetKey, "fold_state")
		}
		if string(prefs.lastSetValue) != `{"open":false}` {
			t.Fatalf("value: got %q", prefs.lastSetValue)
		}
	})

	t.Run("service rejection is a bad request", func(t *testing.T) {
		prefs := &mockPreferences{setErr: errors.New("preference value is not valid JSON")}
		r := newTestRouter(&service.Service{
			Authorization: &mockAuth{parseID: 1},
			Preferences:   prefs,
		})

		w := performRequest(r, http.MethodPut, "/api/v1/prefs/fold_state", "tok", `{"open":`)

		if w.Code != http.StatusBadRequest {
			t.Fatalf("status: got %d, want 400; body=%s", w.Code, w.Body.String())
		}
	})
}
