package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/arigopay/backend/internal/middleware"
	"github.com/arigopay/backend/internal/models"
	"github.com/arigopay/backend/internal/services"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAccountRouter(store *memStore) http.Handler {
	h := NewAccountHandler(services.NewAccountService(store))
	r := chi.NewRouter()
	r.Get("/account", h.GetAccount)
	r.Get("/transactions/{reference}", h.GetTransaction)
	return r
}

func authedRequest(path, userID string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if userID != "" {
		req = req.WithContext(middleware.WithUserID(req.Context(), userID))
	}
	return req
}

func TestAccountHandler_GetAccount(t *testing.T) {
	store := newMemStore()
	store.addUser("user-1", 250050)
	store.authCodes["user-1"] = "AUTH_abc"
	router := newAccountRouter(store)

	t.Run("own account", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, authedRequest("/account", "user-1"))

		require.Equal(t, http.StatusOK, w.Code)
		var summary services.AccountSummary
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &summary))
		assert.Equal(t, "user-1", summary.UserID)
		assert.Equal(t, 2500.50, summary.Balance)
		assert.True(t, summary.HasSavedAuthorization)
		assert.NotContains(t, w.Body.String(), "AUTH_abc")
	})

	t.Run("unknown user", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, authedRequest("/account", "user-404"))
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("no identity", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, authedRequest("/account", ""))
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestAccountHandler_GetTransaction(t *testing.T) {
	store := newMemStore()
	store.addUser("user-1", 0)
	store.addUser("user-2", 0)
	store.addTransaction("ref_mine", "user-1", models.TransactionStatusCompleted)
	router := newAccountRouter(store)

	t.Run("owner sees status", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, authedRequest("/transactions/ref_mine", "user-1"))

		require.Equal(t, http.StatusOK, w.Code)
		var tx models.Transaction
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &tx))
		assert.Equal(t, "ref_mine", tx.Reference)
		assert.Equal(t, models.TransactionStatusCompleted, tx.Status)
	})

	t.Run("other user gets 404", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, authedRequest("/transactions/ref_mine", "user-2"))
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("unknown reference", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, authedRequest("/transactions/ref_missing", "user-1"))
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestHealthHandler(t *testing.T) {
	t.Run("all dependencies up", func(t *testing.T) {
		h := NewHealthHandler(map[string]HealthCheck{
			"postgres": func(context.Context) error { return nil },
		})
		w := httptest.NewRecorder()
		h.Health(w, httptest.NewRequest(http.MethodGet, "/health", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"status":"healthy","checks":{"postgres":"ok"}}`, w.Body.String())
	})

	t.Run("dependency down", func(t *testing.T) {
		h := NewHealthHandler(map[string]HealthCheck{
			"postgres": func(context.Context) error { return nil },
			"redis":    func(context.Context) error { return errors.New("dial tcp: refused") },
		})
		w := httptest.NewRecorder()
		h.Health(w, httptest.NewRequest(http.MethodGet, "/health", nil))

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		assert.Contains(t, w.Body.String(), `"status":"unhealthy"`)
		assert.Contains(t, w.Body.String(), "dial tcp: refused")
	})

	t.Run("no checks", func(t *testing.T) {
		w := httptest.NewRecorder()
		NewHealthHandler(nil).Health(w, httptest.NewRequest(http.MethodGet, "/health", nil))
		assert.JSONEq(t, `{"status":"healthy"}`, w.Body.String())
	})
}
