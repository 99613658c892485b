package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/arigopay/backend/internal/logger"
	"github.com/arigopay/backend/internal/middleware"
	"github.com/arigopay/backend/internal/services"
	"github.com/go-chi/chi/v5"
)

type AccountHandler struct {
	service *services.AccountService
}

func NewAccountHandler(service *services.AccountService) *AccountHandler {
	return &AccountHandler{service: service}
}

// GetAccount returns the caller's balance
// @Summary Get account
// @Description Balance and saved-card state of the authenticated user
// @Tags Account
// @Produce json
// @Security BearerAuth
// @Success 200 {object} services.AccountSummary
// @Failure 401 {object} services.ErrorResponse
// @Failure 404 {object} services.ErrorResponse
// @Failure 500 {object} services.ErrorResponse
// @Router /api/v1/account [get]
func (h *AccountHandler) GetAccount(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		services.SendErrorResponse(w, "Unauthorized", http.StatusUnauthorized, nil)
		return
	}

	summary, err := h.service.GetAccount(r.Context(), userID)
	if services.IsNotFound(err) {
		services.SendErrorResponse(w, "Account not found", http.StatusNotFound, nil)
		return
	}
	if err != nil {
		logger.Errorf("[ACCOUNT] Failed to load account %s: %v", userID, err)
		services.SendErrorResponse(w, "Failed to load account", http.StatusInternalServerError, nil)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(summary)
}

// GetTransaction returns the settlement status of one of the caller's transactions
// @Summary Get transaction
// @Tags Account
// @Produce json
// @Security BearerAuth
// @Param reference path string true "Provider reference"
// @Success 200 {object} models.Transaction
// @Failure 401 {object} services.ErrorResponse
// @Failure 404 {object} services.ErrorResponse
// @Failure 500 {object} services.ErrorResponse
// @Router /api/v1/transactions/{reference} [get]
func (h *AccountHandler) GetTransaction(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		services.SendErrorResponse(w, "Unauthorized", http.StatusUnauthorized, nil)
		return
	}

	reference := chi.URLParam(r, "reference")
	tx, err := h.service.GetTransaction(r.Context(), userID, reference)
	if services.IsNotFound(err) {
		services.SendErrorResponse(w, "Transaction not found", http.StatusNotFound, nil)
		return
	}
	if err != nil {
		logger.Errorf("[ACCOUNT] Failed to load transaction %s: %v", reference, err)
		services.SendErrorResponse(w, "Failed to load transaction", http.StatusInternalServerError, nil)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(tx)
}
