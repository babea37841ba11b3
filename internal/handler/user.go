package handler

import (
	"net/http"

	"github.com/osse101/CaseBot_Go/internal/domain"
	"github.com/osse101/CaseBot_Go/internal/economy"
	"github.com/osse101/CaseBot_Go/internal/logger"
	"github.com/osse101/CaseBot_Go/internal/user"
)

// RegisterUserRequest is the first-contact call from the chat layer
type RegisterUserRequest struct {
	UserID   int64  `json:"user_id" validate:"required,gt=0"`
	Username string `json:"username" validate:"max=64,username"`
}

// RegisterUserResponse wraps the snapshot with whether it was just created
type RegisterUserResponse struct {
	Created bool `json:"created"`
	*domain.UserSnapshot
}

// HandleRegisterUser creates an account on first contact and refreshes it
// afterwards. 201 on creation, 200 otherwise.
func HandleRegisterUser(svc user.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req RegisterUserRequest
		if err := DecodeAndValidateRequest(r, w, &req, "Register user"); err != nil {
			return
		}

		snapshot, created, err := svc.Register(r.Context(), req.UserID, req.Username)
		if err != nil {
			respondServiceError(w, r, err)
			return
		}

		status := http.StatusOK
		if created {
			status = http.StatusCreated
			logger.FromContext(r.Context()).Info("User registered", "user_id", req.UserID)
		}
		respondJSON(w, status, RegisterUserResponse{Created: created, UserSnapshot: snapshot})
	}
}

// HandleGetUser returns balance, experience, level and openings
func HandleGetUser(svc economy.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := pathID(w, r, "userID")
		if !ok {
			return
		}
		snapshot, err := svc.GetUserSnapshot(r.Context(), userID)
		if err != nil {
			respondServiceError(w, r, err)
			return
		}
		respondJSON(w, http.StatusOK, snapshot)
	}
}

// HandleGetInventory lists the items a user holds
func HandleGetInventory(svc economy.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := pathID(w, r, "userID")
		if !ok {
			return
		}
		entries, err := svc.GetInventory(r.Context(), userID)
		if err != nil {
			respondServiceError(w, r, err)
			return
		}
		respondJSON(w, http.StatusOK, InventoryResponse{UserID: userID, Items: entries})
	}
}

// HandleGetTransactions returns the newest ledger entries first
func HandleGetTransactions(svc economy.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := pathID(w, r, "userID")
		if !ok {
			return
		}
		limit, ok := queryLimit(w, r)
		if !ok {
			return
		}
		txns, err := svc.GetTransactions(r.Context(), userID, limit)
		if err != nil {
			respondServiceError(w, r, err)
			return
		}
		respondJSON(w, http.StatusOK, TransactionsResponse{UserID: userID, Transactions: txns})
	}
}
