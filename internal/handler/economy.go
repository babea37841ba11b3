package handler

import (
	"net/http"

	"github.com/osse101/CaseBot_Go/internal/domain"
	"github.com/osse101/CaseBot_Go/internal/economy"
	"github.com/osse101/CaseBot_Go/internal/logger"
)

// UserActionRequest identifies the player for open and sell
type UserActionRequest struct {
	UserID int64 `json:"user_id" validate:"required,gt=0"`
}

// InventoryResponse lists a user's holdings
type InventoryResponse struct {
	UserID int64                   `json:"user_id"`
	Items  []domain.InventoryEntry `json:"items"`
}

// TransactionsResponse lists a user's ledger entries
type TransactionsResponse struct {
	UserID       int64                `json:"user_id"`
	Transactions []domain.Transaction `json:"transactions"`
}

// CasesResponse lists the cases on offer
type CasesResponse struct {
	Cases []domain.Case `json:"cases"`
}

// HandleGetCases lists active cases
func HandleGetCases(svc economy.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cases, err := svc.GetCases(r.Context())
		if err != nil {
			respondServiceError(w, r, err)
			return
		}
		respondJSON(w, http.StatusOK, CasesResponse{Cases: cases})
	}
}

// HandleOpenCase buys and opens one case for the user
func HandleOpenCase(svc economy.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caseID, ok := pathID(w, r, "caseID")
		if !ok {
			return
		}
		var req UserActionRequest
		if err := DecodeAndValidateRequest(r, w, &req, "Open case"); err != nil {
			return
		}

		result, err := svc.OpenCase(r.Context(), req.UserID, caseID)
		if err != nil {
			respondServiceError(w, r, err)
			return
		}

		logger.FromContext(r.Context()).Info("Case opened",
			"user_id", req.UserID,
			"case_id", caseID,
			"item_id", result.Item.ID,
			"rarity", result.Item.Rarity)
		respondJSON(w, http.StatusOK, result)
	}
}

// HandleSellItem sells one unit of an item back for its sell price
func HandleSellItem(svc economy.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		itemID, ok := pathID(w, r, "itemID")
		if !ok {
			return
		}
		var req UserActionRequest
		if err := DecodeAndValidateRequest(r, w, &req, "Sell item"); err != nil {
			return
		}

		result, err := svc.SellItem(r.Context(), req.UserID, itemID)
		if err != nil {
			respondServiceError(w, r, err)
			return
		}
		respondJSON(w, http.StatusOK, result)
	}
}
