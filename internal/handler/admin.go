package handler

import (
	"net/http"

	"github.com/osse101/CaseBot_Go/internal/admin"
	"github.com/osse101/CaseBot_Go/internal/logger"
	"github.com/osse101/CaseBot_Go/internal/user"
)

// AdminDialogRequest feeds one line into the admin's dialog
type AdminDialogRequest struct {
	AdminID int64  `json:"admin_id" validate:"required,gt=0"`
	Input   string `json:"input" validate:"max=256"`
}

// AdminBalanceRequest adjusts a balance in one call
type AdminBalanceRequest struct {
	AdminID int64  `json:"admin_id" validate:"required,gt=0"`
	UserID  int64  `json:"user_id" validate:"required,gt=0"`
	Amount  int64  `json:"amount" validate:"ne=0"`
	Reason  string `json:"reason" validate:"notblank,max=200"`
}

// AdminResetRequest identifies the admin asking for a reset
type AdminResetRequest struct {
	AdminID int64 `json:"admin_id" validate:"required,gt=0"`
}

// AdminResetResponse reports how many accounts were reset
type AdminResetResponse struct {
	Message       string `json:"message"`
	UsersAffected int64  `json:"users_affected"`
}

// AdminStatsResponse combines economy totals with cache counters
type AdminStatsResponse struct {
	Economy       interface{}     `json:"economy"`
	IdentityCache user.CacheStats `json:"identity_cache"`
}

// AdminHandler serves the admin routes
type AdminHandler struct {
	admin admin.Service
	users user.Service
}

// NewAdminHandler creates the admin handler
func NewAdminHandler(adminService admin.Service, userService user.Service) *AdminHandler {
	return &AdminHandler{admin: adminService, users: userService}
}

// HandleDialog advances the interactive balance adjustment flow
func (h *AdminHandler) HandleDialog(w http.ResponseWriter, r *http.Request) {
	var req AdminDialogRequest
	if err := DecodeAndValidateRequest(r, w, &req, "Admin dialog"); err != nil {
		return
	}
	reply, err := h.admin.HandleDialog(r.Context(), req.AdminID, req.Input)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, reply)
}

// HandleAdjustBalance credits or debits a user directly
func (h *AdminHandler) HandleAdjustBalance(w http.ResponseWriter, r *http.Request) {
	var req AdminBalanceRequest
	if err := DecodeAndValidateRequest(r, w, &req, "Adjust balance"); err != nil {
		return
	}
	adj, err := h.admin.AdjustBalance(r.Context(), req.AdminID, req.UserID, req.Amount, req.Reason)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	logger.FromContext(r.Context()).Info("Balance adjusted",
		"admin_id", req.AdminID, "user_id", req.UserID, "amount", req.Amount)
	respondJSON(w, http.StatusOK, adj)
}

// HandleReset wipes every account back to the starting balance
func (h *AdminHandler) HandleReset(w http.ResponseWriter, r *http.Request) {
	var req AdminResetRequest
	if err := DecodeAndValidateRequest(r, w, &req, "Reset economy"); err != nil {
		return
	}
	affected, err := h.admin.ResetAll(r.Context(), req.AdminID)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	logger.FromContext(r.Context()).Warn("Economy reset", "admin_id", req.AdminID, "users_affected", affected)
	respondJSON(w, http.StatusOK, AdminResetResponse{Message: MsgEconomyReset, UsersAffected: affected})
}

// HandleStats returns economy-wide totals; admin_id comes from the query
func (h *AdminHandler) HandleStats(w http.ResponseWriter, r *http.Request) {
	adminID, ok := queryID(w, r, "admin_id")
	if !ok {
		return
	}
	stats, err := h.admin.SystemStats(r.Context(), adminID)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, AdminStatsResponse{Economy: stats, IdentityCache: h.users.CacheStats()})
}
