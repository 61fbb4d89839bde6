package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mkazanov/swapcircle-backend/internal/domain"
	"github.com/mkazanov/swapcircle-backend/internal/usecase/matching"
)

type TradeHandler struct {
	matchingUseCase *matching.MatchingUseCase
}

func NewTradeHandler(matchingUseCase *matching.MatchingUseCase) *TradeHandler {
	return &TradeHandler{
		matchingUseCase: matchingUseCase,
	}
}

// ListTrades handles GET /trades
func (h *TradeHandler) ListTrades(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
		return
	}

	trades, err := h.matchingUseCase.GetTradeOpportunities(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"trades": trades, "total": len(trades)})
}

// GetTrade handles GET /trades/:id
func (h *TradeHandler) GetTrade(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
		return
	}

	trade, err := h.matchingUseCase.GetTradeOpportunity(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	// Opportunities are visible to their two parties only.
	if !trade.HasUser(userID) {
		c.JSON(http.StatusForbidden, ErrorResponse{Error: domain.ErrNotAuthorized.Error()})
		return
	}

	c.JSON(http.StatusOK, trade)
}

// UpdateTradeStatusRequest represents a status transition
type UpdateTradeStatusRequest struct {
	Status domain.TradeStatus `json:"status" binding:"required,oneof=pending negotiating completed declined"`
}

// UpdateTradeStatus handles PATCH /trades/:id/status
func (h *TradeHandler) UpdateTradeStatus(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
		return
	}

	var req UpdateTradeStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	if err := h.matchingUseCase.UpdateTradeStatus(c.Request.Context(), userID, c.Param("id"), req.Status); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Message: "status updated"})
}
