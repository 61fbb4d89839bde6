package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mkazanov/swapcircle-backend/internal/domain"
	"github.com/mkazanov/swapcircle-backend/internal/usecase/matching"
)

type InterestHandler struct {
	matchingUseCase *matching.MatchingUseCase
}

func NewInterestHandler(matchingUseCase *matching.MatchingUseCase) *InterestHandler {
	return &InterestHandler{
		matchingUseCase: matchingUseCase,
	}
}

// CreateInterestRequest represents an expressed interest
type CreateInterestRequest struct {
	OfferedItemID string `json:"offered_item_id" binding:"required"`
	TargetItemID  string `json:"target_item_id" binding:"required"`
	TargetUserID  string `json:"target_user_id" binding:"required"`
}

// CreateInterestResponse reports whether the interest completed a match
type CreateInterestResponse struct {
	IsMatch bool                     `json:"is_match"`
	Trade   *domain.TradeOpportunity `json:"trade,omitempty"`
}

// CreateInterest handles POST /interests
func (h *InterestHandler) CreateInterest(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
		return
	}

	var req CreateInterestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	trade, err := h.matchingUseCase.RecordInterest(c.Request.Context(), userID, req.OfferedItemID, req.TargetItemID, req.TargetUserID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, CreateInterestResponse{
		IsMatch: trade != nil,
		Trade:   trade,
	})
}

// CreatePassRequest represents a pass on a listing
type CreatePassRequest struct {
	ListingID   string `json:"listing_id" binding:"required"`
	OwnerUserID string `json:"owner_user_id"`
}

// CreatePass handles POST /passes
func (h *InterestHandler) CreatePass(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
		return
	}

	var req CreatePassRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	if err := h.matchingUseCase.RecordPass(c.Request.Context(), userID, req.ListingID, req.OwnerUserID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, SuccessResponse{Message: "pass recorded"})
}

// ResetPasses handles POST /passes/reset
func (h *InterestHandler) ResetPasses(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
		return
	}

	if err := h.matchingUseCase.ResetPasses(c.Request.Context(), userID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Message: "passes reset"})
}

// CheckInterest handles GET /interests/check?listing_id=...
func (h *InterestHandler) CheckInterest(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
		return
	}

	listingID := c.Query("listing_id")
	if listingID == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "listing_id is required"})
		return
	}

	shown, err := h.matchingUseCase.HasShownInterest(c.Request.Context(), userID, listingID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"has_shown_interest": shown})
}
