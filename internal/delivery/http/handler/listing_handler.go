package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mkazanov/swapcircle-backend/internal/usecase/listing"
)

type ListingHandler struct {
	listingUseCase *listing.ListingUseCase
}

func NewListingHandler(listingUseCase *listing.ListingUseCase) *ListingHandler {
	return &ListingHandler{
		listingUseCase: listingUseCase,
	}
}

// Create handles POST /listings
func (h *ListingHandler) Create(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
		return
	}

	var req listing.CreateListingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	created, err := h.listingUseCase.Create(c.Request.Context(), userID, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, created)
}

// Get handles GET /listings/:id
func (h *ListingHandler) Get(c *gin.Context) {
	result, err := h.listingUseCase.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// ListMine handles GET /listings/mine
func (h *ListingHandler) ListMine(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
		return
	}

	listings, err := h.listingUseCase.ListMine(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"listings": listings, "total": len(listings)})
}

// Archive handles POST /listings/:id/archive
func (h *ListingHandler) Archive(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
		return
	}

	if err := h.listingUseCase.Archive(c.Request.Context(), userID, c.Param("id")); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Message: "listing archived"})
}
