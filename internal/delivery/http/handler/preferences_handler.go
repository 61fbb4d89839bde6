package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mkazanov/swapcircle-backend/internal/domain"
	"github.com/mkazanov/swapcircle-backend/internal/usecase/preferences"
)

type PreferencesHandler struct {
	prefsUseCase *preferences.PreferencesUseCase
}

func NewPreferencesHandler(prefsUseCase *preferences.PreferencesUseCase) *PreferencesHandler {
	return &PreferencesHandler{
		prefsUseCase: prefsUseCase,
	}
}

// GetFavorites handles GET /preferences/favorites
func (h *PreferencesHandler) GetFavorites(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
		return
	}

	favorites := h.prefsUseCase.Favorites(c.Request.Context(), userID)
	c.JSON(http.StatusOK, gin.H{"favorites": favorites, "total": len(favorites)})
}

// ToggleFavoriteRequest represents a favorite toggle
type ToggleFavoriteRequest struct {
	ListingID string `json:"listing_id" binding:"required"`
}

// ToggleFavorite handles POST /preferences/favorites/toggle
func (h *PreferencesHandler) ToggleFavorite(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
		return
	}

	var req ToggleFavoriteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	isFavorite := h.prefsUseCase.ToggleFavorite(c.Request.Context(), userID, req.ListingID)
	c.JSON(http.StatusOK, gin.H{"listing_id": req.ListingID, "is_favorite": isFavorite})
}

// GetSelectedTradeItem handles GET /preferences/selected-trade-item.
// While the preference is still loading the client must not prompt the
// user to pick an item; "loaded" distinguishes that from "nothing
// selected".
func (h *PreferencesHandler) GetSelectedTradeItem(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
		return
	}

	item, loaded := h.prefsUseCase.SelectedTradeItem(c.Request.Context(), userID)
	c.JSON(http.StatusOK, gin.H{"item": item, "loaded": loaded})
}

// SetSelectedTradeItem handles PUT /preferences/selected-trade-item
func (h *PreferencesHandler) SetSelectedTradeItem(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
		return
	}

	var item domain.ListingSummary
	if err := c.ShouldBindJSON(&item); err != nil || item.ID == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	h.prefsUseCase.SelectTradeItem(c.Request.Context(), userID, item)
	c.JSON(http.StatusOK, SuccessResponse{Message: "trade item selected"})
}

// ClearSelectedTradeItem handles DELETE /preferences/selected-trade-item
func (h *PreferencesHandler) ClearSelectedTradeItem(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
		return
	}

	h.prefsUseCase.ClearSelectedTradeItem(c.Request.Context(), userID)
	c.JSON(http.StatusOK, SuccessResponse{Message: "trade item cleared"})
}

// GetFilters handles GET /preferences/filters
func (h *PreferencesHandler) GetFilters(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
		return
	}

	c.JSON(http.StatusOK, h.prefsUseCase.Filters(c.Request.Context(), userID))
}

// UpdateFilters handles PATCH /preferences/filters. Only the fields present
// in the body change; the rest keep their stored values.
func (h *PreferencesHandler) UpdateFilters(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
		return
	}

	var upd domain.FilterPreferencesUpdate
	if err := c.ShouldBindJSON(&upd); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	c.JSON(http.StatusOK, h.prefsUseCase.UpdateFilters(c.Request.Context(), userID, upd))
}

// GetViewMode handles GET /preferences/view-mode
func (h *PreferencesHandler) GetViewMode(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"view_mode": h.prefsUseCase.ViewMode(c.Request.Context())})
}

// SetViewModeRequest represents the view-mode update
type SetViewModeRequest struct {
	ViewMode domain.ViewMode `json:"view_mode" binding:"required,oneof=swipe grid map"`
}

// SetViewMode handles PUT /preferences/view-mode
func (h *PreferencesHandler) SetViewMode(c *gin.Context) {
	var req SetViewModeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	if err := h.prefsUseCase.SetViewMode(c.Request.Context(), req.ViewMode); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, SuccessResponse{Message: "view mode updated"})
}

// GetTheme handles GET /preferences/theme
func (h *PreferencesHandler) GetTheme(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"theme": h.prefsUseCase.Theme(c.Request.Context())})
}

// SetThemeRequest represents the theme update
type SetThemeRequest struct {
	Theme domain.ThemeMode `json:"theme" binding:"required,oneof=light dark"`
}

// SetTheme handles PUT /preferences/theme
func (h *PreferencesHandler) SetTheme(c *gin.Context) {
	var req SetThemeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	if err := h.prefsUseCase.SetTheme(c.Request.Context(), req.Theme); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, SuccessResponse{Message: "theme updated"})
}
