package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/mkazanov/swapcircle-backend/internal/usecase/feed"
)

type FeedHandler struct {
	feedUseCase *feed.FeedUseCase
}

func NewFeedHandler(feedUseCase *feed.FeedUseCase) *FeedHandler {
	return &FeedHandler{
		feedUseCase: feedUseCase,
	}
}

// GetNext handles GET /feed/next?lat=..&lon=..&limit=..
func (h *FeedHandler) GetNext(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
		return
	}

	limit := 1
	if raw := c.Query("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 && parsed <= 50 {
			limit = parsed
		}
	}

	var lat, lon *float64
	if rawLat, rawLon := c.Query("lat"), c.Query("lon"); rawLat != "" && rawLon != "" {
		parsedLat, errLat := strconv.ParseFloat(rawLat, 64)
		parsedLon, errLon := strconv.ParseFloat(rawLon, 64)
		if errLat == nil && errLon == nil {
			lat, lon = &parsedLat, &parsedLon
		}
	}

	listings, err := h.feedUseCase.GetNextListings(c.Request.Context(), userID, lat, lon, limit)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"listings": listings, "total": len(listings)})
}
