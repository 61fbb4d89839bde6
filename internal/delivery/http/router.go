package http

import (
	"github.com/gin-gonic/gin"
	"github.com/mkazanov/swapcircle-backend/internal/delivery/http/handler"
	"github.com/mkazanov/swapcircle-backend/internal/delivery/http/middleware"
)

type Router struct {
	authHandler        *handler.AuthHandler
	listingHandler     *handler.ListingHandler
	feedHandler        *handler.FeedHandler
	interestHandler    *handler.InterestHandler
	tradeHandler       *handler.TradeHandler
	preferencesHandler *handler.PreferencesHandler
	authMiddleware     *middleware.AuthMiddleware
}

func NewRouter(
	authHandler *handler.AuthHandler,
	listingHandler *handler.ListingHandler,
	feedHandler *handler.FeedHandler,
	interestHandler *handler.InterestHandler,
	tradeHandler *handler.TradeHandler,
	preferencesHandler *handler.PreferencesHandler,
	authMiddleware *middleware.AuthMiddleware,
) *Router {
	return &Router{
		authHandler:        authHandler,
		listingHandler:     listingHandler,
		feedHandler:        feedHandler,
		interestHandler:    interestHandler,
		tradeHandler:       tradeHandler,
		preferencesHandler: preferencesHandler,
		authMiddleware:     authMiddleware,
	}
}

func (r *Router) Setup() *gin.Engine {
	router := gin.Default()

	// Health check (supports both GET and HEAD)
	healthHandler := func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status": "ok",
		})
	}
	router.GET("/health", healthHandler)
	router.HEAD("/health", healthHandler)

	// API v1
	v1 := router.Group("/api/v1")
	{
		// Auth routes (public)
		auth := v1.Group("/auth")
		{
			auth.POST("/register", r.authHandler.Register)
			auth.POST("/login", r.authHandler.Login)
			auth.POST("/logout", r.authMiddleware.RequireAuth(), r.authHandler.Logout)
			auth.GET("/me", r.authMiddleware.RequireAuth(), r.authHandler.Me)
		}

		// Protected routes
		protected := v1.Group("")
		protected.Use(r.authMiddleware.RequireAuth())
		{
			// Listing routes
			listings := protected.Group("/listings")
			{
				listings.POST("", r.listingHandler.Create)
				listings.GET("/mine", r.listingHandler.ListMine)
				listings.GET("/:id", r.listingHandler.Get)
				listings.POST("/:id/archive", r.listingHandler.Archive)
			}

			// Feed routes
			feed := protected.Group("/feed")
			{
				feed.GET("/next", r.feedHandler.GetNext)
			}

			// Interest / pass routes
			interests := protected.Group("/interests")
			{
				interests.POST("", r.interestHandler.CreateInterest)
				interests.GET("/check", r.interestHandler.CheckInterest)
			}
			passes := protected.Group("/passes")
			{
				passes.POST("", r.interestHandler.CreatePass)
				passes.POST("/reset", r.interestHandler.ResetPasses)
			}

			// Trade opportunity routes
			trades := protected.Group("/trades")
			{
				trades.GET("", r.tradeHandler.ListTrades)
				trades.GET("/:id", r.tradeHandler.GetTrade)
				trades.PATCH("/:id/status", r.tradeHandler.UpdateTradeStatus)
			}

			// Preference routes
			prefs := protected.Group("/preferences")
			{
				prefs.GET("/favorites", r.preferencesHandler.GetFavorites)
				prefs.POST("/favorites/toggle", r.preferencesHandler.ToggleFavorite)
				prefs.GET("/selected-trade-item", r.preferencesHandler.GetSelectedTradeItem)
				prefs.PUT("/selected-trade-item", r.preferencesHandler.SetSelectedTradeItem)
				prefs.DELETE("/selected-trade-item", r.preferencesHandler.ClearSelectedTradeItem)
				prefs.GET("/filters", r.preferencesHandler.GetFilters)
				prefs.PATCH("/filters", r.preferencesHandler.UpdateFilters)
				prefs.GET("/view-mode", r.preferencesHandler.GetViewMode)
				prefs.PUT("/view-mode", r.preferencesHandler.SetViewMode)
				prefs.GET("/theme", r.preferencesHandler.GetTheme)
				prefs.PUT("/theme", r.preferencesHandler.SetTheme)
			}
		}
	}

	return router
}
