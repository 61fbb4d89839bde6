package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mkazanov/swapcircle-backend/internal/usecase/auth"
)

type AuthHandler struct {
	authUseCase *auth.AuthUseCase
}

func NewAuthHandler(authUseCase *auth.AuthUseCase) *AuthHandler {
	return &AuthHandler{
		authUseCase: authUseCase,
	}
}

// RegisterRequest represents a registration request
type RegisterRequest struct {
	Email       string `json:"email" binding:"required,email"`
	Password    string `json:"password" binding:"required,min=8"`
	DisplayName string `json:"display_name" binding:"required"`
}

// LoginRequest represents a login request
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Register handles POST /auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	deviceInfo := c.GetHeader("User-Agent")
	ipAddress := c.ClientIP()

	result, err := h.authUseCase.Register(c.Request.Context(), req.Email, req.Password, req.DisplayName, deviceInfo, ipAddress)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, result)
}

// Login handles POST /auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	deviceInfo := c.GetHeader("User-Agent")
	ipAddress := c.ClientIP()

	result, err := h.authUseCase.Login(c.Request.Context(), req.Email, req.Password, deviceInfo, ipAddress)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// Logout handles POST /auth/logout. Besides invalidating the session it
// clears the user's scoped preferences (favorites, selected trade item,
// filters).
func (h *AuthHandler) Logout(c *gin.Context) {
	token, exists := c.Get("token")
	if !exists {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
		return
	}

	if err := h.authUseCase.Logout(c.Request.Context(), token.(string)); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Message: "logged out successfully"})
}

// Me returns current user info
func (h *AuthHandler) Me(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"user_id": userID})
}
