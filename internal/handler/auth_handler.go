package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/searchly/bff/internal/middleware"
	"github.com/searchly/bff/internal/service"
	"github.com/searchly/bff/internal/utils"
)

type AuthHandler struct {
	authService *service.AuthService
}

func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid request body")
		return
	}

	token, profile, err := h.authService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, utils.ErrInvalidCredentials), errors.Is(err, utils.ErrUserNotRegistered):
			utils.Error(c, 401, "INVALID_CREDENTIALS", "Invalid email or password")
		default:
			utils.Error(c, 502, "BACKEND_UNAVAILABLE", "Authentication service unavailable")
		}
		return
	}

	utils.Success(c, 200, "Login successful", gin.H{
		"token": token,
		"name":  profile.Name,
		"email": profile.Email,
	})
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req struct {
		User struct {
			Name     string `json:"name" binding:"required"`
			Email    string `json:"email" binding:"required,email"`
			Password string `json:"password" binding:"required,min=6"`
		} `json:"user" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid request body")
		return
	}

	token, profile, err := h.authService.Register(c.Request.Context(), req.User.Name, req.User.Email, req.User.Password)
	if err != nil {
		switch {
		case errors.Is(err, utils.ErrUserExists):
			utils.Error(c, 400, "USER_EXISTS", "An account with this email already exists")
		default:
			utils.Error(c, 502, "BACKEND_UNAVAILABLE", "Authentication service unavailable")
		}
		return
	}

	utils.Success(c, 201, "Registered successfully", gin.H{
		"token": token,
		"name":  profile.Name,
		"email": profile.Email,
	})
}

func (h *AuthHandler) Logout(c *gin.Context) {
	email := middleware.UserEmail(c)
	if err := h.authService.Logout(c.Request.Context(), email); err != nil {
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to end session")
		return
	}
	utils.Success(c, 200, "Logged out", nil)
}
