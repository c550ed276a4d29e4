package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/searchly/bff/internal/middleware"
	"github.com/searchly/bff/internal/service"
	"github.com/searchly/bff/internal/utils"
)

// FavouriteHandler serves the favourites listing and the optimistic toggle.
type FavouriteHandler struct {
	favouriteService *service.FavouriteService
}

// NewFavouriteHandler constructs a FavouriteHandler.
func NewFavouriteHandler(favouriteService *service.FavouriteService) *FavouriteHandler {
	return &FavouriteHandler{favouriteService: favouriteService}
}

// List returns the authoritative favourite set for the user.
func (h *FavouriteHandler) List(c *gin.Context) {
	email := middleware.UserEmail(c)

	favourites, err := h.favouriteService.List(c.Request.Context(), email)
	if err != nil {
		if errors.Is(err, utils.ErrMissingIdentity) {
			utils.Error(c, 401, "MISSING_IDENTITY", "No user session")
			return
		}
		utils.Error(c, 502, "BACKEND_UNAVAILABLE", "Failed to fetch favourites")
		return
	}

	utils.Success(c, 200, "Favourites retrieved successfully", gin.H{
		"favourites": favourites,
		"total":      len(favourites),
	})
}

// Toggle flips the favourite state of a catalog product. The response
// reflects the optimistic local state; the backend confirmation happens
// asynchronously, with rollback on failure.
func (h *FavouriteHandler) Toggle(c *gin.Context) {
	var req struct {
		URL string `json:"url" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid request body")
		return
	}

	email := middleware.UserEmail(c)
	product, _, err := h.favouriteService.Toggle(c.Request.Context(), email, req.URL)
	if err != nil {
		switch {
		case errors.Is(err, utils.ErrMissingIdentity):
			utils.Error(c, 401, "MISSING_IDENTITY", "No user session")
		case errors.Is(err, utils.ErrProductNotFound):
			utils.Error(c, 404, "PRODUCT_NOT_FOUND", "Product not in the current catalog")
		default:
			utils.Error(c, 500, "INTERNAL_ERROR", "Failed to toggle favourite")
		}
		return
	}

	utils.Success(c, 200, "Favourite updated", gin.H{
		"product": product,
	})
}

// Remove deletes a favourite and returns the updated set.
func (h *FavouriteHandler) Remove(c *gin.Context) {
	var req struct {
		URL string `json:"url" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid request body")
		return
	}

	email := middleware.UserEmail(c)
	favourites, err := h.favouriteService.Remove(c.Request.Context(), email, req.URL)
	if err != nil {
		if errors.Is(err, utils.ErrMissingIdentity) {
			utils.Error(c, 401, "MISSING_IDENTITY", "No user session")
			return
		}
		utils.Error(c, 502, "BACKEND_UNAVAILABLE", "Failed to remove favourite")
		return
	}

	utils.Success(c, 200, "Favourite removed", gin.H{
		"favourites": favourites,
		"total":      len(favourites),
	})
}
