package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/searchly/bff/internal/middleware"
	"github.com/searchly/bff/internal/models"
	"github.com/searchly/bff/internal/service"
	"github.com/searchly/bff/internal/utils"
)

// ProductHandler serves the recommended-products listing.
type ProductHandler struct {
	catalogService *service.CatalogService
}

// NewProductHandler constructs a ProductHandler.
func NewProductHandler(catalogService *service.CatalogService) *ProductHandler {
	return &ProductHandler{catalogService: catalogService}
}

// GetProducts returns the user's recommendations filtered by an optional
// search string and ordered by an optional sort key. refresh=true bypasses
// the cached snapshot and forces a backend reload.
func (h *ProductHandler) GetProducts(c *gin.Context) {
	email := middleware.UserEmail(c)
	search := c.Query("search")
	sortKey := models.ParseSortKey(c.Query("sort"))
	forceRefresh := c.Query("refresh") == "true"

	catalog, err := h.catalogService.Load(c.Request.Context(), email, forceRefresh)
	if err != nil {
		switch {
		case errors.Is(err, utils.ErrMissingIdentity):
			utils.Error(c, 401, "MISSING_IDENTITY", "No user session")
		case errors.Is(err, utils.ErrStaleLoad):
			utils.Error(c, 409, "STALE_LOAD", "A newer refresh superseded this request")
		default:
			utils.Error(c, 502, "BACKEND_UNAVAILABLE", "Failed to fetch recommendations")
		}
		return
	}

	view := service.Project(catalog, search, sortKey)

	utils.Success(c, 200, "Products retrieved successfully", gin.H{
		"products": view,
		"total":    len(view),
		"sort":     sortKey,
	})
}
