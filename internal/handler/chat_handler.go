package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/searchly/bff/internal/middleware"
	"github.com/searchly/bff/internal/service"
	"github.com/searchly/bff/internal/utils"
)

// ChatHandler serves the conversational recommendation flow.
type ChatHandler struct {
	chatService *service.ChatService
}

// NewChatHandler constructs a ChatHandler.
func NewChatHandler(chatService *service.ChatService) *ChatHandler {
	return &ChatHandler{chatService: chatService}
}

// Ask forwards a query to the recommender. mode=live selects the slower
// live-scrape path over the default vector-store lookup.
func (h *ChatHandler) Ask(c *gin.Context) {
	var req struct {
		Query string `json:"query" binding:"required"`
		Mode  string `json:"mode"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid request body")
		return
	}

	email := middleware.UserEmail(c)
	fromDB := req.Mode != "live"

	rec, err := h.chatService.Ask(c.Request.Context(), email, req.Query, fromDB)
	if err != nil {
		switch {
		case errors.Is(err, utils.ErrMissingIdentity):
			utils.Error(c, 401, "MISSING_IDENTITY", "No user session")
		case errors.Is(err, utils.ErrEmptyQuery):
			utils.Error(c, 400, "EMPTY_QUERY", "Query must not be empty")
		default:
			utils.Error(c, 502, "BACKEND_UNAVAILABLE", "Recommendation service unavailable")
		}
		return
	}

	utils.Success(c, 200, "Recommendation generated", gin.H{
		"message":     rec.Message,
		"productTags": rec.ProductTags,
		"results":     rec.Results,
	})
}

// History returns the stored chat transcript.
func (h *ChatHandler) History(c *gin.Context) {
	email := middleware.UserEmail(c)

	messages, err := h.chatService.History(c.Request.Context(), email)
	if err != nil {
		if errors.Is(err, utils.ErrMissingIdentity) {
			utils.Error(c, 401, "MISSING_IDENTITY", "No user session")
			return
		}
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to load transcript")
		return
	}

	utils.Success(c, 200, "Transcript retrieved successfully", gin.H{
		"messages": messages,
		"total":    len(messages),
	})
}

// Clear drops the stored chat transcript.
func (h *ChatHandler) Clear(c *gin.Context) {
	email := middleware.UserEmail(c)

	if err := h.chatService.Clear(c.Request.Context(), email); err != nil {
		if errors.Is(err, utils.ErrMissingIdentity) {
			utils.Error(c, 401, "MISSING_IDENTITY", "No user session")
			return
		}
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to clear transcript")
		return
	}

	utils.Success(c, 200, "Transcript cleared", nil)
}
