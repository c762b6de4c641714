package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/bravo68web/folio/internal/application/service"
)

// GitHubHandler serves cached GitHub profiles
type GitHubHandler struct {
	profiles *service.ProfileService
}

// NewGitHubHandler creates a new GitHubHandler instance
func NewGitHubHandler(profiles *service.ProfileService) *GitHubHandler {
	return &GitHubHandler{profiles: profiles}
}

// Profile handles GET /api/v1/github/:username
func (h *GitHubHandler) Profile(c *gin.Context) {
	profile, err := h.profiles.Profile(c.Request.Context(), c.Param("username"))
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}
