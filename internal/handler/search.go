package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/user/movienote/internal/model"
	"github.com/user/movienote/internal/utils"
)

// SearchResponse wraps search results under the key clients read.
type SearchResponse struct {
	Search []model.SearchResult `json:"Search"`
}

// Search queries the movie providers. Provider trouble is reported as
// {"error": ...} with status 200, never as a failed request.
func (h *Handler) Search(c *gin.Context) {
	query := strings.TrimSpace(c.Query("query"))
	if query == "" {
		utils.UnprocessableEntity(c, "query is required")
		return
	}

	out := h.SearchService.Search(c.Request.Context(), query)
	if out.Failed() {
		utils.SoftError(c, out.Message)
		return
	}
	utils.Success(c, SearchResponse{Search: out.Results})
}

// MovieDetails returns one result enriched with cast and synopsis.
func (h *Handler) MovieDetails(c *gin.Context) {
	out := h.SearchService.Details(c.Request.Context(), c.Param("movie_id"))
	if out.Failed() {
		utils.SoftError(c, out.Message)
		return
	}
	utils.Success(c, out.Result)
}

// Health reports liveness.
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
