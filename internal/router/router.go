package router

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/user/movienote/internal/handler"
)

// RegisterRoutes registers every route. API routes live under prefix;
// /health and /metrics stay at the root.
func RegisterRoutes(r *gin.Engine, h *handler.Handler, prefix string) {
	r.GET("/health", h.Health)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group(prefix)
	{
		// collection routes answer with and without the trailing slash
		movies := api.Group("/movies")
		movies.GET("", h.ListMovies)
		movies.GET("/", h.ListMovies)
		movies.POST("", h.CreateMovie)
		movies.POST("/", h.CreateMovie)
		movies.PATCH("/:imdb_id", h.UpdateMovie)
		movies.DELETE("/:imdb_id", h.DeleteMovie)

		search := api.Group("/search")
		search.GET("", h.Search)
		search.GET("/", h.Search)
		search.GET("/details/:movie_id", h.MovieDetails)
	}
}

// New builds the engine with the middleware chain used in production.
func New(h *handler.Handler, prefix string, middlewares ...gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	// both slash variants are registered explicitly
	r.RedirectTrailingSlash = false
	r.Use(gin.Recovery())
	r.Use(middlewares...)
	RegisterRoutes(r, h, prefix)
	return r
}
