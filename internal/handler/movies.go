package handler

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/user/movienote/internal/logging"
	"github.com/user/movienote/internal/model"
	"github.com/user/movienote/internal/repository"
	"github.com/user/movienote/internal/utils"
)

const msgMovieNotFound = "Movie not found"

// ListMovies returns the whole watch-list.
func (h *Handler) ListMovies(c *gin.Context) {
	movies, err := h.Repos.Movie.List(c.Request.Context())
	if err != nil {
		h.storeError(c, err, "list movies")
		return
	}
	utils.Success(c, movies)
}

// CreateMovie adds a movie. Posting an imdb_id that is already on the list
// returns the stored record untouched.
func (h *Handler) CreateMovie(c *gin.Context) {
	var in model.MovieCreate
	if err := c.ShouldBindJSON(&in); err != nil {
		utils.UnprocessableEntity(c, bindingMessage(err))
		return
	}

	movie, created, err := h.Repos.Movie.Create(c.Request.Context(), &in)
	if err != nil {
		h.storeError(c, err, "create movie")
		return
	}
	if created {
		logging.Ctx(c.Request.Context()).Info().Str("imdb_id", movie.IMDbID).Msg("movie added")
	}
	utils.Success(c, movie)
}

// UpdateMovie applies a partial update from the JSON body. The status and
// color query parameters are honored for fields the body leaves unset.
func (h *Handler) UpdateMovie(c *gin.Context) {
	imdbID := c.Param("imdb_id")

	var u model.MovieUpdate
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&u); err != nil {
			utils.UnprocessableEntity(c, bindingMessage(err))
			return
		}
	}

	var q model.MovieUpdate
	if err := c.ShouldBindQuery(&q); err != nil {
		utils.UnprocessableEntity(c, bindingMessage(err))
		return
	}
	if u.Status == nil {
		u.Status = q.Status
	}
	if u.Color == nil {
		u.Color = q.Color
	}

	movie, err := h.Repos.Movie.Update(c.Request.Context(), imdbID, &u)
	if err != nil {
		h.storeError(c, err, "update movie")
		return
	}
	utils.Success(c, movie)
}

// DeleteMovie removes a movie from the list.
func (h *Handler) DeleteMovie(c *gin.Context) {
	if err := h.Repos.Movie.Delete(c.Request.Context(), c.Param("imdb_id")); err != nil {
		h.storeError(c, err, "delete movie")
		return
	}
	utils.Message(c, "Movie deleted")
}

// storeError maps a repository error onto a response.
func (h *Handler) storeError(c *gin.Context, err error, op string) {
	if errors.Is(err, repository.ErrNotFound) {
		utils.NotFound(c, msgMovieNotFound)
		return
	}
	c.Error(err)
	logging.Ctx(c.Request.Context()).Error().Err(err).Str("op", op).Msg("store operation failed")
	utils.InternalServerError(c, "")
}
