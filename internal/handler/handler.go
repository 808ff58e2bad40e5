package handler

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/user/movienote/internal/model"
	"github.com/user/movienote/internal/repository"
	"github.com/user/movienote/internal/service"
)

// Handler serves the HTTP API.
type Handler struct {
	Repos         *repository.Repositories
	SearchService *service.SearchService
}

// NewHandler builds a Handler and registers the custom binding validators.
func NewHandler(repos *repository.Repositories, search *service.SearchService) *Handler {
	registerValidators()
	return &Handler{
		Repos:         repos,
		SearchService: search,
	}
}

var validatorsOnce sync.Once

func registerValidators() {
	validatorsOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterValidation("movie_status", func(fl validator.FieldLevel) bool {
			return model.IsValidStatus(fl.Field().String())
		})
	})
}

// bindingMessage turns a bind/validate error into a client-facing detail.
func bindingMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Sprintf("invalid request: %v", err)
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		switch fe.Tag() {
		case "required":
			msgs = append(msgs, fmt.Sprintf("%s is required", fieldName(fe)))
		case "min":
			msgs = append(msgs, fmt.Sprintf("%s must not be empty", fieldName(fe)))
		case "movie_status":
			msgs = append(msgs, fmt.Sprintf("%s must be %q or %q", fieldName(fe), model.StatusToWatch, model.StatusWatched))
		default:
			msgs = append(msgs, fmt.Sprintf("%s failed %s validation", fieldName(fe), fe.Tag()))
		}
	}
	return strings.Join(msgs, "; ")
}

var jsonFieldNames = map[string]string{
	"IMDbID":       "imdb_id",
	"Title":        "title",
	"Status":       "status",
	"Color":        "color",
	"PersonalNote": "personal_note",
	"Rating":       "rating",
	"IsFavorite":   "is_favorite",
}

func fieldName(fe validator.FieldError) string {
	if name, ok := jsonFieldNames[fe.Field()]; ok {
		return name
	}
	return fe.Field()
}
