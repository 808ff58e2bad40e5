package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/user/movienote/internal/metrics"
	"github.com/user/movienote/internal/model"
	"gorm.io/gorm"
)

// ErrNotFound is returned when no movie has the requested imdb_id.
var ErrNotFound = errors.New("movie not found")

type MovieRepository struct {
	db *gorm.DB
}

func NewMovieRepository(db *gorm.DB) *MovieRepository {
	return &MovieRepository{db: db}
}

// List returns every movie in insertion order.
func (r *MovieRepository) List(ctx context.Context) ([]*model.Movie, error) {
	movies := []*model.Movie{}
	err := r.db.WithContext(ctx).Order("id ASC").Find(&movies).Error
	metrics.RecordCatalogOperation("list", err)
	if err != nil {
		return nil, fmt.Errorf("list movies: %w", err)
	}
	return movies, nil
}

// FindByIMDbID returns ErrNotFound when absent.
func (r *MovieRepository) FindByIMDbID(ctx context.Context, imdbID string) (*model.Movie, error) {
	return findByIMDbID(r.db.WithContext(ctx), imdbID)
}

// Create inserts a movie unless one with the same imdb_id exists, in which
// case the stored record is returned unchanged. created reports which.
func (r *MovieRepository) Create(ctx context.Context, in *model.MovieCreate) (movie *model.Movie, created bool, err error) {
	defer func() { metrics.RecordCatalogOperation("create", err) }()

	existing, err := r.FindByIMDbID(ctx, in.IMDbID)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, false, err
	}

	m := in.ToMovie()
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// lost a race with a concurrent create of the same imdb_id
			existing, ferr := r.FindByIMDbID(ctx, in.IMDbID)
			if ferr != nil {
				return nil, false, ferr
			}
			return existing, false, nil
		}
		return nil, false, fmt.Errorf("create movie: %w", err)
	}
	return m, true, nil
}

// Update applies the supplied fields of u to the movie with imdbID.
func (r *MovieRepository) Update(ctx context.Context, imdbID string, u *model.MovieUpdate) (*model.Movie, error) {
	var updated *model.Movie
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		m, err := findByIMDbID(tx, imdbID)
		if err != nil {
			return err
		}
		if u.Empty() {
			updated = m
			return nil
		}
		u.Apply(m)
		if err := tx.Save(m).Error; err != nil {
			return fmt.Errorf("save movie: %w", err)
		}
		updated = m
		return nil
	})
	metrics.RecordCatalogOperation("update", ignoreNotFound(err))
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Delete removes the movie with imdbID.
func (r *MovieRepository) Delete(ctx context.Context, imdbID string) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		m, err := findByIMDbID(tx, imdbID)
		if err != nil {
			return err
		}
		if err := tx.Delete(m).Error; err != nil {
			return fmt.Errorf("delete movie: %w", err)
		}
		return nil
	})
	metrics.RecordCatalogOperation("delete", ignoreNotFound(err))
	return err
}

func findByIMDbID(db *gorm.DB, imdbID string) (*model.Movie, error) {
	var m model.Movie
	err := db.Where("imdb_id = ?", imdbID).First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find movie %s: %w", imdbID, err)
	}
	return &m, nil
}

func ignoreNotFound(err error) error {
	if errors.Is(err, ErrNotFound) {
		return nil
	}
	return err
}
