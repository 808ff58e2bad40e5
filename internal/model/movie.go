package model

// Watch statuses.
const (
	StatusToWatch = "to-watch"
	StatusWatched = "watched"
)

// DefaultColor is the UI tag given to movies added without one.
const DefaultColor = "slate"

// Movie is an entry on the user's watch-list.
type Movie struct {
	ID           int     `json:"id" gorm:"primaryKey"`
	IMDbID       string  `json:"imdb_id" gorm:"column:imdb_id;uniqueIndex:ix_movie_imdb_id;not null"`
	Title        string  `json:"title" gorm:"not null"`
	PosterPath   *string `json:"poster_path"`
	ReleaseYear  *string `json:"release_year"`
	Status       string  `json:"status" gorm:"not null;default:to-watch"`
	Rating       *string `json:"rating"`
	PersonalNote *string `json:"personal_note"`
	Color        string  `json:"color" gorm:"default:slate"`
	Actors       *string `json:"actors"`
	Description  *string `json:"description"`
	IsFavorite   bool    `json:"is_favorite" gorm:"not null;default:false"`
}

// TableName keeps the table name used by existing movies.db files.
func (Movie) TableName() string {
	return "movie"
}

// IsValidStatus reports whether s is a known watch status.
func IsValidStatus(s string) bool {
	return s == StatusToWatch || s == StatusWatched
}

// MovieCreate is the body of POST /movies.
type MovieCreate struct {
	IMDbID      string  `json:"imdb_id" binding:"required"`
	Title       string  `json:"title" binding:"required"`
	PosterPath  *string `json:"poster_path"`
	ReleaseYear *string `json:"release_year"`
	Status      *string `json:"status" binding:"omitempty,movie_status"`
	Color       *string `json:"color"`
	Actors      *string `json:"actors"`
	Description *string `json:"description"`
	IsFavorite  *bool   `json:"is_favorite"`
}

// ToMovie builds the record to insert, filling defaults for absent fields.
func (c *MovieCreate) ToMovie() *Movie {
	m := &Movie{
		IMDbID:      c.IMDbID,
		Title:       c.Title,
		PosterPath:  c.PosterPath,
		ReleaseYear: c.ReleaseYear,
		Status:      StatusToWatch,
		Color:       DefaultColor,
		Actors:      c.Actors,
		Description: c.Description,
	}
	if c.Status != nil && *c.Status != "" {
		m.Status = *c.Status
	}
	if c.Color != nil && *c.Color != "" {
		m.Color = *c.Color
	}
	if c.IsFavorite != nil {
		m.IsFavorite = *c.IsFavorite
	}
	return m
}

// MovieUpdate is a partial update. nil = leave unchanged.
type MovieUpdate struct {
	Status       *string `json:"status" form:"status" binding:"omitempty,movie_status"`
	Color        *string `json:"color" form:"color" binding:"omitempty,min=1"`
	PersonalNote *string `json:"personal_note" form:"-"`
	Rating       *string `json:"rating" form:"-"`
	IsFavorite   *bool   `json:"is_favorite" form:"-"`
}

// Empty reports whether no field was supplied.
func (u *MovieUpdate) Empty() bool {
	return u.Status == nil && u.Color == nil && u.PersonalNote == nil &&
		u.Rating == nil && u.IsFavorite == nil
}

// Apply copies the supplied fields onto m. Binding rejects an empty status
// or color, so both columns always hold a value.
func (u *MovieUpdate) Apply(m *Movie) {
	if u.Status != nil {
		m.Status = *u.Status
	}
	if u.Color != nil {
		m.Color = *u.Color
	}
	if u.PersonalNote != nil {
		m.PersonalNote = u.PersonalNote
	}
	if u.Rating != nil {
		m.Rating = u.Rating
	}
	if u.IsFavorite != nil {
		m.IsFavorite = *u.IsFavorite
	}
}
