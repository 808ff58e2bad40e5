package repository

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	_ "github.com/tursodatabase/libsql-client-go/libsql"
	"github.com/user/movienote/internal/logging"
	"github.com/user/movienote/internal/model"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Store backends selected from DATABASE_URL.
const (
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
	BackendLibSQL   = "libsql"
)

// fallbackSQLitePath is used when a libsql URL has no auth token.
const fallbackSQLitePath = "movies.db"

// Target is a resolved database location.
type Target struct {
	Backend string
	DSN     string
}

// ResolveTarget maps DATABASE_URL (and the optional remote-replica token)
// onto a backend and driver DSN.
func ResolveTarget(databaseURL, authToken string) Target {
	u := strings.TrimSpace(databaseURL)
	switch {
	case strings.HasPrefix(u, "postgres://"), strings.HasPrefix(u, "postgresql://"):
		return Target{Backend: BackendPostgres, DSN: u}
	case strings.HasPrefix(u, "libsql://"):
		if authToken == "" {
			logging.Warn().Msg("TURSO_AUTH_TOKEN not set, falling back to local SQLite")
			return Target{Backend: BackendSQLite, DSN: fallbackSQLitePath}
		}
		sep := "?"
		if strings.Contains(u, "?") {
			sep = "&"
		}
		return Target{Backend: BackendLibSQL, DSN: u + sep + "authToken=" + url.QueryEscape(authToken)}
	case strings.HasPrefix(u, "sqlite://"):
		path := strings.TrimPrefix(u, "sqlite://")
		// sqlite:///relative.db and sqlite:////abs/path.db
		path = strings.TrimPrefix(path, "/")
		if path == "" {
			path = fallbackSQLitePath
		}
		return Target{Backend: BackendSQLite, DSN: path}
	case u == "":
		return Target{Backend: BackendSQLite, DSN: fallbackSQLitePath}
	default:
		return Target{Backend: BackendSQLite, DSN: u}
	}
}

// InitDB opens the process-wide connection pool. The returned *gorm.DB is
// safe for concurrent use; every repository call borrows a connection for
// the duration of the statement or transaction only.
func InitDB(databaseURL, authToken string) (*gorm.DB, error) {
	target := ResolveTarget(databaseURL, authToken)

	var dialector gorm.Dialector
	switch target.Backend {
	case BackendPostgres:
		dialector = postgres.Open(target.DSN)
	case BackendLibSQL:
		dialector = sqlite.New(sqlite.Config{DriverName: "libsql", DSN: target.DSN})
	default:
		dialector = sqlite.Open(target.DSN)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		TranslateError: true,
		Logger:         newGormLogger(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("open %s database: %w", target.Backend, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get sql.DB: %w", err)
	}

	switch target.Backend {
	case BackendPostgres:
		sqlDB.SetMaxOpenConns(25)
		sqlDB.SetMaxIdleConns(5)
	case BackendLibSQL:
		// remote replica: no idle connections that could go stale
		sqlDB.SetMaxIdleConns(0)
	default:
		sqlDB.SetMaxOpenConns(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := sqlDB.PingContext(ctx); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("ping %s database: %w", target.Backend, err)
	}

	logging.Info().Str("backend", target.Backend).Msg("database connected")
	return db, nil
}

// Migrate creates the movie table and its unique imdb_id index, and adds
// columns introduced after the table was first created.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&model.Movie{}); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}

// Repositories groups the repositories handed to handlers.
type Repositories struct {
	DB    *gorm.DB
	Movie *MovieRepository
}

// NewRepositories builds the repository set over one pool.
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		DB:    db,
		Movie: NewMovieRepository(db),
	}
}

// Close releases the pool.
func (r *Repositories) Close() error {
	sqlDB, err := r.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
