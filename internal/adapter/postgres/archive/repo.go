// Package archive stores the meal archive as a single row in PostgreSQL.
// The payload is the same encoding the file store writes, so the journal is
// persisted and reloaded as a whole.
package archive

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	postgres "github.com/heartmarshall/foodtracker-backend/internal/adapter/postgres"
	codec "github.com/heartmarshall/foodtracker-backend/internal/archive"
	"github.com/heartmarshall/foodtracker-backend/internal/domain"
)

const tableName = "meal_archives"

var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

// pinger is satisfied by *pgxpool.Pool.
type pinger interface {
	Ping(ctx context.Context) error
}

// DB is the pool surface the repository needs.
type DB interface {
	postgres.Querier
	pinger
}

// Repo provides meal archive persistence backed by PostgreSQL.
type Repo struct {
	db   DB
	name string
	now  func() time.Time
}

// New creates a repository for the archive row identified by name.
func New(db DB, name string) *Repo {
	return &Repo{db: db, name: name, now: time.Now}
}

// Load reads and decodes the archive row.
// Returns domain.ErrNotFound if the archive has never been saved.
func (r *Repo) Load(ctx context.Context) ([]*domain.Meal, error) {
	query, args, err := psql.
		Select("format_version", "payload").
		From(tableName).
		Where(squirrel.Eq{"name": r.name}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select: %w", err)
	}

	var (
		version int16
		payload []byte
	)
	if err := r.db.QueryRow(ctx, query, args...).Scan(&version, &payload); err != nil {
		return nil, postgres.MapError(err, "meal_archive", r.name)
	}

	if version != codec.Version {
		return nil, fmt.Errorf("meal_archive %s: %w: unsupported format version %d", r.name, domain.ErrDecode, version)
	}

	meals, err := codec.Decode(payload)
	if err != nil {
		return nil, fmt.Errorf("meal_archive %s: %w", r.name, err)
	}
	return meals, nil
}

// Save encodes the full meal sequence and upserts the archive row.
// Failures wrap domain.ErrPersistence.
func (r *Repo) Save(ctx context.Context, meals []*domain.Meal) error {
	payload, err := codec.Encode(meals)
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrPersistence, err)
	}

	query, args, err := psql.
		Insert(tableName).
		Columns("name", "format_version", "meal_count", "payload", "updated_at").
		Values(r.name, codec.Version, len(meals), payload, r.now().UTC()).
		Suffix(`ON CONFLICT (name) DO UPDATE SET
			format_version = EXCLUDED.format_version,
			meal_count = EXCLUDED.meal_count,
			payload = EXCLUDED.payload,
			updated_at = EXCLUDED.updated_at`).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: build upsert: %w", domain.ErrPersistence, err)
	}

	if _, err := r.db.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrPersistence, postgres.MapError(err, "meal_archive", r.name))
	}
	return nil
}

// Ping checks database connectivity.
func (r *Repo) Ping(ctx context.Context) error {
	return r.db.Ping(ctx)
}
