package pg

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vartahub/newsdesk/internal/apperr"
	"github.com/vartahub/newsdesk/internal/domain"
	"github.com/vartahub/newsdesk/internal/storage"
)

type LocationStore struct {
	db *pgxpool.Pool
}

func NewLocationStore(pool *ConnectionPool) *LocationStore {
	return &LocationStore{db: pool.conn}
}

const locationColumns = `
	id, COALESCE(city, ''), COALESCE(state, ''), COALESCE(country, ''),
	COALESCE(country_code, ''), level, last_fetched_timestamp,
	refresh_interval_mins, max_days_back`

func scanLocation(row pgx.Row) (*domain.Location, error) {
	var l domain.Location
	err := row.Scan(
		&l.ID, &l.City, &l.State, &l.Country, &l.CountryCode, &l.Level,
		&l.LastFetchedTimestamp, &l.RefreshIntervalMins, &l.MaxDaysBack,
	)
	if err != nil {
		return nil, err
	}
	return &l, nil
}

// Lookup matches by the key columns that identify the scope level; wider
// levels ignore the narrower columns.
func (s *LocationStore) Lookup(ctx context.Context, q storage.ScopeQuery) (*domain.Location, error) {
	var (
		where string
		args  []any
	)
	switch q.Level {
	case domain.ScopeCity:
		where = `city = $1 AND state = $2 AND country = $3 AND level = $4`
		args = []any{q.City, q.State, q.Country, q.Level}
	case domain.ScopeState:
		where = `state = $1 AND country = $2 AND level = $3`
		args = []any{q.State, q.Country, q.Level}
	case domain.ScopeCountry:
		where = `country = $1 AND level = $2`
		args = []any{q.Country, q.Level}
	case domain.ScopeInternational:
		where = `level = $1`
		args = []any{q.Level}
	default:
		return nil, apperr.NewValidation("unknown scope level")
	}

	row := s.db.QueryRow(ctx, `SELECT `+locationColumns+` FROM locations WHERE `+where+` LIMIT 1`, args...)
	loc, err := scanLocation(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, mapErr(err, "", "location not found")
	}
	return loc, nil
}

func (s *LocationStore) Create(ctx context.Context, loc *domain.Location) error {
	if loc.ID == uuid.Nil {
		loc.ID = uuid.New()
	}

	_, err := s.db.Exec(ctx, `
		INSERT INTO locations
			(id, city, state, country, country_code, level,
			 last_fetched_timestamp, refresh_interval_mins, max_days_back)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		loc.ID, nullIfEmpty(loc.City), nullIfEmpty(loc.State), nullIfEmpty(loc.Country),
		nullIfEmpty(loc.CountryCode), loc.Level,
		loc.LastFetchedTimestamp, loc.RefreshIntervalMins, loc.MaxDaysBack,
	)
	return mapErr(err, "location already tracked", "location not found")
}

func (s *LocationStore) TouchFetched(ctx context.Context, id uuid.UUID, fetchedAt time.Time) error {
	tag, err := s.db.Exec(ctx, `
		UPDATE locations SET last_fetched_timestamp = $1 WHERE id = $2`, fetchedAt, id)
	if err != nil {
		return mapErr(err, "", "location not found")
	}
	if tag.RowsAffected() == 0 {
		return apperr.NewNotFound("location not found")
	}
	return nil
}
