package pg

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vartahub/newsdesk/internal/domain"
)

type RawStoryStore struct {
	db *pgxpool.Pool
}

func NewRawStoryStore(pool *ConnectionPool) *RawStoryStore {
	return &RawStoryStore{db: pool.conn}
}

// BulkInsert copies the whole batch inside one transaction; a failure
// rolls back every row.
func (s *RawStoryStore) BulkInsert(ctx context.Context, stories []domain.RawStory) error {
	if len(stories) == 0 {
		return nil
	}

	rows := make([][]any, len(stories))
	for i, st := range stories {
		if st.ID == uuid.Nil {
			st.ID = uuid.New()
		}
		rows[i] = []any{
			st.ID, st.Title, st.Snippet, nullIfEmpty(st.Thumbnail),
			st.Link, st.Source, st.PublishedTimestamp, st.LocationID,
		}
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return mapErr(err, "", "location not found")
	}
	defer tx.Rollback(ctx)

	_, err = tx.CopyFrom(
		ctx,
		pgx.Identifier{"stories_raw"},
		[]string{"id", "title", "snippet", "thumbnail", "link", "source", "published_timestamp", "location_id"},
		pgx.CopyFromRows(rows),
	)
	if err != nil {
		return mapErr(err, "duplicate raw story", "location not found")
	}

	return mapErr(tx.Commit(ctx), "", "location not found")
}

func (s *RawStoryStore) ListSince(ctx context.Context, locationID uuid.UUID, cutoff time.Time) ([]domain.RawStory, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, title, snippet, COALESCE(thumbnail, ''), link, source, published_timestamp, location_id
		FROM stories_raw
		WHERE location_id = $1 AND published_timestamp >= $2
		ORDER BY published_timestamp DESC`, locationID, cutoff)
	if err != nil {
		return nil, mapErr(err, "", "location not found")
	}
	defer rows.Close()

	var stories []domain.RawStory
	for rows.Next() {
		var st domain.RawStory
		if err := rows.Scan(&st.ID, &st.Title, &st.Snippet, &st.Thumbnail, &st.Link, &st.Source, &st.PublishedTimestamp, &st.LocationID); err != nil {
			return nil, mapErr(err, "", "location not found")
		}
		stories = append(stories, st)
	}
	if err := rows.Err(); err != nil {
		return nil, mapErr(err, "", "location not found")
	}
	return stories, nil
}
