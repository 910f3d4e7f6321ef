package pg

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vartahub/newsdesk/internal/apperr"
	"github.com/vartahub/newsdesk/internal/domain"
)

type UserStore struct {
	db *pgxpool.Pool
}

func NewUserStore(pool *ConnectionPool) *UserStore {
	return &UserStore{db: pool.conn}
}

const userColumns = `
	id, first_name, COALESCE(last_name, ''), email, password, role, active,
	COALESCE(profile_image_key, '')`

func scanUser(row pgx.Row) (*domain.User, error) {
	var u domain.User
	err := row.Scan(&u.ID, &u.FirstName, &u.LastName, &u.Email, &u.PasswordHash, &u.Role, &u.Active, &u.ProfileImageKey)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *UserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	u, err := scanUser(s.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email))
	if err != nil {
		return nil, mapErr(err, "", "user not found")
	}
	return u, nil
}

func (s *UserStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	u, err := scanUser(s.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
	if err != nil {
		return nil, mapErr(err, "", "user not found")
	}
	return u, nil
}

func (s *UserStore) CreateUser(ctx context.Context, user *domain.User) error {
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	_, err := s.db.Exec(ctx, `
		INSERT INTO users (id, first_name, last_name, email, password, role, active)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		user.ID, user.FirstName, nullIfEmpty(user.LastName), user.Email,
		user.PasswordHash, user.Role, user.Active,
	)
	return mapErr(err, "a user with this email already exists", "user not found")
}

// CreateCreator inserts the user and its author profile together.
func (s *UserStore) CreateCreator(ctx context.Context, user *domain.User, bio string) error {
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	user.Role = domain.RoleCreator

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return mapErr(err, "", "user not found")
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
		INSERT INTO users (id, first_name, last_name, email, password, role, active)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		user.ID, user.FirstName, nullIfEmpty(user.LastName), user.Email,
		user.PasswordHash, user.Role, user.Active,
	)
	if err != nil {
		return mapErr(err, "author already exists", "user not found")
	}

	_, err = tx.Exec(ctx, `INSERT INTO authors (id, bio) VALUES ($1, $2)`, user.ID, nullIfEmpty(bio))
	if err != nil {
		return mapErr(err, "author already exists", "user not found")
	}

	return mapErr(tx.Commit(ctx), "author already exists", "user not found")
}

func (s *UserStore) GetAuthorProfile(ctx context.Context, userID uuid.UUID) (*domain.User, *domain.Author, error) {
	var (
		u domain.User
		a domain.Author
	)
	err := s.db.QueryRow(ctx, `
		SELECT u.id, u.first_name, COALESCE(u.last_name, ''), u.email, u.password,
		       u.role, u.active, COALESCE(u.profile_image_key, ''),
		       COALESCE(a.bio, '')
		FROM users u
		JOIN authors a ON a.id = u.id
		WHERE u.id = $1`, userID,
	).Scan(&u.ID, &u.FirstName, &u.LastName, &u.Email, &u.PasswordHash,
		&u.Role, &u.Active, &u.ProfileImageKey, &a.Bio)
	if err != nil {
		return nil, nil, mapErr(err, "", "creator not found")
	}
	a.ID = u.ID
	return &u, &a, nil
}

func (s *UserStore) UpdateProfile(ctx context.Context, userID uuid.UUID, firstName, lastName, bio *string) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return mapErr(err, "", "user not found")
	}
	defer tx.Rollback(ctx)

	if firstName != nil || lastName != nil {
		_, err = tx.Exec(ctx, `
			UPDATE users SET
				first_name = COALESCE($1, first_name),
				last_name = COALESCE($2, last_name)
			WHERE id = $3`, firstName, lastName, userID)
		if err != nil {
			return mapErr(err, "", "user not found")
		}
	}
	if bio != nil {
		_, err = tx.Exec(ctx, `UPDATE authors SET bio = $1, updated_at = now() WHERE id = $2`, *bio, userID)
		if err != nil {
			return mapErr(err, "", "creator not found")
		}
	}

	return mapErr(tx.Commit(ctx), "", "user not found")
}

func (s *UserStore) UpdatePassword(ctx context.Context, userID uuid.UUID, passwordHash string) error {
	tag, err := s.db.Exec(ctx, `UPDATE users SET password = $1 WHERE id = $2`, passwordHash, userID)
	if err != nil {
		return mapErr(err, "", "user not found")
	}
	if tag.RowsAffected() == 0 {
		return apperr.NewNotFound("user not found")
	}
	return nil
}

func (s *UserStore) SetActive(ctx context.Context, userID uuid.UUID, active bool) error {
	tag, err := s.db.Exec(ctx, `UPDATE users SET active = $1 WHERE id = $2`, active, userID)
	if err != nil {
		return mapErr(err, "", "user not found")
	}
	if tag.RowsAffected() == 0 {
		return apperr.NewNotFound("user not found")
	}
	return nil
}

func (s *UserStore) ListByRole(ctx context.Context, role domain.Role, limit, offset int) ([]domain.User, error) {
	rows, err := s.db.Query(ctx, `
		SELECT `+userColumns+` FROM users
		WHERE role = $1
		ORDER BY first_name, last_name
		LIMIT $2 OFFSET $3`, role, limit, offset)
	if err != nil {
		return nil, mapErr(err, "", "users not found")
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, mapErr(err, "", "users not found")
		}
		users = append(users, *u)
	}
	if err := rows.Err(); err != nil {
		return nil, mapErr(err, "", "users not found")
	}
	return users, nil
}
