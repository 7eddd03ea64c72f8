package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/hszk-dev/vidingest/internal/domain/model"
	"github.com/hszk-dev/vidingest/internal/domain/repository"
	"github.com/hszk-dev/vidingest/internal/infrastructure/metrics"
)

const userColumns = `user_id, username, email`

// UserRepository implements repository.UserRepository using PostgreSQL.
type UserRepository struct {
	db DBTX
}

// NewUserRepository creates a new UserRepository instance.
func NewUserRepository(db DBTX) *UserRepository {
	return &UserRepository{db: db}
}

// Create inserts a user row and returns it with the generated user_id.
func (r *UserRepository) Create(ctx context.Context, username, email string) (*model.User, error) {
	const query = `
		INSERT INTO users (username, email)
		VALUES ($1, $2)
		RETURNING ` + userColumns

	metrics.DBQueriesTotal.WithLabelValues(metrics.DBQueryInsert, metrics.TableUsers).Inc()

	user, err := scanUser(r.db.QueryRow(ctx, query, username, email))
	if err != nil {
		return nil, unavailable("create user", err)
	}

	return user, nil
}

// List returns all user rows.
func (r *UserRepository) List(ctx context.Context) ([]*model.User, error) {
	const query = `SELECT ` + userColumns + ` FROM users`

	metrics.DBQueriesTotal.WithLabelValues(metrics.DBQuerySelect, metrics.TableUsers).Inc()

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, unavailable("list users", err)
	}
	defer rows.Close()

	users := make([]*model.User, 0)
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, unavailable("scan user", err)
		}
		users = append(users, user)
	}

	if err := rows.Err(); err != nil {
		return nil, unavailable("iterate users", err)
	}

	return users, nil
}

// GetByID retrieves a user by identifier.
func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	const query = `SELECT ` + userColumns + ` FROM users WHERE user_id = $1`
	return r.getOne(ctx, "get user by ID", query, id)
}

// GetByUsername retrieves the first user with the given username.
func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	const query = `SELECT ` + userColumns + ` FROM users WHERE username = $1 LIMIT 1`
	return r.getOne(ctx, "get user by username", query, username)
}

// GetByEmail retrieves the first user with the given email.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	const query = `SELECT ` + userColumns + ` FROM users WHERE email = $1 LIMIT 1`
	return r.getOne(ctx, "get user by email", query, email)
}

func (r *UserRepository) getOne(ctx context.Context, op, query string, arg any) (*model.User, error) {
	metrics.DBQueriesTotal.WithLabelValues(metrics.DBQuerySelect, metrics.TableUsers).Inc()

	user, err := scanUser(r.db.QueryRow(ctx, query, arg))
	if err != nil {
		return nil, lookupError(err, repository.ErrUserNotFound, op)
	}
	return user, nil
}

func scanUser(row pgx.Row) (*model.User, error) {
	var user model.User
	if err := row.Scan(&user.ID, &user.Username, &user.Email); err != nil {
		return nil, err
	}
	return &user, nil
}

// Compile-time verification that UserRepository implements repository.UserRepository.
var _ repository.UserRepository = (*UserRepository)(nil)
