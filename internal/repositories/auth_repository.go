package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"voice_admin_backend/internal/database"
	"voice_admin_backend/internal/models"

	sq "github.com/Masterminds/squirrel"
)

// AuthRepository defines the interface for user-account database operations.
type AuthRepository interface {
	CreateUser(ctx context.Context, executor SQLExecutor, user *models.User, passwordHash string) (int64, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, string, error)
	GetUserByID(ctx context.Context, id int64) (*models.User, error)
}

type authRepository struct {
	store *database.Store
}

// NewAuthRepository creates a new instance of AuthRepository.
func NewAuthRepository(store *database.Store) AuthRepository {
	return &authRepository{store: store}
}

// CreateUser inserts a new user with the given bcrypt password hash.
func (r *authRepository) CreateUser(ctx context.Context, executor SQLExecutor, user *models.User, passwordHash string) (int64, error) {
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}

	query, args, err := r.store.SQL().
		Insert("users").
		Columns("email", "password_hash", "full_name", "role", "created_at").
		Values(user.Email, passwordHash, user.FullName, user.Role, user.CreatedAt).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("%w: building user insert: %v", ErrDatabaseError, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		if isUniqueViolation(err) {
			return 0, fmt.Errorf("%w: email %s", ErrDuplicateKey, user.Email)
		}
		return 0, fmt.Errorf("%w: creating user: %v", ErrDatabaseError, err)
	}

	created, _, err := r.GetUserByEmail(ctx, user.Email)
	if err != nil {
		return 0, err
	}
	user.ID = created.ID
	return created.ID, nil
}

// GetUserByEmail retrieves a user and their password hash by email.
func (r *authRepository) GetUserByEmail(ctx context.Context, email string) (*models.User, string, error) {
	query, args, err := r.store.SQL().
		Select("id", "email", "password_hash", "full_name", "role", "created_at").
		From("users").
		Where(sq.Eq{"email": email}).
		ToSql()
	if err != nil {
		return nil, "", fmt.Errorf("%w: building user query: %v", ErrDatabaseError, err)
	}

	user := &models.User{}
	var passwordHash string
	err = r.store.DB().QueryRowContext(ctx, query, args...).Scan(
		&user.ID, &user.Email, &passwordHash, &user.FullName, &user.Role, &user.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, "", ErrNotFound
		}
		return nil, "", fmt.Errorf("%w: getting user by email: %v", ErrDatabaseError, err)
	}
	return user, passwordHash, nil
}

// GetUserByID retrieves a user by their id.
func (r *authRepository) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	query, args, err := r.store.SQL().
		Select("id", "email", "full_name", "role", "created_at").
		From("users").
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: building user query: %v", ErrDatabaseError, err)
	}

	user := &models.User{}
	err = r.store.DB().QueryRowContext(ctx, query, args...).Scan(
		&user.ID, &user.Email, &user.FullName, &user.Role, &user.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: getting user by ID %d: %v", ErrDatabaseError, id, err)
	}
	return user, nil
}
