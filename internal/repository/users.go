package repository

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/verdiscan/label-backend/internal/common"
)

// User is an operator identified by email, attached to the organization
// derived from the email host.
type User struct {
	ID       uuid.UUID
	Email    string
	DomainID uuid.UUID
}

type UserRepository interface {
	// GetOrCreate resolves the user for an email, creating the user and its
	// organization domain on first sight.
	GetOrCreate(ctx context.Context, email string) (*User, error)
}

type userRepository struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

func NewUserRepository(pool *pgxpool.Pool, logger *slog.Logger) UserRepository {
	return &userRepository{pool: pool, logger: logger}
}

func (r *userRepository) GetOrCreate(ctx context.Context, email string) (*User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	_, host, ok := strings.Cut(email, "@")
	if !ok || host == "" {
		return nil, common.NewAppError("USER_EMAIL", "invalid email address", common.ErrInvalidInput)
	}

	var u User
	err := r.pool.QueryRow(ctx,
		`SELECT id, email, domain_id FROM users WHERE email = $1`, email,
	).Scan(&u.ID, &u.Email, &u.DomainID)
	if err == nil {
		return &u, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		r.logger.Error("user.lookup.failed", "email", email, "error", err)
		return nil, common.NewAppError("USER_LOOKUP", "failed to look up user", err)
	}

	domainID, err := r.getOrCreateDomain(ctx, host)
	if err != nil {
		return nil, err
	}

	u = User{ID: uuid.New(), Email: email, DomainID: domainID}
	_, err = r.pool.Exec(ctx,
		`INSERT INTO users (id, email, domain_id) VALUES ($1, $2, $3)
		 ON CONFLICT (email) DO NOTHING`, u.ID, u.Email, u.DomainID)
	if err != nil {
		r.logger.Error("user.create.failed", "email", email, "error", err)
		return nil, common.NewAppError("USER_CREATE", "failed to create user", err)
	}

	// Re-read to cover the conflict path where another request won the insert.
	err = r.pool.QueryRow(ctx,
		`SELECT id, email, domain_id FROM users WHERE email = $1`, email,
	).Scan(&u.ID, &u.Email, &u.DomainID)
	if err != nil {
		return nil, common.NewAppError("USER_LOOKUP", "failed to re-read user", err)
	}

	r.logger.Info("user.create.ok", "email", email, "domain", host)
	return &u, nil
}

func (r *userRepository) getOrCreateDomain(ctx context.Context, host string) (uuid.UUID, error) {
	var id uuid.UUID
	err := r.pool.QueryRow(ctx,
		`SELECT id FROM domains WHERE name = $1`, host,
	).Scan(&id)
	if err == nil {
		return id, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return uuid.Nil, common.NewAppError("DOMAIN_LOOKUP", "failed to look up domain", err)
	}

	id = uuid.New()
	_, err = r.pool.Exec(ctx,
		`INSERT INTO domains (id, name) VALUES ($1, $2)
		 ON CONFLICT (name) DO NOTHING`, id, host)
	if err != nil {
		return uuid.Nil, common.NewAppError("DOMAIN_CREATE", "failed to create domain", err)
	}
	err = r.pool.QueryRow(ctx,
		`SELECT id FROM domains WHERE name = $1`, host,
	).Scan(&id)
	if err != nil {
		return uuid.Nil, common.NewAppError("DOMAIN_LOOKUP", "failed to re-read domain", err)
	}
	return id, nil
}
