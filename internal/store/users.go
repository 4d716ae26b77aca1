package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

// CreateUser inserts a new account.
func (s *Store) CreateUser(ctx context.Context, email, name string) (User, error) {
	var u User
	err := s.pool.QueryRow(ctx,
		`INSERT INTO users (id, email, name, created_at)
		 VALUES ($1, $2, $3, now())
		 RETURNING id, email, name, created_at`,
		uuid.New(), email, name,
	).Scan(&u.ID, &u.Email, &u.Name, &u.CreatedAt)
	if err != nil {
		return User{}, fmt.Errorf("create user: %w", err)
	}
	return u, nil
}

// GetUser fetches a user by id.
func (s *Store) GetUser(ctx context.Context, id uuid.UUID) (User, error) {
	var u User
	err := s.pool.QueryRow(ctx,
		`SELECT id, email, name, created_at FROM users WHERE id = $1`, id,
	).Scan(&u.ID, &u.Email, &u.Name, &u.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return User{}, ErrNotFound
	}
	if err != nil {
		return User{}, fmt.Errorf("get user: %w", err)
	}
	return u, nil
}

// GetUserByEmail fetches a user by exact email.
func (s *Store) GetUserByEmail(ctx context.Context, email string) (User, error) {
	var u User
	err := s.pool.QueryRow(ctx,
		`SELECT id, email, name, created_at FROM users WHERE email = $1`, email,
	).Scan(&u.ID, &u.Email, &u.Name, &u.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return User{}, ErrNotFound
	}
	if err != nil {
		return User{}, fmt.Errorf("get user by email: %w", err)
	}
	return u, nil
}

// GetProfile fetches a seller profile by user id.
func (s *Store) GetProfile(ctx context.Context, userID uuid.UUID) (Profile, error) {
	var (
		p   Profile
		bio pgtype.Text
	)
	err := s.pool.QueryRow(ctx,
		`SELECT user_id, display_name, bio, skills, completion, updated_at
		 FROM profiles WHERE user_id = $1`, userID,
	).Scan(&p.UserID, &p.DisplayName, &bio, &p.Skills, &p.Completion, &p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Profile{}, ErrNotFound
	}
	if err != nil {
		return Profile{}, fmt.Errorf("get profile: %w", err)
	}
	p.Bio = bio.String
	return p, nil
}

// UpsertProfile creates or overwrites a seller profile.
func (s *Store) UpsertProfile(ctx context.Context, p Profile) (Profile, error) {
	var (
		out Profile
		bio pgtype.Text
	)
	err := s.pool.QueryRow(ctx,
		`INSERT INTO profiles (user_id, display_name, bio, skills, completion, updated_at)
		 VALUES ($1, $2, $3, $4, $5, now())
		 ON CONFLICT (user_id) DO UPDATE SET
		   display_name = EXCLUDED.display_name,
		   bio          = EXCLUDED.bio,
		   skills       = EXCLUDED.skills,
		   completion   = EXCLUDED.completion,
		   updated_at   = now()
		 RETURNING user_id, display_name, bio, skills, completion, updated_at`,
		p.UserID, p.DisplayName,
		pgtype.Text{String: p.Bio, Valid: p.Bio != ""},
		p.Skills, p.Completion,
	).Scan(&out.UserID, &out.DisplayName, &bio, &out.Skills, &out.Completion, &out.UpdatedAt)
	if err != nil {
		return Profile{}, fmt.Errorf("upsert profile: %w", err)
	}
	out.Bio = bio.String
	return out, nil
}

// GetTeam fetches a team by id.
func (s *Store) GetTeam(ctx context.Context, id uuid.UUID) (Team, error) {
	var t Team
	err := s.pool.QueryRow(ctx,
		`SELECT id, owner_id, name, created_at FROM teams WHERE id = $1`, id,
	).Scan(&t.ID, &t.OwnerID, &t.Name, &t.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Team{}, ErrNotFound
	}
	if err != nil {
		return Team{}, fmt.Errorf("get team: %w", err)
	}
	return t, nil
}
