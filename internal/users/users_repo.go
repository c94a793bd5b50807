package users

import (
	"context"
	"errors"
	"fmt"

	"github.com/NutthakitPatike/Project-Fitness-app/internal/telemetry/tracing"
	"github.com/NutthakitPatike/Project-Fitness-app/pkg"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrUserNotFound  = errors.New("user not found")
	ErrDuplicateUser = errors.New("email or username already used")
	ErrEmailTaken    = errors.New("email already used by another user")
	ErrWrongPassword = errors.New("wrong password")
)

const userColumns = `id, username, email, password_hash, name, avatar_url, created_at, updated_at`

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db: db,
	}
}

func (r *Repo) Add(ctx context.Context, user User) (_ *User, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.users.add")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	if user.ID == "" {
		user.ID = uuid.NewString()
	}

	rows, err := r.db.Query(
		ctx,
		`INSERT INTO app_user (id, username, email, password_hash, name, avatar_url)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING `+userColumns+`;`,
		user.ID, user.Username, user.Email, user.PasswordHash, user.Name, user.AvatarURL,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	added, err := rows2user(rows)
	if err != nil {
		if constraint, ok := pkg.UniqueViolation(err); ok {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateUser, constraint)
		}
		return nil, err
	}

	return added, nil
}

func (r *Repo) GetByID(ctx context.Context, id string) (_ *User, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.users.getbyid")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	rows, err := r.db.Query(ctx, `SELECT `+userColumns+` FROM app_user WHERE id = $1;`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return rows2user(rows)
}

// GetByEmail expects an already normalized email.
func (r *Repo) GetByEmail(ctx context.Context, email string) (_ *User, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.users.getbyemail")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	rows, err := r.db.Query(ctx, `SELECT `+userColumns+` FROM app_user WHERE email = $1;`, email)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return rows2user(rows)
}

func (r *Repo) UpdateProfile(ctx context.Context, id string, update ProfileUpdate) (_ *User, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.users.updateprofile")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	rows, err := r.db.Query(
		ctx,
		`UPDATE app_user SET
			name = COALESCE($2::text, name),
			email = COALESCE($3::text, email),
			avatar_url = CASE WHEN $4::bool THEN $5::text ELSE avatar_url END,
			updated_at = now()
		WHERE id = $1
		RETURNING `+userColumns+`;`,
		id, update.Name, update.Email, update.SetAvatarURL, update.AvatarURL,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	updated, err := rows2user(rows)
	if err != nil {
		if constraint, ok := pkg.UniqueViolation(err); ok {
			return nil, fmt.Errorf("%w: %s", ErrEmailTaken, constraint)
		}
		return nil, err
	}

	return updated, nil
}

func (r *Repo) UpdatePasswordHash(ctx context.Context, id, passwordHash string) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.users.updatepassword")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	tag, err := r.db.Exec(
		ctx,
		`UPDATE app_user SET password_hash = $2, updated_at = now() WHERE id = $1;`,
		id, passwordHash,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrUserNotFound
	}

	return nil
}

// Delete removes the user. Workouts and goals go with it through ON DELETE CASCADE.
func (r *Repo) Delete(ctx context.Context, id string) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.users.delete")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	tag, err := r.db.Exec(ctx, `DELETE FROM app_user WHERE id = $1;`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrUserNotFound
	}

	return nil
}

func rows2user(rows pgx.Rows) (*User, error) {
	var users []User
	for rows.Next() {
		var u User
		if err := rows.Scan(
			&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.Name, &u.AvatarURL, &u.CreatedAt, &u.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("rows scan: %w", err)
		}
		users = append(users, u)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(users) != 1 {
		return nil, ErrUserNotFound
	}

	return &users[0], nil
}
