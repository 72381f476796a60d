package database

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"sportmeet/internal/domain"
	"sportmeet/internal/domain/entities"
	"sportmeet/internal/ports/output"
)

var _ output.UserRepository = (*UserRepository)(nil)

type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

func (r *UserRepository) Create(ctx context.Context, u *entities.User) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO users (id, email, password_hash, name, photo_url, location, language, discord_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		u.ID, u.Email, u.PasswordHash, u.Name, u.PhotoURL, u.Location, u.Language, u.DiscordID, u.CreatedAt, u.UpdatedAt,
	)
	if pgCode(err) == uniqueViolation {
		return domain.ErrEmailTaken
	}
	if err != nil {
		return queryError("insert user", err, nil)
	}
	return nil
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*entities.User, error) {
	u, err := scanUser(r.pool.QueryRow(ctx, `SELECT `+userColumns+` WHERE id = $1`, id))
	if err != nil {
		return nil, queryError("get user", err, domain.ErrUserNotFound)
	}
	return &u, nil
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*entities.User, error) {
	u, err := scanUser(r.pool.QueryRow(ctx, `SELECT `+userColumns+` WHERE email = $1`, email))
	if err != nil {
		return nil, queryError("get user by email", err, domain.ErrUserNotFound)
	}
	return &u, nil
}

func (r *UserRepository) Update(ctx context.Context, u *entities.User) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE users SET name = $2, photo_url = $3, location = $4, language = $5, discord_id = $6, updated_at = $7
		WHERE id = $1`,
		u.ID, u.Name, u.PhotoURL, u.Location, u.Language, u.DiscordID, u.UpdatedAt,
	)
	if err != nil {
		return queryError("update user", err, nil)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func (r *UserRepository) UpsertPushToken(ctx context.Context, t *entities.PushToken) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO user_push_tokens (id, user_id, device_token, platform, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (user_id, device_token)
		DO UPDATE SET platform = EXCLUDED.platform, updated_at = EXCLUDED.updated_at`,
		t.ID, t.UserID, t.DeviceToken, t.Platform, t.CreatedAt, t.UpdatedAt,
	)
	if pgCode(err) == foreignKeyViolation {
		return domain.ErrUserNotFound
	}
	if err != nil {
		return queryError("upsert push token", err, nil)
	}
	return nil
}

func (r *UserRepository) FindPushTokens(ctx context.Context, userID string) ([]entities.PushToken, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, user_id, device_token, platform, created_at, updated_at
		FROM user_push_tokens WHERE user_id = $1 ORDER BY created_at`, userID)
	if err != nil {
		return nil, queryError("list push tokens", err, nil)
	}
	tokens, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (entities.PushToken, error) {
		var t entities.PushToken
		err := row.Scan(&t.ID, &t.UserID, &t.DeviceToken, &t.Platform, &t.CreatedAt, &t.UpdatedAt)
		return t, err
	})
	if err != nil {
		return nil, queryError("list push tokens", err, nil)
	}
	return tokens, nil
}
