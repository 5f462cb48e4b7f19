package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"fipet-service/internal/domain"
)

// UserRepo stores per-user gamification state. The streak window is kept
// as JSONB; the scalar columns are what the reward calculator touches on
// every answer.
type UserRepo struct {
	pool *pgxpool.Pool
}

func NewUserRepo(pool *pgxpool.Pool) *UserRepo {
	return &UserRepo{pool: pool}
}

func (r *UserRepo) GetUser(ctx context.Context, userID string) (domain.UserProfile, error) {
	var (
		p         domain.UserProfile
		streakRaw []byte
	)
	err := r.pool.QueryRow(ctx, `
		SELECT id, display_name, level, current_xp, earned_xp_today, coins,
		       mood, last_login_at, first_login_today, streak
		FROM users WHERE id=$1`, userID,
	).Scan(&p.ID, &p.DisplayName, &p.Level, &p.CurrentXP, &p.EarnedXPToday, &p.Coins,
		&p.Mood, &p.LastLoginAt, &p.FirstLoginToday, &streakRaw)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.UserProfile{}, domain.ErrUserNotFound
	}
	if err != nil {
		return domain.UserProfile{}, fmt.Errorf("load user: %w", err)
	}
	if len(streakRaw) > 0 {
		if err := json.Unmarshal(streakRaw, &p.Streak); err != nil {
			return domain.UserProfile{}, fmt.Errorf("unmarshal streak: %w", err)
		}
	}
	return p, nil
}

func (r *UserRepo) SaveUser(ctx context.Context, p domain.UserProfile) error {
	streakRaw, err := json.Marshal(p.Streak)
	if err != nil {
		return fmt.Errorf("marshal streak: %w", err)
	}
	_, err = r.pool.Exec(ctx, `
		INSERT INTO users
			(id, display_name, level, current_xp, earned_xp_today, coins,
			 mood, last_login_at, first_login_today, streak)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (id) DO UPDATE SET
			display_name      = EXCLUDED.display_name,
			level             = EXCLUDED.level,
			current_xp        = EXCLUDED.current_xp,
			earned_xp_today   = EXCLUDED.earned_xp_today,
			coins             = EXCLUDED.coins,
			mood              = EXCLUDED.mood,
			last_login_at     = EXCLUDED.last_login_at,
			first_login_today = EXCLUDED.first_login_today,
			streak            = EXCLUDED.streak`,
		p.ID, p.DisplayName, p.Level, p.CurrentXP, p.EarnedXPToday, p.Coins,
		p.Mood, p.LastLoginAt, p.FirstLoginToday, streakRaw)
	if err != nil {
		return fmt.Errorf("save user: %w", err)
	}
	return nil
}
