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

// QuestLoader loads quest JSONB from Postgres.
type QuestLoader struct {
	pool *pgxpool.Pool
}

func NewQuestLoader(pool *pgxpool.Pool) *QuestLoader {
	return &QuestLoader{pool: pool}
}

func (l *QuestLoader) LoadQuest(ctx context.Context, questID string) (domain.Quest, error) {
	var raw []byte
	err := l.pool.QueryRow(ctx, `SELECT data FROM quests WHERE id=$1`, questID).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Quest{}, domain.ErrQuestNotFound
	}
	if err != nil {
		return domain.Quest{}, fmt.Errorf("load quest: %w", err)
	}
	var quest domain.Quest
	if err := json.Unmarshal(raw, &quest); err != nil {
		return domain.Quest{}, fmt.Errorf("unmarshal quest: %w", err)
	}
	return quest, nil
}
