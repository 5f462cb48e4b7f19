package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v4/pgxpool"

	"fipet-service/internal/domain"
)

// AnswerRepo persists answer events, one row per
// (user_id, quest_id, question_id); re-submissions overwrite in place.
type AnswerRepo struct {
	pool *pgxpool.Pool
}

func NewAnswerRepo(pool *pgxpool.Pool) *AnswerRepo {
	return &AnswerRepo{pool: pool}
}

func (r *AnswerRepo) UpsertAnswer(ctx context.Context, rec domain.AnsweredQuestion) (bool, error) {
	// xmax = 0 distinguishes a fresh insert from a conflict update.
	var created bool
	err := r.pool.QueryRow(ctx, `
		INSERT INTO answered_questions
			(record_id, user_id, quest_id, question_id, selected_option_id,
			 correct, correct_option_id, question_type, ordinal, answered_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (user_id, quest_id, question_id) DO UPDATE SET
			selected_option_id = EXCLUDED.selected_option_id,
			correct            = EXCLUDED.correct,
			correct_option_id  = EXCLUDED.correct_option_id,
			question_type      = EXCLUDED.question_type,
			ordinal            = EXCLUDED.ordinal,
			answered_at        = EXCLUDED.answered_at
		RETURNING (xmax = 0)`,
		rec.RecordID, rec.UserID, rec.QuestID, rec.QuestionID, rec.SelectedOptionID,
		rec.Correct, rec.CorrectOptionID, string(rec.QuestionType), rec.Ordinal, rec.AnsweredAt,
	).Scan(&created)
	if err != nil {
		return false, fmt.Errorf("upsert answer: %w", err)
	}
	return created, nil
}

func (r *AnswerRepo) AnsweredQuestionIDs(ctx context.Context, userID, questID string) ([]string, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT question_id FROM answered_questions WHERE user_id=$1 AND quest_id=$2`,
		userID, questID)
	if err != nil {
		return nil, fmt.Errorf("list answered: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan answered: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
