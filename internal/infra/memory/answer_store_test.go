package memory

import (
	"context"
	"testing"
	"time"

	"fipet-service/internal/domain"
)

func TestAnswerStoreUpsertByNaturalKey(t *testing.T) {
	ctx := context.Background()
	store := NewAnswerStore()

	rec := domain.AnsweredQuestion{
		RecordID: "r1", UserID: "u1", QuestID: "quest-1", QuestionID: "q1",
		SelectedOptionID: "o2", Correct: true, AnsweredAt: time.Now(),
	}
	created, err := store.UpsertAnswer(ctx, rec)
	if err != nil || !created {
		t.Fatalf("expected fresh insert, got created=%v err=%v", created, err)
	}

	rec.RecordID = "r2"
	rec.SelectedOptionID = "o1"
	rec.Correct = false
	created, err = store.UpsertAnswer(ctx, rec)
	if err != nil || created {
		t.Fatalf("expected overwrite, got created=%v err=%v", created, err)
	}

	ids, err := store.AnsweredQuestionIDs(ctx, "u1", "quest-1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(ids) != 1 || ids[0] != "q1" {
		t.Fatalf("expected single record, got %v", ids)
	}

	got, ok := store.Get("u1", "quest-1", "q1")
	if !ok || got.SelectedOptionID != "o1" || got.Correct {
		t.Fatalf("expected overwritten record, got %+v", got)
	}
}

func TestAnswerStoreScopedByUserAndQuest(t *testing.T) {
	ctx := context.Background()
	store := NewAnswerStore()

	_, _ = store.UpsertAnswer(ctx, domain.AnsweredQuestion{UserID: "u1", QuestID: "quest-1", QuestionID: "q1"})
	_, _ = store.UpsertAnswer(ctx, domain.AnsweredQuestion{UserID: "u2", QuestID: "quest-1", QuestionID: "q1"})
	_, _ = store.UpsertAnswer(ctx, domain.AnsweredQuestion{UserID: "u1", QuestID: "quest-2", QuestionID: "q1"})

	ids, err := store.AnsweredQuestionIDs(ctx, "u1", "quest-1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(ids) != 1 {
		t.Fatalf("expected answers scoped to (user, quest), got %v", ids)
	}
}
