package memory

import (
	"context"
	"sync"

	"fipet-service/internal/domain"
)

// AnswerStore is an in-memory implementation of app.AnswerRepository.
// Records are keyed by (userID, questID, questionID); re-submissions
// overwrite in place.
type AnswerStore struct {
	mu      sync.RWMutex
	records map[answerKey]domain.AnsweredQuestion
}

type answerKey struct {
	userID     string
	questID    string
	questionID string
}

func NewAnswerStore() *AnswerStore {
	return &AnswerStore{records: make(map[answerKey]domain.AnsweredQuestion)}
}

func (s *AnswerStore) UpsertAnswer(_ context.Context, rec domain.AnsweredQuestion) (bool, error) {
	key := answerKey{userID: rec.UserID, questID: rec.QuestID, questionID: rec.QuestionID}

	s.mu.Lock()
	defer s.mu.Unlock()
	_, existed := s.records[key]
	s.records[key] = rec
	return !existed, nil
}

func (s *AnswerStore) AnsweredQuestionIDs(_ context.Context, userID, questID string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var ids []string
	for key := range s.records {
		if key.userID == userID && key.questID == questID {
			ids = append(ids, key.questionID)
		}
	}
	return ids, nil
}

// Get returns the stored record for a natural key, for tests.
func (s *AnswerStore) Get(userID, questID, questionID string) (domain.AnsweredQuestion, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.records[answerKey{userID: userID, questID: questID, questionID: questionID}]
	return rec, ok
}
