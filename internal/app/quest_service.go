package app

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"fipet-service/internal/auth"
	"fipet-service/internal/domain"
)

// QuestRepository loads quest content (from cache/backing store).
type QuestRepository interface {
	GetQuest(ctx context.Context, questID string) (domain.Quest, error)
}

// AnswerRepository persists answer events. UpsertAnswer is keyed by
// (UserID, QuestID, QuestionID) and reports whether the record was new.
type AnswerRepository interface {
	UpsertAnswer(ctx context.Context, rec domain.AnsweredQuestion) (created bool, err error)
	AnsweredQuestionIDs(ctx context.Context, userID, questID string) ([]string, error)
}

// UserRepository stores per-user gamification state.
type UserRepository interface {
	GetUser(ctx context.Context, userID string) (domain.UserProfile, error)
	SaveUser(ctx context.Context, profile domain.UserProfile) error
}

// DailyGate claims the single first-login slot for a user on a calendar
// day. Claim returns false when the slot was already taken, which makes
// first-login detection safe across concurrent requests and instances.
type DailyGate interface {
	Claim(ctx context.Context, userID, day string) (bool, error)
}

// RecordAnswerRequest carries one answer submission.
type RecordAnswerRequest struct {
	UserID          string
	QuestID         string
	QuestionID      string
	OptionID        string
	Correct         bool
	CorrectOptionID string
}

// QuestService contains the quest progression use cases.
type QuestService struct {
	quests   QuestRepository
	answers  AnswerRepository
	users    UserRepository
	gate     DailyGate
	progress ProgressStore
	now      func() time.Time
	newID    func() string
}

func NewQuestService(quests QuestRepository, answers AnswerRepository, users UserRepository, gate DailyGate, progress ProgressStore) *QuestService {
	return &QuestService{
		quests:   quests,
		answers:  answers,
		users:    users,
		gate:     gate,
		progress: progress,
		now:      time.Now,
		newID:    uuid.NewString,
	}
}

// NewQuestServiceWithClock is test-only for deterministic timestamps.
func NewQuestServiceWithClock(quests QuestRepository, answers AnswerRepository, users UserRepository, gate DailyGate, progress ProgressStore, now func() time.Time) *QuestService {
	s := NewQuestService(quests, answers, users, gate, progress)
	s.now = now
	return s
}

// NextDestination resolves where the user goes next within a quest, based
// on their recorded answers. Reads are not transactionally linked to
// in-flight answer writes; a stale answered set resolves to an earlier
// question, which clients tolerate.
func (s *QuestService) NextDestination(ctx context.Context, session auth.Session, questID string) (domain.Destination, error) {
	quest, err := s.quests.GetQuest(ctx, questID)
	if err != nil {
		return domain.Destination{}, err
	}
	ids, err := s.answers.AnsweredQuestionIDs(ctx, session.UserID, questID)
	if err != nil {
		return domain.Destination{}, fmt.Errorf("load answered set: %w", err)
	}
	return ResolveDestination(quest, AnsweredSet(ids))
}

// RecordAnswer validates and persists one answer event, denormalizing
// question metadata into the record at write time, then applies the
// selected option's XP reward. When the answer newly completes the quest
// the quest's completion XP and coins are paid out as well.
func (s *QuestService) RecordAnswer(ctx context.Context, req RecordAnswerRequest) (domain.ProgressSnapshot, error) {
	if req.UserID == "" || req.QuestID == "" || req.QuestionID == "" {
		return domain.ProgressSnapshot{}, domain.ErrMissingFields
	}

	quest, err := s.quests.GetQuest(ctx, req.QuestID)
	if err != nil {
		return domain.ProgressSnapshot{}, err
	}
	question, err := findQuestion(quest, req.QuestionID)
	if err != nil {
		return domain.ProgressSnapshot{}, err
	}

	correctID := correctOptionID(question)
	if correctID == "" {
		correctID = req.CorrectOptionID
	}

	now := s.now()
	rec := domain.AnsweredQuestion{
		RecordID:         s.newID(),
		UserID:           req.UserID,
		QuestID:          req.QuestID,
		QuestionID:       req.QuestionID,
		SelectedOptionID: req.OptionID,
		Correct:          req.Correct,
		CorrectOptionID:  correctID,
		QuestionType:     question.Type,
		Ordinal:          question.Ordinal,
		AnsweredAt:       now,
	}
	created, err := s.answers.UpsertAnswer(ctx, rec)
	if err != nil {
		return domain.ProgressSnapshot{}, fmt.Errorf("persist answer: %w", err)
	}

	profile, err := s.users.GetUser(ctx, req.UserID)
	if err != nil {
		return domain.ProgressSnapshot{}, err
	}

	// Rewards are paid only on the first answer for a question;
	// re-submissions overwrite the record without double-crediting.
	if created {
		xp := 0
		if opt := findOption(question, req.OptionID); opt != nil {
			xp = opt.Outcome.XPReward
		}
		coins := 0
		ids, err := s.answers.AnsweredQuestionIDs(ctx, req.UserID, req.QuestID)
		if err != nil {
			return domain.ProgressSnapshot{}, fmt.Errorf("load answered set: %w", err)
		}
		dest, err := ResolveDestination(quest, AnsweredSet(ids))
		if err == nil && dest.Kind == domain.DestinationComplete {
			xp += quest.XPReward
			coins = quest.CoinReward
		}

		ApplyXP(&profile, xp, WeekdayIndex(now))
		profile.Coins += coins
		if err := s.users.SaveUser(ctx, profile); err != nil {
			return domain.ProgressSnapshot{}, fmt.Errorf("save profile: %w", err)
		}
	}

	snap := Snapshot(profile)
	s.publishProgress(req.UserID, snap)
	return snap, nil
}

// DailyLogin runs the once-per-day login transition for the authenticated
// user and reports whether this was the first login of the day.
func (s *QuestService) DailyLogin(ctx context.Context, session auth.Session) (LoginOutcome, error) {
	profile, err := s.users.GetUser(ctx, session.UserID)
	if err != nil {
		return LoginOutcome{}, err
	}

	now := s.now()
	claimed, err := s.gate.Claim(ctx, session.UserID, DayKey(now))
	if err != nil {
		return LoginOutcome{}, fmt.Errorf("claim login slot: %w", err)
	}
	if !claimed {
		// Another request already processed today's login.
		profile.FirstLoginToday = false
		if err := s.users.SaveUser(ctx, profile); err != nil {
			return LoginOutcome{}, fmt.Errorf("save profile: %w", err)
		}
		return LoginOutcome{FirstLoginToday: false, Mood: moodOrDefault(&profile)}, nil
	}

	outcome := ApplyDailyLogin(&profile, now)
	if err := s.users.SaveUser(ctx, profile); err != nil {
		return LoginOutcome{}, fmt.Errorf("save profile: %w", err)
	}
	s.publishProgress(session.UserID, Snapshot(profile))
	return outcome, nil
}

// Subscribe attaches a watcher to the user's live progress stream. The
// stream is seeded with the current persisted snapshot. The caller must
// invoke the returned cancel function to avoid leaks.
func (s *QuestService) Subscribe(ctx context.Context, session auth.Session) (<-chan domain.ProgressSnapshot, func(), error) {
	profile, err := s.users.GetUser(ctx, session.UserID)
	if err != nil {
		return nil, nil, err
	}

	ps := s.progress.GetOrCreate(session.UserID)
	ps.publish(Snapshot(profile))
	ch, cancel := ps.subscribe()

	wrapped := func() {
		cancel()
		if ps.IsIdle() {
			s.progress.DeleteIfIdle(session.UserID)
		}
	}
	return ch, wrapped, nil
}

func (s *QuestService) publishProgress(userID string, snap domain.ProgressSnapshot) {
	if ps, ok := s.progress.Get(userID); ok {
		ps.publish(snap)
	}
}

func findQuestion(quest domain.Quest, questionID string) (domain.Question, error) {
	for i := range quest.Questions {
		if quest.Questions[i].ID == questionID {
			return quest.Questions[i], nil
		}
	}
	return domain.Question{}, domain.ErrQuestionNotFound
}

func findOption(question domain.Question, optionID string) *domain.Option {
	for i := range question.Options {
		if question.Options[i].ID == optionID {
			return &question.Options[i]
		}
	}
	return nil
}

func correctOptionID(question domain.Question) string {
	for _, opt := range question.Options {
		if opt.Correct {
			return opt.ID
		}
	}
	return ""
}
