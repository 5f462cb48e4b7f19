package domain

import "time"

// QuestionType distinguishes how a question is presented to the client.
type QuestionType string

const (
	QuestionMultipleChoice QuestionType = "multipleChoice"
	QuestionTrueFalse      QuestionType = "trueFalse"
	QuestionRegular        QuestionType = "regular"
)

// Outcome is what answering with a given option yields.
type Outcome struct {
	Feedback   string `json:"feedback"`
	XPReward   int    `json:"xpReward"`
	ItemReward string `json:"itemReward,omitempty"`
}

// Option represents a possible answer for a question. Option IDs are
// unique within their question.
type Option struct {
	ID       string  `json:"id"`
	Text     string  `json:"text"`
	ImageRef string  `json:"imageRef,omitempty"`
	Correct  bool    `json:"correct"`
	Outcome  Outcome `json:"outcome"`
}

// Question models a single quest step. Ordinal defines traversal order
// within the quest.
type Question struct {
	ID      string       `json:"id"`
	Ordinal int          `json:"ordinal"`
	Prompt  string       `json:"prompt"`
	Type    QuestionType `json:"type"`
	Options []Option     `json:"options"`
}

// Quest is an ordered sequence of questions, optionally preceded by a
// reading. Content is read-only from the engine's perspective.
type Quest struct {
	ID         string     `json:"id"`
	Title      string     `json:"title"`
	PreQuest   string     `json:"preQuest,omitempty"`
	Questions  []Question `json:"questions"`
	XPReward   int        `json:"xpReward"`
	CoinReward int        `json:"coinReward"`
}

// HasPreReading reports whether the quest starts with a reading screen.
func (q Quest) HasPreReading() bool {
	return q.PreQuest != ""
}

// AnsweredQuestion is the append-only answer event. At most one record
// exists per (UserID, QuestID, QuestionID); re-submissions overwrite.
type AnsweredQuestion struct {
	RecordID         string       `json:"recordId"`
	UserID           string       `json:"userId"`
	QuestID          string       `json:"questId"`
	QuestionID       string       `json:"questionId"`
	SelectedOptionID string       `json:"selectedOptionId"`
	Correct          bool         `json:"correct"`
	CorrectOptionID  string       `json:"correctOptionId"`
	QuestionType     QuestionType `json:"questionType"`
	Ordinal          int          `json:"ordinal"`
	AnsweredAt       time.Time    `json:"answeredAt"`
}

// StreakDay marks whether the daily XP goal was reached on one weekday.
type StreakDay struct {
	Weekday  string `json:"weekday"`
	Achieved bool   `json:"achieved"`
}

// StreakProgress tracks the rolling seven-day streak window.
type StreakProgress struct {
	CurrentStreak int          `json:"currentStreak"`
	Days          [7]StreakDay `json:"days"`
}

// UserProfile is the persistent per-user gamification state. Mutated only
// by the reward calculator and the daily-login transition.
type UserProfile struct {
	ID              string         `json:"id"`
	DisplayName     string         `json:"displayName"`
	Level           int            `json:"level"`
	CurrentXP       int            `json:"currentXP"`
	EarnedXPToday   int            `json:"earnedXPToday"`
	Coins           int            `json:"coins"`
	Mood            *int           `json:"mood,omitempty"`
	LastLoginAt     *time.Time     `json:"lastLoginAt,omitempty"`
	FirstLoginToday bool           `json:"firstLoginToday"`
	Streak          StreakProgress `json:"streak"`
}

// DestinationKind tags the resolver outcome.
type DestinationKind string

const (
	DestinationPreReading DestinationKind = "preReading"
	DestinationQuestion   DestinationKind = "question"
	DestinationComplete   DestinationKind = "complete"
)

// Destination is the navigation target produced by the progress resolver.
// QuestionID is set only for DestinationQuestion.
type Destination struct {
	Kind       DestinationKind `json:"kind"`
	QuestionID string          `json:"questionId,omitempty"`
}

// ProgressSnapshot is the client-facing view of a user's progress, pushed
// over the websocket stream after answer and login events.
type ProgressSnapshot struct {
	UserID           string  `json:"userId"`
	Level            int     `json:"level"`
	CurrentXP        int     `json:"currentXP"`
	RequiredLevelXP  int     `json:"requiredLevelXP"`
	LevelProgress    float64 `json:"levelProgress"`
	EarnedXPToday    int     `json:"earnedXPToday"`
	RequiredStreakXP int     `json:"requiredStreakXP"`
	StreakProgress   float64 `json:"streakProgress"`
	CurrentStreak    int     `json:"currentStreak"`
	Coins            int     `json:"coins"`
	Mood             int     `json:"mood"`
}
