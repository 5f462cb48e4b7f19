package app

import (
	"sort"

	"fipet-service/internal/domain"
)

// ResolveDestination determines where a user should be sent next within a
// quest: the pre-quest reading (when present and nothing has been answered
// yet), the lowest-ordinal unanswered question, or the completion screen.
//
// The answered set may contain IDs that do not belong to the quest; those
// are ignored. Duplicate ordinals are a data error; when they occur the
// question appearing earlier in the quest's stored sequence wins (stable
// sort). Pure function, no side effects.
func ResolveDestination(quest domain.Quest, answered map[string]struct{}) (domain.Destination, error) {
	if len(quest.Questions) == 0 {
		return domain.Destination{}, domain.ErrInvalidQuest
	}

	answeredInQuest := 0
	for _, q := range quest.Questions {
		if _, ok := answered[q.ID]; ok {
			answeredInQuest++
		}
	}

	if quest.HasPreReading() && answeredInQuest == 0 {
		return domain.Destination{Kind: domain.DestinationPreReading}, nil
	}
	if answeredInQuest == len(quest.Questions) {
		return domain.Destination{Kind: domain.DestinationComplete}, nil
	}

	ordered := make([]domain.Question, len(quest.Questions))
	copy(ordered, quest.Questions)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Ordinal < ordered[j].Ordinal
	})

	for _, q := range ordered {
		if _, ok := answered[q.ID]; !ok {
			return domain.Destination{Kind: domain.DestinationQuestion, QuestionID: q.ID}, nil
		}
	}
	return domain.Destination{Kind: domain.DestinationComplete}, nil
}

// AnsweredSet builds the resolver input from a list of answered question IDs.
func AnsweredSet(ids []string) map[string]struct{} {
	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}
