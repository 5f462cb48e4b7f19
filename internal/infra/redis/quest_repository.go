package redis

import (
	"context"
	"encoding/json"
	"math/rand"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"

	"fipet-service/internal/domain"
)

// QuestLoader fetches quest content from a backing store (e.g., Postgres).
type QuestLoader interface {
	LoadQuest(ctx context.Context, questID string) (domain.Quest, error)
}

// QuestRepository caches full quest content in Redis as a JSON blob and
// falls back to a loader on cache miss. The resolver needs question
// ordinals and the pre-quest flag, so the whole structure is cached:
// SET quest:{questID}:content {json} EX {ttl}
type QuestRepository struct {
	client *redis.Client
	loader QuestLoader
	ttl    time.Duration
	sf     singleflight.Group
	rnd    *rand.Rand
}

func NewQuestRepository(client *redis.Client, loader QuestLoader, ttl time.Duration) *QuestRepository {
	return &QuestRepository{
		client: client,
		loader: loader,
		ttl:    ttl,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (r *QuestRepository) GetQuest(ctx context.Context, questID string) (domain.Quest, error) {
	key := r.contentKey(questID)

	raw, err := r.client.Get(ctx, key).Bytes()
	if err == nil {
		if quest, ok := decodeQuest(questID, raw); ok {
			return quest, nil
		}
	}

	result, err, _ := r.sf.Do(questID, func() (interface{}, error) {
		// Re-check cache in case another goroutine filled it.
		raw, err := r.client.Get(ctx, key).Bytes()
		if err == nil {
			if quest, ok := decodeQuest(questID, raw); ok {
				return quest, nil
			}
		}

		quest, err := r.loader.LoadQuest(ctx, questID)
		if err != nil {
			return domain.Quest{}, err
		}

		if data, err := json.Marshal(quest); err == nil {
			// best-effort cache fill
			_ = r.client.Set(ctx, key, data, r.ttlWithJitter()).Err()
		}
		return quest, nil
	})
	if err != nil {
		return domain.Quest{}, err
	}
	return result.(domain.Quest), nil
}

func (r *QuestRepository) contentKey(questID string) string {
	return "quest:" + questID + ":content"
}

func decodeQuest(questID string, raw []byte) (domain.Quest, bool) {
	var quest domain.Quest
	if err := json.Unmarshal(raw, &quest); err != nil || quest.ID != questID {
		return domain.Quest{}, false
	}
	return quest, true
}

func (r *QuestRepository) ttlWithJitter() time.Duration {
	if r.ttl <= 0 {
		return 0
	}
	jitterMax := int64(r.ttl) / 10
	return r.ttl + time.Duration(r.rnd.Int63n(jitterMax+1))
}
