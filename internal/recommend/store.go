package recommend

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/certprep/backend/internal/models"
	"github.com/redis/go-redis/v9"
)

// RedisStore keeps one JSON value per recommendation, keyed by
// (user, recommendation), with a TTL derived from the recommendation's
// expiry so cleanup is automatic. A per-user set indexes active keys.
type RedisStore struct {
	client *redis.Client
	now    func() time.Time
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client, now: time.Now}
}

func recKey(userID, recommendationID string) string {
	return fmt.Sprintf("rec:%s:%s", userID, recommendationID)
}

func userIndexKey(userID string) string {
	return fmt.Sprintf("rec-index:%s", userID)
}

// SaveRecommendations upserts a batch. Items already expired at write
// time are skipped rather than stored with a non-positive TTL.
func (s *RedisStore) SaveRecommendations(ctx context.Context, recs []models.StudyRecommendation) error {
	now := s.now()
	pipe := s.client.Pipeline()

	for _, rec := range recs {
		ttl := rec.ExpiresAt.Sub(now)
		if ttl <= 0 {
			continue
		}
		payload, err := json.Marshal(rec)
		if err != nil {
			return fmt.Errorf("marshal recommendation %s: %w", rec.RecommendationID, err)
		}
		pipe.Set(ctx, recKey(rec.UserID, rec.RecommendationID), payload, ttl)
		pipe.SAdd(ctx, userIndexKey(rec.UserID), rec.RecommendationID)
		pipe.Expire(ctx, userIndexKey(rec.UserID), ttl)
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("save recommendations: %w", err)
	}
	return nil
}

// GetRecommendation returns a stored recommendation, or (nil, nil) when
// the key is unknown or already expired.
func (s *RedisStore) GetRecommendation(ctx context.Context, userID, recommendationID string) (*models.StudyRecommendation, error) {
	payload, err := s.client.Get(ctx, recKey(userID, recommendationID)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get recommendation: %w", err)
	}

	var rec models.StudyRecommendation
	if err := json.Unmarshal(payload, &rec); err != nil {
		return nil, fmt.Errorf("unmarshal recommendation: %w", err)
	}
	return &rec, nil
}

// ListActive returns a user's still-stored recommendations. Index
// members whose value has already expired are pruned as a side effect.
func (s *RedisStore) ListActive(ctx context.Context, userID string) ([]models.StudyRecommendation, error) {
	ids, err := s.client.SMembers(ctx, userIndexKey(userID)).Result()
	if err != nil {
		return nil, fmt.Errorf("list recommendation index: %w", err)
	}

	var recs []models.StudyRecommendation
	for _, id := range ids {
		rec, err := s.GetRecommendation(ctx, userID, id)
		if err != nil {
			return nil, err
		}
		if rec == nil {
			s.client.SRem(ctx, userIndexKey(userID), id)
			continue
		}
		recs = append(recs, *rec)
	}
	return recs, nil
}

// UpdateFeedback applies an in-place field update, keyed by
// (user, recommendation). Re-applying the same action is a harmless
// overwrite of the same fields. Returns false when the recommendation
// no longer exists.
func (s *RedisStore) UpdateFeedback(ctx context.Context, userID, recommendationID string, action models.FeedbackAction, extra map[string]interface{}) (bool, error) {
	rec, err := s.GetRecommendation(ctx, userID, recommendationID)
	if err != nil {
		return false, err
	}
	if rec == nil {
		return false, nil
	}

	now := s.now().UTC()
	rec.FeedbackAction = &action
	rec.FeedbackTimestamp = &now
	if len(extra) > 0 {
		rec.FeedbackData = extra
	}
	if action == models.FeedbackCompleted {
		rec.IsCompleted = true
	}

	payload, err := json.Marshal(rec)
	if err != nil {
		return false, fmt.Errorf("marshal recommendation: %w", err)
	}

	// KEEPTTL preserves the expiry set when the batch was generated.
	if err := s.client.Set(ctx, recKey(userID, recommendationID), payload, redis.KeepTTL).Err(); err != nil {
		return false, fmt.Errorf("update feedback: %w", err)
	}
	return true, nil
}
