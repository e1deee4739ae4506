package recommend

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/certprep/backend/internal/models"
	"github.com/google/uuid"
)

// Expiry horizons per recommendation flavor.
const (
	reviewHorizon       = 3 * 24 * time.Hour
	progressionHorizon  = 5 * 24 * time.Hour
	foundationalHorizon = 7 * 24 * time.Hour
)

const (
	strongScoreThreshold    = 80.0
	moderateLowThreshold    = 70.0
	moderateHighThreshold   = 85.0
	newUserBasePriority     = 9
	weakStageBasePriority   = 8
	strongStageBasePriority = 6
	quizStageBasePriority   = 4
)

// newUserRecommendations serves users with no history: one content
// recommendation per distinct beginner item, in catalog order.
func newUserRecommendations(userID string, beginnerItems []models.ContentItem, limit int, now time.Time) []models.StudyRecommendation {
	var recs []models.StudyRecommendation
	seen := make(map[string]bool)
	priority := newUserBasePriority

	for _, item := range beginnerItems {
		if len(recs) >= limit {
			break
		}
		if seen[item.ContentID] {
			continue
		}
		seen[item.ContentID] = true

		contentID := item.ContentID
		category := item.Category
		recs = append(recs, models.StudyRecommendation{
			RecommendationID: uuid.NewString(),
			UserID:           userID,
			Kind:             models.RecommendContent,
			Priority:         clampPriority(priority),
			ContentID:        &contentID,
			Category:         &category,
			Reasoning:        fmt.Sprintf("Start with foundational %s concepts", item.Category),
			EstimatedMinutes: 30,
			CreatedAt:        now,
			ExpiresAt:        now.Add(foundationalHorizon),
		})
		priority--
	}
	return recs
}

// stagedRecommendations runs the weak-area, progression, and
// reinforcement stages in precedence order, each filling what capacity
// remains. The weak-area stage is capped at half the limit so the later
// stages always have room.
func (s *Service) stagedRecommendations(userID, certification string, byCategory map[string]*Performance, limit int, now time.Time) []models.StudyRecommendation {
	var recs []models.StudyRecommendation

	// Stage: review weak areas, worst average first.
	weakCap := limit / 2
	priority := weakStageBasePriority
	for _, weak := range WeakCategories(byCategory) {
		if len(recs) >= weakCap {
			break
		}
		item := s.firstItemInCategory(weak.Category, certification, "")
		var contentID *string
		if item != nil {
			contentID = &item.ContentID
		}
		category := weak.Category
		recs = append(recs, models.StudyRecommendation{
			RecommendationID: uuid.NewString(),
			UserID:           userID,
			Kind:             models.RecommendReview,
			Priority:         clampPriority(priority),
			ContentID:        contentID,
			Category:         &category,
			Reasoning:        fmt.Sprintf("Review %s - current average: %.1f%%", weak.Category, weak.AvgScore),
			EstimatedMinutes: 45,
			CreatedAt:        now,
			ExpiresAt:        now.Add(reviewHorizon),
		})
		priority--
	}

	// Stage: advance strong categories, best average first. Categories
	// with no intermediate content are skipped.
	priority = strongStageBasePriority
	for _, strong := range strongCategories(byCategory) {
		if len(recs) >= limit {
			break
		}
		item := s.firstItemInCategory(strong.category, certification, models.TierIntermediate)
		if item == nil {
			continue
		}
		contentID := item.ContentID
		category := strong.category
		recs = append(recs, models.StudyRecommendation{
			RecommendationID: uuid.NewString(),
			UserID:           userID,
			Kind:             models.RecommendContent,
			Priority:         clampPriority(priority),
			ContentID:        &contentID,
			Category:         &category,
			Reasoning:        fmt.Sprintf("Advance in %s - you're performing well (%.1f%%)", strong.category, strong.avgScore),
			EstimatedMinutes: 40,
			CreatedAt:        now,
			ExpiresAt:        now.Add(progressionHorizon),
		})
		priority--
	}

	// Stage: reinforce moderate categories with quizzes.
	priority = quizStageBasePriority
	for _, moderate := range moderateCategories(byCategory) {
		if len(recs) >= limit {
			break
		}
		category := moderate.category
		recs = append(recs, models.StudyRecommendation{
			RecommendationID: uuid.NewString(),
			UserID:           userID,
			Kind:             models.RecommendQuiz,
			Priority:         clampPriority(priority),
			Category:         &category,
			Reasoning:        fmt.Sprintf("Practice %s questions to reinforce knowledge", moderate.category),
			EstimatedMinutes: 20,
			CreatedAt:        now,
			ExpiresAt:        now.Add(foundationalHorizon),
		})
		priority--
	}

	return recs
}

// firstItemInCategory returns the first catalog item for a category,
// optionally restricted to a tier. Catalog order is stable (creation
// order), so "first" is reproducible.
func (s *Service) firstItemInCategory(category, certification string, tier models.DifficultyTier) *models.ContentItem {
	items, err := s.catalog.GetContentByCategory(category, certification)
	if err != nil {
		return nil
	}
	for i := range items {
		if tier == "" || items[i].Difficulty == tier {
			return &items[i]
		}
	}
	return nil
}

type rankedCategory struct {
	category string
	avgScore float64
}

func strongCategories(byCategory map[string]*Performance) []rankedCategory {
	return rankCategories(byCategory, func(p *Performance) bool {
		return p.AvgScore >= strongScoreThreshold
	})
}

func moderateCategories(byCategory map[string]*Performance) []rankedCategory {
	return rankCategories(byCategory, func(p *Performance) bool {
		return p.AvgScore >= moderateLowThreshold && p.AvgScore < moderateHighThreshold
	})
}

func rankCategories(byCategory map[string]*Performance, keep func(*Performance) bool) []rankedCategory {
	var ranked []rankedCategory
	for category, perf := range byCategory {
		if keep(perf) {
			ranked = append(ranked, rankedCategory{category: category, avgScore: perf.AvgScore})
		}
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].avgScore != ranked[j].avgScore {
			return ranked[i].avgScore > ranked[j].avgScore
		}
		return ranked[i].category < ranked[j].category
	})
	return ranked
}

// Multi-factor priority weights. Base stage priority dominates, then
// score gap, attempt velocity, and consistency.
const (
	weightBasePriority = 0.4
	weightGapSeverity  = 0.3
	weightVelocity     = 0.2
	weightConsistency  = 0.1
)

// RescorePriorities recomputes each recommendation's priority from the
// richer per-category statistics, then orders the list by the new
// priority. Recommendations without category statistics keep their
// stage priority; with no statistics at all this is a no-op, which is
// the graceful-degradation path.
func RescorePriorities(recs []models.StudyRecommendation, byCategory map[string]*Performance) []models.StudyRecommendation {
	for i := range recs {
		if recs[i].Category == nil {
			continue
		}
		perf, ok := byCategory[*recs[i].Category]
		if !ok {
			continue
		}

		gapSeverity := math.Max(0, (weakScoreThreshold-perf.AvgScore)/weakScoreThreshold)
		velocity := math.Min(1.0, float64(perf.Attempts)/10.0)
		consistency := Consistency(perf.Scores)

		score := float64(recs[i].Priority)*weightBasePriority +
			gapSeverity*10*weightGapSeverity +
			(1-velocity)*5*weightVelocity +
			(1-consistency)*3*weightConsistency
		recs[i].Priority = clampPriority(int(math.Round(score)))
	}

	sort.SliceStable(recs, func(i, j int) bool {
		return recs[i].Priority > recs[j].Priority
	})
	return recs
}

func clampPriority(p int) int {
	if p < 1 {
		return 1
	}
	if p > 10 {
		return 10
	}
	return p
}
