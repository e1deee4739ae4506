package recommend

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/certprep/backend/internal/models"
)

// InteractionSource supplies a user's raw progress entries.
type InteractionSource interface {
	GetInteractions(userID, certification string) ([]models.InteractionRecord, error)
}

// ContentCatalog is the read-only reference data the engine resolves
// records against. GetContent returns (nil, nil) for unknown ids.
type ContentCatalog interface {
	GetContent(contentID string) (*models.ContentItem, error)
	GetContentByCategory(category, certification string) ([]models.ContentItem, error)
	GetContentByDifficulty(tier models.DifficultyTier, certification string) ([]models.ContentItem, error)
	GetContentByCertification(certification string) ([]models.ContentItem, error)
}

// RecommendationStore persists generated batches and feedback updates.
type RecommendationStore interface {
	SaveRecommendations(ctx context.Context, recs []models.StudyRecommendation) error
	UpdateFeedback(ctx context.Context, userID, recommendationID string, action models.FeedbackAction, extra map[string]interface{}) (bool, error)
}

// Service is the analysis and recommendation engine. All collaborators
// are injected; there is no package-level client state. The public
// entry points never return an error: collaborator failures degrade to
// safe defaults, tagged on the result's Source field.
type Service struct {
	interactions InteractionSource
	catalog      ContentCatalog
	recs         RecommendationStore

	now func() time.Time
}

func NewService(interactions InteractionSource, catalog ContentCatalog, recs RecommendationStore) *Service {
	return &Service{
		interactions: interactions,
		catalog:      catalog,
		recs:         recs,
		now:          time.Now,
	}
}

const defaultRecommendationLimit = 10

// GetPersonalizedRecommendations produces the ordered, deduplicated
// recommendation batch for a user. The batch is persisted best-effort
// before being returned; a failed write never withholds the result.
func (s *Service) GetPersonalizedRecommendations(ctx context.Context, userID, certification string, limit int) models.RecommendationList {
	if limit <= 0 {
		limit = defaultRecommendationLimit
	}

	records, err := s.interactions.GetInteractions(userID, certification)
	if err != nil {
		log.Printf("WARN: [recommend] interaction read failed for user=%s: %v", userID, err)
		return models.RecommendationList{Source: models.SourceDegraded, Recommendations: []models.StudyRecommendation{}}
	}

	now := s.now().UTC()

	if len(records) == 0 {
		beginnerItems, err := s.catalog.GetContentByDifficulty(models.TierBeginner, certification)
		if err != nil {
			log.Printf("WARN: [recommend] catalog read failed for user=%s: %v", userID, err)
			return models.RecommendationList{Source: models.SourceDegraded, Recommendations: []models.StudyRecommendation{}}
		}
		recs := newUserRecommendations(userID, beginnerItems, limit, now)
		s.persist(ctx, recs)
		return models.RecommendationList{Source: models.SourceEmpty, Recommendations: recs}
	}

	byCategory, _ := Aggregate(records, s.resolver())
	recs := s.stagedRecommendations(userID, certification, byCategory, limit, now)
	recs = RescorePriorities(recs, byCategory)
	if recs == nil {
		recs = []models.StudyRecommendation{}
	}

	s.persist(ctx, recs)
	return models.RecommendationList{Source: models.SourceOK, Recommendations: recs}
}

// IdentifyWeakAreas reports categories and tiers the user is
// underperforming in.
func (s *Service) IdentifyWeakAreas(ctx context.Context, userID, certification string) models.WeakAreaReport {
	records, err := s.interactions.GetInteractions(userID, certification)
	if err != nil {
		log.Printf("WARN: [recommend] interaction read failed for user=%s: %v", userID, err)
		return models.WeakAreaReport{
			Source:           models.SourceDegraded,
			WeakCategories:   []models.WeakCategory{},
			WeakDifficulties: []models.WeakDifficulty{},
			Analysis:         "Analysis unavailable",
		}
	}

	if len(records) == 0 {
		return models.WeakAreaReport{
			Source:           models.SourceEmpty,
			WeakCategories:   []models.WeakCategory{},
			WeakDifficulties: []models.WeakDifficulty{},
			Analysis:         "Insufficient data - complete some study activities to see your weak areas",
		}
	}

	byCategory, byDifficulty := Aggregate(records, s.resolver())
	weakCats := WeakCategories(byCategory)
	weakDiffs := WeakDifficulties(byDifficulty)
	if weakCats == nil {
		weakCats = []models.WeakCategory{}
	}
	if weakDiffs == nil {
		weakDiffs = []models.WeakDifficulty{}
	}

	analysis := "No weak areas detected - keep up the consistent work"
	if len(weakCats) > 0 {
		analysis = fmt.Sprintf("Found %d weak area(s); start with %s", len(weakCats), weakCats[0].Category)
	}

	return models.WeakAreaReport{
		Source:           models.SourceOK,
		WeakCategories:   weakCats,
		WeakDifficulties: weakDiffs,
		Analysis:         analysis,
	}
}

// GetDifficultyProgression estimates the user's current and recommended
// difficulty level.
func (s *Service) GetDifficultyProgression(ctx context.Context, userID, certification string) models.ProgressionReport {
	records, err := s.interactions.GetInteractions(userID, certification)
	if err != nil {
		log.Printf("WARN: [recommend] interaction read failed for user=%s: %v", userID, err)
		report := NewUserProgression()
		report.Source = models.SourceDegraded
		return report
	}

	if len(records) == 0 {
		return NewUserProgression()
	}

	_, byDifficulty := Aggregate(records, s.resolver())
	readiness := Readiness(byDifficulty)
	current := CurrentLevel(readiness)
	recommended := RecommendedLevel(current, readiness)

	path := []string{fmt.Sprintf("Keep practicing %s content to solidify your level", current)}
	if recommended != current {
		path = append(path, fmt.Sprintf("You're ready to move on to %s material", recommended))
	}

	return models.ProgressionReport{
		Source:           models.SourceOK,
		CurrentLevel:     current,
		RecommendedLevel: recommended,
		Readiness:        readiness,
		ProgressionPath:  path,
	}
}

// GenerateStudyPath sequences weak-area and progression analysis into
// ordered phases with time estimates and milestones.
func (s *Service) GenerateStudyPath(ctx context.Context, userID, certification string) models.StudyPath {
	records, err := s.interactions.GetInteractions(userID, certification)
	if err != nil {
		log.Printf("WARN: [recommend] interaction read failed for user=%s: %v", userID, err)
		path := s.buildStudyPath(userID, certification, nil, models.TierBeginner, models.TierBeginner)
		path.Source = models.SourceDegraded
		return path
	}

	if len(records) == 0 {
		path := s.buildStudyPath(userID, certification, nil, models.TierBeginner, models.TierBeginner)
		path.Source = models.SourceEmpty
		return path
	}

	byCategory, byDifficulty := Aggregate(records, s.resolver())
	weak := WeakCategories(byCategory)
	readiness := Readiness(byDifficulty)
	current := CurrentLevel(readiness)
	recommended := RecommendedLevel(current, readiness)

	path := s.buildStudyPath(userID, certification, weak, current, recommended)
	path.Source = models.SourceOK
	return path
}

// RecordFeedback updates a stored recommendation in place. Unknown
// actions and persistence failures report false; nothing propagates.
func (s *Service) RecordFeedback(ctx context.Context, userID, recommendationID string, action models.FeedbackAction, extra map[string]interface{}) bool {
	if !models.ValidFeedbackActions[action] {
		return false
	}

	updated, err := s.recs.UpdateFeedback(ctx, userID, recommendationID, action, extra)
	if err != nil {
		log.Printf("WARN: [recommend] feedback update failed for user=%s rec=%s: %v", userID, recommendationID, err)
		return false
	}
	return updated
}

// resolver adapts the catalog to the aggregator's lenient lookup,
// caching per call so repeated content ids hit the store once.
func (s *Service) resolver() ContentResolver {
	cache := make(map[string]*models.ContentItem)
	return func(contentID string) *models.ContentItem {
		if item, ok := cache[contentID]; ok {
			return item
		}
		item, err := s.catalog.GetContent(contentID)
		if err != nil {
			log.Printf("WARN: [recommend] content lookup failed for %s: %v", contentID, err)
			item = nil
		}
		cache[contentID] = item
		return item
	}
}

func (s *Service) persist(ctx context.Context, recs []models.StudyRecommendation) {
	if len(recs) == 0 {
		return
	}
	if err := s.recs.SaveRecommendations(ctx, recs); err != nil {
		log.Printf("WARN: [recommend] persist failed: %v", err)
	}
}
