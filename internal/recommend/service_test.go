package recommend

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/certprep/backend/internal/models"
)

// ── Fakes for the three collaborator interfaces ─────────────

type fakeInteractions struct {
	records []models.InteractionRecord
	err     error
}

func (f *fakeInteractions) GetInteractions(userID, certification string) ([]models.InteractionRecord, error) {
	return f.records, f.err
}

type fakeCatalog struct {
	items []models.ContentItem
	err   error
}

func (f *fakeCatalog) GetContent(contentID string) (*models.ContentItem, error) {
	if f.err != nil {
		return nil, f.err
	}
	for i := range f.items {
		if f.items[i].ContentID == contentID {
			return &f.items[i], nil
		}
	}
	return nil, nil
}

func (f *fakeCatalog) GetContentByCategory(category, certification string) ([]models.ContentItem, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []models.ContentItem
	for _, item := range f.items {
		if item.Category == category {
			out = append(out, item)
		}
	}
	return out, nil
}

func (f *fakeCatalog) GetContentByDifficulty(tier models.DifficultyTier, certification string) ([]models.ContentItem, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []models.ContentItem
	for _, item := range f.items {
		if item.Difficulty == tier {
			out = append(out, item)
		}
	}
	return out, nil
}

func (f *fakeCatalog) GetContentByCertification(certification string) ([]models.ContentItem, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.items, nil
}

// fakeRecStore mirrors the Redis store's update semantics so feedback
// behavior can be tested without a running Redis.
type fakeRecStore struct {
	saved   map[string]models.StudyRecommendation
	saveErr error
}

func newFakeRecStore() *fakeRecStore {
	return &fakeRecStore{saved: make(map[string]models.StudyRecommendation)}
}

func (f *fakeRecStore) SaveRecommendations(ctx context.Context, recs []models.StudyRecommendation) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	for _, rec := range recs {
		f.saved[rec.UserID+"/"+rec.RecommendationID] = rec
	}
	return nil
}

func (f *fakeRecStore) UpdateFeedback(ctx context.Context, userID, recommendationID string, action models.FeedbackAction, extra map[string]interface{}) (bool, error) {
	key := userID + "/" + recommendationID
	rec, ok := f.saved[key]
	if !ok {
		return false, nil
	}
	now := time.Now().UTC()
	rec.FeedbackAction = &action
	rec.FeedbackTimestamp = &now
	if action == models.FeedbackCompleted {
		rec.IsCompleted = true
	}
	f.saved[key] = rec
	return true, nil
}

func beginnerCatalog() *fakeCatalog {
	return &fakeCatalog{items: []models.ContentItem{
		{ContentID: "b1", Category: "EC2", Difficulty: models.TierBeginner, CertificationType: "SAA"},
		{ContentID: "b2", Category: "S3", Difficulty: models.TierBeginner, CertificationType: "SAA"},
		{ContentID: "b3", Category: "VPC", Difficulty: models.TierBeginner, CertificationType: "SAA"},
	}}
}

func newTestService(interactions *fakeInteractions, catalog *fakeCatalog, store *fakeRecStore) *Service {
	s := NewService(interactions, catalog, store)
	s.now = func() time.Time { return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC) }
	return s
}

// ── Entry point behavior ────────────────────────────────────

func TestNewUserRecommendationsPath(t *testing.T) {
	store := newFakeRecStore()
	s := newTestService(&fakeInteractions{}, beginnerCatalog(), store)

	list := s.GetPersonalizedRecommendations(context.Background(), "u1", "", 10)

	if list.Source != models.SourceEmpty {
		t.Errorf("source = %s, want empty", list.Source)
	}
	if len(list.Recommendations) != 3 {
		t.Fatalf("got %d recommendations, want 3", len(list.Recommendations))
	}
	for i, rec := range list.Recommendations {
		if rec.Kind != models.RecommendContent {
			t.Errorf("rec[%d].Kind = %s, want content", i, rec.Kind)
		}
		if rec.Priority != 9-i {
			t.Errorf("rec[%d].Priority = %d, want %d", i, rec.Priority, 9-i)
		}
		if rec.EstimatedMinutes != 30 {
			t.Errorf("rec[%d].EstimatedMinutes = %d, want 30", i, rec.EstimatedMinutes)
		}
		if !strings.HasPrefix(rec.Reasoning, "Start with foundational ") {
			t.Errorf("rec[%d].Reasoning = %q", i, rec.Reasoning)
		}
		wantExpiry := rec.CreatedAt.Add(7 * 24 * time.Hour)
		if !rec.ExpiresAt.Equal(wantExpiry) {
			t.Errorf("rec[%d].ExpiresAt = %v, want %v", i, rec.ExpiresAt, wantExpiry)
		}
	}
	if len(store.saved) != 3 {
		t.Errorf("persisted %d recommendations, want 3", len(store.saved))
	}
}

func TestRecommendationsDegradeOnInteractionFailure(t *testing.T) {
	s := newTestService(&fakeInteractions{err: errors.New("store down")}, beginnerCatalog(), newFakeRecStore())

	list := s.GetPersonalizedRecommendations(context.Background(), "u1", "", 10)

	if list.Source != models.SourceDegraded {
		t.Errorf("source = %s, want degraded", list.Source)
	}
	if len(list.Recommendations) != 0 {
		t.Errorf("degraded result must be empty, got %d", len(list.Recommendations))
	}
}

func TestPersistFailureDoesNotWithholdRecommendations(t *testing.T) {
	store := newFakeRecStore()
	store.saveErr = errors.New("redis down")
	s := newTestService(&fakeInteractions{}, beginnerCatalog(), store)

	list := s.GetPersonalizedRecommendations(context.Background(), "u1", "", 10)

	if len(list.Recommendations) != 3 {
		t.Errorf("got %d recommendations despite persist failure, want 3", len(list.Recommendations))
	}
}

func TestIdentifyWeakAreasNoData(t *testing.T) {
	s := newTestService(&fakeInteractions{}, beginnerCatalog(), newFakeRecStore())

	report := s.IdentifyWeakAreas(context.Background(), "u1", "")

	if report.Source != models.SourceEmpty {
		t.Errorf("source = %s, want empty", report.Source)
	}
	if len(report.WeakCategories) != 0 {
		t.Errorf("weak categories = %v, want none", report.WeakCategories)
	}
	if !strings.Contains(report.Analysis, "Insufficient data") {
		t.Errorf("analysis = %q, want insufficient-data message", report.Analysis)
	}
}

func TestIdentifyWeakAreasWithData(t *testing.T) {
	catalog := &fakeCatalog{items: []models.ContentItem{
		{ContentID: "c1", Category: "IAM", Difficulty: models.TierBeginner},
	}}
	interactions := &fakeInteractions{records: []models.InteractionRecord{
		record("c1", score(55)),
		record("c1", score(60)),
		record("c1", score(58)),
	}}
	s := newTestService(interactions, catalog, newFakeRecStore())

	report := s.IdentifyWeakAreas(context.Background(), "u1", "")

	if report.Source != models.SourceOK {
		t.Errorf("source = %s, want ok", report.Source)
	}
	if len(report.WeakCategories) != 1 || report.WeakCategories[0].Category != "IAM" {
		t.Fatalf("weak categories = %v, want [IAM]", report.WeakCategories)
	}
	if !strings.Contains(report.Analysis, "IAM") {
		t.Errorf("analysis = %q, want mention of IAM", report.Analysis)
	}
}

func TestProgressionFromScores(t *testing.T) {
	// Beginner readiness 0.85, intermediate 0.75, advanced 0.2:
	// intermediate promotion applies, advanced does not.
	catalog := &fakeCatalog{items: []models.ContentItem{
		{ContentID: "b", Category: "EC2", Difficulty: models.TierBeginner},
		{ContentID: "i", Category: "EC2", Difficulty: models.TierIntermediate},
		{ContentID: "a", Category: "EC2", Difficulty: models.TierAdvanced},
	}}
	interactions := &fakeInteractions{records: []models.InteractionRecord{
		record("b", score(85)), record("b", score(85)), record("b", score(85)),
		record("i", score(75)), record("i", score(75)), record("i", score(75)),
		record("a", score(20)), record("a", score(20)), record("a", score(20)),
	}}
	s := newTestService(interactions, catalog, newFakeRecStore())

	report := s.GetDifficultyProgression(context.Background(), "u1", "")

	if report.CurrentLevel != models.TierIntermediate {
		t.Errorf("current level = %s, want intermediate", report.CurrentLevel)
	}
	// Intermediate readiness 0.75 does not clear the 0.8 progression bar
	if report.RecommendedLevel != models.TierIntermediate {
		t.Errorf("recommended level = %s, want intermediate", report.RecommendedLevel)
	}
}

func TestProgressionNoData(t *testing.T) {
	s := newTestService(&fakeInteractions{}, beginnerCatalog(), newFakeRecStore())

	report := s.GetDifficultyProgression(context.Background(), "u1", "")

	if report.Source != models.SourceEmpty {
		t.Errorf("source = %s, want empty", report.Source)
	}
	if report.CurrentLevel != models.TierBeginner || report.RecommendedLevel != models.TierBeginner {
		t.Errorf("levels = %s/%s, want beginner/beginner", report.CurrentLevel, report.RecommendedLevel)
	}
}

// ── Feedback ────────────────────────────────────────────────

func TestRecordFeedbackRejectsUnknownAction(t *testing.T) {
	s := newTestService(&fakeInteractions{}, beginnerCatalog(), newFakeRecStore())

	if s.RecordFeedback(context.Background(), "u1", "r1", models.FeedbackAction("meh"), nil) {
		t.Error("unknown action must report false")
	}
}

func TestRecordFeedbackCompletedIsIdempotent(t *testing.T) {
	store := newFakeRecStore()
	s := newTestService(&fakeInteractions{}, beginnerCatalog(), store)

	// Generate and persist a batch first
	list := s.GetPersonalizedRecommendations(context.Background(), "u1", "", 10)
	if len(list.Recommendations) == 0 {
		t.Fatal("expected recommendations")
	}
	recID := list.Recommendations[0].RecommendationID

	countBefore := len(store.saved)
	for i := 0; i < 2; i++ {
		if !s.RecordFeedback(context.Background(), "u1", recID, models.FeedbackCompleted, nil) {
			t.Fatalf("feedback call %d failed", i+1)
		}
	}

	stored := store.saved["u1/"+recID]
	if !stored.IsCompleted {
		t.Error("is_completed flag not set")
	}
	if len(store.saved) != countBefore {
		t.Errorf("duplicate feedback created records: %d -> %d", countBefore, len(store.saved))
	}
}

func TestRecordFeedbackMissingRecommendation(t *testing.T) {
	s := newTestService(&fakeInteractions{}, beginnerCatalog(), newFakeRecStore())

	if s.RecordFeedback(context.Background(), "u1", "nonexistent", models.FeedbackAccepted, nil) {
		t.Error("feedback on unknown recommendation must report false")
	}
}
