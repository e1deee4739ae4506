package recommend

import (
	"math"
	"reflect"
	"testing"
	"time"

	"github.com/certprep/backend/internal/models"
)

func score(v float64) *float64 {
	return &v
}

func testCatalog() map[string]*models.ContentItem {
	return map[string]*models.ContentItem{
		"c-ec2-1": {ContentID: "c-ec2-1", Category: "EC2", Difficulty: models.TierBeginner},
		"c-ec2-2": {ContentID: "c-ec2-2", Category: "EC2", Difficulty: models.TierIntermediate},
		"c-s3-1":  {ContentID: "c-s3-1", Category: "S3", Difficulty: models.TierBeginner},
	}
}

func mapResolver(catalog map[string]*models.ContentItem) ContentResolver {
	return func(contentID string) *models.ContentItem {
		return catalog[contentID]
	}
}

func record(contentID string, s *float64) models.InteractionRecord {
	kind := models.ProgressViewed
	if s != nil {
		kind = models.ProgressAnswered
	}
	return models.InteractionRecord{
		UserID:       "u1",
		ContentID:    contentID,
		ProgressKind: kind,
		Score:        s,
		Timestamp:    time.Now(),
	}
}

func TestAggregateGroupsByCategoryAndDifficulty(t *testing.T) {
	records := []models.InteractionRecord{
		record("c-ec2-1", score(80)),
		record("c-ec2-2", score(60)),
		record("c-s3-1", score(90)),
	}

	byCategory, byDifficulty := Aggregate(records, mapResolver(testCatalog()))

	ec2 := byCategory["EC2"]
	if ec2 == nil {
		t.Fatal("expected EC2 group")
	}
	if ec2.Attempts != 2 {
		t.Errorf("EC2 attempts = %d, want 2", ec2.Attempts)
	}
	if ec2.AvgScore != 70.0 {
		t.Errorf("EC2 avg = %f, want 70.0", ec2.AvgScore)
	}
	if !reflect.DeepEqual(ec2.Scores, []float64{80, 60}) {
		t.Errorf("EC2 scores = %v, want [80 60]", ec2.Scores)
	}

	beginner := byDifficulty[models.TierBeginner]
	if beginner == nil {
		t.Fatal("expected beginner group")
	}
	if beginner.Attempts != 2 || beginner.AvgScore != 85.0 {
		t.Errorf("beginner = %+v, want attempts 2 avg 85", beginner)
	}
}

func TestAggregateSkipsUnscoredRecords(t *testing.T) {
	records := []models.InteractionRecord{
		record("c-ec2-1", nil), // viewed only
		record("c-ec2-1", score(50)),
	}

	byCategory, _ := Aggregate(records, mapResolver(testCatalog()))

	if byCategory["EC2"].Attempts != 1 {
		t.Errorf("attempts = %d, want 1 (viewed events must not count)", byCategory["EC2"].Attempts)
	}
}

func TestAggregateSkipsUnresolvedContent(t *testing.T) {
	records := []models.InteractionRecord{
		record("c-deleted", score(10)),
		record("c-ec2-1", score(80)),
	}

	byCategory, byDifficulty := Aggregate(records, mapResolver(testCatalog()))

	if len(byCategory) != 1 {
		t.Fatalf("got %d categories, want 1 (missing content skipped)", len(byCategory))
	}
	if byCategory["EC2"].AvgScore != 80.0 {
		t.Errorf("avg = %f, want 80.0", byCategory["EC2"].AvgScore)
	}
	if len(byDifficulty) != 1 {
		t.Errorf("got %d tiers, want 1", len(byDifficulty))
	}
}

func TestAggregateOmitsEmptyGroups(t *testing.T) {
	records := []models.InteractionRecord{
		record("c-s3-1", nil), // never graded
	}

	byCategory, byDifficulty := Aggregate(records, mapResolver(testCatalog()))

	if len(byCategory) != 0 || len(byDifficulty) != 0 {
		t.Errorf("ungraded categories must be absent, got %v / %v", byCategory, byDifficulty)
	}
}

func TestAggregateIsDeterministic(t *testing.T) {
	records := []models.InteractionRecord{
		record("c-ec2-1", score(81)),
		record("c-ec2-2", score(63)),
		record("c-s3-1", score(92)),
		record("c-ec2-1", nil),
		record("c-missing", score(40)),
	}
	resolve := mapResolver(testCatalog())

	cat1, diff1 := Aggregate(records, resolve)
	cat2, diff2 := Aggregate(records, resolve)

	if !reflect.DeepEqual(cat1, cat2) {
		t.Errorf("category aggregates differ between runs: %v vs %v", cat1, cat2)
	}
	if !reflect.DeepEqual(diff1, diff2) {
		t.Errorf("difficulty aggregates differ between runs: %v vs %v", diff1, diff2)
	}
}

func TestMean(t *testing.T) {
	if got := mean(nil); got != 0.0 {
		t.Errorf("mean(nil) = %f, want 0.0", got)
	}
	if got := mean([]float64{50, 70, 90}); math.Abs(got-70.0) > 1e-9 {
		t.Errorf("mean = %f, want 70.0", got)
	}
}
