package recommend

import (
	"math"
	"testing"

	"github.com/certprep/backend/internal/models"
)

func perf(scores ...float64) *Performance {
	return &Performance{
		Scores:   scores,
		Attempts: len(scores),
		AvgScore: mean(scores),
	}
}

func TestConsistencyBounds(t *testing.T) {
	if got := Consistency([]float64{100}); got != 1.0 {
		t.Errorf("Consistency([100]) = %f, want 1.0", got)
	}
	if got := Consistency(nil); got != 1.0 {
		t.Errorf("Consistency([]) = %f, want 1.0", got)
	}
	// [0, 100]: population stddev is 50 → 1 - 50/100 = 0.5
	if got := Consistency([]float64{0, 100}); math.Abs(got-0.5) > 1e-9 {
		t.Errorf("Consistency([0,100]) = %f, want 0.5", got)
	}
	// Identical scores are perfectly consistent
	if got := Consistency([]float64{70, 70, 70}); got != 1.0 {
		t.Errorf("Consistency([70,70,70]) = %f, want 1.0", got)
	}
	// Consistency never goes negative even for extreme spread
	if got := Consistency([]float64{0, 0, 100, 100, 0, 100}); got < 0.0 {
		t.Errorf("Consistency = %f, want >= 0", got)
	}
}

func TestWeakCategoryThresholds(t *testing.T) {
	byCategory := map[string]*Performance{
		"EC2": perf(60, 60, 60), // weak, medium severity
		"S3":  perf(40, 40, 40), // weak, high severity
		"VPC": perf(60, 60),     // below threshold but only 2 attempts
		"IAM": perf(90, 95, 85), // strong
	}

	weak := WeakCategories(byCategory)

	if len(weak) != 2 {
		t.Fatalf("got %d weak categories, want 2: %v", len(weak), weak)
	}
	// Worst first
	if weak[0].Category != "S3" || weak[0].Severity != SeverityHigh {
		t.Errorf("weak[0] = %+v, want S3 with high severity", weak[0])
	}
	if weak[1].Category != "EC2" || weak[1].Severity != SeverityMedium {
		t.Errorf("weak[1] = %+v, want EC2 with medium severity", weak[1])
	}
}

func TestWeakCategoryNeedsThreeAttempts(t *testing.T) {
	byCategory := map[string]*Performance{
		"EC2": perf(10, 20), // terrible but only 2 attempts
	}

	if weak := WeakCategories(byCategory); len(weak) != 0 {
		t.Errorf("category with 2 attempts flagged weak: %v", weak)
	}
}

func TestWeakDifficulties(t *testing.T) {
	byDifficulty := map[models.DifficultyTier]*Performance{
		models.TierBeginner:     perf(45, 50, 40),
		models.TierIntermediate: perf(80, 85, 90),
	}

	weak := WeakDifficulties(byDifficulty)

	if len(weak) != 1 {
		t.Fatalf("got %d weak tiers, want 1", len(weak))
	}
	if weak[0].Difficulty != models.TierBeginner || weak[0].Severity != SeverityHigh {
		t.Errorf("weak[0] = %+v, want beginner with high severity", weak[0])
	}
}

func TestReadiness(t *testing.T) {
	byDifficulty := map[models.DifficultyTier]*Performance{
		models.TierBeginner: perf(80, 80, 80), // consistency 1.0 → readiness 0.8
	}

	readiness := Readiness(byDifficulty)

	if math.Abs(readiness[models.TierBeginner]-0.8) > 1e-9 {
		t.Errorf("beginner readiness = %f, want 0.8", readiness[models.TierBeginner])
	}
	// Untested tiers read as zero, not absent
	if readiness[models.TierAdvanced] != 0.0 {
		t.Errorf("advanced readiness = %f, want 0.0", readiness[models.TierAdvanced])
	}
}

func TestCurrentLevelPromotion(t *testing.T) {
	tests := []struct {
		name      string
		readiness map[models.DifficultyTier]float64
		want      models.DifficultyTier
	}{
		{
			name:      "no signal stays beginner",
			readiness: map[models.DifficultyTier]float64{},
			want:      models.TierBeginner,
		},
		{
			// Intermediate readiness clears 0.7 but advanced does not:
			// the user lands on intermediate, regardless of beginner.
			name: "intermediate only",
			readiness: map[models.DifficultyTier]float64{
				models.TierBeginner:     0.85,
				models.TierIntermediate: 0.75,
				models.TierAdvanced:     0.2,
			},
			want: models.TierIntermediate,
		},
		{
			// Both checks pass in the same evaluation: straight to advanced.
			name: "fast-track to advanced",
			readiness: map[models.DifficultyTier]float64{
				models.TierIntermediate: 0.9,
				models.TierAdvanced:     0.8,
			},
			want: models.TierAdvanced,
		},
		{
			name: "threshold is strict",
			readiness: map[models.DifficultyTier]float64{
				models.TierIntermediate: 0.7,
			},
			want: models.TierBeginner,
		},
	}

	for _, tt := range tests {
		if got := CurrentLevel(tt.readiness); got != tt.want {
			t.Errorf("%s: CurrentLevel = %s, want %s", tt.name, got, tt.want)
		}
	}
}

func TestRecommendedLevel(t *testing.T) {
	readiness := map[models.DifficultyTier]float64{
		models.TierBeginner:     0.85,
		models.TierIntermediate: 0.85,
	}

	if got := RecommendedLevel(models.TierBeginner, readiness); got != models.TierIntermediate {
		t.Errorf("beginner with 0.85 readiness: got %s, want intermediate", got)
	}
	if got := RecommendedLevel(models.TierIntermediate, readiness); got != models.TierAdvanced {
		t.Errorf("intermediate with 0.85 readiness: got %s, want advanced", got)
	}

	low := map[models.DifficultyTier]float64{models.TierBeginner: 0.6}
	if got := RecommendedLevel(models.TierBeginner, low); got != models.TierBeginner {
		t.Errorf("beginner below threshold: got %s, want beginner", got)
	}

	// Advanced has nowhere to progress to
	if got := RecommendedLevel(models.TierAdvanced, readiness); got != models.TierAdvanced {
		t.Errorf("advanced: got %s, want advanced", got)
	}
}

func TestNewUserProgression(t *testing.T) {
	report := NewUserProgression()

	if report.CurrentLevel != models.TierBeginner || report.RecommendedLevel != models.TierBeginner {
		t.Errorf("new user levels = %s/%s, want beginner/beginner", report.CurrentLevel, report.RecommendedLevel)
	}
	for tier, r := range report.Readiness {
		if r != 0.0 {
			t.Errorf("new user readiness[%s] = %f, want 0.0", tier, r)
		}
	}
	if len(report.ProgressionPath) == 0 {
		t.Error("new user progression path must carry guidance strings")
	}
}
