package recommend

import (
	"math"
	"sort"

	"github.com/certprep/backend/internal/models"
)

const (
	weakScoreThreshold   = 70.0
	highSeverityScore    = 50.0
	minAttemptsForSignal = 3

	promotionReadiness   = 0.7
	progressionReadiness = 0.8
)

const (
	SeverityHigh   = "high"
	SeverityMedium = "medium"
)

// Consistency measures how tightly a score list clusters, in [0, 1].
// One data point (or none) is trivially consistent. Spread uses the
// population standard deviation, no sample correction.
func Consistency(scores []float64) float64 {
	if len(scores) <= 1 {
		return 1.0
	}
	m := mean(scores)
	var sumSq float64
	for _, s := range scores {
		d := s - m
		sumSq += d * d
	}
	stddev := math.Sqrt(sumSq / float64(len(scores)))
	return math.Max(0.0, 1.0-stddev/100.0)
}

// WeakCategories flags categories averaging below 70% across at least 3
// graded attempts, worst first. Fewer than 3 attempts never flags —
// one bad attempt is not a weak area.
func WeakCategories(byCategory map[string]*Performance) []models.WeakCategory {
	var weak []models.WeakCategory
	for category, perf := range byCategory {
		if perf.Attempts < minAttemptsForSignal || perf.AvgScore >= weakScoreThreshold {
			continue
		}
		weak = append(weak, models.WeakCategory{
			Category: category,
			AvgScore: perf.AvgScore,
			Attempts: perf.Attempts,
			Severity: severityFor(perf.AvgScore),
		})
	}
	sort.Slice(weak, func(i, j int) bool {
		if weak[i].AvgScore != weak[j].AvgScore {
			return weak[i].AvgScore < weak[j].AvgScore
		}
		return weak[i].Category < weak[j].Category
	})
	return weak
}

// WeakDifficulties applies the weak-category thresholds per tier.
func WeakDifficulties(byDifficulty map[models.DifficultyTier]*Performance) []models.WeakDifficulty {
	var weak []models.WeakDifficulty
	for tier, perf := range byDifficulty {
		if perf.Attempts < minAttemptsForSignal || perf.AvgScore >= weakScoreThreshold {
			continue
		}
		weak = append(weak, models.WeakDifficulty{
			Difficulty: tier,
			AvgScore:   perf.AvgScore,
			Attempts:   perf.Attempts,
			Severity:   severityFor(perf.AvgScore),
		})
	}
	sort.Slice(weak, func(i, j int) bool {
		if weak[i].AvgScore != weak[j].AvgScore {
			return weak[i].AvgScore < weak[j].AvgScore
		}
		return weak[i].Difficulty < weak[j].Difficulty
	})
	return weak
}

func severityFor(avgScore float64) string {
	if avgScore < highSeverityScore {
		return SeverityHigh
	}
	return SeverityMedium
}

// Readiness combines average performance and consistency per tier into
// a 0-1 score. Tiers with no graded attempts read as 0.
func Readiness(byDifficulty map[models.DifficultyTier]*Performance) map[models.DifficultyTier]float64 {
	readiness := map[models.DifficultyTier]float64{
		models.TierBeginner:     0.0,
		models.TierIntermediate: 0.0,
		models.TierAdvanced:     0.0,
	}
	for tier, perf := range byDifficulty {
		readiness[tier] = (perf.AvgScore / 100.0) * Consistency(perf.Scores)
	}
	return readiness
}

// CurrentLevel starts at beginner and applies the two promotion checks
// independently and in sequence, so a user clearing both thresholds in
// the same evaluation lands directly on advanced.
func CurrentLevel(readiness map[models.DifficultyTier]float64) models.DifficultyTier {
	level := models.TierBeginner
	if readiness[models.TierIntermediate] > promotionReadiness {
		level = models.TierIntermediate
	}
	if readiness[models.TierAdvanced] > promotionReadiness {
		level = models.TierAdvanced
	}
	return level
}

// RecommendedLevel suggests the next tier once the current tier's
// readiness clears 0.8; otherwise stays put.
func RecommendedLevel(current models.DifficultyTier, readiness map[models.DifficultyTier]float64) models.DifficultyTier {
	switch {
	case current == models.TierBeginner && readiness[models.TierBeginner] > progressionReadiness:
		return models.TierIntermediate
	case current == models.TierIntermediate && readiness[models.TierIntermediate] > progressionReadiness:
		return models.TierAdvanced
	}
	return current
}

// newUserProgressionPath is the fixed guidance returned when a user has
// no interaction history at all.
var newUserProgressionPath = []string{
	"Start with beginner content to build your foundation",
	"Answer practice questions to establish a baseline",
	"Revisit this analysis after a few graded attempts",
}

func NewUserProgression() models.ProgressionReport {
	return models.ProgressionReport{
		Source:           models.SourceEmpty,
		CurrentLevel:     models.TierBeginner,
		RecommendedLevel: models.TierBeginner,
		Readiness: map[models.DifficultyTier]float64{
			models.TierBeginner:     0.0,
			models.TierIntermediate: 0.0,
			models.TierAdvanced:     0.0,
		},
		ProgressionPath: append([]string(nil), newUserProgressionPath...),
	}
}
