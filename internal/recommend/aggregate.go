package recommend

import "github.com/certprep/backend/internal/models"

// Performance is the derived aggregate for one category or difficulty
// tier. Scores keep input order so the consistency computation is
// reproducible. A group appears in the output only if it has at least
// one score; absent key = no data.
type Performance struct {
	Scores   []float64
	Attempts int
	AvgScore float64
}

// ContentResolver looks up a content item by id. A nil result means the
// item is missing (deleted or never ingested); the record that pointed
// at it is skipped rather than failing the whole analysis.
type ContentResolver func(contentID string) *models.ContentItem

// Aggregate groups a user's interaction records by category and by
// difficulty tier. Only graded records (non-nil score) contribute;
// records whose content cannot be resolved are silently skipped.
func Aggregate(records []models.InteractionRecord, resolve ContentResolver) (map[string]*Performance, map[models.DifficultyTier]*Performance) {
	byCategory := make(map[string]*Performance)
	byDifficulty := make(map[models.DifficultyTier]*Performance)

	for _, rec := range records {
		if rec.Score == nil {
			continue
		}
		item := resolve(rec.ContentID)
		if item == nil {
			continue
		}

		cat := byCategory[item.Category]
		if cat == nil {
			cat = &Performance{}
			byCategory[item.Category] = cat
		}
		cat.Scores = append(cat.Scores, *rec.Score)
		cat.Attempts++

		diff := byDifficulty[item.Difficulty]
		if diff == nil {
			diff = &Performance{}
			byDifficulty[item.Difficulty] = diff
		}
		diff.Scores = append(diff.Scores, *rec.Score)
		diff.Attempts++
	}

	for _, p := range byCategory {
		p.AvgScore = mean(p.Scores)
	}
	for _, p := range byDifficulty {
		p.AvgScore = mean(p.Scores)
	}

	return byCategory, byDifficulty
}

func mean(scores []float64) float64 {
	if len(scores) == 0 {
		return 0.0
	}
	var sum float64
	for _, s := range scores {
		sum += s
	}
	return sum / float64(len(scores))
}
