package models

import "time"

type DifficultyTier string

const (
	TierBeginner     DifficultyTier = "beginner"
	TierIntermediate DifficultyTier = "intermediate"
	TierAdvanced     DifficultyTier = "advanced"
)

var ValidTiers = map[DifficultyTier]bool{
	TierBeginner:     true,
	TierIntermediate: true,
	TierAdvanced:     true,
}

type ContentKind string

const (
	KindDocument   ContentKind = "document"
	KindVideo      ContentKind = "video"
	KindFlashcards ContentKind = "flashcards"
	KindPractice   ContentKind = "practice"
)

// ContentItem is static metadata about one study artifact. Ownership of
// these rows belongs to the ingestion side; the recommendation engine
// treats them as read-only reference data.
type ContentItem struct {
	ContentID         string         `json:"content_id"`
	Title             string         `json:"title"`
	Category          string         `json:"category"`
	Difficulty        DifficultyTier `json:"difficulty"`
	CertificationType string         `json:"certification_type"`
	ContentKind       ContentKind    `json:"content_kind"`
	CreatedAt         time.Time      `json:"created_at"`
}

type CreateContentRequest struct {
	Title             string         `json:"title"`
	Category          string         `json:"category"`
	Difficulty        DifficultyTier `json:"difficulty"`
	CertificationType string         `json:"certification_type"`
	ContentKind       ContentKind    `json:"content_kind"`
}

type ContentListResponse struct {
	Items []ContentItem `json:"items"`
	Total int           `json:"total"`
}
