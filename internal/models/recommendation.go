package models

import "time"

type RecommendationKind string

const (
	RecommendContent RecommendationKind = "content"
	RecommendReview  RecommendationKind = "review"
	RecommendQuiz    RecommendationKind = "quiz"
)

type FeedbackAction string

const (
	FeedbackAccepted  FeedbackAction = "accepted"
	FeedbackRejected  FeedbackAction = "rejected"
	FeedbackCompleted FeedbackAction = "completed"
	FeedbackSkipped   FeedbackAction = "skipped"
)

var ValidFeedbackActions = map[FeedbackAction]bool{
	FeedbackAccepted:  true,
	FeedbackRejected:  true,
	FeedbackCompleted: true,
	FeedbackSkipped:   true,
}

// StudyRecommendation is one actionable suggestion surfaced to the user.
// Quiz recommendations carry no content id.
type StudyRecommendation struct {
	RecommendationID  string                 `json:"recommendation_id"`
	UserID            string                 `json:"user_id"`
	Kind              RecommendationKind     `json:"kind"`
	Priority          int                    `json:"priority"`
	ContentID         *string                `json:"content_id,omitempty"`
	Category          *string                `json:"category,omitempty"`
	Reasoning         string                 `json:"reasoning"`
	EstimatedMinutes  int                    `json:"estimated_minutes"`
	CreatedAt         time.Time              `json:"created_at"`
	ExpiresAt         time.Time              `json:"expires_at"`
	FeedbackAction    *FeedbackAction        `json:"feedback_action,omitempty"`
	FeedbackTimestamp *time.Time             `json:"feedback_timestamp,omitempty"`
	FeedbackData      map[string]interface{} `json:"feedback_data,omitempty"`
	IsCompleted       bool                   `json:"is_completed"`
}

type WeakCategory struct {
	Category string  `json:"category"`
	AvgScore float64 `json:"avg_score"`
	Attempts int     `json:"attempts"`
	Severity string  `json:"severity"`
}

type WeakDifficulty struct {
	Difficulty DifficultyTier `json:"difficulty"`
	AvgScore   float64        `json:"avg_score"`
	Attempts   int            `json:"attempts"`
	Severity   string         `json:"severity"`
}

// Source tags how a result was produced so callers and tests can tell
// "genuinely no data" apart from "collaborator failed". Both render the
// same to the end user.
type Source string

const (
	SourceOK       Source = "ok"
	SourceEmpty    Source = "empty"
	SourceDegraded Source = "degraded"
)

type WeakAreaReport struct {
	Source           Source           `json:"-"`
	WeakCategories   []WeakCategory   `json:"weak_categories"`
	WeakDifficulties []WeakDifficulty `json:"weak_difficulties"`
	Analysis         string           `json:"analysis"`
}

type ProgressionReport struct {
	Source           Source                     `json:"-"`
	CurrentLevel     DifficultyTier             `json:"current_level"`
	RecommendedLevel DifficultyTier             `json:"recommended_level"`
	Readiness        map[DifficultyTier]float64 `json:"readiness"`
	ProgressionPath  []string                   `json:"progression_path"`
}

type RecommendationList struct {
	Source          Source                `json:"-"`
	Recommendations []StudyRecommendation `json:"recommendations"`
}

type StudyPhase struct {
	Name           string   `json:"name"`
	EstimatedHours int      `json:"estimated_hours"`
	FocusAreas     []string `json:"focus_areas,omitempty"`
	ContentIDs     []string `json:"content_ids"`
	Topics         []string `json:"topics,omitempty"`
}

type Milestone struct {
	Phase           string `json:"phase"`
	CumulativeHours int    `json:"cumulative_hours"`
}

type StudyPath struct {
	Source              Source       `json:"-"`
	UserID              string       `json:"user_id"`
	CertificationType   string       `json:"certification_type,omitempty"`
	Phases              []StudyPhase `json:"phases"`
	TotalEstimatedHours int          `json:"total_estimated_hours"`
	Milestones          []Milestone  `json:"milestones"`
	Briefing            string       `json:"briefing,omitempty"`
}

type FeedbackRequest struct {
	Action    FeedbackAction         `json:"action"`
	ExtraData map[string]interface{} `json:"extra_data,omitempty"`
}

type FeedbackResponse struct {
	Updated bool `json:"updated"`
}
