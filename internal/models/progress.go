package models

import "time"

type ProgressKind string

const (
	ProgressViewed    ProgressKind = "viewed"
	ProgressAnswered  ProgressKind = "answered"
	ProgressCompleted ProgressKind = "completed"
)

var ValidProgressKinds = map[ProgressKind]bool{
	ProgressViewed:    true,
	ProgressAnswered:  true,
	ProgressCompleted: true,
}

// InteractionRecord is one observed event of a user engaging with one
// content item. Score is only present for graded (answered) events.
type InteractionRecord struct {
	UserID           string       `json:"user_id"`
	ContentID        string       `json:"content_id"`
	ProgressKind     ProgressKind `json:"progress_kind"`
	Score            *float64     `json:"score,omitempty"`
	TimeSpentSeconds int          `json:"time_spent_seconds"`
	Timestamp        time.Time    `json:"timestamp"`
}

type RecordInteractionRequest struct {
	ContentID        string       `json:"content_id"`
	ProgressKind     ProgressKind `json:"progress_kind"`
	Score            *float64     `json:"score,omitempty"`
	TimeSpentSeconds int          `json:"time_spent_seconds"`
	Timestamp        *time.Time   `json:"timestamp,omitempty"`
}

type RecordInteractionResponse struct {
	Recorded bool `json:"recorded"`
	// Merged is true when the event folded into an existing record with
	// the same (user, content, timestamp) key instead of creating a row.
	Merged bool `json:"merged"`
}

type ProgressStats struct {
	TotalInteractions int                  `json:"total_interactions"`
	GradedAttempts    int                  `json:"graded_attempts"`
	AverageScore      float64              `json:"average_score"`
	TotalTimeSeconds  int                  `json:"total_time_seconds"`
	ByKind            map[ProgressKind]int `json:"by_kind"`
}
