package progress

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/certprep/backend/internal/models"
)

type Handler struct {
	store *Store
}

func NewHandler(store *Store) *Handler {
	return &Handler{store: store}
}

func getUserID(r *http.Request) (string, bool) {
	uid, ok := r.Context().Value("user_id").(string)
	return uid, ok
}

func (h *Handler) RecordInteraction(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserID(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Authentication required"})
		return
	}

	var req models.RecordInteractionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid request body"})
		return
	}

	if req.ContentID == "" {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "content_id is required"})
		return
	}
	if !models.ValidProgressKinds[req.ProgressKind] {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "progress_kind must be 'viewed', 'answered', or 'completed'"})
		return
	}
	if req.Score != nil && (*req.Score < 0 || *req.Score > 100) {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "score must be between 0 and 100"})
		return
	}
	if req.TimeSpentSeconds < 0 {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "time_spent_seconds must be non-negative"})
		return
	}

	occurredAt := time.Now().UTC()
	if req.Timestamp != nil {
		occurredAt = req.Timestamp.UTC()
	}

	merged, err := h.store.RecordInteraction(models.InteractionRecord{
		UserID:           userID,
		ContentID:        req.ContentID,
		ProgressKind:     req.ProgressKind,
		Score:            req.Score,
		TimeSpentSeconds: req.TimeSpentSeconds,
		Timestamp:        occurredAt,
	})
	if err != nil {
		log.Printf("[progress] RecordInteraction error: %v", err)
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to record interaction"})
		return
	}

	writeJSON(w, http.StatusCreated, models.RecordInteractionResponse{Recorded: true, Merged: merged})
}

func (h *Handler) GetStats(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserID(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Authentication required"})
		return
	}

	stats, err := h.store.GetUserStats(userID)
	if err != nil {
		log.Printf("[progress] GetStats error: %v", err)
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to get progress stats"})
		return
	}

	writeJSON(w, http.StatusOK, stats)
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
