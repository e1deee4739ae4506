package recommend

import (
	"encoding/json"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/certprep/backend/internal/advisor"
	"github.com/certprep/backend/internal/models"
	"github.com/gorilla/mux"
)

type Handler struct {
	service *Service
	advisor *advisor.Advisor
}

// NewHandler wires the engine's HTTP surface. The advisor may be nil;
// study-path briefings are then simply omitted.
func NewHandler(service *Service, adv *advisor.Advisor) *Handler {
	return &Handler{service: service, advisor: adv}
}

func getUserID(r *http.Request) (string, bool) {
	uid, ok := r.Context().Value("user_id").(string)
	return uid, ok
}

func certificationParam(r *http.Request) string {
	return strings.ToUpper(r.URL.Query().Get("certification"))
}

func (h *Handler) GetRecommendations(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserID(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Authentication required"})
		return
	}

	limit := intQueryParam(r.URL.Query(), "limit", defaultRecommendationLimit)
	list := h.service.GetPersonalizedRecommendations(r.Context(), userID, certificationParam(r), limit)
	writeJSON(w, http.StatusOK, list)
}

func (h *Handler) RecordFeedback(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserID(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Authentication required"})
		return
	}

	recommendationID := mux.Vars(r)["id"]

	var req models.FeedbackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid request body"})
		return
	}
	if !models.ValidFeedbackActions[req.Action] {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "action must be 'accepted', 'rejected', 'completed', or 'skipped'"})
		return
	}

	updated := h.service.RecordFeedback(r.Context(), userID, recommendationID, req.Action, req.ExtraData)
	writeJSON(w, http.StatusOK, models.FeedbackResponse{Updated: updated})
}

func (h *Handler) GetWeakAreas(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserID(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Authentication required"})
		return
	}

	report := h.service.IdentifyWeakAreas(r.Context(), userID, certificationParam(r))
	writeJSON(w, http.StatusOK, report)
}

func (h *Handler) GetProgression(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserID(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Authentication required"})
		return
	}

	report := h.service.GetDifficultyProgression(r.Context(), userID, certificationParam(r))
	writeJSON(w, http.StatusOK, report)
}

func (h *Handler) GetStudyPath(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserID(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Authentication required"})
		return
	}

	path := h.service.GenerateStudyPath(r.Context(), userID, certificationParam(r))

	if h.advisor != nil && r.URL.Query().Get("briefing") == "true" {
		weak := h.service.IdentifyWeakAreas(r.Context(), userID, certificationParam(r))
		briefing, err := h.advisor.StudyBriefing(r.Context(), path, weak.WeakCategories)
		if err != nil {
			log.Printf("WARN: [recommend] briefing generation failed: %v", err)
		} else {
			path.Briefing = briefing
		}
	}

	writeJSON(w, http.StatusOK, path)
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func intQueryParam(query url.Values, key string, defaultVal int) int {
	s := query.Get(key)
	if s == "" {
		return defaultVal
	}
	v, err := strconv.Atoi(s)
	if err != nil || v <= 0 {
		return defaultVal
	}
	return v
}
