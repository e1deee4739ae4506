package content

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"

	"github.com/certprep/backend/internal/models"
	"github.com/gorilla/mux"
)

type Handler struct {
	store *Store
}

func NewHandler(store *Store) *Handler {
	return &Handler{store: store}
}

func (h *Handler) CreateContent(w http.ResponseWriter, r *http.Request) {
	var req models.CreateContentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid request body"})
		return
	}

	req.Title = strings.TrimSpace(req.Title)
	req.Category = strings.TrimSpace(req.Category)
	req.CertificationType = strings.TrimSpace(strings.ToUpper(req.CertificationType))

	if req.Title == "" || req.Category == "" || req.CertificationType == "" {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "title, category, and certification_type are required"})
		return
	}
	if !models.ValidTiers[req.Difficulty] {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "difficulty must be 'beginner', 'intermediate', or 'advanced'"})
		return
	}
	if req.ContentKind == "" {
		req.ContentKind = models.KindDocument
	}

	item, err := h.store.CreateContent(req)
	if err != nil {
		log.Printf("[content] CreateContent error: %v", err)
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to create content"})
		return
	}

	writeJSON(w, http.StatusCreated, item)
}

func (h *Handler) GetContent(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	item, err := h.store.GetContent(vars["id"])
	if err != nil {
		log.Printf("[content] GetContent error: %v", err)
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to get content"})
		return
	}
	if item == nil {
		writeJSON(w, http.StatusNotFound, models.ErrorResponse{Error: "Content not found"})
		return
	}

	writeJSON(w, http.StatusOK, item)
}

// ListContent serves the catalog query variants: by category, by
// difficulty, or by certification, each as a query parameter.
func (h *Handler) ListContent(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	certification := strings.ToUpper(query.Get("certification"))

	var items []models.ContentItem
	var err error

	switch {
	case query.Get("category") != "":
		items, err = h.store.GetContentByCategory(query.Get("category"), certification)
	case query.Get("difficulty") != "":
		tier := models.DifficultyTier(query.Get("difficulty"))
		if !models.ValidTiers[tier] {
			writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "difficulty must be 'beginner', 'intermediate', or 'advanced'"})
			return
		}
		items, err = h.store.GetContentByDifficulty(tier, certification)
	case certification != "":
		items, err = h.store.GetContentByCertification(certification)
	default:
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "one of category, difficulty, or certification is required"})
		return
	}

	if err != nil {
		log.Printf("[content] ListContent error: %v", err)
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to list content"})
		return
	}

	if items == nil {
		items = []models.ContentItem{}
	}
	writeJSON(w, http.StatusOK, models.ContentListResponse{Items: items, Total: len(items)})
}

func (h *Handler) ListCategories(w http.ResponseWriter, r *http.Request) {
	certification := strings.ToUpper(r.URL.Query().Get("certification"))

	categories, err := h.store.ListCategories(certification)
	if err != nil {
		log.Printf("[content] ListCategories error: %v", err)
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to list categories"})
		return
	}

	if categories == nil {
		categories = []string{}
	}
	writeJSON(w, http.StatusOK, map[string][]string{"categories": categories})
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
