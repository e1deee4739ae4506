package content

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/certprep/backend/internal/models"
	"github.com/google/uuid"
)

type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

const contentColumns = `content_id, title, category, difficulty, certification_type, content_kind, created_at`

func (s *Store) CreateContent(req models.CreateContentRequest) (*models.ContentItem, error) {
	item := models.ContentItem{
		ContentID:         uuid.NewString(),
		Title:             req.Title,
		Category:          req.Category,
		Difficulty:        req.Difficulty,
		CertificationType: req.CertificationType,
		ContentKind:       req.ContentKind,
		CreatedAt:         time.Now().UTC(),
	}

	_, err := s.db.Exec(
		`INSERT INTO content_items (content_id, title, category, difficulty, certification_type, content_kind, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		item.ContentID, item.Title, item.Category, item.Difficulty,
		item.CertificationType, item.ContentKind, item.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("insert content: %w", err)
	}

	return &item, nil
}

// GetContent returns the content item, or (nil, nil) when the id is
// unknown. Aggregation must tolerate missing items, so absence is not
// an error here.
func (s *Store) GetContent(contentID string) (*models.ContentItem, error) {
	var item models.ContentItem
	err := s.db.QueryRow(
		`SELECT `+contentColumns+` FROM content_items WHERE content_id = $1`,
		contentID,
	).Scan(
		&item.ContentID, &item.Title, &item.Category, &item.Difficulty,
		&item.CertificationType, &item.ContentKind, &item.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get content: %w", err)
	}
	return &item, nil
}

func (s *Store) GetContentByCategory(category, certification string) ([]models.ContentItem, error) {
	query := `SELECT ` + contentColumns + ` FROM content_items WHERE category = $1`
	args := []interface{}{category}
	if certification != "" {
		query += ` AND certification_type = $2`
		args = append(args, certification)
	}
	query += ` ORDER BY created_at, content_id`

	return s.queryItems(query, args...)
}

func (s *Store) GetContentByDifficulty(tier models.DifficultyTier, certification string) ([]models.ContentItem, error) {
	query := `SELECT ` + contentColumns + ` FROM content_items WHERE difficulty = $1`
	args := []interface{}{string(tier)}
	if certification != "" {
		query += ` AND certification_type = $2`
		args = append(args, certification)
	}
	query += ` ORDER BY created_at, content_id`

	return s.queryItems(query, args...)
}

func (s *Store) GetContentByCertification(certification string) ([]models.ContentItem, error) {
	return s.queryItems(
		`SELECT `+contentColumns+` FROM content_items WHERE certification_type = $1 ORDER BY created_at, content_id`,
		certification,
	)
}

func (s *Store) ListCategories(certification string) ([]string, error) {
	query := `SELECT DISTINCT category FROM content_items`
	var args []interface{}
	if certification != "" {
		query += ` WHERE certification_type = $1`
		args = append(args, certification)
	}
	query += ` ORDER BY category`

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var categories []string
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

func (s *Store) queryItems(query string, args ...interface{}) ([]models.ContentItem, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("query content: %w", err)
	}
	defer rows.Close()

	var items []models.ContentItem
	for rows.Next() {
		var item models.ContentItem
		if err := rows.Scan(
			&item.ContentID, &item.Title, &item.Category, &item.Difficulty,
			&item.CertificationType, &item.ContentKind, &item.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan content: %w", err)
		}
		items = append(items, item)
	}
	return items, rows.Err()
}
