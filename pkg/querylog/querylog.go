package querylog

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Entry records one answered query for the dashboard's audit trail.
type Entry struct {
	ID          string            `json:"id" gorm:"primaryKey"`
	Query       string            `json:"query"`
	Category    string            `json:"category"`
	ResultCount int               `json:"result_count"`
	Confidence  float64           `json:"confidence"`
	Fallback    bool              `json:"fallback"`
	Attributes  datatypes.JSONMap `json:"attributes"`
	CreatedAt   time.Time         `json:"created_at"`
}

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) AutoMigrate() error {
	return r.db.AutoMigrate(&Entry{})
}

func (r *Repository) Record(ctx context.Context, entry *Entry) error {
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	entry.CreatedAt = time.Now().UTC()
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *Repository) Recent(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 25
	}
	var entries []Entry
	result := r.db.WithContext(ctx).Order("created_at DESC").Limit(limit).Find(&entries)
	return entries, result.Error
}
