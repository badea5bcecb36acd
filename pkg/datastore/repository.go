package datastore

import (
	"context"

	"github.com/mediflora-ai/platform/pkg/common/models"
	"github.com/mediflora-ai/platform/pkg/query"
	"github.com/mediflora-ai/platform/pkg/taxonomy"
	"gorm.io/gorm"
)

// Repository is the postgres-backed record corpus.
type Repository struct {
	db       *gorm.DB
	detector *query.Detector
}

func NewRepository(db *gorm.DB, tax taxonomy.Taxonomy) *Repository {
	return &Repository{db: db, detector: query.NewDetector(tax)}
}

func (r *Repository) AutoMigrate() error {
	return r.db.AutoMigrate(&models.Study{}, &models.ClinicalCase{}, &models.RegulatoryAlert{})
}

func (r *Repository) GetStudies(ctx context.Context) ([]models.Study, error) {
	var studies []models.Study
	result := r.db.WithContext(ctx).Order("created_at DESC").Find(&studies)
	return studies, result.Error
}

func (r *Repository) GetCases(ctx context.Context) ([]models.ClinicalCase, error) {
	var cases []models.ClinicalCase
	result := r.db.WithContext(ctx).Order("created_at DESC").Find(&cases)
	return cases, result.Error
}

func (r *Repository) GetAlerts(ctx context.Context) ([]models.RegulatoryAlert, error) {
	var alerts []models.RegulatoryAlert
	result := r.db.WithContext(ctx).Order("created_at DESC").Find(&alerts)
	return alerts, result.Error
}

// SearchByCondition pre-filters each family by the conditions detected in
// the query. With no detected condition it returns empty subsets and the
// general-search sentinel.
func (r *Repository) SearchByCondition(ctx context.Context, q string) (*models.ConditionSearchResult, error) {
	conditions, matched := r.detector.Detect(q)
	result := &models.ConditionSearchResult{DetectedConditions: conditions}
	if !matched {
		return result, nil
	}

	patterns := make([]string, 0, len(conditions))
	for _, condition := range conditions {
		patterns = append(patterns, "%"+condition+"%")
	}

	studyScope := r.db.WithContext(ctx).Model(&models.Study{})
	caseScope := r.db.WithContext(ctx).Model(&models.ClinicalCase{})
	alertScope := r.db.WithContext(ctx).Model(&models.RegulatoryAlert{})
	for i, pattern := range patterns {
		studyClause := r.db.Where("title ILIKE ? OR description ILIKE ? OR indication ILIKE ?", pattern, pattern, pattern)
		caseClause := r.db.Where("description ILIKE ? OR indication ILIKE ? OR outcome ILIKE ?", pattern, pattern, pattern)
		alertClause := r.db.Where("type ILIKE ? OR message ILIKE ?", pattern, pattern)
		if i == 0 {
			studyScope = studyScope.Where(studyClause)
			caseScope = caseScope.Where(caseClause)
			alertScope = alertScope.Where(alertClause)
		} else {
			studyScope = studyScope.Or(studyClause)
			caseScope = caseScope.Or(caseClause)
			alertScope = alertScope.Or(alertClause)
		}
	}

	if err := studyScope.Find(&result.Studies).Error; err != nil {
		return nil, err
	}
	if err := caseScope.Find(&result.Cases).Error; err != nil {
		return nil, err
	}
	if err := alertScope.Find(&result.Alerts).Error; err != nil {
		return nil, err
	}
	return result, nil
}
