package query

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/mediflora-ai/platform/pkg/common/logger"
	"github.com/mediflora-ai/platform/pkg/common/models"
	"github.com/mediflora-ai/platform/pkg/taxonomy"
)

// ErrEmptyQuery is returned for blank queries; no ranking is attempted.
var ErrEmptyQuery = errors.New("query must not be empty")

const (
	defaultFetchTimeout = 5 * time.Second

	// generalConfidence is reported when no record clears the relevance
	// threshold but the engine still composed an aggregate answer.
	generalConfidence = 0.3
)

// DataStore is the read-only record corpus collaborator.
type DataStore interface {
	GetStudies(ctx context.Context) ([]models.Study, error)
	GetCases(ctx context.Context) ([]models.ClinicalCase, error)
	GetAlerts(ctx context.Context) ([]models.RegulatoryAlert, error)
	SearchByCondition(ctx context.Context, query string) (*models.ConditionSearchResult, error)
}

// Engine wires detection, scoring, classification, composition and
// suggestion generation into a single Answer operation. It is stateless
// between calls and safe for concurrent use.
type Engine struct {
	store        DataStore
	detector     *Detector
	correlator   *Correlator
	classifier   *Classifier
	composer     *Composer
	suggester    *Suggester
	fetchTimeout time.Duration
}

func NewEngine(store DataStore, tax taxonomy.Taxonomy, fetchTimeout time.Duration) *Engine {
	if fetchTimeout <= 0 {
		fetchTimeout = defaultFetchTimeout
	}
	return &Engine{
		store:        store,
		detector:     NewDetector(tax),
		correlator:   NewCorrelator(NewScorer()),
		classifier:   NewClassifier(tax),
		composer:     NewComposer(),
		suggester:    NewSuggester(),
		fetchTimeout: fetchTimeout,
	}
}

// Answer runs the full pipeline for one query. Collaborator failures are
// absorbed into a fixed fallback response; only invalid input is an error.
func (e *Engine) Answer(ctx context.Context, query string, history []string) (*models.AIResponse, error) {
	if strings.TrimSpace(query) == "" {
		return nil, ErrEmptyQuery
	}

	conditions, matchedCondition := e.detector.Detect(query)

	fetchCtx, cancel := context.WithTimeout(ctx, e.fetchTimeout)
	defer cancel()

	studies, cases, alerts, err := e.fetchCorpus(fetchCtx, query, matchedCondition)
	if err != nil {
		logger.Log.WithError(err).Warn("data store unavailable, degrading to fallback response")
		return fallbackResponse(), nil
	}

	results := e.correlator.Correlate(query, conditions, studies, cases, alerts)
	category := e.classifier.Classify(query)
	answer := e.composer.Compose(category, query, results, len(studies), len(cases), len(alerts))
	suggestions := e.suggester.Suggest(category, query, history)

	return &models.AIResponse{
		Answer:      answer,
		Results:     results,
		Suggestions: suggestions,
		Confidence:  confidence(results),
	}, nil
}

// Category exposes intent classification for callers that log or route
// on it without running the full pipeline.
func (e *Engine) Category(query string) Category {
	return e.classifier.Classify(query)
}

// fetchCorpus loads the general corpus and, when the query names a known
// condition, unions in the condition-filtered subset. The union is
// deduplicated by record ID so no record is scored twice.
func (e *Engine) fetchCorpus(ctx context.Context, query string, matchedCondition bool) ([]models.Study, []models.ClinicalCase, []models.RegulatoryAlert, error) {
	studies, err := e.store.GetStudies(ctx)
	if err != nil {
		return nil, nil, nil, err
	}
	cases, err := e.store.GetCases(ctx)
	if err != nil {
		return nil, nil, nil, err
	}
	alerts, err := e.store.GetAlerts(ctx)
	if err != nil {
		return nil, nil, nil, err
	}

	if !matchedCondition {
		return studies, cases, alerts, nil
	}

	filtered, err := e.store.SearchByCondition(ctx, query)
	if err != nil {
		return nil, nil, nil, err
	}

	studies = mergeStudies(filtered.Studies, studies)
	cases = mergeCases(filtered.Cases, cases)
	alerts = mergeAlerts(filtered.Alerts, alerts)
	return studies, cases, alerts, nil
}

func mergeStudies(filtered, general []models.Study) []models.Study {
	seen := make(map[string]struct{}, len(filtered))
	merged := make([]models.Study, 0, len(filtered)+len(general))
	for _, study := range filtered {
		seen[study.ID] = struct{}{}
		merged = append(merged, study)
	}
	for _, study := range general {
		if _, dup := seen[study.ID]; dup {
			continue
		}
		merged = append(merged, study)
	}
	return merged
}

func mergeCases(filtered, general []models.ClinicalCase) []models.ClinicalCase {
	seen := make(map[string]struct{}, len(filtered))
	merged := make([]models.ClinicalCase, 0, len(filtered)+len(general))
	for _, clinicalCase := range filtered {
		seen[clinicalCase.ID] = struct{}{}
		merged = append(merged, clinicalCase)
	}
	for _, clinicalCase := range general {
		if _, dup := seen[clinicalCase.ID]; dup {
			continue
		}
		merged = append(merged, clinicalCase)
	}
	return merged
}

func mergeAlerts(filtered, general []models.RegulatoryAlert) []models.RegulatoryAlert {
	seen := make(map[string]struct{}, len(filtered))
	merged := make([]models.RegulatoryAlert, 0, len(filtered)+len(general))
	for _, alert := range filtered {
		seen[alert.ID] = struct{}{}
		merged = append(merged, alert)
	}
	for _, alert := range general {
		if _, dup := seen[alert.ID]; dup {
			continue
		}
		merged = append(merged, alert)
	}
	return merged
}

func confidence(results []models.SearchResult) float64 {
	if len(results) > 0 {
		return results[0].Relevance
	}
	return generalConfidence
}

func fallbackResponse() *models.AIResponse {
	return &models.AIResponse{
		Answer:      "Desculpe, não consegui consultar a base de registros neste momento. Tente novamente em instantes.",
		Results:     []models.SearchResult{},
		Suggestions: []string{},
		Confidence:  0,
	}
}
