package query

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/mediflora-ai/platform/pkg/common/logger"
	"github.com/mediflora-ai/platform/pkg/common/models"
	"github.com/mediflora-ai/platform/pkg/taxonomy"
)

func init() {
	logger.Init()
}

type stubStore struct {
	studies []models.Study
	cases   []models.ClinicalCase
	alerts  []models.RegulatoryAlert

	filtered     *models.ConditionSearchResult
	err          error
	searchCalled bool
}

func (s *stubStore) GetStudies(ctx context.Context) ([]models.Study, error) {
	return s.studies, s.err
}

func (s *stubStore) GetCases(ctx context.Context) ([]models.ClinicalCase, error) {
	return s.cases, s.err
}

func (s *stubStore) GetAlerts(ctx context.Context) ([]models.RegulatoryAlert, error) {
	return s.alerts, s.err
}

func (s *stubStore) SearchByCondition(ctx context.Context, query string) (*models.ConditionSearchResult, error) {
	s.searchCalled = true
	if s.err != nil {
		return nil, s.err
	}
	if s.filtered != nil {
		return s.filtered, nil
	}
	return &models.ConditionSearchResult{}, nil
}

func newTestEngine(store DataStore) *Engine {
	return NewEngine(store, taxonomy.Default(), 2*time.Second)
}

func TestAnswerDosageScenario(t *testing.T) {
	store := &stubStore{
		studies: []models.Study{{
			ID:         "s1",
			Title:      "Canabidiol em epilepsia refratária",
			Compound:   "CBD",
			Indication: "epilepsia",
		}},
		filtered: &models.ConditionSearchResult{
			Studies: []models.Study{{
				ID:         "s1",
				Title:      "Canabidiol em epilepsia refratária",
				Compound:   "CBD",
				Indication: "epilepsia",
			}},
			DetectedConditions: []string{"epilepsia"},
		},
	}
	engine := newTestEngine(store)

	response, err := engine.Answer(context.Background(), "dosagem CBD epilepsia", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !store.searchCalled {
		t.Fatal("expected condition-filtered fetch")
	}
	if !strings.HasPrefix(response.Answer, "**Informações sobre Dosagem**") {
		t.Fatalf("expected dosage template, got %q", response.Answer)
	}
	if len(response.Results) != 1 {
		t.Fatalf("expected deduplicated single result, got %d", len(response.Results))
	}
	if response.Results[0].Relevance != 0.95 {
		t.Fatalf("expected condition override relevance, got %f", response.Results[0].Relevance)
	}
	if response.Confidence != 0.95 {
		t.Fatalf("expected confidence from top result, got %f", response.Confidence)
	}
}

func TestAnswerGeneralScenario(t *testing.T) {
	store := &stubStore{
		studies: []models.Study{{
			ID:          "s1",
			Title:       "Estudo de dosagem",
			Description: "acompanhamento",
		}},
	}
	engine := newTestEngine(store)

	response, err := engine.Answer(context.Background(), "xyz random text", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if store.searchCalled {
		t.Fatal("expected no condition-filtered fetch for general query")
	}
	if !strings.HasPrefix(response.Answer, "**Resultado da Busca**") {
		t.Fatalf("expected general template, got %q", response.Answer)
	}
	if len(response.Results) != 0 {
		t.Fatalf("expected no ranked results, got %d", len(response.Results))
	}
	if response.Confidence != 0.3 {
		t.Fatalf("expected general confidence, got %f", response.Confidence)
	}
}

func TestAnswerEmptyQuery(t *testing.T) {
	engine := newTestEngine(&stubStore{})

	if _, err := engine.Answer(context.Background(), "   ", nil); !errors.Is(err, ErrEmptyQuery) {
		t.Fatalf("expected ErrEmptyQuery, got %v", err)
	}
}

func TestAnswerDegradesOnStoreFailure(t *testing.T) {
	store := &stubStore{err: errors.New("connection refused")}
	engine := newTestEngine(store)

	response, err := engine.Answer(context.Background(), "dosagem cbd", nil)
	if err != nil {
		t.Fatalf("expected degraded response, got error: %v", err)
	}
	if response.Confidence != 0 {
		t.Fatalf("expected zero confidence, got %f", response.Confidence)
	}
	if len(response.Results) != 0 || len(response.Suggestions) != 0 {
		t.Fatal("expected empty results and suggestions in fallback")
	}
	if response.Answer == "" {
		t.Fatal("expected apology answer in fallback")
	}
}

func TestAnswerResultsBounded(t *testing.T) {
	store := &stubStore{}
	for i := 0; i < 10; i++ {
		store.cases = append(store.cases, models.ClinicalCase{
			ID:          string(rune('a' + i)),
			Description: "caso de epilepsia em adulto",
		})
	}
	engine := newTestEngine(store)

	response, err := engine.Answer(context.Background(), "epilepsia", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(response.Results) > 6 {
		t.Fatalf("expected at most 6 results, got %d", len(response.Results))
	}
	for i := 1; i < len(response.Results); i++ {
		if response.Results[i].Relevance > response.Results[i-1].Relevance {
			t.Fatal("results not sorted by relevance")
		}
	}
}

func TestAnswerHistoryCorrelation(t *testing.T) {
	engine := newTestEngine(&stubStore{})

	response, err := engine.Answer(context.Background(), "efeitos do cbd", []string{"estudos sobre thc"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	found := false
	for _, suggestion := range response.Suggestions {
		if suggestion == "Efeito entourage CBD+THC" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected entourage suggestion, got %v", response.Suggestions)
	}
}
