package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/mediflora-ai/platform/pkg/common/logger"
	"github.com/mediflora-ai/platform/pkg/common/models"
	"github.com/mediflora-ai/platform/pkg/query"
	"github.com/mediflora-ai/platform/pkg/taxonomy"
)

func init() {
	logger.Init()
}

type stubStore struct {
	studies []models.Study
}

func (s *stubStore) GetStudies(ctx context.Context) ([]models.Study, error) {
	return s.studies, nil
}

func (s *stubStore) GetCases(ctx context.Context) ([]models.ClinicalCase, error) {
	return nil, nil
}

func (s *stubStore) GetAlerts(ctx context.Context) ([]models.RegulatoryAlert, error) {
	return nil, nil
}

func (s *stubStore) SearchByCondition(ctx context.Context, q string) (*models.ConditionSearchResult, error) {
	return &models.ConditionSearchResult{}, nil
}

func newTestRouter(store query.DataStore) *mux.Router {
	engine := query.NewEngine(store, taxonomy.Default(), 2*time.Second)
	handler := NewHandler(engine, nil, nil, 10)
	router := mux.NewRouter()
	handler.Register(router, nil)
	return router
}

func TestHandleQuery(t *testing.T) {
	store := &stubStore{studies: []models.Study{{
		ID:         "s1",
		Title:      "Canabidiol em epilepsia refratária",
		Compound:   "CBD",
		Indication: "epilepsia",
	}}}
	router := newTestRouter(store)

	body := strings.NewReader(`{"query":"dosagem CBD epilepsia"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/assistant/query", body)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var response models.QueryResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
		t.Fatalf("invalid response body: %v", err)
	}
	if response.Meta.Query != "dosagem CBD epilepsia" {
		t.Fatalf("expected query echoed in meta, got %q", response.Meta.Query)
	}
	if len(response.Results.Studies) != 1 {
		t.Fatalf("expected one study in results, got %d", len(response.Results.Studies))
	}
	if response.Answer == "" || len(response.Suggestions) == 0 {
		t.Fatal("expected composed answer and suggestions")
	}
}

func TestHandleQueryRejectsEmpty(t *testing.T) {
	router := newTestRouter(&stubStore{})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/assistant/query", strings.NewReader(`{"query":"  "}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestHandleRecentQueriesWithoutRepository(t *testing.T) {
	router := newTestRouter(&stubStore{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/assistant/queries/recent", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var response struct {
		Items []struct{} `json:"items"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
		t.Fatalf("invalid response body: %v", err)
	}
	if len(response.Items) != 0 {
		t.Fatalf("expected empty items, got %d", len(response.Items))
	}
}

func TestRequestBodyLimitEnforced(t *testing.T) {
	engine := query.NewEngine(&stubStore{}, taxonomy.Default(), 2*time.Second)
	handler := NewHandler(engine, nil, nil, 10)
	router := mux.NewRouter()
	router.Use(LimitRequestBody(64))
	handler.Register(router, nil)

	oversized := `{"query":"` + strings.Repeat("dosagem ", 64) + `"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/assistant/query", strings.NewReader(oversized))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for oversized body, got %d", rec.Code)
	}
}

func TestHandleHealth(t *testing.T) {
	router := newTestRouter(&stubStore{})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}
