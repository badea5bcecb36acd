package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/mediflora-ai/platform/pkg/common/kafka"
	"github.com/mediflora-ai/platform/pkg/common/logger"
	"github.com/mediflora-ai/platform/pkg/common/models"
	"github.com/mediflora-ai/platform/pkg/observability/metrics"
	"github.com/mediflora-ai/platform/pkg/query"
	"github.com/mediflora-ai/platform/pkg/querylog"
	"gorm.io/datatypes"
)

// Handler exposes the assistant query endpoint over HTTP.
type Handler struct {
	engine     *query.Engine
	logs       *querylog.Repository
	producer   *kafka.Producer
	maxHistory int
}

func NewHandler(engine *query.Engine, logs *querylog.Repository, producer *kafka.Producer, maxHistory int) *Handler {
	if maxHistory <= 0 {
		maxHistory = 10
	}
	return &Handler{engine: engine, logs: logs, producer: producer, maxHistory: maxHistory}
}

// Register mounts the public endpoints. The optional auth middleware
// guards only the assistant API, never health or metrics.
func (h *Handler) Register(r *mux.Router, authMW mux.MiddlewareFunc) {
	r.HandleFunc("/health", handleHealth).Methods(http.MethodGet)
	r.HandleFunc("/metrics", handleMetrics).Methods(http.MethodGet)

	sub := r.PathPrefix("/api/v1").Subrouter()
	if authMW != nil {
		sub.Use(authMW)
	}
	sub.HandleFunc("/assistant/query", h.handleQuery).Methods(http.MethodPost)
	sub.HandleFunc("/assistant/queries/recent", h.handleRecentQueries).Methods(http.MethodGet)
}

func (h *Handler) handleQuery(w http.ResponseWriter, r *http.Request) {
	var req models.QueryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.Query) == "" {
		metrics.ObserveRejected()
		http.Error(w, "query is required", http.StatusBadRequest)
		return
	}

	history := h.historyFrom(req.ConversationHistory)

	response, err := h.engine.Answer(r.Context(), req.Query, history)
	if err != nil {
		if errors.Is(err, query.ErrEmptyQuery) {
			metrics.ObserveRejected()
			http.Error(w, "query is required", http.StatusBadRequest)
			return
		}
		logger.Log.WithError(err).Error("failed to answer query")
		http.Error(w, "failed to answer query", http.StatusInternalServerError)
		return
	}

	fallback := response.Confidence == 0 && len(response.Results) == 0
	if fallback {
		metrics.ObserveFallback()
	} else {
		metrics.ObserveAnswered()
	}

	h.audit(req.Query, response, fallback)

	writeJSON(w, http.StatusOK, toQueryResponse(req.Query, response))
}

// handleRecentQueries lists the latest audit-trail entries for the
// dashboard's query history widget.
func (h *Handler) handleRecentQueries(w http.ResponseWriter, r *http.Request) {
	limit := parseLimit(r, 25)

	entries := []querylog.Entry{}
	if h.logs != nil {
		var err error
		entries, err = h.logs.Recent(r.Context(), limit)
		if err != nil {
			logger.Log.WithError(err).Error("failed to list recent queries")
			http.Error(w, "failed to list recent queries", http.StatusInternalServerError)
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"items": entries})
}

func parseLimit(r *http.Request, fallback int) int {
	value := r.URL.Query().Get("limit")
	if value == "" {
		return fallback
	}
	limit, err := strconv.Atoi(value)
	if err != nil || limit <= 0 {
		return fallback
	}
	return limit
}

// historyFrom flattens user messages most-recent-first, capped so the
// engine never inspects unbounded history.
func (h *Handler) historyFrom(messages []models.ConversationMessage) []string {
	var history []string
	for i := len(messages) - 1; i >= 0; i-- {
		if messages[i].Role != "user" {
			continue
		}
		history = append(history, messages[i].Content)
		if len(history) == h.maxHistory {
			break
		}
	}
	return history
}

// audit persists the query-log entry and publishes the analytics event.
// Both are best-effort and never fail the request.
func (h *Handler) audit(queryText string, response *models.AIResponse, fallback bool) {
	category := string(h.engine.Category(queryText))

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if h.logs != nil {
		entry := &querylog.Entry{
			Query:       queryText,
			Category:    category,
			ResultCount: len(response.Results),
			Confidence:  response.Confidence,
			Fallback:    fallback,
			Attributes: datatypes.JSONMap{
				"suggestions": len(response.Suggestions),
			},
		}
		if err := h.logs.Record(ctx, entry); err != nil {
			logger.Log.WithError(err).Warn("failed to record query log entry")
		}
	}

	if h.producer != nil {
		err := h.producer.PublishEvent(ctx, "query-answered", "query-service", map[string]interface{}{
			"query":        queryText,
			"category":     category,
			"result_count": len(response.Results),
			"confidence":   response.Confidence,
			"fallback":     fallback,
		})
		if err != nil {
			logger.Log.WithError(err).Warn("failed to publish query analytics event")
		}
	}
}

// toQueryResponse splits ranked results back into their record families
// for the dashboard response shape.
func toQueryResponse(queryText string, response *models.AIResponse) models.QueryResponse {
	recordSet := models.RecordSet{
		Studies: []models.Study{},
		Cases:   []models.ClinicalCase{},
		Alerts:  []models.RegulatoryAlert{},
	}
	for _, result := range response.Results {
		switch record := result.Record.(type) {
		case models.Study:
			recordSet.Studies = append(recordSet.Studies, record)
		case models.ClinicalCase:
			recordSet.Cases = append(recordSet.Cases, record)
		case models.RegulatoryAlert:
			recordSet.Alerts = append(recordSet.Alerts, record)
		}
	}

	return models.QueryResponse{
		Answer:      response.Answer,
		Suggestions: response.Suggestions,
		Results:     recordSet,
		Meta: models.QueryMeta{
			Total:      len(response.Results),
			Query:      queryText,
			Confidence: response.Confidence,
			Timestamp:  time.Now().UTC().Format(time.RFC3339),
		},
	}
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"healthy"}`))
}

func handleMetrics(w http.ResponseWriter, r *http.Request) {
	metrics.WritePrometheus(w)
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Log.WithError(err).Error("failed to encode response")
	}
}
