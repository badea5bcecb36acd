package models

import (
	"strings"
	"time"
)

// Record families searched by the query engine. The three types are
// structurally distinct but expose a uniform searchable projection so
// they can be scored and ranked together.

type Study struct {
	ID          string    `json:"id" gorm:"primaryKey"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Compound    string    `json:"compound"` // CBD, THC, CBD:THC ratios
	Indication  string    `json:"indication"`
	Status      string    `json:"status"` // recruiting, active, completed
	CreatedAt   time.Time `json:"created_at,omitempty"`
}

func (s Study) RecordID() string { return s.ID }

func (s Study) SearchableText() string {
	return strings.Join([]string{s.Title, s.Description, s.Compound, s.Indication}, " ")
}

type ClinicalCase struct {
	ID          string    `json:"id" gorm:"primaryKey"`
	CaseNumber  string    `json:"case_number"`
	Description string    `json:"description"`
	Indication  string    `json:"indication"`
	Outcome     string    `json:"outcome"`
	CreatedAt   time.Time `json:"created_at,omitempty"`
}

func (c ClinicalCase) RecordID() string { return c.ID }

func (c ClinicalCase) SearchableText() string {
	return strings.Join([]string{c.Description, c.Indication, c.Outcome}, " ")
}

type RegulatoryAlert struct {
	ID        string    `json:"id" gorm:"primaryKey"`
	Type      string    `json:"type"` // anvisa, recall, advisory
	Message   string    `json:"message"`
	Priority  string    `json:"priority"` // high, medium, low
	Read      bool      `json:"read" gorm:"column:read_status"`
	CreatedAt time.Time `json:"created_at,omitempty"`
}

func (a RegulatoryAlert) RecordID() string { return a.ID }

func (a RegulatoryAlert) SearchableText() string {
	return strings.Join([]string{a.Type, a.Message}, " ")
}

// MedicalRecord is the union of the three record families.
type MedicalRecord interface {
	RecordID() string
	SearchableText() string
}

type RecordFamily string

const (
	FamilyStudy RecordFamily = "study"
	FamilyCase  RecordFamily = "case"
	FamilyAlert RecordFamily = "alert"
)

// SearchResult pairs a record with its relevance score in [0,1].
type SearchResult struct {
	Family    RecordFamily  `json:"family"`
	Relevance float64       `json:"relevance"`
	Record    MedicalRecord `json:"record"`
}

// AIResponse is the engine's answer to a single query.
type AIResponse struct {
	Answer      string         `json:"answer"`
	Results     []SearchResult `json:"results"`
	Suggestions []string       `json:"suggestions"`
	Confidence  float64        `json:"confidence"`
}

// ConditionSearchResult is the taxonomy-filtered corpus subset returned by
// the data store when a query names a known condition.
type ConditionSearchResult struct {
	Studies            []Study           `json:"studies"`
	Cases              []ClinicalCase    `json:"cases"`
	Alerts             []RegulatoryAlert `json:"alerts"`
	DetectedConditions []string          `json:"detected_conditions"`
}

// API models

type ConversationMessage struct {
	Role      string `json:"role"` // user, assistant
	Content   string `json:"content"`
	Timestamp int64  `json:"timestamp"`
}

type QueryRequest struct {
	Query               string                `json:"query"`
	Filter              string                `json:"filter,omitempty"`
	ConversationHistory []ConversationMessage `json:"conversationHistory,omitempty"`
}

type RecordSet struct {
	Studies []Study           `json:"studies"`
	Cases   []ClinicalCase    `json:"cases"`
	Alerts  []RegulatoryAlert `json:"alerts"`
}

type QueryMeta struct {
	Total      int     `json:"total"`
	Query      string  `json:"query"`
	Confidence float64 `json:"confidence"`
	Timestamp  string  `json:"timestamp"`
}

type QueryResponse struct {
	Answer      string    `json:"answer"`
	Suggestions []string  `json:"suggestions"`
	Results     RecordSet `json:"results"`
	Meta        QueryMeta `json:"meta"`
}

// Event Bus models
type Event struct {
	ID        string                 `json:"id"`
	Type      string                 `json:"type"` // query-answered, records-updated
	Source    string                 `json:"source"`
	Data      map[string]interface{} `json:"data"`
	Timestamp time.Time              `json:"timestamp"`
	Metadata  map[string]string      `json:"metadata,omitempty"`
}
