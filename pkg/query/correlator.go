package query

import (
	"sort"
	"strings"

	"github.com/mediflora-ai/platform/pkg/common/models"
)

const (
	// minRelevance filters out weak keyword matches from ranked output.
	minRelevance = 0.3

	// caseFloorRelevance is assigned to clinical cases that match no
	// detected condition, instead of their keyword-overlap score.
	caseFloorRelevance = 0.5

	maxResults = 6
)

// Correlator merges the three record families into a single ranked list.
type Correlator struct {
	scorer *Scorer
}

func NewCorrelator(scorer *Scorer) *Correlator {
	return &Correlator{scorer: scorer}
}

// Correlate scores every record against the query, filters, and returns
// at most maxResults results sorted by descending relevance. The sort is
// stable, so ties keep the family order studies, cases, alerts.
func (c *Correlator) Correlate(query string, conditions []string, studies []models.Study, cases []models.ClinicalCase, alerts []models.RegulatoryAlert) []models.SearchResult {
	results := make([]models.SearchResult, 0, len(studies)+len(cases)+len(alerts))

	for _, study := range studies {
		text := study.SearchableText()
		score := c.scorer.Score(query, text, containsCondition(text, conditions))
		if score > minRelevance {
			results = append(results, models.SearchResult{Family: models.FamilyStudy, Relevance: score, Record: study})
		}
	}

	for _, clinicalCase := range cases {
		text := clinicalCase.SearchableText()
		match := containsCondition(text, conditions)
		score := c.scorer.Score(query, text, match)
		if !match {
			score = caseFloorRelevance
		}
		if score > minRelevance {
			results = append(results, models.SearchResult{Family: models.FamilyCase, Relevance: score, Record: clinicalCase})
		}
	}

	for _, alert := range alerts {
		text := alert.SearchableText()
		score := c.scorer.Score(query, text, containsCondition(text, conditions))
		if score > minRelevance {
			results = append(results, models.SearchResult{Family: models.FamilyAlert, Relevance: score, Record: alert})
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Relevance > results[j].Relevance
	})

	if len(results) > maxResults {
		results = results[:maxResults]
	}
	return results
}

func containsCondition(text string, conditions []string) bool {
	lowered := strings.ToLower(text)
	for _, condition := range conditions {
		if strings.Contains(lowered, strings.ToLower(condition)) {
			return true
		}
	}
	return false
}
