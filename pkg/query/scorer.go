package query

import "strings"

const (
	// conditionMatchRelevance supersedes the computed score whenever a
	// record's text contains one of the query's detected conditions, so
	// condition-specific evidence always outranks keyword overlap.
	conditionMatchRelevance = 0.95

	defaultTermWeight = 1.0
)

type termWeight struct {
	term   string
	weight float64
}

// importanceTable is declared as an ordered pair list so scoring never
// depends on map iteration order. Unlisted tokens weigh 1.
var importanceTable = []termWeight{
	{"dosagem", 3},
	{"dose", 3},
	{"cbd", 3},
	{"thc", 3},
	{"epilepsia", 3},
	{"canabidiol", 3},
	{"dor", 2},
	{"estudo", 2},
	{"tratamento", 2},
	{"ansiedade", 2},
	{"paciente", 2},
	{"eficácia", 2},
	{"segurança", 2},
}

// Scorer computes keyword-overlap relevance between a query and a
// record's searchable text.
type Scorer struct {
	weights map[string]float64
}

func NewScorer() *Scorer {
	weights := make(map[string]float64, len(importanceTable))
	for _, tw := range importanceTable {
		weights[tw.term] = tw.weight
	}
	return &Scorer{weights: weights}
}

// Score returns a relevance in [0,1]. isConditionMatch forces the
// condition-override value regardless of keyword overlap.
func (s *Scorer) Score(query, recordText string, isConditionMatch bool) float64 {
	if isConditionMatch {
		return conditionMatchRelevance
	}

	tokens := tokenize(query)
	if len(tokens) == 0 {
		return 0
	}

	text := strings.ToLower(recordText)
	var matched, total float64
	for _, token := range tokens {
		weight := s.weight(token)
		total += weight
		if strings.Contains(text, token) {
			matched += weight
		}
	}

	if total == 0 {
		return 0
	}

	base := matched / float64(len(tokens))
	if base > 1 {
		base = 1
	}
	if base < 0 {
		base = 0
	}
	return base
}

func (s *Scorer) weight(token string) float64 {
	if w, ok := s.weights[token]; ok {
		return w
	}
	return defaultTermWeight
}

func tokenize(query string) []string {
	var tokens []string
	for _, field := range strings.Fields(query) {
		if len([]rune(field)) <= 1 {
			continue
		}
		tokens = append(tokens, strings.ToLower(field))
	}
	return tokens
}
