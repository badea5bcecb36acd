package query

import "strings"

const (
	maxPrimarySuggestions    = 4
	maxCorrelatedSuggestions = 3
)

// primarySuggestions is the fixed follow-up table per category.
var primarySuggestions = map[Category][]string{
	CategoryDosage: {
		"Como titular a dose inicial de CBD?",
		"Dosagem por faixa etária",
		"Protocolos posológicos publicados",
		"Conversão de concentração mg/mL",
	},
	CategoryEfficacy: {
		"Estudos com maior nível de evidência",
		"Tempo médio até resposta clínica",
		"Comparação CBD vs THC em eficácia",
		"Taxas de melhora por condição",
	},
	CategorySafety: {
		"Interações medicamentosas do CBD",
		"Eventos adversos por faixa de dose",
		"Segurança em uso prolongado",
		"Contraindicações conhecidas",
	},
	CategoryCondition: {
		"Estudos clínicos para essa condição",
		"Dosagem recomendada para essa condição",
		"Casos clínicos com desfecho positivo",
		"Alertas regulatórios relacionados",
	},
}

// generalSuffixes build suggestions for categories without a table entry
// by concatenating the query with fixed complements.
var generalSuffixes = []string{
	" dosagem",
	" efeitos colaterais",
	" protocolo médico",
	" interações medicamentosas",
	" pediatria",
	" estudos clínicos",
}

type historyRule struct {
	pastTerm    string
	currentTerm string
	suggestion  string
}

// historyRules correlate a term seen in past queries with a term in the
// current one. History is inspected most-recent-first, capped by the caller.
var historyRules = []historyRule{
	{pastTerm: "thc", currentTerm: "cbd", suggestion: "Efeito entourage CBD+THC"},
	{pastTerm: "criança", currentTerm: "epilepsia", suggestion: "Epidiolex em pediatria"},
	{pastTerm: "dor", currentTerm: "fibromialgia", suggestion: "Canabinoides na fibromialgia"},
	{pastTerm: "ansiedade", currentTerm: "insônia", suggestion: "CBD e higiene do sono"},
}

// Suggester produces follow-up query strings for a response.
type Suggester struct{}

func NewSuggester() *Suggester {
	return &Suggester{}
}

// Suggest returns at most four primary suggestions followed by at most
// three history-correlated ones, deduplicated, primary first. The history
// slice is read-only and never retained.
func (s *Suggester) Suggest(category Category, query string, history []string) []string {
	suggestions := primaryFor(category, query)

	seen := make(map[string]struct{}, len(suggestions))
	for _, suggestion := range suggestions {
		seen[suggestion] = struct{}{}
	}

	lowered := strings.ToLower(query)
	correlated := 0
	for _, rule := range historyRules {
		if correlated == maxCorrelatedSuggestions {
			break
		}
		if !strings.Contains(lowered, rule.currentTerm) {
			continue
		}
		if !historyContains(history, rule.pastTerm) {
			continue
		}
		if _, dup := seen[rule.suggestion]; dup {
			continue
		}
		seen[rule.suggestion] = struct{}{}
		suggestions = append(suggestions, rule.suggestion)
		correlated++
	}

	return suggestions
}

func primaryFor(category Category, query string) []string {
	if fixed, ok := primarySuggestions[category]; ok {
		if len(fixed) > maxPrimarySuggestions {
			fixed = fixed[:maxPrimarySuggestions]
		}
		return append([]string(nil), fixed...)
	}

	suggestions := make([]string, 0, maxPrimarySuggestions)
	for _, suffix := range generalSuffixes {
		if len(suggestions) == maxPrimarySuggestions {
			break
		}
		suggestions = append(suggestions, query+suffix)
	}
	return suggestions
}

func historyContains(history []string, term string) bool {
	for _, past := range history {
		if strings.Contains(strings.ToLower(past), term) {
			return true
		}
	}
	return false
}
