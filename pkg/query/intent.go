package query

import (
	"strings"

	"github.com/mediflora-ai/platform/pkg/taxonomy"
)

// Category is the response-template bucket selected for a query.
type Category string

const (
	CategoryDosage    Category = "dosage"
	CategoryEfficacy  Category = "efficacy"
	CategorySafety    Category = "safety"
	CategoryCondition Category = "condition"
	CategoryGeneral   Category = "general"
)

type intentRule struct {
	category Category
	keywords []string
}

// Classifier selects a category by testing keyword sets against the
// query in a fixed precedence order. The order is part of the contract:
// the first rule with any match wins, no overlap resolution beyond that.
type Classifier struct {
	rules []intentRule
}

func NewClassifier(tax taxonomy.Taxonomy) *Classifier {
	var conditionTerms []string
	for _, category := range tax.Categories {
		conditionTerms = append(conditionTerms, category.Terms...)
	}

	return &Classifier{rules: []intentRule{
		{CategoryDosage, []string{"dose", "dosagem", "mg", "administração", "protocolos", "posológicos"}},
		{CategoryEfficacy, []string{"eficácia", "resultado", "melhora", "resposta", "efeito"}},
		{CategorySafety, []string{"efeito colateral", "adverso", "reação", "segurança"}},
		{CategoryCondition, conditionTerms},
	}}
}

func (c *Classifier) Classify(query string) Category {
	lowered := strings.ToLower(query)
	for _, rule := range c.rules {
		for _, keyword := range rule.keywords {
			if strings.Contains(lowered, keyword) {
				return rule.category
			}
		}
	}
	return CategoryGeneral
}
