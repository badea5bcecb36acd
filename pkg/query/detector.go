package query

import (
	"strings"

	"github.com/mediflora-ai/platform/pkg/taxonomy"
)

// Detector matches free-text queries against the condition taxonomy.
type Detector struct {
	tax taxonomy.Taxonomy
}

func NewDetector(tax taxonomy.Taxonomy) *Detector {
	return &Detector{tax: tax}
}

// Detect scans the taxonomy in declaration order and returns every term
// contained in the query, first-seen order, without duplicates. When no
// term matches it returns the general-search sentinel and false.
func (d *Detector) Detect(query string) ([]string, bool) {
	lowered := strings.ToLower(query)

	var conditions []string
	seen := make(map[string]struct{})
	for _, category := range d.tax.Categories {
		for _, term := range category.Terms {
			if !strings.Contains(lowered, strings.ToLower(term)) {
				continue
			}
			if _, dup := seen[term]; dup {
				continue
			}
			seen[term] = struct{}{}
			conditions = append(conditions, term)
		}
	}

	if len(conditions) == 0 {
		return []string{taxonomy.GeneralSearch}, false
	}
	return conditions, true
}
