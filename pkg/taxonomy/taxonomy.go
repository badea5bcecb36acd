package taxonomy

import (
	"errors"
	"io/ioutil"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// GeneralSearch is the sentinel returned when a query names no known condition.
const GeneralSearch = "general search"

// Category groups the terms detected for one medical condition family.
// Declaration order is significant: detection scans categories and terms
// in the order they appear here, so results are reproducible across runs.
type Category struct {
	Name  string   `yaml:"name" json:"name"`
	Terms []string `yaml:"terms" json:"terms"`
}

type Taxonomy struct {
	Categories []Category `yaml:"categories" json:"categories"`
}

// Load reads a taxonomy file. Every failure path returns the built-in
// corpus alongside the error, so callers that log and proceed never end
// up detecting against zero condition terms.
func Load(path string) (Taxonomy, error) {
	if path == "" {
		return Default(), nil
	}
	content, err := ioutil.ReadFile(filepath.Clean(path))
	if err != nil {
		return Default(), err
	}

	var tax Taxonomy
	if err := yaml.Unmarshal(content, &tax); err != nil {
		return Default(), err
	}

	if len(tax.Categories) == 0 {
		return Default(), errors.New("condition taxonomy empty")
	}

	return tax, nil
}

func Default() Taxonomy {
	return Taxonomy{Categories: []Category{
		{Name: "neurologia", Terms: []string{"epilepsia", "convulsão", "convulsões", "parkinson", "alzheimer", "esclerose múltipla"}},
		{Name: "dor", Terms: []string{"dor crônica", "dor neuropática", "fibromialgia", "enxaqueca", "artrite"}},
		{Name: "saúde mental", Terms: []string{"ansiedade", "depressão", "insônia", "estresse pós-traumático", "autismo", "tea"}},
		{Name: "oncologia", Terms: []string{"câncer", "quimioterapia", "náusea", "cuidados paliativos"}},
		{Name: "inflamação", Terms: []string{"inflamação", "doença de crohn", "colite", "psoríase"}},
	}}
}
