package query

import (
	"strings"
	"testing"

	"github.com/mediflora-ai/platform/pkg/common/models"
)

func TestComposeIsDeterministic(t *testing.T) {
	composer := NewComposer()
	results := []models.SearchResult{{
		Family:    models.FamilyStudy,
		Relevance: 0.95,
		Record:    models.Study{ID: "s1", Title: "CBD em epilepsia", Compound: "CBD", Indication: "epilepsia"},
	}}

	first := composer.Compose(CategoryDosage, "dosagem cbd epilepsia", results, 3, 2, 1)
	second := composer.Compose(CategoryDosage, "dosagem cbd epilepsia", results, 3, 2, 1)
	if first != second {
		t.Fatal("expected identical output for identical inputs")
	}
}

func TestComposeDosageTemplate(t *testing.T) {
	composer := NewComposer()
	results := []models.SearchResult{{
		Family:    models.FamilyStudy,
		Relevance: 0.95,
		Record:    models.Study{ID: "s1", Title: "CBD em epilepsia refratária", Compound: "CBD", Indication: "epilepsia", Status: "completed"},
	}}

	answer := composer.Compose(CategoryDosage, "dosagem cbd epilepsia", results, 3, 2, 1)
	if !strings.HasPrefix(answer, "**Informações sobre Dosagem**") {
		t.Fatalf("expected dosage heading, got %q", answer)
	}
	if !strings.Contains(answer, "3 estudo(s)") || !strings.Contains(answer, "2 caso(s)") || !strings.Contains(answer, "1 alerta(s)") {
		t.Fatalf("expected aggregate counts in answer, got %q", answer)
	}
	if !strings.Contains(answer, "CBD em epilepsia refratária") {
		t.Fatalf("expected top record title in answer, got %q", answer)
	}
}

func TestComposeNoDataBranch(t *testing.T) {
	composer := NewComposer()

	answer := composer.Compose(CategoryDosage, "dosagem cbd", nil, 0, 0, 0)
	if !strings.Contains(answer, "Não encontrei registros") {
		t.Fatalf("expected no-data branch, got %q", answer)
	}
}

func TestComposeGeneralCountsOnly(t *testing.T) {
	composer := NewComposer()

	answer := composer.Compose(CategoryGeneral, "xyz random text", nil, 5, 4, 3)
	if !strings.HasPrefix(answer, "**Resultado da Busca**") {
		t.Fatalf("expected general heading, got %q", answer)
	}
	if !strings.Contains(answer, "5 estudo(s)") {
		t.Fatalf("expected aggregate counts, got %q", answer)
	}
	if strings.Contains(answer, "Registro mais relevante") {
		t.Fatalf("expected no highlight without results, got %q", answer)
	}
}

func TestComposeCaseHighlight(t *testing.T) {
	composer := NewComposer()
	results := []models.SearchResult{{
		Family:    models.FamilyCase,
		Relevance: 0.95,
		Record:    models.ClinicalCase{ID: "c1", CaseNumber: "2024-017", Indication: "dor crônica", Outcome: "melhora significativa"},
	}}

	answer := composer.Compose(CategoryCondition, "dor crônica", results, 0, 1, 0)
	if !strings.Contains(answer, "Caso clínico 2024-017") {
		t.Fatalf("expected case number in highlight, got %q", answer)
	}
	if !strings.Contains(answer, "melhora significativa") {
		t.Fatalf("expected outcome in highlight, got %q", answer)
	}
}
