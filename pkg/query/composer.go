package query

import (
	"fmt"
	"strings"

	"github.com/mediflora-ai/platform/pkg/common/models"
)

// Composer renders the final answer text for a category. Rendering is
// pure string building: identical inputs always produce identical output.
type Composer struct{}

func NewComposer() *Composer {
	return &Composer{}
}

type templateContext struct {
	query      string
	results    []models.SearchResult
	studyCount int
	caseCount  int
	alertCount int
}

// templates maps each category to its renderer. Unknown categories fall
// back to the general template.
var templates = map[Category]func(templateContext) string{
	CategoryDosage:    renderDosage,
	CategoryEfficacy:  renderEfficacy,
	CategorySafety:    renderSafety,
	CategoryCondition: renderCondition,
	CategoryGeneral:   renderGeneral,
}

func (c *Composer) Compose(category Category, query string, results []models.SearchResult, studyCount, caseCount, alertCount int) string {
	render, ok := templates[category]
	if !ok {
		render = renderGeneral
	}
	return render(templateContext{
		query:      query,
		results:    results,
		studyCount: studyCount,
		caseCount:  caseCount,
		alertCount: alertCount,
	})
}

func renderDosage(ctx templateContext) string {
	var b strings.Builder
	b.WriteString("**Informações sobre Dosagem**\n\n")

	if ctx.total() == 0 {
		b.WriteString("Não encontrei registros na base para essa consulta.\n\n")
		b.WriteString("**Importante:** a definição posológica de canabinoides deve sempre ser conduzida pelo médico prescritor.")
		return b.String()
	}

	b.WriteString(ctx.countsLine())
	b.WriteString(topHighlight(ctx.results))
	b.WriteString("**Importante:** a posologia é individualizada. O protocolo usual inicia com doses baixas de CBD, com titulação gradual supervisionada pelo médico prescritor.")
	return b.String()
}

func renderEfficacy(ctx templateContext) string {
	var b strings.Builder
	b.WriteString("**Evidências de Eficácia**\n\n")

	if ctx.total() == 0 {
		b.WriteString("Não encontrei evidências registradas na base para essa consulta.\n\n")
		b.WriteString("Considere reformular a pergunta citando o composto ou a condição de interesse.")
		return b.String()
	}

	b.WriteString(ctx.countsLine())
	b.WriteString(topHighlight(ctx.results))
	b.WriteString("Os desfechos relatados variam conforme a condição tratada e o perfil do paciente; os registros acima indicam a evidência mais próxima da sua consulta.")
	return b.String()
}

func renderSafety(ctx templateContext) string {
	var b strings.Builder
	b.WriteString("**Perfil de Segurança**\n\n")

	if ctx.total() == 0 {
		b.WriteString("Não encontrei registros de segurança na base para essa consulta.\n\n")
	} else {
		b.WriteString(ctx.countsLine())
		b.WriteString(topHighlight(ctx.results))
	}

	b.WriteString("Eventos adversos mais relatados na literatura:\n")
	b.WriteString("• Sonolência e fadiga\n")
	b.WriteString("• Boca seca\n")
	b.WriteString("• Alterações de apetite\n\n")
	b.WriteString("**Atenção:** verifique interações medicamentosas antes de associar canabinoides a outros fármacos.")
	return b.String()
}

func renderCondition(ctx templateContext) string {
	var b strings.Builder
	b.WriteString("**Informações sobre a Condição**\n\n")

	if ctx.total() == 0 {
		b.WriteString("Ainda não há registros na base relacionados a essa condição.\n\n")
		b.WriteString("Novos estudos e casos clínicos são adicionados continuamente; tente novamente em breve.")
		return b.String()
	}

	b.WriteString(ctx.countsLine())
	b.WriteString(topHighlight(ctx.results))
	b.WriteString("Use as sugestões abaixo para aprofundar em dosagem, eficácia ou segurança para essa condição.")
	return b.String()
}

func renderGeneral(ctx templateContext) string {
	var b strings.Builder
	b.WriteString("**Resultado da Busca**\n\n")
	b.WriteString(ctx.countsLine())

	if len(ctx.results) == 0 {
		b.WriteString("Nenhum registro superou o limiar de relevância para essa consulta. Tente termos mais específicos, como o nome do composto ou da condição.")
		return b.String()
	}

	b.WriteString(topHighlight(ctx.results))
	b.WriteString("Refine a consulta para obter uma resposta direcionada sobre dosagem, eficácia ou segurança.")
	return b.String()
}

func (ctx templateContext) total() int {
	return ctx.studyCount + ctx.caseCount + ctx.alertCount
}

func (ctx templateContext) countsLine() string {
	return fmt.Sprintf("Base consultada: %d estudo(s) científico(s), %d caso(s) clínico(s) e %d alerta(s) regulatório(s).\n\n",
		ctx.studyCount, ctx.caseCount, ctx.alertCount)
}

// topHighlight renders a bullet section for the top-ranked record, with
// family-specific fields. Empty when there is no ranked result.
func topHighlight(results []models.SearchResult) string {
	if len(results) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString("Registro mais relevante:\n")
	switch record := results[0].Record.(type) {
	case models.Study:
		b.WriteString(fmt.Sprintf("• **%s**\n", record.Title))
		if record.Compound != "" {
			b.WriteString(fmt.Sprintf("• Composto: %s\n", record.Compound))
		}
		if record.Indication != "" {
			b.WriteString(fmt.Sprintf("• Indicação: %s\n", record.Indication))
		}
		if record.Status != "" {
			b.WriteString(fmt.Sprintf("• Status: %s\n", record.Status))
		}
	case models.ClinicalCase:
		b.WriteString(fmt.Sprintf("• **Caso clínico %s**\n", record.CaseNumber))
		if record.Indication != "" {
			b.WriteString(fmt.Sprintf("• Indicação: %s\n", record.Indication))
		}
		if record.Outcome != "" {
			b.WriteString(fmt.Sprintf("• Desfecho: %s\n", record.Outcome))
		}
	case models.RegulatoryAlert:
		b.WriteString(fmt.Sprintf("• **Alerta %s**\n", record.Type))
		if record.Priority != "" {
			b.WriteString(fmt.Sprintf("• Prioridade: %s\n", record.Priority))
		}
		if record.Message != "" {
			b.WriteString(fmt.Sprintf("• %s\n", record.Message))
		}
	}
	b.WriteString("\n")
	return b.String()
}
