package apr

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"github.com/google/uuid"
)

// Date layout used on the printed document, dd/mm/yyyy.
const DATE_LAYOUT = "02/01/2006"

// Etapa is one row of the risk table.
type Etapa struct {
	EtapaTarefa                   string   `json:"etapa_tarefa"`
	PerigosIdentificados          []string `json:"perigos_identificados"`
	RiscosAssociados              []string `json:"riscos_associados"`
	MedidasDeControleRecomendadas []string `json:"medidas_de_controle_recomendadas"`
	ClassificacaoRiscoResidual    string   `json:"classificacao_risco_residual"`
}

// Apr is the filled risk analysis, the JSON contract the model must follow.
type Apr struct {
	TituloApr               string   `json:"titulo_apr"`
	Local                   string   `json:"local"`
	DataElaboracao          string   `json:"data_elaboracao"`
	EtapasERiscos           []Etapa  `json:"etapas_e_riscos"`
	EpisObrigatorios        []string `json:"epis_obrigatorios"`
	ProcedimentosEmergencia string   `json:"procedimentos_emergencia"`
}

func NewId() string {
	return uuid.NewString()
}

const jsonExemplo = `{
  "titulo_apr": "APR - ATIVIDADE",
  "local": "Local",
  "data_elaboracao": "DATA",
  "etapas_e_riscos": [
    {
      "etapa_tarefa": "Etapa",
      "perigos_identificados": ["Perigo1"],
      "riscos_associados": ["Risco1"],
      "medidas_de_controle_recomendadas": ["Medida1 - NR XX"],
      "classificacao_risco_residual": "Baixo/Médio/Alto"
    }
  ],
  "epis_obrigatorios": ["EPI1"],
  "procedimentos_emergencia": "Procedimento"
}`

// BuildPrompt assembles the final generation prompt: persona, retrieved
// context, the activity and the JSON contract with its rules.
func BuildPrompt(contexto, atividade string) string {
	return fmt.Sprintf(`
# PERSONA
Você é um Engenheiro de Segurança do Trabalho Sênior, especialista nas NRs e em análise de riscos.

# CONTEXTO (resumos de normas)
%s

# ATIVIDADE
%s

# TAREFA
Preencha a APR em JSON no formato abaixo, respeitando as regras:

%s

# REGRAS
- Preencha TODOS os campos do JSON.
- "epis_obrigatorios" nunca pode ficar vazio.
- Cite sempre a NR correspondente nas medidas de controle.
- Responda SOMENTE com JSON válido.
`, contexto, atividade, jsonExemplo)
}

// ParseResponse extracts the APR from a model answer. Models wrap the
// JSON in prose or code fences, so everything outside the outermost
// braces is dropped.
func ParseResponse(txt string) (*Apr, error) {
	start := strings.Index(txt, "{")
	end := strings.LastIndex(txt, "}")
	if start < 0 || end < start {
		return nil, fmt.Errorf("no JSON object in model answer (%d chars)", len(txt))
	}

	a := &Apr{}
	if err := json.Unmarshal([]byte(txt[start:end+1]), a); err != nil {
		return nil, fmt.Errorf("model answer is not valid APR JSON: %w", err)
	}
	return a, nil
}

// Default values applied when the model leaves fields empty.
var (
	DefaultEpis = []string{"Capacete", "Botas", "Luvas", "Óculos"}

	EpisAltura = []string{
		"Cinto de segurança tipo paraquedista com talabarte duplo",
	}
	EpisEspacoConfinado = []string{
		"Detector de gases", "Máscara com filtro", "Cinturão de segurança",
	}

	DefaultEmergencia = "Acionar brigada de emergência, aplicar primeiros socorros, " +
		"evacuar a área e acionar o Corpo de Bombeiros (193)."
)

// PostProcess enforces the hard rules the model sometimes ignores:
// EPIs never empty, activity keywords add their mandatory EPIs, and an
// emergency procedure is always present. Keyword match is case-insensitive.
func PostProcess(a *Apr, atividade string) {
	atividade = strings.ToLower(atividade)

	if len(a.EpisObrigatorios) == 0 {
		a.EpisObrigatorios = append(a.EpisObrigatorios, DefaultEpis...)
	}

	if strings.Contains(atividade, "altura") || strings.Contains(atividade, "andaime") {
		a.EpisObrigatorios = append(a.EpisObrigatorios, EpisAltura...)
	}

	if strings.Contains(atividade, "confinado") {
		a.EpisObrigatorios = append(a.EpisObrigatorios, EpisEspacoConfinado...)
	}

	if strings.TrimSpace(a.ProcedimentosEmergencia) == "" {
		a.ProcedimentosEmergencia = DefaultEmergencia
	}
}

// NormalizeDate turns a user supplied date in any common format into
// dd/mm/yyyy. Empty means today. Day-first reading wins on ambiguity.
func NormalizeDate(s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Now().Format(DATE_LAYOUT), nil
	}

	t, err := dateparse.ParseAny(s, dateparse.PreferMonthFirst(false))
	if err != nil {
		return "", fmt.Errorf("invalid date '%s': %w", s, err)
	}
	return t.Format(DATE_LAYOUT), nil
}
