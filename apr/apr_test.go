package apr

import (
	"strings"
	"testing"
	"time"
)

const modelAnswer = `Claro! Aqui está a APR em JSON:
` + "```json" + `
{
  "titulo_apr": "APR - Solda em tubulação",
  "local": "Oficina central",
  "data_elaboracao": "01/08/2026",
  "etapas_e_riscos": [
    {
      "etapa_tarefa": "Preparar a área",
      "perigos_identificados": ["Fagulhas"],
      "riscos_associados": ["Queimadura"],
      "medidas_de_controle_recomendadas": ["Biombo de proteção - NR 18"],
      "classificacao_risco_residual": "Baixo"
    }
  ],
  "epis_obrigatorios": ["Máscara de solda"],
  "procedimentos_emergencia": "Usar o extintor classe B mais próximo."
}
` + "```" + `
Espero ter ajudado!`

func TestParseResponse(t *testing.T) {
	a, err := ParseResponse(modelAnswer)
	if err != nil {
		t.Fatalf("ParseResponse error: %v", err)
	}
	if a.TituloApr != "APR - Solda em tubulação" {
		t.Errorf("titulo = %q", a.TituloApr)
	}
	if len(a.EtapasERiscos) != 1 {
		t.Fatalf("etapas = %d, want 1", len(a.EtapasERiscos))
	}
	if a.EtapasERiscos[0].ClassificacaoRiscoResidual != "Baixo" {
		t.Errorf("classificacao = %q", a.EtapasERiscos[0].ClassificacaoRiscoResidual)
	}
}

func TestParseResponseNoJson(t *testing.T) {
	if _, err := ParseResponse("desculpe, não consigo ajudar"); err == nil {
		t.Error("answer without JSON must be rejected")
	}
	if _, err := ParseResponse(""); err == nil {
		t.Error("empty answer must be rejected")
	}
}

func TestParseResponseBrokenJson(t *testing.T) {
	if _, err := ParseResponse(`{"titulo_apr": }`); err == nil {
		t.Error("broken JSON must be rejected")
	}
}

func TestPostProcessDefaults(t *testing.T) {
	a := &Apr{}
	PostProcess(a, "pintura de parede")

	if len(a.EpisObrigatorios) != len(DefaultEpis) {
		t.Errorf("epis = %v, want defaults", a.EpisObrigatorios)
	}
	if a.ProcedimentosEmergencia != DefaultEmergencia {
		t.Errorf("emergencia = %q", a.ProcedimentosEmergencia)
	}
}

func TestPostProcessAltura(t *testing.T) {
	a := &Apr{EpisObrigatorios: []string{"Capacete"}}
	PostProcess(a, "Instalação de antena em ALTURA sobre andaime")

	found := false
	for _, epi := range a.EpisObrigatorios {
		if strings.Contains(epi, "paraquedista") {
			found = true
		}
	}
	if !found {
		t.Errorf("altura activity lacks harness EPI: %v", a.EpisObrigatorios)
	}
}

func TestPostProcessEspacoConfinado(t *testing.T) {
	a := &Apr{EpisObrigatorios: []string{"Capacete"}}
	PostProcess(a, "limpeza de tanque em espaço confinado")

	joined := strings.Join(a.EpisObrigatorios, "; ")
	if !strings.Contains(joined, "Detector de gases") {
		t.Errorf("confined space activity lacks gas detector: %v", a.EpisObrigatorios)
	}
}

func TestPostProcessKeepsFilledFields(t *testing.T) {
	a := &Apr{
		EpisObrigatorios:        []string{"Luvas nitrílicas"},
		ProcedimentosEmergencia: "Lavar com água corrente por 15 minutos.",
	}
	PostProcess(a, "manuseio de solventes")

	if len(a.EpisObrigatorios) != 1 || a.EpisObrigatorios[0] != "Luvas nitrílicas" {
		t.Errorf("filled epis were changed: %v", a.EpisObrigatorios)
	}
	if a.ProcedimentosEmergencia != "Lavar com água corrente por 15 minutos." {
		t.Errorf("filled emergencia was changed: %q", a.ProcedimentosEmergencia)
	}
}

func TestBuildPrompt(t *testing.T) {
	prompt := BuildPrompt("resumo da NR 35", "troca de telhado")

	for _, want := range []string{
		"resumo da NR 35",
		"troca de telhado",
		"Engenheiro de Segurança do Trabalho",
		"epis_obrigatorios",
		"SOMENTE com JSON válido",
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt lacks %q", want)
		}
	}
}

func TestNormalizeDate(t *testing.T) {
	today := time.Now().Format(DATE_LAYOUT)

	cases := []struct{ in, want string }{
		{"", today},
		{"2026-08-09", "09/08/2026"},
		{"09/08/2026", "09/08/2026"}, // day first on ambiguity
	}
	for _, c := range cases {
		got, err := NormalizeDate(c.in)
		if err != nil {
			t.Errorf("NormalizeDate(%q) error: %v", c.in, err)
			continue
		}
		if got != c.want {
			t.Errorf("NormalizeDate(%q) = %q, want %q", c.in, got, c.want)
		}
	}

	if _, err := NormalizeDate("não é uma data"); err == nil {
		t.Error("garbage date must be rejected")
	}
}

func TestNewId(t *testing.T) {
	if NewId() == NewId() {
		t.Error("ids must be unique")
	}
}
