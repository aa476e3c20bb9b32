package apr

import (
	"reflect"
	"testing"
)

func TestExtractNorms(t *testing.T) {
	a := &Apr{
		EtapasERiscos: []Etapa{
			{MedidasDeControleRecomendadas: []string{
				"Linha de vida ancorada - NR 35",
				"Treinamento NR-35 atualizado",
				"Sinalização da área - NR18",
			}},
			{MedidasDeControleRecomendadas: []string{
				"Uso de EPI conforme NR 6",
			}},
		},
		ProcedimentosEmergencia: "Resgate conforme NR 33.",
	}

	norms := ExtractNorms(a)
	want := []string{"NR 06", "NR 18", "NR 33", "NR 35"}
	if !reflect.DeepEqual(norms, want) {
		t.Errorf("norms = %v, want %v", norms, want)
	}
}

func TestExtractNormsEmpty(t *testing.T) {
	a := &Apr{
		EtapasERiscos: []Etapa{
			{MedidasDeControleRecomendadas: []string{"Isolar a área"}},
		},
	}
	if norms := ExtractNorms(a); len(norms) != 0 {
		t.Errorf("no citations expected, got %v", norms)
	}
}
