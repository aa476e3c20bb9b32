package main

import (
	"fmt"
	"log"
	"os"
	"time"

	"aprgen/apr"
)

// Render a sample APR without the model, to eyeball the docx and xlsx
// layout: go run ./tool/mkapr [outdir]
func main() {
	outdir := "."
	if len(os.Args) > 1 {
		outdir = os.Args[1]
	}

	a := &apr.Apr{
		TituloApr:      "APR - Trabalho em altura em torre de telecomunicações",
		Local:          "Canteiro de obras - Torre Norte",
		DataElaboracao: time.Now().Format(apr.DATE_LAYOUT),
		EtapasERiscos: []apr.Etapa{
			{
				EtapaTarefa:          "Montagem do andaime",
				PerigosIdentificados: []string{"Queda de altura", "Queda de materiais"},
				RiscosAssociados:     []string{"Fratura", "Traumatismo"},
				MedidasDeControleRecomendadas: []string{
					"Instalar linha de vida - NR 35",
					"Isolar a área abaixo - NR 18",
				},
				ClassificacaoRiscoResidual: "Médio",
			},
			{
				EtapaTarefa:          "Içamento de equipamentos",
				PerigosIdentificados: []string{"Rompimento do cabo"},
				RiscosAssociados:     []string{"Esmagamento"},
				MedidasDeControleRecomendadas: []string{
					"Inspecionar cabos e cintas antes do uso - NR 11",
				},
				ClassificacaoRiscoResidual: "Baixo",
			},
		},
		EpisObrigatorios: []string{
			"Capacete com jugular", "Botas", "Luvas",
			"Cinto de segurança tipo paraquedista com talabarte duplo",
		},
		ProcedimentosEmergencia: apr.DefaultEmergencia,
	}

	norms := apr.ExtractNorms(a)
	fmt.Println("normas citadas:", norms)

	docxfile := outdir + "/APR_exemplo.docx"
	if err := apr.WriteDocx(a, norms, docxfile); err != nil {
		log.Fatal(err)
	}
	fmt.Println("wrote", docxfile)

	xlsxfile := outdir + "/APR_exemplo.xlsx"
	if err := apr.WriteXlsx(a, xlsxfile); err != nil {
		log.Fatal(err)
	}
	fmt.Println("wrote", xlsxfile)
}
