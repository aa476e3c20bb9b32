package apr

import (
	"time"

	"github.com/gomutex/godocx"
	"github.com/gomutex/godocx/wml/stypes"
	log "github.com/sirupsen/logrus"
)

var tableHeaders = []string{
	"Etapa da Tarefa",
	"Perigos Identificados",
	"Riscos Associados",
	"Medidas de Controle Recomendadas",
	"Classificação do Risco Residual",
}

// WriteDocx renders the APR to a Word document. An APR without etapas
// still produces a valid file with the header row only.
func WriteDocx(a *Apr, norms []string, filename string) error {
	document, err := godocx.NewDocument()
	if err != nil {
		log.Errorf("new docx error: %v", err)
		return err
	}

	title, err := document.AddHeading("ANÁLISE PRELIMINAR DE RISCO (APR)", 0)
	if err != nil {
		return err
	}
	title.Justification(stypes.JustificationCenter)

	p := document.AddParagraph("")
	p.AddText("Título: ").Bold(true)
	p.AddText(a.TituloApr)

	p = document.AddParagraph("")
	p.AddText("Local: ").Bold(true)
	p.AddText(a.Local)

	p = document.AddParagraph("")
	p.AddText("Data: ").Bold(true)
	p.AddText(a.DataElaboracao)

	document.AddHeading("ETAPAS DA TAREFA, RISCOS E MEDIDAS DE CONTROLE", 1)
	table := document.AddTable()
	table.Style("LightList-Accent4")

	// shading comes from the table style, bold is per run
	hdrRow := table.AddRow()
	for _, header := range tableHeaders {
		hdrRow.AddCell().AddEmptyPara().AddText(header).Bold(true)
	}

	for _, etapa := range a.EtapasERiscos {
		row := table.AddRow()
		row.AddCell().AddParagraph(etapa.EtapaTarefa)
		for _, items := range [][]string{
			etapa.PerigosIdentificados,
			etapa.RiscosAssociados,
			etapa.MedidasDeControleRecomendadas,
		} {
			cell := row.AddCell()
			if len(items) == 0 {
				cell.AddParagraph("N/A")
				continue
			}
			for _, item := range items {
				cell.AddParagraph("- " + item)
			}
		}
		row.AddCell().AddParagraph(etapa.ClassificacaoRiscoResidual)
	}

	document.AddHeading("EQUIPAMENTOS DE PROTEÇÃO INDIVIDUAL (EPIs) OBRIGATÓRIOS", 1)
	for _, epi := range a.EpisObrigatorios {
		document.AddParagraph(epi).Style("List Bullet")
	}

	document.AddHeading("PROCEDIMENTOS DE EMERGÊNCIA", 1)
	document.AddParagraph(a.ProcedimentosEmergencia).Style("Intense Quote")

	if len(norms) > 0 {
		document.AddHeading("NORMAS REGULAMENTADORAS REFERENCIADAS", 1)
		for _, norm := range norms {
			document.AddParagraph(norm).Style("List Bullet")
		}
	}

	document.AddParagraph("Gerado em: " + time.Now().Format("2006-01-02 15:04:05"))

	if err = document.SaveTo(filename); err != nil {
		log.Errorf("save docx '%s' error: %v", filename, err)
		return err
	}
	return nil
}
