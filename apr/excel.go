package apr

import (
	"fmt"
	"strings"

	log "github.com/sirupsen/logrus"
	"github.com/xuri/excelize/v2"
)

const RISK_SHEET = "Riscos"

// WriteXlsx exports the risk table to a spreadsheet, one etapa per row.
// List cells are joined with newlines, excel renders them as lines.
func WriteXlsx(a *Apr, filename string) error {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(RISK_SHEET)
	if err != nil {
		log.Errorf("create sheet '%s' failed: %v", RISK_SHEET, err)
		return err
	}

	// header row
	for col, header := range tableHeaders {
		cell := fmt.Sprintf("%c%d", 'A'+col, 1)
		if err = f.SetCellValue(RISK_SHEET, cell, header); err != nil {
			log.Warnf("SetCellValue header failed: %v", err)
		}
	}
	lastHeader := fmt.Sprintf("%c%d", 'A'+len(tableHeaders)-1, 1)
	if err = setHeaderStyle(f, RISK_SHEET, "A1", lastHeader); err != nil {
		log.Warnf("setHeaderStyle failed: %v", err)
	}

	for i, etapa := range a.EtapasERiscos {
		values := []string{
			etapa.EtapaTarefa,
			strings.Join(etapa.PerigosIdentificados, "\n"),
			strings.Join(etapa.RiscosAssociados, "\n"),
			strings.Join(etapa.MedidasDeControleRecomendadas, "\n"),
			etapa.ClassificacaoRiscoResidual,
		}
		for col, value := range values {
			cell := fmt.Sprintf("%c%d", 'A'+col, i+2)
			if err = f.SetCellValue(RISK_SHEET, cell, value); err != nil {
				log.Warnf("SetCellValue failed: %v", err)
			}
		}
	}

	f.SetActiveSheet(index)
	if err = f.SaveAs(filename); err != nil {
		log.Errorf("save xlsx '%s' error: %v", filename, err)
		return err
	}
	return nil
}

// set style for header, from first cell to last cell
// such as "Riscos", from "A1" to "E1"
func setHeaderStyle(f *excelize.File, sheetname, firstcell, lastcell string) error {
	style, err := f.NewStyle(&excelize.Style{
		Border: []excelize.Border{
			{Type: "bottom", Color: "000000", Style: 5},
			{Type: "right", Color: "000000", Style: 6},
		},
		Font: &excelize.Font{
			Bold:  true,
			Size:  12,
			Color: "#000000",
		},
		// light gray fill, same shade as the docx table header
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"#D9D9D9"},
			Pattern: 1,
		},
	})
	if err != nil {
		return err
	}
	return f.SetCellStyle(sheetname, firstcell, lastcell, style)
}
