package services

import (
	"fmt"
	"io"
	"time"

	model "github.com/devanshpratap/KycVault/models"
	log "github.com/sirupsen/logrus"
	"github.com/xuri/excelize/v2"
)

// buildComplianceWorkbook renders the compliance data into an xlsx workbook:
// a Summary sheet with per-document counts and a Status Matrix sheet with one
// row per company.
func buildComplianceWorkbook(definitions []model.DocumentDefinition, companies []model.Company, uploads []model.UploadRecord, asOf time.Time) (*excelize.File, error) {
	f := excelize.NewFile()

	const summarySheet = "Summary"
	if err := f.SetSheetName("Sheet1", summarySheet); err != nil {
		return nil, err
	}

	headers := []string{"Document", "Department", "Type", "Total", "Complete", "Pending"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(summarySheet, cell, h)
	}

	summaries := AggregateCompliance(definitions, companies, uploads)
	for row, def := range definitions {
		sum := summaries[def.ID]
		values := []interface{}{def.Name, def.Department, def.DocumentType, sum.Total, sum.Complete, sum.Pending}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			f.SetCellValue(summarySheet, cell, v)
		}
	}

	const matrixSheet = "Status Matrix"
	if _, err := f.NewSheet(matrixSheet); err != nil {
		return nil, err
	}
	f.SetCellValue(matrixSheet, "A1", "Company")
	for i, def := range definitions {
		cell, _ := excelize.CoordinatesToCellName(i+2, 1)
		f.SetCellValue(matrixSheet, cell, def.Name)
	}

	latest := latestUploadsByPair(uploads)
	for row, company := range companies {
		cell, _ := excelize.CoordinatesToCellName(1, row+2)
		f.SetCellValue(matrixSheet, cell, company.Name)
		for col, def := range definitions {
			upload := latest[[2]string{def.ID, company.ID}]
			status := ClassifyUpload(upload, def.DocumentType, asOf)
			cell, _ := excelize.CoordinatesToCellName(col+2, row+2)
			f.SetCellValue(matrixSheet, cell, string(status))
		}
	}

	return f, nil
}

// ExportComplianceReport writes the current compliance state as an xlsx
// workbook to w.
func (s *KycService) ExportComplianceReport(w io.Writer) error {
	definitions, err := s.GetDocumentDefinitions(DefinitionFilter{})
	if err != nil {
		return err
	}
	companies, err := s.GetAllCompanies()
	if err != nil {
		return err
	}
	uploads, err := s.GetUploads("", "")
	if err != nil {
		return err
	}

	f, err := buildComplianceWorkbook(definitions, companies, uploads, time.Now())
	if err != nil {
		log.Printf("Error building compliance workbook: %v", err)
		return fmt.Errorf("failed to build compliance workbook: %w", err)
	}
	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	log.Printf("Compliance report exported: %d definitions, %d companies", len(definitions), len(companies))
	return nil
}
