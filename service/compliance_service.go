package services

import (
	"time"

	model "github.com/devanshpratap/KycVault/models"
	log "github.com/sirupsen/logrus"
)

// ComplianceSummary is the dashboard stats row for one document definition.
// Complete counts presence only: an expired upload still counts as complete
// here while its status cell shows Expired. Observed product behavior, kept
// pending clarification.
type ComplianceSummary struct {
	Total    int `json:"total"`
	Complete int `json:"complete"`
	Pending  int `json:"pending"`
}

// AggregateCompliance folds uploads into per-definition summary counts. Pure;
// recomputed on every dashboard request. Uploads referencing companies outside
// the companies list are ignored so Complete+Pending always equals Total.
func AggregateCompliance(definitions []model.DocumentDefinition, companies []model.Company, uploads []model.UploadRecord) map[string]ComplianceSummary {
	knownCompanies := make(map[string]bool, len(companies))
	for _, c := range companies {
		knownCompanies[c.ID] = true
	}

	// Distinct (definition, company) pairs with at least one upload.
	covered := make(map[[2]string]bool, len(uploads))
	for _, u := range uploads {
		if knownCompanies[u.CompanyID] {
			covered[[2]string{u.DocumentDefinitionID, u.CompanyID}] = true
		}
	}

	summaries := make(map[string]ComplianceSummary, len(definitions))
	for _, def := range definitions {
		complete := 0
		for _, c := range companies {
			if covered[[2]string{def.ID, c.ID}] {
				complete++
			}
		}
		summaries[def.ID] = ComplianceSummary{
			Total:    len(companies),
			Complete: complete,
			Pending:  len(companies) - complete,
		}
	}
	return summaries
}

// MissingDocuments lists the definitions a company has no upload for, in the
// order the definitions were given.
func MissingDocuments(companyID string, definitions []model.DocumentDefinition, uploads []model.UploadRecord) []model.DocumentDefinition {
	uploaded := make(map[string]bool)
	for _, u := range uploads {
		if u.CompanyID == companyID {
			uploaded[u.DocumentDefinitionID] = true
		}
	}

	missing := make([]model.DocumentDefinition, 0)
	for _, def := range definitions {
		if !uploaded[def.ID] {
			missing = append(missing, def)
		}
	}
	return missing
}

// buildStatusCell renders one company/document cell: classification plus the
// display dates the table shows alongside it.
func buildStatusCell(upload *model.UploadRecord, def model.DocumentDefinition, asOf time.Time) map[string]interface{} {
	cell := map[string]interface{}{
		"document_id": def.ID,
		"status":      ClassifyUpload(upload, def.DocumentType, asOf),
	}
	if upload == nil {
		return cell
	}

	cell["upload_id"] = upload.ID
	cell["issue_date"] = displayDate(IssueDateOf(upload))

	if def.DocumentType == model.DocumentTypeOneOff {
		cell["expiry_date"] = string(StatusNotApplicable)
		return cell
	}

	expiry := ExpiryDateOf(upload)
	cell["expiry_date"] = displayDate(expiry)
	if expiry != nil {
		cell["days_left"] = DaysUntil(*expiry, asOf)
	}
	return cell
}

// GetDashboard assembles the full dashboard payload: per-definition summary
// counts and the per-company status matrix.
func (s *KycService) GetDashboard() (map[string]interface{}, error) {
	definitions, err := s.GetDocumentDefinitions(DefinitionFilter{})
	if err != nil {
		return nil, err
	}
	companies, err := s.GetAllCompanies()
	if err != nil {
		return nil, err
	}
	uploads, err := s.GetUploads("", "")
	if err != nil {
		return nil, err
	}

	asOf := time.Now()
	latest := latestUploadsByPair(uploads)

	summaries := AggregateCompliance(definitions, companies, uploads)
	summaryRows := make([]map[string]interface{}, 0, len(definitions))
	for _, def := range definitions {
		sum := summaries[def.ID]
		summaryRows = append(summaryRows, map[string]interface{}{
			"document_id":   def.ID,
			"document_name": def.Name,
			"document_type": def.DocumentType,
			"department":    def.Department,
			"total":         sum.Total,
			"complete":      sum.Complete,
			"pending":       sum.Pending,
		})
	}

	rows := make([]map[string]interface{}, 0, len(companies))
	for _, company := range companies {
		cells := make([]map[string]interface{}, 0, len(definitions))
		for _, def := range definitions {
			upload := latest[[2]string{def.ID, company.ID}]
			cells = append(cells, buildStatusCell(upload, def, asOf))
		}
		rows = append(rows, map[string]interface{}{
			"company_id":   company.ID,
			"company_name": company.Name,
			"cells":        cells,
		})
	}

	log.Printf("Dashboard assembled: %d definitions, %d companies, %d uploads", len(definitions), len(companies), len(uploads))
	return map[string]interface{}{
		"as_of":   asOf.Format("02/01/2006"),
		"summary": summaryRows,
		"rows":    rows,
	}, nil
}

// GetMissingDocuments returns the definitions a company still has to upload.
func (s *KycService) GetMissingDocuments(companyID string) ([]model.DocumentDefinition, error) {
	if _, err := s.GetCompany(companyID); err != nil {
		return nil, err
	}
	definitions, err := s.GetDocumentDefinitions(DefinitionFilter{})
	if err != nil {
		return nil, err
	}
	uploads, err := s.GetUploads(companyID, "")
	if err != nil {
		return nil, err
	}
	return MissingDocuments(companyID, definitions, uploads), nil
}
