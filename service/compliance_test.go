package services

import (
	"testing"
	"time"

	model "github.com/devanshpratap/KycVault/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

func testCatalog() ([]model.DocumentDefinition, []model.Company) {
	definitions := []model.DocumentDefinition{
		{ID: "doc-gst", Name: "GST Certificate", DocumentType: model.DocumentTypeRenewal},
		{ID: "doc-pan", Name: "PAN Card", DocumentType: model.DocumentTypeOneOff},
		{ID: "doc-trade", Name: "Trade License", DocumentType: model.DocumentTypeRenewal},
	}
	companies := []model.Company{
		{ID: "co-1", Name: "Acme Exports"},
		{ID: "co-2", Name: "Bharat Traders"},
		{ID: "co-3", Name: "Chennai Metals"},
	}
	return definitions, companies
}

func TestAggregateCompliance(t *testing.T) {
	definitions, companies := testCatalog()
	uploads := []model.UploadRecord{
		{ID: "u1", CompanyID: "co-1", DocumentDefinitionID: "doc-gst"},
		{ID: "u2", CompanyID: "co-2", DocumentDefinitionID: "doc-gst"},
		// Duplicate pair: counts once.
		{ID: "u3", CompanyID: "co-2", DocumentDefinitionID: "doc-gst"},
		{ID: "u4", CompanyID: "co-1", DocumentDefinitionID: "doc-pan"},
		// Upload for a company outside the portfolio: ignored.
		{ID: "u5", CompanyID: "co-unknown", DocumentDefinitionID: "doc-trade"},
	}

	summaries := AggregateCompliance(definitions, companies, uploads)

	assert.Equal(t, ComplianceSummary{Total: 3, Complete: 2, Pending: 1}, summaries["doc-gst"])
	assert.Equal(t, ComplianceSummary{Total: 3, Complete: 1, Pending: 2}, summaries["doc-pan"])
	assert.Equal(t, ComplianceSummary{Total: 3, Complete: 0, Pending: 3}, summaries["doc-trade"])

	for id, sum := range summaries {
		assert.Equal(t, sum.Total, sum.Complete+sum.Pending, "counts must add up for %s", id)
		assert.Equal(t, len(companies), sum.Total)
	}
}

func TestAggregateComplianceCountsPresenceNotValidity(t *testing.T) {
	// An expired upload still counts as complete in the summary row; only the
	// status cell reflects the expiry.
	definitions := []model.DocumentDefinition{
		{ID: "doc-gst", DocumentType: model.DocumentTypeRenewal},
	}
	companies := []model.Company{{ID: "co-1"}}
	uploads := []model.UploadRecord{
		{ID: "u1", CompanyID: "co-1", DocumentDefinitionID: "doc-gst", ExpiryDate: "2000-01-01"},
	}

	summaries := AggregateCompliance(definitions, companies, uploads)
	assert.Equal(t, ComplianceSummary{Total: 1, Complete: 1, Pending: 0}, summaries["doc-gst"])

	status := ClassifyUpload(&uploads[0], model.DocumentTypeRenewal, date(2024, time.June, 1))
	assert.Equal(t, StatusExpired, status)
}

func TestAggregateComplianceEmptyInputs(t *testing.T) {
	summaries := AggregateCompliance(nil, nil, nil)
	assert.Empty(t, summaries)

	definitions, _ := testCatalog()
	summaries = AggregateCompliance(definitions, nil, nil)
	for _, sum := range summaries {
		assert.Equal(t, ComplianceSummary{}, sum)
	}
}

func TestMissingDocuments(t *testing.T) {
	definitions, _ := testCatalog()
	uploads := []model.UploadRecord{
		{ID: "u1", CompanyID: "co-7", DocumentDefinitionID: "doc-pan"},
		{ID: "u2", CompanyID: "co-other", DocumentDefinitionID: "doc-gst"},
	}

	missing := MissingDocuments("co-7", definitions, uploads)

	// Order follows the definitions input.
	require.Len(t, missing, 2)
	assert.Equal(t, "doc-gst", missing[0].ID)
	assert.Equal(t, "doc-trade", missing[1].ID)

	// A renewal definition with no upload is Pending on the dashboard and
	// present in the missing list.
	assert.Equal(t, StatusPending, ClassifyUpload(nil, model.DocumentTypeRenewal, time.Now()))
}

func TestMissingDocumentsAllUploaded(t *testing.T) {
	definitions, _ := testCatalog()
	uploads := []model.UploadRecord{
		{CompanyID: "co-1", DocumentDefinitionID: "doc-gst"},
		{CompanyID: "co-1", DocumentDefinitionID: "doc-pan"},
		{CompanyID: "co-1", DocumentDefinitionID: "doc-trade"},
	}
	assert.Empty(t, MissingDocuments("co-1", definitions, uploads))
}

func TestLatestUploadsByPair(t *testing.T) {
	older := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)
	newer := older.AddDate(0, 3, 0)
	uploads := []model.UploadRecord{
		{ID: "u-old", CompanyID: "co-1", DocumentDefinitionID: "doc-gst", CreatedAt: older},
		{ID: "u-new", CompanyID: "co-1", DocumentDefinitionID: "doc-gst", CreatedAt: newer},
		{ID: "u-other", CompanyID: "co-2", DocumentDefinitionID: "doc-gst", CreatedAt: older},
	}

	latest := latestUploadsByPair(uploads)
	require.Len(t, latest, 2)
	assert.Equal(t, "u-new", latest[[2]string{"doc-gst", "co-1"}].ID)
	assert.Equal(t, "u-other", latest[[2]string{"doc-gst", "co-2"}].ID)
}

func TestBuildStatusCell(t *testing.T) {
	asOf := date(2024, time.June, 1)
	renewal := model.DocumentDefinition{ID: "doc-gst", DocumentType: model.DocumentTypeRenewal}
	oneOff := model.DocumentDefinition{ID: "doc-pan", DocumentType: model.DocumentTypeOneOff}

	t.Run("missing upload", func(t *testing.T) {
		cell := buildStatusCell(nil, renewal, asOf)
		assert.Equal(t, StatusPending, cell["status"])
		assert.NotContains(t, cell, "expiry_date")
	})

	t.Run("one-off shows N/A expiry", func(t *testing.T) {
		upload := &model.UploadRecord{ID: "u1", ExpiryDate: "2000-01-01"}
		cell := buildStatusCell(upload, oneOff, asOf)
		assert.Equal(t, StatusValid, cell["status"])
		assert.Equal(t, "N/A", cell["expiry_date"])
	})

	t.Run("renewal shows resolved dates and days left", func(t *testing.T) {
		upload := &model.UploadRecord{
			ID:               "u1",
			IssueDate:        "01/01/2024",
			ExtractedDetails: datatypes.JSON(`{"W.I.T": "2024-06-15"}`),
		}
		cell := buildStatusCell(upload, renewal, asOf)
		assert.Equal(t, StatusExpiringSoon, cell["status"])
		assert.Equal(t, "01/01/2024", cell["issue_date"])
		assert.Equal(t, "15/06/2024", cell["expiry_date"])
		assert.Equal(t, 14, cell["days_left"])
	})

	t.Run("renewal with unresolvable expiry renders question mark", func(t *testing.T) {
		upload := &model.UploadRecord{ID: "u1"}
		cell := buildStatusCell(upload, renewal, asOf)
		assert.Equal(t, StatusUnknown, cell["status"])
		assert.Equal(t, "?", cell["expiry_date"])
		assert.NotContains(t, cell, "days_left")
	})
}
