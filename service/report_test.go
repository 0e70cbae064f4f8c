package services

import (
	"testing"
	"time"

	model "github.com/devanshpratap/KycVault/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildComplianceWorkbook(t *testing.T) {
	definitions, companies := testCatalog()
	uploads := []model.UploadRecord{
		{ID: "u1", CompanyID: "co-1", DocumentDefinitionID: "doc-gst", ExpiryDate: "31/12/2030"},
		{ID: "u2", CompanyID: "co-2", DocumentDefinitionID: "doc-pan"},
	}
	asOf := date(2024, time.June, 1)

	f, err := buildComplianceWorkbook(definitions, companies, uploads, asOf)
	require.NoError(t, err)
	defer f.Close()

	// Summary sheet: header plus one row per definition.
	header, err := f.GetCellValue("Summary", "A1")
	require.NoError(t, err)
	assert.Equal(t, "Document", header)

	name, _ := f.GetCellValue("Summary", "A2")
	assert.Equal(t, "GST Certificate", name)
	total, _ := f.GetCellValue("Summary", "D2")
	assert.Equal(t, "3", total)
	complete, _ := f.GetCellValue("Summary", "E2")
	assert.Equal(t, "1", complete)
	pending, _ := f.GetCellValue("Summary", "F2")
	assert.Equal(t, "2", pending)

	// Matrix sheet: company rows against definition columns.
	company, _ := f.GetCellValue("Status Matrix", "A2")
	assert.Equal(t, "Acme Exports", company)

	gstForAcme, _ := f.GetCellValue("Status Matrix", "B2")
	assert.Equal(t, string(StatusValid), gstForAcme)

	panForBharat, _ := f.GetCellValue("Status Matrix", "C3")
	assert.Equal(t, string(StatusValid), panForBharat)

	tradeForChennai, _ := f.GetCellValue("Status Matrix", "D4")
	assert.Equal(t, string(StatusPending), tradeForChennai)
}
