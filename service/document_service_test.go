package services

import (
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	model "github.com/devanshpratap/KycVault/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestKycService wires the service onto a sqlmock-backed gorm handle. S3
// and Elasticsearch stay nil; these tests cover the query layer only.
func newTestKycService(t *testing.T) (*KycService, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	gdb, err := gorm.Open(postgres.New(postgres.Config{
		Conn:                 db,
		PreferSimpleProtocol: true,
	}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	return &KycService{db: gdb}, mock
}

func TestGetDocumentDefinitionsFilter(t *testing.T) {
	s, mock := newTestKycService(t)

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "name", "document_type", "department", "category", "subcategory", "created_at", "updated_at"}).
		AddRow("doc-gst", "GST Certificate", "renewal", "finance", "", "", now, now)

	mock.ExpectQuery(`SELECT \* FROM "document_definitions" WHERE department = \$1`).
		WithArgs("finance").
		WillReturnRows(rows)

	definitions, err := s.GetDocumentDefinitions(DefinitionFilter{Department: "finance"})
	require.NoError(t, err)
	require.Len(t, definitions, 1)
	assert.Equal(t, "GST Certificate", definitions[0].Name)
	assert.Equal(t, "renewal", definitions[0].DocumentType)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetDocumentDefinitionsNoFilter(t *testing.T) {
	s, mock := newTestKycService(t)

	rows := sqlmock.NewRows([]string{"id", "name", "document_type"}).
		AddRow("doc-a", "A", "renewal").
		AddRow("doc-b", "B", "one_off")

	mock.ExpectQuery(`SELECT \* FROM "document_definitions" ORDER BY created_at`).
		WillReturnRows(rows)

	definitions, err := s.GetDocumentDefinitions(DefinitionFilter{})
	require.NoError(t, err)
	assert.Len(t, definitions, 2)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetUploadsFiltersByCompany(t *testing.T) {
	s, mock := newTestKycService(t)

	rows := sqlmock.NewRows([]string{"id", "company_id", "document_definition_id", "file_path", "expiry_date"}).
		AddRow("u1", "co-1", "doc-gst", "co-1/doc-gst/f.pdf", "31/12/2030")

	mock.ExpectQuery(`SELECT \* FROM "upload_records" WHERE company_id = \$1`).
		WithArgs("co-1").
		WillReturnRows(rows)

	uploads, err := s.GetUploads("co-1", "")
	require.NoError(t, err)
	require.Len(t, uploads, 1)
	assert.Equal(t, "co-1/doc-gst/f.pdf", uploads[0].FilePath)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetCompanyNotFound(t *testing.T) {
	s, mock := newTestKycService(t)

	mock.ExpectQuery(`SELECT \* FROM "companies" WHERE id = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}))

	_, err := s.GetCompany("co-404")
	require.Error(t, err)
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetAllCompaniesQueryError(t *testing.T) {
	s, mock := newTestKycService(t)

	mock.ExpectQuery(`SELECT \* FROM "companies"`).
		WillReturnError(errors.New("connection reset"))

	_, err := s.GetAllCompanies()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to fetch companies")

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAddDocumentDefinitionRejectsUnknownType(t *testing.T) {
	s, _ := newTestKycService(t)

	err := s.AddDocumentDefinition(&model.DocumentDefinition{
		Name:         "Trade License",
		DocumentType: "perpetual",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown document type")
}
