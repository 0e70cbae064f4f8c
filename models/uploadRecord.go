package models

import (
	"time"

	"gorm.io/datatypes"
)

// UploadRecord is one uploaded file instance for one company/document pair.
type UploadRecord struct {
	// ID is a unique identifier for the upload, stored as a UUID in the database.
	ID string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`

	// CompanyID references the owning company.
	CompanyID string `gorm:"type:uuid;not null" json:"company_id"`

	// DocumentDefinitionID references the catalog entry this upload satisfies.
	DocumentDefinitionID string `gorm:"type:uuid;not null" json:"document_definition_id"`

	// FilePath is the object key in the storage bucket.
	FilePath string `gorm:"not null" json:"file_path"`

	// FileURL is the public URL the file was stored at. Download links are
	// issued as short-lived signed URLs instead of this.
	FileURL string `json:"file_url"`

	// IssueDate and ExpiryDate are kept as raw strings exactly as they arrived
	// (ISO or DD/MM/YYYY); the status layer is the only interpreter.
	IssueDate  string `json:"issue_date"`
	ExpiryDate string `json:"expiry_date"`

	// ExtractedDetails is a free-form key/value blob produced by the upstream
	// extraction pipeline. Keys are uncontrolled; issue/expiry dates may appear
	// under synonyms such as "W.I.F" or "Valid Until". Values extracted here
	// take precedence over the IssueDate/ExpiryDate columns.
	ExtractedDetails datatypes.JSON `json:"extracted_details"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
