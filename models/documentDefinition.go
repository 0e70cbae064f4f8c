package models

import "time"

// Document type values for DocumentDefinition.DocumentType.
const (
	// DocumentTypeOneOff marks a document with no expiry concept; once an
	// upload exists it stays valid indefinitely.
	DocumentTypeOneOff = "one_off"

	// DocumentTypeRenewal marks a document with an issue/expiry cycle that
	// must be re-uploaded periodically.
	DocumentTypeRenewal = "renewal"
)

// DocumentDefinition is a catalog entry describing one required KYC document
// type. Every company is expected to keep one current upload per definition.
type DocumentDefinition struct {
	// ID is a unique identifier for the definition, stored as a UUID in the database.
	ID string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`

	// Name is the document's display name, required.
	Name string `gorm:"not null" json:"name" binding:"required"`

	// DocumentType is either DocumentTypeOneOff or DocumentTypeRenewal and
	// controls whether expiry classification applies.
	DocumentType string `gorm:"not null;default:renewal" json:"document_type"`

	// Department, Category and Subcategory are free-form grouping labels used
	// by the dashboard filters.
	Department  string `json:"department"`
	Category    string `json:"category"`
	Subcategory string `json:"subcategory"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
