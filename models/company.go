package models

import "time"

// Company is a portfolio company whose KYC documents are tracked.
type Company struct {
	// ID is a unique identifier for the company, stored as a UUID in the database.
	ID string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`

	// Name is the company's registered name, required.
	Name string `gorm:"not null" json:"name" binding:"required"`

	// ContactEmail is the address documents are dispatched to by default.
	ContactEmail string `json:"contact_email"`

	// ContactPhone is the WhatsApp number documents are dispatched to by default.
	ContactPhone string `json:"contact_phone"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
