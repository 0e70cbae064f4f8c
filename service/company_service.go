package services

import (
	"fmt"
	"os"

	model "github.com/devanshpratap/KycVault/models"
	log "github.com/sirupsen/logrus"
	"github.com/ttacon/libphonenumber"
)

// defaultPhoneRegion is the region used to parse contact numbers that arrive
// without a country code. Overridable via PHONE_REGION.
func defaultPhoneRegion() string {
	if r := os.Getenv("PHONE_REGION"); r != "" {
		return r
	}
	return "IN"
}

// validateContactPhone rejects numbers libphonenumber cannot parse as valid.
// Empty is fine: not every company has a WhatsApp contact.
func validateContactPhone(phone string) error {
	if phone == "" {
		return nil
	}
	parsed, err := libphonenumber.Parse(phone, defaultPhoneRegion())
	if err != nil {
		return fmt.Errorf("invalid contact phone %q: %w", phone, err)
	}
	if !libphonenumber.IsValidNumber(parsed) {
		return fmt.Errorf("contact phone %q is not a valid number", phone)
	}
	return nil
}

// CreateCompany saves a new company after validating its contact phone.
func (s *KycService) CreateCompany(company *model.Company) error {
	if err := validateContactPhone(company.ContactPhone); err != nil {
		return err
	}
	if err := s.db.Create(company).Error; err != nil {
		log.Printf("Error saving company: %v", err)
		return fmt.Errorf("failed to save company: %w", err)
	}
	log.Printf("Company %s added successfully", company.Name)
	return nil
}

// GetAllCompanies returns every company, oldest first so dashboard rows keep a
// stable order.
func (s *KycService) GetAllCompanies() ([]model.Company, error) {
	var companies []model.Company
	if err := s.db.Order("created_at").Find(&companies).Error; err != nil {
		log.Printf("Error fetching companies: %v", err)
		return nil, fmt.Errorf("failed to fetch companies: %w", err)
	}
	return companies, nil
}

// GetCompany returns one company by id.
func (s *KycService) GetCompany(id string) (*model.Company, error) {
	var company model.Company
	if err := s.db.First(&company, "id = ?", id).Error; err != nil {
		log.Printf("Error fetching company %s: %v", id, err)
		return nil, fmt.Errorf("failed to fetch company %s: %w", id, err)
	}
	return &company, nil
}

// UpdateCompany applies name/contact changes to an existing company.
func (s *KycService) UpdateCompany(id string, updates *model.Company) (*model.Company, error) {
	if err := validateContactPhone(updates.ContactPhone); err != nil {
		return nil, err
	}

	company, err := s.GetCompany(id)
	if err != nil {
		return nil, err
	}

	if err := s.db.Model(company).Updates(map[string]interface{}{
		"Name":         updates.Name,
		"ContactEmail": updates.ContactEmail,
		"ContactPhone": updates.ContactPhone,
	}).Error; err != nil {
		log.Printf("Error updating company %s: %v", id, err)
		return nil, fmt.Errorf("failed to update company %s: %w", id, err)
	}
	return company, nil
}

// DeleteCompany removes a company and its upload rows. Stored files are left
// for the bucket retention policy.
func (s *KycService) DeleteCompany(id string) error {
	if _, err := s.GetCompany(id); err != nil {
		return err
	}
	if err := s.db.Where("company_id = ?", id).Delete(&model.UploadRecord{}).Error; err != nil {
		log.Printf("Error deleting uploads for company %s: %v", id, err)
		return fmt.Errorf("failed to delete uploads for company %s: %w", id, err)
	}
	if err := s.db.Delete(&model.Company{}, "id = ?", id).Error; err != nil {
		log.Printf("Error deleting company %s: %v", id, err)
		return fmt.Errorf("failed to delete company %s: %w", id, err)
	}
	log.Printf("Company %s deleted", id)
	return nil
}
