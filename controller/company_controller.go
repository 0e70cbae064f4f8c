package controller

import (
	"net/http"

	"github.com/devanshpratap/KycVault/models"
	service "github.com/devanshpratap/KycVault/service"
	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

// KycController manages HTTP requests for the compliance dashboard backend.
type KycController struct {
	service *service.KycService
}

// NewKycController initializes the controller with the service
func NewKycController(service *service.KycService) *KycController {
	return &KycController{service}
}

// CreateCompany adds a new portfolio company
func (c *KycController) CreateCompany(ctx *gin.Context) {
	var company models.Company
	if err := ctx.ShouldBindJSON(&company); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := c.service.CreateCompany(&company); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	ctx.JSON(http.StatusCreated, company)
}

// GetAllCompanies lists every company
func (c *KycController) GetAllCompanies(ctx *gin.Context) {
	companies, err := c.service.GetAllCompanies()
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{
		"companies": companies,
		"total":     len(companies),
	})
}

// GetCompany fetches one company by id
func (c *KycController) GetCompany(ctx *gin.Context) {
	company, err := c.service.GetCompany(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, company)
}

// UpdateCompany applies contact/name changes
func (c *KycController) UpdateCompany(ctx *gin.Context) {
	var updates models.Company
	if err := ctx.ShouldBindJSON(&updates); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	company, err := c.service.UpdateCompany(ctx.Param("id"), &updates)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, company)
}

// DeleteCompany removes a company and its uploads
func (c *KycController) DeleteCompany(ctx *gin.Context) {
	if err := c.service.DeleteCompany(ctx.Param("id")); err != nil {
		log.Printf("Error deleting company: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"message": "Company deleted successfully"})
}

// GetMissingDocuments lists the definitions a company has not uploaded yet
func (c *KycController) GetMissingDocuments(ctx *gin.Context) {
	missing, err := c.service.GetMissingDocuments(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{
		"missing": missing,
		"total":   len(missing),
	})
}
