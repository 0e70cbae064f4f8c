package controller

import (
	"net/http"
	"time"

	"github.com/devanshpratap/KycVault/models"
	service "github.com/devanshpratap/KycVault/service"
	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

// AddDocumentDefinition creates a catalog entry
func (c *KycController) AddDocumentDefinition(ctx *gin.Context) {
	var def models.DocumentDefinition
	if err := ctx.ShouldBindJSON(&def); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := c.service.AddDocumentDefinition(&def); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	ctx.JSON(http.StatusCreated, def)
}

// GetDocumentDefinitions lists catalog entries, with optional filters
func (c *KycController) GetDocumentDefinitions(ctx *gin.Context) {
	filter := service.DefinitionFilter{
		Department:   ctx.Query("department"),
		Category:     ctx.Query("category"),
		Subcategory:  ctx.Query("subcategory"),
		DocumentType: ctx.Query("type"),
	}
	definitions, err := c.service.GetDocumentDefinitions(filter)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{
		"documents": definitions,
		"total":     len(definitions),
	})
}

// UpdateDocumentDefinition edits a catalog entry
func (c *KycController) UpdateDocumentDefinition(ctx *gin.Context) {
	var updates models.DocumentDefinition
	if err := ctx.ShouldBindJSON(&updates); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	def, err := c.service.UpdateDocumentDefinition(ctx.Param("id"), &updates)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, def)
}

// DeleteDocumentDefinition removes a catalog entry and its uploads
func (c *KycController) DeleteDocumentDefinition(ctx *gin.Context) {
	if err := c.service.DeleteDocumentDefinition(ctx.Param("id")); err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"message": "Document definition deleted successfully"})
}

// UploadDocument handles the multipart file upload for one company/document pair
func (c *KycController) UploadDocument(ctx *gin.Context) {
	file, header, err := ctx.Request.FormFile("file")
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Failed to get file from request"})
		return
	}
	defer file.Close()

	companyID := ctx.PostForm("company_id")
	documentID := ctx.PostForm("document_id")
	if companyID == "" || documentID == "" {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "company_id and document_id are required"})
		return
	}

	upload, err := c.service.UploadDocument(file, header,
		companyID, documentID,
		ctx.PostForm("issue_date"), ctx.PostForm("expiry_date"))
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{
		"message": "Document uploaded successfully",
		"upload":  upload,
	})
}

// GetUploads lists upload records, filterable by company and document
func (c *KycController) GetUploads(ctx *gin.Context) {
	uploads, err := c.service.GetUploads(ctx.Query("company_id"), ctx.Query("document_id"))
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{
		"uploads": uploads,
		"total":   len(uploads),
	})
}

// UpdateUploadDetails patches corrected dates or extraction details
func (c *KycController) UpdateUploadDetails(ctx *gin.Context) {
	var patch service.UploadDetailsUpdate
	if err := ctx.ShouldBindJSON(&patch); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	upload, err := c.service.UpdateUploadDetails(ctx.Param("id"), patch)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, upload)
}

// DeleteUpload removes an upload record and its stored file
func (c *KycController) DeleteUpload(ctx *gin.Context) {
	if err := c.service.DeleteUpload(ctx.Param("id")); err != nil {
		log.Printf("Error deleting upload: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"message": "Upload deleted successfully"})
}

// GetSignedURL issues a short-lived download link for an upload
func (c *KycController) GetSignedURL(ctx *gin.Context) {
	expiry := 15 * time.Minute
	if raw := ctx.Query("expiry"); raw != "" {
		parsed, err := time.ParseDuration(raw)
		if err != nil || parsed <= 0 || parsed > 7*24*time.Hour {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid expiry duration"})
			return
		}
		expiry = parsed
	}

	url, err := c.service.GetSignedURL(ctx.Param("id"), expiry)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{
		"url":        url,
		"expires_in": expiry.String(),
	})
}

// SearchUploads proxies the dashboard search box to Elasticsearch
func (c *KycController) SearchUploads(ctx *gin.Context) {
	query := ctx.Query("q")
	if query == "" {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Query parameter 'q' is required"})
		return
	}

	results, err := c.service.SearchUploads(query)
	if err != nil {
		ctx.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{
		"message": "Search completed successfully",
		"results": results,
	})
}
