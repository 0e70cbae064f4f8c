package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

type dispatchRequest struct {
	UploadID string `json:"upload_id" binding:"required"`
	// To overrides the company's stored contact; for email an address, for
	// WhatsApp a phone number.
	To string `json:"to"`
}

// DispatchEmail emails an upload's signed download link
func (c *KycController) DispatchEmail(ctx *gin.Context) {
	var req dispatchRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := c.service.DispatchEmail(req.UploadID, req.To); err != nil {
		log.Printf("[DispatchEmail] Error: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"message": "Document dispatched via email"})
}

// DispatchWhatsApp sends an upload's signed download link over WhatsApp
func (c *KycController) DispatchWhatsApp(ctx *gin.Context) {
	var req dispatchRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := c.service.DispatchWhatsApp(req.UploadID, req.To); err != nil {
		log.Printf("[DispatchWhatsApp] Error: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"message": "Document dispatched via WhatsApp"})
}
