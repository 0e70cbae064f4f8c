package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

// GetDashboard returns the summary counts and the per-company status matrix
func (c *KycController) GetDashboard(ctx *gin.Context) {
	dashboard, err := c.service.GetDashboard()
	if err != nil {
		log.Printf("Error assembling dashboard: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to assemble dashboard",
			"details": err.Error(),
		})
		return
	}
	ctx.JSON(http.StatusOK, dashboard)
}

// ExportComplianceReport streams the dashboard state as an xlsx workbook
func (c *KycController) ExportComplianceReport(ctx *gin.Context) {
	ctx.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	ctx.Header("Content-Disposition", "attachment; filename=compliance_report.xlsx")
	if err := c.service.ExportComplianceReport(ctx.Writer); err != nil {
		log.Printf("Error exporting compliance report: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
