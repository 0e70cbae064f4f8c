package main

import (
	"net/http"

	controller "github.com/devanshpratap/KycVault/controller"
	"github.com/devanshpratap/KycVault/initializers"
	middleware "github.com/devanshpratap/KycVault/middleware"
	service "github.com/devanshpratap/KycVault/service"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

func init() {
	initializers.InitLogger()
	initializers.LoadEnv()
	if err := initializers.ConnectDB(); err != nil {
		log.Fatalf("[CRITICAL] Failed to initialize database connection: %s", err)
	}
	if err := initializers.Migrate(); err != nil {
		log.Fatalf("[CRITICAL] Failed to run database migrations: %s", err)
	}
}

func main() {
	kycService, err := service.NewKycService(initializers.DB)
	if err != nil {
		log.Fatalf("Failed to initialize KYC service: %s", err)
	}

	kycController := controller.NewKycController(kycService)

	router := gin.Default()
	router.Use(middleware.CORSMiddleware())

	// Global rate limiter for most routes
	router.Use(middleware.GlobalRateLimiter.Limit())

	// Healthcheck endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})

	// Company registry
	router.POST("/companies", kycController.CreateCompany)
	router.GET("/companies", kycController.GetAllCompanies)
	router.GET("/companies/:id", kycController.GetCompany)
	router.PUT("/companies/:id", kycController.UpdateCompany)
	router.DELETE("/companies/:id", kycController.DeleteCompany)
	router.GET("/companies/:id/missing", kycController.GetMissingDocuments)

	// Document catalog
	router.POST("/documents", kycController.AddDocumentDefinition)
	router.GET("/documents", kycController.GetDocumentDefinitions)
	router.PUT("/documents/:id", kycController.UpdateDocumentDefinition)
	router.DELETE("/documents/:id", kycController.DeleteDocumentDefinition)

	// Upload lifecycle; upload itself is rate limited harder
	router.POST("/upload",
		middleware.StrictRateLimiter.Limit(),
		kycController.UploadDocument)
	router.GET("/uploads", kycController.GetUploads)
	router.PATCH("/uploads/:id", kycController.UpdateUploadDetails)
	router.DELETE("/uploads/:id", kycController.DeleteUpload)
	router.GET("/uploads/:id/url", kycController.GetSignedURL)

	// Dashboard and search
	router.GET("/dashboard", kycController.GetDashboard)
	router.GET("/dashboard/export", kycController.ExportComplianceReport)
	router.GET("/search", kycController.SearchUploads)

	// Outbound dispatch with strict rate limiting
	router.POST("/dispatch/email",
		middleware.StrictRateLimiter.Limit(),
		kycController.DispatchEmail)
	router.POST("/dispatch/whatsapp",
		middleware.StrictRateLimiter.Limit(),
		kycController.DispatchWhatsApp)

	router.Run(":8080")
}
