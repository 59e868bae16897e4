package handlers

import (
	"net/http"

	"github.com/epeers/secmaster/internal/middleware"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// NewRouter wires every route. Admin routes sit behind the admin token guard.
func NewRouter(reporting *ReportingHandler, admin *AdminHandler, adminToken string) *gin.Engine {
	router := gin.Default()

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	router.GET("/securities", reporting.ListSecurities)
	router.GET("/securities/:secid", reporting.GetSecurity)
	router.GET("/securities/:secid/prices", reporting.GetPrices)
	router.GET("/exchanges", reporting.ListExchanges)
	router.GET("/exchanges/:excid", reporting.GetExchange)
	router.GET("/prices-log/:secid", reporting.GetCoverage)
	router.GET("/prices-log/:secid/gaps", reporting.GetGaps)
	router.GET("/update-log", reporting.ListUpdateLog)

	adminGroup := router.Group("/admin", middleware.RequireAdminToken(adminToken))
	adminGroup.PUT("/securities", admin.UpsertSecurities)
	adminGroup.DELETE("/securities/:secid", admin.DeleteSecurity)
	adminGroup.PUT("/exchanges", admin.UpsertExchanges)
	adminGroup.POST("/prices", admin.IngestPrices)
	adminGroup.POST("/prices/csv", admin.UploadPricesCSV)
	adminGroup.POST("/prices-log/rebuild", admin.RebuildPricesLog)
	adminGroup.POST("/update-log", admin.RecordRun)

	return router
}
