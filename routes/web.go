package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// SetupWebRoutes thiết lập web routes
func SetupWebRoutes(router *gin.Engine) {
	router.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "Chinese Address Parser Service",
			"docs":    "/docs",
		})
	})

	router.GET("/docs", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"api": "Address Parser API v1",
			"endpoints": map[string]string{
				"parse":       "POST /v1/addresses/parse",
				"batch":       "POST /v1/addresses/jobs",
				"job_status":  "GET /v1/addresses/jobs/:jobID/status",
				"job_results": "GET /v1/addresses/jobs/:jobID/results?format=ndjson&gzip=1",
				"job_export":  "GET /v1/addresses/jobs/:jobID/export?format=csv|xlsx",
				"seed":        "POST /v1/admin/seed?dry_run=true",
				"invalidate":  "POST /v1/admin/cache/invalidate",
				"stats":       "GET /v1/admin/stats",
				"health":      "GET /health",
				"metrics":     "GET /metrics",
			},
		})
	})
}
