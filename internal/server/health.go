package server

import (
	"database/sql"
	"net/http"

	"github.com/Kosench/go-shortlink/internal/cache"
	"github.com/Kosench/go-shortlink/internal/database"
	"github.com/gin-gonic/gin"
)

const (
	ServiceName    = "shortlink"
	ServiceVersion = "1.0.0"
)

func healthHandler(db *sql.DB, c cache.Cache, cacheDriver string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		services := gin.H{}
		status := "healthy"

		if err := database.HealthCheck(db); err != nil {
			services["database"] = "unhealthy"
			status = "degraded"
		} else {
			services["database"] = "healthy"
		}

		if !cacheEnabled(cacheDriver) {
			services["cache"] = "disabled"
		} else if err := c.HealthCheck(ctx.Request.Context()); err != nil {
			services["cache"] = "unhealthy"
			status = "degraded"
		} else {
			services["cache"] = "healthy"
		}

		statusCode := http.StatusOK
		if status == "degraded" {
			statusCode = http.StatusServiceUnavailable
		}

		ctx.JSON(statusCode, gin.H{
			"status":   status,
			"services": services,
		})
	}
}

func infoHandler(db *sql.DB, dialect database.Dialect, cacheDriver string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		version, _ := database.GetVersion(db, dialect)
		info := gin.H{
			"service":          ServiceName,
			"version":          ServiceVersion,
			"database_driver":  string(dialect),
			"database_version": version,
			"cache_enabled":    cacheEnabled(cacheDriver),
		}

		if cacheEnabled(cacheDriver) {
			info["cache_driver"] = cacheDriver
		}

		ctx.JSON(http.StatusOK, info)
	}
}

func cacheEnabled(driver string) bool {
	return driver != "" && driver != cache.DriverNone
}
