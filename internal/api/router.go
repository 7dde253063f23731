package api

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"

	"ecosmart-backend/config"
	"ecosmart-backend/internal/mw"
	"ecosmart-backend/internal/service"
)

// NewRouter creates and configures a new Gin router.
func NewRouter(svc *service.Service, cfg *config.ServerConfig, logger *log.Logger) *gin.Engine {
	r := gin.Default()
	r.Use(mw.CORS())

	handler := NewHandler(svc, logger)

	rateLimiter := mw.RateLimiter(rate.Limit(cfg.RateLimitPerSec), cfg.RateLimitBurst)

	ttl := time.Duration(cfg.CacheTTLSeconds) * time.Second
	cacheStore := cache.New(ttl, 2*ttl)
	caching := mw.Cache(cacheStore, ttl)

	api := r.Group("/api")
	api.Use(rateLimiter)
	{
		api.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"status": "ok"})
		})

		envs := api.Group("/environments")
		{
			envs.POST("", handler.CreateEnvironment)
			envs.GET("", handler.ListEnvironments)
			envs.GET("/count", handler.CountEnvironments)
			envs.GET("/search/:mode", handler.SearchEnvironments)
			envs.GET("/by-device/:deviceId", handler.EnvironmentsByDevice)
			envs.GET("/filter/device/:field", handler.FilterEnvironmentsByDeviceField)
			envs.GET("/with-more-devices-than", handler.EnvironmentsWithMoreDevicesThan)
			envs.GET("/without-devices", handler.EnvironmentsWithoutDevices)
			envs.GET("/without-users", handler.EnvironmentsWithoutUsers)
			envs.GET("/stats/device-counts", caching, handler.DeviceCountsByEnvironment)

			envs.GET("/:id", handler.GetEnvironment)
			envs.PUT("/:id", handler.UpdateEnvironment)
			envs.DELETE("/:id", handler.DeleteEnvironment)
			envs.GET("/:id/exists", handler.EnvironmentExists)
			envs.GET("/:id/complete", handler.EnvironmentComplete)
			envs.GET("/:id/summary", handler.EnvironmentSummary)

			envs.GET("/:id/devices", handler.EnvironmentDevices)
			envs.GET("/:id/devices/count", handler.CountEnvironmentDevices)
			envs.POST("/:id/devices/:deviceId", handler.AssignDevice)
			envs.DELETE("/:id/devices/:deviceId", handler.UnassignDevice)

			envs.GET("/:id/users", handler.EnvironmentUsers)
			envs.GET("/:id/users/count", handler.CountEnvironmentUsers)
			envs.POST("/:id/users/:userId", handler.LinkUser)
			envs.DELETE("/:id/users/:userId", handler.UnlinkUser)

			envs.GET("/:id/reports", handler.EnvironmentReports)
			envs.GET("/:id/reports/count", handler.CountEnvironmentReports)
		}

		devs := api.Group("/devices")
		{
			devs.POST("", handler.CreateDevice)
			devs.POST("/presets", handler.CreateDevicePreset)
			devs.GET("", handler.ListDevices)
			devs.GET("/count", handler.CountDevices)
			devs.GET("/count/:field", handler.CountDevicesBy)
			devs.GET("/search/:mode", handler.SearchDevices)

			devs.GET("/:id", handler.GetDevice)
			devs.PUT("/:id", handler.UpdateDevice)
			devs.DELETE("/:id", handler.DeleteDevice)
			devs.GET("/:id/exists", handler.DeviceExists)
		}

		users := api.Group("/users")
		{
			users.POST("", handler.CreateUser)
			users.POST("/login", handler.Login)
			users.POST("/email", handler.UserByEmail)
			users.GET("", handler.ListUsers)
			users.GET("/count", handler.CountUsers)
			users.GET("/search/:mode", handler.SearchUsers)

			users.GET("/:id", handler.GetUser)
			users.PUT("/:id", handler.UpdateUser)
			users.DELETE("/:id", handler.DeleteUser)
			users.GET("/:id/exists", handler.UserExists)

			users.GET("/:id/environments", handler.UserEnvironments)
			users.GET("/:id/environments/count", handler.CountUserEnvironments)
			users.GET("/:id/reports", handler.UserReports)
			users.GET("/:id/reports/count", handler.CountUserReports)
		}

		reports := api.Group("/reports")
		{
			reports.POST("", handler.CreateReport)
			reports.GET("", handler.ListReports)
			reports.GET("/count", handler.CountReports)

			reports.GET("/by-environment/:environmentId/users/:userId", handler.ReportsByEnvironmentAndUser)
			reports.GET("/by-environment/:environmentId/users/:userId/exists", handler.ReportExistsByEnvironmentAndUser)
			reports.DELETE("/by-environment/:environmentId", handler.DeleteReportsByEnvironment)
			reports.DELETE("/by-user/:userId", handler.DeleteReportsByUser)

			reports.GET("/:id", handler.GetReport)
			reports.DELETE("/:id", handler.DeleteReport)
			reports.GET("/:id/exists", handler.ReportExists)
		}
	}

	return r
}
