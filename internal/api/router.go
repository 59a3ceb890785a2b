// Package api wires the gin router: middleware, route groups, and the
// Prometheus /metrics endpoint.
package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/brianmickel/adequacy/internal/api/handlers"
	"github.com/brianmickel/adequacy/internal/api/middleware"
	"github.com/brianmickel/adequacy/internal/resultcache"
)

// NewRouter builds the engine's HTTP API. cache may be nil, in which case
// simulation results are never memoized. systemsDir is the directory built
// systems are persisted under, one subdirectory per system id.
func NewRouter(cache *resultcache.Cache, systemsDir string) *gin.Engine {
	router := gin.Default()
	router.Use(middleware.CORS())
	router.Use(middleware.ErrorHandler())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	systems := handlers.NewSystemStore()
	simulations := handlers.NewSimulationStore()

	systemHandler := handlers.NewSystemHandler(systems, systemsDir)
	simulationHandler := handlers.NewSimulationHandler(systems, simulations, cache)
	elccHandler := handlers.NewELCCHandler(systems)

	v1 := router.Group("/api/v1")
	{
		v1.POST("/systems", systemHandler.Create)
		v1.GET("/systems/:id", systemHandler.Get)

		v1.POST("/simulations", simulationHandler.Run)
		v1.GET("/simulations/:id/metrics", simulationHandler.Metric)

		v1.POST("/elcc", elccHandler.Evaluate)
	}

	return router
}
