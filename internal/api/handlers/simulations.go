package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/brianmickel/adequacy/internal/api/models"
	"github.com/brianmickel/adequacy/internal/engineerr"
	"github.com/brianmickel/adequacy/internal/metrics"
	"github.com/brianmickel/adequacy/internal/resultcache"
	"github.com/brianmickel/adequacy/internal/simulator"
	"github.com/brianmickel/adequacy/internal/telemetry"
)

// SimulationHandler serves the /api/v1/simulations routes.
type SimulationHandler struct {
	systems     *SystemStore
	simulations *SimulationStore
	cache       *resultcache.Cache
}

func NewSimulationHandler(systems *SystemStore, simulations *SimulationStore, cache *resultcache.Cache) *SimulationHandler {
	return &SimulationHandler{systems: systems, simulations: simulations, cache: cache}
}

// Run handles POST /api/v1/simulations.
func (h *SimulationHandler) Run(c *gin.Context) {
	var req models.RunSimulationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error: models.ErrorDetail{Code: "INVALID_REQUEST", Message: err.Error()},
		})
		return
	}

	sys, ok := h.systems.get(req.SystemID)
	if !ok {
		c.JSON(http.StatusNotFound, models.ErrorResponse{
			Error: models.ErrorDetail{Code: "UNKNOWN_SYSTEM", Message: "no system with that id"},
		})
		return
	}

	cfg := simulator.Config{StartHour: req.StartHour, EndHour: req.EndHour, TrialSize: req.TrialSize, Seed: req.Seed}

	cacheKey := ""
	if h.cache != nil {
		cacheKey = resultcache.Key(sys, cfg)
		if cached, hit := h.cache.Get(cacheKey); hit {
			c.JSON(http.StatusOK, models.RunSimulationResponse{
				SimulationID:    cacheKey,
				MeanNetCapacity: cached.MeanNetCapacity,
				MinNetCapacity:  cached.MinNetCapacity,
				MaxNetCapacity:  cached.MaxNetCapacity,
				Cached:          true,
			})
			return
		}
	}

	sim, err := simulator.New(cfg)
	if err != nil {
		writeSimError(c, err)
		return
	}
	sim.AssignEnergySystem(sys)

	started := time.Now()
	err = sim.Run()
	telemetry.SimulationDurationSeconds.WithLabelValues(telemetry.TrialSizeBucket(cfg.TrialSize)).Observe(time.Since(started).Seconds())
	if err != nil {
		telemetry.SimulationsRunTotal.WithLabelValues("error").Inc()
		writeSimError(c, err)
		return
	}
	telemetry.SimulationsRunTotal.WithLabelValues("ok").Inc()
	telemetry.TrialsSampledTotal.Add(float64(cfg.TrialSize))

	ncm, err := sim.NetHourlyCapacityMatrix()
	if err != nil {
		writeSimError(c, err)
		return
	}

	simID := uuid.NewString()
	h.simulations.put(simID, simulationRecord{NCM: ncm, HourAxis: cfg.HourlyRange()})

	mean, min, max := resultcache.MeanMinMax(ncm)
	if h.cache != nil {
		metricValues := map[string]float64{
			metrics.EUE.String():  metrics.Evaluate(metrics.EUE, ncm, cfg.HourlyRange()),
			metrics.LOLH.String(): metrics.Evaluate(metrics.LOLH, ncm, cfg.HourlyRange()),
			metrics.LOLD.String(): metrics.Evaluate(metrics.LOLD, ncm, cfg.HourlyRange()),
			metrics.LOLF.String(): metrics.Evaluate(metrics.LOLF, ncm, cfg.HourlyRange()),
		}
		_ = h.cache.Set(cacheKey, resultcache.Summarize(mean, min, max, metricValues))
	}

	c.JSON(http.StatusOK, models.RunSimulationResponse{
		SimulationID:    simID,
		MeanNetCapacity: mean,
		MinNetCapacity:  min,
		MaxNetCapacity:  max,
		Cached:          false,
	})
}

// Metric handles GET /api/v1/simulations/:id/metrics?kind=eue|lolh|lold|lolf.
// id is either a simulation id minted by Run for a freshly computed run, or
// a resultcache key returned in place of one for a cache hit — Run never
// registers a simulationRecord for a hit, since the cache only retains the
// scalar Summary, not the NCM a simulationRecord needs. So a miss against
// h.simulations falls back to the precomputed Summary.Metrics for that key.
func (h *SimulationHandler) Metric(c *gin.Context) {
	id := c.Param("id")

	kindStr := c.Query("kind")
	kind, err := parseMetricKind(kindStr)
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error: models.ErrorDetail{Code: "INVALID_METRIC", Message: err.Error()},
		})
		return
	}

	if rec, ok := h.simulations.get(id); ok {
		value := metrics.Evaluate(kind, rec.NCM, rec.HourAxis)
		c.JSON(http.StatusOK, models.MetricResponse{Kind: kindStr, Value: value})
		return
	}

	if h.cache != nil {
		if summary, ok := h.cache.Get(id); ok {
			if value, ok := summary.Metrics[kindStr]; ok {
				c.JSON(http.StatusOK, models.MetricResponse{Kind: kindStr, Value: value})
				return
			}
		}
	}

	c.JSON(http.StatusNotFound, models.ErrorResponse{
		Error: models.ErrorDetail{Code: "UNKNOWN_SIMULATION", Message: "no simulation with that id"},
	})
}

func parseMetricKind(s string) (metrics.Kind, error) {
	switch s {
	case "eue":
		return metrics.EUE, nil
	case "lolh":
		return metrics.LOLH, nil
	case "lold":
		return metrics.LOLD, nil
	case "lolf":
		return metrics.LOLF, nil
	default:
		return 0, engineerr.ErrInvalidWindow
	}
}

func writeSimError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	code := "SIMULATION_ERROR"
	switch {
	case isErr(err, engineerr.ErrInvalidWindow):
		status, code = http.StatusBadRequest, "INVALID_WINDOW"
	case isErr(err, engineerr.ErrNoSystemAssigned):
		status, code = http.StatusBadRequest, "NO_SYSTEM_ASSIGNED"
	case isErr(err, engineerr.ErrMissingTimeSeriesCoverage):
		status, code = http.StatusBadRequest, "MISSING_COVERAGE"
	}
	c.JSON(status, models.ErrorResponse{Error: models.ErrorDetail{Code: code, Message: err.Error()}})
}
