package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/brianmickel/adequacy/internal/api/models"
	"github.com/brianmickel/adequacy/internal/elcc"
	"github.com/brianmickel/adequacy/internal/engineerr"
	"github.com/brianmickel/adequacy/internal/simulator"
	"github.com/brianmickel/adequacy/internal/telemetry"
)

// ELCCHandler serves POST /api/v1/elcc.
type ELCCHandler struct {
	systems *SystemStore
}

func NewELCCHandler(systems *SystemStore) *ELCCHandler {
	return &ELCCHandler{systems: systems}
}

func (h *ELCCHandler) Evaluate(c *gin.Context) {
	var req models.EvaluateELCCRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error: models.ErrorDetail{Code: "INVALID_REQUEST", Message: err.Error()},
		})
		return
	}

	base, ok := h.systems.get(req.BaseSystemID)
	if !ok {
		c.JSON(http.StatusNotFound, models.ErrorResponse{
			Error: models.ErrorDetail{Code: "UNKNOWN_SYSTEM", Message: "no system with that id"},
		})
		return
	}

	additional, ok := h.systems.get(req.AdditionalSystemID)
	if !ok {
		c.JSON(http.StatusNotFound, models.ErrorResponse{
			Error: models.ErrorDetail{Code: "UNKNOWN_SYSTEM", Message: "no additional system with that id"},
		})
		return
	}

	kind, err := parseMetricKind(defaultIfEmpty(req.Metric, "eue"))
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error: models.ErrorDetail{Code: "INVALID_METRIC", Message: err.Error()},
		})
		return
	}

	cfg := simulator.Config{StartHour: req.StartHour, EndHour: req.EndHour, TrialSize: req.TrialSize, Seed: req.Seed}
	opts := elcc.Options{Precision: req.PrecisionMW, MaxIters: req.MaxIters}

	solver := elcc.New(base, cfg, kind, opts)
	mw, err := solver.Evaluate(additional)

	telemetry.ELCCIterationsTotal.WithLabelValues(kind.String()).Add(float64(len(solver.History())))
	telemetry.ELCCSolverOutcomeTotal.WithLabelValues(solver.State().String()).Inc()

	if err != nil && !isErr(err, engineerr.ErrSolverDidNotConverge) {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error: models.ErrorDetail{Code: "ELCC_ERROR", Message: err.Error()},
		})
		return
	}

	resp := models.EvaluateELCCResponse{
		AddedCapacityMW: mw,
		State:           solver.State().String(),
		Iterations:      len(solver.History()),
	}
	if err != nil {
		c.JSON(http.StatusOK, gin.H{"result": resp, "warning": err.Error()})
		return
	}
	c.JSON(http.StatusOK, resp)
}

func defaultIfEmpty(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
