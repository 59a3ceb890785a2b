package handlers

import (
	"net/http"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/brianmickel/adequacy/internal/api/models"
	"github.com/brianmickel/adequacy/internal/energysystem"
)

// SystemHandler serves the /api/v1/systems routes. Built systems are saved
// under baseDir/<id> so they survive process restarts; the in-memory store
// is just a cache in front of that directory.
type SystemHandler struct {
	store   *SystemStore
	baseDir string
}

func NewSystemHandler(store *SystemStore, baseDir string) *SystemHandler {
	return &SystemHandler{store: store, baseDir: baseDir}
}

func (h *SystemHandler) systemDir(id string) string {
	return filepath.Join(h.baseDir, id)
}

// Create handles POST /api/v1/systems.
func (h *SystemHandler) Create(c *gin.Context) {
	var req models.CreateSystemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error: models.ErrorDetail{Code: "INVALID_REQUEST", Message: err.Error()},
		})
		return
	}

	b := energysystem.NewBuilder()
	for _, ur := range req.Units {
		unit, err := toUnit(ur)
		if err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse{
				Error: models.ErrorDetail{Code: "INVALID_UNIT", Message: err.Error()},
			})
			return
		}
		if err := b.AddUnit(unit); err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse{
				Error: models.ErrorDetail{Code: "DUPLICATE_ID", Message: err.Error()},
			})
			return
		}
	}

	sys := b.Build()
	id := uuid.NewString()

	if h.baseDir != "" {
		if err := sys.Save(h.systemDir(id)); err != nil {
			c.JSON(http.StatusInternalServerError, models.ErrorResponse{
				Error: models.ErrorDetail{Code: "PERSISTENCE_ERROR", Message: err.Error()},
			})
			return
		}
	}
	h.store.put(id, sys)

	c.JSON(http.StatusCreated, models.CreateSystemResponse{SystemID: id, Size: sys.Size()})
}

// Get handles GET /api/v1/systems/:id, serving the in-memory copy if
// present and otherwise reloading the persisted manifest from disk.
func (h *SystemHandler) Get(c *gin.Context) {
	id := c.Param("id")
	sys, ok := h.store.get(id)
	if !ok && h.baseDir != "" {
		loaded, err := energysystem.Load(h.systemDir(id))
		if err == nil {
			sys, ok = loaded, true
			h.store.put(id, sys)
		}
	}
	if !ok {
		c.JSON(http.StatusNotFound, models.ErrorResponse{
			Error: models.ErrorDetail{Code: "UNKNOWN_SYSTEM", Message: "no system with that id"},
		})
		return
	}
	c.JSON(http.StatusOK, models.CreateSystemResponse{SystemID: id, Size: sys.Size()})
}
