package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"spedflow/internal/domain"
	"spedflow/internal/port"
)

// RunHandler handles pipeline run endpoints. Runs are queued here and
// executed by the background worker; clients poll GET for progress.
type RunHandler struct {
	runs     port.RunRepository
	empresas port.EmpresaRepository
}

// NewRunHandler creates a new RunHandler.
func NewRunHandler(runs port.RunRepository, empresas port.EmpresaRepository) *RunHandler {
	return &RunHandler{runs: runs, empresas: empresas}
}

type createRunRequest struct {
	FilePaths []string `json:"file_paths" binding:"required"`
}

// Create handles POST /api/v1/empresas/:id/runs
func (h *RunHandler) Create(c *gin.Context) {
	id, err := empresaID(c)
	if err != nil {
		return
	}
	var req createRunRequest
	if err := c.ShouldBindJSON(&req); err != nil || len(req.FilePaths) == 0 {
		HandleError(c, domain.ErrNoFilesSupplied)
		return
	}

	if _, err := h.empresas.GetByID(c.Request.Context(), id); err != nil {
		HandleError(c, err)
		return
	}

	run := &domain.PipelineRun{
		EmpresaID: id,
		FilePaths: req.FilePaths,
	}
	if err := h.runs.Create(c.Request.Context(), run); err != nil {
		HandleError(c, err)
		return
	}
	RespondAccepted(c, run)
}

// GetByID handles GET /api/v1/runs/:run_id
func (h *RunHandler) GetByID(c *gin.Context) {
	runID, err := uuid.Parse(c.Param("run_id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_RUN_ID", "invalid run id")
		return
	}
	run, err := h.runs.GetByID(c.Request.Context(), runID)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, run)
}
