package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"spedflow/internal/domain"
	"spedflow/internal/port"
)

// EmpresaHandler handles company endpoints.
type EmpresaHandler struct {
	empresas port.EmpresaRepository
}

// NewEmpresaHandler creates a new EmpresaHandler.
func NewEmpresaHandler(empresas port.EmpresaRepository) *EmpresaHandler {
	return &EmpresaHandler{empresas: empresas}
}

// List handles GET /api/v1/empresas
func (h *EmpresaHandler) List(c *gin.Context) {
	empresas, err := h.empresas.List(c.Request.Context())
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, empresas)
}

type createEmpresaRequest struct {
	RazaoSocial string `json:"razao_social" binding:"required"`
	CNPJ        string `json:"cnpj"`
}

// Create handles POST /api/v1/empresas
func (h *EmpresaHandler) Create(c *gin.Context) {
	var req createEmpresaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_BODY", "razao_social is required")
		return
	}

	empresa := &domain.Empresa{RazaoSocial: req.RazaoSocial, CNPJ: req.CNPJ}
	if err := h.empresas.Create(c.Request.Context(), empresa); err != nil {
		HandleError(c, err)
		return
	}
	RespondCreated(c, empresa)
}

// GetByID handles GET /api/v1/empresas/:id
func (h *EmpresaHandler) GetByID(c *gin.Context) {
	id, err := empresaID(c)
	if err != nil {
		return
	}
	empresa, err := h.empresas.GetByID(c.Request.Context(), id)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, empresa)
}

// empresaID parses the :id path parameter, writing the error response on
// failure.
func empresaID(c *gin.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		RespondError(c, http.StatusBadRequest, "INVALID_EMPRESA_ID", "invalid empresa id")
		return 0, errInvalidID
	}
	return id, nil
}

var errInvalidID = errors.New("invalid id parameter")
