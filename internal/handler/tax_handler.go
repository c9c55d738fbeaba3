package handler

import (
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"spedflow/internal/domain"
	"spedflow/internal/service"
)

// TaxHandler handles tax-table and supplier-table endpoints, including the
// escalation surface for pending rates.
type TaxHandler struct {
	taxImport  *service.TaxImportService
	fornImport *service.FornecedorImportService
	export     *service.ExportService
}

// NewTaxHandler creates a new TaxHandler.
func NewTaxHandler(taxImport *service.TaxImportService, fornImport *service.FornecedorImportService, export *service.ExportService) *TaxHandler {
	return &TaxHandler{taxImport: taxImport, fornImport: fornImport, export: export}
}

// ImportTributacao handles POST /api/v1/empresas/:id/tributacao
func (h *TaxHandler) ImportTributacao(c *gin.Context) {
	id, err := empresaID(c)
	if err != nil {
		return
	}
	file, err := xlsxUpload(c)
	if err != nil {
		return
	}
	defer file.Close()

	summary, err := h.taxImport.ImportXLSX(c.Request.Context(), id, file)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, summary)
}

// ImportFornecedores handles POST /api/v1/empresas/:id/fornecedores
func (h *TaxHandler) ImportFornecedores(c *gin.Context) {
	id, err := empresaID(c)
	if err != nil {
		return
	}
	file, err := xlsxUpload(c)
	if err != nil {
		return
	}
	defer file.Close()

	count, err := h.fornImport.ImportXLSX(c.Request.Context(), id, file)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, gin.H{"imported": count})
}

// ListPendentes handles GET /api/v1/empresas/:id/tributacao/pendentes
func (h *TaxHandler) ListPendentes(c *gin.Context) {
	id, err := empresaID(c)
	if err != nil {
		return
	}
	items, err := h.export.Unresolved(c.Request.Context(), id)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, items)
}

type resolveRatesRequest struct {
	Periodo string `json:"periodo" binding:"required"`
	Rates   []struct {
		ID       int64  `json:"id" binding:"required"`
		NCM      string `json:"ncm"`
		Aliquota string `json:"aliquota" binding:"required"`
	} `json:"rates" binding:"required,dive"`
}

// ResolveRates handles PUT /api/v1/empresas/:id/tributacao/aliquotas
func (h *TaxHandler) ResolveRates(c *gin.Context) {
	id, err := empresaID(c)
	if err != nil {
		return
	}
	var req resolveRatesRequest
	if err := c.ShouldBindJSON(&req); err != nil || len(req.Rates) == 0 {
		RespondError(c, http.StatusBadRequest, "INVALID_BODY", "periodo and a non-empty rates list are required")
		return
	}

	rates := make([]domain.ResolvedRate, 0, len(req.Rates))
	for _, r := range req.Rates {
		rates = append(rates, domain.ResolvedRate{ID: r.ID, NCM: r.NCM, Aliquota: r.Aliquota})
	}
	if err := h.export.ResolveRates(c.Request.Context(), id, req.Periodo, rates); err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, gin.H{"resolved": len(rates)})
}

// xlsxUpload pulls the "file" part of the form, writing the error response
// when it is missing or not a spreadsheet.
func xlsxUpload(c *gin.Context) (io.ReadCloser, error) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		RespondError(c, http.StatusBadRequest, "MISSING_FILE", "file field is required")
		return nil, err
	}
	if !strings.EqualFold(filepath.Ext(header.Filename), ".xlsx") {
		_ = file.Close()
		HandleError(c, domain.ErrUnsupportedUpload)
		return nil, domain.ErrUnsupportedUpload
	}
	return file, nil
}
