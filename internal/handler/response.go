package handler

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"spedflow/internal/domain"
)

// APIResponse is the standard envelope for all API responses.
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *APIError   `json:"error,omitempty"`
}

// APIError holds error details in the response.
type APIError struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

// RespondOK sends a 200 success response.
func RespondOK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, APIResponse{Success: true, Data: data})
}

// RespondCreated sends a 201 success response.
func RespondCreated(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, APIResponse{Success: true, Data: data})
}

// RespondAccepted sends a 202 success response.
func RespondAccepted(c *gin.Context, data interface{}) {
	c.JSON(http.StatusAccepted, APIResponse{Success: true, Data: data})
}

// RespondError sends an error response with the given status code.
func RespondError(c *gin.Context, status int, code, msg string) {
	c.JSON(status, APIResponse{
		Success: false,
		Error:   &APIError{Code: code, Message: msg},
	})
}

// MapDomainError translates domain errors to HTTP status codes and error codes.
func MapDomainError(err error) (status int, code, msg string) {
	var malformed *domain.MalformedRecordError
	var dangling *domain.DanglingReferenceError

	switch {
	case errors.Is(err, domain.ErrEmpresaNotFound):
		return http.StatusNotFound, "EMPRESA_NOT_FOUND", "empresa não encontrada"
	case errors.Is(err, domain.ErrRunNotFound):
		return http.StatusNotFound, "RUN_NOT_FOUND", "processamento não encontrado"
	case errors.Is(err, domain.ErrTaxTableMissing):
		return http.StatusPreconditionFailed, "TAX_TABLE_MISSING", "Tributação não encontrada. Envie primeiro a tributação."
	case errors.Is(err, domain.ErrPeriodNotFound):
		return http.StatusNotFound, "PERIOD_NOT_FOUND", "período não encontrado na tabela 0000"
	case errors.Is(err, domain.ErrNoExportData):
		return http.StatusNotFound, "NO_EXPORT_DATA", "não existem dados para o mês e ano selecionados"
	case errors.Is(err, domain.ErrRatesUnresolved):
		return http.StatusConflict, "RATES_UNRESOLVED", "existem alíquotas pendentes de preenchimento"
	case errors.Is(err, domain.ErrNoFilesSupplied):
		return http.StatusBadRequest, "NO_FILES", "nenhum arquivo selecionado"
	case errors.Is(err, domain.ErrUnsupportedUpload):
		return http.StatusBadRequest, "UNSUPPORTED_FILE_TYPE", "unsupported file type"
	case errors.Is(err, domain.ErrDuplicateEmpresa):
		return http.StatusConflict, "DUPLICATE_EMPRESA", "empresa já cadastrada"
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, "NOT_FOUND", "resource not found"
	case errors.As(err, &malformed):
		return http.StatusBadRequest, "MALFORMED_RECORD", malformed.Error()
	case errors.As(err, &dangling):
		return http.StatusBadRequest, "DANGLING_REFERENCE", dangling.Error()
	default:
		return http.StatusInternalServerError, "INTERNAL_ERROR", "an internal error occurred"
	}
}

// HandleError maps err and writes the error response, logging 5xx causes.
func HandleError(c *gin.Context, err error) {
	status, code, msg := MapDomainError(err)
	if status >= 500 {
		requestID, _ := c.Get("request_id")
		log.Printf("[%s] internal error: %v", requestID, err)
	}
	RespondError(c, status, code, msg)
}
