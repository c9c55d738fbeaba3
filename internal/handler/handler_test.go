package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"spedflow/internal/domain"
	"spedflow/mocks"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestMapDomainError(t *testing.T) {
	cases := []struct {
		err    error
		status int
		code   string
	}{
		{domain.ErrEmpresaNotFound, http.StatusNotFound, "EMPRESA_NOT_FOUND"},
		{domain.ErrRunNotFound, http.StatusNotFound, "RUN_NOT_FOUND"},
		{domain.ErrTaxTableMissing, http.StatusPreconditionFailed, "TAX_TABLE_MISSING"},
		{domain.ErrPeriodNotFound, http.StatusNotFound, "PERIOD_NOT_FOUND"},
		{domain.ErrNoExportData, http.StatusNotFound, "NO_EXPORT_DATA"},
		{domain.ErrRatesUnresolved, http.StatusConflict, "RATES_UNRESOLVED"},
		{domain.ErrNoFilesSupplied, http.StatusBadRequest, "NO_FILES"},
		{domain.ErrDuplicateEmpresa, http.StatusConflict, "DUPLICATE_EMPRESA"},
		{&domain.MalformedRecordError{Line: 3, Kind: "0000", Msg: "x"}, http.StatusBadRequest, "MALFORMED_RECORD"},
		{assert.AnError, http.StatusInternalServerError, "INTERNAL_ERROR"},
	}
	for _, tc := range cases {
		status, code, _ := MapDomainError(tc.err)
		assert.Equal(t, tc.status, status, "%v", tc.err)
		assert.Equal(t, tc.code, code, "%v", tc.err)
	}
}

func TestRunHandler_Create(t *testing.T) {
	empresas := new(mocks.MockEmpresaRepo)
	empresas.On("GetByID", mock.Anything, int64(1)).Return(&domain.Empresa{ID: 1}, nil)

	runs := new(mocks.MockRunRepo)
	runs.On("Create", mock.Anything, mock.MatchedBy(func(run *domain.PipelineRun) bool {
		return run.EmpresaID == 1 && len(run.FilePaths) == 2
	})).Return(nil)

	h := NewRunHandler(runs, empresas)
	r := gin.New()
	r.POST("/empresas/:id/runs", h.Create)

	body, _ := json.Marshal(gin.H{"file_paths": []string{"uploads/a.txt", "uploads/b.txt"}})
	req := httptest.NewRequest(http.MethodPost, "/empresas/1/runs", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusAccepted, w.Code)
	runs.AssertExpectations(t)
}

func TestRunHandler_CreateWithoutFiles(t *testing.T) {
	h := NewRunHandler(new(mocks.MockRunRepo), new(mocks.MockEmpresaRepo))
	r := gin.New()
	r.POST("/empresas/:id/runs", h.Create)

	req := httptest.NewRequest(http.MethodPost, "/empresas/1/runs", bytes.NewReader([]byte(`{"file_paths":[]}`)))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRunHandler_GetByID(t *testing.T) {
	runID := uuid.New()
	runs := new(mocks.MockRunRepo)
	runs.On("GetByID", mock.Anything, runID).Return(&domain.PipelineRun{
		ID:       runID,
		Status:   domain.RunStatusRunning,
		Progress: 68,
	}, nil)

	h := NewRunHandler(runs, new(mocks.MockEmpresaRepo))
	r := gin.New()
	r.GET("/runs/:run_id", h.GetByID)

	req := httptest.NewRequest(http.MethodGet, "/runs/"+runID.String(), nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp APIResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	data := resp.Data.(map[string]interface{})
	assert.Equal(t, "running", data["status"])
	assert.Equal(t, float64(68), data["progress"])
}

func TestHealthHandler_Liveness(t *testing.T) {
	h := NewHealthHandler(nil)
	r := gin.New()
	r.GET("/healthz", h.Liveness)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	require.Equal(t, http.StatusOK, w.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, "spedflow", body["service"])
}

func TestEmpresaHandler_InvalidID(t *testing.T) {
	h := NewEmpresaHandler(new(mocks.MockEmpresaRepo))
	r := gin.New()
	r.GET("/empresas/:id", h.GetByID)

	req := httptest.NewRequest(http.MethodGet, "/empresas/abc", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
