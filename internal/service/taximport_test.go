package service

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"spedflow/internal/domain"
	"spedflow/mocks"
)

func buildSheet(t *testing.T, rows [][]interface{}) *bytes.Buffer {
	t.Helper()
	f := excelize.NewFile()
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &row))
	}
	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))
	return &buf
}

func TestImportXLSX_InsertsAndUpdates(t *testing.T) {
	sheet := buildSheet(t, [][]interface{}{
		{"Código", "Produto", "NCM", "Alíquota"},
		{"P001", "ARROZ BRANCO", "10063021", "1.54%"},
		{"P002", "SAL", "25010020", "ST"},
		{"P003", "VINHO", "22042100", "37.80%"},
	})

	taxRepo := new(mocks.MockTaxRepo)
	taxRepo.On("ListByEmpresa", mock.Anything, int64(1)).Return([]domain.TaxRegistration{
		{EmpresaID: 1, Codigo: "P002", Produto: "SAL", NCM: "25010020", Aliquota: "17%"},
	}, nil)
	taxRepo.On("Insert", mock.Anything, mock.MatchedBy(func(rows []domain.TaxRegistration) bool {
		return len(rows) == 2 &&
			rows[0].Codigo == "P001" && rows[0].CategoriaFiscal == "7CestaBasica" &&
			rows[1].Codigo == "P003" && rows[1].CategoriaFiscal == "28BebidaAlcoolica"
	})).Return(nil)
	taxRepo.On("Touch", mock.Anything, int64(1), mock.MatchedBy(func(rows []domain.TaxRegistration) bool {
		return len(rows) == 1 && rows[0].Codigo == "P002" && rows[0].Aliquota == "ST" &&
			rows[0].CategoriaFiscal == "ST"
	})).Return(nil)
	taxRepo.On("BackfillLegacyRates", mock.Anything, int64(1)).Return(nil)

	svc := NewTaxImportService(taxRepo)
	summary, err := svc.ImportXLSX(context.Background(), 1, sheet)
	require.NoError(t, err)

	assert.Equal(t, 2, summary.Inserted)
	assert.Equal(t, 1, summary.Updated)
	assert.Equal(t, 0, summary.Skipped)
	taxRepo.AssertExpectations(t)
}

func TestImportXLSX_SkipsUnchangedAndBlank(t *testing.T) {
	sheet := buildSheet(t, [][]interface{}{
		{"produto", "ncm", "aliquota"},
		{"ARROZ BRANCO", "10063021", "17%"},
		{"ARROZ BRANCO", "10063021", "12%"},
		{"", "", ""},
	})

	taxRepo := new(mocks.MockTaxRepo)
	taxRepo.On("ListByEmpresa", mock.Anything, int64(1)).Return([]domain.TaxRegistration{
		{EmpresaID: 1, Produto: "ARROZ BRANCO", NCM: "10063021", Aliquota: "17%"},
	}, nil)
	taxRepo.On("Insert", mock.Anything, mock.Anything).Return(nil)
	taxRepo.On("Touch", mock.Anything, int64(1), mock.Anything).Return(nil)
	taxRepo.On("BackfillLegacyRates", mock.Anything, int64(1)).Return(nil)

	svc := NewTaxImportService(taxRepo)
	summary, err := svc.ImportXLSX(context.Background(), 1, sheet)
	require.NoError(t, err)

	assert.Equal(t, 0, summary.Inserted)
	assert.Equal(t, 0, summary.Updated)
	// The duplicate key and the blank row are both skipped; the first
	// occurrence matches the stored rate so nothing changes.
	assert.Equal(t, 3, summary.Skipped)
}

func TestImportXLSX_MissingColumn(t *testing.T) {
	sheet := buildSheet(t, [][]interface{}{
		{"produto", "ncm"},
		{"ARROZ", "10063021"},
	})

	svc := NewTaxImportService(new(mocks.MockTaxRepo))
	_, err := svc.ImportXLSX(context.Background(), 1, sheet)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "aliquota")
}

func TestFornecedorImportXLSX(t *testing.T) {
	sheet := buildSheet(t, [][]interface{}{
		{"Codigo", "Nome", "CNPJ", "UF", "Simples", "Decreto"},
		{"F001", "FORNECEDOR A", "05998707000110", "ce", "SIM", "nao"},
		{"F002", "FORNECEDOR B", "11222333000144", "SP", "", "Sim"},
		{"F001", "DUPLICADO", "", "CE", "", ""},
	})

	repo := new(mocks.MockFornecedorRepo)
	repo.On("Upsert", mock.Anything, mock.MatchedBy(func(rows []domain.Fornecedor) bool {
		return len(rows) == 2 &&
			rows[0].CodPart == "F001" && rows[0].UF == "CE" &&
			rows[0].Simples == "Sim" && rows[0].Decreto == "Não" &&
			rows[1].CodPart == "F002" && rows[1].UF == "SP" &&
			rows[1].Simples == "Não" && rows[1].Decreto == "Sim"
	})).Return(nil)

	svc := NewFornecedorImportService(repo)
	count, err := svc.ImportXLSX(context.Background(), 1, sheet)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
	repo.AssertExpectations(t)
}
