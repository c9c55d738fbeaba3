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
	"spedflow/internal/port"
	"spedflow/mocks"
)

func floatPtr(f float64) *float64 { return &f }

func ratedLineItems(lineItems *mocks.MockLineItemRepo) {
	lineItems.On("CountUnrated", mock.Anything, int64(1)).Return(int64(0), nil)
}

func TestExport_WritesWorkbook(t *testing.T) {
	lineItems := new(mocks.MockLineItemRepo)
	ratedLineItems(lineItems)

	reports := new(mocks.MockReportRepo)
	reports.On("PeriodHeader", mock.Anything, int64(1), "01/2024").Return(&domain.PeriodHeader{
		Periodo: "01/2024",
		DtIni:   "01012024",
		DtFin:   "31012024",
		Nome:    "EMPRESA TESTE LTDA",
		CNPJ:    "12345678000199",
	}, nil)
	reports.On("CountRows", mock.Anything, int64(1), "01/2024").Return(int64(2), nil)
	reports.On("StreamRows", mock.Anything, int64(1), "01/2024").Return(nil)
	reports.StreamData = []domain.ExportRow{
		{
			ID: 1, EmpresaID: 1, Periodo: "01/2024", Reg: "C170", CodPart: "F001",
			Nome: "FORNECEDOR A", CNPJ: "05998707000110", NumDoc: "000123",
			CodItem: "P001", NumItem: "1", DescrCompl: "ARROZ BRANCO", NCM: "10063021",
			Unid: "UN", Qtd: "10,000", VlItem: "100,00", VlDesc: "0,00",
			CFOP: "1102", CST: "000", Aliquota: strPtr("10,00%"), Resultado: floatPtr(10),
		},
		{
			ID: 2, EmpresaID: 1, Periodo: "01/2024", Reg: "C170", CodPart: "F001",
			Nome: "FORNECEDOR A", CNPJ: "05998707000110", NumDoc: "000123",
			CodItem: "P002", NumItem: "2", DescrCompl: "SAL", NCM: "25010020",
			Unid: "KG", Qtd: "2,000", VlItem: "20,00", VlDesc: "0,00",
			CFOP: "1102", CST: "060", Aliquota: strPtr("ST"), Resultado: nil,
		},
	}

	svc := NewExportService(reports, lineItems, new(mocks.MockTaxRepo), NewResolutionEngine(lineItems, 5000), NewPendingEscalator())

	var buf bytes.Buffer
	sink := &recordSink{}
	require.NoError(t, svc.Export(context.Background(), 1, 1, 2024, &buf, sink))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	sheet := f.GetSheetName(0)
	a1, _ := f.GetCellValue(sheet, "A1")
	assert.Equal(t, "EMPRESA TESTE LTDA", a1)
	a2, _ := f.GetCellValue(sheet, "A2")
	assert.Equal(t, "Período: 01/01/2024 a 31/01/2024", a2)

	a3, _ := f.GetCellValue(sheet, "A3")
	assert.Equal(t, "id", a3)
	lastHeader, _ := f.GetCellValue(sheet, "X3")
	assert.Equal(t, "resultado", lastHeader)

	qtd, _ := f.GetCellValue(sheet, "R4")
	assert.Equal(t, "10,00", qtd)
	aliquota, _ := f.GetCellValue(sheet, "W4")
	assert.Equal(t, "10,00%", aliquota)
	resultado, _ := f.GetCellValue(sheet, "X4")
	assert.Equal(t, "10,00", resultado)

	stAliquota, _ := f.GetCellValue(sheet, "W5")
	assert.Equal(t, "ST", stAliquota)
	emptyResultado, _ := f.GetCellValue(sheet, "X5")
	assert.Equal(t, "", emptyResultado)

	assert.Equal(t, 100, sink.progress[len(sink.progress)-1])
}

func TestExportCells_RateColumn(t *testing.T) {
	cases := []struct {
		name string
		in   *string
		want string
	}{
		{"percent form kept", strPtr("10,00%"), "10,00%"},
		{"bare percent kept", strPtr("17%"), "17%"},
		{"comma form kept", strPtr("13,00"), "13,00"},
		{"dot decimal reformatted", strPtr("4.25"), "4,25"},
		{"exempt token kept", strPtr("ST"), "ST"},
		{"nil renders empty", nil, ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cells := exportCells(domain.ExportRow{Aliquota: tc.in})
			assert.Equal(t, tc.want, cells[22])
		})
	}
}

func TestExport_PeriodNotFound(t *testing.T) {
	lineItems := new(mocks.MockLineItemRepo)
	ratedLineItems(lineItems)

	reports := new(mocks.MockReportRepo)
	reports.On("PeriodHeader", mock.Anything, int64(1), "03/2024").
		Return(nil, domain.ErrPeriodNotFound)

	svc := NewExportService(reports, lineItems, new(mocks.MockTaxRepo), NewResolutionEngine(lineItems, 5000), NewPendingEscalator())
	err := svc.Export(context.Background(), 1, 3, 2024, &bytes.Buffer{}, &recordSink{})
	require.ErrorIs(t, err, domain.ErrPeriodNotFound)
}

func TestExport_NoData(t *testing.T) {
	lineItems := new(mocks.MockLineItemRepo)
	ratedLineItems(lineItems)

	reports := new(mocks.MockReportRepo)
	reports.On("PeriodHeader", mock.Anything, int64(1), "02/2024").Return(&domain.PeriodHeader{
		Periodo: "02/2024", DtIni: "01022024", DtFin: "29022024", Nome: "EMPRESA",
	}, nil)
	reports.On("CountRows", mock.Anything, int64(1), "02/2024").Return(int64(0), nil)

	svc := NewExportService(reports, lineItems, new(mocks.MockTaxRepo), NewResolutionEngine(lineItems, 5000), NewPendingEscalator())
	err := svc.Export(context.Background(), 1, 2, 2024, &bytes.Buffer{}, &recordSink{})
	require.ErrorIs(t, err, domain.ErrNoExportData)
}

// resolvableLineItems wires the resolution passes the detour runs when
// unrated items remain.
func resolvableLineItems(lineItems *mocks.MockLineItemRepo, unrated int64) {
	lineItems.On("CountUnrated", mock.Anything, int64(1)).Return(unrated, nil)
	lineItems.On("LatestDtIni", mock.Anything, int64(1)).Return("01012024", nil)
	lineItems.On("UnratedMatches", mock.Anything, int64(1), true).Return([]port.RateUpdate{}, nil)
	lineItems.On("SimplesCandidates", mock.Anything, int64(1), "01/2024").Return([]port.RateRow{}, nil)
	lineItems.On("ResultInputs", mock.Anything, int64(1)).Return([]port.ResultInput{}, nil)
}

func TestExport_BlockedWhileRatesPending(t *testing.T) {
	lineItems := new(mocks.MockLineItemRepo)
	resolvableLineItems(lineItems, 3)

	taxRepo := new(mocks.MockTaxRepo)
	taxRepo.On("RegisterUnresolved", mock.Anything, int64(1)).Return(int64(3), nil)
	taxRepo.On("HasUnresolved", mock.Anything, int64(1)).Return(true, nil)
	taxRepo.On("ListUnresolved", mock.Anything, int64(1)).Return([]domain.UnresolvedItem{
		{ID: 7, Codigo: "P009", Produto: "FARINHA", NCM: "11010010"},
	}, nil)

	svc := NewExportService(new(mocks.MockReportRepo), lineItems, taxRepo, NewResolutionEngine(lineItems, 5000), NewPendingEscalator())
	err := svc.Export(context.Background(), 1, 1, 2024, &bytes.Buffer{}, &recordSink{})
	require.ErrorIs(t, err, domain.ErrRatesUnresolved)
}

func TestExport_EscalatorAnswersInline(t *testing.T) {
	lineItems := new(mocks.MockLineItemRepo)
	resolvableLineItems(lineItems, 1)

	items := []domain.UnresolvedItem{{ID: 7, Codigo: "P009", Produto: "FARINHA", NCM: "11010010"}}
	answers := []domain.ResolvedRate{{ID: 7, NCM: "11010010", Aliquota: "17%"}}

	taxRepo := new(mocks.MockTaxRepo)
	taxRepo.On("RegisterUnresolved", mock.Anything, int64(1)).Return(int64(1), nil)
	taxRepo.On("HasUnresolved", mock.Anything, int64(1)).Return(true, nil)
	taxRepo.On("ListUnresolved", mock.Anything, int64(1)).Return(items, nil)
	taxRepo.On("ApplyResolved", mock.Anything, int64(1), mock.MatchedBy(func(rates []domain.ResolvedRate) bool {
		return len(rates) == 1 && rates[0].ID == 7 && rates[0].CategoriaFiscal == "20RegraGeral"
	})).Return(nil)

	escalator := new(mocks.MockEscalator)
	escalator.On("Resolve", mock.Anything, int64(1), items).Return(answers, nil)

	reports := new(mocks.MockReportRepo)
	reports.On("PeriodHeader", mock.Anything, int64(1), "01/2024").Return(&domain.PeriodHeader{
		Periodo: "01/2024", DtIni: "01012024", DtFin: "31012024", Nome: "EMPRESA",
	}, nil)
	reports.On("CountRows", mock.Anything, int64(1), "01/2024").Return(int64(1), nil)
	reports.On("StreamRows", mock.Anything, int64(1), "01/2024").Return(nil)
	reports.StreamData = []domain.ExportRow{{ID: 1, Periodo: "01/2024", Reg: "C170"}}

	svc := NewExportService(reports, lineItems, taxRepo, NewResolutionEngine(lineItems, 5000), escalator)
	require.NoError(t, svc.Export(context.Background(), 1, 1, 2024, &bytes.Buffer{}, &recordSink{}))

	taxRepo.AssertExpectations(t)
	escalator.AssertExpectations(t)
}
