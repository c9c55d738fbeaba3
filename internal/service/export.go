package service

import (
	"context"
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/shopspring/decimal"

	"spedflow/internal/domain"
	"spedflow/internal/port"
	"spedflow/internal/sped"
	"spedflow/internal/xlsxport"
)

// reportColumns are the sheet headers, in line-item column order.
var reportColumns = []string{
	"id", "empresa_id", "id_c100", "ind_oper", "filial", "periodo", "reg",
	"cod_part", "nome", "cnpj", "num_doc", "cod_item", "chv_nfe", "num_item",
	"descr_compl", "ncm", "unid", "qtd", "vl_item", "vl_desc", "cfop", "cst",
	"aliquota", "resultado",
}

// ExportService produces the period report. Before writing anything it
// makes sure every line item of the company is rated, escalating the
// leftovers; an unanswered escalation blocks the export.
type ExportService struct {
	reports   port.ReportRepository
	lineItems port.LineItemRepository
	taxRepo   port.TaxRegistrationRepository
	engine    *ResolutionEngine
	escalator port.RateEscalator
}

// NewExportService creates an ExportService.
func NewExportService(
	reports port.ReportRepository,
	lineItems port.LineItemRepository,
	taxRepo port.TaxRegistrationRepository,
	engine *ResolutionEngine,
	escalator port.RateEscalator,
) *ExportService {
	return &ExportService{
		reports:   reports,
		lineItems: lineItems,
		taxRepo:   taxRepo,
		engine:    engine,
		escalator: escalator,
	}
}

// Export writes the xlsx report for the company's month/year to out.
func (s *ExportService) Export(ctx context.Context, empresaID int64, mes, ano int, out io.Writer, sink port.ProgressSink) error {
	periodo := fmt.Sprintf("%02d/%04d", mes, ano)

	if err := s.ensureResolved(ctx, empresaID, periodo); err != nil {
		return err
	}
	sink.Progress(5)

	header, err := s.reports.PeriodHeader(ctx, empresaID, periodo)
	if err != nil {
		return err
	}
	total, err := s.reports.CountRows(ctx, empresaID, periodo)
	if err != nil {
		return fmt.Errorf("export.Export: %w", err)
	}
	if total == 0 {
		return domain.ErrNoExportData
	}

	writer, err := xlsxport.NewReportWriter()
	if err != nil {
		return err
	}
	periodLabel := fmt.Sprintf("Período: %s a %s",
		sped.FormatPeriodDate(header.DtIni), sped.FormatPeriodDate(header.DtFin))
	if err := writer.WriteTitle(header.Nome, periodLabel, reportColumns); err != nil {
		return err
	}
	sink.Progress(60)

	var written int64
	err = s.reports.StreamRows(ctx, empresaID, periodo, func(row domain.ExportRow) error {
		if err := writer.WriteRow(exportCells(row)); err != nil {
			return err
		}
		written++
		if written%10000 == 0 {
			pct := 60 + int(35*written/total)
			if pct > 95 {
				pct = 95
			}
			sink.Progress(pct)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("export.Export: %w", err)
	}

	if err := writer.Flush(out); err != nil {
		return err
	}
	sink.Progress(100)
	log.Printf("export.Export: empresa=%d periodo=%s linhas=%d", empresaID, periodo, written)
	return nil
}

// Unresolved lists the items still awaiting a rate.
func (s *ExportService) Unresolved(ctx context.Context, empresaID int64) ([]domain.UnresolvedItem, error) {
	return s.taxRepo.ListUnresolved(ctx, empresaID)
}

// ResolveRates applies escalation answers to the tax table and re-runs
// resolution so the next export sees the rates.
func (s *ExportService) ResolveRates(ctx context.Context, empresaID int64, periodo string, rates []domain.ResolvedRate) error {
	for i := range rates {
		rates[i].CategoriaFiscal = CategoriaForRate(rates[i].Aliquota)
	}
	if err := s.taxRepo.ApplyResolved(ctx, empresaID, rates); err != nil {
		return fmt.Errorf("export.ResolveRates: %w", err)
	}
	return s.resolvePasses(ctx, empresaID, periodo)
}

// ensureResolved runs the resolution passes when unrated items remain and
// escalates whatever they leave behind.
func (s *ExportService) ensureResolved(ctx context.Context, empresaID int64, periodo string) error {
	unrated, err := s.lineItems.CountUnrated(ctx, empresaID)
	if err != nil {
		return fmt.Errorf("export.ensureResolved: %w", err)
	}
	if unrated == 0 {
		return nil
	}

	if err := s.resolvePasses(ctx, empresaID, periodo); err != nil {
		return err
	}
	if _, err := s.taxRepo.RegisterUnresolved(ctx, empresaID); err != nil {
		return fmt.Errorf("export.ensureResolved: %w", err)
	}

	pending, err := s.taxRepo.HasUnresolved(ctx, empresaID)
	if err != nil {
		return fmt.Errorf("export.ensureResolved: %w", err)
	}
	if !pending {
		return nil
	}

	items, err := s.taxRepo.ListUnresolved(ctx, empresaID)
	if err != nil {
		return fmt.Errorf("export.ensureResolved: %w", err)
	}
	answers, err := s.escalator.Resolve(ctx, empresaID, items)
	if err != nil {
		return err
	}
	return s.ResolveRates(ctx, empresaID, periodo, answers)
}

func (s *ExportService) resolvePasses(ctx context.Context, empresaID int64, periodo string) error {
	if _, err := s.engine.ResolveBase(ctx, empresaID); err != nil {
		return err
	}
	if _, err := s.engine.ApplySurcharge(ctx, empresaID, periodo); err != nil {
		return err
	}
	if _, _, err := s.engine.ComputeResults(ctx, empresaID); err != nil {
		return err
	}
	return nil
}

// exportCells renders one line item for the sheet. Quantity and monetary
// columns use the BR numeric format. The rate column passes its stored
// token through untouched unless it is a plain dot-decimal; forms like
// "10,00%" reach the sheet exactly as registered.
func exportCells(r domain.ExportRow) []interface{} {
	aliquota := ""
	if r.Aliquota != nil {
		aliquota = *r.Aliquota
		if !strings.ContainsAny(aliquota, ",%") && !isExemptToken(aliquota) {
			if d, err := sped.ParseDecimal(aliquota); err == nil {
				aliquota = sped.FormatBR(d)
			}
		}
	}
	resultado := ""
	if r.Resultado != nil {
		resultado = sped.FormatBR(decimal.NewFromFloat(*r.Resultado))
	}
	return []interface{}{
		r.ID, r.EmpresaID, r.IDC100.String(), r.IndOper, r.Filial, r.Periodo, r.Reg,
		r.CodPart, r.Nome, r.CNPJ, r.NumDoc, r.CodItem, r.ChvNfe, r.NumItem,
		r.DescrCompl, r.NCM, r.Unid, formatBRText(r.Qtd), formatBRText(r.VlItem),
		formatBRText(r.VlDesc), r.CFOP, r.CST, aliquota, resultado,
	}
}

// formatBRText re-renders a textual amount in BR format, keeping the raw
// text when it does not parse.
func formatBRText(s string) string {
	if strings.TrimSpace(s) == "" {
		return ""
	}
	d, err := sped.ParseDecimal(s)
	if err != nil {
		return s
	}
	return sped.FormatBR(d)
}

func isExemptToken(s string) bool {
	return domain.ExemptRateTokens[strings.ToUpper(strings.TrimSpace(s))]
}
