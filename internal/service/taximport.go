package service

import (
	"context"
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/xuri/excelize/v2"

	"spedflow/internal/domain"
	"spedflow/internal/port"
)

// TaxImportSummary reports what one spreadsheet import changed.
type TaxImportSummary struct {
	Inserted int `json:"inserted"`
	Updated  int `json:"updated"`
	Skipped  int `json:"skipped"`
}

// TaxImportService loads a company tax table from an xlsx upload. Imports
// are diff-based: unknown (codigo, produto, ncm) keys are inserted, known
// keys with a different rate are updated, everything else is left alone.
type TaxImportService struct {
	taxRepo port.TaxRegistrationRepository
}

// NewTaxImportService creates a TaxImportService.
func NewTaxImportService(taxRepo port.TaxRegistrationRepository) *TaxImportService {
	return &TaxImportService{taxRepo: taxRepo}
}

// columnSynonyms maps normalized sheet headers onto tax-table fields.
// Accountants hand these sheets over with wildly inconsistent headers.
var columnSynonyms = map[string]string{
	"codigo":      "codigo",
	"código":      "codigo",
	"cod":         "codigo",
	"cod produto": "codigo",
	"cod_produto": "codigo",
	"produto":     "produto",
	"descricao":   "produto",
	"descrição":   "produto",
	"descricão":   "produto",
	"desc":        "produto",
	"ncm":         "ncm",
	"cod ncm":     "ncm",
	"cod_ncm":     "ncm",
	"aliquota":    "aliquota",
	"alíquota":    "aliquota",
	"aliq":        "aliquota",
	"tributacao":  "aliquota",
	"tributação":  "aliquota",
}

// ImportXLSX reads the first sheet of the upload and applies it to the
// company tax table, then recomputes the legacy-rate column.
func (s *TaxImportService) ImportXLSX(ctx context.Context, empresaID int64, r io.Reader) (*TaxImportSummary, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("taximport.ImportXLSX: %w", err)
	}
	defer f.Close()

	sheetName := f.GetSheetName(0)
	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("taximport.ImportXLSX: %w", err)
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("taximport.ImportXLSX: planilha %q sem linhas de dados", sheetName)
	}

	cols, err := mapColumns(rows[0])
	if err != nil {
		return nil, err
	}

	existing, err := s.taxRepo.ListByEmpresa(ctx, empresaID)
	if err != nil {
		return nil, fmt.Errorf("taximport.ImportXLSX: %w", err)
	}
	known := make(map[string]domain.TaxRegistration, len(existing))
	for _, reg := range existing {
		known[taxKey(reg.Codigo, reg.Produto, reg.NCM)] = reg
	}

	summary := &TaxImportSummary{}
	var inserts, updates []domain.TaxRegistration
	seen := make(map[string]bool)
	for _, row := range rows[1:] {
		reg := domain.TaxRegistration{
			EmpresaID: empresaID,
			Codigo:    cellAt(row, cols["codigo"]),
			Produto:   cellAt(row, cols["produto"]),
			NCM:       cellAt(row, cols["ncm"]),
			Aliquota:  normalizeRate(cellAt(row, cols["aliquota"])),
		}
		if reg.Produto == "" && reg.NCM == "" {
			summary.Skipped++
			continue
		}
		key := taxKey(reg.Codigo, reg.Produto, reg.NCM)
		if seen[key] {
			summary.Skipped++
			continue
		}
		seen[key] = true
		reg.CategoriaFiscal = CategoriaForRate(reg.Aliquota)

		prev, ok := known[key]
		switch {
		case !ok:
			inserts = append(inserts, reg)
		case prev.Aliquota != reg.Aliquota:
			updates = append(updates, reg)
		default:
			summary.Skipped++
		}
	}

	if err := s.taxRepo.Insert(ctx, inserts); err != nil {
		return nil, fmt.Errorf("taximport.ImportXLSX: %w", err)
	}
	if err := s.taxRepo.Touch(ctx, empresaID, updates); err != nil {
		return nil, fmt.Errorf("taximport.ImportXLSX: %w", err)
	}
	if err := s.taxRepo.BackfillLegacyRates(ctx, empresaID); err != nil {
		return nil, fmt.Errorf("taximport.ImportXLSX: %w", err)
	}

	summary.Inserted = len(inserts)
	summary.Updated = len(updates)
	log.Printf("taximport.ImportXLSX: empresa=%d inseridas=%d atualizadas=%d ignoradas=%d",
		empresaID, summary.Inserted, summary.Updated, summary.Skipped)
	return summary, nil
}

// mapColumns resolves header synonyms into column indexes. Produto, ncm
// and aliquota are mandatory; codigo is optional (index -1).
func mapColumns(header []string) (map[string]int, error) {
	cols := map[string]int{"codigo": -1, "produto": -1, "ncm": -1, "aliquota": -1}
	for i, h := range header {
		norm := strings.ToLower(strings.TrimSpace(h))
		if field, ok := columnSynonyms[norm]; ok && cols[field] == -1 {
			cols[field] = i
		}
	}
	for _, field := range []string{"produto", "ncm", "aliquota"} {
		if cols[field] == -1 {
			return nil, fmt.Errorf("taximport: coluna %q não encontrada no cabeçalho", field)
		}
	}
	return cols, nil
}

func cellAt(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

// normalizeRate uppercases exemption tokens and truncates to the storage
// width; numeric rates keep the exact text the sheet carried.
func normalizeRate(s string) string {
	s = strings.TrimSpace(s)
	upper := strings.ToUpper(s)
	switch upper {
	case "ST", "ISENTO", "PAUTA":
		s = upper
	}
	if len(s) > 10 {
		s = s[:10]
	}
	return s
}

func taxKey(codigo, produto, ncm string) string {
	return codigo + "|" + produto + "|" + ncm
}
