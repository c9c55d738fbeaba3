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

// FornecedorImportService loads the supplier reference table from an xlsx
// upload. Rows are upserted by (cod_part, empresa_id).
type FornecedorImportService struct {
	repo port.FornecedorRepository
}

// NewFornecedorImportService creates a FornecedorImportService.
func NewFornecedorImportService(repo port.FornecedorRepository) *FornecedorImportService {
	return &FornecedorImportService{repo: repo}
}

var fornecedorSynonyms = map[string]string{
	"cod_part":     "cod_part",
	"cod part":     "cod_part",
	"codigo":       "cod_part",
	"participante": "cod_part",
	"nome":         "nome",
	"razao social": "nome",
	"razão social": "nome",
	"cnpj":         "cnpj",
	"uf":           "uf",
	"estado":       "uf",
	"simples":      "simples",
	"decreto":      "decreto",
}

// ImportXLSX reads the first sheet of the upload into the supplier table.
func (s *FornecedorImportService) ImportXLSX(ctx context.Context, empresaID int64, r io.Reader) (int, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return 0, fmt.Errorf("fornecedorimport.ImportXLSX: %w", err)
	}
	defer f.Close()

	rows, err := f.GetRows(f.GetSheetName(0))
	if err != nil {
		return 0, fmt.Errorf("fornecedorimport.ImportXLSX: %w", err)
	}
	if len(rows) < 2 {
		return 0, fmt.Errorf("fornecedorimport.ImportXLSX: planilha sem linhas de dados")
	}

	cols := map[string]int{"cod_part": -1, "nome": -1, "cnpj": -1, "uf": -1, "simples": -1, "decreto": -1}
	for i, h := range rows[0] {
		norm := strings.ToLower(strings.TrimSpace(h))
		if field, ok := fornecedorSynonyms[norm]; ok && cols[field] == -1 {
			cols[field] = i
		}
	}
	if cols["cod_part"] == -1 || cols["uf"] == -1 {
		return 0, fmt.Errorf("fornecedorimport: colunas cod_part/uf não encontradas no cabeçalho")
	}

	var fornecedores []domain.Fornecedor
	seen := make(map[string]bool)
	for _, row := range rows[1:] {
		codPart := cellAt(row, cols["cod_part"])
		if codPart == "" || seen[codPart] {
			continue
		}
		seen[codPart] = true
		fornecedores = append(fornecedores, domain.Fornecedor{
			CodPart:   codPart,
			EmpresaID: empresaID,
			Nome:      cellAt(row, cols["nome"]),
			CNPJ:      cellAt(row, cols["cnpj"]),
			UF:        strings.ToUpper(cellAt(row, cols["uf"])),
			Simples:   normalizeFlag(cellAt(row, cols["simples"])),
			Decreto:   normalizeFlag(cellAt(row, cols["decreto"])),
		})
	}

	if err := s.repo.Upsert(ctx, fornecedores); err != nil {
		return 0, fmt.Errorf("fornecedorimport.ImportXLSX: %w", err)
	}
	log.Printf("fornecedorimport.ImportXLSX: empresa=%d fornecedores=%d", empresaID, len(fornecedores))
	return len(fornecedores), nil
}

// normalizeFlag collapses the sheet's yes/no variants onto the literal
// Sim/Não values the eligibility filters compare against.
func normalizeFlag(s string) string {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "sim", "s", "yes", "1", "true":
		return "Sim"
	default:
		return "Não"
	}
}
