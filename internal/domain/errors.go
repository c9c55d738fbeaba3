package domain

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound          = errors.New("resource not found")
	ErrEmpresaNotFound   = errors.New("empresa not found")
	ErrRunNotFound       = errors.New("pipeline run not found")
	ErrTaxTableMissing   = errors.New("tributação não encontrada; envie primeiro a tributação")
	ErrPeriodNotFound    = errors.New("período não encontrado na tabela 0000")
	ErrNoExportData      = errors.New("não existem dados para o mês e ano selecionados")
	ErrRatesUnresolved   = errors.New("alíquotas pendentes de preenchimento")
	ErrNoFilesSupplied   = errors.New("nenhum arquivo selecionado")
	ErrUnsupportedUpload = errors.New("unsupported file type")
	ErrDuplicateEmpresa  = errors.New("empresa already exists")
	ErrRunNotClaimable   = errors.New("run is not in a claimable state")
)

// MalformedRecordError reports a structurally invalid line that makes the
// whole file unprocessable.
type MalformedRecordError struct {
	Line int
	Kind string
	Msg  string
}

func (e *MalformedRecordError) Error() string {
	return fmt.Sprintf("registro %s malformado na linha %d: %s", e.Kind, e.Line, e.Msg)
}

// DanglingReferenceError reports a line item whose parent document header
// was not seen earlier in the same file.
type DanglingReferenceError struct {
	File string
	Line int
}

func (e *DanglingReferenceError) Error() string {
	return fmt.Sprintf("C170 sem C100 pai (arquivo %s, linha %d)", e.File, e.Line)
}
