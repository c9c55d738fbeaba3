package port

import (
	"context"

	"github.com/google/uuid"

	"spedflow/internal/domain"
)

// Reg0150Row is a staged participant register.
type Reg0150Row struct {
	EmpresaID int64  `db:"empresa_id"`
	Periodo   string `db:"periodo"`
	CodPart   string `db:"cod_part"`
	Nome      string `db:"nome"`
	CNPJ      string `db:"cnpj"`
}

// Reg0200Row is a staged item register.
type Reg0200Row struct {
	EmpresaID int64  `db:"empresa_id"`
	Periodo   string `db:"periodo"`
	CodItem   string `db:"cod_item"`
	DescrItem string `db:"descr_item"`
	UnidInv   string `db:"unid_inv"`
	TipoItem  string `db:"tipo_item"`
	CodNCM    string `db:"cod_ncm"`
}

// RegC100Row is a staged document header. IDs are assigned client side so
// line registers can reference their parent inside the same bulk insert.
type RegC100Row struct {
	ID        uuid.UUID `db:"id"`
	EmpresaID int64     `db:"empresa_id"`
	Periodo   string    `db:"periodo"`
	Filial    string    `db:"filial"`
	IndOper   string    `db:"ind_oper"`
	IndEmit   string    `db:"ind_emit"`
	CodPart   string    `db:"cod_part"`
	CodMod    string    `db:"cod_mod"`
	CodSit    string    `db:"cod_sit"`
	Ser       string    `db:"ser"`
	NumDoc    string    `db:"num_doc"`
	ChvNfe    string    `db:"chv_nfe"`
	DtDoc     string    `db:"dt_doc"`
	VlDoc     string    `db:"vl_doc"`
}

// RegC170Row is a staged line register pointing at its parent document.
type RegC170Row struct {
	EmpresaID  int64     `db:"empresa_id"`
	Periodo    string    `db:"periodo"`
	IDC100     uuid.UUID `db:"id_c100"`
	Filial     string    `db:"filial"`
	IndOper    string    `db:"ind_oper"`
	NumItem    string    `db:"num_item"`
	CodItem    string    `db:"cod_item"`
	DescrCompl string    `db:"descr_compl"`
	Qtd        string    `db:"qtd"`
	Unid       string    `db:"unid"`
	VlItem     string    `db:"vl_item"`
	VlDesc     string    `db:"vl_desc"`
	CST        string    `db:"cst"`
	CFOP       string    `db:"cfop"`
	CodPart    string    `db:"cod_part"`
	NumDoc     string    `db:"num_doc"`
	ChvNfe     string    `db:"chv_nfe"`
}

// StagingRepository persists parsed registers. Each Insert call runs in its
// own transaction; callers slice their record sets into chunks so a
// mid-batch failure loses at most one chunk.
type StagingRepository interface {
	InsertHeaders(ctx context.Context, rows []domain.PeriodHeader) error
	InsertParticipants(ctx context.Context, rows []Reg0150Row) error
	InsertItems(ctx context.Context, rows []Reg0200Row) error
	InsertDocuments(ctx context.Context, rows []RegC100Row) error
	InsertLines(ctx context.Context, rows []RegC170Row) error
}
