package domain

import (
	"time"

	"github.com/google/uuid"
)

// Empresa is the company that owns every staged and resolved row. Companies
// are managed by account administration; this service only scopes queries
// by their ID.
type Empresa struct {
	ID          int64  `db:"id" json:"id"`
	RazaoSocial string `db:"razao_social" json:"razao_social"`
	CNPJ        string `db:"cnpj" json:"cnpj"`
}

// LineItem is a merchandise-movement line cloned from the staged C170
// registers, enriched with its document metadata and the NCM resolved from
// the item registry. Aliquota and Resultado stay null until resolution.
type LineItem struct {
	ID         int64     `db:"id" json:"id"`
	EmpresaID  int64     `db:"empresa_id" json:"empresa_id"`
	Periodo    string    `db:"periodo" json:"periodo"`
	IDC100     uuid.UUID `db:"id_c100" json:"id_c100"`
	Filial     string    `db:"filial" json:"filial"`
	IndOper    string    `db:"ind_oper" json:"ind_oper"`
	Reg        string    `db:"reg" json:"reg"`
	CodPart    string    `db:"cod_part" json:"cod_part"`
	NumDoc     string    `db:"num_doc" json:"num_doc"`
	ChvNfe     string    `db:"chv_nfe" json:"chv_nfe"`
	NumItem    string    `db:"num_item" json:"num_item"`
	CodItem    string    `db:"cod_item" json:"cod_item"`
	DescrCompl string    `db:"descr_compl" json:"descr_compl"`
	NCM        string    `db:"ncm" json:"ncm"`
	Unid       string    `db:"unid" json:"unid"`
	Qtd        string    `db:"qtd" json:"qtd"`
	VlItem     string    `db:"vl_item" json:"vl_item"`
	VlDesc     string    `db:"vl_desc" json:"vl_desc"`
	CFOP       string    `db:"cfop" json:"cfop"`
	CST        string    `db:"cst" json:"cst"`
	Aliquota   *string   `db:"aliquota" json:"aliquota"`
	Resultado  *float64  `db:"resultado" json:"resultado"`
}

// TaxRegistration is a reference row of the company's tax table. The
// current-rate column applies to periods from the cutover year onward; the
// legacy column to earlier periods.
type TaxRegistration struct {
	ID              int64  `db:"id" json:"id"`
	EmpresaID       int64  `db:"empresa_id" json:"empresa_id"`
	Codigo          string `db:"codigo" json:"codigo"`
	Produto         string `db:"produto" json:"produto"`
	NCM             string `db:"ncm" json:"ncm"`
	Aliquota        string `db:"aliquota" json:"aliquota"`
	AliquotaAntiga  string `db:"aliquota_antiga" json:"aliquota_antiga"`
	CategoriaFiscal string `db:"categoria_fiscal" json:"categoria_fiscal"`
}

// Fornecedor is a supplier reference row keyed by (cod_part, empresa_id).
// Eligibility flags carry the literal Sim/Não values of the upstream import.
type Fornecedor struct {
	CodPart   string `db:"cod_part" json:"cod_part"`
	EmpresaID int64  `db:"empresa_id" json:"empresa_id"`
	Nome      string `db:"nome" json:"nome"`
	CNPJ      string `db:"cnpj" json:"cnpj"`
	UF        string `db:"uf" json:"uf"`
	Simples   string `db:"simples" json:"simples"`
	Decreto   string `db:"decreto" json:"decreto"`
}

// UnresolvedItem identifies a (produto, ncm) group whose rate could not be
// determined automatically and awaits human input.
type UnresolvedItem struct {
	ID      int64  `db:"id" json:"id"`
	Codigo  string `db:"codigo" json:"codigo"`
	Produto string `db:"produto" json:"produto"`
	NCM     string `db:"ncm" json:"ncm"`
}

// ResolvedRate is the escalation answer for one unresolved item. The
// fiscal category is derived from the rate before write-back.
type ResolvedRate struct {
	ID              int64  `json:"id"`
	NCM             string `json:"ncm"`
	Aliquota        string `json:"aliquota"`
	CategoriaFiscal string `json:"-"`
}

// PipelineRun is the bookkeeping row of one ingestion run; it doubles as
// the progress sink visible to API callers.
type PipelineRun struct {
	ID          uuid.UUID `db:"id" json:"id"`
	EmpresaID   int64     `db:"empresa_id" json:"empresa_id"`
	Status      RunStatus `db:"status" json:"status"`
	Progress    int       `db:"progress" json:"progress"`
	CurrentFile string    `db:"current_file" json:"current_file"`
	Message     string    `db:"message" json:"message"`
	FilePaths   []string  `db:"-" json:"file_paths"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

// PeriodHeader is the 0000 register of one file: the declared period range
// and the identity of the filing company.
type PeriodHeader struct {
	ID        int64  `db:"id" json:"id"`
	EmpresaID int64  `db:"empresa_id" json:"empresa_id"`
	Periodo   string `db:"periodo" json:"periodo"`
	DtIni     string `db:"dt_ini" json:"dt_ini"`
	DtFin     string `db:"dt_fin" json:"dt_fin"`
	Nome      string `db:"nome" json:"nome"`
	CNPJ      string `db:"cnpj" json:"cnpj"`
	Arquivo   string `db:"arquivo" json:"arquivo"`
}

// ExportRow is one data row of the period report: a resolved line item
// joined with its supplier identity.
type ExportRow struct {
	ID         int64     `db:"id"`
	EmpresaID  int64     `db:"empresa_id"`
	IDC100     uuid.UUID `db:"id_c100"`
	IndOper    string    `db:"ind_oper"`
	Filial     string    `db:"filial"`
	Periodo    string    `db:"periodo"`
	Reg        string    `db:"reg"`
	CodPart    string    `db:"cod_part"`
	Nome       string    `db:"nome"`
	CNPJ       string    `db:"cnpj"`
	NumDoc     string    `db:"num_doc"`
	CodItem    string    `db:"cod_item"`
	ChvNfe     string    `db:"chv_nfe"`
	NumItem    string    `db:"num_item"`
	DescrCompl string    `db:"descr_compl"`
	NCM        string    `db:"ncm"`
	Unid       string    `db:"unid"`
	Qtd        string    `db:"qtd"`
	VlItem     string    `db:"vl_item"`
	VlDesc     string    `db:"vl_desc"`
	CFOP       string    `db:"cfop"`
	CST        string    `db:"cst"`
	Aliquota   *string   `db:"aliquota"`
	Resultado  *float64  `db:"resultado"`
}
