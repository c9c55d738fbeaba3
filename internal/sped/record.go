package sped

// RecordKind is the register tag carried in the first field of every SPED
// line. Only the kinds below participate in the pipeline; all other tags
// are skipped by the scanner.
type RecordKind string

const (
	Kind0000 RecordKind = "0000"
	Kind0150 RecordKind = "0150"
	Kind0200 RecordKind = "0200"
	KindC100 RecordKind = "C100"
	KindC170 RecordKind = "C170"
)

// minFields is the schema-specific required field count per kind, counting
// from the register tag (field 1) through the last field the pipeline
// consumes. Lines with fewer fields are skipped with a warning; extra
// fields are truncated.
var minFields = map[RecordKind]int{
	Kind0000: 8,
	Kind0150: 6,
	Kind0200: 9,
	KindC100: 13,
	KindC170: 12,
}

// Record is the closed union over the register kinds. Concrete types are
// Reg0000, Reg0150, Reg0200, RegC100 and RegC170; the sealed method keeps
// the set closed so kind switches stay exhaustive.
type Record interface {
	Kind() RecordKind
	LineNo() int
	sealed()
}

// Reg0000 opens a file: the declared period range and the filing company.
type Reg0000 struct {
	Line  int
	DtIni string // DDMMYYYY
	DtFin string // DDMMYYYY
	Nome  string
	CNPJ  string
}

func (r Reg0000) Kind() RecordKind { return Kind0000 }
func (r Reg0000) LineNo() int      { return r.Line }
func (Reg0000) sealed()            {}

// Reg0150 registers a participant (supplier/customer).
type Reg0150 struct {
	Line    int
	CodPart string
	Nome    string
	CNPJ    string
}

func (r Reg0150) Kind() RecordKind { return Kind0150 }
func (r Reg0150) LineNo() int      { return r.Line }
func (Reg0150) sealed()            {}

// Reg0200 registers an item: the product description and its NCM
// classification, both part of the tax-registration join key.
type Reg0200 struct {
	Line      int
	CodItem   string
	DescrItem string
	UnidInv   string
	TipoItem  string
	CodNCM    string
}

func (r Reg0200) Kind() RecordKind { return Kind0200 }
func (r Reg0200) LineNo() int      { return r.Line }
func (Reg0200) sealed()            {}

// RegC100 is a fiscal document header; following C170 lines belong to the
// most recently seen C100 within the same file.
type RegC100 struct {
	Line    int
	IndOper string
	IndEmit string
	CodPart string
	CodMod  string
	CodSit  string
	Ser     string
	NumDoc  string
	ChvNfe  string
	DtDoc   string
	VlDoc   string
}

func (r RegC100) Kind() RecordKind { return KindC100 }
func (r RegC100) LineNo() int      { return r.Line }
func (RegC100) sealed()            {}

// RegC170 is a document line item. Monetary fields keep their textual
// encoding; conversion happens at resolution time.
type RegC170 struct {
	Line       int
	NumItem    string
	CodItem    string
	DescrCompl string
	Qtd        string
	Unid       string
	VlItem     string
	VlDesc     string
	CST        string
	CFOP       string
}

func (r RegC170) Kind() RecordKind { return KindC170 }
func (r RegC170) LineNo() int      { return r.Line }
func (RegC170) sealed()            {}
