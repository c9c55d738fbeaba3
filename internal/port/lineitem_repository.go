package port

import "context"

// RateUpdate pairs a line-item ID with the rate to write.
type RateUpdate struct {
	ID       int64  `db:"id"`
	Aliquota string `db:"aliquota"`
}

// ResultUpdate pairs a line-item ID with its computed monetary result.
type ResultUpdate struct {
	ID        int64   `db:"id"`
	Resultado float64 `db:"resultado"`
}

// RateRow is a line item narrowed to its current rate.
type RateRow struct {
	ID       int64   `db:"id"`
	Aliquota *string `db:"aliquota"`
}

// ResultInput carries the fields needed to compute one result.
type ResultInput struct {
	ID       int64   `db:"id"`
	VlItem   string  `db:"vl_item"`
	VlDesc   string  `db:"vl_desc"`
	Aliquota *string `db:"aliquota"`
}

// LineItemRepository owns the resolved-line-item working table. Only the
// rate and result columns are ever mutated, always scoped to one company.
type LineItemRepository interface {
	// BuildFromStaging clones eligible staged C170 registers into line
	// items: CFOP in cfops, supplier in targetUF without the decree
	// exemption, description and NCM resolved from the item registry.
	BuildFromStaging(ctx context.Context, empresaID int64, targetUF string, cfops []string) (int64, error)

	// LatestDtIni returns the most recently staged 0000 start date.
	LatestDtIni(ctx context.Context, empresaID int64) (string, error)

	// UnratedMatches joins unrated line items against the tax table and
	// returns the rates the base-resolution pass must apply. useCurrent
	// selects the current or the legacy rate column.
	UnratedMatches(ctx context.Context, empresaID int64, useCurrent bool) ([]RateUpdate, error)

	// SimplesCandidates returns the rated items of the period whose
	// supplier is in the simplified regime.
	SimplesCandidates(ctx context.Context, empresaID int64, periodo string) ([]RateRow, error)

	// ResultInputs returns every line item of the company with the fields
	// needed for result computation.
	ResultInputs(ctx context.Context, empresaID int64) ([]ResultInput, error)

	UpdateRates(ctx context.Context, updates []RateUpdate) error
	UpdateResults(ctx context.Context, updates []ResultUpdate) error

	// CountUnrated reports how many line items still have no rate.
	CountUnrated(ctx context.Context, empresaID int64) (int64, error)
}
