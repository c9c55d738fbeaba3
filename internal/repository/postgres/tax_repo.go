package postgres

import (
	"context"

	"github.com/jmoiron/sqlx"

	"spedflow/internal/domain"
	"spedflow/internal/port"
)

type taxRepo struct {
	db *sqlx.DB
}

// NewTaxRepo creates a PostgreSQL-backed TaxRegistrationRepository.
func NewTaxRepo(db *sqlx.DB) port.TaxRegistrationRepository {
	return &taxRepo{db: db}
}

func (r *taxRepo) HasAny(ctx context.Context, empresaID int64) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists,
		`SELECT EXISTS (SELECT 1 FROM cadastro_tributacao WHERE empresa_id = $1)`, empresaID)
	return exists, err
}

func (r *taxRepo) ListByEmpresa(ctx context.Context, empresaID int64) ([]domain.TaxRegistration, error) {
	rows := []domain.TaxRegistration{}
	err := r.db.SelectContext(ctx, &rows,
		`SELECT id, empresa_id, codigo, produto, ncm,
		        COALESCE(aliquota, '') AS aliquota,
		        COALESCE(aliquota_antiga, '') AS aliquota_antiga,
		        categoria_fiscal
		 FROM cadastro_tributacao
		 WHERE empresa_id = $1
		 ORDER BY produto, ncm`, empresaID)
	return rows, err
}

func (r *taxRepo) Insert(ctx context.Context, rows []domain.TaxRegistration) error {
	if len(rows) == 0 {
		return nil
	}
	_, err := r.db.NamedExecContext(ctx,
		`INSERT INTO cadastro_tributacao (empresa_id, codigo, produto, ncm, aliquota, aliquota_antiga, categoria_fiscal)
		 VALUES (:empresa_id, :codigo, :produto, :ncm, :aliquota, :aliquota_antiga, :categoria_fiscal)`, rows)
	return err
}

func (r *taxRepo) Touch(ctx context.Context, empresaID int64, rows []domain.TaxRegistration) error {
	if len(rows) == 0 {
		return nil
	}
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, row := range rows {
		if _, err := tx.ExecContext(ctx,
			`UPDATE cadastro_tributacao
			 SET aliquota = $1, categoria_fiscal = $2
			 WHERE empresa_id = $3 AND codigo = $4 AND produto = $5 AND ncm = $6`,
			row.Aliquota, row.CategoriaFiscal, empresaID, row.Codigo, row.Produto, row.NCM); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// BackfillLegacyRates applies the fixed correspondence between current and
// legacy rates. Rates without a counterpart get the N/A marker so resolution
// can tell "no legacy rate" from "never imported".
func (r *taxRepo) BackfillLegacyRates(ctx context.Context, empresaID int64) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE cadastro_tributacao
		 SET aliquota_antiga = CASE TRIM(aliquota)
		     WHEN 'ST'     THEN 'ST'
		     WHEN 'ISENTO' THEN 'ISENTO'
		     WHEN 'PAUTA'  THEN 'PAUTA'
		     WHEN '1.54%'  THEN '1.40%'
		     WHEN '2.63%'  THEN '2.40%'
		     WHEN '4%'     THEN '3.60%'
		     WHEN '4.00%'  THEN '3.60%'
		     WHEN '8.13%'  THEN '8.13%'
		     ELSE 'N/A'
		 END
		 WHERE empresa_id = $1 AND aliquota IS NOT NULL AND TRIM(aliquota) <> ''`,
		empresaID)
	return err
}

func (r *taxRepo) RegisterUnresolved(ctx context.Context, empresaID int64) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO cadastro_tributacao (empresa_id, codigo, produto, ncm)
		 SELECT DISTINCT ON (li.descr_compl, li.ncm)
		        li.empresa_id, li.cod_item, li.descr_compl, li.ncm
		 FROM line_items li
		 WHERE li.empresa_id = $1
		   AND li.aliquota IS NULL
		   AND NOT EXISTS (
		       SELECT 1 FROM cadastro_tributacao ct
		       WHERE ct.empresa_id = li.empresa_id
		         AND ct.produto = li.descr_compl
		         AND ct.ncm = li.ncm
		   )
		 ORDER BY li.descr_compl, li.ncm, li.id`, empresaID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (r *taxRepo) ListUnresolved(ctx context.Context, empresaID int64) ([]domain.UnresolvedItem, error) {
	items := []domain.UnresolvedItem{}
	err := r.db.SelectContext(ctx, &items,
		`SELECT MIN(id) AS id, MIN(codigo) AS codigo, produto, ncm
		 FROM cadastro_tributacao
		 WHERE empresa_id = $1
		   AND (aliquota IS NULL OR TRIM(aliquota) = '')
		 GROUP BY produto, ncm
		 ORDER BY produto, ncm`, empresaID)
	return items, err
}

func (r *taxRepo) HasUnresolved(ctx context.Context, empresaID int64) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists,
		`SELECT EXISTS (
		     SELECT 1 FROM cadastro_tributacao
		     WHERE empresa_id = $1 AND (aliquota IS NULL OR TRIM(aliquota) = '')
		 )`, empresaID)
	return exists, err
}

// ApplyResolved updates every blank-rate row sharing the answered (produto,
// ncm) group, not just the representative id, so the whole group leaves the
// unresolved set at once.
func (r *taxRepo) ApplyResolved(ctx context.Context, empresaID int64, rates []domain.ResolvedRate) error {
	if len(rates) == 0 {
		return nil
	}
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, rate := range rates {
		if _, err := tx.ExecContext(ctx,
			`UPDATE cadastro_tributacao
			 SET aliquota = $1, categoria_fiscal = $2
			 WHERE empresa_id = $3
			   AND (aliquota IS NULL OR TRIM(aliquota) = '')
			   AND (produto, ncm) = (
			       SELECT produto, ncm FROM cadastro_tributacao WHERE id = $4
			   )`,
			rate.Aliquota, rate.CategoriaFiscal, empresaID, rate.ID); err != nil {
			return err
		}
	}
	return tx.Commit()
}
