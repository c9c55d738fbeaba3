package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"spedflow/internal/domain"
	"spedflow/internal/port"
)

type reportRepo struct {
	db *sqlx.DB
}

// NewReportRepo creates a PostgreSQL-backed ReportRepository.
func NewReportRepo(db *sqlx.DB) port.ReportRepository {
	return &reportRepo{db: db}
}

func (r *reportRepo) PeriodHeader(ctx context.Context, empresaID int64, periodo string) (*domain.PeriodHeader, error) {
	var h domain.PeriodHeader
	err := r.db.GetContext(ctx, &h,
		`SELECT id, empresa_id, periodo, dt_ini, dt_fin, nome, cnpj, arquivo
		 FROM reg_0000
		 WHERE empresa_id = $1 AND periodo = $2
		 ORDER BY id
		 LIMIT 1`, empresaID, periodo)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrPeriodNotFound
	}
	if err != nil {
		return nil, err
	}
	return &h, nil
}

func (r *reportRepo) CountRows(ctx context.Context, empresaID int64, periodo string) (int64, error) {
	var n int64
	err := r.db.GetContext(ctx, &n,
		`SELECT COUNT(*) FROM line_items WHERE empresa_id = $1 AND periodo = $2`,
		empresaID, periodo)
	return n, err
}

// StreamRows cursor-walks the period's items joined with the participant
// register of the same period. Supplier identity falls back to empty when
// the 0150 row is missing so one dangling reference never kills the export.
func (r *reportRepo) StreamRows(ctx context.Context, empresaID int64, periodo string, fn func(domain.ExportRow) error) error {
	rows, err := r.db.QueryxContext(ctx,
		`SELECT li.id, li.empresa_id, li.id_c100, li.ind_oper, li.filial, li.periodo, li.reg,
		        li.cod_part,
		        COALESCE(p.nome, '') AS nome,
		        COALESCE(p.cnpj, '') AS cnpj,
		        li.num_doc, li.cod_item, li.chv_nfe, li.num_item, li.descr_compl, li.ncm,
		        li.unid, li.qtd, li.vl_item, li.vl_desc, li.cfop, li.cst,
		        li.aliquota, li.resultado
		 FROM line_items li
		 LEFT JOIN (
		     SELECT DISTINCT ON (cod_part) cod_part, nome, cnpj
		     FROM reg_0150
		     WHERE empresa_id = $1 AND periodo = $2
		     ORDER BY cod_part, id
		 ) p ON p.cod_part = li.cod_part
		 WHERE li.empresa_id = $1 AND li.periodo = $2
		 ORDER BY li.id`, empresaID, periodo)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var row domain.ExportRow
		if err := rows.StructScan(&row); err != nil {
			return err
		}
		if err := fn(row); err != nil {
			return err
		}
	}
	return rows.Err()
}
