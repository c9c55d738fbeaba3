package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"spedflow/internal/port"
)

type lineItemRepo struct {
	db *sqlx.DB
}

// NewLineItemRepo creates a PostgreSQL-backed LineItemRepository.
func NewLineItemRepo(db *sqlx.DB) port.LineItemRepository {
	return &lineItemRepo{db: db}
}

func (r *lineItemRepo) BuildFromStaging(ctx context.Context, empresaID int64, targetUF string, cfops []string) (int64, error) {
	query, args, err := sqlx.In(
		`INSERT INTO line_items (empresa_id, periodo, id_c100, filial, ind_oper, reg, cod_part,
		                         num_doc, chv_nfe, num_item, cod_item, descr_compl, ncm, unid,
		                         qtd, vl_item, vl_desc, cfop, cst)
		 SELECT c.empresa_id, c.periodo, c.id_c100, c.filial, c.ind_oper, 'C170', cc.cod_part,
		        cc.num_doc, cc.chv_nfe, c.num_item, c.cod_item,
		        COALESCE(NULLIF(i.descr_item, ''), c.descr_compl),
		        COALESCE(i.cod_ncm, ''), c.unid,
		        c.qtd, c.vl_item, c.vl_desc, c.cfop, c.cst
		 FROM reg_c170 c
		 JOIN reg_c100 cc ON cc.id = c.id_c100
		 JOIN cadastro_fornecedores f
		   ON f.cod_part = cc.cod_part AND f.empresa_id = c.empresa_id
		 LEFT JOIN reg_0200 i
		   ON i.empresa_id = c.empresa_id AND i.periodo = c.periodo AND i.cod_item = c.cod_item
		 WHERE c.empresa_id = ?
		   AND c.cfop IN (?)
		   AND f.uf = ?
		   AND f.decreto = 'Não'
		   AND NOT EXISTS (
		       SELECT 1 FROM line_items li
		       WHERE li.empresa_id = c.empresa_id
		         AND li.id_c100 = c.id_c100
		         AND li.num_item = c.num_item
		         AND li.cod_item = c.cod_item
		   )`,
		empresaID, cfops, targetUF)
	if err != nil {
		return 0, err
	}
	res, err := r.db.ExecContext(ctx, r.db.Rebind(query), args...)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (r *lineItemRepo) LatestDtIni(ctx context.Context, empresaID int64) (string, error) {
	var dtIni string
	err := r.db.GetContext(ctx, &dtIni,
		`SELECT dt_ini FROM reg_0000 WHERE empresa_id = $1 ORDER BY id DESC LIMIT 1`, empresaID)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	return dtIni, err
}

func (r *lineItemRepo) UnratedMatches(ctx context.Context, empresaID int64, useCurrent bool) ([]port.RateUpdate, error) {
	column := "aliquota_antiga"
	if useCurrent {
		column = "aliquota"
	}
	// column is one of two fixed identifiers, never user input
	query := fmt.Sprintf(
		`SELECT n.id, LEFT(c.%[1]s, 10) AS aliquota
		 FROM line_items n
		 JOIN cadastro_tributacao c
		   ON c.empresa_id = n.empresa_id
		  AND c.produto = n.descr_compl
		  AND c.ncm = n.ncm
		 WHERE n.empresa_id = $1
		   AND (n.aliquota IS NULL OR n.aliquota = '')
		   AND c.%[1]s IS NOT NULL AND c.%[1]s != ''
		 ORDER BY n.id`, column)

	var updates []port.RateUpdate
	if err := r.db.SelectContext(ctx, &updates, query, empresaID); err != nil {
		return nil, err
	}
	return updates, nil
}

func (r *lineItemRepo) SimplesCandidates(ctx context.Context, empresaID int64, periodo string) ([]port.RateRow, error) {
	var rows []port.RateRow
	err := r.db.SelectContext(ctx, &rows,
		`SELECT c.id, c.aliquota
		 FROM line_items c
		 JOIN cadastro_fornecedores f
		   ON f.cod_part = c.cod_part AND f.empresa_id = $1
		 WHERE c.periodo = $2 AND c.empresa_id = $1
		   AND f.simples = 'Sim'
		 ORDER BY c.id`, empresaID, periodo)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *lineItemRepo) ResultInputs(ctx context.Context, empresaID int64) ([]port.ResultInput, error) {
	var rows []port.ResultInput
	err := r.db.SelectContext(ctx, &rows,
		`SELECT id, vl_item, vl_desc, aliquota
		 FROM line_items
		 WHERE empresa_id = $1
		 ORDER BY id`, empresaID)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *lineItemRepo) UpdateRates(ctx context.Context, updates []port.RateUpdate) error {
	if len(updates) == 0 {
		return nil
	}
	ids := make([]int64, len(updates))
	rates := make([]string, len(updates))
	for i, u := range updates {
		ids[i] = u.ID
		rates[i] = u.Aliquota
	}
	_, err := r.db.ExecContext(ctx,
		`UPDATE line_items AS li
		 SET aliquota = u.aliquota
		 FROM (SELECT unnest($1::bigint[]) AS id, unnest($2::text[]) AS aliquota) u
		 WHERE li.id = u.id`, ids, rates)
	return err
}

func (r *lineItemRepo) UpdateResults(ctx context.Context, updates []port.ResultUpdate) error {
	if len(updates) == 0 {
		return nil
	}
	ids := make([]int64, len(updates))
	results := make([]float64, len(updates))
	for i, u := range updates {
		ids[i] = u.ID
		results[i] = u.Resultado
	}
	_, err := r.db.ExecContext(ctx,
		`UPDATE line_items AS li
		 SET resultado = u.resultado
		 FROM (SELECT unnest($1::bigint[]) AS id, unnest($2::numeric[]) AS resultado) u
		 WHERE li.id = u.id`, ids, results)
	return err
}

func (r *lineItemRepo) CountUnrated(ctx context.Context, empresaID int64) (int64, error) {
	var count int64
	err := r.db.GetContext(ctx, &count,
		`SELECT COUNT(*) FROM line_items
		 WHERE empresa_id = $1 AND (aliquota IS NULL OR aliquota = '')`, empresaID)
	return count, err
}
