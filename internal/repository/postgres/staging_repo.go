package postgres

import (
	"context"

	"github.com/jmoiron/sqlx"

	"spedflow/internal/domain"
	"spedflow/internal/port"
)

type stagingRepo struct {
	db *sqlx.DB
}

// NewStagingRepo creates a PostgreSQL-backed StagingRepository.
func NewStagingRepo(db *sqlx.DB) port.StagingRepository {
	return &stagingRepo{db: db}
}

func (r *stagingRepo) InsertHeaders(ctx context.Context, rows []domain.PeriodHeader) error {
	if len(rows) == 0 {
		return nil
	}
	_, err := r.db.NamedExecContext(ctx,
		`INSERT INTO reg_0000 (empresa_id, periodo, dt_ini, dt_fin, nome, cnpj, arquivo)
		 VALUES (:empresa_id, :periodo, :dt_ini, :dt_fin, :nome, :cnpj, :arquivo)`, rows)
	return err
}

func (r *stagingRepo) InsertParticipants(ctx context.Context, rows []port.Reg0150Row) error {
	if len(rows) == 0 {
		return nil
	}
	_, err := r.db.NamedExecContext(ctx,
		`INSERT INTO reg_0150 (empresa_id, periodo, cod_part, nome, cnpj)
		 VALUES (:empresa_id, :periodo, :cod_part, :nome, :cnpj)`, rows)
	return err
}

func (r *stagingRepo) InsertItems(ctx context.Context, rows []port.Reg0200Row) error {
	if len(rows) == 0 {
		return nil
	}
	_, err := r.db.NamedExecContext(ctx,
		`INSERT INTO reg_0200 (empresa_id, periodo, cod_item, descr_item, unid_inv, tipo_item, cod_ncm)
		 VALUES (:empresa_id, :periodo, :cod_item, :descr_item, :unid_inv, :tipo_item, :cod_ncm)`, rows)
	return err
}

func (r *stagingRepo) InsertDocuments(ctx context.Context, rows []port.RegC100Row) error {
	if len(rows) == 0 {
		return nil
	}
	_, err := r.db.NamedExecContext(ctx,
		`INSERT INTO reg_c100 (id, empresa_id, periodo, filial, ind_oper, ind_emit, cod_part,
		                       cod_mod, cod_sit, ser, num_doc, chv_nfe, dt_doc, vl_doc)
		 VALUES (:id, :empresa_id, :periodo, :filial, :ind_oper, :ind_emit, :cod_part,
		         :cod_mod, :cod_sit, :ser, :num_doc, :chv_nfe, :dt_doc, :vl_doc)`, rows)
	return err
}

func (r *stagingRepo) InsertLines(ctx context.Context, rows []port.RegC170Row) error {
	if len(rows) == 0 {
		return nil
	}
	_, err := r.db.NamedExecContext(ctx,
		`INSERT INTO reg_c170 (empresa_id, periodo, id_c100, filial, ind_oper, num_item, cod_item,
		                       descr_compl, qtd, unid, vl_item, vl_desc, cst, cfop, cod_part, num_doc, chv_nfe)
		 VALUES (:empresa_id, :periodo, :id_c100, :filial, :ind_oper, :num_item, :cod_item,
		         :descr_compl, :qtd, :unid, :vl_item, :vl_desc, :cst, :cfop, :cod_part, :num_doc, :chv_nfe)`, rows)
	return err
}
