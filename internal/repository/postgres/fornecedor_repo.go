package postgres

import (
	"context"

	"github.com/jmoiron/sqlx"

	"spedflow/internal/domain"
	"spedflow/internal/port"
)

type fornecedorRepo struct {
	db *sqlx.DB
}

// NewFornecedorRepo creates a PostgreSQL-backed FornecedorRepository.
func NewFornecedorRepo(db *sqlx.DB) port.FornecedorRepository {
	return &fornecedorRepo{db: db}
}

func (r *fornecedorRepo) Upsert(ctx context.Context, rows []domain.Fornecedor) error {
	if len(rows) == 0 {
		return nil
	}
	_, err := r.db.NamedExecContext(ctx,
		`INSERT INTO cadastro_fornecedores (cod_part, empresa_id, nome, cnpj, uf, simples, decreto)
		 VALUES (:cod_part, :empresa_id, :nome, :cnpj, :uf, :simples, :decreto)
		 ON CONFLICT (cod_part, empresa_id) DO UPDATE
		 SET nome = EXCLUDED.nome, cnpj = EXCLUDED.cnpj, uf = EXCLUDED.uf,
		     simples = EXCLUDED.simples, decreto = EXCLUDED.decreto`, rows)
	return err
}

func (r *fornecedorRepo) ListByEmpresa(ctx context.Context, empresaID int64) ([]domain.Fornecedor, error) {
	rows := []domain.Fornecedor{}
	err := r.db.SelectContext(ctx, &rows,
		`SELECT cod_part, empresa_id, nome, cnpj, uf, simples, decreto
		 FROM cadastro_fornecedores
		 WHERE empresa_id = $1
		 ORDER BY cod_part`, empresaID)
	return rows, err
}
