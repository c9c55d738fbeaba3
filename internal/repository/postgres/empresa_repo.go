package postgres

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/jmoiron/sqlx"

	"spedflow/internal/domain"
	"spedflow/internal/port"
)

type empresaRepo struct {
	db *sqlx.DB
}

// NewEmpresaRepo creates a PostgreSQL-backed EmpresaRepository.
func NewEmpresaRepo(db *sqlx.DB) port.EmpresaRepository {
	return &empresaRepo{db: db}
}

func (r *empresaRepo) List(ctx context.Context) ([]domain.Empresa, error) {
	empresas := []domain.Empresa{}
	err := r.db.SelectContext(ctx, &empresas,
		`SELECT id, razao_social, cnpj FROM empresas ORDER BY razao_social`)
	return empresas, err
}

func (r *empresaRepo) GetByID(ctx context.Context, id int64) (*domain.Empresa, error) {
	var e domain.Empresa
	err := r.db.GetContext(ctx, &e,
		`SELECT id, razao_social, cnpj FROM empresas WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrEmpresaNotFound
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *empresaRepo) Create(ctx context.Context, e *domain.Empresa) error {
	err := r.db.QueryRowxContext(ctx,
		`INSERT INTO empresas (razao_social, cnpj) VALUES ($1, $2) RETURNING id`,
		e.RazaoSocial, e.CNPJ).Scan(&e.ID)
	if err != nil && strings.Contains(err.Error(), "duplicate key") {
		return domain.ErrDuplicateEmpresa
	}
	return err
}
